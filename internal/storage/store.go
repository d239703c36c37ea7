package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Fazal135/simple-order-app/internal/models"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Challenge is a pending one-time passcode for a single email.
type Challenge struct {
	Email     string
	Nonce     string
	CodeHash  string
	Name      string
	ExpiresAt time.Time
}

// ChallengeStore holds at most one live challenge per email.
type ChallengeStore interface {
	// PutChallenge replaces any challenge already stored for the email.
	PutChallenge(ctx context.Context, challenge Challenge) error
	GetChallenge(ctx context.Context, email string) (Challenge, error)
	// ConsumeChallenge deletes the challenge only if it still carries nonce.
	// It reports false when another caller consumed or replaced it first.
	ConsumeChallenge(ctx context.Context, email, nonce string) (bool, error)
	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

// CustomerStore persists customers keyed by unique email.
type CustomerStore interface {
	// EnsureCustomer returns the customer for email, creating it with name when absent.
	// An existing customer's name is left untouched.
	EnsureCustomer(ctx context.Context, name, email string) (models.Customer, bool, error)
}

// OrderStore persists orders together with their items.
type OrderStore interface {
	// CreateOrder writes the order and all of its items in one transaction.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (models.Order, error)
	ListOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, int64, error)
}
