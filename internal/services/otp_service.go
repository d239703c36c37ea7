package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fazal135/simple-order-app/internal/storage"
	"github.com/Fazal135/simple-order-app/internal/utils"
)

// DefaultOTPTTL is how long an issued code stays valid.
const DefaultOTPTTL = 5 * time.Minute

// IssuedOTP is the plaintext code handed to the mailer, never stored.
type IssuedOTP struct {
	Code      string
	ExpiresAt time.Time
}

// OTPService issues and verifies one-time passcodes over a ChallengeStore.
type OTPService struct {
	store    storage.ChallengeStore
	ttl      time.Duration
	hashCost int
	clock    func() time.Time
	generate func() (string, error)
}

// OTPOption customizes an OTPService.
type OTPOption func(*OTPService)

// WithOTPTTL overrides DefaultOTPTTL.
func WithOTPTTL(ttl time.Duration) OTPOption {
	return func(s *OTPService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithOTPHashCost sets the bcrypt cost used for stored codes.
func WithOTPHashCost(cost int) OTPOption {
	return func(s *OTPService) {
		s.hashCost = cost
	}
}

// WithOTPClock replaces time.Now.
func WithOTPClock(clock func() time.Time) OTPOption {
	return func(s *OTPService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithOTPGenerator replaces utils.GenerateOTP.
func WithOTPGenerator(generate func() (string, error)) OTPOption {
	return func(s *OTPService) {
		if generate != nil {
			s.generate = generate
		}
	}
}

// NewOTPService constructs an OTPService.
func NewOTPService(store storage.ChallengeStore, opts ...OTPOption) *OTPService {
	s := &OTPService{
		store:    store,
		ttl:      DefaultOTPTTL,
		hashCost: bcrypt.DefaultCost,
		clock:    time.Now,
		generate: utils.GenerateOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL reports how long issued codes stay valid.
func (s *OTPService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a fresh challenge for email, replacing any earlier one.
func (s *OTPService) Issue(ctx context.Context, email, name string) (IssuedOTP, error) {
	code, err := s.generate()
	if err != nil {
		return IssuedOTP{}, err
	}
	hash, err := utils.HashOTP(code, s.hashCost)
	if err != nil {
		return IssuedOTP{}, err
	}

	expiresAt := s.clock().Add(s.ttl)
	challenge := storage.Challenge{
		Email:     email,
		Nonce:     uuid.NewString(),
		CodeHash:  hash,
		Name:      name,
		ExpiresAt: expiresAt,
	}
	if err := s.store.PutChallenge(ctx, challenge); err != nil {
		return IssuedOTP{}, &PersistenceError{Op: "put otp challenge", Err: err}
	}
	return IssuedOTP{Code: code, ExpiresAt: expiresAt}, nil
}

// Verify checks code against the live challenge for email and consumes it on
// success, returning the display name captured at issue time. When two calls
// race on the same challenge only one succeeds; the other gets ErrOTPNotFound.
func (s *OTPService) Verify(ctx context.Context, email, code string) (string, error) {
	challenge, err := s.store.GetChallenge(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrOTPNotFound
		}
		return "", &PersistenceError{Op: "get otp challenge", Err: err}
	}

	if s.clock().After(challenge.ExpiresAt) {
		removed, err := s.store.ConsumeChallenge(ctx, email, challenge.Nonce)
		if err != nil {
			log.Printf("[OTP] removing expired challenge for %s failed: %v", email, err)
		} else if !removed {
			// Re-issued or consumed since it was read.
			return "", ErrOTPNotFound
		}
		return "", ErrOTPExpired
	}

	if !utils.CheckOTP(challenge.CodeHash, code) {
		return "", ErrOTPMismatch
	}

	consumed, err := s.store.ConsumeChallenge(ctx, email, challenge.Nonce)
	if err != nil {
		return "", &PersistenceError{Op: "consume otp challenge", Err: err}
	}
	if !consumed {
		return "", ErrOTPNotFound
	}
	return challenge.Name, nil
}

// SweepExpired drops challenges nobody verified before they expired.
func (s *OTPService) SweepExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredChallenges(ctx, s.clock())
}
