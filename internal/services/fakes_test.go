package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fazal135/simple-order-app/internal/models"
	"github.com/Fazal135/simple-order-app/internal/storage"
)

type recordingMailer struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.err
}

func (m *recordingMailer) sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

var otpCodePattern = regexp.MustCompile(`\b\d{6}\b`)

func codeFromMail(t *testing.T, msg Message) string {
	t.Helper()
	code := otpCodePattern.FindString(msg.Text)
	if code == "" {
		t.Fatalf("no 6-digit code in mail %q", msg.Text)
	}
	return code
}

type fakeCustomerStore struct {
	mu        sync.Mutex
	customers map[string]models.Customer
	err       error
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[string]models.Customer)}
}

func (s *fakeCustomerStore) EnsureCustomer(_ context.Context, name, email string) (models.Customer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Customer{}, false, s.err
	}
	if customer, ok := s.customers[email]; ok {
		return customer, false, nil
	}
	customer := models.Customer{Name: name, Email: email}
	customer.ID = uuid.New()
	s.customers[email] = customer
	return customer, true, nil
}

func (s *fakeCustomerStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
	calls  int
	err    error
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	s.orders = append(s.orders, stored)
	return nil
}

func (s *fakeOrderStore) GetOrder(_ context.Context, customerID, orderID uuid.UUID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Order{}, s.err
	}
	for _, order := range s.orders {
		if order.ID == orderID && order.CustomerID == customerID {
			return order, nil
		}
	}
	return models.Order{}, storage.ErrNotFound
}

func (s *fakeOrderStore) ListOrders(_ context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, 0, s.err
	}
	var mine []models.Order
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			mine = append(mine, order)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

type failingChallengeStore struct {
	storage.ChallengeStore
	err error
}

func (s failingChallengeStore) PutChallenge(context.Context, storage.Challenge) error {
	return s.err
}

func (s failingChallengeStore) GetChallenge(context.Context, string) (storage.Challenge, error) {
	return storage.Challenge{}, s.err
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestOTPService(clock *manualClock, opts ...OTPOption) *OTPService {
	base := []OTPOption{WithOTPHashCost(bcrypt.MinCost), WithOTPClock(clock.Now)}
	return NewOTPService(storage.NewMemoryChallengeStore(), append(base, opts...)...)
}
