package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Fazal135/simple-order-app/internal/storage"
	"github.com/Fazal135/simple-order-app/internal/utils"
)

// Identity is the signed-in customer a session is bound to.
type Identity struct {
	CustomerID uuid.UUID
	Name       string
	Email      string
}

// RequestOTPInput is the send-otp request.
type RequestOTPInput struct {
	Name  string
	Email string
}

// VerifyOTPInput is the verify-otp request.
type VerifyOTPInput struct {
	Email string
	Code  string
}

// AuthService drives email sign-in: issue a code, mail it, then trade a
// correct code for a customer identity.
type AuthService struct {
	otp       *OTPService
	customers storage.CustomerStore
	mailer    Mailer
}

// NewAuthService constructs an AuthService.
func NewAuthService(otp *OTPService, customers storage.CustomerStore, mailer Mailer) *AuthService {
	return &AuthService{otp: otp, customers: customers, mailer: mailer}
}

// RequestOTP issues a code for the email and mails it before returning. A
// delivery failure is returned as a *NotificationError.
func (s *AuthService) RequestOTP(ctx context.Context, input RequestOTPInput) error {
	name := strings.TrimSpace(input.Name)
	email := utils.NormalizeEmail(input.Email)
	if name == "" || email == "" {
		return invalidInput("Name and email required")
	}
	if !utils.IsPlausibleEmail(email) {
		return invalidInput("Invalid email address")
	}
	if !utils.IsPlainDisplayName(name) {
		return invalidInput("Invalid name")
	}

	issued, err := s.otp.Issue(ctx, email, name)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, otpEmail(email, name, issued.Code, s.otp.TTL())); err != nil {
		return &NotificationError{To: email, Err: err}
	}

	log.Printf("[Auth] OTP sent to %s", email)
	return nil
}

// VerifyOTP consumes a matching code and resolves the customer, creating one
// with the name given at request time on first sign-in. Returning customers
// keep their stored name.
func (s *AuthService) VerifyOTP(ctx context.Context, input VerifyOTPInput) (Identity, error) {
	email := utils.NormalizeEmail(input.Email)
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" {
		return Identity{}, invalidInput("Email and OTP required")
	}

	name, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return Identity{}, err
	}

	customer, created, err := s.customers.EnsureCustomer(ctx, name, email)
	if err != nil {
		return Identity{}, &PersistenceError{Op: "ensure customer", Err: err}
	}
	if created {
		log.Printf("[Auth] created customer %s for %s", customer.ID, email)
	}

	return Identity{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
	}, nil
}
