package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Fazal135/simple-order-app/internal/middleware"
	"github.com/Fazal135/simple-order-app/internal/services"
	"github.com/Fazal135/simple-order-app/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth      *services.AuthService
	sessions  *middleware.SessionManager
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService, sessions *middleware.SessionManager, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type sendOTPRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SendOTP issues a one-time code and emails it.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.RequestOTP(c.UserContext(), services.RequestOTPInput{
		Name:  req.Name,
		Email: req.Email,
	}); err != nil {
		return httpError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	OTP   string `json:"otp"`
}

// VerifyOTP trades a correct code for a session cookie and a bearer token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	code := req.Code
	if code == "" {
		code = req.OTP
	}

	identity, err := h.auth.VerifyOTP(c.UserContext(), services.VerifyOTPInput{
		Email: req.Email,
		Code:  code,
	})
	if err != nil {
		return httpError(c, err)
	}

	if err := h.sessions.Establish(c, identity); err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.jwtSecret, identity.CustomerID, identity.Name, identity.Email, time.Now(), h.tokenTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"customer": fiber.Map{
			"id":    identity.CustomerID,
			"name":  identity.Name,
			"email": identity.Email,
		},
	})
}

// Me reports whether the caller is signed in. It never fails on a missing or
// invalid credential.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok, err := middleware.Authenticate(c, h.sessions, h.jwtSecret)
	if err != nil || !ok {
		return c.JSON(fiber.Map{"loggedIn": false})
	}

	return c.JSON(fiber.Map{
		"loggedIn": true,
		"name":     identity.Name,
		"email":    identity.Email,
	})
}
