package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Fazal135/simple-order-app/internal/services"
)

const serverErrorMessage = "Server error"

// httpError maps service errors onto client-facing fiber errors. Storage and
// delivery details are logged here and never reach the response body.
func httpError(c *fiber.Ctx, err error) error {
	var (
		inputErr *services.InputError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr
	case errors.As(err, &inputErr):
		return fiber.NewError(fiber.StatusBadRequest, inputErr.Message)
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, services.ErrOTPNotFound):
		return fiber.NewError(fiber.StatusBadRequest, "OTP not found or expired")
	case errors.Is(err, services.ErrOTPExpired):
		return fiber.NewError(fiber.StatusBadRequest, "OTP expired")
	case errors.Is(err, services.ErrOTPMismatch):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, services.ErrOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Order not found")
	default:
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
		return fiber.NewError(fiber.StatusInternalServerError, serverErrorMessage)
	}
}

// ErrorHandler renders every error as {success:false, error}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := serverErrorMessage

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
