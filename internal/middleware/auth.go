package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Fazal135/simple-order-app/internal/services"
	"github.com/Fazal135/simple-order-app/internal/utils"
)

const customerContextKey = "currentCustomer"

// RequireCustomer resolves the signed-in customer from a bearer token or the
// session cookie and stores it in the request context. Requests with neither
// are rejected with 401.
func RequireCustomer(sessions *SessionManager, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok, err := Authenticate(c, sessions, jwtSecret)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}

		c.Locals(customerContextKey, identity)
		return c.Next()
	}
}

// Authenticate resolves the caller without rejecting anonymous requests. A
// malformed or invalid bearer header is an error rather than a fallback to
// the cookie.
func Authenticate(c *fiber.Ctx, sessions *SessionManager, jwtSecret string) (services.Identity, bool, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return services.Identity{}, false, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return services.Identity{}, false, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		return services.Identity{
			CustomerID: uuid.MustParse(claims.CustomerID),
			Name:       claims.Name,
			Email:      claims.Email,
		}, true, nil
	}

	identity, ok, err := sessions.Load(c)
	if err != nil {
		log.Printf("[Session] load failed: %v", err)
		return services.Identity{}, false, nil
	}
	return identity, ok, nil
}

// GetCurrentCustomer extracts the authenticated customer from context.
func GetCurrentCustomer(c *fiber.Ctx) (*services.Identity, bool) {
	value := c.Locals(customerContextKey)
	if value == nil {
		return nil, false
	}

	if identity, ok := value.(services.Identity); ok {
		return &identity, true
	}

	return nil, false
}
