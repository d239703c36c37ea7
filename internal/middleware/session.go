package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/Fazal135/simple-order-app/internal/services"
)

// SessionCookieName is the cookie carrying the session id.
const SessionCookieName = "shop.sid"

const (
	sessionCustomerID    = "customer_id"
	sessionCustomerName  = "customer_name"
	sessionCustomerEmail = "customer_email"
	sessionIssuedAt      = "issued_at"
)

// SessionConfig configures the cookie session carrier.
type SessionConfig struct {
	TTL    time.Duration
	Secure bool
	// Storage defaults to fiber's in-memory storage when nil.
	Storage fiber.Storage
}

// SessionManager binds a signed-in identity to the shop.sid cookie. A session
// lives for TTL from sign-in; requests do not extend it.
type SessionManager struct {
	store *session.Store
	ttl   time.Duration
	clock func() time.Time
}

// NewSessionManager builds the session store. The cookie is HttpOnly,
// SameSite=Lax, and Secure when cfg.Secure is set.
func NewSessionManager(cfg SessionConfig) *SessionManager {
	store := session.New(session.Config{
		Expiration:     cfg.TTL,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + SessionCookieName,
		CookiePath:     "/",
		CookieSecure:   cfg.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})
	return &SessionManager{store: store, ttl: cfg.TTL, clock: time.Now}
}

// Establish rotates the session id and binds identity to it. Any identity
// previously held by the cookie is replaced.
func (m *SessionManager) Establish(c *fiber.Ctx, identity services.Identity) error {
	if identity.CustomerID == uuid.Nil {
		return errors.New("establish session: empty customer id")
	}

	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}

	sess.Set(sessionCustomerID, identity.CustomerID.String())
	sess.Set(sessionCustomerName, identity.Name)
	sess.Set(sessionCustomerEmail, identity.Email)
	sess.Set(sessionIssuedAt, m.clock().Unix())

	return sess.Save()
}

// Load returns the identity bound to the request's cookie. Sessions older
// than the TTL are destroyed and reported as absent.
func (m *SessionManager) Load(c *fiber.Ctx) (services.Identity, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return services.Identity{}, false, err
	}
	if sess.Fresh() {
		return services.Identity{}, false, nil
	}

	rawID, _ := sess.Get(sessionCustomerID).(string)
	customerID, err := uuid.Parse(rawID)
	if err != nil {
		return services.Identity{}, false, nil
	}

	issuedAt, ok := sess.Get(sessionIssuedAt).(int64)
	if !ok || m.clock().Sub(time.Unix(issuedAt, 0)) > m.ttl {
		return services.Identity{}, false, sess.Destroy()
	}

	name, _ := sess.Get(sessionCustomerName).(string)
	email, _ := sess.Get(sessionCustomerEmail).(string)
	return services.Identity{CustomerID: customerID, Name: name, Email: email}, true, nil
}
