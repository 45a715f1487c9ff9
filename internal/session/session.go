// Package session tracks who is signed in. Sessions are short-lived and
// in-memory only: they are never written into the durable aggregate, and a
// sign-out (or restart) clears them. Tokens are HS256 JWTs carrying the user
// id, role and a per-session jti; the manager keeps the set of live jti
// values so sign-out revokes a token before it expires.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

var ErrNoSession = errors.New("no active session")

type Manager struct {
	secret []byte
	ttl    time.Duration

	mu     sync.Mutex
	active map[string]string // jti -> user id
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		active: make(map[string]string),
	}
}

// Issue mints a signed token for the user and records the session as live.
func (m *Manager) Issue(u ledger.User, now time.Time) (string, error) {
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    string(u.Role),
		"jti":     jti,
		"exp":     now.Add(m.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.active[jti] = u.ID
	m.mu.Unlock()
	return signed, nil
}

// Revoke ends the session for the given jti.
func (m *Manager) Revoke(jti string) {
	m.mu.Lock()
	delete(m.active, jti)
	m.mu.Unlock()
}

// Alive reports whether a jti still belongs to a live session.
func (m *Manager) Alive(jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[jti]
	return ok
}

// RequireActive is middleware for routes behind the JWT check: a token whose
// session was revoked is rejected even though its signature still verifies.
func (m *Manager) RequireActive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		jti, err := JTIFromCtx(c)
		if err != nil || !m.Alive(jti) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "session expired"})
		}
		return c.Next()
	}
}

// claimsFromCtx extracts the verified claims the JWT middleware stored in
// locals. Several handler packages need this, so it lives here.
func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, ErrNoSession
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, ErrNoSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoSession
	}
	return claims, nil
}

// UserIDFromCtx returns the signed-in user's ID.
func UserIDFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

// RoleFromCtx returns the signed-in user's role.
func RoleFromCtx(c *fiber.Ctx) (ledger.Role, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", ErrNoSession
	}
	return ledger.Role(role), nil
}

// JTIFromCtx returns the session identifier inside the token.
func JTIFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", ErrNoSession
	}
	return jti, nil
}
