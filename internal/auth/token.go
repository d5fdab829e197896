package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken indicates the session token failed validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// SessionClaims carries the identity embedded in a session token.
type SessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates the signed, time-limited session
// token. Issued tokens are persisted through the TokenStore; there is a
// single active session per process, so issuing overwrites any prior
// token. Time comparisons use calendar time, which is enough for a
// single-shot CLI.
type TokenManager struct {
	store  TokenStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures TokenManager behavior.
type TokenOption func(*TokenManager)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(m *TokenManager) {
		if fn != nil {
			m.now = fn
		}
	}
}

// NewTokenManager constructs a manager signing with the given secret.
func NewTokenManager(store TokenStore, secret string, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if store == nil {
		return nil, errors.New("auth: token store is required")
	}
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be greater than zero")
	}
	m := &TokenManager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a session token for the authenticated employee and
// persists it, replacing any previous session.
func (m *TokenManager) Issue(userID int64) (string, time.Time, error) {
	if userID <= 0 {
		return "", time.Time{}, errors.New("auth: user id is required")
	}
	now := m.now().UTC()
	exp := now.Add(m.ttl)
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	if err := m.store.Save(signed); err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate loads the persisted token, verifies the signature and checks
// expiry. Every failure path (missing, malformed, tampered or expired)
// erases the persisted token and reports "no session"; no error escapes
// to the caller.
func (m *TokenManager) Validate() (*SessionClaims, bool) {
	raw, err := m.store.Load()
	if err != nil || raw == "" {
		_ = m.store.Clear()
		return nil, false
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		_ = m.store.Clear()
		return nil, false
	}
	if claims.UserID <= 0 || claims.ExpiresAt == nil {
		_ = m.store.Clear()
		return nil, false
	}
	if m.now().UTC().After(claims.ExpiresAt.Time) {
		_ = m.store.Clear()
		return nil, false
	}
	return claims, true
}

// Logout erases the persisted session token.
func (m *TokenManager) Logout() error {
	return m.store.Clear()
}
