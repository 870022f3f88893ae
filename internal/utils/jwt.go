package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/homelist/homelist-api/internal/model"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, signed with another key or algorithm, or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// sessionClaims is the JWT payload.  The user id travels under "id" next to
// the display name; iat and exp come from the registered claims.
type sessionClaims struct {
	Name   string `json:"name"`
	UserID uint64 `json:"id"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HS256 session tokens.  Secret must come
// from configuration.  Now defaults to time.Now and exists so tests can move
// the clock past the expiry window.
type SessionTokens struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// NewSessionTokens builds a SessionTokens with the wall clock.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

func (s *SessionTokens) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Issue signs a token for the given user and returns it with its expiry.
func (s *SessionTokens) Issue(name string, id uint64) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.TTL)
	claims := sessionClaims{
		Name:   name,
		UserID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the identity
// embedded in the token.
func (s *SessionTokens) Verify(raw string) (model.Identity, error) {
	if raw == "" {
		return model.Identity{}, ErrInvalidToken
	}
	tok, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return model.Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*sessionClaims)
	if !ok || claims.UserID == 0 {
		return model.Identity{}, ErrInvalidToken
	}
	return claims.identity(), nil
}

// DecodeUnverified reads the payload without checking the signature or the
// expiry.  The result is a claim, not a proof; it must not be used for
// authorization decisions.
func (s *SessionTokens) DecodeUnverified(raw string) (model.Identity, bool) {
	if raw == "" {
		return model.Identity{}, false
	}
	claims := &sessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return model.Identity{}, false
	}
	return claims.identity(), true
}

func (c *sessionClaims) identity() model.Identity {
	id := model.Identity{ID: c.UserID, Name: c.Name}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return id
}
