package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload embedded in issued tokens: subject, issued-at,
// and expiry. Timestamps are UTC and compared at second granularity.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// NewTokenClaims builds claims for subject with the given window. Timestamps
// are truncated to whole seconds before signing so the wire value and the
// in-memory value never disagree.
func NewTokenClaims(subject string, issuedAt, expiresAt time.Time) *TokenClaims {
	return &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt.UTC().Truncate(time.Second)),
			ExpiresAt: jwt.NewNumericDate(expiresAt.UTC().Truncate(time.Second)),
		},
	}
}

// Subject returns the subject claim.
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// IssuedAt returns the issuance time, or the zero time when absent.
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expires returns the expiration time, or the zero time when absent.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
