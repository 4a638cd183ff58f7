package auth

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface the package needs. Collaborators take
// an implementation through WithLogger; defLogger is the stdout fallback.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserStore is the user-lookup and lockout-tracking collaborator the
// credential authenticator depends on. The bun backed Users repository
// satisfies it; tests provide mocks.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	TrackFailedPassword(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// TokenIssuer mints bearer tokens for a subject. Satisfied by TokenFactory.
type TokenIssuer interface {
	Create(subject string) (string, error)
}

// TokenVerifier resolves a bearer token back to its subject. Satisfied by
// TokenFactory; the middleware depends on this instead of the concrete type.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// PasswordAuthenticator authenticates passwords.
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// RevocationStore tracks tokens invalidated before their natural expiry.
// Record must be idempotent: recording an already revoked token is a no-op.
type RevocationStore interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Record(ctx context.Context, token string, expiration time.Time) error
}

// Authenticator validates raw credentials and mints a token on success.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
}

// LoginPayload carries the credentials posted to a login route.
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
