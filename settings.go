package auth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Revocation store backends selectable through Settings.RevocationBackend.
const (
	// RevocationBackendMemory keeps revoked tokens in a process-local set.
	RevocationBackendMemory = "memory"
	// RevocationBackendDatabase persists revoked tokens in a relational table.
	RevocationBackendDatabase = "database"
	// RevocationBackendCache is recognized but intentionally not implemented;
	// every operation on it fails with ErrRevocationStoreUnsupported.
	RevocationBackendCache = "cache"
)

// Settings holds the runtime configuration for token issuance, renewal,
// revocation, and the credential lockout policy. Construct one at startup,
// call Validate, and pass it explicitly to collaborators.
type Settings struct {
	// Algorithm names the HMAC signing algorithm: HS256, HS384, or HS512.
	Algorithm string `json:"jwt_algorithm"`
	// SigningKey is the process-wide symmetric signing secret.
	SigningKey string `json:"jwt_key"`
	// ExpirationInitial is the minutes until first expiry on create.
	ExpirationInitial int `json:"jwt_expiration_initial"`
	// ExpirationStep is the minutes added per renewal.
	ExpirationStep int `json:"jwt_expiration_step"`
	// ExpirationMax is the ceiling, in minutes from issuance, on total lifetime.
	ExpirationMax int `json:"jwt_expiration_max"`
	// RevocationBackend selects the revocation store: memory, database, cache.
	RevocationBackend string `json:"jwt_revokes_store"`
	// BlockAfterFailedAttempts is the password strike threshold; 0 disables lockout.
	BlockAfterFailedAttempts int `json:"block_user_after_fail_attempts"`
	// AllowLoginWithEmail resolves login identifiers against the email column.
	AllowLoginWithEmail bool `json:"allow_login_with_email"`
	// AllowLoginWithUsername resolves login identifiers against the username column.
	AllowLoginWithUsername bool `json:"allow_login_with_username"`
}

// DefaultSettings returns the defaults: HS256, 30 minute initial expiry,
// 30 minute renewal step, 120 minute ceiling, memory revocation store,
// lockout after 5 failed attempts, and both login identifier modes enabled.
// The signing key has no default; it must be provided.
func DefaultSettings() Settings {
	return Settings{
		Algorithm:                "HS256",
		ExpirationInitial:        30,
		ExpirationStep:           30,
		ExpirationMax:            120,
		RevocationBackend:        RevocationBackendMemory,
		BlockAfterFailedAttempts: 5,
		AllowLoginWithEmail:      true,
		AllowLoginWithUsername:   true,
	}
}

// Validate enforces the configuration invariants. Any violation is reported
// as ErrInvalidSettings; nothing is validated again at call time.
func (s Settings) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Algorithm, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&s.SigningKey, validation.Required),
		validation.Field(&s.ExpirationInitial, validation.Required, validation.Min(1)),
		validation.Field(&s.ExpirationMax, validation.Required, validation.Min(1)),
		validation.Field(&s.RevocationBackend, validation.Required,
			validation.In(RevocationBackendMemory, RevocationBackendDatabase, RevocationBackendCache)),
	)
	if err != nil {
		return invalidSettings(err.Error())
	}

	if s.ExpirationStep < 0 {
		return invalidSettings("jwt_expiration_step must be greater than or equal to 0")
	}

	if s.BlockAfterFailedAttempts < 0 {
		return invalidSettings("block_user_after_fail_attempts must be greater than or equal to 0")
	}

	if s.ExpirationInitial > s.ExpirationMax {
		return invalidSettings(fmt.Sprintf(
			"jwt_expiration_initial (%d) must not exceed jwt_expiration_max (%d)",
			s.ExpirationInitial, s.ExpirationMax,
		))
	}

	if s.ExpirationInitial+s.ExpirationStep > s.ExpirationMax {
		return invalidSettings(fmt.Sprintf(
			"jwt_expiration_initial (%d) plus jwt_expiration_step (%d) must not exceed jwt_expiration_max (%d)",
			s.ExpirationInitial, s.ExpirationStep, s.ExpirationMax,
		))
	}

	if !s.AllowLoginWithEmail && !s.AllowLoginWithUsername {
		return invalidSettings("allow_login_with_email and allow_login_with_username can't both be disabled")
	}

	return nil
}

// InitialDuration is the lifetime of a freshly created token.
func (s Settings) InitialDuration() time.Duration {
	return time.Duration(s.ExpirationInitial) * time.Minute
}

// StepDuration is the lifetime added per renewal.
func (s Settings) StepDuration() time.Duration {
	return time.Duration(s.ExpirationStep) * time.Minute
}

// MaxDuration is the ceiling on total token lifetime, counted from issuance.
func (s Settings) MaxDuration() time.Duration {
	return time.Duration(s.ExpirationMax) * time.Minute
}
