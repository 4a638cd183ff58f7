package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeTokenMalformed   = "TOKEN_MALFORMED"
	textCodeTokenExpired     = "TOKEN_EXPIRED"
	textCodeTokenNotYetValid = "TOKEN_NOT_YET_VALID"
	textCodeMissingSubject   = "TOKEN_MISSING_SUBJECT"
	textCodeTokenRevoked     = "TOKEN_REVOKED"
	textCodeBadCredentials   = "BAD_CREDENTIALS"
	textCodeUserBlocked      = "USER_BLOCKED"
	textCodeUserInactive     = "USER_INACTIVE"
	textCodeUserUnverified   = "USER_UNVERIFIED"
	textCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	textCodeUnsupportedStore = "REVOCATION_STORE_UNSUPPORTED"
	textCodeInvalidSettings  = "INVALID_AUTH_SETTINGS"
)

// ErrTokenMalformed is returned when a token cannot be parsed or its signature
// does not verify against the configured key.
var ErrTokenMalformed = goerrors.New("token is malformed or its signature is invalid", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a structurally valid token is past its expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenNotYetValid is returned when a token claims to have been issued in
// the future. This guards against clock skew between issuer and verifier.
var ErrTokenNotYetValid = goerrors.New("token issued in the future", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenNotYetValid).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingSubject is returned when a structurally valid token carries no subject.
var ErrMissingSubject = goerrors.New("token has no subject", goerrors.CategoryAuth).
	WithTextCode(textCodeMissingSubject).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenRevoked is returned when the revocation store reports the token as
// invalidated before its natural expiry.
var ErrTokenRevoked = goerrors.New("token has been revoked", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenRevoked).
	WithCode(goerrors.CodeUnauthorized)

// ErrBadCredentials is the generic credential failure surfaced to callers. The
// underlying reason (bad password, blocked, inactive, unverified, unknown
// identifier) is logged and attached as metadata but never leaks through the
// message itself.
var ErrBadCredentials = goerrors.New("bad credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeBadCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrUserBlocked marks an account locked out after repeated password failures.
var ErrUserBlocked = goerrors.New("user is blocked", goerrors.CategoryAuth).
	WithTextCode(textCodeUserBlocked).
	WithCode(goerrors.CodeUnauthorized)

// ErrUserInactive marks a deactivated account.
var ErrUserInactive = goerrors.New("user is not active", goerrors.CategoryAuth).
	WithTextCode(textCodeUserInactive).
	WithCode(goerrors.CodeUnauthorized)

// ErrUserUnverified marks an account that never completed verification.
var ErrUserUnverified = goerrors.New("user is not verified", goerrors.CategoryAuth).
	WithTextCode(textCodeUserUnverified).
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode(textCodeIdentityNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrRevocationStoreUnsupported is returned by revocation store backends that
// are recognized by configuration but intentionally not implemented. It always
// propagates; it never degrades into a "not revoked" answer.
var ErrRevocationStoreUnsupported = goerrors.New("revocation store backend is not implemented", goerrors.CategoryOperation).
	WithTextCode(textCodeUnsupportedStore).
	WithCode(goerrors.CodeInternal)

// ErrInvalidSettings is returned when settings validation fails at load time.
var ErrInvalidSettings = goerrors.New("invalid auth settings", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidSettings).
	WithCode(goerrors.CodeBadRequest)

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

// IsTokenMalformedError reports whether err maps to ErrTokenMalformed.
func IsTokenMalformedError(err error) bool {
	return hasTextCode(err, textCodeTokenMalformed)
}

// IsTokenExpiredError reports whether err maps to ErrTokenExpired.
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, textCodeTokenExpired)
}

// IsTokenRevokedError reports whether err maps to ErrTokenRevoked.
func IsTokenRevokedError(err error) bool {
	return hasTextCode(err, textCodeTokenRevoked)
}

// IsBadCredentialsError reports whether err maps to ErrBadCredentials,
// regardless of the internal reason attached to it.
func IsBadCredentialsError(err error) bool {
	return hasTextCode(err, textCodeBadCredentials)
}

// IsUnsupportedStoreError reports whether err maps to ErrRevocationStoreUnsupported.
func IsUnsupportedStoreError(err error) bool {
	return hasTextCode(err, textCodeUnsupportedStore)
}

// IsSettingsError reports whether err maps to ErrInvalidSettings.
func IsSettingsError(err error) bool {
	return hasTextCode(err, textCodeInvalidSettings)
}

// badCredentials clones the generic credential error and records the internal
// reason as metadata so logs and metrics can distinguish failure modes the
// external message deliberately collapses.
func badCredentials(reason string) *goerrors.Error {
	return ErrBadCredentials.Clone().WithMetadata(map[string]any{
		"reason": reason,
	})
}

func invalidSettings(reason string) *goerrors.Error {
	return ErrInvalidSettings.Clone().WithMetadata(map[string]any{
		"reason": reason,
	})
}
