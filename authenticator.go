package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// CredentialAuthenticator validates identifier and password pairs against the
// user store, enforces the account lockout policy, and mints a token on
// success. Every failure surfaces as ErrBadCredentials; the precise reason is
// logged and carried as metadata for internal consumers only.
type CredentialAuthenticator struct {
	users     UserStore
	tokens    TokenIssuer
	passwords PasswordAuthenticator
	settings  Settings
	logger    Logger
}

var _ Authenticator = (*CredentialAuthenticator)(nil)

// NewCredentialAuthenticator returns an authenticator wired to the given user
// store and token issuer. Password verification defaults to bcrypt.
func NewCredentialAuthenticator(users UserStore, tokens TokenIssuer, settings Settings) *CredentialAuthenticator {
	return &CredentialAuthenticator{
		users:     users,
		tokens:    tokens,
		passwords: bcryptAuthenticator{},
		settings:  settings,
		logger:    defLogger{},
	}
}

func (a *CredentialAuthenticator) WithLogger(logger Logger) *CredentialAuthenticator {
	a.logger = logger
	return a
}

// WithPasswordAuthenticator overrides the password verification collaborator.
func (a *CredentialAuthenticator) WithPasswordAuthenticator(passwords PasswordAuthenticator) *CredentialAuthenticator {
	a.passwords = passwords
	return a
}

// Login resolves the user behind identifier, checks account status, verifies
// the password, and returns a freshly minted token. A password mismatch
// increments the user's strike counter and, once the configured threshold is
// reached, blocks the account; a successful login resets the counter.
func (a *CredentialAuthenticator) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := a.resolveUser(ctx, identifier)
	if err != nil {
		if goerrors.IsNotFound(err) {
			a.logger.Error("login failed: no user for identifier", "identifier", identifier)
			return "", badCredentials(textCodeIdentityNotFound)
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve user during login")
	}

	if err := ensureLoginable(user); err != nil {
		a.logger.Warn("login rejected by account status", "email", user.Email, "error", err)
		return "", badCredentialsFrom(err)
	}

	if err := a.passwords.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if trackErr := a.recordStrike(ctx, user); trackErr != nil {
			return "", goerrors.Wrap(trackErr, goerrors.CategoryInternal, "failed to persist password strike")
		}
		a.logger.Warn("login failed: password mismatch",
			"email", user.Email,
			"strikes", user.PasswordStrikes,
			"blocked", user.Blocked,
		)
		return "", badCredentials("PASSWORD_MISMATCH")
	}

	if user.PasswordStrikes > 0 {
		user.PasswordStrikes = 0
		if err := a.users.TrackSuccessfulLogin(ctx, user); err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reset password strikes")
		}
	}

	return a.tokens.Create(user.Identifier())
}

// resolveUser looks the identifier up as an email and then as a username,
// honoring the configured resolution modes. Settings validation guarantees at
// least one mode is enabled.
func (a *CredentialAuthenticator) resolveUser(ctx context.Context, identifier string) (*User, error) {
	if a.settings.AllowLoginWithEmail {
		user, err := a.users.GetByEmail(ctx, identifier)
		if err == nil {
			return user, nil
		}
		if !goerrors.IsNotFound(err) {
			return nil, err
		}
	}

	if a.settings.AllowLoginWithUsername {
		return a.users.GetByUsername(ctx, identifier)
	}

	return nil, ErrIdentityNotFound
}

// recordStrike applies the lockout policy for one failed password attempt.
// The block decision uses the strike count as it stood before this failure:
// with a threshold of N, the Nth consecutive failure blocks the account.
func (a *CredentialAuthenticator) recordStrike(ctx context.Context, user *User) error {
	threshold := a.settings.BlockAfterFailedAttempts
	strikes := user.PasswordStrikes

	user.PasswordStrikes = strikes + 1
	if threshold > 0 && strikes >= threshold-1 {
		user.Blocked = true
	}

	return a.users.TrackFailedPassword(ctx, user)
}

func ensureLoginable(user *User) error {
	switch {
	case user.Blocked:
		return ErrUserBlocked
	case !user.Active:
		return ErrUserInactive
	case !user.Verified:
		return ErrUserUnverified
	}
	return nil
}

func badCredentialsFrom(err error) *goerrors.Error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return badCredentials(rich.TextCode)
	}
	return badCredentials("")
}
