package auth

import (
	"context"
	"strings"
	"time"
)

// TokenFactory is the sole authority over the token lifecycle: it mints,
// verifies, renews, and revokes bearer tokens. A token moves from live to
// either expired or revoked; neither state can be left.
type TokenFactory struct {
	codec       *TokenCodec
	revocations RevocationStore
	initial     time.Duration
	step        time.Duration
	max         time.Duration
	logger      Logger
	clock       func() time.Time
}

var (
	_ TokenIssuer   = (*TokenFactory)(nil)
	_ TokenVerifier = (*TokenFactory)(nil)
)

// NewTokenFactory builds a factory from validated settings and an explicitly
// owned revocation store. Construct one at startup and share it by reference;
// there is no hidden process-wide instance.
func NewTokenFactory(settings Settings, revocations RevocationStore) (*TokenFactory, error) {
	codec, err := NewTokenCodec([]byte(settings.SigningKey), settings.Algorithm)
	if err != nil {
		return nil, err
	}

	if revocations == nil {
		return nil, invalidSettings("revocation store is required")
	}

	return &TokenFactory{
		codec:       codec,
		revocations: revocations,
		initial:     settings.InitialDuration(),
		step:        settings.StepDuration(),
		max:         settings.MaxDuration(),
		logger:      defLogger{},
		clock:       time.Now,
	}, nil
}

func (f *TokenFactory) WithLogger(logger Logger) *TokenFactory {
	f.logger = logger
	return f
}

// WithClock overrides the time source. Intended for tests that need to move
// a token through its lifetime without sleeping.
func (f *TokenFactory) WithClock(clock func() time.Time) *TokenFactory {
	f.clock = clock
	return f
}

func (f *TokenFactory) now() time.Time {
	return f.clock().UTC().Truncate(time.Second)
}

// Create mints a token for subject expiring after the configured initial
// duration. It allocates no external state; the returned string is the only
// artifact.
func (f *TokenFactory) Create(subject string) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}

	now := f.now()
	return f.codec.Encode(NewTokenClaims(subject, now, now.Add(f.initial)))
}

// Verify resolves a live token back to its subject. The checks run in a fixed
// order so the caller always learns the first failing gate: decode, expiry,
// issued-in-future, subject present, revocation. Each failure is terminal and
// distinct; none are coalesced or retried.
func (f *TokenFactory) Verify(ctx context.Context, raw string) (string, error) {
	claims, err := f.codec.Decode(raw)
	if err != nil {
		return "", err
	}

	now := f.now()

	if now.After(claims.Expires()) {
		return "", ErrTokenExpired
	}

	if claims.IssuedAt().After(now) {
		return "", ErrTokenNotYetValid
	}

	if claims.Subject() == "" {
		return "", ErrMissingSubject
	}

	revoked, err := f.revocations.IsRevoked(ctx, raw)
	if err != nil {
		f.logger.Error("Verify revocation lookup error", "error", err)
		return "", err
	}
	if revoked {
		f.logger.Warn("Verify rejected revoked token", "subject", claims.Subject())
		return "", ErrTokenRevoked
	}

	return claims.Subject(), nil
}

// Renew mints a successor token carrying the original subject and issuance
// time, expiring at min(old expiry + step, issuance + max). The superseded
// token is recorded as revoked before the successor is returned, so there is
// no window in which both are valid.
func (f *TokenFactory) Renew(ctx context.Context, raw string) (string, error) {
	raw = stripBearer(raw)

	claims, err := f.codec.Decode(raw)
	if err != nil {
		return "", err
	}

	now := f.now()

	if now.After(claims.Expires()) {
		return "", ErrTokenExpired
	}

	if claims.IssuedAt().After(now) {
		return "", ErrTokenNotYetValid
	}

	expiration := claims.Expires().Add(f.step)
	if ceiling := claims.IssuedAt().Add(f.max); expiration.After(ceiling) {
		expiration = ceiling
	}

	successor, err := f.codec.Encode(NewTokenClaims(claims.Subject(), claims.IssuedAt(), expiration))
	if err != nil {
		return "", err
	}

	// HMAC signing is deterministic: at the lifetime ceiling the successor
	// comes out byte-identical to its predecessor, and revoking the
	// predecessor would invalidate both.
	if successor == raw {
		return successor, nil
	}

	if err := f.revocations.Record(ctx, raw, claims.Expires()); err != nil {
		f.logger.Error("Renew failed to retire predecessor", "error", err)
		return "", err
	}

	return successor, nil
}

// Revoke invalidates a token before its natural expiry. The token is decoded
// to recover the expiration that sizes the revocation record. Revoking an
// already revoked token is a no-op.
func (f *TokenFactory) Revoke(ctx context.Context, raw string) error {
	raw = stripBearer(raw)

	claims, err := f.codec.Decode(raw)
	if err != nil {
		return err
	}

	revoked, err := f.revocations.IsRevoked(ctx, raw)
	if err != nil {
		return err
	}
	if revoked {
		return nil
	}

	if err := f.revocations.Record(ctx, raw, claims.Expires()); err != nil {
		f.logger.Error("Revoke failed to record token", "error", err)
		return err
	}

	return nil
}

func stripBearer(raw string) string {
	for _, scheme := range []string{"Bearer ", "bearer "} {
		if strings.HasPrefix(raw, scheme) {
			return strings.TrimSpace(strings.TrimPrefix(raw, scheme))
		}
	}
	return raw
}
