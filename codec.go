package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// signingMethods maps configurable algorithm names to their HMAC methods.
// Only symmetric HS-class algorithms are supported.
var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// TokenCodec encodes and decodes signed token claims with a symmetric key.
// It is a pure codec: no I/O, no time-window checks. Time validation belongs
// to the TokenFactory so each gate can surface its own error.
type TokenCodec struct {
	signingKey []byte
	method     *jwt.SigningMethodHMAC
}

// NewTokenCodec returns a codec for the named algorithm, or ErrInvalidSettings
// when the algorithm is unknown or the key is empty.
func NewTokenCodec(signingKey []byte, algorithm string) (*TokenCodec, error) {
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, invalidSettings(fmt.Sprintf("unsupported signing algorithm %q", algorithm))
	}

	if len(signingKey) == 0 {
		return nil, invalidSettings("signing key must not be empty")
	}

	return &TokenCodec{
		signingKey: signingKey,
		method:     method,
	}, nil
}

// Algorithm returns the configured algorithm name.
func (c *TokenCodec) Algorithm() string {
	return c.method.Alg()
}

// Encode signs claims and returns the token string.
func (c *TokenCodec) Encode(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(c.method, claims)

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Decode parses raw and verifies its signature, returning the embedded claims.
// Claims validation is intentionally disabled here; expiry and issuance checks
// run in the factory where their ordering is significant.
func (c *TokenCodec) Decode(raw string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.signingKey, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}), jwt.WithoutClaimsValidation())

	if err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(goerrors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
