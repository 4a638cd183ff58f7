package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// TokenResponse is the body returned by the login and renew handlers.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RouteAuthenticator adapts the credential authenticator and token factory to
// HTTP routes: login mints a token, renew swaps it for a longer lived one,
// logout revokes it. It maps the error taxonomy to transport status codes;
// the core itself never touches the network.
type RouteAuthenticator struct {
	auth         Authenticator
	factory      *TokenFactory
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// NewRouteAuthenticator returns route glue over auther and factory.
func NewRouteAuthenticator(auther Authenticator, factory *TokenFactory) *RouteAuthenticator {
	a := &RouteAuthenticator{
		auth:    auther,
		factory: factory,
		Logger:  defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a
}

// RouteRegistrar captures the router methods used by the route glue.
type RouteRegistrar interface {
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// RegisterRoutes mounts the token routes on group.
func (a *RouteAuthenticator) RegisterRoutes(group RouteRegistrar) {
	group.Post("/login", a.Login)
	group.Post("/renew", a.Renew)
	group.Post("/logout", a.Logout)
}

// Login authenticates the posted credentials and returns a bearer token.
func (a *RouteAuthenticator) Login(ctx router.Context) error {
	payload := &loginRequest{}
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid login payload").
			WithCode(errors.CodeBadRequest))
	}

	token, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("login error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Renew exchanges the bearer token on the request for a successor with an
// extended expiry. The superseded token is revoked by the factory.
func (a *RouteAuthenticator) Renew(ctx router.Context) error {
	raw, err := TokenFromHeader(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	token, err := a.factory.Renew(ctx.Context(), raw)
	if err != nil {
		a.Logger.Error("renew error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout revokes the bearer token on the request.
func (a *RouteAuthenticator) Logout(ctx router.Context) error {
	raw, err := TokenFromHeader(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.factory.Revoke(ctx.Context(), raw); err != nil {
		a.Logger.Error("logout error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "logged out",
	})
}

// TokenFromHeader extracts the bearer credential from the Authorization
// header, tolerating a missing scheme prefix.
func TokenFromHeader(ctx router.Context) (string, error) {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return "", ErrTokenMalformed
	}

	if len(header) > 7 && strings.EqualFold(header[:6], "bearer") {
		return strings.TrimSpace(header[6:]), nil
	}

	return strings.TrimSpace(header), nil
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"route error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return c.JSON(router.StatusUnauthorized, map[string]string{
			"error": richErr.Message,
		})
	case errors.CategoryBadInput, errors.CategoryValidation:
		return c.JSON(router.StatusBadRequest, map[string]string{
			"error": richErr.Message,
		})
	default:
		return c.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}

type loginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Password   string `json:"password" form:"password"`
}

var _ LoginPayload = (*loginRequest)(nil)

func (r *loginRequest) GetIdentifier() string { return r.Identifier }
func (r *loginRequest) GetPassword() string   { return r.Password }
