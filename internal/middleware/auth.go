package middleware

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/config"
	"github.com/deppfellow/medical-prescription/internal/errs"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/service"
)

type AuthMiddleware struct {
	server *server.Server
	auth   *service.AuthService
}

func NewAuthMiddleware(s *server.Server, auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{server: s, auth: auth}
}

// RequireAuth resolves the bearer token to an account. Depending on the
// configured provider the token is a Clerk session or a locally issued one.
func (a *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	if a.auth.Provider() == config.AuthProviderClerk {
		return a.requireClerkSession(next)
	}
	return a.requireSessionToken(next)
}

func (a *AuthMiddleware) requireSessionToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		account, err := a.auth.AuthenticateToken(c.Request().Context(), token)
		if err != nil {
			GetLogger(c).Warn().Err(err).Msg("rejected session token")
			return err
		}

		setAccount(c, account)
		return next(c)
	}
}

func (a *AuthMiddleware) requireClerkSession(next echo.HandlerFunc) echo.HandlerFunc {
	unauthorized := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		w.WriteHeader(http.StatusUnauthorized)

		if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
			a.server.Logger.Error().Err(err).Msg("failed to write unauthorized response")
		}
	})

	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(clerkhttp.AuthorizationFailureHandler(unauthorized)),
	)(func(c echo.Context) error {
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if !ok {
			GetLogger(c).Error().Msg("could not get session claims from context")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		account, err := a.auth.AuthenticateExternal(c.Request().Context(), claims.Subject)
		if err != nil {
			GetLogger(c).Warn().Err(err).Str("clerk_user_id", claims.Subject).Msg("no account for clerk user")
			return err
		}

		setAccount(c, account)
		return next(c)
	})
}

// RequireRole lets the request through only for the given roles. It must run
// after RequireAuth.
func (a *AuthMiddleware) RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := GetAccount(c)
			if account == nil {
				return errs.NewUnauthorizedError("Unauthorized", false)
			}
			if !slices.Contains(roles, account.Role) {
				return errs.NewForbiddenError("This action is not available for your account", true)
			}
			return next(c)
		}
	}
}
