package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/medical-prescription/internal/logger"
	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
)

const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
	AccountKey  = "account"
	LoggerKey   = "logger"
)

// ContextEnhancer gives every request its own logger carrying the request id,
// route and New Relic trace ids.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			setLogger(c, contextLogger)
			return next(c)
		}
	}
}

// setLogger stores l on the Echo context and on the request context, where
// services pick it up with zerolog.Ctx.
func setLogger(c echo.Context, l zerolog.Logger) {
	c.Set(LoggerKey, &l)
	c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
}

// setAccount records the authenticated account and adds it to the request
// logger.
func setAccount(c echo.Context, account *model.Account) {
	c.Set(AccountKey, account)
	c.Set(UserIDKey, account.ID.String())
	c.Set(UserRoleKey, string(account.Role))

	setLogger(c, GetLogger(c).With().
		Str("user_id", account.ID.String()).
		Str("user_role", string(account.Role)).
		Logger())
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetAccount returns the account set by RequireAuth, or nil.
func GetAccount(c echo.Context) *model.Account {
	if account, ok := c.Get(AccountKey).(*model.Account); ok {
		return account
	}
	return nil
}

// GetLogger returns the request logger, or a no-op logger outside of
// EnhanceContext.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
