package middleware

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/utils"
)

// Context keys shared by the identity middleware, the guard and handlers.
const (
	identityKey = "identity"
	userKey     = "user"
)

// Identity verifies the bearer token, when one is sent, and stores the
// verified identity for the guard and handlers.  It never rejects a
// request: without a valid token the request simply stays anonymous and
// the guard decides whether that is acceptable.
func Identity(tokens *utils.SessionTokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return next(c)
			}
			id, err := tokens.Verify(raw)
			if err != nil {
				// claimed id is for diagnostics only
				claimed, _ := tokens.DecodeUnverified(raw)
				slog.Debug("identity: rejected token", "claimed_id", claimed.ID, "error", err)
				return next(c)
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.  The scheme is matched case-insensitively.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IdentityFrom returns the verified identity of the request, if any.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok
}

// SetUser stores the authorized user for handlers.
func SetUser(c echo.Context, u model.User) {
	c.Set(userKey, u)
}

// UserFrom returns the user loaded by the guard.  It is only set on routes
// that declare roles.
func UserFrom(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}
