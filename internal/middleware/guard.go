package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homelist/homelist-api/internal/metrics"
	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/repository"
)

// DenyReason says why the guard refused a request.  It is logged and counted
// but never sent to the client.
type DenyReason string

const (
	Allowed          DenyReason = ""
	DenyNoIdentity   DenyReason = "no_identity"
	DenyUserNotFound DenyReason = "user_not_found"
	DenyLookupFailed DenyReason = "lookup_failed"
	DenyRole         DenyReason = "role_not_permitted"
)

// UserLookup loads the account behind a verified identity.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Guard enforces the role set each route declares.
type Guard struct {
	users   UserLookup
	metrics metrics.Recorder
}

// NewGuard builds a Guard.  A nil recorder disables denial metrics.
func NewGuard(users UserLookup, rec metrics.Recorder) *Guard {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Guard{users: users, metrics: rec}
}

// CanActivate decides whether the holder of id may call an operation open
// to roles.  An empty role set means the operation is public.  A nil id
// stands for a request without a valid token.  On success the caller's
// current user record is returned.
func (g *Guard) CanActivate(ctx context.Context, id *model.Identity, roles []model.Role) (model.User, bool, DenyReason) {
	if len(roles) == 0 {
		return model.User{}, true, Allowed
	}
	if id == nil {
		return model.User{}, false, DenyNoIdentity
	}
	u, err := g.users.GetByID(ctx, id.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, false, DenyUserNotFound
	}
	if err != nil {
		slog.Error("guard: user lookup failed", "user_id", id.ID, "error", err)
		return model.User{}, false, DenyLookupFailed
	}
	for _, r := range roles {
		if u.Role == r {
			return u, true, Allowed
		}
	}
	return model.User{}, false, DenyRole
}

// Require returns middleware that admits only users holding one of roles.
// Every denial gets the same 403 body whatever the reason.
func (g *Guard) Require(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(roles) == 0 {
				return next(c)
			}
			var idp *model.Identity
			if id, ok := IdentityFrom(c); ok {
				idp = &id
			}
			u, ok, reason := g.CanActivate(c.Request().Context(), idp, roles)
			if !ok {
				g.metrics.RecordGuardDenial(string(reason))
				slog.Info("guard: denied",
					"reason", string(reason),
					"method", c.Request().Method,
					"route", c.Path(),
					"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				)
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			SetUser(c, u)
			return next(c)
		}
	}
}
