// Package router maps URLs to handlers and declares, per route, which roles
// the access guard admits.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homelist/homelist-api/internal/handler"
	"github.com/homelist/homelist-api/internal/middleware"
	"github.com/homelist/homelist-api/internal/model"
)

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, metricsHandler http.Handler) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}
}

// RegisterAuth registers the /auth endpoints.  limiter throttles the
// credential endpoints; pass a no-op middleware to disable it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, guard *middleware.Guard, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/signup/:userType", a.Signup, limiter)
	g.POST("/signin", a.Signin, limiter)
	g.POST("/key", a.ProductKey, guard.Require(model.RoleAdmin))
	g.GET("/me", a.Me, guard.Require(model.RoleBuyer, model.RoleRealtor, model.RoleAdmin))
}

// RegisterHomes registers the /home endpoints.  cache fronts the public
// reads only; the per-user reads must never be served from it.
func RegisterHomes(e *echo.Echo, h *handler.HomeHandler, guard *middleware.Guard, cache echo.MiddlewareFunc) {
	g := e.Group("/home")
	g.GET("", h.List, cache)
	g.GET("/:id", h.Get, cache)

	g.POST("", h.Create, guard.Require(model.RoleAdmin, model.RoleRealtor))
	g.PUT("/:id", h.Update, guard.Require(model.RoleAdmin, model.RoleRealtor))
	g.DELETE("/:id", h.Delete, guard.Require(model.RoleAdmin, model.RoleRealtor))
	g.PATCH("/:id/realtor", h.Reassign, guard.Require(model.RoleAdmin))

	g.POST("/:id/inquire", h.Inquire, guard.Require(model.RoleBuyer))
	g.GET("/:id/messages", h.Messages, guard.Require(model.RoleRealtor))
}
