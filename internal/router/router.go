// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-escape-reservation/internal/handler"
	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// RegisterRoutes registers routes that need neither a session nor a
// handler dependency.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session and member endpoints.  session is
// middleware.Session bound to the secret and clock; loginLimit guards
// POST /login against credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, session, loginLimit echo.MiddlewareFunc) {
	e.POST("/login", a.Login, loginLimit)
	e.POST("/logout", a.Logout)
	e.POST("/members", a.SignUp)

	e.GET("/login/check", a.LoginCheck, session)
	e.GET("/members", a.ListMembers, session, middleware.RequireRole(model.RoleAdmin))
}

// RegisterCatalog registers theme, time slot and ranking endpoints.
// Listings are public; mutations require the ADMIN role.  rankCache wraps
// GET /ranks.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, r *handler.RankHandler, session, rankCache echo.MiddlewareFunc) {
	e.GET("/themes", h.ListThemes)
	e.GET("/times", h.ListTimes)
	e.GET("/ranks", r.Popular, rankCache)

	// route-level middleware: a prefix-less group would also claim
	// unmatched paths and answer them with 401
	admin := []echo.MiddlewareFunc{session, middleware.RequireRole(model.RoleAdmin)}
	e.POST("/themes", h.CreateTheme, admin...)
	e.DELETE("/themes/:id", h.DeleteTheme, admin...)
	e.POST("/times", h.CreateTime, admin...)
	e.DELETE("/times/:id", h.DeleteTime, admin...)
}

// RegisterReservations registers availability and reservation endpoints.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, session echo.MiddlewareFunc) {
	e.GET("/books/:date/:themeId", h.Availability)

	adminOnly := middleware.RequireRole(model.RoleAdmin)

	e.POST("/reservations", h.Create, session)
	e.GET("/reservations/mine", h.ListMine, session)
	e.DELETE("/reservations/:id", h.Cancel, session)

	e.GET("/reservations", h.List, session, adminOnly)
	e.POST("/admin/reservations", h.CreateForMember, session, adminOnly)
}
