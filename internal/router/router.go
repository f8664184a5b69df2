// Package router defines how HTTP routes are registered for the API.
// Grouping follows the access model: open routes, public browse routes
// behind the response cache, student routes behind JWT auth and the
// rate limiter, and admin routes behind the ADMIN role check.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication at all:
// the health check and student self-registration.
func RegisterRoutes(e *echo.Echo, s *handler.StudentHandler) {
	e.GET("/healthz", handler.Health)
	e.POST("/v1/students", s.Register)
}

// RegisterPublic registers the unauthenticated browse endpoints. Guests
// can inspect rooms, free slots and range availability before
// registering. The cache middleware is threaded in by the caller so the
// group stays testable without Redis.
func RegisterPublic(e *echo.Echo, r *handler.RoomHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/rooms")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.GET("/:id/slots", r.Slots)
	g.GET("/:id/availability", r.Availability)
}

// RegisterProtected registers the student booking surface and the
// administrator surface. Both live behind JWT auth and the rate
// limiter; the admin group additionally requires the ADMIN role.
func RegisterProtected(e *echo.Echo, b *handler.BookingHandler, r *handler.RoomHandler, s *handler.StudentHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	if limit != nil {
		auth.Use(limit)
	}
	auth.Use(middleware.RequireRole("STUDENT", "ADMIN"))

	auth.POST("/bookings", b.Create)
	auth.GET("/bookings/:id", b.Get)
	auth.DELETE("/bookings/:id", b.Cancel)
	auth.GET("/my-bookings", b.ListMine)

	admin := auth.Group("/admin")
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.POST("/rooms", r.Create)
	admin.PATCH("/rooms/:id", r.Edit)
	admin.DELETE("/rooms/:id", r.Delete)
	admin.GET("/rooms/:id/bookings", r.Bookings)
	admin.DELETE("/bookings/:id", b.AdminCancel)
	admin.GET("/students", s.List)
}
