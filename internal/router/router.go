package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/handler"
	"github.com/iliyamo/escape-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and
// no dependencies. Currently that is only the health check used by
// load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints. limiter is the
// login rate limiter; pass nil to register the routes unthrottled
// (tests do). The protected /me route lives behind CookieAuth so the
// principal is resolved from the cookie on every request.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if limiter != nil {
		mws = append(mws, limiter)
	}
	e.POST("/register", a.Register, mws...)
	e.POST("/login", a.Login, mws...)

	e.GET("/me", a.Me, middleware.CookieAuth(jwtSecret))
}

// RegisterCatalog registers the public catalog listings. cache is the
// Redis response cache; pass nil to serve uncached.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/themes", h.GetThemes, mws...)
	e.GET("/times", h.GetTimes, mws...)
}

// RegisterBooking registers the member booking surface. Every route
// resolves a principal through CookieAuth; the view and cancel routes
// additionally require the matching capability. Ownership of a
// specific booking is enforced inside the ledger, so an ADMIN passes
// the capability check and may cancel on behalf of members.
func RegisterBooking(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("", middleware.CookieAuth(jwtSecret))
	g.POST("/reservations", h.CreateReservation)
	g.POST("/waitings", h.CreateWaiting)
	g.GET("/reservations-mine", h.Mine, middleware.RequireCapability(middleware.CapViewOwn))
	g.DELETE("/reservations/:id", h.CancelReservation, middleware.RequireCapability(middleware.CapCancelOwn))
	g.DELETE("/waitings/:id", h.WithdrawWaiting, middleware.RequireCapability(middleware.CapCancelOwn))
}

// RegisterAdmin registers the admin surface. An unauthenticated call
// gets 401 from CookieAuth; an authenticated member without the
// capability gets the guard's uniform 403.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/admin", middleware.CookieAuth(jwtSecret))
	g.GET("", h.Panel, middleware.RequireCapability(middleware.CapViewAdminPanel))
	g.GET("/reservations", h.Reservations, middleware.RequireCapability(middleware.CapViewAll))
	g.GET("/waitings", h.Waitings, middleware.RequireCapability(middleware.CapViewAll))
}
