package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/chefrecommends/backend/internal/handler"
	"github.com/chefrecommends/backend/internal/middleware"
)

// RegisterRoutes registers routes that need no dependencies. Currently
// that is only the health check used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints. The
// cache middleware wraps the read-heavy search and map feed; the rate
// limiter shields search from typeahead abuse. Both are pass-throughs
// when Redis is not configured.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache, limit echo.MiddlewareFunc) {
	e.GET("/v1/config", p.WidgetConfig)
	e.GET("/v1/restaurants", p.MapFeed, cache)
	e.GET("/v1/restaurants/list", p.ListRestaurants)
	e.GET("/v1/restaurants/:city/:slug", p.GetRestaurant)
	e.GET("/v1/search", p.Search, limit, cache)
}

// RegisterClaims registers the public claim submission endpoint with
// rate limiting.
func RegisterClaims(e *echo.Echo, h *handler.ClaimHandler, limit echo.MiddlewareFunc) {
	e.POST("/v1/claims", h.Submit, limit)
}

// RegisterAuth registers the admin login and the authenticated /me
// endpoint. There is no registration or refresh: the admin credential
// pair lives in the environment and sessions are stateless tokens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/v1/auth/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(handler.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers the claim-review and restaurant-maintenance
// endpoints behind JWT authentication and the ADMIN role.
func RegisterAdmin(e *echo.Echo, claims *handler.AdminClaimHandler, restaurants *handler.AdminRestaurantHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(handler.RoleAdmin))

	g.GET("/claims", claims.List)
	g.GET("/claims/stats", claims.Stats)
	g.PATCH("/claims/:id", claims.Decide)

	g.POST("/restaurants", restaurants.Create)
	g.PATCH("/restaurants/:id/recommendation", restaurants.SetRecommendation)
}
