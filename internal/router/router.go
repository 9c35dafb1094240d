package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing
    "github.com/redis/go-redis/v9"

    "github.com/kamatealif/quickshow-server/internal/config"
    "github.com/kamatealif/quickshow-server/internal/handler"
    "github.com/kamatealif/quickshow-server/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Map the GET request at path "/healthz" to the Health handler.  This
    // endpoint can be used by load balancers or monitoring systems to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while the profile endpoint lives under /v1 and requires a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Routes that do not require an existing session.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)

    // Routes that require a valid access token.  Both roles may read
    // their own profile.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
    auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints.  The seat map
// endpoint sits behind the short-TTL response cache when Redis is
// available; guests and customers both read seat status through the same
// derivation, so caching here never changes what a lock attempt will see.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
    cache := middleware.NewRedisCache(cacheCfg, rdb)
    // Upcoming showtimes, soonest first.
    e.GET("/v1/showtimes", p.ListShowtimes, cache)
    // Seat map with derived AVAILABLE/LOCKED/BOOKED statuses.
    e.GET("/v1/showtimes/:id/seats", p.GetShowtimeSeats, cache)
}
