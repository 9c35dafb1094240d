package router

import (
    "github.com/labstack/echo/v4"

    "github.com/kamatealif/quickshow-server/internal/handler"
    "github.com/kamatealif/quickshow-server/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.  All routes
// require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN"),
    )
    // Create a showtime together with its full seat grid in one call.
    g.POST("/showtimes", a.CreateShowtime)
}
