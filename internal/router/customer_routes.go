package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/kamatealif/quickshow-server/internal/config"
    "github.com/kamatealif/quickshow-server/internal/handler"
    "github.com/kamatealif/quickshow-server/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers can lock
// seats for a showtime, finalize their locks into a booking, release
// their locks and view their own bookings.  The write endpoints
// additionally sit behind the Redis token bucket so a single client
// cannot hammer the conditional UPDATE path.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("CUSTOMER"),
    )
    limit := middleware.NewTokenBucket(rlCfg, rdb)

    // Seat locking protocol.  Lock and finalize are the contended writes;
    // release is idempotent but still shares the limiter.
    g.POST("/showtimes/:id/lock", h.LockSeats, limit)
    g.POST("/showtimes/:id/finalize", h.FinalizeBooking, limit)
    g.DELETE("/showtimes/:id/lock", h.ReleaseLocks, limit)

    // Booking history for the current user.
    g.GET("/my-bookings", h.ListBookings)
    g.GET("/bookings/:id", h.GetBooking)
}
