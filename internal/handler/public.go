package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/kamatealif/quickshow-server/internal/model"
    "github.com/kamatealif/quickshow-server/internal/repository"
    "github.com/kamatealif/quickshow-server/internal/service"
)

// ShowtimeLister is the read surface of the showtime repository needed by
// the public endpoints.  *repository.ShowtimeRepo satisfies it.
type ShowtimeLister interface {
    ListUpcoming(ctx context.Context) ([]model.Showtime, error)
}

// PublicHandler serves unauthenticated browse endpoints: upcoming
// showtimes and the seat map of a showtime.  Seat status is derived with
// the same expiry predicate the lock operation applies, so a browsing
// guest and a locking customer always see the same notion of
// "available".
type PublicHandler struct {
    Showtimes ShowtimeLister
    Svc       service.BookingService
}

// NewPublicHandler constructs a PublicHandler.  Dependencies must be
// non-nil.
func NewPublicHandler(showtimes ShowtimeLister, svc service.BookingService) *PublicHandler {
    if showtimes == nil || svc == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Showtimes: showtimes, Svc: svc}
}

// ListShowtimes handles GET /v1/showtimes.  Returns upcoming showtimes,
// soonest first.
func (h *PublicHandler) ListShowtimes(c echo.Context) error {
    items, err := h.Showtimes.ListUpcoming(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
    }
    out := make([]echo.Map, 0, len(items))
    for _, st := range items {
        out = append(out, echo.Map{
            "id":          st.ID,
            "movie_title": st.MovieTitle,
            "screen":      st.Screen,
            "starts_at":   st.StartsAt.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetShowtimeSeats handles GET /v1/showtimes/:id/seats.  Returns the seat
// map with derived statuses (AVAILABLE, LOCKED, BOOKED).  Expired locks
// are reported as AVAILABLE even though their row still carries lock
// fields; reclamation happens lazily on the next lock attempt.
func (h *PublicHandler) GetShowtimeSeats(c echo.Context) error {
    showtimeID, ok := parseIDParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    seats, err := h.Svc.SeatMap(c.Request().Context(), showtimeID)
    if err != nil {
        if errors.Is(err, repository.ErrShowtimeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
