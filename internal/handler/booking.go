package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/kamatealif/quickshow-server/internal/repository"
    "github.com/kamatealif/quickshow-server/internal/service"
)

// BookingHandler exposes the seat locking protocol over HTTP: lock,
// finalize, release, and the customer's booking history.  All methods
// assume JWT authentication and role validation have already run; they
// still re-extract the principal and answer 401 when it is missing, so
// no datastore write can ever happen unauthenticated.
type BookingHandler struct {
    Svc service.BookingService
}

// NewBookingHandler constructs a BookingHandler.  The service must be
// non-nil.
func NewBookingHandler(svc service.BookingService) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc}
}

type lockReq struct {
    SeatIDs []uint64 `json:"seat_ids"`
}

type finalizeReq struct {
    SeatIDs          []uint64 `json:"seat_ids"`
    TotalAmountCents uint32   `json:"total_amount_cents"`
}

// LockSeats handles POST /v1/showtimes/:id/lock.  The body names the seat
// set to claim; the attempt is all-or-nothing.  Responses:
// 200 {"success":true} when every seat was locked, 409 when any seat is
// booked or validly locked by someone else (nothing is left claimed),
// 400 for an empty or invalid request, 401 without a principal.  The
// caller is expected to retry with different seats; the server never
// waits or retries on its behalf.
func (h *BookingHandler) LockSeats(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, ok := parseIDParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var body lockReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := h.Svc.LockSeats(c.Request().Context(), userID, showtimeID, body.SeatIDs); err != nil {
        switch {
        case errors.Is(err, service.ErrNoSeats):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
        case errors.Is(err, repository.ErrShowtimeNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        case errors.Is(err, repository.ErrSeatsUnavailable):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seats unavailable"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock seats"})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// FinalizeBooking handles POST /v1/showtimes/:id/finalize.  Converts the
// caller's locks into a permanent booking.  Responses: 201 with the
// booking id, 409 when the caller no longer holds the locks
// (finalization failed, nothing changed), 500 when the seats were sold
// but the booking row could not be written — the one recognized
// inconsistency of the protocol, reported rather than retried.
func (h *BookingHandler) FinalizeBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, ok := parseIDParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var body finalizeReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    booking, err := h.Svc.FinalizeBooking(c.Request().Context(), userID, showtimeID, body.SeatIDs, body.TotalAmountCents)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrNoSeats):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
        case errors.Is(err, repository.ErrShowtimeNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        case errors.Is(err, repository.ErrFinalizationFailed):
            return c.JSON(http.StatusConflict, echo.Map{"error": "finalization failed"})
        case errors.Is(err, repository.ErrBookingFailed):
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to finalize booking"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "success":            true,
        "booking_id":         booking.ID,
        "total_amount_cents": booking.TotalAmountCents,
    })
}

// ReleaseLocks handles DELETE /v1/showtimes/:id/lock.  Releases every
// lock the caller holds on the showtime and reports how many seats were
// freed.  Releasing when nothing is held is not an error.
func (h *BookingHandler) ReleaseLocks(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, ok := parseIDParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    released, err := h.Svc.ReleaseSeats(c.Request().Context(), userID, showtimeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release locks"})
    }
    return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// ListBookings handles GET /v1/my-bookings.  Returns all bookings created
// by the current user with showtime details.  An empty list is returned
// when none exist.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Svc.Bookings(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  Returns one booking owned by
// the current user; a booking belonging to someone else is reported as
// not found.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, ok := parseIDParam(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    detail, err := h.Svc.Booking(c.Request().Context(), userID, bookingID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
