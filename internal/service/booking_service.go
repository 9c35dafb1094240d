// Package service implements the booking workflow on top of the
// repository layer.  Handlers talk to the BookingService interface so the
// HTTP layer can be tested against mocks; the implementation wires the
// seat locking protocol, booking creation and the confirmation event
// together.
package service

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/kamatealif/quickshow-server/internal/model"
    "github.com/kamatealif/quickshow-server/internal/queue"
    "github.com/kamatealif/quickshow-server/internal/repository"
)

// ErrNoSeats is returned when a lock or finalize request names no valid
// seat IDs.  Handlers should translate this into an HTTP 400 response.
var ErrNoSeats = errors.New("no seats requested")

// SeatStore is the slice of the seat repository the booking service
// consumes.  *repository.SeatRepo satisfies it.
type SeatStore interface {
    LockSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64, userID uint64, expiry time.Duration) error
    FinalizeSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64, userID uint64, expiry time.Duration, strict bool) error
    ReleaseSeats(ctx context.Context, showtimeID, userID uint64) (int64, error)
    ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error)
}

// BookingStore is the slice of the booking repository the service
// consumes.  *repository.BookingRepo satisfies it.
type BookingStore interface {
    Create(ctx context.Context, b *model.Booking) error
    ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
    GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*repository.BookingDetail, error)
}

// ShowtimeStore resolves showtimes.  *repository.ShowtimeRepo satisfies it.
type ShowtimeStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
}

// Publisher sends a booking confirmation event to the message broker.
// Publishing is best-effort: a broker outage must never fail a finalize
// that has already committed.
type Publisher func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// SeatView is one seat of the public seat map with its derived status.
type SeatView struct {
    ID         uint64 `json:"id"`
    RowLabel   string `json:"row_label"`
    SeatNumber uint32 `json:"seat_number"`
    PriceCents uint32 `json:"price_cents"`
    Status     string `json:"status"`
}

// BookingService defines the booking operations exposed to handlers.
type BookingService interface {
    // LockSeats places an all-or-nothing time-bounded lock on the seat set
    // for the user.  Fails with repository.ErrSeatsUnavailable when any
    // seat is booked or validly locked by someone else.
    LockSeats(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) error
    // FinalizeBooking converts the user's locks into a permanent booking.
    FinalizeBooking(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64, totalCents uint32) (*model.Booking, error)
    // ReleaseSeats drops every lock the user holds on the showtime and
    // returns how many were released.
    ReleaseSeats(ctx context.Context, userID, showtimeID uint64) (int64, error)
    // SeatMap lists the showtime's seats with their derived status.
    SeatMap(ctx context.Context, showtimeID uint64) ([]SeatView, error)
    // Bookings lists the user's bookings, newest first.
    Bookings(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
    // Booking fetches one booking owned by the user.
    Booking(ctx context.Context, userID, bookingID uint64) (*repository.BookingDetail, error)
}

type bookingService struct {
    seats     SeatStore
    bookings  BookingStore
    showtimes ShowtimeStore
    expiry    time.Duration // lock expiry window
    strict    bool          // re-check lock freshness on finalize
    publish   Publisher     // nil disables event publishing
    now       func() time.Time
}

// NewBookingService constructs a BookingService.  expiry is the lock
// expiry window; strict enables the finalize freshness re-check; publish
// may be nil when no broker is configured.
func NewBookingService(seats SeatStore, bookings BookingStore, showtimes ShowtimeStore, expiry time.Duration, strict bool, publish Publisher) BookingService {
    if seats == nil || bookings == nil || showtimes == nil {
        panic("nil store passed to NewBookingService")
    }
    return &bookingService{
        seats:     seats,
        bookings:  bookings,
        showtimes: showtimes,
        expiry:    expiry,
        strict:    strict,
        publish:   publish,
        now:       time.Now,
    }
}

func (s *bookingService) LockSeats(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) error {
    ids := dedupeSeatIDs(seatIDs)
    if len(ids) == 0 {
        return ErrNoSeats
    }
    if _, err := s.showtimes.GetByID(ctx, showtimeID); err != nil {
        return err
    }
    return s.seats.LockSeats(ctx, showtimeID, ids, userID, s.expiry)
}

func (s *bookingService) FinalizeBooking(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64, totalCents uint32) (*model.Booking, error) {
    ids := dedupeSeatIDs(seatIDs)
    if len(ids) == 0 {
        return nil, ErrNoSeats
    }
    st, err := s.showtimes.GetByID(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    // Step one: flip the seats to sold, filtered on ownership.  A failure
    // here leaves everything untouched and no booking row is written.
    if err := s.seats.FinalizeSeats(ctx, showtimeID, ids, userID, s.expiry, s.strict); err != nil {
        return nil, err
    }
    // Step two: write the booking receipt.  The seats are already
    // committed as sold; if this insert fails the caller sees
    // ErrBookingFailed and the gap is surfaced, not papered over.
    booking := &model.Booking{
        UserID:           userID,
        ShowtimeID:       showtimeID,
        SeatIDs:          ids,
        TotalAmountCents: totalCents,
        Status:           model.BookingStatusConfirmed,
        PaymentStatus:    model.PaymentStatusPaid,
    }
    if err := s.bookings.Create(ctx, booking); err != nil {
        log.Printf("booking insert failed after seats were finalized (user=%d showtime=%d): %v", userID, showtimeID, err)
        return nil, repository.ErrBookingFailed
    }
    if s.publish != nil {
        ev := queue.BookingConfirmedEvent{
            BookingID:        booking.ID,
            UserID:           userID,
            ShowtimeID:       showtimeID,
            MovieTitle:       st.MovieTitle,
            Screen:           st.Screen,
            StartsAt:         st.StartsAt.UTC().Format(time.RFC3339),
            SeatIDs:          ids,
            TotalAmountCents: totalCents,
            ConfirmedAt:      s.now().UTC().Format(time.RFC3339),
        }
        if err := s.publish(ctx, ev); err != nil {
            log.Printf("booking.confirmed publish failed for booking %d: %v", booking.ID, err)
        }
    }
    return booking, nil
}

func (s *bookingService) ReleaseSeats(ctx context.Context, userID, showtimeID uint64) (int64, error) {
    return s.seats.ReleaseSeats(ctx, showtimeID, userID)
}

func (s *bookingService) SeatMap(ctx context.Context, showtimeID uint64) ([]SeatView, error) {
    if _, err := s.showtimes.GetByID(ctx, showtimeID); err != nil {
        return nil, err
    }
    seats, err := s.seats.ListByShowtime(ctx, showtimeID)
    if err != nil {
        return nil, err
    }
    // Server clock only; the same expiry window the lock UPDATE applies.
    now := s.now().UTC()
    views := make([]SeatView, 0, len(seats))
    for _, seat := range seats {
        views = append(views, SeatView{
            ID:         seat.ID,
            RowLabel:   seat.RowLabel,
            SeatNumber: seat.SeatNumber,
            PriceCents: seat.PriceCents,
            Status:     seat.Status(now, s.expiry),
        })
    }
    return views, nil
}

func (s *bookingService) Bookings(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
    return s.bookings.ListByUser(ctx, userID)
}

func (s *bookingService) Booking(ctx context.Context, userID, bookingID uint64) (*repository.BookingDetail, error) {
    return s.bookings.GetByIDForUser(ctx, bookingID, userID)
}

// dedupeSeatIDs drops zero and repeated IDs while preserving order, so a
// sloppy client cannot inflate the requested count and trip the
// affected-row comparison.
func dedupeSeatIDs(ids []uint64) []uint64 {
    out := make([]uint64, 0, len(ids))
    seen := make(map[uint64]struct{}, len(ids))
    for _, id := range ids {
        if id == 0 {
            continue
        }
        if _, ok := seen[id]; ok {
            continue
        }
        seen[id] = struct{}{}
        out = append(out, id)
    }
    return out
}
