package model

import "time"

// Booking statuses.  A booking is written exactly once by finalize with
// both markers already in their terminal state; cancellation flows are a
// separate admin concern and never touch these rows through the lock path.
const (
    BookingStatusConfirmed = "CONFIRMED"
    PaymentStatusPaid      = "PAID"
)

// Booking records a completed purchase of one or more seats for a
// showtime.  The seat IDs are serialized into a single JSON column
// (bookings.seats_json) rather than a join table; the booking row is the
// immutable receipt, while the authoritative per-seat state lives on the
// seats table.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the booking.
//  ShowtimeID       – showtime being booked.
//  SeatIDs          – seats purchased, decoded from seats_json.
//  TotalAmountCents – total charged for all seats.
//  Status           – booking status (CONFIRMED).
//  PaymentStatus    – payment status (PAID).
//  CreatedAt        – creation timestamp.
type Booking struct {
    ID               uint64    // bookings.id
    UserID           uint64    // bookings.user_id
    ShowtimeID       uint64    // bookings.showtime_id
    SeatIDs          []uint64  // bookings.seats_json
    TotalAmountCents uint32    // bookings.total_amount_cents
    Status           string    // bookings.status
    PaymentStatus    string    // bookings.payment_status
    CreatedAt        time.Time // bookings.created_at
}
