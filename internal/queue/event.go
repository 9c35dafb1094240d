// Package queue defines message payloads exchanged over the message broker
// together with the publisher and background consumer for them.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// finalized.  It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64   `json:"booking_id"`
    UserID           uint64   `json:"user_id"`
    ShowtimeID       uint64   `json:"showtime_id"`
    MovieTitle       string   `json:"movie_title"`
    Screen           string   `json:"screen"`
    StartsAt         string   `json:"starts_at"`
    SeatIDs          []uint64 `json:"seat_ids"`
    TotalAmountCents uint32   `json:"total_amount_cents"`
    ConfirmedAt      string   `json:"confirmed_at"`
}
