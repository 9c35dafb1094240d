package model

import "time"

// Seat is one physical seat for one showtime.  Availability and the soft
// lock live directly on the row: the lock fields are set by the lock
// operation, cleared by finalize or release, and a seat whose lock has
// outlived the expiry window counts as unlocked again.
//
// A seat is lockable when IsAvailable is true and either LockedAt is nil
// or LockedAt is older than the expiry window.  A seat with
// IsAvailable=false is permanently booked and never lockable again.
//
// Fields:
//  ID          – primary key identifier.
//  ShowtimeID  – showtime this seat belongs to.
//  RowLabel    – display row letter (A, B, ... AA).
//  SeatNumber  – display seat number within the row.
//  PriceCents  – price charged when this seat is booked.
//  IsAvailable – false once permanently booked.
//  LockedBy    – user currently holding the soft lock (nil when unlocked).
//  LockedAt    – when the current lock was taken (nil when unlocked).
type Seat struct {
    ID          uint64     // seats.id
    ShowtimeID  uint64     // seats.showtime_id
    RowLabel    string     // seats.row_label
    SeatNumber  uint32     // seats.seat_number
    PriceCents  uint32     // seats.price_cents
    IsAvailable bool       // seats.is_available
    LockedBy    *uint64    // seats.locked_by (nullable)
    LockedAt    *time.Time // seats.locked_at (nullable)
}

// Seat status values derived for display.  They are computed from the row
// state plus the expiry window, never stored.
const (
    SeatStatusAvailable = "AVAILABLE" // lockable right now
    SeatStatusLocked    = "LOCKED"    // validly locked by some user
    SeatStatusBooked    = "BOOKED"    // permanently sold
)

// Status derives the display status of the seat at the given instant using
// the provided expiry window.  The same predicate the lock operation's
// conditional UPDATE encodes, evaluated in Go for read paths.  The caller
// must pass a server-side clock reading; client-supplied times would allow
// skewed clocks to resurrect or extend locks.
func (s Seat) Status(now time.Time, expiry time.Duration) string {
    if !s.IsAvailable {
        return SeatStatusBooked
    }
    if s.LockedAt != nil && now.Sub(*s.LockedAt) < expiry {
        return SeatStatusLocked
    }
    return SeatStatusAvailable
}

// LockableBy reports whether the given user could acquire a lock on this
// seat at the given instant.  Mirrors Status but exists so callers do not
// compare display strings.
func (s Seat) LockableBy(now time.Time, expiry time.Duration) bool {
    return s.Status(now, expiry) == SeatStatusAvailable
}
