package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestSeatStatus(t *testing.T) {
    now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
    expiry := 10 * time.Minute
    uid := uint64(7)
    at := func(d time.Duration) *time.Time {
        ts := now.Add(d)
        return &ts
    }

    tests := []struct {
        name string
        seat Seat
        want string
    }{
        {"never locked", Seat{IsAvailable: true}, SeatStatusAvailable},
        {"sold", Seat{IsAvailable: false, LockedBy: &uid, LockedAt: at(-time.Minute)}, SeatStatusBooked},
        {"fresh lock", Seat{IsAvailable: true, LockedBy: &uid, LockedAt: at(-5 * time.Minute)}, SeatStatusLocked},
        {"lock just inside window", Seat{IsAvailable: true, LockedBy: &uid, LockedAt: at(-expiry + time.Second)}, SeatStatusLocked},
        {"lock exactly at expiry", Seat{IsAvailable: true, LockedBy: &uid, LockedAt: at(-expiry)}, SeatStatusAvailable},
        {"stale lock", Seat{IsAvailable: true, LockedBy: &uid, LockedAt: at(-11 * time.Minute)}, SeatStatusAvailable},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, tc.seat.Status(now, expiry))
        })
    }
}

func TestSeatLockableBy(t *testing.T) {
    now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
    expiry := 10 * time.Minute
    uid := uint64(7)
    stale := now.Add(-11 * time.Minute)
    fresh := now.Add(-2 * time.Minute)

    assert.True(t, Seat{IsAvailable: true}.LockableBy(now, expiry))
    assert.True(t, Seat{IsAvailable: true, LockedBy: &uid, LockedAt: &stale}.LockableBy(now, expiry),
        "an expired lock must be reclaimable without any cleanup step")
    assert.False(t, Seat{IsAvailable: true, LockedBy: &uid, LockedAt: &fresh}.LockableBy(now, expiry))
    assert.False(t, Seat{IsAvailable: false}.LockableBy(now, expiry), "a sold seat is never lockable")
}

func TestSeatStatusAgreesWithLockableBy(t *testing.T) {
    // A seat reported AVAILABLE by the read path must be claimable by the
    // lock path under the same clock and window, and vice versa.
    now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
    expiry := 10 * time.Minute
    uid := uint64(3)

    offsets := []time.Duration{-time.Second, -5 * time.Minute, -10 * time.Minute, -15 * time.Minute}
    for _, off := range offsets {
        ts := now.Add(off)
        for _, avail := range []bool{true, false} {
            s := Seat{IsAvailable: avail, LockedBy: &uid, LockedAt: &ts}
            lockable := s.LockableBy(now, expiry)
            available := s.Status(now, expiry) == SeatStatusAvailable
            assert.Equal(t, available, lockable, "offset %v avail=%v", off, avail)
        }
    }
}
