package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/kamatealif/quickshow-server/internal/model"
    "github.com/kamatealif/quickshow-server/internal/queue"
    "github.com/kamatealif/quickshow-server/internal/repository"
)

// memSeatStore is an in-memory SeatStore that applies the same
// lockability and ownership predicates the SQL conditional updates
// encode, with an injectable clock.  Mutations are all-or-nothing: a
// shortfall leaves every seat untouched, matching the rolled-back
// transaction in the real store.
type memSeatStore struct {
    seats map[uint64]*model.Seat
    now   func() time.Time
}

func newMemSeatStore(now func() time.Time, seats ...model.Seat) *memSeatStore {
    m := &memSeatStore{seats: make(map[uint64]*model.Seat), now: now}
    for i := range seats {
        s := seats[i]
        m.seats[s.ID] = &s
    }
    return m
}

func (m *memSeatStore) LockSeats(_ context.Context, showtimeID uint64, seatIDs []uint64, userID uint64, expiry time.Duration) error {
    now := m.now()
    matched := make([]*model.Seat, 0, len(seatIDs))
    for _, id := range seatIDs {
        s, ok := m.seats[id]
        if !ok || s.ShowtimeID != showtimeID || !s.LockableBy(now, expiry) {
            continue
        }
        matched = append(matched, s)
    }
    if len(matched) != len(seatIDs) {
        return repository.ErrSeatsUnavailable
    }
    for _, s := range matched {
        uid, at := userID, now
        s.LockedBy, s.LockedAt = &uid, &at
    }
    return nil
}

func (m *memSeatStore) FinalizeSeats(_ context.Context, showtimeID uint64, seatIDs []uint64, userID uint64, expiry time.Duration, strict bool) error {
    now := m.now()
    matched := make([]*model.Seat, 0, len(seatIDs))
    for _, id := range seatIDs {
        s, ok := m.seats[id]
        if !ok || s.ShowtimeID != showtimeID || s.LockedBy == nil || *s.LockedBy != userID {
            continue
        }
        if strict && (s.LockedAt == nil || s.LockedAt.Before(now.Add(-expiry))) {
            continue
        }
        matched = append(matched, s)
    }
    if len(matched) != len(seatIDs) {
        return repository.ErrFinalizationFailed
    }
    for _, s := range matched {
        s.IsAvailable = false
        s.LockedBy, s.LockedAt = nil, nil
    }
    return nil
}

func (m *memSeatStore) ReleaseSeats(_ context.Context, showtimeID, userID uint64) (int64, error) {
    var n int64
    for _, s := range m.seats {
        if s.ShowtimeID == showtimeID && s.LockedBy != nil && *s.LockedBy == userID {
            s.LockedBy, s.LockedAt = nil, nil
            n++
        }
    }
    return n, nil
}

func (m *memSeatStore) ListByShowtime(_ context.Context, showtimeID uint64) ([]model.Seat, error) {
    var out []model.Seat
    for _, s := range m.seats {
        if s.ShowtimeID == showtimeID {
            out = append(out, *s)
        }
    }
    return out, nil
}

// stubBookings records Create calls and can be told to fail.
type stubBookings struct {
    created   []*model.Booking
    createErr error
}

func (b *stubBookings) Create(_ context.Context, bk *model.Booking) error {
    if b.createErr != nil {
        return b.createErr
    }
    bk.ID = uint64(len(b.created) + 1)
    b.created = append(b.created, bk)
    return nil
}
func (b *stubBookings) ListByUser(context.Context, uint64) ([]repository.BookingDetail, error) {
    return nil, nil
}
func (b *stubBookings) GetByIDForUser(context.Context, uint64, uint64) (*repository.BookingDetail, error) {
    return nil, nil
}

type stubShowtimes struct{ st *model.Showtime }

func (s *stubShowtimes) GetByID(_ context.Context, id uint64) (*model.Showtime, error) {
    if s.st == nil || s.st.ID != id {
        return nil, repository.ErrShowtimeNotFound
    }
    return s.st, nil
}

const (
    showID = uint64(42)
    userU  = uint64(100)
    userV  = uint64(200)
)

func testShowtime() *model.Showtime {
    return &model.Showtime{
        ID:         showID,
        MovieTitle: "Interstellar",
        Screen:     "IMAX-1",
        StartsAt:   time.Date(2026, 4, 1, 20, 0, 0, 0, time.UTC),
    }
}

func seat(id uint64, label string, num uint32) model.Seat {
    return model.Seat{
        ID: id, ShowtimeID: showID, RowLabel: label, SeatNumber: num,
        PriceCents: 25000, IsAvailable: true,
    }
}

// newFixture wires a service over the in-memory store with a movable
// clock.  The returned advance function shifts both the service's and the
// store's notion of now.
func newFixture(t *testing.T, strict bool, publish Publisher, seats ...model.Seat) (BookingService, *memSeatStore, *stubBookings, func(time.Duration)) {
    t.Helper()
    current := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
    now := func() time.Time { return current }
    store := newMemSeatStore(now, seats...)
    bookings := &stubBookings{}
    svc := NewBookingService(store, bookings, &stubShowtimes{st: testShowtime()}, 10*time.Minute, strict, publish)
    svc.(*bookingService).now = now
    advance := func(d time.Duration) { current = current.Add(d) }
    return svc, store, bookings, advance
}

func TestLockSeatsValidation(t *testing.T) {
    svc, _, _, _ := newFixture(t, false, nil, seat(1, "A", 1))

    err := svc.LockSeats(context.Background(), userU, showID, nil)
    assert.ErrorIs(t, err, ErrNoSeats)

    // Zero IDs and duplicates collapse to nothing.
    err = svc.LockSeats(context.Background(), userU, showID, []uint64{0, 0})
    assert.ErrorIs(t, err, ErrNoSeats)

    err = svc.LockSeats(context.Background(), userU, 999, []uint64{1})
    assert.ErrorIs(t, err, repository.ErrShowtimeNotFound)
}

func TestLockSeatsDeduplicatesBeforeCounting(t *testing.T) {
    svc, store, _, _ := newFixture(t, false, nil, seat(1, "A", 1))

    // Repeating one seat id must not trip the requested-vs-affected
    // comparison: one seat requested, one seat locked.
    err := svc.LockSeats(context.Background(), userU, showID, []uint64{1, 1, 1})
    require.NoError(t, err)
    require.NotNil(t, store.seats[1].LockedBy)
    assert.Equal(t, userU, *store.seats[1].LockedBy)
}

func TestLockSeatsAllOrNothing(t *testing.T) {
    svc, store, _, _ := newFixture(t, false, nil, seat(1, "A", 1), seat(2, "A", 2))

    // V takes A2 first.
    require.NoError(t, svc.LockSeats(context.Background(), userV, showID, []uint64{2}))

    // U asks for both; the one contested seat sinks the whole request and
    // A1 must be left unclaimed.
    err := svc.LockSeats(context.Background(), userU, showID, []uint64{1, 2})
    assert.ErrorIs(t, err, repository.ErrSeatsUnavailable)
    assert.Nil(t, store.seats[1].LockedBy)
    assert.Equal(t, userV, *store.seats[2].LockedBy)
}

func TestExpiredLockIsReclaimable(t *testing.T) {
    svc, store, _, advance := newFixture(t, false, nil, seat(1, "A", 1))

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1}))

    // Inside the window V is refused.
    advance(5 * time.Minute)
    assert.ErrorIs(t, svc.LockSeats(context.Background(), userV, showID, []uint64{1}), repository.ErrSeatsUnavailable)

    // Past the window the same seat is claimable with no cleanup step in
    // between; the lock simply changes hands.
    advance(6 * time.Minute)
    require.NoError(t, svc.LockSeats(context.Background(), userV, showID, []uint64{1}))
    assert.Equal(t, userV, *store.seats[1].LockedBy)
}

func TestFinalizeBookingHappyPath(t *testing.T) {
    var published []queue.BookingConfirmedEvent
    publish := func(_ context.Context, ev queue.BookingConfirmedEvent) error {
        published = append(published, ev)
        return nil
    }
    svc, store, bookings, _ := newFixture(t, false, publish, seat(1, "A", 1), seat(2, "A", 2))

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1, 2}))

    booking, err := svc.FinalizeBooking(context.Background(), userU, showID, []uint64{1, 2}, 50000)
    require.NoError(t, err)
    require.NotNil(t, booking)
    assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
    assert.Equal(t, model.PaymentStatusPaid, booking.PaymentStatus)
    assert.Equal(t, []uint64{1, 2}, booking.SeatIDs)
    assert.Equal(t, uint32(50000), booking.TotalAmountCents)

    // Seats are sold and their lock fields cleared.
    for _, id := range []uint64{1, 2} {
        assert.False(t, store.seats[id].IsAvailable)
        assert.Nil(t, store.seats[id].LockedBy)
    }
    require.Len(t, bookings.created, 1)
    require.Len(t, published, 1)
    assert.Equal(t, booking.ID, published[0].BookingID)
    assert.Equal(t, "Interstellar", published[0].MovieTitle)
}

func TestFinalizeWithoutLocksWritesNothing(t *testing.T) {
    svc, store, bookings, _ := newFixture(t, false, nil, seat(1, "A", 1), seat(2, "A", 2))

    // V holds one of the two seats; U holds neither.
    require.NoError(t, svc.LockSeats(context.Background(), userV, showID, []uint64{2}))

    _, err := svc.FinalizeBooking(context.Background(), userU, showID, []uint64{1, 2}, 50000)
    assert.ErrorIs(t, err, repository.ErrFinalizationFailed)

    // No booking row, no seat flipped, V's lock intact.
    assert.Empty(t, bookings.created)
    assert.True(t, store.seats[1].IsAvailable)
    assert.True(t, store.seats[2].IsAvailable)
    assert.Equal(t, userV, *store.seats[2].LockedBy)
}

func TestFinalizeBookingInsertFailureLeavesSeatsSold(t *testing.T) {
    svc, store, bookings, _ := newFixture(t, false, nil, seat(1, "A", 1))
    bookings.createErr = errors.New("deadlock")

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1}))

    _, err := svc.FinalizeBooking(context.Background(), userU, showID, []uint64{1}, 25000)
    assert.ErrorIs(t, err, repository.ErrBookingFailed)

    // The seat update has already committed; the failure is reported, not
    // rolled back.  The seat stays off the market.
    assert.False(t, store.seats[1].IsAvailable)
    assert.Empty(t, bookings.created)
}

func TestFinalizePublishFailureDoesNotFailBooking(t *testing.T) {
    publish := func(context.Context, queue.BookingConfirmedEvent) error {
        return errors.New("broker down")
    }
    svc, _, bookings, _ := newFixture(t, false, publish, seat(1, "A", 1))

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1}))
    booking, err := svc.FinalizeBooking(context.Background(), userU, showID, []uint64{1}, 25000)
    require.NoError(t, err)
    assert.NotNil(t, booking)
    assert.Len(t, bookings.created, 1)
}

func TestStrictFinalizeRefusesStaleLock(t *testing.T) {
    svc, _, bookings, advance := newFixture(t, true, nil, seat(1, "A", 1))

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1}))
    advance(11 * time.Minute)

    _, err := svc.FinalizeBooking(context.Background(), userU, showID, []uint64{1}, 25000)
    assert.ErrorIs(t, err, repository.ErrFinalizationFailed)
    assert.Empty(t, bookings.created)
}

func TestDefaultFinalizeAcceptsStaleLockStillHeld(t *testing.T) {
    svc, store, _, advance := newFixture(t, false, nil, seat(1, "A", 1))

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1}))
    advance(11 * time.Minute)

    // Nobody else claimed the seat in the meantime, so the ownership
    // filter still matches and the lock's age is irrelevant.
    _, err := svc.FinalizeBooking(context.Background(), userU, showID, []uint64{1}, 25000)
    require.NoError(t, err)
    assert.False(t, store.seats[1].IsAvailable)
}

func TestReleaseSeats(t *testing.T) {
    svc, store, _, _ := newFixture(t, false, nil, seat(1, "A", 1), seat(2, "A", 2), seat(3, "B", 1))

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1, 2}))
    require.NoError(t, svc.LockSeats(context.Background(), userV, showID, []uint64{3}))

    released, err := svc.ReleaseSeats(context.Background(), userU, showID)
    require.NoError(t, err)
    assert.Equal(t, int64(2), released)
    assert.Nil(t, store.seats[1].LockedBy)
    assert.Nil(t, store.seats[2].LockedBy)
    // V's lock survives.
    assert.Equal(t, userV, *store.seats[3].LockedBy)

    // Releasing with nothing held is a no-op, not an error.
    released, err = svc.ReleaseSeats(context.Background(), userU, showID)
    require.NoError(t, err)
    assert.Equal(t, int64(0), released)
}

func TestSeatMapDerivesStatuses(t *testing.T) {
    svc, _, _, advance := newFixture(t, false, nil, seat(1, "A", 1), seat(2, "A", 2), seat(3, "B", 1))

    require.NoError(t, svc.LockSeats(context.Background(), userU, showID, []uint64{1}))
    _, err := svc.FinalizeBooking(context.Background(), userU, showID, []uint64{1}, 25000)
    require.NoError(t, err)
    require.NoError(t, svc.LockSeats(context.Background(), userV, showID, []uint64{2}))

    statuses := func() map[uint64]string {
        views, err := svc.SeatMap(context.Background(), showID)
        require.NoError(t, err)
        out := make(map[uint64]string, len(views))
        for _, v := range views {
            out[v.ID] = v.Status
        }
        return out
    }

    got := statuses()
    assert.Equal(t, model.SeatStatusBooked, got[1])
    assert.Equal(t, model.SeatStatusLocked, got[2])
    assert.Equal(t, model.SeatStatusAvailable, got[3])

    // Once V's lock expires the read path reports the seat available even
    // though the row still carries the stale lock fields.
    advance(11 * time.Minute)
    got = statuses()
    assert.Equal(t, model.SeatStatusAvailable, got[2])
    assert.Equal(t, model.SeatStatusBooked, got[1])
}

// Full contention walkthrough: two customers race for the same pair of
// seats across the lock window.
func TestCheckoutContentionScenario(t *testing.T) {
    svc, store, bookings, advance := newFixture(t, false, nil, seat(1, "A", 1), seat(2, "A", 2))
    ctx := context.Background()

    // t0: U locks A1+A2.
    require.NoError(t, svc.LockSeats(ctx, userU, showID, []uint64{1, 2}))

    // t0+5m: V tries the same pair and is refused outright.
    advance(5 * time.Minute)
    assert.ErrorIs(t, svc.LockSeats(ctx, userV, showID, []uint64{1, 2}), repository.ErrSeatsUnavailable)

    // t0+6m: U checks out.
    advance(time.Minute)
    booking, err := svc.FinalizeBooking(ctx, userU, showID, []uint64{1, 2}, 50000)
    require.NoError(t, err)
    require.Len(t, bookings.created, 1)
    assert.Equal(t, []uint64{1, 2}, booking.SeatIDs)

    // t0+11m: past the original lock window, but the seats are sold now,
    // not expired-locked, so V is still refused.
    advance(5 * time.Minute)
    assert.ErrorIs(t, svc.LockSeats(ctx, userV, showID, []uint64{1, 2}), repository.ErrSeatsUnavailable)
    assert.False(t, store.seats[1].IsAvailable)
    assert.False(t, store.seats[2].IsAvailable)
}
