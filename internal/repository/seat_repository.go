package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/kamatealif/quickshow-server/internal/model"
)

// mysqlTime is the DATETIME layout used when passing timestamps as query
// arguments.  All values are converted to UTC first; the DSN pins the
// session to UTC so comparisons against UTC_TIMESTAMP() line up.
const mysqlTime = "2006-01-02 15:04:05"

// SeatRepo provides data access to the seats table.  It owns the two
// conditional updates at the heart of the booking protocol.  The
// database's atomic multi-row UPDATE is the only mutual-exclusion
// primitive used: there is no advisory locking, no in-process mutex and
// no background job reclaiming expired locks.  Expired locks are
// reclaimed lazily whenever the lockability predicate re-evaluates them.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the provided database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// lockSeatsQuery builds the conditional UPDATE that stakes a claim on n
// seats in one statement.  The WHERE clause encodes the lockability
// predicate — available, and either never locked or locked before the
// expiry threshold — so checking availability and claiming the seats is a
// single indivisible operation.  Two racing callers can never both match
// the same row.
func lockSeatsQuery(n int) string {
    return `UPDATE seats
            SET locked_by = ?, locked_at = UTC_TIMESTAMP()
            WHERE showtime_id = ? AND id IN (` + placeholders(n) + `)
              AND is_available = 1
              AND (locked_at IS NULL OR locked_at < ?)`
}

// LockSeats attempts to place a soft lock on every seat in seatIDs on
// behalf of userID.  The attempt is all-or-nothing: the conditional
// UPDATE runs inside an explicit transaction and when the affected-row
// count falls short of len(seatIDs), the transaction is rolled back and
// ErrSeatsUnavailable is returned, leaving every seat in its prior state.
// The expiry threshold is computed from the server clock, never from
// anything the client sent.
func (r *SeatRepo) LockSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64, userID uint64, expiry time.Duration) error {
    if len(seatIDs) == 0 {
        return ErrSeatsUnavailable
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    threshold := time.Now().UTC().Add(-expiry)
    args := make([]interface{}, 0, len(seatIDs)+3)
    args = append(args, userID, showtimeID)
    for _, id := range seatIDs {
        args = append(args, id)
    }
    args = append(args, threshold.Format(mysqlTime))
    res, err := tx.ExecContext(ctx, lockSeatsQuery(len(seatIDs)), args...)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected != int64(len(seatIDs)) {
        // At least one seat was booked or validly locked by someone else.
        // Roll back so the seats this statement did match are released.
        return ErrSeatsUnavailable
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// finalizeSeatsQuery builds the UPDATE that converts held seats into sold
// ones.  Ownership is enforced by filtering on locked_by; with strict
// enabled the lock must also still be inside the expiry window.
func finalizeSeatsQuery(n int, strict bool) string {
    q := `UPDATE seats
          SET is_available = 0, locked_by = NULL, locked_at = NULL
          WHERE showtime_id = ? AND id IN (` + placeholders(n) + `)
            AND locked_by = ?`
    if strict {
        q += ` AND locked_at >= ?`
    }
    return q
}

// FinalizeSeats permanently marks the named seats as sold, provided every
// one of them is currently locked by userID.  Like LockSeats it compares
// the affected-row count against the requested count inside a transaction
// and rolls back on a shortfall, returning ErrFinalizationFailed.  A seat
// the caller does not hold therefore blocks the whole finalize and is
// left untouched.
//
// When strict is false (the default) lock freshness is not re-checked: a
// lock owned by the caller may be finalized regardless of age so long as
// nobody has re-locked the seats.  Strict mode additionally requires
// locked_at to be within the expiry window, closing the race where a
// stale lock is finalized after another user could have re-locked the
// seat.
func (r *SeatRepo) FinalizeSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64, userID uint64, expiry time.Duration, strict bool) error {
    if len(seatIDs) == 0 {
        return ErrFinalizationFailed
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    args := make([]interface{}, 0, len(seatIDs)+3)
    args = append(args, showtimeID)
    for _, id := range seatIDs {
        args = append(args, id)
    }
    args = append(args, userID)
    if strict {
        threshold := time.Now().UTC().Add(-expiry)
        args = append(args, threshold.Format(mysqlTime))
    }
    res, err := tx.ExecContext(ctx, finalizeSeatsQuery(len(seatIDs), strict), args...)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected != int64(len(seatIDs)) {
        return ErrFinalizationFailed
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ReleaseSeats clears every lock userID holds on the showtime without
// touching availability.  It is the symmetrical counterpart to LockSeats
// for users who abandon checkout explicitly instead of waiting out the
// expiry window.  Returns the number of seats released.
func (r *SeatRepo) ReleaseSeats(ctx context.Context, showtimeID, userID uint64) (int64, error) {
    const q = `UPDATE seats
               SET locked_by = NULL, locked_at = NULL
               WHERE showtime_id = ? AND locked_by = ? AND is_available = 1`
    res, err := r.db.ExecContext(ctx, q, showtimeID, userID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// ListByShowtime returns every seat row for a showtime ordered by row
// label and seat number.  Lock state is returned raw; callers derive the
// display status with model.Seat.Status so the read path applies the same
// expiry predicate as the lock path.
func (r *SeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
    const q = `SELECT id, showtime_id, row_label, seat_number, price_cents, is_available, locked_by, locked_at
               FROM seats
               WHERE showtime_id = ?
               ORDER BY row_label, seat_number`
    rows, err := r.db.QueryContext(ctx, q, showtimeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    seats := make([]model.Seat, 0)
    for rows.Next() {
        var s model.Seat
        var lockedBy sql.NullInt64
        var lockedAt sql.NullTime
        if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.RowLabel, &s.SeatNumber, &s.PriceCents, &s.IsAvailable, &lockedBy, &lockedAt); err != nil {
            return nil, err
        }
        if lockedBy.Valid {
            uid := uint64(lockedBy.Int64)
            s.LockedBy = &uid
        }
        if lockedAt.Valid {
            t := lockedAt.Time.UTC()
            s.LockedAt = &t
        }
        seats = append(seats, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return seats, nil
}

// CreateBulkTx inserts multiple seat rows within the provided transaction.
// Used once per showtime when the inventory is generated.  The caller is
// responsible for committing or rolling back.  Passing an empty slice has
// no effect and returns nil.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO seats (showtime_id, row_label, seat_number, price_cents, is_available) VALUES `
    args := make([]interface{}, 0, len(seats)*5)
    for i, s := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, 1)"
        args = append(args, s.ShowtimeID, s.RowLabel, s.SeatNumber, s.PriceCents)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// placeholders returns n comma-separated "?" markers for IN clauses.
func placeholders(n int) string {
    if n <= 0 {
        return ""
    }
    return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
