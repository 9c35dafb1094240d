package repository

import (
    "context"
    "database/sql"
    "encoding/json"

    "github.com/kamatealif/quickshow-server/internal/model"
)

// BookingRepo provides data access to the bookings table.  Booking rows
// are written exactly once by the finalize operation and never mutated by
// the lock path; the seat IDs they carry are serialized into a JSON
// column rather than a join table because the row is an immutable receipt
// while the authoritative seat state lives on the seats table.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts one booking row and populates the generated ID and
// creation timestamp on the passed record.  The insert is deliberately a
// standalone statement: by the time it runs the seats are already
// committed as sold, and a failure here surfaces as ErrBookingFailed to
// the caller rather than being retried.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    seatsJSON, err := encodeSeatIDs(b.SeatIDs)
    if err != nil {
        return err
    }
    const q = `INSERT INTO bookings (user_id, showtime_id, seats_json, total_amount_cents, status, payment_status)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, b.UserID, b.ShowtimeID, seatsJSON, b.TotalAmountCents, b.Status, b.PaymentStatus)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Read back the row to pick up the DB-assigned timestamp.
    const sel = `SELECT created_at FROM bookings WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// BookingDetail is a booking joined with its showtime for display to
// customers.
type BookingDetail struct {
    ID               uint64   `json:"id"`
    ShowtimeID       uint64   `json:"showtime_id"`
    MovieTitle       string   `json:"movie_title"`
    Screen           string   `json:"screen"`
    StartsAt         string   `json:"starts_at"`
    SeatIDs          []uint64 `json:"seat_ids"`
    TotalAmountCents uint32   `json:"total_amount_cents"`
    Status           string   `json:"status"`
    PaymentStatus    string   `json:"payment_status"`
}

// ListByUser returns all bookings made by the given user, newest first,
// with showtime details attached.  When no bookings exist an empty slice
// is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = `SELECT b.id, b.showtime_id, st.movie_title, st.screen, st.starts_at,
                      b.seats_json, b.total_amount_cents, b.status, b.payment_status
               FROM bookings b
               JOIN showtimes st ON st.id = b.showtime_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        d, err := scanBookingDetail(rows)
        if err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// GetByIDForUser returns a single booking for the given user.  Ownership
// is enforced in the query; a booking that exists but belongs to someone
// else is indistinguishable from a missing one and yields sql.ErrNoRows.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
    const q = `SELECT b.id, b.showtime_id, st.movie_title, st.screen, st.starts_at,
                      b.seats_json, b.total_amount_cents, b.status, b.payment_status
               FROM bookings b
               JOIN showtimes st ON st.id = b.showtime_id
               WHERE b.id = ? AND b.user_id = ?`
    row := r.db.QueryRowContext(ctx, q, bookingID, userID)
    d, err := scanBookingDetail(row)
    if err != nil {
        return nil, err
    }
    return &d, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
    Scan(dest ...interface{}) error
}

func scanBookingDetail(sc scanner) (BookingDetail, error) {
    var d BookingDetail
    var startsAt sql.NullTime
    var seatsJSON string
    if err := sc.Scan(&d.ID, &d.ShowtimeID, &d.MovieTitle, &d.Screen, &startsAt,
        &seatsJSON, &d.TotalAmountCents, &d.Status, &d.PaymentStatus); err != nil {
        return BookingDetail{}, err
    }
    if startsAt.Valid {
        d.StartsAt = startsAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
    }
    ids, err := decodeSeatIDs(seatsJSON)
    if err != nil {
        return BookingDetail{}, err
    }
    d.SeatIDs = ids
    return d, nil
}

// encodeSeatIDs serializes a seat-id set for the seats_json column.  A
// nil slice encodes as an empty array so the column is never NULL.
func encodeSeatIDs(ids []uint64) (string, error) {
    if ids == nil {
        ids = []uint64{}
    }
    b, err := json.Marshal(ids)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// decodeSeatIDs parses the seats_json column back into seat IDs.
func decodeSeatIDs(s string) ([]uint64, error) {
    var ids []uint64
    if err := json.Unmarshal([]byte(s), &ids); err != nil {
        return nil, err
    }
    return ids, nil
}
