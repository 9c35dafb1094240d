package repository

import (
    "context"
    "database/sql"

    "github.com/kamatealif/quickshow-server/internal/model"
)

// ShowtimeRepo provides data access to the showtimes table.
type ShowtimeRepo struct {
    db *sql.DB
}

// NewShowtimeRepo returns a new ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// GetByID loads a single showtime.  Returns ErrShowtimeNotFound when no
// row matches.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    const q = `SELECT id, movie_title, screen, starts_at, created_at FROM showtimes WHERE id = ?`
    var st model.Showtime
    err := r.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.MovieTitle, &st.Screen, &st.StartsAt, &st.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrShowtimeNotFound
    }
    if err != nil {
        return nil, err
    }
    return &st, nil
}

// ListUpcoming returns showtimes that have not started yet, soonest
// first.  Used by the public browse endpoint.
func (r *ShowtimeRepo) ListUpcoming(ctx context.Context) ([]model.Showtime, error) {
    const q = `SELECT id, movie_title, screen, starts_at, created_at
               FROM showtimes
               WHERE starts_at > UTC_TIMESTAMP()
               ORDER BY starts_at ASC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]model.Showtime, 0)
    for rows.Next() {
        var st model.Showtime
        if err := rows.Scan(&st.ID, &st.MovieTitle, &st.Screen, &st.StartsAt, &st.CreatedAt); err != nil {
            return nil, err
        }
        items = append(items, st)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return items, nil
}

// CreateWithSeats inserts a showtime together with its full seat grid in
// one transaction.  This is the admin-side batch insert that produces the
// inventory the lock protocol operates on; it runs once per showtime and
// either the showtime and all its seats exist afterwards or none do.
// The ShowtimeID of each seat is filled in from the generated showtime ID.
func (r *ShowtimeRepo) CreateWithSeats(ctx context.Context, st *model.Showtime, seats []model.Seat, seatRepo *SeatRepo) error {
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
    const q = `INSERT INTO showtimes (movie_title, screen, starts_at) VALUES (?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, st.MovieTitle, st.Screen, st.StartsAt.UTC().Format(mysqlTime))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    st.ID = uint64(id)
    for i := range seats {
        seats[i].ShowtimeID = st.ID
    }
    if err := seatRepo.CreateBulkTx(ctx, tx, seats); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
