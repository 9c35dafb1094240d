package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/kamatealif/quickshow-server/internal/model"
    "github.com/kamatealif/quickshow-server/internal/repository"
)

// ShowtimeCreator persists a new showtime with its seat grid.
// *repository.ShowtimeRepo satisfies it via a small closure in main.
type ShowtimeCreator interface {
    CreateWithSeats(ctx context.Context, st *model.Showtime, seats []model.Seat) error
}

// AdminHandler exposes the admin-side inventory operations.  Scheduling a
// showtime bulk-creates one seat row per physical seat; these rows are
// the inventory the locking protocol operates on and are mutated only by
// lock, release and finalize afterwards.
type AdminHandler struct {
    Showtimes ShowtimeCreator
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(showtimes ShowtimeCreator) *AdminHandler {
    if showtimes == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Showtimes: showtimes}
}

type createShowtimeReq struct {
    MovieTitle  string `json:"movie_title"`
    Screen      string `json:"screen"`
    StartsAt    string `json:"starts_at"` // RFC3339
    Rows        int    `json:"rows"`
    SeatsPerRow int    `json:"seats_per_row"`
    PriceCents  uint32 `json:"price_cents"`
}

// CreateShowtime handles POST /v1/admin/showtimes.  Creates the showtime
// and its full seat grid in one transaction, so the inventory either
// exists completely or not at all.  Grid dimensions are bounded to keep
// the single bulk INSERT reasonable.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
    var body createShowtimeReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.MovieTitle == "" || body.Screen == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_title and screen are required"})
    }
    startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
    }
    if body.Rows < 1 || body.Rows > 50 || body.SeatsPerRow < 1 || body.SeatsPerRow > 100 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows must be 1-50 and seats_per_row 1-100"})
    }
    if body.PriceCents == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents is required"})
    }

    st := &model.Showtime{
        MovieTitle: body.MovieTitle,
        Screen:     body.Screen,
        StartsAt:   startsAt.UTC(),
    }
    seats := make([]model.Seat, 0, body.Rows*body.SeatsPerRow)
    for row := 0; row < body.Rows; row++ {
        label := indexToRowLabel(row)
        for num := 1; num <= body.SeatsPerRow; num++ {
            seats = append(seats, model.Seat{
                RowLabel:   label,
                SeatNumber: uint32(num),
                PriceCents: body.PriceCents,
            })
        }
    }
    if err := h.Showtimes.CreateWithSeats(c.Request().Context(), st, seats); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create showtime"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":         st.ID,
        "seat_count": len(seats),
    })
}

// showtimeCreatorFunc adapts *repository.ShowtimeRepo (whose
// CreateWithSeats additionally takes the seat repository it bulk-inserts
// through) to the ShowtimeCreator interface.
type showtimeCreatorFunc func(ctx context.Context, st *model.Showtime, seats []model.Seat) error

func (f showtimeCreatorFunc) CreateWithSeats(ctx context.Context, st *model.Showtime, seats []model.Seat) error {
    return f(ctx, st, seats)
}

// NewShowtimeCreator binds a showtime repo and seat repo into a
// ShowtimeCreator.
func NewShowtimeCreator(showtimes *repository.ShowtimeRepo, seatRepo *repository.SeatRepo) ShowtimeCreator {
    return showtimeCreatorFunc(func(ctx context.Context, st *model.Showtime, seats []model.Seat) error {
        return showtimes.CreateWithSeats(ctx, st, seats, seatRepo)
    })
}
