// Package mocks provides hand-rolled testify mocks for the service
// interfaces, used by the handler tests.
package mocks

import (
    "context"

    "github.com/stretchr/testify/mock"

    "github.com/kamatealif/quickshow-server/internal/model"
    "github.com/kamatealif/quickshow-server/internal/repository"
    "github.com/kamatealif/quickshow-server/internal/service"
)

// BookingService is a mock implementation of service.BookingService.
type BookingService struct {
    mock.Mock
}

func (m *BookingService) LockSeats(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) error {
    args := m.Called(ctx, userID, showtimeID, seatIDs)
    return args.Error(0)
}

func (m *BookingService) FinalizeBooking(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64, totalCents uint32) (*model.Booking, error) {
    args := m.Called(ctx, userID, showtimeID, seatIDs, totalCents)
    var b *model.Booking
    if v := args.Get(0); v != nil {
        b = v.(*model.Booking)
    }
    return b, args.Error(1)
}

func (m *BookingService) ReleaseSeats(ctx context.Context, userID, showtimeID uint64) (int64, error) {
    args := m.Called(ctx, userID, showtimeID)
    return args.Get(0).(int64), args.Error(1)
}

func (m *BookingService) SeatMap(ctx context.Context, showtimeID uint64) ([]service.SeatView, error) {
    args := m.Called(ctx, showtimeID)
    var views []service.SeatView
    if v := args.Get(0); v != nil {
        views = v.([]service.SeatView)
    }
    return views, args.Error(1)
}

func (m *BookingService) Bookings(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
    args := m.Called(ctx, userID)
    var out []repository.BookingDetail
    if v := args.Get(0); v != nil {
        out = v.([]repository.BookingDetail)
    }
    return out, args.Error(1)
}

func (m *BookingService) Booking(ctx context.Context, userID, bookingID uint64) (*repository.BookingDetail, error) {
    args := m.Called(ctx, userID, bookingID)
    var out *repository.BookingDetail
    if v := args.Get(0); v != nil {
        out = v.(*repository.BookingDetail)
    }
    return out, args.Error(1)
}
