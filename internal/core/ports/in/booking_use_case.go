package in

import (
	"context"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
)

// BookingUseCase - пишущая сторона движка. Одна сетевая запись на
// одно подтверждение пользователя, без автоповторов. Успешная
// мутация каскадно инвалидирует слоты и брони пользователя.
type BookingUseCase interface {
	CreateBooking(ctx context.Context, slotID, userID int64, patientNotes string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error)

	GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetUpcomingBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetPastBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)

	RegisterUser(ctx context.Context, request domain.CreateUserRequest) (*domain.User, error)
}
