package out

import (
	"context"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
)

// BookingAPIPort - удаленный сервис бронирования, владелец
// авторитетного состояния доступности. Защита от двойного
// бронирования - его зона ответственности.
type BookingAPIPort interface {
	// Больницы
	GetHospitals(ctx context.Context) ([]domain.Hospital, error)
	SearchHospitals(ctx context.Context, name string) ([]domain.Hospital, error)
	GetHospitalsByCity(ctx context.Context, city string) ([]domain.Hospital, error)
	GetHospital(ctx context.Context, hospitalID int64) (*domain.Hospital, error)

	// Врачи
	GetDoctors(ctx context.Context, hospitalID *int64, specialization string) ([]domain.Doctor, error)
	GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error)
	GetSpecializations(ctx context.Context) ([]string, error)

	// Слоты
	SearchSlots(ctx context.Context, request domain.SlotSearchRequest) ([]domain.Slot, error)
	GetDoctorSlots(ctx context.Context, doctorID int64) ([]domain.Slot, error)

	// Брони
	CreateBooking(ctx context.Context, request domain.BookingRequest) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error)
	GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetUpcomingBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetPastBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)

	// Пользователи
	CreateUser(ctx context.Context, request domain.CreateUserRequest) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUsers(ctx context.Context) ([]domain.User, error)
}
