package in

import (
	"context"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

// SearchUseCase - читающая сторона движка. Все операции идут через
// кэш: свежая запись отдается без сети, устаревшая перечитывается
// одним запросом на ключ. Ошибка сети вместе с ненулевыми данными
// означает "последнее известное хорошее" плюс индикатор ошибки.
type SearchUseCase interface {
	GetHospitals(ctx context.Context) ([]domain.Hospital, error)
	GetHospitalsByCity(ctx context.Context, city string) ([]domain.Hospital, error)
	// SearchHospitals режет запросы короче минимальной длины
	// до сети, ошибкой валидации
	SearchHospitals(ctx context.Context, term string) ([]domain.Hospital, error)
	GetHospital(ctx context.Context, hospitalID int64) (*domain.Hospital, error)

	GetDoctors(ctx context.Context, hospitalID *int64, specialization string) ([]domain.Doctor, error)
	GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error)
	GetSpecializations(ctx context.Context) ([]string, error)

	SearchSlots(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Slot, error)
	GetDoctorSlots(ctx context.Context, doctorID int64) ([]domain.Slot, error)
	// AvailableDates - лента дат: горизонт лендинга или горизонт врача
	AvailableDates(doctorScoped bool) []json_types.Date

	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUsers(ctx context.Context) ([]domain.User, error)
}
