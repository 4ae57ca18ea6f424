package booking_flow_service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
	"github.com/suchimauz/hospital-booking-engine/internal/utils"
)

func (s *BookingFlowService) GetHospitals(ctx context.Context) ([]domain.Hospital, error) {
	return resolve(ctx, s, domain.HospitalsAllKey(), func(ctx context.Context) ([]domain.Hospital, error) {
		return s.apiPort.GetHospitals(ctx)
	})
}

func (s *BookingFlowService) GetHospitalsByCity(ctx context.Context, city string) ([]domain.Hospital, error) {
	if strings.TrimSpace(city) == "" {
		return nil, domain.NewValidationError("city is required")
	}

	return resolve(ctx, s, domain.HospitalsCityKey(city), func(ctx context.Context) ([]domain.Hospital, error) {
		return s.apiPort.GetHospitalsByCity(ctx, city)
	})
}

// SearchHospitals гейтит короткие запросы: до минимальной длины
// поиск в сеть не ходит и сообщает "запроса нет"
func (s *BookingFlowService) SearchHospitals(ctx context.Context, term string) ([]domain.Hospital, error) {
	trimmed := strings.TrimSpace(term)
	if utf8.RuneCountInString(trimmed) < s.cfg.Search.MinQueryLength {
		s.logger.Debug("hospitals.search.query_too_short", out.LogFields{
			"term":      trimmed,
			"minLength": s.cfg.Search.MinQueryLength,
		})
		return nil, domain.NewValidationError("search query is too short")
	}

	return resolve(ctx, s, domain.HospitalSearchKey(trimmed), func(ctx context.Context) ([]domain.Hospital, error) {
		return s.apiPort.SearchHospitals(ctx, trimmed)
	})
}

func (s *BookingFlowService) GetHospital(ctx context.Context, hospitalID int64) (*domain.Hospital, error) {
	return resolve(ctx, s, domain.HospitalDetailKey(hospitalID), func(ctx context.Context) (*domain.Hospital, error) {
		return s.apiPort.GetHospital(ctx, hospitalID)
	})
}

func (s *BookingFlowService) GetDoctors(ctx context.Context, hospitalID *int64, specialization string) ([]domain.Doctor, error) {
	return resolve(ctx, s, domain.DoctorsKey(hospitalID, specialization), func(ctx context.Context) ([]domain.Doctor, error) {
		return s.apiPort.GetDoctors(ctx, hospitalID, specialization)
	})
}

func (s *BookingFlowService) GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	return resolve(ctx, s, domain.DoctorDetailKey(doctorID), func(ctx context.Context) (*domain.Doctor, error) {
		return s.apiPort.GetDoctor(ctx, doctorID)
	})
}

func (s *BookingFlowService) GetSpecializations(ctx context.Context) ([]string, error) {
	return resolve(ctx, s, domain.SpecializationsKey(), func(ctx context.Context) ([]string, error) {
		return s.apiPort.GetSpecializations(ctx)
	})
}

// SearchSlots - поиск слотов по критериям экрана. Невыполнимые
// критерии отсекаются до сети. Результат кэшируется под производным
// ключом критериев, поэтому два одинаковых поиска с разных путей UI
// делят одну запись.
func (s *BookingFlowService) SearchSlots(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Slot, error) {
	if err := criteria.Validate(); err != nil {
		s.logger.Debug("slots.search.criteria_incomplete", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return resolve(ctx, s, criteria.CacheKey(), func(ctx context.Context) ([]domain.Slot, error) {
		if criteria.Mode == domain.SearchModeName {
			return s.searchSlotsByDoctorName(ctx, criteria)
		}
		return s.apiPort.SearchSlots(ctx, criteria.SlotRequest())
	})
}

// searchSlotsByDoctorName - сервер не умеет текстовый фильтр по имени,
// движок сначала разрешает имя в конкретных врачей, потом ищет слоты
func (s *BookingFlowService) searchSlotsByDoctorName(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Slot, error) {
	doctors, err := s.GetDoctors(ctx, criteria.HospitalID, "")
	if err != nil && doctors == nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(criteria.Query))
	slots := make([]domain.Slot, 0)

	for _, doctor := range doctors {
		if !strings.Contains(strings.ToLower(doctor.Name), query) {
			continue
		}

		doctorID := doctor.ID
		request := domain.SlotSearchRequest{
			HospitalID: criteria.HospitalID,
			DoctorID:   &doctorID,
			Date:       criteria.Date,
		}

		doctorSlots, err := s.apiPort.SearchSlots(ctx, request)
		if err != nil {
			return nil, err
		}
		slots = append(slots, doctorSlots...)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.String() < slots[j].StartTime.String()
	})

	return slots, nil
}

// AvailableDates - лента дат для выбора: длинный горизонт на лендинге,
// короткий после выбора конкретного врача
func (s *BookingFlowService) AvailableDates(doctorScoped bool) []json_types.Date {
	days := s.cfg.Search.LandingHorizonDays
	if doctorScoped {
		days = s.cfg.Search.DoctorHorizonDays
	}
	return utils.DateHorizon(time.Now(), days)
}

func (s *BookingFlowService) GetDoctorSlots(ctx context.Context, doctorID int64) ([]domain.Slot, error) {
	return resolve(ctx, s, domain.DoctorSlotsKey(doctorID), func(ctx context.Context) ([]domain.Slot, error) {
		return s.apiPort.GetDoctorSlots(ctx, doctorID)
	})
}

func (s *BookingFlowService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return resolve(ctx, s, domain.UserDetailKey(userID), func(ctx context.Context) (*domain.User, error) {
		return s.apiPort.GetUser(ctx, userID)
	})
}

func (s *BookingFlowService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.NewValidationError("email is required")
	}

	return resolve(ctx, s, domain.UserByEmailKey(email), func(ctx context.Context) (*domain.User, error) {
		return s.apiPort.GetUserByEmail(ctx, email)
	})
}

func (s *BookingFlowService) GetUsers(ctx context.Context) ([]domain.User, error) {
	return resolve(ctx, s, domain.UsersAllKey(), func(ctx context.Context) ([]domain.User, error) {
		return s.apiPort.GetUsers(ctx)
	})
}
