package domain

import (
	"fmt"

	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

type SearchMode string

const (
	SearchModeName           SearchMode = "name"
	SearchModeSpecialization SearchMode = "specialization"
)

// SearchCriteria - критерии поиска слотов одного экрана.
// Значение, не разделяемое состояние: каждый шаг навигации
// собирает свои критерии заново.
type SearchCriteria struct {
	Mode           SearchMode
	Query          string
	Specialization string
	Date           json_types.Date

	// Сужение из предыдущих шагов навигации
	HospitalID *int64
	DoctorID   *int64
}

// WithMode переключает режим поиска. Текст другого режима
// остается в структуре ради UX, но перестает влиять на
// валидацию и на производный ключ.
func (c SearchCriteria) WithMode(mode SearchMode) SearchCriteria {
	c.Mode = mode
	return c
}

func (c SearchCriteria) WithQuery(query string) SearchCriteria {
	c.Query = query
	return c
}

func (c SearchCriteria) WithSpecialization(specialization string) SearchCriteria {
	c.Specialization = specialization
	return c
}

func (c SearchCriteria) WithDate(date json_types.Date) SearchCriteria {
	c.Date = date
	return c
}

// Validate - поиск выполним только с датой и заполненным
// критерием активного режима
func (c SearchCriteria) Validate() error {
	if c.Date.IsZero() {
		return NewValidationError("search date is required")
	}

	switch c.Mode {
	case SearchModeName:
		if canonical(c.Query) == "" {
			return NewValidationError("doctor name query is required")
		}
	case SearchModeSpecialization:
		if canonical(c.Specialization) == "" {
			return NewValidationError("specialization is required")
		}
	default:
		return NewValidationError(fmt.Sprintf("unknown search mode: %s", c.Mode))
	}

	return nil
}

// CacheKey - производный ключ критериев. Учитывает только
// значение активного режима, поэтому два пути UI с одинаковыми
// каноническими значениями попадают в одну запись кэша.
func (c SearchCriteria) CacheKey() CacheKey {
	if c.Mode == SearchModeName {
		segments := []string{"slots", "search", "date=" + c.Date.String()}
		if c.DoctorID != nil {
			segments = append(segments, fmt.Sprintf("doctor=%d", *c.DoctorID))
		}
		if c.HospitalID != nil {
			segments = append(segments, fmt.Sprintf("hospital=%d", *c.HospitalID))
		}
		segments = append(segments, "q="+canonical(c.Query))
		return joinKey(segments...)
	}

	return SlotSearchKey(c.HospitalID, c.DoctorID, c.Specialization, c.Date)
}

// SlotRequest - критерии в форме запроса к сервису бронирования.
// Текстовый запрос режима "по имени" сервер не понимает,
// он разрешается в конкретных врачей на стороне движка.
func (c SearchCriteria) SlotRequest() SlotSearchRequest {
	req := SlotSearchRequest{
		HospitalID: c.HospitalID,
		DoctorID:   c.DoctorID,
		Date:       c.Date,
	}
	if c.Mode == SearchModeSpecialization {
		req.Specialization = c.Specialization
	}
	return req
}
