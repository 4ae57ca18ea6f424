package domain

import (
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

// Slot - слот записи к врачу с счетчиками вместимости.
// Клиент никогда не меняет слот сам: после мутации брони
// слот перечитывается с сервера через инвалидацию кэша.
type Slot struct {
	ID             int64                `json:"id"`
	SlotDate       json_types.Date      `json:"slotDate"`
	StartTime      json_types.TimeOfDay `json:"startTime"`
	EndTime        json_types.TimeOfDay `json:"endTime"`
	TotalSlots     int                  `json:"totalSlots"`
	BookedSlots    int                  `json:"bookedSlots"`
	AvailableSlots int                  `json:"availableSlots"`
	Doctor         DoctorSummary        `json:"doctor"`
	Hospital       Hospital             `json:"hospital"`
}

func (s Slot) Available() bool {
	return s.AvailableSlots > 0
}

// SlotSearchRequest - тело POST /slots/search
type SlotSearchRequest struct {
	HospitalID     *int64          `json:"hospitalId,omitempty"`
	DoctorID       *int64          `json:"doctorId,omitempty"`
	Specialization string          `json:"specialization,omitempty"`
	Date           json_types.Date `json:"date"`
}
