package bookingapi

import (
	"context"
	"net/http"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

func (a *BookingAPIAdapter) SearchSlots(ctx context.Context, request domain.SlotSearchRequest) ([]domain.Slot, error) {
	a.logger.Info("bookingapi.slots.search", out.LogFields{
		"hospitalId":     request.HospitalID,
		"doctorId":       request.DoctorID,
		"specialization": request.Specialization,
		"date":           request.Date.String(),
	})

	var slots []domain.Slot
	if err := a.send(ctx, http.MethodPost, "/slots/search", nil, request, &slots, false); err != nil {
		return nil, err
	}

	a.logger.Debug("bookingapi.slots.search_success", out.LogFields{
		"count": len(slots),
	})
	return slots, nil
}

func (a *BookingAPIAdapter) GetDoctorSlots(ctx context.Context, doctorID int64) ([]domain.Slot, error) {
	var slots []domain.Slot
	if err := a.getJSON(ctx, "/slots/doctor/"+formatID(doctorID), nil, &slots); err != nil {
		return nil, err
	}

	return slots, nil
}
