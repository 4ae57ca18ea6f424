package bookingapi

import (
	"context"
	nurl "net/url"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

func (a *BookingAPIAdapter) GetDoctors(ctx context.Context, hospitalID *int64, specialization string) ([]domain.Doctor, error) {
	a.logger.Info("bookingapi.doctors.fetch", out.LogFields{
		"hospitalId":     hospitalID,
		"specialization": specialization,
	})

	query := nurl.Values{}
	if hospitalID != nil {
		query.Add("hospitalId", formatID(*hospitalID))
	}
	if specialization != "" {
		query.Add("specialization", specialization)
	}

	var doctors []domain.Doctor
	if err := a.getJSON(ctx, "/doctors", query, &doctors); err != nil {
		return nil, err
	}

	a.logger.Debug("bookingapi.doctors.fetch_success", out.LogFields{
		"count": len(doctors),
	})
	return doctors, nil
}

func (a *BookingAPIAdapter) GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	var doctor domain.Doctor
	if err := a.getJSON(ctx, "/doctors/"+formatID(doctorID), nil, &doctor); err != nil {
		return nil, err
	}

	return &doctor, nil
}

func (a *BookingAPIAdapter) GetSpecializations(ctx context.Context) ([]string, error) {
	var specializations []string
	if err := a.getJSON(ctx, "/doctors/specializations", nil, &specializations); err != nil {
		return nil, err
	}

	return specializations, nil
}
