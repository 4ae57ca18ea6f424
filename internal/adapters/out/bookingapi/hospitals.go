package bookingapi

import (
	"context"
	nurl "net/url"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

func (a *BookingAPIAdapter) GetHospitals(ctx context.Context) ([]domain.Hospital, error) {
	a.logger.Info("bookingapi.hospitals.fetch", out.LogFields{})

	var hospitals []domain.Hospital
	if err := a.getJSON(ctx, "/hospitals", nil, &hospitals); err != nil {
		return nil, err
	}

	a.logger.Debug("bookingapi.hospitals.fetch_success", out.LogFields{
		"count": len(hospitals),
	})
	return hospitals, nil
}

func (a *BookingAPIAdapter) SearchHospitals(ctx context.Context, name string) ([]domain.Hospital, error) {
	a.logger.Info("bookingapi.hospitals.search", out.LogFields{
		"name": name,
	})

	query := nurl.Values{}
	query.Add("name", name)

	var hospitals []domain.Hospital
	if err := a.getJSON(ctx, "/hospitals/search", query, &hospitals); err != nil {
		return nil, err
	}

	return hospitals, nil
}

func (a *BookingAPIAdapter) GetHospitalsByCity(ctx context.Context, city string) ([]domain.Hospital, error) {
	a.logger.Info("bookingapi.hospitals.by_city", out.LogFields{
		"city": city,
	})

	var hospitals []domain.Hospital
	if err := a.getJSON(ctx, "/hospitals/city/"+nurl.PathEscape(city), nil, &hospitals); err != nil {
		return nil, err
	}

	return hospitals, nil
}

func (a *BookingAPIAdapter) GetHospital(ctx context.Context, hospitalID int64) (*domain.Hospital, error) {
	var hospital domain.Hospital
	if err := a.getJSON(ctx, "/hospitals/"+formatID(hospitalID), nil, &hospital); err != nil {
		return nil, err
	}

	return &hospital, nil
}
