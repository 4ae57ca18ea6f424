package bookingapi

import (
	"context"
	"errors"
	"net/http"
	nurl "net/url"
	"strings"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

func (a *BookingAPIAdapter) CreateBooking(ctx context.Context, request domain.BookingRequest) (*domain.Booking, error) {
	a.logger.Info("bookingapi.bookings.create", out.LogFields{
		"slotId": request.SlotID,
		"userId": request.UserID,
	})

	var booking domain.Booking
	if err := a.send(ctx, http.MethodPost, "/bookings", nil, request, &booking, true); err != nil {
		return nil, classifyCreateError(err)
	}

	a.logger.Info("bookingapi.bookings.create_success", out.LogFields{
		"bookingId": booking.ID,
		"status":    booking.Status,
	})
	return &booking, nil
}

func (a *BookingAPIAdapter) CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	a.logger.Info("bookingapi.bookings.cancel", out.LogFields{
		"bookingId": bookingID,
		"userId":    userID,
	})

	query := nurl.Values{}
	query.Add("userId", formatID(userID))

	var booking domain.Booking
	err := a.send(ctx, http.MethodDelete, "/bookings/"+formatID(bookingID)+"/cancel", query, nil, &booking, true)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (a *BookingAPIAdapter) GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := a.getJSON(ctx, "/bookings/user/"+formatID(userID), nil, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (a *BookingAPIAdapter) GetUpcomingBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := a.getJSON(ctx, "/bookings/user/"+formatID(userID)+"/upcoming", nil, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (a *BookingAPIAdapter) GetPastBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := a.getJSON(ctx, "/bookings/user/"+formatID(userID)+"/past", nil, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (a *BookingAPIAdapter) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var booking domain.Booking
	if err := a.getJSON(ctx, "/bookings/"+formatID(bookingID), nil, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

// classifyCreateError выделяет переполнение слота из отказов сервера.
// Гонка "слот был свежим в кэше, но последнее место забрали" - штатный
// исход, движок обязан отличать его от прочих отказов.
func classifyCreateError(err error) error {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) || domainErr.Kind != domain.ErrorKindServerRejection {
		return err
	}

	message := strings.ToLower(domainErr.Message)
	if domainErr.Status == http.StatusConflict ||
		strings.Contains(message, "full") ||
		strings.Contains(message, "not available") {
		return domain.NewCapacityExceededError(domainErr.Message)
	}

	return err
}
