package bookingapi

import (
	"context"
	"net/http"
	nurl "net/url"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

func (a *BookingAPIAdapter) CreateUser(ctx context.Context, request domain.CreateUserRequest) (*domain.User, error) {
	a.logger.Info("bookingapi.users.create", out.LogFields{
		"email": request.Email,
	})

	var user domain.User
	if err := a.send(ctx, http.MethodPost, "/users", nil, request, &user, true); err != nil {
		return nil, err
	}

	return &user, nil
}

func (a *BookingAPIAdapter) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var user domain.User
	if err := a.getJSON(ctx, "/users/"+formatID(userID), nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (a *BookingAPIAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := a.getJSON(ctx, "/users/email/"+nurl.PathEscape(email), nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (a *BookingAPIAdapter) GetUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := a.getJSON(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}

	return users, nil
}
