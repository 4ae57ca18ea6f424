package booking_flow_service

import (
	"context"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

// CreateBooking - одна сетевая запись на одно подтверждение.
// Пока мутация в полете, повторное подтверждение того же пользователя
// отбивается локально, без похода в сеть.
func (s *BookingFlowService) CreateBooking(ctx context.Context, slotID, userID int64, patientNotes string) (*domain.Booking, error) {
	if slotID <= 0 {
		return nil, domain.NewValidationError("slot id is required")
	}
	if userID <= 0 {
		return nil, domain.NewValidationError("user id is required")
	}

	if !s.beginMutation(userID) {
		s.logger.Warn("bookings.create.duplicate_submission", out.LogFields{
			"slotId": slotID,
			"userId": userID,
		})
		return nil, domain.NewValidationError("booking mutation already in progress")
	}
	defer s.endMutation(userID)

	s.logger.Info("bookings.create.started", out.LogFields{
		"slotId": slotID,
		"userId": userID,
	})

	booking, err := s.apiPort.CreateBooking(ctx, domain.BookingRequest{
		SlotID:       slotID,
		UserID:       userID,
		PatientNotes: patientNotes,
	})
	if err != nil {
		if domain.IsErrorKind(err, domain.ErrorKindCapacityExceeded) {
			// Слот заполнился между чтением и записью: кэш слотов
			// доказуемо неправ, перечитываем даже при неудаче мутации
			s.logger.Warn("bookings.create.capacity_exceeded", out.LogFields{
				"slotId": slotID,
				"userId": userID,
			})
			s.invalidateSlots(ctx)
		}
		return nil, err
	}

	s.invalidateAfterMutation(ctx, userID)

	s.logger.Info("bookings.create.success", out.LogFields{
		"bookingId": booking.ID,
		"userId":    userID,
	})
	return booking, nil
}

// CancelBooking - переход CONFIRMED -> CANCELLED делает сервер.
// Отмену уже отмененной брони он отвергает, молча не проглатываем.
func (s *BookingFlowService) CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	if bookingID <= 0 {
		return nil, domain.NewValidationError("booking id is required")
	}
	if userID <= 0 {
		return nil, domain.NewValidationError("user id is required")
	}

	if !s.beginMutation(userID) {
		s.logger.Warn("bookings.cancel.duplicate_submission", out.LogFields{
			"bookingId": bookingID,
			"userId":    userID,
		})
		return nil, domain.NewValidationError("booking mutation already in progress")
	}
	defer s.endMutation(userID)

	s.logger.Info("bookings.cancel.started", out.LogFields{
		"bookingId": bookingID,
		"userId":    userID,
	})

	booking, err := s.apiPort.CancelBooking(ctx, bookingID, userID)
	if err != nil {
		if domain.IsErrorKind(err, domain.ErrorKindServerRejection) {
			// Локальный статус брони разошелся с сервером,
			// брони пользователя пометить на перечитку
			s.invalidateUserBookings(ctx, userID)
		}
		return nil, err
	}

	s.invalidateAfterMutation(ctx, userID)

	s.logger.Info("bookings.cancel.success", out.LogFields{
		"bookingId": booking.ID,
		"status":    booking.Status,
	})
	return booking, nil
}

// invalidateAfterMutation - каскад после успешной мутации:
// все ключи поиска слотов и брони этого пользователя.
// Справочники больниц и врачей не трогаем, мутация их не меняет.
func (s *BookingFlowService) invalidateAfterMutation(ctx context.Context, userID int64) {
	if s.cachePort == nil {
		return
	}

	s.logger.Debug("bookings.invalidate_cascade", out.LogFields{
		"userId": userID,
	})

	s.invalidateSlots(ctx)
	s.invalidateUserBookings(ctx, userID)
}

func (s *BookingFlowService) invalidateSlots(ctx context.Context) {
	if s.cachePort == nil {
		return
	}

	s.cachePort.Invalidate(ctx, domain.SlotsPrefix())
}

func (s *BookingFlowService) invalidateUserBookings(ctx context.Context, userID int64) {
	if s.cachePort == nil {
		return
	}

	s.cachePort.Invalidate(ctx, domain.UserBookingsPrefix(userID))
	s.cachePort.Invalidate(ctx, domain.UpcomingBookingsPrefix(userID))
	s.cachePort.Invalidate(ctx, domain.PastBookingsPrefix(userID))
}

func (s *BookingFlowService) GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return resolve(ctx, s, domain.UserBookingsKey(userID), func(ctx context.Context) ([]domain.Booking, error) {
		return s.apiPort.GetUserBookings(ctx, userID)
	})
}

func (s *BookingFlowService) GetUpcomingBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return resolve(ctx, s, domain.UpcomingBookingsKey(userID), func(ctx context.Context) ([]domain.Booking, error) {
		return s.apiPort.GetUpcomingBookings(ctx, userID)
	})
}

func (s *BookingFlowService) GetPastBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return resolve(ctx, s, domain.PastBookingsKey(userID), func(ctx context.Context) ([]domain.Booking, error) {
		return s.apiPort.GetPastBookings(ctx, userID)
	})
}

func (s *BookingFlowService) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return resolve(ctx, s, domain.BookingDetailKey(bookingID), func(ctx context.Context) (*domain.Booking, error) {
		return s.apiPort.GetBooking(ctx, bookingID)
	})
}

// RegisterUser - регистрация не трогает слоты и брони,
// инвалидация здесь скоупится списком пользователей
func (s *BookingFlowService) RegisterUser(ctx context.Context, request domain.CreateUserRequest) (*domain.User, error) {
	if request.Name == "" || request.Email == "" {
		return nil, domain.NewValidationError("user name and email are required")
	}

	user, err := s.apiPort.CreateUser(ctx, request)
	if err != nil {
		return nil, err
	}

	if s.cachePort != nil {
		s.cachePort.Invalidate(ctx, domain.CacheKeyPrefix("users"))
	}

	return user, nil
}
