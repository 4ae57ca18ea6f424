package booking_flow_service

import (
	"sync"

	"github.com/suchimauz/hospital-booking-engine/internal/config"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

// BookingFlowService - ядро движка: координатор чтений через кэш
// и координатор мутаций с каскадной инвалидацией.
type BookingFlowService struct {
	apiPort   out.BookingAPIPort
	cachePort out.CachePort
	logger    out.LoggerPort
	cfg       *config.Config

	// Не больше одного сетевого запроса на ключ
	inflightMu sync.Mutex
	inflight   map[domain.CacheKey]*inflightFetch

	// Не больше одной мутации на пользователя:
	// движковый аналог заблокированной кнопки подтверждения
	mutationMu       sync.Mutex
	mutationInFlight map[int64]bool
}

func NewBookingFlowService(
	apiPort out.BookingAPIPort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *BookingFlowService {
	return &BookingFlowService{
		apiPort:          apiPort,
		cachePort:        cachePort,
		cfg:              cfg,
		logger:           logger.WithModule("BookingFlowService"),
		inflight:         make(map[domain.CacheKey]*inflightFetch),
		mutationInFlight: make(map[int64]bool),
	}
}

func (s *BookingFlowService) beginMutation(userID int64) bool {
	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	if s.mutationInFlight[userID] {
		return false
	}
	s.mutationInFlight[userID] = true
	return true
}

func (s *BookingFlowService) endMutation(userID int64) {
	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	delete(s.mutationInFlight, userID)
}
