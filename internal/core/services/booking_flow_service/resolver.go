package booking_flow_service

import (
	"context"
	"fmt"
	"time"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

type inflightFetch struct {
	done    chan struct{}
	payload interface{}
	err     error
}

// resolve - координатор чтения одного ключа.
// Свежая запись отдается без сети. Устаревшая или отсутствующая
// перечитывается, причем параллельные читатели одного ключа делят
// один сетевой запрос. Запрос живет своим контекстом: исчезнувший
// инициатор не отменяет загрузку для остальных потребителей ключа,
// результат в любом случае ложится в кэш.
func resolve[T any](ctx context.Context, s *BookingFlowService, key domain.CacheKey, fetch func(ctx context.Context) (T, error)) (T, error) {
	now := time.Now()

	if s.cachePort != nil {
		if entry, exists := s.cachePort.Get(ctx, key); exists && entry.Fresh(now) {
			if payload, ok := entry.Payload.(T); ok {
				s.logger.Debug("resolve.cache.hit", out.LogFields{
					"key": key,
				})
				return payload, nil
			}
		}
	}

	s.inflightMu.Lock()
	if call, exists := s.inflight[key]; exists {
		s.inflightMu.Unlock()
		s.logger.Debug("resolve.dedup.join", out.LogFields{
			"key": key,
		})
		return awaitFetch[T](ctx, s, key, call)
	}

	call := &inflightFetch{done: make(chan struct{})}
	s.inflight[key] = call
	s.inflightMu.Unlock()

	if s.cachePort != nil {
		s.cachePort.MarkLoading(ctx, key)
	}

	go func() {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.BookingAPI.Timeout)
		defer cancel()

		payload, err := fetch(fetchCtx)
		if err != nil {
			s.logger.Warn("resolve.fetch.failed", out.LogFields{
				"key":   key,
				"error": err.Error(),
			})
			if s.cachePort != nil {
				s.cachePort.MarkError(fetchCtx, key)
			}
		} else if s.cachePort != nil {
			s.cachePort.Store(fetchCtx, key, payload)
		}

		call.payload = payload
		call.err = err

		s.inflightMu.Lock()
		delete(s.inflight, key)
		s.inflightMu.Unlock()

		close(call.done)
	}()

	return awaitFetch[T](ctx, s, key, call)
}

func awaitFetch[T any](ctx context.Context, s *BookingFlowService, key domain.CacheKey, call *inflightFetch) (T, error) {
	var zero T

	select {
	case <-call.done:
		if call.err != nil {
			return lastKnownGood[T](ctx, s, key, call.err)
		}
		payload, ok := call.payload.(T)
		if !ok {
			return zero, fmt.Errorf("resolve.payload_type_mismatch: key %s", key)
		}
		return payload, nil
	case <-ctx.Done():
		// Инициатору уже не интересно, загрузка доезжает до кэша сама
		return zero, fmt.Errorf("resolve.abandoned: %w", domain.NewNetworkError(ctx.Err().Error()))
	}
}

// lastKnownGood - деградация чтения: прежние данные плюс ошибка
func lastKnownGood[T any](ctx context.Context, s *BookingFlowService, key domain.CacheKey, err error) (T, error) {
	var zero T

	if s.cachePort != nil {
		if entry, exists := s.cachePort.Get(ctx, key); exists {
			if payload, ok := entry.Payload.(T); ok {
				return payload, err
			}
		}
	}

	return zero, err
}
