package out

import (
	"context"
	"time"

	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
)

// CachePort - единственный разделяемый изменяемый ресурс движка.
// Все мутации проходят через Store/Mark*/Invalidate.
type CachePort interface {
	Get(ctx context.Context, key domain.CacheKey) (*domain.CacheEntry, bool)
	Store(ctx context.Context, key domain.CacheKey, payload interface{})

	// MarkLoading помечает запись на время сетевого запроса
	MarkLoading(ctx context.Context, key domain.CacheKey)
	// MarkError оставляет прежний payload, окно устаревания не сбрасывает:
	// следующий читатель пойдет в сеть снова
	MarkError(ctx context.Context, key domain.CacheKey)

	// Invalidate помечает устаревшими все ключи под префиксом,
	// payload остается как "последнее известное хорошее"
	Invalidate(ctx context.Context, prefix domain.CacheKeyPrefix)
	InvalidateAll(ctx context.Context)

	IsStale(ctx context.Context, key domain.CacheKey, now time.Time) bool

	// Подписка на store/invalidate по префиксу ключа
	Subscribe(prefix domain.CacheKeyPrefix, fn func(event domain.CacheEvent)) int
	Unsubscribe(id int)
}
