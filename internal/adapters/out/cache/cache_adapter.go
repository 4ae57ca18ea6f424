package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/hospital-booking-engine/internal/config"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

// CacheAdapter - единое хранилище ключ -> запись для всех видов запросов.
// Окно устаревания выбирается по виду ключа, инвалидация идет по префиксу.
type CacheAdapter struct {
	mu     sync.RWMutex
	cache  *lru.Cache[string, *domain.CacheEntry]
	cfg    *config.Config
	logger out.LoggerPort

	subsMu    sync.RWMutex
	subs      map[int]subscription
	nextSubID int
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	// Типизированный nil в интерфейсе CachePort прошел бы проверки
	// != nil в сервисе, поэтому выключенный кэш - это ошибка конструктора
	if !cfg.Cache.Enabled {
		return nil, errors.New("cache is disabled")
	}

	lruCache, err := lru.New[string, *domain.CacheEntry](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &CacheAdapter{
		cache:  lruCache,
		cfg:    cfg,
		logger: logger.WithModule("CacheAdapter"),
		subs:   make(map[int]subscription),
	}, nil
}

func (c *CacheAdapter) Get(ctx context.Context, key domain.CacheKey) (*domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache.Get(string(key))
	if !exists {
		c.logger.Debug("cache.get.miss", out.LogFields{
			"key": key,
		})
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"key":    key,
		"status": entry.Status,
	})
	return entry, true
}

func (c *CacheAdapter) Store(ctx context.Context, key domain.CacheKey, payload interface{}) {
	now := time.Now()
	ttl := c.cfg.TTLFor(key.Kind())

	// Запись заменяется целиком, прежняя остается у читателей,
	// которые успели ее получить
	newEntry := &domain.CacheEntry{
		Key:           key,
		Payload:       payload,
		Status:        domain.FetchStatusSuccess,
		LastFetchedAt: now,
		StaleUntil:    now.Add(ttl),
	}

	c.mu.Lock()
	c.cache.Add(string(key), newEntry)
	c.mu.Unlock()

	c.logger.Debug("cache.store", out.LogFields{
		"key":        key,
		"kind":       key.Kind(),
		"staleUntil": newEntry.StaleUntil,
	})

	c.notify(domain.CacheEvent{Key: key, Type: domain.CacheEventStore})
}

func (c *CacheAdapter) MarkLoading(ctx context.Context, key domain.CacheKey) {
	c.mark(key, domain.FetchStatusLoading)
}

// MarkError оставляет прежний payload и не сбрасывает StaleUntil:
// устаревшая ошибка не должна считаться свежей, следующий читатель
// пойдет в сеть снова
func (c *CacheAdapter) MarkError(ctx context.Context, key domain.CacheKey) {
	c.mark(key, domain.FetchStatusError)
}

func (c *CacheAdapter) mark(key domain.CacheKey, status domain.FetchStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.cache.Get(string(key))
	if !exists {
		c.cache.Add(string(key), &domain.CacheEntry{
			Key:    key,
			Status: status,
		})
		return
	}

	newEntry := &domain.CacheEntry{
		Key:           entry.Key,
		Payload:       entry.Payload,
		Status:        status,
		LastFetchedAt: entry.LastFetchedAt,
		StaleUntil:    entry.StaleUntil,
	}
	c.cache.Add(string(key), newEntry)
}

// Invalidate помечает устаревшими все ключи под префиксом.
// Payload остается на месте как "последнее известное хорошее",
// но следующий читатель обязан перечитать из сети.
func (c *CacheAdapter) Invalidate(ctx context.Context, prefix domain.CacheKeyPrefix) {
	c.mu.Lock()

	var invalidated []domain.CacheKey
	for _, rawKey := range c.cache.Keys() {
		key := domain.CacheKey(rawKey)
		if !key.HasPrefix(prefix) {
			continue
		}

		entry, exists := c.cache.Peek(rawKey)
		if !exists {
			continue
		}

		newEntry := &domain.CacheEntry{
			Key:           entry.Key,
			Payload:       entry.Payload,
			Status:        entry.Status,
			LastFetchedAt: entry.LastFetchedAt,
			StaleUntil:    time.Time{},
		}
		c.cache.Add(rawKey, newEntry)
		invalidated = append(invalidated, key)
	}

	c.mu.Unlock()

	c.logger.Debug("cache.invalidate", out.LogFields{
		"prefix": prefix,
		"count":  len(invalidated),
	})

	for _, key := range invalidated {
		c.notify(domain.CacheEvent{Key: key, Type: domain.CacheEventInvalidate})
	}
}

func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	c.cache.Purge()
	c.mu.Unlock()

	c.logger.Debug("cache.invalidate_all", out.LogFields{})
}

func (c *CacheAdapter) IsStale(ctx context.Context, key domain.CacheKey, now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache.Get(string(key))
	if !exists {
		return true
	}

	return !entry.Fresh(now)
}
