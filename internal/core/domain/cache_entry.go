package domain

import "time"

type FetchStatus string

const (
	FetchStatusIdle    FetchStatus = "idle"
	FetchStatusLoading FetchStatus = "loading"
	FetchStatusSuccess FetchStatus = "success"
	FetchStatusError   FetchStatus = "error"
)

// CacheEntry - запись кэша. Записи заменяются целиком, никогда не
// правятся на месте, чтобы читатели не видели частичных обновлений.
type CacheEntry struct {
	Key           CacheKey
	Payload       interface{}
	Status        FetchStatus
	LastFetchedAt time.Time
	StaleUntil    time.Time
}

// Fresh - можно ли отдавать запись без похода в сеть
func (e *CacheEntry) Fresh(now time.Time) bool {
	return e.Status == FetchStatusSuccess && now.Before(e.StaleUntil)
}

type CacheEventType string

const (
	CacheEventStore      CacheEventType = "store"
	CacheEventInvalidate CacheEventType = "invalidate"
)

// CacheEvent - уведомление подписчику об изменении ключа
type CacheEvent struct {
	Key  CacheKey
	Type CacheEventType
}
