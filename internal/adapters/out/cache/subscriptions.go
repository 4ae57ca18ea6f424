package cache

import (
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

type subscription struct {
	prefix domain.CacheKeyPrefix
	fn     func(event domain.CacheEvent)
}

// Subscribe регистрирует интерес к ключам под префиксом.
// Уведомления приходят на store и invalidate, это отвязывает
// потребителей от конкретного механизма отрисовки.
func (c *CacheAdapter) Subscribe(prefix domain.CacheKeyPrefix, fn func(event domain.CacheEvent)) int {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subs[id] = subscription{prefix: prefix, fn: fn}

	c.logger.Debug("cache.subscribe", out.LogFields{
		"id":     id,
		"prefix": prefix,
	})

	return id
}

func (c *CacheAdapter) Unsubscribe(id int) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	delete(c.subs, id)
}

// notify зовет подписчиков вне основного мьютекса,
// чтобы обработчик мог сам читать кэш
func (c *CacheAdapter) notify(event domain.CacheEvent) {
	c.subsMu.RLock()
	matched := make([]func(domain.CacheEvent), 0, len(c.subs))
	for _, sub := range c.subs {
		if event.Key.HasPrefix(sub.prefix) {
			matched = append(matched, sub.fn)
		}
	}
	c.subsMu.RUnlock()

	for _, fn := range matched {
		fn(event)
	}
}
