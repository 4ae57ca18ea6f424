package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/hospital-booking-engine/internal/adapters/out/logger"
	"github.com/suchimauz/hospital-booking-engine/internal/config"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.Size = 100
	cfg.Cache.TTL.Hospitals = 5 * time.Minute
	cfg.Cache.TTL.HospitalSearch = 2 * time.Minute
	cfg.Cache.TTL.HospitalDetail = 10 * time.Minute
	cfg.Cache.TTL.Doctors = 5 * time.Minute
	cfg.Cache.TTL.DoctorDetail = 10 * time.Minute
	cfg.Cache.TTL.Specializations = time.Hour
	cfg.Cache.TTL.Slots = time.Minute
	cfg.Cache.TTL.Bookings = 30 * time.Second
	cfg.Cache.TTL.BookingsPast = 5 * time.Minute
	cfg.Cache.TTL.BookingDetail = time.Minute
	cfg.Cache.TTL.Users = 10 * time.Minute
	return cfg
}

func newTestAdapter(t *testing.T) *CacheAdapter {
	t.Helper()

	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	adapter, err := NewCacheAdapter(testConfig(), log)
	require.NoError(t, err)
	require.NotNil(t, adapter)
	return adapter
}

func slotKey(hospitalID int64) domain.CacheKey {
	date := json_types.NewDate(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	return domain.SlotSearchKey(&hospitalID, nil, "cardiology", date)
}

func TestNewCacheAdapter_DisabledIsConstructorError(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = false

	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	adapter, err := NewCacheAdapter(cfg, log)
	assert.Error(t, err)
	assert.Nil(t, adapter)
}

func TestCacheAdapter_StoreThenGetFresh(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	key := domain.HospitalsAllKey()
	payload := []domain.Hospital{{ID: 1, Name: "Central"}}

	adapter.Store(ctx, key, payload)

	entry, exists := adapter.Get(ctx, key)
	require.True(t, exists)
	assert.True(t, entry.Fresh(time.Now()))
	assert.Equal(t, payload, entry.Payload)
	assert.Equal(t, domain.FetchStatusSuccess, entry.Status)
}

func TestCacheAdapter_StaleAfterWindow(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	key := slotKey(5)

	adapter.Store(ctx, key, []domain.Slot{})

	assert.False(t, adapter.IsStale(ctx, key, time.Now()))
	// Окно слотов - минута, через две запись устарела
	assert.True(t, adapter.IsStale(ctx, key, time.Now().Add(2*time.Minute)))
}

func TestCacheAdapter_IsStale_MissingKey(t *testing.T) {
	adapter := newTestAdapter(t)

	assert.True(t, adapter.IsStale(context.Background(), domain.UsersAllKey(), time.Now()))
}

func TestCacheAdapter_MarkError_KeepsPayloadAndWindow(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	key := domain.HospitalsAllKey()
	payload := []domain.Hospital{{ID: 1, Name: "Central"}}

	adapter.Store(ctx, key, payload)
	adapter.MarkError(ctx, key)

	entry, exists := adapter.Get(ctx, key)
	require.True(t, exists)
	assert.Equal(t, domain.FetchStatusError, entry.Status)
	assert.Equal(t, payload, entry.Payload)
	// Статус error не считается свежим даже внутри окна
	assert.False(t, entry.Fresh(time.Now()))
}

func TestCacheAdapter_Invalidate_ScopedByPrefix(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	slots := slotKey(5)
	hospitals := domain.HospitalsAllKey()

	adapter.Store(ctx, slots, []domain.Slot{{ID: 1}})
	adapter.Store(ctx, hospitals, []domain.Hospital{{ID: 1}})

	adapter.Invalidate(ctx, domain.SlotsPrefix())

	// Слоты устарели, но payload остался как последнее известное хорошее
	entry, exists := adapter.Get(ctx, slots)
	require.True(t, exists)
	assert.False(t, entry.Fresh(time.Now()))
	assert.Equal(t, []domain.Slot{{ID: 1}}, entry.Payload)

	// Справочник больниц не задет
	entry, exists = adapter.Get(ctx, hospitals)
	require.True(t, exists)
	assert.True(t, entry.Fresh(time.Now()))
}

func TestCacheAdapter_InvalidateAll(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	adapter.Store(ctx, domain.HospitalsAllKey(), []domain.Hospital{})
	adapter.InvalidateAll(ctx)

	_, exists := adapter.Get(ctx, domain.HospitalsAllKey())
	assert.False(t, exists)
}

func TestCacheAdapter_Subscribe_PrefixFiltered(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	var events []domain.CacheEvent
	adapter.Subscribe(domain.SlotsPrefix(), func(event domain.CacheEvent) {
		events = append(events, event)
	})

	adapter.Store(ctx, slotKey(5), []domain.Slot{})
	adapter.Store(ctx, domain.HospitalsAllKey(), []domain.Hospital{})
	adapter.Invalidate(ctx, domain.SlotsPrefix())

	require.Len(t, events, 2)
	assert.Equal(t, domain.CacheEventStore, events[0].Type)
	assert.Equal(t, domain.CacheEventInvalidate, events[1].Type)
	assert.Equal(t, slotKey(5), events[0].Key)
}

func TestCacheAdapter_Unsubscribe(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	calls := 0
	id := adapter.Subscribe(domain.SlotsPrefix(), func(event domain.CacheEvent) {
		calls++
	})

	adapter.Store(ctx, slotKey(5), []domain.Slot{})
	adapter.Unsubscribe(id)
	adapter.Store(ctx, slotKey(5), []domain.Slot{})

	assert.Equal(t, 1, calls)
}
