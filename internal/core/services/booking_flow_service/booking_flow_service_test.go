package booking_flow_service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/hospital-booking-engine/internal/adapters/out/cache"
	"github.com/suchimauz/hospital-booking-engine/internal/adapters/out/logger"
	"github.com/suchimauz/hospital-booking-engine/internal/config"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

// fakeBookingAPI считает сетевые вызовы по операциям и умеет
// подменять ответы и ошибки
type fakeBookingAPI struct {
	mu    sync.Mutex
	calls map[string]int

	hospitals       []domain.Hospital
	doctors         []domain.Doctor
	slots           []domain.Slot
	bookings        []domain.Booking
	booking         *domain.Booking
	user            *domain.User
	users           []domain.User
	specializations []string

	// Когда выставлен, все чтения возвращают его
	failWith error

	createErr   error
	cancelErr   error
	createBlock chan struct{}

	slotsFn func(request domain.SlotSearchRequest) ([]domain.Slot, error)
}

func newFakeBookingAPI() *fakeBookingAPI {
	return &fakeBookingAPI{
		calls:   make(map[string]int),
		booking: &domain.Booking{ID: 100, Status: domain.BookingStatusConfirmed},
	}
}

func (f *fakeBookingAPI) record(operation string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[operation]++
}

func (f *fakeBookingAPI) callCount(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[operation]
}

func (f *fakeBookingAPI) setFailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

func (f *fakeBookingAPI) readError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failWith
}

func (f *fakeBookingAPI) GetHospitals(ctx context.Context) ([]domain.Hospital, error) {
	f.record("GetHospitals")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.hospitals, nil
}

func (f *fakeBookingAPI) SearchHospitals(ctx context.Context, name string) ([]domain.Hospital, error) {
	f.record("SearchHospitals")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.hospitals, nil
}

func (f *fakeBookingAPI) GetHospitalsByCity(ctx context.Context, city string) ([]domain.Hospital, error) {
	f.record("GetHospitalsByCity")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.hospitals, nil
}

func (f *fakeBookingAPI) GetHospital(ctx context.Context, hospitalID int64) (*domain.Hospital, error) {
	f.record("GetHospital")
	if err := f.readError(); err != nil {
		return nil, err
	}
	if len(f.hospitals) > 0 {
		return &f.hospitals[0], nil
	}
	return &domain.Hospital{ID: hospitalID}, nil
}

func (f *fakeBookingAPI) GetDoctors(ctx context.Context, hospitalID *int64, specialization string) ([]domain.Doctor, error) {
	f.record("GetDoctors")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.doctors, nil
}

func (f *fakeBookingAPI) GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	f.record("GetDoctor")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return &domain.Doctor{ID: doctorID}, nil
}

func (f *fakeBookingAPI) GetSpecializations(ctx context.Context) ([]string, error) {
	f.record("GetSpecializations")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.specializations, nil
}

func (f *fakeBookingAPI) SearchSlots(ctx context.Context, request domain.SlotSearchRequest) ([]domain.Slot, error) {
	f.record("SearchSlots")
	if err := f.readError(); err != nil {
		return nil, err
	}
	if f.slotsFn != nil {
		return f.slotsFn(request)
	}
	return f.slots, nil
}

func (f *fakeBookingAPI) GetDoctorSlots(ctx context.Context, doctorID int64) ([]domain.Slot, error) {
	f.record("GetDoctorSlots")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.slots, nil
}

func (f *fakeBookingAPI) CreateBooking(ctx context.Context, request domain.BookingRequest) (*domain.Booking, error) {
	f.record("CreateBooking")
	if f.createBlock != nil {
		<-f.createBlock
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.booking, nil
}

func (f *fakeBookingAPI) CancelBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	f.record("CancelBooking")
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	cancelled := *f.booking
	cancelled.Status = domain.BookingStatusCancelled
	return &cancelled, nil
}

func (f *fakeBookingAPI) GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	f.record("GetUserBookings")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.bookings, nil
}

func (f *fakeBookingAPI) GetUpcomingBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	f.record("GetUpcomingBookings")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.bookings, nil
}

func (f *fakeBookingAPI) GetPastBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	f.record("GetPastBookings")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.bookings, nil
}

func (f *fakeBookingAPI) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	f.record("GetBooking")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.booking, nil
}

func (f *fakeBookingAPI) CreateUser(ctx context.Context, request domain.CreateUserRequest) (*domain.User, error) {
	f.record("CreateUser")
	return &domain.User{ID: 1, Name: request.Name, Email: request.Email}, nil
}

func (f *fakeBookingAPI) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	f.record("GetUser")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeBookingAPI) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.record("GetUserByEmail")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeBookingAPI) GetUsers(ctx context.Context) ([]domain.User, error) {
	f.record("GetUsers")
	if err := f.readError(); err != nil {
		return nil, err
	}
	return f.users, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.BookingAPI.Timeout = 5 * time.Second
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
	cfg.Search.MinQueryLength = 2
	cfg.Search.LandingHorizonDays = 30
	cfg.Search.DoctorHorizonDays = 7
	return cfg
}

func newTestService(t *testing.T, api *fakeBookingAPI) (*BookingFlowService, *cache.CacheAdapter) {
	t.Helper()

	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	cfg := testConfig()
	cacheAdapter, err := cache.NewCacheAdapter(cfg, log)
	require.NoError(t, err)

	return NewBookingFlowService(api, cacheAdapter, cfg, log), cacheAdapter
}

func testDate() json_types.Date {
	return json_types.NewDate(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestGetHospitals_FreshHitSkipsNetwork(t *testing.T) {
	api := newFakeBookingAPI()
	api.hospitals = []domain.Hospital{{ID: 1, Name: "Central"}}
	service, _ := newTestService(t, api)
	ctx := context.Background()

	first, err := service.GetHospitals(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.hospitals, first)

	second, err := service.GetHospitals(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, api.callCount("GetHospitals"))
}

func TestGetHospitals_ConcurrentReadersShareOneFetch(t *testing.T) {
	api := newFakeBookingAPI()
	api.hospitals = []domain.Hospital{{ID: 1}}
	service, _ := newTestService(t, api)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.GetHospitals(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, api.callCount("GetHospitals"))
}

func TestSearchHospitals_ShortQueryNeverReachesNetwork(t *testing.T) {
	api := newFakeBookingAPI()
	service, _ := newTestService(t, api)
	ctx := context.Background()

	_, err := service.SearchHospitals(ctx, "a")
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindValidationFailure))
	assert.Equal(t, 0, api.callCount("SearchHospitals"))

	_, err = service.SearchHospitals(ctx, "ab")
	require.NoError(t, err)
	assert.Equal(t, 1, api.callCount("SearchHospitals"))
}

func TestGetHospitals_FailureServesLastKnownGood(t *testing.T) {
	api := newFakeBookingAPI()
	api.hospitals = []domain.Hospital{{ID: 1, Name: "Central"}}
	service, cacheAdapter := newTestService(t, api)
	ctx := context.Background()

	_, err := service.GetHospitals(ctx)
	require.NoError(t, err)

	// Запись устарела, сеть упала
	cacheAdapter.Invalidate(ctx, domain.CacheKeyPrefix("hospitals"))
	api.setFailWith(domain.NewNetworkError("connection refused"))

	hospitals, err := service.GetHospitals(ctx)
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindNetworkFailure))
	assert.Equal(t, api.hospitals, hospitals)
	assert.Equal(t, 2, api.callCount("GetHospitals"))

	// Ошибка не кэшируется: следующий читатель идет в сеть снова
	api.setFailWith(nil)
	hospitals, err = service.GetHospitals(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.hospitals, hospitals)
	assert.Equal(t, 3, api.callCount("GetHospitals"))
}

func TestSearchSlots_IncompleteCriteriaNoNetwork(t *testing.T) {
	api := newFakeBookingAPI()
	service, _ := newTestService(t, api)

	_, err := service.SearchSlots(context.Background(), domain.SearchCriteria{
		Mode:  domain.SearchModeSpecialization,
		Date:  testDate(),
		Query: "unused",
	})

	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindValidationFailure))
	assert.Equal(t, 0, api.callCount("SearchSlots"))
}

func TestSearchSlots_SameCriteriaShareCacheEntry(t *testing.T) {
	api := newFakeBookingAPI()
	api.slots = []domain.Slot{{ID: 1}}
	service, _ := newTestService(t, api)
	ctx := context.Background()

	criteria := domain.SearchCriteria{
		Mode:           domain.SearchModeSpecialization,
		Specialization: "Cardiology",
		Date:           testDate(),
		HospitalID:     int64Ptr(5),
	}

	_, err := service.SearchSlots(ctx, criteria)
	require.NoError(t, err)

	// Тот же поиск с другого пути, нормализованное значение совпадает
	_, err = service.SearchSlots(ctx, criteria.WithSpecialization(" cardiology "))
	require.NoError(t, err)

	assert.Equal(t, 1, api.callCount("SearchSlots"))
}

func TestSearchSlots_NameModeResolvesDoctorsFirst(t *testing.T) {
	api := newFakeBookingAPI()
	api.doctors = []domain.Doctor{
		{ID: 12, Name: "Ivanov Ivan"},
		{ID: 13, Name: "Petrov Petr"},
	}
	api.slotsFn = func(request domain.SlotSearchRequest) ([]domain.Slot, error) {
		if request.DoctorID == nil {
			return nil, domain.NewValidationError("doctor id missing in fan-out request")
		}
		return []domain.Slot{{ID: *request.DoctorID * 10}}, nil
	}
	service, _ := newTestService(t, api)

	slots, err := service.SearchSlots(context.Background(), domain.SearchCriteria{
		Mode:  domain.SearchModeName,
		Query: "ivan",
		Date:  testDate(),
	})
	require.NoError(t, err)

	// Запрос "ivan" матчит и "Ivanov Ivan", и никого больше
	require.Len(t, slots, 1)
	assert.Equal(t, int64(120), slots[0].ID)
	assert.Equal(t, 1, api.callCount("GetDoctors"))
	assert.Equal(t, 1, api.callCount("SearchSlots"))
}

func TestAvailableDates_HorizonByScope(t *testing.T) {
	service, _ := newTestService(t, newFakeBookingAPI())

	landing := service.AvailableDates(false)
	doctorScoped := service.AvailableDates(true)

	assert.Len(t, landing, 30)
	assert.Len(t, doctorScoped, 7)
	assert.Equal(t, landing[0], doctorScoped[0])
}

func TestCreateBooking_Validation(t *testing.T) {
	api := newFakeBookingAPI()
	service, _ := newTestService(t, api)

	_, err := service.CreateBooking(context.Background(), 0, 7, "")
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindValidationFailure))

	_, err = service.CreateBooking(context.Background(), 1, 0, "")
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindValidationFailure))

	assert.Equal(t, 0, api.callCount("CreateBooking"))
}

func TestCreateBooking_CascadeInvalidatesSlotsAndUserBookings(t *testing.T) {
	api := newFakeBookingAPI()
	service, cacheAdapter := newTestService(t, api)
	ctx := context.Background()

	slotsKey := domain.SlotSearchKey(int64Ptr(5), nil, "cardiology", testDate())
	cacheAdapter.Store(ctx, slotsKey, []domain.Slot{{ID: 1}})
	cacheAdapter.Store(ctx, domain.UserBookingsKey(7), []domain.Booking{})
	cacheAdapter.Store(ctx, domain.UpcomingBookingsKey(7), []domain.Booking{})
	cacheAdapter.Store(ctx, domain.PastBookingsKey(7), []domain.Booking{})
	cacheAdapter.Store(ctx, domain.UserBookingsKey(8), []domain.Booking{})
	cacheAdapter.Store(ctx, domain.HospitalsAllKey(), []domain.Hospital{})
	cacheAdapter.Store(ctx, domain.DoctorDetailKey(12), &domain.Doctor{ID: 12})

	booking, err := service.CreateBooking(ctx, 1, 7, "first visit")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)

	now := time.Now()
	assert.True(t, cacheAdapter.IsStale(ctx, slotsKey, now))
	assert.True(t, cacheAdapter.IsStale(ctx, domain.UserBookingsKey(7), now))
	assert.True(t, cacheAdapter.IsStale(ctx, domain.UpcomingBookingsKey(7), now))
	assert.True(t, cacheAdapter.IsStale(ctx, domain.PastBookingsKey(7), now))

	// Чужие брони и справочники мутация не трогает
	assert.False(t, cacheAdapter.IsStale(ctx, domain.UserBookingsKey(8), now))
	assert.False(t, cacheAdapter.IsStale(ctx, domain.HospitalsAllKey(), now))
	assert.False(t, cacheAdapter.IsStale(ctx, domain.DoctorDetailKey(12), now))
}

func TestCreateBooking_CapacityExceededStillInvalidatesSlots(t *testing.T) {
	api := newFakeBookingAPI()
	api.createErr = domain.NewCapacityExceededError("slot is full")
	service, cacheAdapter := newTestService(t, api)
	ctx := context.Background()

	slotsKey := domain.SlotSearchKey(int64Ptr(5), nil, "cardiology", testDate())
	cacheAdapter.Store(ctx, slotsKey, []domain.Slot{{ID: 1, AvailableSlots: 1}})

	_, err := service.CreateBooking(ctx, 1, 7, "")
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindCapacityExceeded))

	// Кэш слотов доказуемо неправ, даже при неудачной мутации
	assert.True(t, cacheAdapter.IsStale(ctx, slotsKey, time.Now()))
}

func TestCreateBooking_DuplicateSubmissionMakesOneRequest(t *testing.T) {
	api := newFakeBookingAPI()
	api.createBlock = make(chan struct{})
	service, _ := newTestService(t, api)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		_, err := service.CreateBooking(ctx, 1, 7, "")
		firstDone <- err
	}()

	// Дождаться, пока первая мутация дойдет до сети
	require.Eventually(t, func() bool {
		return api.callCount("CreateBooking") == 1
	}, time.Second, 5*time.Millisecond)

	_, err := service.CreateBooking(ctx, 1, 7, "")
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindValidationFailure))

	close(api.createBlock)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, api.callCount("CreateBooking"))
}

func TestCancelBooking_RejectionInvalidatesUserBookings(t *testing.T) {
	api := newFakeBookingAPI()
	api.cancelErr = domain.NewServerRejectionError(400, "booking already cancelled")
	service, cacheAdapter := newTestService(t, api)
	ctx := context.Background()

	slotsKey := domain.SlotSearchKey(nil, nil, "", testDate())
	cacheAdapter.Store(ctx, slotsKey, []domain.Slot{})
	cacheAdapter.Store(ctx, domain.UserBookingsKey(7), []domain.Booking{{ID: 100}})

	_, err := service.CancelBooking(ctx, 100, 7)
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindServerRejection))

	now := time.Now()
	// Локальный снимок броней разошелся с сервером
	assert.True(t, cacheAdapter.IsStale(ctx, domain.UserBookingsKey(7), now))
	// Слоты мутация не меняла
	assert.False(t, cacheAdapter.IsStale(ctx, slotsKey, now))
}

func TestCancelBooking_SuccessCascade(t *testing.T) {
	api := newFakeBookingAPI()
	service, cacheAdapter := newTestService(t, api)
	ctx := context.Background()

	slotsKey := domain.SlotSearchKey(nil, nil, "", testDate())
	cacheAdapter.Store(ctx, slotsKey, []domain.Slot{})
	cacheAdapter.Store(ctx, domain.UpcomingBookingsKey(7), []domain.Booking{{ID: 100}})

	booking, err := service.CancelBooking(ctx, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, booking.Status)

	now := time.Now()
	assert.True(t, cacheAdapter.IsStale(ctx, slotsKey, now))
	assert.True(t, cacheAdapter.IsStale(ctx, domain.UpcomingBookingsKey(7), now))
}

func TestRegisterUser_InvalidatesUsersList(t *testing.T) {
	api := newFakeBookingAPI()
	api.users = []domain.User{{ID: 1}}
	service, cacheAdapter := newTestService(t, api)
	ctx := context.Background()

	_, err := service.GetUsers(ctx)
	require.NoError(t, err)

	user, err := service.RegisterUser(ctx, domain.CreateUserRequest{Name: "Ivan", Email: "ivan@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ivan", user.Name)

	assert.True(t, cacheAdapter.IsStale(ctx, domain.UsersAllKey(), time.Now()))
}

func TestRegisterUser_Validation(t *testing.T) {
	api := newFakeBookingAPI()
	service, _ := newTestService(t, api)

	_, err := service.RegisterUser(context.Background(), domain.CreateUserRequest{Name: "Ivan"})
	assert.True(t, domain.IsErrorKind(err, domain.ErrorKindValidationFailure))
	assert.Equal(t, 0, api.callCount("CreateUser"))
}

func TestGetUserBookings_CachedPerUser(t *testing.T) {
	api := newFakeBookingAPI()
	api.bookings = []domain.Booking{{ID: 100}}
	service, _ := newTestService(t, api)
	ctx := context.Background()

	_, err := service.GetUserBookings(ctx, 7)
	require.NoError(t, err)
	_, err = service.GetUserBookings(ctx, 7)
	require.NoError(t, err)
	_, err = service.GetUserBookings(ctx, 8)
	require.NoError(t, err)

	// Разные пользователи - разные записи кэша
	assert.Equal(t, 2, api.callCount("GetUserBookings"))
}
