package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	settingsRepo "github.com/Ivand14/TurnoYa-sub000/internal/infra/storage/settings"
	"github.com/Ivand14/TurnoYa-sub000/internal/integrations/catalogservice"
	"github.com/Ivand14/TurnoYa-sub000/internal/integrations/staffservice"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error

	lastFilter domain.BusinessBookingsFilter
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	return f.bookings, f.err
}

type fakeSettingsRepo struct {
	settings *domain.ScheduleSettings
	err      error
}

func (f *fakeSettingsRepo) GetByBusinessID(_ context.Context, _ int64) (*domain.ScheduleSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

type fakeCatalogClient struct {
	business    *catalogservice.Business
	businessErr error
	service     *catalogservice.Service
	serviceErr  error
}

func (f *fakeCatalogClient) GetBusiness(_ context.Context, _ int64) (*catalogservice.Business, error) {
	return f.business, f.businessErr
}

func (f *fakeCatalogClient) GetService(_ context.Context, _, _ int64) (*catalogservice.Service, error) {
	return f.service, f.serviceErr
}

type fakeStaffClient struct {
	roster *staffservice.Roster
	err    error
}

func (f *fakeStaffClient) GetRosterWithGracefulDegradation(_ context.Context, _ int64) (*staffservice.Roster, error) {
	return f.roster, f.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func catalogTestService() *catalogservice.Service {
	return &catalogservice.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Стрижка",
		DurationMinutes: 60,
		Active:          true,
		Capacity:        2,
		Schedule: []catalogservice.ScheduleWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
		},
	}
}

func newTestUseCase(
	bookings *fakeBookingRepo,
	settings *fakeSettingsRepo,
	catalog *fakeCatalogClient,
	staff *fakeStaffClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(bookings, settings, catalog, staff, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_FullFlow(t *testing.T) {
	// Запрос на будущий понедельник: услуга fixed/2, одно бронирование 09:00-10:00
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{bookings: []*domain.Booking{
			testBooking(monday, 9, 0, 10, 0, domain.StatusConfirmed),
		}},
		&fakeSettingsRepo{settings: &domain.ScheduleSettings{
			BusinessID:          1,
			SlotDurationMinutes: 60,
			DefaultCapacity:     1,
			CapacityMode:        domain.CapacityModeFixed,
			AllowOverflow:       true,
		}},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 5, BusinessID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	assert.Equal(t, 2, resp.Slots[0].TotalCapacity)
	assert.Equal(t, 1, resp.Slots[0].BookedCount)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.False(t, resp.Slots[0].IsFullyBooked)

	assert.Equal(t, 0, resp.Slots[1].BookedCount)
	assert.Equal(t, 2, resp.Slots[1].AvailableSpots)
}

func TestExecute_DefaultSettingsWhenNotConfigured(t *testing.T) {
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{err: settingsRepo.ErrSettingsNotFound},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)

	// Дефолтная длительность слота 30 минут: окно 09:00-11:00 даёт 4 слота
	require.Len(t, resp.Slots, 4)
}

func TestExecute_StaffServiceDegraded(t *testing.T) {
	// StaffService недоступен: вместимость по упрощённой формуле, не ошибка
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	service := catalogTestService()
	service.Capacity = 0
	service.RequiresSpecificEmployee = true
	service.AllowedEmployeeIDs = []int64{7, 8, 9}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: &domain.ScheduleSettings{
			BusinessID:          1,
			SlotDurationMinutes: 60,
			DefaultCapacity:     1,
			CapacityMode:        domain.CapacityModeEmployeeBased,
			AllowOverflow:       true,
		}},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{err: staffservice.ErrServiceDegraded},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	// Размер списка разрешённых сотрудников как запасная вместимость
	assert.Equal(t, 3, resp.Slots[0].TotalCapacity)
}

func TestExecute_NoRosterUsesFallbackCapacity(t *testing.T) {
	// Бизнес не заведён в StaffService: вместимость по упрощённой формуле,
	// а не ноль сотрудников
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	service := catalogTestService()
	service.Capacity = 0
	service.RequiresSpecificEmployee = true
	service.AllowedEmployeeIDs = []int64{7, 8, 9}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: &domain.ScheduleSettings{
			BusinessID:          1,
			SlotDurationMinutes: 60,
			DefaultCapacity:     1,
			CapacityMode:        domain.CapacityModeEmployeeBased,
			AllowOverflow:       true,
		}},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{err: staffservice.ErrBusinessNotFound},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	assert.Equal(t, 3, resp.Slots[0].TotalCapacity)
}

func TestExecute_OvernightWindowFetchesNextDayBookings(t *testing.T) {
	// Ночное окно порождает слоты после полуночи - бронирования следующего
	// дня должны попасть в выборку занятости
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	service := catalogTestService()
	service.Capacity = 1
	service.Schedule = []catalogservice.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "22:00", EndTime: "02:00"},
	}

	tuesday := monday.AddDate(0, 0, 1)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		testBooking(tuesday, 0, 0, 1, 0, domain.StatusConfirmed),
	}}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{settings: &domain.ScheduleSettings{
			BusinessID:          1,
			SlotDurationMinutes: 60,
			DefaultCapacity:     1,
			CapacityMode:        domain.CapacityModeFixed,
			AllowOverflow:       true,
		}},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	// Выборка бронирований расширена до вторника
	require.NotNil(t, repo.lastFilter.EndDate)
	assert.Equal(t, tuesday, *repo.lastFilter.EndDate)

	// Бронирование вторника заняло слот Tue 00:00-01:00
	assert.Equal(t, 1, resp.Slots[2].BookedCount)
	assert.Equal(t, 0, resp.Slots[2].AvailableSpots)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{},
		&fakeCatalogClient{businessErr: catalogservice.ErrBusinessNotFound},
		&fakeStaffClient{},
		time.Now(),
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{},
		&fakeCatalogClient{
			business:   &catalogservice.Business{ID: 1, Active: true},
			serviceErr: catalogservice.ErrServiceNotFound,
		},
		&fakeStaffClient{},
		time.Now(),
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	service := catalogTestService()
	service.Active = false

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{},
		time.Now(),
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_PastDateRejected(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: &domain.ScheduleSettings{
			BusinessID:          1,
			SlotDurationMinutes: 60,
			DefaultCapacity:     1,
			CapacityMode:        domain.CapacityModeFixed,
			AdvanceBookingDays:  1,
		}},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeSettingsRepo{}, &fakeCatalogClient{}, &fakeStaffClient{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 0, ServiceID: 10, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
