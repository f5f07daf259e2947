package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	"github.com/Ivand14/TurnoYa-sub000/internal/integrations/catalogservice"
	"github.com/Ivand14/TurnoYa-sub000/internal/integrations/staffservice"
	"github.com/Ivand14/TurnoYa-sub000/pkg/ptr"
)

// monday будущий понедельник относительно now в тестах
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error

	created *domain.Booking
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.created = booking
	result := *booking
	result.ID = 42
	result.CreatedAt = time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	result.UpdatedAt = result.CreatedAt
	return &result, nil
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

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
		Price:           ptr.Ptr(1500.0),
		DurationMinutes: 60,
		Active:          true,
		Capacity:        2,
		Schedule: []catalogservice.ScheduleWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
		},
	}
}

func fixedSettings() *domain.ScheduleSettings {
	return &domain.ScheduleSettings{
		BusinessID:          1,
		SlotDurationMinutes: 60,
		DefaultCapacity:     1,
		CapacityMode:        domain.CapacityModeFixed,
		AllowOverflow:       true,
	}
}

func testBooking(date time.Time, h1, m1, h2, m2 int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		BusinessID:  1,
		ServiceID:   10,
		BookingDate: date,
		StartTime:   time.Date(date.Year(), date.Month(), date.Day(), h1, m1, 0, 0, date.Location()),
		EndTime:     time.Date(date.Year(), date.Month(), date.Day(), h2, m2, 0, 0, date.Location()),
		Status:      status,
	}
}

func newTestUseCase(
	bookings *fakeBookingRepo,
	settings *fakeSettingsRepo,
	catalog *fakeCatalogClient,
	staff *fakeStaffClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(bookings, settings, catalog, staff, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func validRequest() *Request {
	return &Request{UserID: 5, BusinessID: 1, ServiceID: 10, Date: monday, StartTime: "09:00"}
}

func TestExecute_CreatesBooking(t *testing.T) {
	// Слот 09:00-10:00 с вместимостью 2 и одним существующим бронированием
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		testBooking(monday, 9, 0, 10, 0, domain.StatusConfirmed),
	}}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), resp.StartTime)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), resp.EndTime)

	require.NotNil(t, repo.created)
	assert.Equal(t, int64(5), repo.created.UserID)
	assert.Equal(t, domain.StatusConfirmed, repo.created.Status)
}

func TestExecute_SlotFull(t *testing.T) {
	// Вместимость 2, оба места заняты
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		testBooking(monday, 9, 0, 10, 0, domain.StatusConfirmed),
		testBooking(monday, 9, 0, 10, 0, domain.StatusPending),
	}}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, repo.created)
}

func TestExecute_CancelledBookingsFreeTheSlot(t *testing.T) {
	// Отменённые и no-show бронирования место не занимают
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		testBooking(monday, 9, 0, 10, 0, domain.StatusCancelledByUser),
		testBooking(monday, 9, 0, 10, 0, domain.StatusNoShow),
	}}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
}

func TestExecute_MisalignedStartTime(t *testing.T) {
	// 09:17 лежит внутри окна, но не попадает на сетку слотов
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	req := validRequest()
	req.StartTime = "09:17"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestExecute_OutsideWorkingWindow(t *testing.T) {
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	req := validRequest()
	req.StartTime = "08:00"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestExecute_OverflowSlotRejectedWhenDisallowed(t *testing.T) {
	// Окно 09:00-10:30, слот 10:00-11:00 выходит за окно при запрете переполнения
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	service := catalogTestService()
	service.Schedule = []catalogservice.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30"},
	}

	settings := fixedSettings()
	settings.AllowOverflow = false

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: settings},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	req := validRequest()
	req.StartTime = "10:00"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestExecute_OvernightWindowPostMidnightSlotBookable(t *testing.T) {
	// Ночное окно Mon 22:00-02:00 порождает слоты после полуночи -
	// они бронируются с датой вторника
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	service := catalogTestService()
	service.Schedule = []catalogservice.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "22:00", EndTime: "02:00"},
	}

	repo := &fakeBookingRepo{}
	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	req := validRequest()
	req.Date = tuesday
	req.StartTime = "00:00"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, repo.created)

	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), resp.StartTime)
	assert.Equal(t, time.Date(2025, 6, 3, 1, 0, 0, 0, time.UTC), resp.EndTime)
	assert.Equal(t, tuesday, repo.created.BookingDate)

	// Слот 01:00 тоже на сетке ночного окна
	repo.created = nil
	req = validRequest()
	req.Date = tuesday
	req.StartTime = "01:00"

	_, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, repo.created)

	// Начало в момент закрытия окна уже вне расписания
	req = validRequest()
	req.Date = tuesday
	req.StartTime = "02:00"

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestExecute_OvernightShiftCoversPostMidnightSlot(t *testing.T) {
	// employee-based: ночная смена понедельника делает слот вторника 00:00
	// бронируемым
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	service := catalogTestService()
	service.Capacity = 0
	service.Schedule = []catalogservice.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "22:00", EndTime: "02:00"},
	}

	settings := fixedSettings()
	settings.CapacityMode = domain.CapacityModeEmployeeBased

	repo := &fakeBookingRepo{}
	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{settings: settings},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{roster: &staffservice.Roster{
			Employees: []staffservice.Employee{{ID: 7, Name: "Анна", Status: "active"}},
			Shifts:    []staffservice.Shift{{EmployeeID: 7, Day: "monday", StartTime: "22:00", EndTime: "02:00"}},
		}},
		now,
	)

	req := validRequest()
	req.Date = tuesday
	req.StartTime = "00:00"

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, repo.created)
}

func TestExecute_BusinessBlackoutDate(t *testing.T) {
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	settings := fixedSettings()
	settings.BlackoutDates = []domain.BlackoutDate{{Date: "2025-06-02"}}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: settings},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateBlackedOut)
}

func TestExecute_ServiceBlackoutDate(t *testing.T) {
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	service := catalogTestService()
	service.BlackoutDates = []string{"2025-06-02"}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateBlackedOut)
}

func TestExecute_ZeroCapacityWhenNoEligibleStaff(t *testing.T) {
	// employee-based без единого доступного сотрудника: слот небронируем
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	service := catalogTestService()
	service.Capacity = 0

	settings := fixedSettings()
	settings.CapacityMode = domain.CapacityModeEmployeeBased

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: settings},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{roster: &staffservice.Roster{
			Employees: []staffservice.Employee{{ID: 7, Name: "Анна", Status: "active"}},
			// Смена не покрывает запрошенный слот
			Shifts: []staffservice.Shift{{EmployeeID: 7, Day: "monday", StartTime: "12:00", EndTime: "18:00"}},
		}},
		now,
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_StaffServiceDegradedFallback(t *testing.T) {
	// StaffService недоступен: вместимость по упрощённой формуле
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC)

	service := catalogTestService()
	service.Capacity = 0
	service.RequiresSpecificEmployee = true
	service.AllowedEmployeeIDs = []int64{7, 8}

	settings := fixedSettings()
	settings.CapacityMode = domain.CapacityModeEmployeeBased

	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		testBooking(monday, 9, 0, 10, 0, domain.StatusConfirmed),
	}}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{settings: settings},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{err: staffservice.ErrServiceDegraded},
		now,
	)

	// Запасная вместимость len(AllowedEmployeeIDs)=2, занято 1 место
	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
}

func TestExecute_TooLateToBook(t *testing.T) {
	// Запрос в день бронирования за 30 минут до начала при требуемом часе
	now := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

	settings := fixedSettings()
	settings.MinBookingNoticeMinutes = 60

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: settings},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_PastDateRejected(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  catalogTestService(),
		},
		&fakeStaffClient{roster: &staffservice.Roster{}},
		now,
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InactiveService(t *testing.T) {
	service := catalogTestService()
	service.Active = false

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeSettingsRepo{settings: fixedSettings()},
		&fakeCatalogClient{
			business: &catalogservice.Business{ID: 1, Active: true},
			service:  service,
		},
		&fakeStaffClient{},
		time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeSettingsRepo{}, &fakeCatalogClient{}, &fakeStaffClient{}, time.Now())

	req := validRequest()
	req.UserID = 0
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = ""
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = "25:00"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
