package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	"github.com/Ivand14/TurnoYa-sub000/pkg/ptr"
)

// monday фиксированный понедельник для тестов (2 июня 2025)
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func testService(capacity int) *domain.Service {
	return &domain.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Стрижка",
		DurationMinutes: 60,
		Active:          true,
		Capacity:        capacity,
		WeeklySchedule: []domain.ScheduleWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
		},
	}
}

func testSettings(mode domain.CapacityMode) *domain.ScheduleSettings {
	return &domain.ScheduleSettings{
		BusinessID:               1,
		SlotDurationMinutes:      60,
		BreakBetweenSlotsMinutes: 0,
		DefaultCapacity:          1,
		CapacityMode:             mode,
		AllowOverflow:            true,
	}
}

func testBooking(day time.Time, startHour, startMin, endHour, endMin int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ServiceID:   10,
		BusinessID:  1,
		BookingDate: day,
		StartTime:   at(day, startHour, startMin),
		EndTime:     at(day, endHour, endMin),
		Status:      status,
	}
}

func TestComputeDaySlots_FixedCapacityNoBookings(t *testing.T) {
	// Сценарий: режим fixed, capacity=2, без бронирований
	service := testService(2)
	settings := testSettings(domain.CapacityModeFixed)

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, at(monday, 9, 0), slots[0].StartTime)
	assert.Equal(t, at(monday, 10, 0), slots[0].EndTime)
	assert.Equal(t, at(monday, 10, 0), slots[1].StartTime)
	assert.Equal(t, at(monday, 11, 0), slots[1].EndTime)

	for _, slot := range slots {
		assert.Equal(t, 2, slot.TotalCapacity)
		assert.Equal(t, 0, slot.BookedCount)
		assert.Equal(t, 2, slot.AvailableSpots)
		assert.False(t, slot.IsFullyBooked())
	}
}

func TestComputeDaySlots_FixedCapacityIgnoresStaffData(t *testing.T) {
	// В режиме fixed положительный лимит услуги побеждает независимо от смен
	service := testService(5)
	settings := testSettings(domain.CapacityModeFixed)

	employees := []domain.Employee{{ID: 1, Status: domain.EmployeeActive}}
	shifts := []domain.EmployeeShift{
		{EmployeeID: 1, Day: "monday", StartTime: "09:00", EndTime: "11:00"},
	}

	slots, err := computeDaySlots(monday, service, settings, employees, shifts, nil)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		assert.Equal(t, 5, slot.TotalCapacity)
	}
}

func TestComputeDaySlots_ConfirmedBookingTakesSpot(t *testing.T) {
	// Сценарий: одно подтверждённое бронирование 09:00-10:00
	service := testService(2)
	settings := testSettings(domain.CapacityModeFixed)
	bookings := []*domain.Booking{
		testBooking(monday, 9, 0, 10, 0, domain.StatusConfirmed),
	}

	slots, err := computeDaySlots(monday, service, settings, nil, nil, bookings)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, 1, slots[0].BookedCount)
	assert.Equal(t, 1, slots[0].AvailableSpots)
	assert.False(t, slots[0].IsFullyBooked())

	// Второй слот не затронут
	assert.Equal(t, 0, slots[1].BookedCount)
	assert.Equal(t, 2, slots[1].AvailableSpots)
}

func TestComputeDaySlots_EmployeeBasedCapacity(t *testing.T) {
	// Сценарий: два активных сотрудника, смена на понедельник только у одного
	service := testService(0)
	settings := testSettings(domain.CapacityModeEmployeeBased)

	employees := []domain.Employee{
		{ID: 1, Status: domain.EmployeeActive},
		{ID: 2, Status: domain.EmployeeActive},
	}
	shifts := []domain.EmployeeShift{
		{EmployeeID: 1, Day: "monday", StartTime: "09:00", EndTime: "11:00"},
		{EmployeeID: 2, Day: "tuesday", StartTime: "09:00", EndTime: "18:00"},
	}

	slots, err := computeDaySlots(monday, service, settings, employees, shifts, nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	for _, slot := range slots {
		assert.Equal(t, 1, slot.TotalCapacity)
	}
}

func TestComputeDaySlots_RestrictedServiceWithEmptyAllowList(t *testing.T) {
	// Сценарий: услуга требует конкретных исполнителей, но список пуст -
	// каждый слот небронируем
	service := testService(0)
	service.RequiresSpecificEmployee = true
	service.AllowedEmployeeIDs = []int64{}
	settings := testSettings(domain.CapacityModeEmployeeBased)

	employees := []domain.Employee{
		{ID: 1, Status: domain.EmployeeActive},
		{ID: 2, Status: domain.EmployeeActive},
	}
	shifts := []domain.EmployeeShift{
		{EmployeeID: 1, Day: "monday", StartTime: "08:00", EndTime: "20:00"},
		{EmployeeID: 2, Day: "monday", StartTime: "08:00", EndTime: "20:00"},
	}

	slots, err := computeDaySlots(monday, service, settings, employees, shifts, nil)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		assert.Equal(t, 0, slot.TotalCapacity)
		assert.Equal(t, 0, slot.AvailableSpots)
		assert.True(t, slot.IsFullyBooked())
	}
}

func TestComputeDaySlots_ServiceBlackout(t *testing.T) {
	// Сценарий: дата в blackout-списке услуги - слотов нет независимо от
	// расписания и вместимости
	service := testService(2)
	service.BlackoutDates = []string{"2025-06-02"}
	settings := testSettings(domain.CapacityModeFixed)

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeDaySlots_BusinessBlackoutBlocksAllServices(t *testing.T) {
	settings := testSettings(domain.CapacityModeFixed)
	settings.BlackoutDates = []domain.BlackoutDate{
		{Date: "2025-06-02", Reason: ptr.Ptr("инвентаризация")},
	}

	for _, capacity := range []int{0, 1, 5} {
		slots, err := computeDaySlots(monday, testService(capacity), settings, nil, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, slots)
	}
}

func TestComputeDaySlots_ServiceBlackoutDoesNotAffectOtherDates(t *testing.T) {
	service := testService(2)
	service.BlackoutDates = []string{"2025-06-09"} // следующий понедельник
	settings := testSettings(domain.CapacityModeFixed)

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestComputeDaySlots_NoScheduleForWeekday(t *testing.T) {
	// Нет записей расписания на этот день недели - пустой результат, не ошибка
	service := testService(2)
	service.WeeklySchedule = []domain.ScheduleWindow{
		{DayOfWeek: 3, StartTime: "09:00", EndTime: "18:00"},
	}
	settings := testSettings(domain.CapacityModeFixed)

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeDaySlots_OverflowTrailingSlot(t *testing.T) {
	// Окно 09:00-10:30 при часовых слотах: с AllowOverflow последний слот
	// выходит за закрытие целиком, без него хвост отбрасывается
	service := testService(1)
	service.WeeklySchedule = []domain.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30"},
	}
	settings := testSettings(domain.CapacityModeFixed)

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, at(monday, 10, 0), slots[1].StartTime)
	assert.Equal(t, at(monday, 11, 0), slots[1].EndTime)

	settings.AllowOverflow = false
	slots, err = computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 10, 0), slots[0].EndTime)
}

func TestComputeDaySlots_BreakBetweenSlots(t *testing.T) {
	service := testService(1)
	service.WeeklySchedule = []domain.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
	}
	settings := testSettings(domain.CapacityModeFixed)
	settings.BreakBetweenSlotsMinutes = 30

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// 09:00-10:00, перерыв до 10:30, 10:30-11:30, следующий старт 12:00 уже вне окна
	assert.Equal(t, at(monday, 9, 0), slots[0].StartTime)
	assert.Equal(t, at(monday, 10, 30), slots[1].StartTime)
	assert.Equal(t, at(monday, 11, 30), slots[1].EndTime)
}

func TestComputeDaySlots_OvernightWindow(t *testing.T) {
	// Окно 22:00-02:00 переходит через полночь
	service := testService(1)
	service.WeeklySchedule = []domain.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "22:00", EndTime: "02:00"},
	}
	settings := testSettings(domain.CapacityModeFixed)

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.Equal(t, at(monday, 22, 0), slots[0].StartTime)
	last := slots[3]
	assert.Equal(t, monday.AddDate(0, 0, 1), time.Date(
		last.StartTime.Year(), last.StartTime.Month(), last.StartTime.Day(), 0, 0, 0, 0, last.StartTime.Location()))
	assert.Equal(t, 1, last.StartTime.Hour())
}

func TestComputeDaySlots_OvernightWindowCountsNextDayBookings(t *testing.T) {
	// Слот после полуночи датируется вторником: бронирование с датой вторника
	// занимает место именно в нём, не задевая слоты до полуночи
	service := testService(1)
	service.WeeklySchedule = []domain.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "22:00", EndTime: "02:00"},
	}
	settings := testSettings(domain.CapacityModeFixed)

	tuesday := monday.AddDate(0, 0, 1)
	bookings := []*domain.Booking{
		testBooking(tuesday, 0, 0, 1, 0, domain.StatusConfirmed),
	}

	slots, err := computeDaySlots(monday, service, settings, nil, nil, bookings)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	// Tue 00:00-01:00 занят
	assert.Equal(t, at(tuesday, 0, 0), slots[2].StartTime)
	assert.Equal(t, 1, slots[2].BookedCount)
	assert.Equal(t, 0, slots[2].AvailableSpots)

	// Слоты до полуночи не затронуты
	assert.Equal(t, 0, slots[0].BookedCount)
	assert.Equal(t, 0, slots[1].BookedCount)
}

func TestComputeDaySlots_MultipleWindowsConcatenated(t *testing.T) {
	// Два окна на один день обрабатываются в порядке объявления,
	// слоты конкатенируются без слияния
	service := testService(1)
	service.WeeklySchedule = []domain.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "14:00", EndTime: "16:00"},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
	}
	settings := testSettings(domain.CapacityModeFixed)

	slots, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.Equal(t, at(monday, 14, 0), slots[0].StartTime)
	assert.Equal(t, at(monday, 9, 0), slots[2].StartTime)
}

func TestComputeDaySlots_AvailableSpotsNeverNegative(t *testing.T) {
	// Бронирований больше, чем вместимость - availableSpots обрезается нулём
	service := testService(1)
	settings := testSettings(domain.CapacityModeFixed)
	bookings := []*domain.Booking{
		testBooking(monday, 9, 0, 10, 0, domain.StatusConfirmed),
		testBooking(monday, 9, 0, 10, 0, domain.StatusPending),
		testBooking(monday, 9, 30, 10, 30, domain.StatusConfirmed),
	}

	slots, err := computeDaySlots(monday, service, settings, nil, nil, bookings)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, 3, slots[0].BookedCount)
	assert.Equal(t, 0, slots[0].AvailableSpots)
	assert.True(t, slots[0].IsFullyBooked())
}

func TestComputeDaySlots_InvalidScheduleTimeFailsFast(t *testing.T) {
	service := testService(1)
	service.WeeklySchedule = []domain.ScheduleWindow{
		{DayOfWeek: 1, StartTime: "nine am", EndTime: "11:00"},
	}
	settings := testSettings(domain.CapacityModeFixed)

	_, err := computeDaySlots(monday, service, settings, nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestFilterSlotsByNotice(t *testing.T) {
	slots := []domain.Slot{
		{StartTime: at(monday, 9, 0), EndTime: at(monday, 10, 0)},
		{StartTime: at(monday, 10, 0), EndTime: at(monday, 11, 0)},
		{StartTime: at(monday, 11, 0), EndTime: at(monday, 12, 0)},
	}

	// Сейчас 09:30, минимальный запас 60 минут - остаются слоты с 10:30 и позже
	now := at(monday, 9, 30)
	filtered := filterSlotsByNotice(slots, monday, now, 60)
	require.Len(t, filtered, 1)
	assert.Equal(t, at(monday, 11, 0), filtered[0].StartTime)

	// На будущую дату ограничение не действует
	nextWeek := monday.AddDate(0, 0, 7)
	future := []domain.Slot{{StartTime: at(nextWeek, 9, 0)}}
	assert.Len(t, filterSlotsByNotice(future, nextWeek, now, 60), 1)
}
