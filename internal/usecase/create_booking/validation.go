package create_booking

import (
	"fmt"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays)

	bookingDateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())

	if bookingDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateBookingNotice проверяет, что бронирование не нарушает minBookingNoticeMinutes
func validateBookingNotice(slotStart time.Time, now time.Time, minBookingNoticeMinutes int) error {
	// Для будущих дат проверка не нужна
	if !isSameDay(slotStart, now) {
		return nil
	}

	minAllowed := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)
	if slotStart.Before(minAllowed) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	return nil
}

// validateSlotWithinSchedule проверяет, что запрошенный слот совпадает с одним из
// слотов, которые породила бы сетка расписания: начало лежит внутри окна услуги,
// выровнено по шагу сетки, а конец не выходит за окно, если переполнение
// запрещено настройками
//
// Кроме окон дня недели запрошенной даты учитываются ночные окна предыдущего
// дня: окно Mon 22:00-02:00 порождает слоты после полуночи, и такие слоты
// бронируются с датой вторника
func validateSlotWithinSchedule(
	slotStart, slotEnd time.Time,
	date time.Time,
	service *domain.Service,
	settings *domain.ScheduleSettings,
) error {
	slotStep := time.Duration(settings.SlotDurationMinutes+settings.BreakBetweenSlotsMinutes) * time.Minute

	// Окна дня недели запрошенной даты
	for _, w := range service.WindowsForWeekday(int(date.Weekday())) {
		windowStart, err := w.StartTime.OnDate(date)
		if err != nil {
			return fmt.Errorf("%w: day=%d: %v", ErrInvalidSchedule, w.DayOfWeek, err)
		}

		windowEnd, err := w.EndTime.OnDate(date)
		if err != nil {
			return fmt.Errorf("%w: day=%d: %v", ErrInvalidSchedule, w.DayOfWeek, err)
		}

		// Окно через полночь - конец переносится на следующий день
		if windowEnd.Before(windowStart) {
			windowEnd = windowEnd.AddDate(0, 0, 1)
		}

		if slotFitsWindow(slotStart, slotEnd, windowStart, windowEnd, slotStep, settings.AllowOverflow) {
			return nil
		}
	}

	// Ночные окна предыдущего дня, продолжающиеся после полуночи в запрошенную дату
	prevDate := date.AddDate(0, 0, -1)
	for _, w := range service.WindowsForWeekday(int(prevDate.Weekday())) {
		if !w.SpansMidnight() {
			continue
		}

		windowStart, err := w.StartTime.OnDate(prevDate)
		if err != nil {
			return fmt.Errorf("%w: day=%d: %v", ErrInvalidSchedule, w.DayOfWeek, err)
		}

		// Конец ночного окна уже приходится на запрошенную дату
		windowEnd, err := w.EndTime.OnDate(date)
		if err != nil {
			return fmt.Errorf("%w: day=%d: %v", ErrInvalidSchedule, w.DayOfWeek, err)
		}

		if slotFitsWindow(slotStart, slotEnd, windowStart, windowEnd, slotStep, settings.AllowOverflow) {
			return nil
		}
	}

	return ErrOutsideSchedule
}

// slotFitsWindow проверяет вхождение слота в окно: начало внутри окна и на сетке,
// конец не выходит за окно при запрете переполнения
func slotFitsWindow(
	slotStart, slotEnd time.Time,
	windowStart, windowEnd time.Time,
	slotStep time.Duration,
	allowOverflow bool,
) bool {
	if slotStart.Before(windowStart) || !slotStart.Before(windowEnd) {
		return false
	}

	// Начало должно попадать на сетку слотов этого окна
	if slotStart.Sub(windowStart)%slotStep != 0 {
		return false
	}

	if !allowOverflow && slotEnd.After(windowEnd) {
		return false
	}

	return true
}

// countOverlappingBookings подсчитывает занимающие место бронирования,
// пересекающиеся с запрошенным слотом
// Пересечение считается по строгим неравенствам: соприкосновение границ
// пересечением не является
func countOverlappingBookings(slotStart, slotEnd time.Time, date string, bookings []*domain.Booking) int {
	count := 0
	for _, booking := range bookings {
		if booking.DateString() != date {
			continue
		}
		if !booking.CountsTowardCapacity() {
			continue
		}
		if booking.StartTime.Before(slotEnd) && booking.EndTime.After(slotStart) {
			count++
		}
	}
	return count
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
