package get_available_slots

import (
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// computeDaySlots вычисляет слоты услуги на дату со всеми ограничениями
//
// Чистая функция над уже загруженными данными: никакого I/O, глобального
// состояния и кеширования - результат полностью определяется аргументами,
// поэтому параллельные вызовы безопасны
//
// Порядок: blackout бизнеса (закрывает дату для всех услуг) -> blackout услуги
// (закрывает дату только для неё) -> разворачивание недельного расписания в
// окна -> обход каждого окна с шагом slotDuration + breakBetweenSlots
// Окна обрабатываются в порядке объявления; слоты нескольких окон
// конкатенируются без слияния и дедупликации
func computeDaySlots(
	date time.Time,
	service *domain.Service,
	settings *domain.ScheduleSettings,
	employees []domain.Employee,
	shifts []domain.EmployeeShift,
	bookings []*domain.Booking,
) ([]domain.Slot, error) {
	// Blackout на уровне бизнеса закрывает дату целиком
	if isBusinessBlackedOut(settings, date) {
		return []domain.Slot{}, nil
	}

	// Blackout на уровне услуги закрывает дату только для неё
	if isServiceBlackedOut(service, date) {
		return []domain.Slot{}, nil
	}

	windows, err := resolveServiceWindows(service, date)
	if err != nil {
		return nil, err
	}

	slotDuration := time.Duration(settings.SlotDurationMinutes) * time.Minute
	slotStep := slotDuration + time.Duration(settings.BreakBetweenSlotsMinutes)*time.Minute

	slots := make([]domain.Slot, 0)

	for _, window := range windows {
		for current := window.start; current.Before(window.end); current = current.Add(slotStep) {
			slotEnd := current.Add(slotDuration)

			// Без AllowOverflow неполный хвост окна слот не порождает;
			// с ним последний слот выходит за время закрытия целиком
			if !settings.AllowOverflow && slotEnd.After(window.end) {
				break
			}

			capacity, err := resolveSlotCapacity(current, slotEnd, service, settings, employees, shifts)
			if err != nil {
				return nil, err
			}

			// Занятость считается по календарной дате самого слота:
			// слот после полуночи ночного окна датируется следующим днём
			booked := countOverlappingBookings(current, slotEnd, dateKey(current), bookings)

			available := capacity - booked
			if available < 0 {
				available = 0
			}

			slots = append(slots, domain.Slot{
				StartTime:      current,
				EndTime:        slotEnd,
				TotalCapacity:  capacity,
				BookedCount:    booked,
				AvailableSpots: available,
			})
		}
	}

	return slots, nil
}

// filterSlotsByNotice отбрасывает слоты, начинающиеся раньше, чем
// now + minBookingNoticeMinutes. Применяется только когда запрошенная
// дата - сегодня: на будущие даты ограничение не действует
func filterSlotsByNotice(
	slots []domain.Slot,
	date time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) []domain.Slot {
	if !isSameDay(date, now) {
		return slots
	}

	minAllowed := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)

	filtered := make([]domain.Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.StartTime.Before(minAllowed) {
			filtered = append(filtered, slot)
		}
	}

	return filtered
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
