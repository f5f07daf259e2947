package get_available_slots

import (
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// countOverlappingBookings подсчитывает бронирования, пересекающиеся со слотом
//
// Учитываются только бронирования на ту же календарную дату, занимающие место
// (не отменённые и не no-show). Интервалы пересекаются, когда начало
// бронирования строго раньше конца слота И конец бронирования строго позже
// начала слота - одна эта проверка покрывает все случаи: бронирование внутри
// слота, слот внутри бронирования и частичные пересечения с любого края,
// каждый ровно один раз. Граничащие интервалы (конец одного равен началу
// другого) пересечением не считаются
func countOverlappingBookings(
	slotStart, slotEnd time.Time,
	date string,
	bookings []*domain.Booking,
) int {
	count := 0

	for _, booking := range bookings {
		// Бронирования других дат не влияют на слоты этой даты
		if booking.DateString() != date {
			continue
		}

		// Отменённые и no-show места не занимают
		if !booking.CountsTowardCapacity() {
			continue
		}

		if booking.StartTime.Before(slotEnd) && booking.EndTime.After(slotStart) {
			count++
		}
	}

	return count
}
