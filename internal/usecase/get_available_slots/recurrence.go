package get_available_slots

import (
	"fmt"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// timeWindow разрешённое окно работы услуги на конкретную дату
type timeWindow struct {
	start time.Time
	end   time.Time
}

// resolveServiceWindows разворачивает недельное расписание услуги в конкретные
// временные окна на указанную дату
//
// Берутся только записи расписания, чей день недели совпадает с днём недели даты
// (0=Sunday .. 6=Saturday). Если время конца окна раньше времени начала, окно
// трактуется как переходящее через полночь и конец переносится на следующий день -
// так поддерживаются ночные услуги
//
// Отсутствие записей на этот день недели - не ошибка: услуга в этот день
// просто не работает и список окон пуст
func resolveServiceWindows(service *domain.Service, date time.Time) ([]timeWindow, error) {
	dayOfWeek := int(date.Weekday())

	windows := make([]timeWindow, 0)
	for _, entry := range service.WindowsForWeekday(dayOfWeek) {
		start, err := entry.StartTime.OnDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: service id=%d, dayOfWeek=%d: %v",
				ErrInvalidSchedule, service.ID, entry.DayOfWeek, err)
		}

		end, err := entry.EndTime.OnDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: service id=%d, dayOfWeek=%d: %v",
				ErrInvalidSchedule, service.ID, entry.DayOfWeek, err)
		}

		// Конец раньше начала - окно переходит через полночь
		if end.Before(start) {
			end = end.AddDate(0, 0, 1)
		}

		windows = append(windows, timeWindow{start: start, end: end})
	}

	return windows, nil
}
