package get_available_slots

import (
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// dateKey форматирует дату в ключ календарного дня (YYYY-MM-DD)
// Blackout-даты сравниваются строго по календарному дню, без времени
func dateKey(date time.Time) string {
	return date.Format(domain.DateFormat)
}

// isBusinessBlackedOut проверяет, закрыта ли дата на уровне всего бизнеса
// Блокирует генерацию слотов для всех услуг бизнеса
func isBusinessBlackedOut(settings *domain.ScheduleSettings, date time.Time) bool {
	if settings == nil {
		return false
	}
	return settings.IsBlackedOut(dateKey(date))
}

// isServiceBlackedOut проверяет, закрыта ли дата на уровне конкретной услуги
// Не влияет на другие услуги бизнеса в тот же день
func isServiceBlackedOut(service *domain.Service, date time.Time) bool {
	return service.IsBlackedOut(dateKey(date))
}
