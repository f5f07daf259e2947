package domain

import (
	"github.com/Ivand14/TurnoYa-sub000/pkg/types"
)

// Service represents a bookable offering of a business
// Получается из CatalogService, внутри движка доступности только читается
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool

	// Capacity фиксированный лимит одновременных бронирований
	// 0 означает "вычислять по доступным сотрудникам"
	Capacity int

	// RequiresSpecificEmployee true, если услугу могут выполнять
	// только сотрудники из AllowedEmployeeIDs
	RequiresSpecificEmployee bool
	AllowedEmployeeIDs       []int64

	// WeeklySchedule недельное расписание работы услуги
	// Корректная конфигурация содержит не более одной записи на день недели -
	// это гарантирует CatalogService, движок записи не дедуплицирует
	WeeklySchedule []ScheduleWindow

	// BlackoutDates даты (YYYY-MM-DD), когда именно эта услуга недоступна
	BlackoutDates []string
}

// ScheduleWindow окно работы услуги в конкретный день недели
type ScheduleWindow struct {
	DayOfWeek int // 0=Sunday .. 6=Saturday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// SpansMidnight returns true if the window ends on the next calendar day
// Конец раньше начала трактуется как переход через полночь
func (w ScheduleWindow) SpansMidnight() bool {
	return w.EndTime.IsBefore(w.StartTime)
}

// WindowsForWeekday returns the schedule windows declared for the given weekday
func (s *Service) WindowsForWeekday(dayOfWeek int) []ScheduleWindow {
	windows := make([]ScheduleWindow, 0)
	for _, w := range s.WeeklySchedule {
		if w.DayOfWeek == dayOfWeek {
			windows = append(windows, w)
		}
	}
	return windows
}

// IsBlackedOut returns true if the service is unavailable on the given date (YYYY-MM-DD)
func (s *Service) IsBlackedOut(date string) bool {
	for _, d := range s.BlackoutDates {
		if d == date {
			return true
		}
	}
	return false
}

// IsEmployeeAllowed returns true if the employee may perform this service
// Для услуг без ограничения по сотрудникам всегда true
func (s *Service) IsEmployeeAllowed(employeeID int64) bool {
	if !s.RequiresSpecificEmployee {
		return true
	}
	for _, id := range s.AllowedEmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}
