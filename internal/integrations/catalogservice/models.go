package catalogservice

import (
	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	"github.com/Ivand14/TurnoYa-sub000/pkg/types"
)

// Business модель бизнеса из CatalogService
type Business struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Active     bool    `json:"active"`
	ManagerIDs []int64 `json:"managerIds"`
}

// IsManager возвращает true, если пользователь является менеджером бизнеса
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Service модель услуги из CatalogService
type Service struct {
	ID                       int64            `json:"id"`
	BusinessID               int64            `json:"businessId"`
	Name                     string           `json:"name"`
	Price                    *float64         `json:"price,omitempty"`
	DurationMinutes          int              `json:"durationMinutes"`
	Active                   bool             `json:"active"`
	Capacity                 int              `json:"capacity"` // 0 = вычислять по сотрудникам
	RequiresSpecificEmployee bool             `json:"requiresSpecificEmployee"`
	AllowedEmployeeIDs       []int64          `json:"allowedEmployeeIds"`
	Schedule                 []ScheduleWindow `json:"schedule"`
	BlackoutDates            []string         `json:"blackoutDates"` // YYYY-MM-DD
}

// ScheduleWindow окно недельного расписания услуги
type ScheduleWindow struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует модель услуги в доменную
func (s *Service) ToDomain() *domain.Service {
	schedule := make([]domain.ScheduleWindow, len(s.Schedule))
	for i, w := range s.Schedule {
		schedule[i] = domain.ScheduleWindow{
			DayOfWeek: w.DayOfWeek,
			StartTime: types.TimeString(w.StartTime),
			EndTime:   types.TimeString(w.EndTime),
		}
	}

	var price float64
	if s.Price != nil {
		price = *s.Price
	}

	return &domain.Service{
		ID:                       s.ID,
		BusinessID:               s.BusinessID,
		Name:                     s.Name,
		Price:                    price,
		DurationMinutes:          s.DurationMinutes,
		Active:                   s.Active,
		Capacity:                 s.Capacity,
		RequiresSpecificEmployee: s.RequiresSpecificEmployee,
		AllowedEmployeeIDs:       s.AllowedEmployeeIDs,
		WeeklySchedule:           schedule,
		BlackoutDates:            s.BlackoutDates,
	}
}
