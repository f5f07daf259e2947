package staffservice

import (
	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	"github.com/Ivand14/TurnoYa-sub000/pkg/types"
)

// Employee модель сотрудника из StaffService
type Employee struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessId"`
	Name       string `json:"name"`
	Status     string `json:"status"` // active / inactive
}

// Shift модель рабочей смены сотрудника из StaffService
// У сотрудника может быть несколько смен в один день недели
type Shift struct {
	EmployeeID int64  `json:"employeeId"`
	Day        string `json:"day"`       // Название дня недели ("monday")
	StartTime  string `json:"startTime"` // "HH:MM"
	EndTime    string `json:"endTime"`   // "HH:MM"
}

// Roster сотрудники бизнеса вместе с их сменами
type Roster struct {
	Employees []Employee `json:"employees"`
	Shifts    []Shift    `json:"shifts"`
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует сотрудников и смены в доменные модели
func (r *Roster) ToDomain() ([]domain.Employee, []domain.EmployeeShift) {
	employees := make([]domain.Employee, len(r.Employees))
	for i, e := range r.Employees {
		employees[i] = domain.Employee{
			ID:     e.ID,
			Name:   e.Name,
			Status: domain.EmployeeStatus(e.Status),
		}
	}

	shifts := make([]domain.EmployeeShift, len(r.Shifts))
	for i, s := range r.Shifts {
		shifts[i] = domain.EmployeeShift{
			EmployeeID: s.EmployeeID,
			Day:        s.Day,
			StartTime:  types.TimeString(s.StartTime),
			EndTime:    types.TimeString(s.EndTime),
		}
	}

	return employees, shifts
}
