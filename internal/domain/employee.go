package domain

import (
	"strings"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/pkg/types"
)

// EmployeeStatus represents the status of an employee
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// Employee represents a member of a business staff
// Получается из StaffService, внутри движка доступности только читается
type Employee struct {
	ID     int64
	Name   string
	Status EmployeeStatus
}

// IsActive returns true if the employee counts toward staff-derived capacity
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}

// EmployeeShift одна рабочая смена сотрудника в конкретный день недели
// У сотрудника может быть несколько смен в один день (разрывной график)
type EmployeeShift struct {
	EmployeeID int64
	Day        string // Название дня недели в нижнем регистре ("monday")
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// SpansMidnight returns true if the shift ends on the next calendar day
// Конец раньше начала трактуется как переход через полночь
func (s EmployeeShift) SpansMidnight() bool {
	return s.EndTime.IsBefore(s.StartTime)
}

// WeekdayName returns the lowercase weekday name used in shift schedules
func WeekdayName(weekday time.Weekday) string {
	return strings.ToLower(weekday.String())
}
