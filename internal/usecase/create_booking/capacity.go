package create_booking

import (
	"fmt"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// resolveSlotCapacity вычисляет максимум одновременных бронирований для слота
// Правила совпадают с расчётом вместимости при выдаче доступных слотов:
// фиксированный лимит услуги побеждает в режимах fixed и hybrid, иначе
// вместимость выводится из числа подходящих сотрудников, доступных в окно слота
func resolveSlotCapacity(
	slotStart, slotEnd time.Time,
	service *domain.Service,
	settings *domain.ScheduleSettings,
	employees []domain.Employee,
	shifts []domain.EmployeeShift,
) (int, error) {
	if service.Capacity > 0 && settings.CapacityMode.UsesFixedCapacity() {
		return service.Capacity, nil
	}

	// Данных о сотрудниках нет вообще (StaffService недоступен или не подключен) -
	// падаем на упрощённую формулу вместо жёсткого нуля
	if employees == nil && shifts == nil {
		return fallbackCapacity(service, settings), nil
	}

	availableEmployees, err := countAvailableEmployees(slotStart, slotEnd, service, employees, shifts)
	if err != nil {
		return 0, err
	}

	// Некому выполнять - слот небронируем
	if availableEmployees == 0 {
		return 0, nil
	}

	if settings.CapacityMode.UsesStaffCapacity() {
		return availableEmployees, nil
	}

	return settings.DefaultCapacity, nil
}

// fallbackCapacity упрощённая формула вместимости без контекста сотрудников:
// лимит услуги, иначе размер списка разрешённых сотрудников, иначе дефолт
func fallbackCapacity(service *domain.Service, settings *domain.ScheduleSettings) int {
	if service.Capacity > 0 {
		return service.Capacity
	}
	if len(service.AllowedEmployeeIDs) > 0 {
		return len(service.AllowedEmployeeIDs)
	}
	return settings.DefaultCapacity
}

// countAvailableEmployees считает активных подходящих сотрудников,
// чья смена полностью покрывает окно слота
func countAvailableEmployees(
	slotStart, slotEnd time.Time,
	service *domain.Service,
	employees []domain.Employee,
	shifts []domain.EmployeeShift,
) (int, error) {
	count := 0
	for _, employee := range employees {
		if !employee.IsActive() {
			continue
		}
		if !service.IsEmployeeAllowed(employee.ID) {
			continue
		}

		available, err := isEmployeeAvailable(employee.ID, slotStart, slotEnd, shifts)
		if err != nil {
			return 0, err
		}
		if available {
			count++
		}
	}

	return count, nil
}

// isEmployeeAvailable проверяет, покрывает ли хотя бы одна смена сотрудника
// запрошенное окно целиком (строгая вложенность, не пересечение)
// Слот после полуночи покрывается и ночной сменой предыдущего дня
func isEmployeeAvailable(
	employeeID int64,
	slotStart, slotEnd time.Time,
	shifts []domain.EmployeeShift,
) (bool, error) {
	dayName := domain.WeekdayName(slotStart.Weekday())
	prevDate := slotStart.AddDate(0, 0, -1)
	prevDayName := domain.WeekdayName(prevDate.Weekday())

	for _, shift := range shifts {
		if shift.EmployeeID != employeeID {
			continue
		}

		// Смена дня слота привязывается к его дате; ночная смена предыдущего
		// дня продолжается после полуночи и привязывается к предыдущей дате
		var anchor time.Time
		switch {
		case shift.Day == dayName:
			anchor = slotStart
		case shift.Day == prevDayName && shift.SpansMidnight():
			anchor = prevDate
		default:
			continue
		}

		shiftStart, err := shift.StartTime.OnDate(anchor)
		if err != nil {
			return false, fmt.Errorf("%w: employee id=%d, day=%s: %v",
				ErrInvalidSchedule, employeeID, shift.Day, err)
		}

		shiftEnd, err := shift.EndTime.OnDate(anchor)
		if err != nil {
			return false, fmt.Errorf("%w: employee id=%d, day=%s: %v",
				ErrInvalidSchedule, employeeID, shift.Day, err)
		}

		// Смена через полночь - конец переносится на следующий день
		if shiftEnd.Before(shiftStart) {
			shiftEnd = shiftEnd.AddDate(0, 0, 1)
		}

		if !slotStart.Before(shiftStart) && !slotEnd.After(shiftEnd) {
			return true, nil
		}
	}

	return false, nil
}
