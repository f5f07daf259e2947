package get_available_slots

import (
	"fmt"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// resolveSlotCapacity вычисляет максимум одновременных бронирований для слота
//
// Порядок принятия решения:
//  1. Фиксированный лимит услуги (Capacity > 0) побеждает в режимах fixed и hybrid
//  2. Иначе собираем множество подходящих сотрудников: активные, и при
//     RequiresSpecificEmployee - только из AllowedEmployeeIDs
//  3. Считаем сотрудников, чья смена полностью покрывает слот
//  4. Ноль доступных сотрудников - слот недоступен независимо от режима:
//     некому выполнять услугу
//  5. В режимах employee-based и hybrid вместимость равна числу доступных сотрудников
//  6. Иначе - DefaultCapacity из настроек бизнеса
//
// Такой порядок гарантирует, что услуга с заданным фиксированным лимитом не
// деградирует до числа сотрудников, пока режим явно этого не требует, а услуга
// без единого подходящего сотрудника корректно помечается небронируемой
func resolveSlotCapacity(
	slotStart, slotEnd time.Time,
	service *domain.Service,
	settings *domain.ScheduleSettings,
	employees []domain.Employee,
	shifts []domain.EmployeeShift,
) (int, error) {
	// 1. Фиксированный лимит услуги побеждает в режимах fixed и hybrid
	if service.Capacity > 0 && settings.CapacityMode.UsesFixedCapacity() {
		return service.Capacity, nil
	}

	// Данных о сотрудниках нет вообще (StaffService недоступен или не подключен) -
	// падаем на упрощённую формулу вместо жёсткого нуля
	if employees == nil && shifts == nil {
		return fallbackCapacity(service, settings), nil
	}

	// 2-3. Считаем активных подходящих сотрудников, доступных в окно слота
	availableEmployees, err := countAvailableEmployees(slotStart, slotEnd, service, employees, shifts)
	if err != nil {
		return 0, err
	}

	// 4. Некому выполнять - слот небронируем
	if availableEmployees == 0 {
		return 0, nil
	}

	// 5. Режимы, выводящие вместимость из числа сотрудников
	if settings.CapacityMode.UsesStaffCapacity() {
		return availableEmployees, nil
	}

	// 6. Режим fixed без положительного лимита услуги
	return settings.DefaultCapacity, nil
}

// fallbackCapacity упрощённая формула вместимости, когда контекст
// сотрудников и смен недоступен вызывающей стороне:
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

// countAvailableEmployees считает подходящих сотрудников, доступных в окно слота
// Подходящий сотрудник - активный и, если услуга требует конкретных исполнителей,
// входящий в AllowedEmployeeIDs
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
// запрошенное окно целиком
//
// У сотрудника может быть несколько смен в один день (разрывной график) -
// достаточно, чтобы окно целиком лежало внутри ЛЮБОЙ одной смены
// Частичное пересечение доступностью не считается: это строгий тест на
// вложенность, а не на пересечение
//
// Слот после полуночи (порождённый ночным окном) покрывается и ночной
// сменой предыдущего дня: смена Mon 22:00-02:00 доступна для слота Tue 00:00
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

		// Смена через полночь - конец переносится на следующий день,
		// по аналогии с ночными окнами услуг
		if shiftEnd.Before(shiftStart) {
			shiftEnd = shiftEnd.AddDate(0, 0, 1)
		}

		if !slotStart.Before(shiftStart) && !slotEnd.After(shiftEnd) {
			return true, nil
		}
	}

	return false, nil
}
