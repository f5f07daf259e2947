package domain

import (
	"fmt"
	"time"
)

// CapacityMode политика вычисления вместимости слота
type CapacityMode string

const (
	// CapacityModeFixed вместимость задаётся фиксированным лимитом услуги
	CapacityModeFixed CapacityMode = "fixed"

	// CapacityModeEmployeeBased вместимость равна числу доступных сотрудников
	CapacityModeEmployeeBased CapacityMode = "employee-based"

	// CapacityModeHybrid фиксированный лимит услуги, если он задан,
	// иначе число доступных сотрудников
	CapacityModeHybrid CapacityMode = "hybrid"
)

// Validate проверяет, что режим вместимости является одним из допустимых
func (m CapacityMode) Validate() error {
	switch m {
	case CapacityModeFixed, CapacityModeEmployeeBased, CapacityModeHybrid:
		return nil
	default:
		return fmt.Errorf("invalid capacity mode: %q", string(m))
	}
}

// UsesFixedCapacity returns true if a positive service capacity wins in this mode
func (m CapacityMode) UsesFixedCapacity() bool {
	return m == CapacityModeFixed || m == CapacityModeHybrid
}

// UsesStaffCapacity returns true if available staff count defines the capacity
func (m CapacityMode) UsesStaffCapacity() bool {
	return m == CapacityModeEmployeeBased || m == CapacityModeHybrid
}

// ScheduleSettings represents the booking configuration of a business
type ScheduleSettings struct {
	ID         int64
	BusinessID int64

	SlotDurationMinutes      int
	BreakBetweenSlotsMinutes int

	// DefaultCapacity вместимость слота, когда ни фиксированный лимит услуги,
	// ни данные о сотрудниках не дают ответа
	DefaultCapacity int
	CapacityMode    CapacityMode

	// AllowOverflow разрешает последнему слоту окна выходить за время закрытия
	// При false неполный хвост окна слот не порождает
	AllowOverflow bool

	AdvanceBookingDays      int // 0 = без ограничения
	MinBookingNoticeMinutes int

	// BlackoutDates даты, когда бронирование закрыто для всех услуг бизнеса
	BlackoutDates []BlackoutDate

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *ScheduleSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// IsBlackedOut returns true if the given date (YYYY-MM-DD) is blocked business-wide
func (s *ScheduleSettings) IsBlackedOut(date string) bool {
	for _, b := range s.BlackoutDates {
		if b.Date == date {
			return true
		}
	}
	return false
}

// BlackoutDate календарная дата, в которую бронирование отключено
type BlackoutDate struct {
	Date   string // YYYY-MM-DD
	Reason *string
}
