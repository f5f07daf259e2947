package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes      = 30
	DefaultBreakBetweenSlotsMinutes = 0
	DefaultCapacity                 = 1
	DefaultCapacityMode             = CapacityModeFixed
	DefaultAllowOverflow            = true
	DefaultAdvanceBookingDays       = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes  = 60 // 1 hour
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinBreakBetweenSlotsMinutes = 0
	MaxBreakBetweenSlotsMinutes = 120
	MinCapacity                 = 1
	MaxCapacity                 = 100
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBlackoutReasonLength     = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих место в слоте
// Используется для фильтрации при подсчёте доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByCompany,
	StatusNoShow,
}

// ActiveStatuses список статусов активных бронирований
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
