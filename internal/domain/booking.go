package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending            BookingStatus = "pending"
	StatusConfirmed          BookingStatus = "confirmed"
	StatusCompleted          BookingStatus = "completed"
	StatusCancelledByUser    BookingStatus = "cancelled_by_user"
	StatusCancelledByCompany BookingStatus = "cancelled_by_company"
	StatusNoShow             BookingStatus = "no_show"
)

// Booking represents a reservation of a time window for a service
type Booking struct {
	ID         int64
	UserID     int64
	BusinessID int64
	ServiceID  int64

	BookingDate time.Time // Календарная дата слота (без времени)
	StartTime   time.Time // Начало слота (полноценный timestamp)
	EndTime     time.Time // Конец слота (может переходить на следующий день)

	Status BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByCompany
}

// CountsTowardCapacity returns true if the booking occupies a spot in its slot
// Место занимают все неотменённые бронирования, включая pending и completed
// no_show приравнивается к отменённым - клиент не пришёл, место свободно
func (b *Booking) CountsTowardCapacity() bool {
	return !b.IsCancelled() && b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// DateString returns the booking date formatted as YYYY-MM-DD
func (b *Booking) DateString() string {
	return b.BookingDate.Format(DateFormat)
}

// BusinessBookingsFilter фильтр для получения бронирований бизнеса
type BusinessBookingsFilter struct {
	BusinessID      int64          // Обязательный параметр
	ServiceID       *int64         // Фильтр по услуге (опционально, если nil - все услуги)
	StartDate       *time.Time     // Начало периода (опционально, если nil - без ограничения)
	EndDate         *time.Time     // Конец периода (опционально, если nil - без ограничения)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show бронирования
}
