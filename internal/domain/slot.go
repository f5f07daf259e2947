package domain

import "time"

// Slot represents a bookable time window with its computed capacity
// Результат работы движка доступности: пересчитывается на каждый запрос,
// нигде не сохраняется
type Slot struct {
	StartTime      time.Time
	EndTime        time.Time
	TotalCapacity  int // Максимум одновременных бронирований
	BookedCount    int // Количество пересекающихся активных бронирований
	AvailableSpots int // max(0, TotalCapacity - BookedCount)
}

// IsFullyBooked returns true if the slot has no available spots
func (s *Slot) IsFullyBooked() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyBooked returns true if the slot has some but not all spots taken
func (s *Slot) IsPartiallyBooked() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalCapacity
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *Slot) OccupancyRate() float64 {
	if s.TotalCapacity == 0 {
		return 0
	}
	occupied := s.TotalCapacity - s.AvailableSpots
	return float64(occupied) / float64(s.TotalCapacity) * 100
}
