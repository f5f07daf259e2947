package get_available_slots

import (
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	getAvailableSlots "github.com/Ivand14/TurnoYa-sub000/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string          `json:"date"`
	BusinessID int64           `json:"businessId"`
	ServiceID  int64           `json:"serviceId"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"` // "10:00"
	EndTime        string `json:"endTime"`   // "11:00"
	TotalCapacity  int    `json:"totalCapacity"`
	BookedCount    int    `json:"bookedCount"`
	AvailableSpots int    `json:"availableSpots"`
	IsFullyBooked  bool   `json:"isFullyBooked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.Format(domain.TimeFormat),
			EndTime:        slot.EndTime.Format(domain.TimeFormat),
			TotalCapacity:  slot.TotalCapacity,
			BookedCount:    slot.BookedCount,
			AvailableSpots: slot.AvailableSpots,
			IsFullyBooked:  slot.IsFullyBooked,
		}
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(businessID, serviceID, userID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		UserID:     userID,
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}, nil
}
