package update_schedule_settings

import (
	"github.com/Ivand14/TurnoYa-sub000/internal/service/settings/models"
)

// BlackoutDateRequest blackout-дата в теле запроса
type BlackoutDateRequest struct {
	Date   string  `json:"date"` // "2025-10-15"
	Reason *string `json:"reason,omitempty"`
}

// UpdateScheduleSettingsRequest запрос на обновление настроек расписания
// Все поля настроек опциональны - обновляются только переданные
type UpdateScheduleSettingsRequest struct {
	UserID int64 `json:"userId"`

	SlotDurationMinutes      *int    `json:"slotDurationMinutes,omitempty"`
	BreakBetweenSlotsMinutes *int    `json:"breakBetweenSlotsMinutes,omitempty"`
	DefaultCapacity          *int    `json:"defaultCapacity,omitempty"`
	CapacityMode             *string `json:"capacityMode,omitempty"`
	AllowOverflow            *bool   `json:"allowOverflow,omitempty"`
	AdvanceBookingDays       *int    `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes  *int    `json:"minBookingNoticeMinutes,omitempty"`

	// BlackoutDates заменяют текущий список целиком; null или отсутствие - не трогать
	BlackoutDates *[]BlackoutDateRequest `json:"blackoutDates,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос к сервису
func (r *UpdateScheduleSettingsRequest) ToServiceRequest(businessID int64) *models.UpdateSettingsRequest {
	req := &models.UpdateSettingsRequest{
		UserID:                   r.UserID,
		BusinessID:               businessID,
		SlotDurationMinutes:      r.SlotDurationMinutes,
		BreakBetweenSlotsMinutes: r.BreakBetweenSlotsMinutes,
		DefaultCapacity:          r.DefaultCapacity,
		CapacityMode:             r.CapacityMode,
		AllowOverflow:            r.AllowOverflow,
		AdvanceBookingDays:       r.AdvanceBookingDays,
		MinBookingNoticeMinutes:  r.MinBookingNoticeMinutes,
	}

	if r.BlackoutDates != nil {
		blackouts := make([]models.BlackoutDateModel, len(*r.BlackoutDates))
		for i, b := range *r.BlackoutDates {
			blackouts[i] = models.BlackoutDateModel{Date: b.Date, Reason: b.Reason}
		}
		req.BlackoutDates = &blackouts
	}

	return req
}
