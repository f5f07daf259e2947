package models

import (
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
)

// Request модели

// BlackoutDateModel blackout-дата бизнеса в запросах и ответах
type BlackoutDateModel struct {
	Date   string  `json:"date"` // "2025-10-15"
	Reason *string `json:"reason,omitempty"`
}

// UpdateSettingsRequest запрос на обновление настроек расписания
// Все поля опциональны - обновляются только переданные значения,
// непереданные сохраняют текущее значение (или дефолт, если настроек ещё нет)
type UpdateSettingsRequest struct {
	UserID     int64 `json:"userId"`
	BusinessID int64 `json:"businessId"`

	SlotDurationMinutes      *int    `json:"slotDurationMinutes,omitempty"`
	BreakBetweenSlotsMinutes *int    `json:"breakBetweenSlotsMinutes,omitempty"`
	DefaultCapacity          *int    `json:"defaultCapacity,omitempty"`
	CapacityMode             *string `json:"capacityMode,omitempty"`
	AllowOverflow            *bool   `json:"allowOverflow,omitempty"`
	AdvanceBookingDays       *int    `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes  *int    `json:"minBookingNoticeMinutes,omitempty"`

	// BlackoutDates заменяют текущий список целиком; nil = не трогать
	BlackoutDates *[]BlackoutDateModel `json:"blackoutDates,omitempty"`
}

// Response модели

// SettingsResponse ответ с настройками расписания бизнеса
type SettingsResponse struct {
	BusinessID int64 `json:"businessId"`

	SlotDurationMinutes      int    `json:"slotDurationMinutes"`
	BreakBetweenSlotsMinutes int    `json:"breakBetweenSlotsMinutes"`
	DefaultCapacity          int    `json:"defaultCapacity"`
	CapacityMode             string `json:"capacityMode"`
	AllowOverflow            bool   `json:"allowOverflow"`
	AdvanceBookingDays       int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes  int    `json:"minBookingNoticeMinutes"`

	BlackoutDates []BlackoutDateModel `json:"blackoutDates"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.ScheduleSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	blackouts := make([]BlackoutDateModel, len(s.BlackoutDates))
	for i, b := range s.BlackoutDates {
		blackouts[i] = BlackoutDateModel{Date: b.Date, Reason: b.Reason}
	}

	return &SettingsResponse{
		BusinessID:               s.BusinessID,
		SlotDurationMinutes:      s.SlotDurationMinutes,
		BreakBetweenSlotsMinutes: s.BreakBetweenSlotsMinutes,
		DefaultCapacity:          s.DefaultCapacity,
		CapacityMode:             string(s.CapacityMode),
		AllowOverflow:            s.AllowOverflow,
		AdvanceBookingDays:       s.AdvanceBookingDays,
		MinBookingNoticeMinutes:  s.MinBookingNoticeMinutes,
		BlackoutDates:            blackouts,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
	}
}

// ToDomainBlackoutDates конвертирует список blackout-дат в доменные модели
func ToDomainBlackoutDates(blackouts []BlackoutDateModel) []domain.BlackoutDate {
	result := make([]domain.BlackoutDate, len(blackouts))
	for i, b := range blackouts {
		result[i] = domain.BlackoutDate{Date: b.Date, Reason: b.Reason}
	}
	return result
}
