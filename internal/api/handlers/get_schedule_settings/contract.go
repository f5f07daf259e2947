package get_schedule_settings

import (
	"context"

	"github.com/Ivand14/TurnoYa-sub000/internal/service/settings/models"
)

// SettingsService интерфейс сервиса настроек расписания
type SettingsService interface {
	GetByBusinessID(ctx context.Context, businessID int64) (*models.SettingsResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
