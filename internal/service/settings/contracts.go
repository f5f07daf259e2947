package settings

import (
	"context"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	"github.com/Ivand14/TurnoYa-sub000/internal/integrations/catalogservice"
)

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetByBusinessID(ctx context.Context, businessID int64) (*domain.ScheduleSettings, error)
	Upsert(ctx context.Context, settings *domain.ScheduleSettings) (*domain.ScheduleSettings, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalogservice.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
