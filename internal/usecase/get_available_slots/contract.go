package get_available_slots

import (
	"context"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	"github.com/Ivand14/TurnoYa-sub000/internal/integrations/catalogservice"
	"github.com/Ivand14/TurnoYa-sub000/internal/integrations/staffservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByBusinessWithFilter получает бронирования бизнеса на конкретную дату и услугу
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	// GetByBusinessID получает настройки расписания бизнеса вместе с blackout-датами
	GetByBusinessID(ctx context.Context, businessID int64) (*domain.ScheduleSettings, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalogservice.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*catalogservice.Service, error)
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetRosterWithGracefulDegradation(ctx context.Context, businessID int64) (*staffservice.Roster, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
