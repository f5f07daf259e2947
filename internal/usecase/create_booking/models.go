package create_booking

import (
	"time"

	"github.com/Ivand14/TurnoYa-sub000/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64            // ID пользователя
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64     // ID созданного бронирования
	UserID     int64     // ID пользователя
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги

	BookingDate time.Time // Дата бронирования
	StartTime   time.Time // Начало слота
	EndTime     time.Time // Конец слота
	Status      string    // Статус бронирования

	// Денормализованные данные услуги
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
