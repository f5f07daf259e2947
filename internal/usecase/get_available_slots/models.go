package get_available_slots

import (
	"time"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Slots      []Slot    // Список слотов с вычисленной вместимостью
}

// Slot модель временного слота
type Slot struct {
	StartTime      time.Time // Начало слота
	EndTime        time.Time // Конец слота
	TotalCapacity  int       // Максимум одновременных бронирований
	BookedCount    int       // Число пересекающихся активных бронирований
	AvailableSpots int       // max(0, TotalCapacity - BookedCount)
	IsFullyBooked  bool      // AvailableSpots <= 0
}
