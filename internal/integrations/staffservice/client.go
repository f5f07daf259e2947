package staffservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы со StaffService (сотрудники и смены)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента StaffService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetRoster получает сотрудников бизнеса вместе с их сменами
func (c *Client) GetRoster(ctx context.Context, businessID int64) (*Roster, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/roster", c.baseURL, businessID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrBusinessNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var roster Roster
	if err := json.NewDecoder(resp.Body).Decode(&roster); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &roster, nil
}

// GetRosterWithGracefulDegradation получает сотрудников и смены с graceful degradation
// При недоступности StaffService возвращает ErrServiceDegraded, что позволяет
// вычислять вместимость слотов по упрощённой формуле без данных о сотрудниках
func (c *Client) GetRosterWithGracefulDegradation(ctx context.Context, businessID int64) (*Roster, error) {
	c.log.Info("Fetching roster for business_id=%d", businessID)

	roster, err := c.GetRoster(ctx, businessID)
	if err != nil {
		// Отсутствие бизнеса - бизнес-ошибка, пробрасываем её дальше
		if err == ErrBusinessNotFound {
			c.log.Info("Business id=%d not found in StaffService", businessID)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation - возвращаем ErrServiceDegraded с контекстом
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("StaffService unavailable, applying graceful degradation for business_id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: business_id=%d, error=%v", ErrServiceDegraded, businessID, err)
	}

	c.log.Info("Successfully fetched roster for business_id=%d, employees=%d, shifts=%d",
		businessID, len(roster.Employees), len(roster.Shifts))
	return roster, nil
}
