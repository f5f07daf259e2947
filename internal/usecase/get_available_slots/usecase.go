package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	settingsRepo "github.com/Ivand14/TurnoYa-sub000/internal/infra/storage/settings"
	catalogClient "github.com/Ivand14/TurnoYa-sub000/internal/integrations/catalogservice"
	staffClient "github.com/Ivand14/TurnoYa-sub000/internal/integrations/staffservice"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	settingsRepo  SettingsRepository
	catalogClient CatalogServiceClient
	staffClient   StaffServiceClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	catalogClient CatalogServiceClient,
	staffClient StaffServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		settingsRepo:  settingsRepo,
		catalogClient: catalogClient,
		staffClient:   staffClient,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, business=%d, service=%d, date=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование бизнеса
	if _, err := uc.catalogClient.GetBusiness(ctx, req.BusinessID); err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	catalogSvc, err := uc.catalogClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	service := catalogSvc.ToDomain()
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 5. Получаем настройки расписания бизнеса
	settings, err := uc.settingsRepo.GetByBusinessID(ctx, req.BusinessID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// Если настройки не найдены, используем дефолтные значения
	if settings == nil {
		settings = defaultSettings(req.BusinessID)
		uc.logger.Info("GetAvailableSlots: using default settings for business=%d", req.BusinessID)
	}

	// 6. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем сотрудников и смены с graceful degradation
	// При недоступности StaffService движок падает на упрощённую формулу вместимости
	var (
		employees []domain.Employee
		shifts    []domain.EmployeeShift
	)

	roster, err := uc.staffClient.GetRosterWithGracefulDegradation(ctx, req.BusinessID)
	switch {
	case err == nil:
		employees, shifts = roster.ToDomain()
	case errors.Is(err, staffClient.ErrServiceDegraded):
		uc.logger.Warn("GetAvailableSlots: staff data unavailable for business=%d, using fallback capacity", req.BusinessID)
	case errors.Is(err, staffClient.ErrBusinessNotFound):
		// Бизнес не заведён в StaffService - контекста сотрудников нет,
		// вместимость считается по упрощённой формуле
		uc.logger.Info("GetAvailableSlots: business=%d has no roster in StaffService, using fallback capacity", req.BusinessID)
	default:
		uc.logger.Error("GetAvailableSlots: failed to get roster: %v", err)
		return nil, fmt.Errorf("%w: failed to get roster: %v", ErrInternal, err)
	}

	// 8. Получаем бронирования услуги на эту дату
	// Ночное окно порождает слоты после полуночи - их бронирования датируются
	// следующим днём и тоже должны попасть в подсчёт занятости
	endDate := req.Date
	for _, w := range service.WindowsForWeekday(int(req.Date.Weekday())) {
		if w.SpansMidnight() {
			endDate = req.Date.AddDate(0, 0, 1)
			break
		}
	}

	filter := domain.BusinessBookingsFilter{
		BusinessID:      req.BusinessID,
		ServiceID:       &req.ServiceID,
		StartDate:       &req.Date,
		EndDate:         &endDate,
		IncludeInactive: false, // Только занимающие место бронирования
	}

	bookings, err := uc.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Вычисляем слоты на дату
	daySlots, err := computeDaySlots(req.Date, service, settings, employees, shifts, bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, err
	}

	// 10. Отбрасываем слоты, до которых осталось меньше minBookingNotice
	daySlots = filterSlotsByNotice(daySlots, req.Date, now, settings.MinBookingNoticeMinutes)

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(daySlots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Slots:      toResponseSlots(daySlots),
	}, nil
}

// defaultSettings настройки расписания по умолчанию, когда бизнес их не задал
func defaultSettings(businessID int64) *domain.ScheduleSettings {
	return &domain.ScheduleSettings{
		BusinessID:               businessID,
		SlotDurationMinutes:      domain.DefaultSlotDurationMinutes,
		BreakBetweenSlotsMinutes: domain.DefaultBreakBetweenSlotsMinutes,
		DefaultCapacity:          domain.DefaultCapacity,
		CapacityMode:             domain.DefaultCapacityMode,
		AllowOverflow:            domain.DefaultAllowOverflow,
		AdvanceBookingDays:       domain.DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes:  domain.DefaultMinBookingNoticeMinutes,
	}
}

// toResponseSlots конвертирует доменные слоты в модель ответа
func toResponseSlots(slots []domain.Slot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		result[i] = Slot{
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			TotalCapacity:  s.TotalCapacity,
			BookedCount:    s.BookedCount,
			AvailableSpots: s.AvailableSpots,
			IsFullyBooked:  s.IsFullyBooked(),
		}
	}
	return result
}
