package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	settingsRepo "github.com/Ivand14/TurnoYa-sub000/internal/infra/storage/settings"
	catalogClient "github.com/Ivand14/TurnoYa-sub000/internal/integrations/catalogservice"
	staffClient "github.com/Ivand14/TurnoYa-sub000/internal/integrations/staffservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	settingsRepo  SettingsRepository
	catalogClient CatalogServiceClient
	staffClient   StaffServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	catalogClient CatalogServiceClient,
	staffClient StaffServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		settingsRepo:  settingsRepo,
		catalogClient: catalogClient,
		staffClient:   staffClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка вместимости и вставка выполняются в сериализуемой транзакции
// с блокировкой бронирований на дату (FOR UPDATE), чтобы параллельные запросы
// не переполнили слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, business=%d, service=%d, date=%s, time=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование бизнеса
	if _, err := uc.catalogClient.GetBusiness(ctx, req.BusinessID); err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	catalogSvc, err := uc.catalogClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	service := catalogSvc.ToDomain()
	if !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 5. Получаем настройки расписания бизнеса
	settings, err := uc.settingsRepo.GetByBusinessID(ctx, req.BusinessID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		uc.logger.Error("CreateBooking: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	if settings == nil {
		settings = defaultSettings(req.BusinessID)
		uc.logger.Info("CreateBooking: using default settings for business=%d", req.BusinessID)
	}

	// 6. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 7. Границы запрошенного слота
	slotStart, err := req.StartTime.OnDate(req.Date)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid start time: %v", err)
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	slotEnd := slotStart.Add(time.Duration(settings.SlotDurationMinutes) * time.Minute)

	// 8. Blackout-даты бизнеса и услуги
	dateKey := req.Date.Format(domain.DateFormat)
	if settings.IsBlackedOut(dateKey) {
		uc.logger.Warn("CreateBooking: business=%d is blacked out on %s", req.BusinessID, dateKey)
		return nil, ErrDateBlackedOut
	}
	if service.IsBlackedOut(dateKey) {
		uc.logger.Warn("CreateBooking: service=%d is blacked out on %s", req.ServiceID, dateKey)
		return nil, ErrDateBlackedOut
	}

	// 9. Слот должен совпадать с сеткой расписания услуги
	if err := validateSlotWithinSchedule(slotStart, slotEnd, req.Date, service, settings); err != nil {
		uc.logger.Warn("CreateBooking: slot %s-%s rejected by schedule: %v",
			slotStart.Format(domain.TimeFormat), slotEnd.Format(domain.TimeFormat), err)
		return nil, err
	}

	// 10. Минимальный срок до начала слота
	if err := validateBookingNotice(slotStart, now, settings.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking notice validation failed: %v", err)
		return nil, err
	}

	// 11. Получаем сотрудников и смены с graceful degradation
	var (
		employees []domain.Employee
		shifts    []domain.EmployeeShift
	)

	roster, err := uc.staffClient.GetRosterWithGracefulDegradation(ctx, req.BusinessID)
	switch {
	case err == nil:
		employees, shifts = roster.ToDomain()
	case errors.Is(err, staffClient.ErrServiceDegraded):
		uc.logger.Warn("CreateBooking: staff data unavailable for business=%d, using fallback capacity", req.BusinessID)
	case errors.Is(err, staffClient.ErrBusinessNotFound):
		uc.logger.Info("CreateBooking: business=%d has no roster in StaffService", req.BusinessID)
	default:
		uc.logger.Error("CreateBooking: failed to get roster: %v", err)
		return nil, fmt.Errorf("%w: failed to get roster: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 12. Проверка вместимости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 12.1. Бронирования услуги на эту дату с блокировкой (FOR UPDATE)
		filter := domain.BusinessBookingsFilter{
			BusinessID:      req.BusinessID,
			ServiceID:       &req.ServiceID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 12.2. Вместимость слота по тем же правилам, что и при выдаче слотов
		capacity, err := resolveSlotCapacity(slotStart, slotEnd, service, settings, employees, shifts)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve capacity: %v", err)
			return err
		}

		if capacity == 0 {
			uc.logger.Warn("CreateBooking: slot %s has zero capacity", slotStart.Format(domain.TimeFormat))
			return ErrSlotNotAvailable
		}

		// 12.3. Проверяем занятость слота
		overlapping := countOverlappingBookings(slotStart, slotEnd, dateKey, bookings)
		if overlapping >= capacity {
			uc.logger.Warn("CreateBooking: slot not available, %d/%d spots taken", overlapping, capacity)
			return ErrSlotNotAvailable
		}

		uc.logger.Info("CreateBooking: slot available, %d/%d spots taken", overlapping, capacity)

		// 12.4. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			UserID:       req.UserID,
			BusinessID:   req.BusinessID,
			ServiceID:    req.ServiceID,
			BookingDate:  req.Date,
			StartTime:    slotStart,
			EndTime:      slotEnd,
			Status:       domain.StatusConfirmed,
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			Notes:        req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:           result.ID,
		UserID:       result.UserID,
		BusinessID:   result.BusinessID,
		ServiceID:    result.ServiceID,
		BookingDate:  result.BookingDate,
		StartTime:    result.StartTime,
		EndTime:      result.EndTime,
		Status:       string(result.Status),
		ServiceName:  result.ServiceName,
		ServicePrice: result.ServicePrice,
		Notes:        result.Notes,
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
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
