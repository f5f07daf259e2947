package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	settingsRepo "github.com/Ivand14/TurnoYa-sub000/internal/infra/storage/settings"
	catalogClient "github.com/Ivand14/TurnoYa-sub000/internal/integrations/catalogservice"
	"github.com/Ivand14/TurnoYa-sub000/internal/service/settings/models"
)

// Service сервис для работы с настройками расписания
type Service struct {
	settingsRepo  SettingsRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo:  settingsRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// GetByBusinessID получает настройки расписания бизнеса
// Публичный метод - доступен всем
// Если бизнес настройки не задавал, возвращает дефолтные значения
func (s *Service) GetByBusinessID(ctx context.Context, businessID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetByBusinessID: fetching settings for business=%d", businessID)

	settings, err := s.settingsRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("GetByBusinessID: business=%d has no settings, returning defaults", businessID)
			return models.FromDomainSettings(defaultSettings(businessID)), nil
		}
		s.logger.Error("GetByBusinessID: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetByBusinessID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByBusinessID: successfully fetched settings for business=%d", businessID)
	return models.FromDomainSettings(settings), nil
}

// Update обновляет настройки расписания бизнеса
// Доступно только менеджерам бизнеса
// Непереданные поля сохраняют текущее значение; если настроек ещё нет,
// база для обновления - дефолтные значения
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for business=%d by user=%d", req.BusinessID, req.UserID)

	// 1. Проверяем права доступа менеджера
	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Берём текущие настройки как базу для обновления
	current, err := s.settingsRepo.GetByBusinessID(ctx, req.BusinessID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Error("Update: repository error for business=%d: %v", req.BusinessID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		current = defaultSettings(req.BusinessID)
	}

	// 3. Накладываем переданные поля
	applyUpdate(current, req)

	// 4. Валидируем результат целиком
	if err := validateSettings(current); err != nil {
		s.logger.Warn("Update: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// 5. Сохраняем
	updated, err := s.settingsRepo.Upsert(ctx, current)
	if err != nil {
		s.logger.Error("Update: failed to upsert settings for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated settings for business=%d", req.BusinessID)
	return models.FromDomainSettings(updated), nil
}

// applyUpdate накладывает переданные поля запроса на настройки
func applyUpdate(settings *domain.ScheduleSettings, req *models.UpdateSettingsRequest) {
	if req.SlotDurationMinutes != nil {
		settings.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.BreakBetweenSlotsMinutes != nil {
		settings.BreakBetweenSlotsMinutes = *req.BreakBetweenSlotsMinutes
	}
	if req.DefaultCapacity != nil {
		settings.DefaultCapacity = *req.DefaultCapacity
	}
	if req.CapacityMode != nil {
		settings.CapacityMode = domain.CapacityMode(*req.CapacityMode)
	}
	if req.AllowOverflow != nil {
		settings.AllowOverflow = *req.AllowOverflow
	}
	if req.AdvanceBookingDays != nil {
		settings.AdvanceBookingDays = *req.AdvanceBookingDays
	}
	if req.MinBookingNoticeMinutes != nil {
		settings.MinBookingNoticeMinutes = *req.MinBookingNoticeMinutes
	}
	if req.BlackoutDates != nil {
		settings.BlackoutDates = models.ToDomainBlackoutDates(*req.BlackoutDates)
	}
}

// validateSettings проверяет настройки целиком после наложения обновления
func validateSettings(settings *domain.ScheduleSettings) error {
	if settings.SlotDurationMinutes < domain.MinSlotDurationMinutes ||
		settings.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if settings.BreakBetweenSlotsMinutes < domain.MinBreakBetweenSlotsMinutes ||
		settings.BreakBetweenSlotsMinutes > domain.MaxBreakBetweenSlotsMinutes {
		return fmt.Errorf("%w: breakBetweenSlotsMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBreakBetweenSlotsMinutes, domain.MaxBreakBetweenSlotsMinutes)
	}

	if settings.DefaultCapacity < domain.MinCapacity || settings.DefaultCapacity > domain.MaxCapacity {
		return fmt.Errorf("%w: defaultCapacity must be between %d and %d",
			ErrInvalidInput, domain.MinCapacity, domain.MaxCapacity)
	}

	if err := settings.CapacityMode.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if settings.AdvanceBookingDays < domain.MinAdvanceBookingDays ||
		settings.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if settings.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes ||
		settings.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return validateBlackoutDates(settings.BlackoutDates)
}

// validateBlackoutDates проверяет формат дат и отсутствие дубликатов
func validateBlackoutDates(blackouts []domain.BlackoutDate) error {
	seen := make(map[string]struct{}, len(blackouts))

	for _, b := range blackouts {
		if _, err := time.Parse(domain.DateFormat, b.Date); err != nil {
			return fmt.Errorf("%w: invalid blackout date %q, expected YYYY-MM-DD", ErrInvalidInput, b.Date)
		}

		if _, ok := seen[b.Date]; ok {
			return fmt.Errorf("%w: duplicate blackout date %q", ErrInvalidInput, b.Date)
		}
		seen[b.Date] = struct{}{}

		if b.Reason != nil && len(*b.Reason) > domain.MaxBlackoutReasonLength {
			return fmt.Errorf("%w: blackout reason exceeds %d characters", ErrInvalidInput, domain.MaxBlackoutReasonLength)
		}
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером бизнеса
func (s *Service) checkManagerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.catalogClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			s.logger.Warn("checkManagerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// defaultSettings настройки расписания по умолчанию
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
