package courts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	courtRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/court"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts/models"
)

// Service сервис для работы с кортами и операционными настройками клуба
type Service struct {
	courtRepo    CourtRepository
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(
	courtRepo CourtRepository,
	settingsRepo SettingsRepository,
	logger Logger,
) *Service {
	return &Service{
		courtRepo:    courtRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Create создает новый корт клуба
func (s *Service) Create(ctx context.Context, req *models.CreateCourtRequest) (*models.CourtResponse, error) {
	s.logger.Info("Create: creating court for club=%d, name=%q by user=%d", req.ClubID, req.Name, req.UserID)

	if err := validateCreateCourt(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	court := &domain.Court{
		ClubID:     req.ClubID,
		Name:       strings.TrimSpace(req.Name),
		Sport:      domain.Sport(req.Sport),
		Capacity:   req.Capacity,
		HourlyRate: req.HourlyRate,
		Status:     domain.CourtStatusActive,
	}

	created, err := s.courtRepo.Create(ctx, court)
	if err != nil {
		s.logger.Error("Create: repository error for club=%d: %v", req.ClubID, err)
		return nil, storageErr("Create - repository error", err)
	}

	s.logger.Info("Create: successfully created court id=%d for club=%d", created.ID, req.ClubID)
	return models.FromDomainCourt(created), nil
}

// List получает список кортов клуба
// Фильтр по виду спорта опционален; включаются и корты на обслуживании
func (s *Service) List(ctx context.Context, req *models.ListCourtsRequest) (*models.CourtListResponse, error) {
	s.logger.Info("List: fetching courts for club=%d, sport=%v", req.ClubID, req.Sport)

	var sport *domain.Sport
	if req.Sport != nil {
		sp := domain.Sport(*req.Sport)
		if !sp.IsValid() {
			s.logger.Warn("List: invalid sport=%s for club=%d", *req.Sport, req.ClubID)
			return nil, fmt.Errorf("%w: invalid sport", ErrInvalidInput)
		}
		sport = &sp
	}

	courts, err := s.courtRepo.ListByClub(ctx, req.ClubID, sport, false)
	if err != nil {
		s.logger.Error("List: repository error for club=%d: %v", req.ClubID, err)
		return nil, storageErr("List - repository error", err)
	}

	s.logger.Info("List: successfully fetched %d courts for club=%d", len(courts), req.ClubID)
	return models.FromDomainCourtList(courts), nil
}

// UpdateStatus переключает операционный статус корта (active/maintenance)
// Корт на обслуживании исчезает из выдачи доступности, но существующие
// бронирования не отменяются
func (s *Service) UpdateStatus(ctx context.Context, courtID int64, req *models.UpdateCourtStatusRequest) (*models.CourtResponse, error) {
	s.logger.Info("UpdateStatus: updating court id=%d to status=%s by user=%d", courtID, req.Status, req.UserID)

	status := domain.CourtStatus(req.Status)
	if status != domain.CourtStatusActive && status != domain.CourtStatusMaintenance {
		s.logger.Warn("UpdateStatus: invalid status=%s for court id=%d", req.Status, courtID)
		return nil, fmt.Errorf("%w: invalid court status", ErrInvalidInput)
	}

	if err := s.courtRepo.UpdateStatus(ctx, courtID, status); err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("UpdateStatus: court id=%d not found", courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("UpdateStatus: repository error for court id=%d: %v", courtID, err)
		return nil, storageErr("UpdateStatus - repository error", err)
	}

	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to reload court id=%d: %v", courtID, err)
		return nil, storageErr("UpdateStatus - repository error", err)
	}

	s.logger.Info("UpdateStatus: successfully updated court id=%d to status=%s", courtID, status)
	return models.FromDomainCourt(court), nil
}

// GetSettings получает операционные настройки клуба
// Если клуб не настраивал политику, возвращаются настройки по умолчанию
func (s *Service) GetSettings(ctx context.Context, clubID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for club=%d", clubID)

	clubSettings, err := s.settingsRepo.GetByClubID(ctx, clubID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("GetSettings: club=%d has no settings, returning defaults", clubID)
			return models.FromDomainSettings(domain.DefaultClubSettings(clubID)), nil
		}
		s.logger.Error("GetSettings: repository error for club=%d: %v", clubID, err)
		return nil, storageErr("GetSettings - repository error", err)
	}

	return models.FromDomainSettings(clubSettings), nil
}

// UpdateSettings обновляет операционные настройки клуба (upsert)
// Непереданные поля сохраняют текущие значения
func (s *Service) UpdateSettings(ctx context.Context, clubID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for club=%d by user=%d", clubID, req.UserID)

	current, err := s.settingsRepo.GetByClubID(ctx, clubID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Error("UpdateSettings: repository error for club=%d: %v", clubID, err)
			return nil, storageErr("UpdateSettings - repository error", err)
		}
		current = domain.DefaultClubSettings(clubID)
	}

	if err := req.ApplyToDomain(current); err != nil {
		s.logger.Warn("UpdateSettings: invalid time format for club=%d: %v", clubID, err)
		return nil, fmt.Errorf("%w: invalid time format", ErrInvalidInput)
	}

	if err := validateSettings(current); err != nil {
		s.logger.Warn("UpdateSettings: validation failed for club=%d: %v", clubID, err)
		return nil, err
	}

	updated, err := s.settingsRepo.Upsert(ctx, current)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error for club=%d: %v", clubID, err)
		return nil, storageErr("UpdateSettings - repository error", err)
	}

	s.logger.Info("UpdateSettings: successfully updated settings for club=%d", clubID)
	return models.FromDomainSettings(updated), nil
}

// Валидация

// validateCreateCourt валидирует данные нового корта
func validateCreateCourt(req *models.CreateCourtRequest) error {
	if req.ClubID <= 0 {
		return fmt.Errorf("%w: clubID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if len(name) > domain.MaxCourtNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxCourtNameLength)
	}

	if !domain.Sport(req.Sport).IsValid() {
		return fmt.Errorf("%w: invalid sport %q", ErrInvalidInput, req.Sport)
	}

	if req.Capacity < domain.MinCourtCapacity || req.Capacity > domain.MaxCourtCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, domain.MinCourtCapacity, domain.MaxCourtCapacity)
	}

	if req.HourlyRate < 0 {
		return fmt.Errorf("%w: hourlyRate must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateSettings валидирует итоговые настройки после наложения запроса
func validateSettings(s *domain.ClubSettings) error {
	if err := s.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid openTime: %v", ErrInvalidInput, err)
	}

	if err := s.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid closeTime: %v", ErrInvalidInput, err)
	}

	if !s.OpenTime.IsBefore(s.CloseTime) {
		return fmt.Errorf("%w: closeTime must be after openTime", ErrInvalidInput)
	}

	if s.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || s.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if s.SessionDurationMinutes < domain.MinSessionDurationMinutes || s.SessionDurationMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: sessionDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}

	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if s.CancellationFeeRate < 0 || s.CancellationFeeRate > 1 {
		return fmt.Errorf("%w: cancellationFeeRate must be between 0 and 1", ErrInvalidInput)
	}

	return nil
}
