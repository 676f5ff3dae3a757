package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
)

// UseCase use case вычисления доступных слотов (Availability Resolver)
// Чистое чтение: берет снимок кортов и бронирований и строит сетку слотов,
// никаких побочных эффектов
type UseCase struct {
	courtRepo       CourtRepository
	reservationRepo ReservationRepository
	settingsRepo    SettingsRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	courtRepo CourtRepository,
	reservationRepo ReservationRepository,
	settingsRepo SettingsRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:       courtRepo,
		reservationRepo: reservationRepo,
		settingsRepo:    settingsRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Отсутствие доступности - не ошибка: клуб без кортов или полностью занятый
// день дают обычный ответ с пустым/недоступным списком слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: club=%d, date=%s, sport=%v",
		req.ClubID, req.Date.Format(domain.DateFormat), req.Sport)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Настройки клуба (рабочее окно, сетка, горизонт)
	clubSettings, err := uc.settingsRepo.GetByClubID(ctx, req.ClubID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings for club=%d: %v", req.ClubID, err)
			return nil, storageErr("failed to get club settings", err)
		}
		clubSettings = domain.DefaultClubSettings(req.ClubID)
		uc.logger.Info("GetAvailableSlots: using default settings for club=%d", req.ClubID)
	}

	// 3. Валидация даты с учетом горизонта бронирования
	if err := validateDate(req.Date, now, clubSettings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Активные корты клуба; корты на обслуживании исключаются из выборки целиком
	courts, err := uc.courtRepo.ListByClub(ctx, req.ClubID, req.Sport, true)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list courts for club=%d: %v", req.ClubID, err)
		return nil, storageErr("failed to list courts", err)
	}

	// Клуб без активных кортов - пустой список слотов, не ошибка
	if len(courts) == 0 {
		uc.logger.Info("GetAvailableSlots: club=%d has no active courts", req.ClubID)
		return &Response{
			ClubID: req.ClubID,
			Date:   req.Date,
			Sport:  req.Sport,
			Slots:  []domain.Slot{},
		}, nil
	}

	// 5. Активные бронирования этих кортов на дату
	courtIDs := make([]int64, len(courts))
	for i, c := range courts {
		courtIDs[i] = c.ID
	}

	reservations, err := uc.reservationRepo.GetActiveByCourtsAndDate(ctx, courtIDs, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations for club=%d: %v", req.ClubID, err)
		return nil, storageErr("failed to get reservations", err)
	}

	// 6. Сетка слотов и наложение бронирований
	slotTimes, err := generateSlotTimes(
		clubSettings.OpenTime,
		clubSettings.CloseTime,
		clubSettings.SlotGranularityMinutes,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slot times for club=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to generate slot times: %v", ErrInternal, err)
	}

	slots := buildSlots(slotTimes, clubSettings.SlotGranularityMinutes, courts, reservations)

	uc.logger.Info("GetAvailableSlots: generated %d slots for club=%d, date=%s",
		len(slots), req.ClubID, req.Date.Format(domain.DateFormat))

	return &Response{
		ClubID: req.ClubID,
		Date:   req.Date,
		Sport:  req.Sport,
		Slots:  slots,
	}, nil
}
