package reservations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/queue"
	participantRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/participant"
	reservationRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/reservation"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями после их создания:
// чтение, отмена, оплата, ответы участников
type Service struct {
	reservationRepo ReservationRepository
	participantRepo ParticipantRepository
	settingsRepo    SettingsRepository
	publisher       EventPublisher
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	participantRepo ParticipantRepository,
	settingsRepo SettingsRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		participantRepo: participantRepo,
		settingsRepo:    settingsRepo,
		publisher:       publisher,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят владелец и приглашенные участники
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, storageErr("GetByID - repository error", err)
	}

	participants, err := s.participantRepo.GetByReservationID(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to load participants for reservation id=%d: %v", id, err)
		return nil, storageErr("GetByID - participants error", err)
	}

	// Проверяем права доступа
	if err := checkUserAccess(reservation, participants, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation, participants), nil
}

// GetUserReservations получает историю бронирований пользователя
// Опционально фильтрует по статусу оплаты
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.PaymentStatus
	if req.Status != nil {
		status, err := models.ToDomainPaymentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, storageErr("GetUserReservations - repository error", err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// GetClubReservations получает бронирования клуба с гибкой фильтрацией
// Поддерживает фильтрацию по корту, периоду и включению отмененных бронирований
//
// Примеры использования:
// - Все активные бронирования: GetClubReservations(ctx, &GetClubReservationsRequest{ClubID: 123, UserID: 456})
// - Расписание одного корта: указать CourtID
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Включая отмененные: IncludeCancelled = true
func (s *Service) GetClubReservations(ctx context.Context, req *models.GetClubReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := fmt.Sprintf("GetClubReservations: fetching reservations for club=%d, user=%d", req.ClubID, req.UserID)
	if req.CourtID != nil {
		logMsg += fmt.Sprintf(", court=%d", *req.CourtID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	reservations, err := s.reservationRepo.GetByClubWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetClubReservations: repository error for club=%d: %v", req.ClubID, err)
		return nil, storageErr("GetClubReservations - repository error", err)
	}

	s.logger.Info("GetClubReservations: successfully fetched %d reservations for club=%d", len(reservations), req.ClubID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование (soft delete)
// Комиссия за отмену считается по настройкам клуба, остаток идет в возврат
// Отмена освобождает слот для новых бронирований
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) (*models.CancelReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return nil, storageErr("Cancel - repository error", err)
	}

	// Отменить может только владелец бронирования
	if reservation.UserID != req.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to cancel reservation id=%d", req.UserID, reservationID)
		return nil, ErrAccessDenied
	}

	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d is already cancelled", reservationID)
		return nil, ErrAlreadyCancelled
	}

	// Комиссия за отмену по политике клуба
	fee, refund := s.calculateCancellationAmounts(ctx, reservation)

	if err := s.reservationRepo.Cancel(ctx, reservationID, req.Reason, fee, refund); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			// Гонка с параллельной отменой
			s.logger.Warn("Cancel: reservation id=%d already cancelled concurrently", reservationID)
			return nil, ErrAlreadyCancelled
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return nil, storageErr("Cancel - repository error", err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d, fee=%.2f, refund=%.2f",
		reservationID, fee, refund)

	// Событие после отмены, best effort
	s.publishCancelled(ctx, reservation, req.Reason, fee, refund)

	return &models.CancelReservationResponse{
		ReservationID:   reservationID,
		CancellationFee: fee,
		RefundAmount:    refund,
	}, nil
}

// UpdatePaymentStatus обновляет статус оплаты бронирования
// Вызывается платежным коллбеком: либо для бронирования целиком,
// либо для доли одного участника (ParticipantID)
func (s *Service) UpdatePaymentStatus(ctx context.Context, reservationID int64, req *models.UpdatePaymentStatusRequest) error {
	s.logger.Info("UpdatePaymentStatus: reservation id=%d, status=%s, participant=%v",
		reservationID, req.Status, req.ParticipantID)

	status, err := models.ToDomainPaymentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid status=%s for reservation id=%d", req.Status, reservationID)
		return fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("UpdatePaymentStatus: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for reservation id=%d: %v", reservationID, err)
		return storageErr("UpdatePaymentStatus - repository error", err)
	}

	// Оплата доли конкретного участника
	if req.ParticipantID != nil {
		if status != domain.PaymentPaid {
			s.logger.Warn("UpdatePaymentStatus: participant share supports only paid status, got %s", status)
			return fmt.Errorf("%w: participant share can only be marked as paid", ErrInvalidInput)
		}
		return s.markParticipantSharePaid(ctx, reservation, *req.ParticipantID)
	}

	if err := s.reservationRepo.UpdatePaymentStatus(ctx, reservationID, status); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for reservation id=%d: %v", reservationID, err)
		return storageErr("UpdatePaymentStatus - repository error", err)
	}

	s.logger.Info("UpdatePaymentStatus: successfully updated reservation id=%d to status=%s", reservationID, status)
	return nil
}

// RespondInvitation принимает или отклоняет приглашение участника
// При принятии к участнику привязывается identity пользователя
func (s *Service) RespondInvitation(ctx context.Context, reservationID, participantID int64, req *models.RespondInvitationRequest) error {
	s.logger.Info("RespondInvitation: reservation id=%d, participant id=%d, user=%d, accept=%v",
		reservationID, participantID, req.UserID, req.Accept)

	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, participantRepo.ErrParticipantNotFound) {
			s.logger.Warn("RespondInvitation: participant id=%d not found", participantID)
			return ErrParticipantNotFound
		}
		s.logger.Error("RespondInvitation: repository error for participant id=%d: %v", participantID, err)
		return storageErr("RespondInvitation - repository error", err)
	}

	// Участник должен относиться к указанному бронированию
	if participant.ReservationID != reservationID {
		s.logger.Warn("RespondInvitation: participant id=%d does not belong to reservation id=%d",
			participantID, reservationID)
		return ErrParticipantNotFound
	}

	// Закрыть приглашение может только его адресат: уже привязанный
	// пользователь либо владелец email, на который оно выдано
	if participant.UserID != nil {
		if *participant.UserID != req.UserID {
			s.logger.Warn("RespondInvitation: participant id=%d is linked to another user", participantID)
			return ErrAccessDenied
		}
	} else if req.UserEmail == "" || !strings.EqualFold(participant.Email, req.UserEmail) {
		s.logger.Warn("RespondInvitation: user=%d email does not match invitation for participant id=%d",
			req.UserID, participantID)
		return ErrAccessDenied
	}

	if !participant.CanRespond() {
		s.logger.Warn("RespondInvitation: participant id=%d already answered with status=%s",
			participantID, participant.InviteStatus)
		return ErrCannotRespond
	}

	status := domain.InviteDeclined
	var userID *int64
	if req.Accept {
		status = domain.InviteAccepted
		userID = &req.UserID
	}

	if err := s.participantRepo.UpdateInviteStatus(ctx, participantID, status, userID); err != nil {
		if errors.Is(err, participantRepo.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		s.logger.Error("RespondInvitation: repository error for participant id=%d: %v", participantID, err)
		return storageErr("RespondInvitation - repository error", err)
	}

	s.logger.Info("RespondInvitation: participant id=%d answered with status=%s", participantID, status)
	return nil
}

// Вспомогательные методы

// markParticipantSharePaid отмечает долю участника оплаченной
func (s *Service) markParticipantSharePaid(ctx context.Context, reservation *domain.Reservation, participantID int64) error {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, participantRepo.ErrParticipantNotFound) {
			s.logger.Warn("markParticipantSharePaid: participant id=%d not found", participantID)
			return ErrParticipantNotFound
		}
		s.logger.Error("markParticipantSharePaid: repository error for participant id=%d: %v", participantID, err)
		return storageErr("markParticipantSharePaid - repository error", err)
	}

	if participant.ReservationID != reservation.ID {
		s.logger.Warn("markParticipantSharePaid: participant id=%d does not belong to reservation id=%d",
			participantID, reservation.ID)
		return ErrParticipantNotFound
	}

	if err := s.participantRepo.MarkSharePaid(ctx, participantID); err != nil {
		if errors.Is(err, participantRepo.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		s.logger.Error("markParticipantSharePaid: repository error for participant id=%d: %v", participantID, err)
		return storageErr("markParticipantSharePaid - repository error", err)
	}

	s.logger.Info("markParticipantSharePaid: participant id=%d share marked as paid", participantID)
	return nil
}

// calculateCancellationAmounts считает комиссию и возврат по настройкам клуба
// Если настройки недоступны, комиссия не удерживается
func (s *Service) calculateCancellationAmounts(ctx context.Context, reservation *domain.Reservation) (fee, refund float64) {
	rate := domain.DefaultCancellationFeeRate

	clubSettings, err := s.settingsRepo.GetByClubID(ctx, reservation.ClubID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("calculateCancellationAmounts: failed to get settings for club=%d: %v",
				reservation.ClubID, err)
		}
	} else {
		rate = clubSettings.CancellationFeeRate
	}

	fee = math.Round(reservation.TotalPrice*rate*100) / 100
	refund = math.Round((reservation.TotalPrice-fee)*100) / 100
	return fee, refund
}

// publishCancelled публикует событие об отмене бронирования
// Ошибка публикации не влияет на результат: отмена уже выполнена
func (s *Service) publishCancelled(ctx context.Context, reservation *domain.Reservation, reason string, fee, refund float64) {
	event := queue.ReservationCancelledEvent{
		ReservationID: reservation.ID,
		ClubID:        reservation.ClubID,
		CourtID:       reservation.CourtID,
		UserID:        reservation.UserID,
		Date:          reservation.ReservationDate.Format(domain.DateFormat),
		StartTime:     reservation.StartTime.String(),
		Reason:        reason,
		Fee:           fee,
		Refund:        refund,
		CancelledAt:   time.Now().Format(time.RFC3339),
	}

	if err := s.publisher.ReservationCancelled(ctx, event); err != nil {
		s.logger.Warn("publishCancelled: failed to publish cancelled event for id=%d: %v", reservation.ID, err)
	}
}

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Доступ есть у владельца и у приглашенных участников с привязанным identity
func checkUserAccess(reservation *domain.Reservation, participants []*domain.Participant, userID int64) error {
	if reservation.UserID == userID {
		return nil
	}

	for _, p := range participants {
		if p.UserID != nil && *p.UserID == userID {
			return nil
		}
	}

	return ErrAccessDenied
}
