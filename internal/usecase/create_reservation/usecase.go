package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/queue"
	courtRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/court"
	reservationRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/reservation"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
)

// UseCase use case атомарного создания бронирования (Atomic Reservation Submitter)
// Все проверки пересечений и вставка выполняются в одной сериализуемой
// транзакции: слот либо закреплен целиком, либо не закреплен вовсе
type UseCase struct {
	reservationRepo ReservationRepository
	participantRepo ParticipantRepository
	courtRepo       CourtRepository
	settingsRepo    SettingsRepository
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	participantRepo ParticipantRepository,
	courtRepo CourtRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		participantRepo: participantRepo,
		courtRepo:       courtRepo,
		settingsRepo:    settingsRepo,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// повторная отправка с тем же idempotency key возвращает уже созданное
// бронирование, а не конфликт
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, club=%d, court=%d, date=%s, time=%s-%s",
		req.UserID, req.ClubID, req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Idempotency key: валидируем переданный или генерируем новый
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	} else if _, err := uuid.Parse(req.IdempotencyKey); err != nil {
		uc.logger.Warn("CreateReservation: invalid idempotency key %q", req.IdempotencyKey)
		return nil, fmt.Errorf("%w: idempotencyKey must be a valid UUID", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 3. Получаем корт и проверяем его принадлежность и статус
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateReservation: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateReservation: failed to get court id=%d: %v", req.CourtID, err)
		return nil, storageErr("failed to get court", err)
	}

	if court.ClubID != req.ClubID {
		uc.logger.Warn("CreateReservation: court id=%d belongs to club=%d, not club=%d",
			req.CourtID, court.ClubID, req.ClubID)
		return nil, ErrCourtNotInClub
	}

	if !court.IsActive() {
		uc.logger.Warn("CreateReservation: court id=%d is under maintenance", req.CourtID)
		return nil, ErrCourtUnderMaintenance
	}

	if req.Attendees > court.Capacity {
		uc.logger.Warn("CreateReservation: attendees=%d exceed capacity=%d of court id=%d",
			req.Attendees, court.Capacity, req.CourtID)
		return nil, fmt.Errorf("%w: court holds at most %d players", ErrTooManyAttendees, court.Capacity)
	}

	// 4. Настройки клуба (рабочее окно, горизонт бронирования)
	clubSettings, err := uc.settingsRepo.GetByClubID(ctx, req.ClubID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateReservation: failed to get settings for club=%d: %v", req.ClubID, err)
			return nil, storageErr("failed to get club settings", err)
		}
		clubSettings = domain.DefaultClubSettings(req.ClubID)
		uc.logger.Info("CreateReservation: using default settings for club=%d", req.ClubID)
	}

	// 5. Валидация даты и рабочего окна
	if err := validateDate(req.Date, now, clubSettings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateReservation: date validation failed: %v", err)
		return nil, err
	}

	if err := validateOperatingHours(req.StartTime, req.EndTime, clubSettings); err != nil {
		uc.logger.Warn("CreateReservation: operating hours validation failed: %v", err)
		return nil, err
	}

	// 6. Стоимость считается на сервере по ставке корта
	totalPrice, err := calculatePrice(court.HourlyRate, req.StartTime, req.EndTime)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to calculate price: %v", err)
		return nil, fmt.Errorf("%w: failed to calculate price: %v", ErrInternal, err)
	}

	var (
		result       *domain.Reservation
		participants []*domain.Participant
		duplicate    bool
	)

	// 7. Сериализуемая транзакция: проверка пересечений + вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Повторная отправка с тем же ключом - возвращаем существующее
		existing, err := uc.reservationRepo.GetByIdempotencyKey(txCtx, req.IdempotencyKey)
		if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("CreateReservation: idempotency lookup failed: %v", err)
			return storageErr("idempotency lookup failed", err)
		}
		if existing != nil {
			uc.logger.Info("CreateReservation: duplicate submission, returning reservation id=%d", existing.ID)
			result = existing
			duplicate = true
			return nil
		}

		// 7.2. Активные бронирования корта на дату с блокировкой (FOR UPDATE)
		reservations, err := uc.reservationRepo.GetActiveByCourtAndDate(txCtx, req.CourtID, req.Date)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
			return storageErr("failed to get reservations", err)
		}

		// 7.3. Проверка пересечений внутри сериализованной секции
		if hasOverlap(req.StartTime, req.EndTime, reservations) {
			uc.logger.Warn("CreateReservation: slot conflict on court=%d, date=%s, time=%s-%s",
				req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			return ErrSlotConflict
		}

		// 7.4. Создаем бронирование со статусом оплаты pending
		reservation := &domain.Reservation{
			ClubID:          req.ClubID,
			CourtID:         req.CourtID,
			UserID:          req.UserID,
			ReservationDate: req.Date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			TotalPrice:      totalPrice,
			PaymentStatus:   domain.PaymentPending,
			SplitPayment:    req.SplitPayment,
			OpenMatch:       req.OpenMatch,
			Attendees:       req.Attendees,
			IdempotencyKey:  req.IdempotencyKey,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			// Exclusion constraint в БД - страховка инварианта непересечения
			if errors.Is(err, reservationRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateReservation: slot conflict detected by database constraint")
				return ErrSlotConflict
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return storageErr("failed to create reservation", err)
		}

		// 7.5. Приглашения сохраняются всегда, иначе событие расходилось бы
		// с состоянием БД. Доля считается только при разделенной оплате;
		// остаток в центах остается в доле владельца. Без разделения
		// приглашение не несет платежного обязательства - доля нулевая
		if len(req.ParticipantEmails) > 0 {
			var share float64
			if req.SplitPayment {
				share = calculateShares(created.TotalPrice, len(req.ParticipantEmails))
			}

			participants = make([]*domain.Participant, 0, len(req.ParticipantEmails))
			for _, email := range req.ParticipantEmails {
				participants = append(participants, &domain.Participant{
					ReservationID: created.ID,
					Email:         email,
					InviteStatus:  domain.InvitePending,
					ShareAmount:   share,
				})
			}

			if err := uc.participantRepo.CreateBatch(txCtx, participants); err != nil {
				uc.logger.Error("CreateReservation: failed to create participants: %v", err)
				return storageErr("failed to create participants", err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	if duplicate {
		// Для повторной отправки подтягиваем уже созданных участников
		existing, err := uc.participantRepo.GetByReservationID(ctx, result.ID)
		if err != nil {
			uc.logger.Warn("CreateReservation: failed to load participants for duplicate id=%d: %v", result.ID, err)
		} else {
			participants = existing
		}
		return buildResponse(result, participants, true), nil
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d, price=%.2f", result.ID, result.TotalPrice)

	// 8. Событие после коммита, best effort
	uc.publishCreated(ctx, result, req.ParticipantEmails)

	return buildResponse(result, participants, false), nil
}

// publishCreated публикует событие о созданном бронировании
// Ошибка публикации не влияет на результат: бронирование уже закоммичено
func (uc *UseCase) publishCreated(ctx context.Context, res *domain.Reservation, emails []string) {
	event := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		ClubID:        res.ClubID,
		CourtID:       res.CourtID,
		UserID:        res.UserID,
		Date:          res.ReservationDate.Format(domain.DateFormat),
		StartTime:     res.StartTime.String(),
		EndTime:       res.EndTime.String(),
		TotalPrice:    res.TotalPrice,
		SplitPayment:  res.SplitPayment,
		OpenMatch:     res.OpenMatch,
		Participants:  emails,
		CreatedAt:     res.CreatedAt.Format(time.RFC3339),
	}

	if err := uc.publisher.ReservationCreated(ctx, event); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish created event for id=%d: %v", res.ID, err)
	}
}

// buildResponse конвертирует доменные модели в response
func buildResponse(res *domain.Reservation, participants []*domain.Participant, duplicate bool) *Response {
	resp := &Response{
		ID:              res.ID,
		ClubID:          res.ClubID,
		CourtID:         res.CourtID,
		UserID:          res.UserID,
		ReservationDate: res.ReservationDate,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		TotalPrice:      res.TotalPrice,
		PaymentStatus:   string(res.PaymentStatus),
		SplitPayment:    res.SplitPayment,
		OpenMatch:       res.OpenMatch,
		Attendees:       res.Attendees,
		IdempotencyKey:  res.IdempotencyKey,
		Participants:    make([]Participant, 0, len(participants)),
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
		Duplicate:       duplicate,
	}

	for _, p := range participants {
		resp.Participants = append(resp.Participants, Participant{
			ID:           p.ID,
			Email:        p.Email,
			InviteStatus: string(p.InviteStatus),
			ShareAmount:  p.ShareAmount,
			SharePaid:    p.SharePaid,
		})
	}

	return resp
}
