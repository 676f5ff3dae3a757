package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/cancel_reservation"
	createCourtHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/create_court"
	createReservationHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/get_available_slots"
	getClubReservationsHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/get_club_reservations"
	getClubSettingsHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/get_club_settings"
	getReservationHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/get_user_reservations"
	listCourtsHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/list_courts"
	respondInvitationHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/respond_invitation"
	updateClubSettingsHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/update_club_settings"
	updateCourtStatusHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/update_court_status"
	updatePaymentStatusHandler "github.com/courtflow/CourtFlow-BookingService/internal/api/handlers/update_payment_status"
	"github.com/courtflow/CourtFlow-BookingService/internal/api/middleware"
	"github.com/courtflow/CourtFlow-BookingService/internal/config"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/queue"
	courtRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/court"
	participantRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/participant"
	reservationRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/reservation"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
	courtsService "github.com/courtflow/CourtFlow-BookingService/internal/service/courts"
	reservationsService "github.com/courtflow/CourtFlow-BookingService/internal/service/reservations"
	createReservationUC "github.com/courtflow/CourtFlow-BookingService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/courtflow/CourtFlow-BookingService/internal/usecase/get_available_slots"
	"github.com/courtflow/CourtFlow-BookingService/pkg/dbmetrics"
	"github.com/courtflow/CourtFlow-BookingService/pkg/logger"
	"github.com/courtflow/CourtFlow-BookingService/pkg/metrics"
	"github.com/courtflow/CourtFlow-BookingService/pkg/simpletxmanager"
	"github.com/courtflow/CourtFlow-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CourtFlow-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Применяем миграции БД (если включены)
	if cfg.Migrations.Enabled {
		m, err := migrate.New("file://"+cfg.Migrations.Path, cfg.Database.URL())
		if err != nil {
			log.Fatal("Failed to initialize migrations: %v", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn("Migrations cleanup: source=%v, db=%v", srcErr, dbErr)
		}
		log.Info("Database migrations applied from %s", cfg.Migrations.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем publisher событий (RabbitMQ или заглушка)
	type eventPublisher interface {
		ReservationCreated(ctx context.Context, event queue.ReservationCreatedEvent) error
		ReservationCancelled(ctx context.Context, event queue.ReservationCancelledEvent) error
	}
	var publisher eventPublisher

	if cfg.Rabbit.Enabled {
		rabbitPublisher := queue.NewPublisher(cfg.Rabbit.URL, log)
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
		log.Info("RabbitMQ publisher initialized (url=%s)", cfg.Rabbit.URL)
	} else {
		publisher = queue.NewNoopPublisher()
		log.Info("RabbitMQ disabled, lifecycle events will not be published")
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		courtRepository       *courtRepo.Repository
		reservationRepository *reservationRepo.Repository
		participantRepository *participantRepo.Repository
		settingsRepository    *settingsRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		courtRepository = courtRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		participantRepository = participantRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		courtRepository = courtRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		participantRepository = participantRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		participantRepository,
		settingsRepository,
		publisher,
		log,
	)
	courtSvc := courtsService.NewService(
		courtRepository,
		settingsRepository,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		participantRepository,
		courtRepository,
		settingsRepository,
		txMgr,
		publisher,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		courtRepository,
		reservationRepository,
		settingsRepository,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, metricsCollector, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, metricsCollector, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(reservationSvc, log)
	respondInvitation := respondInvitationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getClubReservations := getClubReservationsHandler.NewHandler(reservationSvc, log)
	listCourts := listCourtsHandler.NewHandler(courtSvc, log)
	createCourt := createCourtHandler.NewHandler(courtSvc, log)
	updateCourtStatus := updateCourtStatusHandler.NewHandler(courtSvc, log)
	getClubSettings := getClubSettingsHandler.NewHandler(courtSvc, log)
	updateClubSettings := updateClubSettingsHandler.NewHandler(courtSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка доступных слотов клуба
	api.HandleFunc("/clubs/{clubId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Список кортов клуба
	api.HandleFunc("/clubs/{clubId}/courts", listCourts.Handle).Methods(http.MethodGet)

	// Операционные настройки клуба
	api.HandleFunc("/clubs/{clubId}/settings", getClubSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Платежный коллбек
	protected.HandleFunc("/reservations/{reservationId}/payment", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// Ответ на приглашение участника
	protected.HandleFunc("/reservations/{reservationId}/participants/{participantId}/respond",
		respondInvitation.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление клубом ---
	// Список бронирований клуба
	protected.HandleFunc("/clubs/{clubId}/reservations", getClubReservations.Handle).Methods(http.MethodGet)

	// Создание корта
	protected.HandleFunc("/clubs/{clubId}/courts", createCourt.Handle).Methods(http.MethodPost)

	// Смена статуса корта
	protected.HandleFunc("/courts/{courtId}/status", updateCourtStatus.Handle).Methods(http.MethodPatch)

	// Обновление операционных настроек
	protected.HandleFunc("/clubs/{clubId}/settings", updateClubSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
