package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/totalboostmarketing/reservation-system/internal/config"
	discountRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/discount"
	menuRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/menu"
	reservationRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/reservation"
	settingsRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/settings"
	storeRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/store"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
	settingsService "github.com/totalboostmarketing/reservation-system/internal/service/settings"
	sendRemindersUC "github.com/totalboostmarketing/reservation-system/internal/usecase/send_reminders"
	"github.com/totalboostmarketing/reservation-system/pkg/dbmetrics"
	"github.com/totalboostmarketing/reservation-system/pkg/logger"
	"github.com/totalboostmarketing/reservation-system/pkg/metrics"
	"github.com/totalboostmarketing/reservation-system/pkg/txmanager"
)

// app общие зависимости команд serve и remind
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics // nil, если метрики выключены

	db            *sql.DB
	wrappedDB     *dbmetrics.DB
	stopMetricsCh chan struct{}
	txManager     *txmanager.TransactionManager

	storeRepository       *storeRepo.Repository
	menuRepository        *menuRepo.Repository
	reservationRepository *reservationRepo.Repository
	discountRepository    *discountRepo.Repository
	settingsRepository    *settingsRepo.Repository

	settings  *settingsService.Service
	publisher *notifications.Publisher
}

func newApp(configPath string) (*app, error) {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{
		cfg:           cfg,
		log:           log,
		stopMetricsCh: make(chan struct{}),
	}

	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка с метриками запросов; без коллектора только прокидывает вызовы
	if a.metrics != nil {
		a.wrappedDB = dbmetrics.WrapWithDefault(db, a.metrics, a.stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		a.wrappedDB = dbmetrics.Wrap(db, nil)
	}

	a.txManager = txmanager.NewTransactionManager(a.wrappedDB)

	// Репозитории
	a.storeRepository = storeRepo.NewRepository(a.wrappedDB)
	a.menuRepository = menuRepo.NewRepository(a.wrappedDB)
	a.reservationRepository = reservationRepo.NewRepository(a.wrappedDB)
	a.discountRepository = discountRepo.NewRepository(a.wrappedDB)
	a.settingsRepository = settingsRepo.NewRepository(a.wrappedDB)

	a.settings = settingsService.NewService(a.settingsRepository, cfg.Booking, log)

	// Уведомления
	a.publisher = notifications.NewPublisher(notifications.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		BaseURL: cfg.Booking.BaseURL,
	}, log)
	if a.metrics != nil {
		a.publisher.WithMetrics(a.metrics)
	}

	return a, nil
}

func (a *app) sendRemindersUseCase() *sendRemindersUC.UseCase {
	return sendRemindersUC.NewUseCase(a.reservationRepository, a.settings, a.publisher, a.log)
}

func (a *app) close() {
	close(a.stopMetricsCh)

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Error("Failed to close notifications publisher: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close database: %v", err)
		}
	}

	a.log.Close()
}
