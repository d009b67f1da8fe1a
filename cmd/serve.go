package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	cancelReservationHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/get_availability"
	getReservationHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/get_reservation"
	getReservationByTokenHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/get_reservation_by_token"
	getSettingsHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/get_settings"
	listReservationsHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/list_reservations"
	updateReservationHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/update_reservation"
	updateSettingsHandler "github.com/totalboostmarketing/reservation-system/internal/api/handlers/update_settings"
	"github.com/totalboostmarketing/reservation-system/internal/api/middleware"
	reservationsService "github.com/totalboostmarketing/reservation-system/internal/service/reservations"
	cancelReservationUC "github.com/totalboostmarketing/reservation-system/internal/usecase/cancel_reservation"
	createReservationUC "github.com/totalboostmarketing/reservation-system/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/totalboostmarketing/reservation-system/internal/usecase/get_availability"
	updateReservationUC "github.com/totalboostmarketing/reservation-system/internal/usecase/update_reservation"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			return serve(a)
		},
	}
}

func serve(a *app) error {
	cfg, log := a.cfg, a.log

	log.Info("Starting reservation-system...")

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(a.reservationRepository, a.settings, log)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		a.storeRepository,
		a.menuRepository,
		a.reservationRepository,
		a.settings,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		a.storeRepository,
		a.menuRepository,
		a.reservationRepository,
		a.discountRepository,
		a.settings,
		a.txManager,
		a.publisher,
		a.metrics,
		log,
	)

	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		a.reservationRepository,
		a.settings,
		a.txManager,
		a.publisher,
		a.metrics,
		log,
	)

	updateReservationUseCase := updateReservationUC.NewUseCase(
		a.reservationRepository,
		a.storeRepository,
		a.menuRepository,
		a.txManager,
		a.publisher,
		a.metrics,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	adminCreateReservation := createReservationHandler.NewAdminHandler(createReservationUseCase, log)
	getReservationByToken := getReservationByTokenHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationsSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	getSettings := getSettingsHandler.NewHandler(a.settings, log)
	updateSettings := updateSettingsHandler.NewHandler(a.settings, log)

	// Фоновые задачи: напоминания и очистка локального лимитера
	scheduler := cron.New()
	if cfg.Reminders.Enabled {
		reminderScheduler, err := newReminderScheduler(a, a.sendRemindersUseCase())
		if err != nil {
			return err
		}
		scheduler = reminderScheduler
		log.Info("Reminder scheduler enabled (schedule=%q, timezone=%s)", cfg.Reminders.Schedule, cfg.Booking.Timezone)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if a.metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// ADMIN ROUTES (Authorization: Bearer <admin token>)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	admin.HandleFunc("/reservations", adminCreateReservation.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{reservationId:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{reservationId:[0-9]+}", updateReservation.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	if cfg.Admin.Token == "" {
		log.Warn("Admin token is empty: admin API will reject all requests")
	}

	// ============================================================
	// PUBLIC ROUTES (с ограничением частоты запросов)
	// ============================================================

	public := api.NewRoute().Subrouter()

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Enabled {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			limiter := middleware.NewRedisRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, time.Minute,
				cfg.RateLimit.KeyPrefix, cfg.RateLimit.FailOpen, log)
			public.Use(limiter.Middleware())
			log.Info("Rate limiting via Redis at %s (%d req/min)", cfg.Redis.Addr, cfg.RateLimit.RequestsPerMinute)
		} else {
			limiter := middleware.NewLocalRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
			public.Use(limiter.Middleware())
			if _, err := scheduler.AddFunc("@every 5m", limiter.Cleanup); err != nil {
				return fmt.Errorf("schedule rate limiter cleanup: %w", err)
			}
			log.Info("Rate limiting in-process (%d req/min, burst %d)", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		}
	}

	// Доступные слоты на дату
	public.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Бронирование с сайта
	public.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Страница клиента по токену отмены
	public.HandleFunc("/reservations/by-token/{token}", getReservationByToken.Handle).Methods(http.MethodGet)

	// Отмена клиентом
	public.HandleFunc("/reservations/{reservationId:[0-9]+}/cancel", cancelReservation.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или ошибку сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		<-scheduler.Stop().Done()
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся завершения запущенных задач cron
	<-scheduler.Stop().Done()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
	return nil
}
