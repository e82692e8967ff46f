package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/parkeasy/booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/parkeasy/booking-service/internal/api/handlers/create_booking"
	createParkingLotHandler "github.com/parkeasy/booking-service/internal/api/handlers/create_parking_lot"
	getBookingHandler "github.com/parkeasy/booking-service/internal/api/handlers/get_booking"
	getLotBookingsHandler "github.com/parkeasy/booking-service/internal/api/handlers/get_lot_bookings"
	getOwnerBookingsHandler "github.com/parkeasy/booking-service/internal/api/handlers/get_owner_bookings"
	getOwnerStatsHandler "github.com/parkeasy/booking-service/internal/api/handlers/get_owner_stats"
	getParkingLotHandler "github.com/parkeasy/booking-service/internal/api/handlers/get_parking_lot"
	getUserBookingsHandler "github.com/parkeasy/booking-service/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/parkeasy/booking-service/internal/api/handlers/list_bookings"
	listParkingLotsHandler "github.com/parkeasy/booking-service/internal/api/handlers/list_parking_lots"
	updateBookingStatusHandler "github.com/parkeasy/booking-service/internal/api/handlers/update_booking_status"
	updateParkingLotHandler "github.com/parkeasy/booking-service/internal/api/handlers/update_parking_lot"
	updatePaymentStatusHandler "github.com/parkeasy/booking-service/internal/api/handlers/update_payment_status"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/config"
	"github.com/parkeasy/booking-service/internal/infra/events"
	bookingRepo "github.com/parkeasy/booking-service/internal/infra/storage/booking"
	parkingLotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
	bookingsService "github.com/parkeasy/booking-service/internal/service/bookings"
	parkingLotsService "github.com/parkeasy/booking-service/internal/service/parkinglots"
	createBookingUC "github.com/parkeasy/booking-service/internal/usecase/create_booking"
	expireBookingsUC "github.com/parkeasy/booking-service/internal/usecase/expire_bookings"
	expirationWorker "github.com/parkeasy/booking-service/internal/worker/expiration"
	"github.com/parkeasy/booking-service/pkg/dbmetrics"
	"github.com/parkeasy/booking-service/pkg/logger"
	"github.com/parkeasy/booking-service/pkg/metrics"
	"github.com/parkeasy/booking-service/pkg/simpletxmanager"
	"github.com/parkeasy/booking-service/pkg/txmanager"
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

	log.Info("Starting ParkEasy booking service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
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

	// Инициализируем publisher событий жизненного цикла
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var (
		publisher interface {
			Publish(ctx context.Context, event events.BookingEvent) error
		}
		txMgr TxManager
	)

	if cfg.Events.Enabled {
		publisher = events.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		log.Info("Event publisher enabled (queue=%s)", cfg.Events.Queue)
	} else {
		publisher = events.NopPublisher{}
		log.Info("Event publisher disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		lotRepository     *parkingLotRepo.Repository
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		lotRepository = parkingLotRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		lotRepository = parkingLotRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		lotRepository,
		publisher,
		txMgr,
		log,
	)
	lotSvc := parkingLotsService.NewService(lotRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		lotRepository,
		publisher,
		txMgr,
		log,
	)
	expireBookingsUseCase := expireBookingsUC.NewUseCase(
		bookingRepository,
		lotRepository,
		publisher,
		txMgr,
		log,
	)

	// Фоновый sweep истекших бронирований
	sweeper := expirationWorker.New(
		expireBookingsUseCase,
		log,
		metricsCollector,
		cfg.Scheduler.ExpirationSchedule,
		cfg.Scheduler.RunOnStart,
	)
	if err := sweeper.Start(); err != nil {
		log.Fatal("Failed to start expiration worker: %v", err)
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getLotBookings := getLotBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerStats := getOwnerStatsHandler.NewHandler(bookingSvc, log)
	createParkingLot := createParkingLotHandler.NewHandler(lotSvc, log)
	updateParkingLot := updateParkingLotHandler.NewHandler(lotSvc, log)
	getParkingLot := getParkingLotHandler.NewHandler(lotSvc, log)
	listParkingLots := listParkingLotsHandler.NewHandler(lotSvc, log)

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

	// Healthcheck
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог парковок
	api.HandleFunc("/parking-lots", listParkingLots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/parking-lots/{lotId}", getParkingLot.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer-токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payment", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Для владельцев парковок ---
	protected.HandleFunc("/parking-lots", createParkingLot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/parking-lots/{lotId}", updateParkingLot.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/parking-lots/{lotId}/bookings", getLotBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/{userId}/bookings", getOwnerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/{userId}/stats", getOwnerStats.Handle).Methods(http.MethodGet)

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

	// Останавливаем фоновый sweep
	sweeper.Stop()

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
