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

	acquireLockHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/acquire_lock"
	cleanupLocksHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/cleanup_locks"
	createBookingHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/create_booking"
	generateSlotsHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/generate_slots"
	getBookingHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/get_booking"
	getSlotBookingsHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/get_slot_bookings"
	lockedCapacityHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/locked_capacity"
	resyncCapacityHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/resync_capacity"
	transitionBookingHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/transition_booking"
	validateLockHandler "github.com/avdeevsm/BMS-SlotService/internal/api/handlers/validate_lock"
	"github.com/avdeevsm/BMS-SlotService/internal/api/middleware"
	"github.com/avdeevsm/BMS-SlotService/internal/config"
	bookingRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/booking"
	catalogRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/catalog"
	lockRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/lock"
	packageRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/packageusage"
	slotRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/slot"
	bookingsService "github.com/avdeevsm/BMS-SlotService/internal/service/bookings"
	locksService "github.com/avdeevsm/BMS-SlotService/internal/service/locks"
	acquireLockUC "github.com/avdeevsm/BMS-SlotService/internal/usecase/acquire_lock"
	generateSlotsUC "github.com/avdeevsm/BMS-SlotService/internal/usecase/generate_slots"
	resyncCapacityUC "github.com/avdeevsm/BMS-SlotService/internal/usecase/resync_capacity"
	transitionBookingUC "github.com/avdeevsm/BMS-SlotService/internal/usecase/transition_booking"
	"github.com/avdeevsm/BMS-SlotService/pkg/dbmetrics"
	"github.com/avdeevsm/BMS-SlotService/pkg/logger"
	"github.com/avdeevsm/BMS-SlotService/pkg/metrics"
	"github.com/avdeevsm/BMS-SlotService/pkg/simpletxmanager"
	"github.com/avdeevsm/BMS-SlotService/pkg/txmanager"
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

	log.Info("Starting BMS-SlotService...")
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

	// Инициализируем репозитории (с метриками или без)
	var (
		catalogRepository *catalogRepo.Repository
		slotRepository    *slotRepo.Repository
		lockRepository    *lockRepo.Repository
		bookingRepository *bookingRepo.Repository
		packageRepository *packageRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		lockRepository = lockRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		packageRepository = packageRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		catalogRepository = catalogRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		lockRepository = lockRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		packageRepository = packageRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	locksSvc := locksService.NewService(lockRepository, log)
	bookingsSvc := bookingsService.NewService(bookingRepository, slotRepository, log)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		catalogRepository,
		slotRepository,
		txMgr,
		log,
		cfg.Slots.MaxGenerationDays,
	)
	acquireLockUseCase := acquireLockUC.NewUseCase(
		slotRepository,
		lockRepository,
		txMgr,
		log,
		cfg.Locks.DefaultTTLSeconds,
	)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		packageRepository,
		txMgr,
		log,
	)
	resyncCapacityUseCase := resyncCapacityUC.NewUseCase(
		catalogRepository,
		slotRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	acquireLock := acquireLockHandler.NewHandler(acquireLockUseCase, log)
	validateLock := validateLockHandler.NewHandler(locksSvc, log)
	cleanupLocks := cleanupLocksHandler.NewHandler(locksSvc, log)
	lockedCapacity := lockedCapacityHandler.NewHandler(locksSvc, log)
	createBooking := createBookingHandler.NewHandler(transitionBookingUseCase, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingsSvc, log)
	getSlotBookings := getSlotBookingsHandler.NewHandler(bookingsSvc, log)
	resyncCapacity := resyncCapacityHandler.NewHandler(resyncCapacityUseCase, log)

	// Фоновая очистка истёкших блокировок
	stopCleanupCh := make(chan struct{})
	go func() {
		interval := time.Duration(cfg.Locks.CleanupIntervalSeconds) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("Lock cleanup worker started (interval=%s)", interval)
		for {
			select {
			case <-ticker.C:
				if _, err := locksSvc.Cleanup(context.Background()); err != nil {
					log.Error("Lock cleanup worker: %v", err)
				}
			case <-stopCleanupCh:
				log.Info("Lock cleanup worker stopped")
				return
			}
		}
	}()

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
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

	// Проверка блокировки перед коммитом бронирования
	api.HandleFunc("/locks/{lockId}/validate", validateLock.Handle).Methods(http.MethodGet)

	// Суммы активных резервов по слотам (для витрины доступности)
	api.HandleFunc("/slots/locked-capacity", lockedCapacity.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Tenant-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Слоты ---
	// Генерация слотов смены на диапазон дат
	protected.HandleFunc("/shifts/{shiftId}/generate-slots", generateSlots.Handle).Methods(http.MethodPost)

	// Бронирования слота
	protected.HandleFunc("/slots/{slotId}/bookings", getSlotBookings.Handle).Methods(http.MethodGet)

	// --- Резервационные блокировки ---
	// Резервация вместимости слота на время checkout
	protected.HandleFunc("/slots/{slotId}/locks", acquireLock.Handle).Methods(http.MethodPost)

	// Принудительная очистка истёкших блокировок
	protected.HandleFunc("/locks/cleanup", cleanupLocks.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Смена статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status", transitionBooking.Handle).Methods(http.MethodPatch)

	// --- Вместимость ---
	// Пересинхронизация вместимости после смены пула услуги
	protected.HandleFunc("/services/{serviceId}/resync-capacity", resyncCapacity.HandleOne).Methods(http.MethodPost)
	protected.HandleFunc("/services/resync-capacity", resyncCapacity.HandleAll).Methods(http.MethodPost)

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

	// Останавливаем фоновую очистку блокировок
	close(stopCleanupCh)

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
