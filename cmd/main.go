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

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-ParkingService/internal/api"
	bookingTransitionHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/booking_transition"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	createSlotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_slot"
	exportBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/export_bookings"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getBookingByTagHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking_by_tag"
	getSlotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_slot"
	getUserHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user"
	getUserBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_bookings"
	listSlotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_slots"
	listUsersHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_users"
	registerUserHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/register_user"
	runCleanupHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/run_cleanup"
	scanRFIDHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/scan_rfid"
	searchSlotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/search_slots"
	setSlotOccupancyHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/set_slot_occupancy"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/gate"
	"github.com/m04kA/SMC-ParkingService/internal/infra/notifier"
	"github.com/m04kA/SMC-ParkingService/internal/infra/scanguard"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
	userRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/user"
	bookingsService "github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	lifecycleService "github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	reportsService "github.com/m04kA/SMC-ParkingService/internal/service/reports"
	slotsService "github.com/m04kA/SMC-ParkingService/internal/service/slots"
	usersService "github.com/m04kA/SMC-ParkingService/internal/service/users"
	createBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	expireBookingsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
	handleScanUC "github.com/m04kA/SMC-ParkingService/internal/usecase/handle_scan"
	searchSlotsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/search_slots"
	"github.com/m04kA/SMC-ParkingService/internal/worker/sweeper"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

// slotStorage общий набор методов postgres и memory репозиториев слотов
type slotStorage interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	SetOccupied(ctx context.Context, id int64, occupied bool) error
}

// bookingStorage общий набор методов postgres и memory репозиториев броней
type bookingStorage interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	FindOverlapping(ctx context.Context, slotID int64, window domain.Window) ([]*domain.Booking, error)
	FindOverlappingByTag(ctx context.Context, tag string, window domain.Window) ([]*domain.Booking, error)
	FindBlockingSlotIDs(ctx context.Context, window domain.Window) ([]int64, error)
	FindScanCandidates(ctx context.Context, tag string, now time.Time) ([]*domain.Booking, error)
	FindExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	ApplyStatusChange(ctx context.Context, change domain.StatusChange) error
}

type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

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

	log.Info("Starting SMC-ParkingService (storage=%s)...", cfg.Storage.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Метрики: nil коллектор безопасен, все методы становятся no-op
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var (
		slots    slotStorage
		bookings bookingStorage
		users    usersService.UserRepository
		txMgr    transactionManager
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		slots = memory.NewSlotRepository(store)
		bookings = memory.NewBookingRepository(store)
		users = memory.NewUserRepository(store)
		txMgr = memory.NewTxManager(store)
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			slots = slotRepo.NewRepository(wrappedDB)
			bookings = bookingRepo.NewRepository(wrappedDB)
			users = userRepo.NewRepository(wrappedDB)
			txMgr = txmanager.NewTransactionManager(wrappedDB)
			log.Info("Database metrics collection started")
		} else {
			slots = slotRepo.NewRepository(db)
			bookings = bookingRepo.NewRepository(db)
			users = userRepo.NewRepository(db)
			txMgr = txmanager.NewTransactionManager(dbmetrics.Plain(db))
		}
	}

	// Уведомления о бронировании
	var (
		bookingNotifier createBookingUC.Notifier
		notifyPool      *notifier.WorkerPool
	)
	if cfg.Notifications.Enabled {
		var sender notifier.Sender
		if cfg.Notifications.SMTPHost != "" {
			sender = notifier.NewSMTPSender(
				cfg.Notifications.SMTPHost,
				cfg.Notifications.SMTPPort,
				cfg.Notifications.SMTPUser,
				cfg.Notifications.SMTPPassword,
				cfg.Notifications.From,
			)
			log.Info("Email notifications via %s", cfg.Notifications.SMTPAddr())
		} else {
			sender = notifier.NewLogSender(log)
			log.Warn("SMTP host is not set, confirmations are only logged")
		}
		notifyPool = notifier.NewWorkerPool(cfg.Notifications.Workers, cfg.Notifications.QueueSize, sender, metricsCollector, log)
		notifyPool.Start(ctx)
		bookingNotifier = notifyPool
	}

	// Подавление повторных сканов
	var (
		guard       scanRFIDHandler.Guard
		redisClient *redis.Client
	)
	guardWindow := time.Duration(cfg.ScanGuard.WindowSeconds) * time.Second
	if cfg.ScanGuard.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.ScanGuard.RedisAddr,
			DB:       cfg.ScanGuard.RedisDB,
			Password: cfg.ScanGuard.RedisPassword,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis %s is unavailable, scans pass unguarded until it recovers: %v", cfg.ScanGuard.RedisAddr, err)
		}
		guard = scanguard.NewRedisGuard(redisClient, guardWindow)
	} else {
		guard = scanguard.NewMemoryGuard(guardWindow)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookings, log)
	slotSvc := slotsService.NewService(slots, txMgr, log)
	lifecycleSvc := lifecycleService.NewService(bookings, slots, txMgr, metricsCollector, log)
	reportSvc := reportsService.NewService(bookings, slots, log)
	userSvc := usersService.NewService(users, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(bookings, slots, bookingNotifier, txMgr, metricsCollector, log)
	searchSlotsUseCase := searchSlotsUC.NewUseCase(slots, bookings, log)
	handleScanUseCase := handleScanUC.NewUseCase(bookings, slots, lifecycleSvc, metricsCollector, log)
	expireUseCase := expireBookingsUC.NewUseCase(bookings, lifecycleSvc, metricsCollector, log)

	// Фоновая очистка просроченных броней
	var sweep *sweeper.Sweeper
	if cfg.Sweeper.Enabled {
		sweep = sweeper.New(expireUseCase, time.Duration(cfg.Sweeper.IntervalSeconds)*time.Second, log)
		sweep.Start(ctx)
		log.Info("Expiry sweeper started (interval=%ds)", cfg.Sweeper.IntervalSeconds)
	}

	// Шлагбаумы по MQTT
	var mqttClient *gate.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = gate.NewClient(gate.ClientConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		}, log)
		if err != nil {
			log.Error("Gate ingress disabled: %v", err)
		} else {
			consumer := gate.NewConsumer(handleScanUseCase, guard, mqttClient, cfg.MQTT.ResultTopicPrefix, cfg.MQTT.QoS, log)
			if err := mqttClient.Subscribe(cfg.MQTT.ScanTopic, cfg.MQTT.QoS, consumer.Handle); err != nil {
				log.Error("Gate ingress disabled: %v", err)
			} else {
				log.Info("Listening for gate scans on %s (%s)", cfg.MQTT.ScanTopic, cfg.MQTT.Broker)
			}
		}
	}

	// Инициализируем handlers
	h := &api.Handlers{
		CreateBooking:     createBookingHandler.NewHandler(createBookingUseCase, log),
		GetBooking:        getBookingHandler.NewHandler(bookingSvc, log),
		ListBookings:      listBookingsHandler.NewHandler(bookingSvc, log),
		GetUserBookings:   getUserBookingsHandler.NewHandler(bookingSvc, log),
		GetBookingByTag:   getBookingByTagHandler.NewHandler(bookingSvc, log),
		BookingTransition: bookingTransitionHandler.NewHandler(lifecycleSvc, log),
		ScanRFID:          scanRFIDHandler.NewHandler(handleScanUseCase, guard, log),
		RunCleanup:        runCleanupHandler.NewHandler(expireUseCase, log),
		ExportBookings:    exportBookingsHandler.NewHandler(reportSvc, log),
		ListSlots:         listSlotsHandler.NewHandler(slotSvc, log),
		CreateSlot:        createSlotHandler.NewHandler(slotSvc, log),
		GetSlot:           getSlotHandler.NewHandler(slotSvc, log),
		SetSlotOccupancy:  setSlotOccupancyHandler.NewHandler(slotSvc, log),
		SearchSlots:       searchSlotsHandler.NewHandler(searchSlotsUseCase, log),
		RegisterUser:      registerUserHandler.NewHandler(userSvc, log),
		ListUsers:         listUsersHandler.NewHandler(userSvc, log),
		GetUser:           getUserHandler.NewHandler(userSvc, log),
	}

	opts := api.Options{AccessLog: log}
	if cfg.Metrics.Enabled {
		opts.Metrics = metricsCollector
		opts.MetricsPath = cfg.Metrics.Path
	}
	if cfg.RateLimit.PerSecond > 0 {
		opts.RateLimiter = middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
		log.Info("Rate limit %.1f req/s per IP (burst=%d)", cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(h, opts),
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

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Фоновые компоненты останавливаются после HTTP сервера
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	cancel()
	if sweep != nil {
		sweep.Wait()
	}
	if notifyPool != nil {
		notifyPool.Wait()
	}
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
