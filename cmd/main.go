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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelPackageHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_package"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getCustomerPackagesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_customer_packages"
	getPackageHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_package"
	reservePackageHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reserve_package"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	couponRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/coupon"
	packageCustomerRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/packagecustomer"
	packageRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/packages"
	paymentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/payment"
	resourceRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/resource"
	scheduleServiceClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/scheduleservice"
	couponsService "github.com/m04kA/SMC-SchedulingService/internal/service/coupons"
	packageCreditsService "github.com/m04kA/SMC-SchedulingService/internal/service/packagecredits"
	packagesService "github.com/m04kA/SMC-SchedulingService/internal/service/packages"
	resourcesService "github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	getPackageAvailabilityUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_package_availability"
	reservePackageUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_package"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func main() {
	// Подхватываем .env (если есть) до чтения конфигурации
	_ = godotenv.Load()

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

	log.Info("Starting SMC-SchedulingService...")
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

	// Инициализируем клиента сервиса расписаний
	scheduleClient := scheduleServiceClient.NewClient(
		cfg.ScheduleService.URL,
		time.Duration(cfg.ScheduleService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ScheduleService=%s timeout=%ds)",
		cfg.ScheduleService.URL, cfg.ScheduleService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository     *appointmentRepo.Repository
		couponRepository          *couponRepo.Repository
		packageRepository         *packageRepo.Repository
		packageCustomerRepository *packageCustomerRepo.Repository
		paymentRepository         *paymentRepo.Repository
		resourceRepository        *resourceRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		couponRepository = couponRepo.NewRepository(wrappedDB)
		packageRepository = packageRepo.NewRepository(wrappedDB)
		packageCustomerRepository = packageCustomerRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		couponRepository = couponRepo.NewRepository(db)
		packageRepository = packageRepo.NewRepository(db)
		packageCustomerRepository = packageCustomerRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	resourceEngine := resourcesService.NewEngine(scheduleClient, log)
	creditLedger := packageCreditsService.NewService(
		appointmentRepository,
		packageCustomerRepository,
		log,
	)
	couponSvc := couponsService.NewService(couponRepository, &couponsService.RealTimeProvider{}, log)
	packageSvc := packagesService.NewService(
		packageRepository,
		packageCustomerRepository,
		paymentRepository,
		appointmentRepository,
		&packagesService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	reservePackageUseCase := reservePackageUC.NewUseCase(
		packageRepository,
		packageCustomerRepository,
		appointmentRepository,
		paymentRepository,
		resourceRepository,
		resourceEngine,
		couponSvc,
		txMgr,
		log,
		cfg.Booking.PackagePurchaseLimit,
	)

	getPackageAvailabilityUseCase := getPackageAvailabilityUC.NewUseCase(
		packageCustomerRepository,
		appointmentRepository,
		resourceRepository,
		resourceEngine,
		creditLedger,
		log,
	)

	// Инициализируем handlers
	reservePackage := reservePackageHandler.NewHandler(reservePackageUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getPackageAvailabilityUseCase, log)
	getPackage := getPackageHandler.NewHandler(packageSvc, log)
	getCustomerPackages := getCustomerPackagesHandler.NewHandler(packageSvc, log)
	cancelPackage := cancelPackageHandler.NewHandler(packageSvc, log)

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

	// Просмотр пакета услуг
	api.HandleFunc("/packages/{packageId}", getPackage.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Пакеты ---
	// Покупка пакета с бронированием записей
	protected.HandleFunc("/packages/{packageId}/reservations", reservePackage.Handle).Methods(http.MethodPost)

	// Покупки пакетов клиента с остатками кредитов
	protected.HandleFunc("/customers/me/packages", getCustomerPackages.Handle).Methods(http.MethodGet)

	// Отмена покупки пакета
	protected.HandleFunc("/package-purchases/{purchaseId}/cancel", cancelPackage.Handle).Methods(http.MethodPatch)

	// --- Доступность ---
	// Остатки кредитов и насыщенность ресурсов по услуге
	protected.HandleFunc("/services/{serviceId}/package-availability", getAvailability.Handle).Methods(http.MethodGet)

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
