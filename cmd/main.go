package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kyc-onboarding/internal/api"
	"kyc-onboarding/internal/batch"
	"kyc-onboarding/internal/config"
	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/auth"
	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/dashboard"
	"kyc-onboarding/internal/domain/document"
	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/event"
	"kyc-onboarding/internal/event/consumer"
	"kyc-onboarding/internal/infrastructure/database/postgres"
	"kyc-onboarding/internal/infrastructure/logging"
	"kyc-onboarding/internal/infrastructure/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title KYC Onboarding API
// @version 1.0
// @description Customer onboarding, risk scoring and compliance review scheduling for a KYC back office.
// @termsOfService http://kyc-onboarding.local/terms/

// @contact.name API Support
// @contact.url http://kyc-onboarding.local/support
// @contact.email support@kyc-onboarding.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	rabbitMQConn := setupRabbitMQ(cfg, logger)
	blobs := initializeStorage(appCtx, cfg, logger)

	app := initializeServices(cfg, dbPool, rabbitMQConn, blobs, logger)

	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		app.audit.Run(appCtx)
	}()

	approvalConsumer := startApprovalConsumer(appCtx, cfg, rabbitMQConn, app.services.Reviews, logger)

	backfillJob := batch.NewReviewBackfillJob(app.services.Reviews, logger)
	cronScheduler := startBatchJobs(cfg, logger, backfillJob)
	router := api.SetupRouter(appCtx, app.services, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, approvalConsumer, rabbitMQConn, shutdownChan, serverErrors, logger)

	logger.Info("Flushing audit log...")
	cancelApp()
	select {
	case <-auditDone:
		logger.Info("Audit log flushed.")
	case <-time.After(15 * time.Second):
		logger.Warn("Timed out waiting for audit log flush.")
	}
	if closer, ok := blobs.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close document storage client", slog.Any("error", err))
		}
	}
}

type application struct {
	services api.Services
	audit    audit.Service
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// initializeStorage falls back to a store that rejects every call when no
// bucket is configured, so the rest of the API keeps working.
func initializeStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) document.BlobStore {
	store, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket, logger)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			logger.Warn("Document storage bucket not configured, uploads are disabled")
		} else {
			logger.Error("Failed to initialize document storage, uploads are disabled", slog.Any("error", err))
		}
		return storage.Unavailable{}
	}
	logger.Info("Document storage initialized", "bucket", cfg.Storage.Bucket)
	return store
}

func initializeServices(cfg *config.Config, dbPool *pgxpool.Pool, rabbitConn *amqp.Connection, blobs document.BlobStore, logger *slog.Logger) *application {
	logger.Info("Initializing application components...")

	publisher := initializePublisher(cfg, rabbitConn, logger)

	userRepo := postgres.NewUserRepository(dbPool, logger)
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	riskRepo := postgres.NewRiskScoreRepository(dbPool, logger)
	reviewRepo := postgres.NewReviewRepository(dbPool, logger)
	documentRepo := postgres.NewDocumentRepository(dbPool, logger)
	dashboardRepo := postgres.NewDashboardRepository(dbPool, logger)
	auditRepo := postgres.NewAuditRepository(dbPool, logger)

	tokens, err := auth.NewTokenManager(cfg.Server.Auth.JWTSecret, cfg.Server.Auth.TokenTTL)
	if err != nil {
		logger.Error("Failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	auditService := audit.NewService(auditRepo, audit.DefaultBufferSize, logger)
	authService := auth.NewService(userRepo, tokens, cfg.Server.Auth.BcryptCost, logger)
	scheduler := review.NewScheduler(reviewRepo, publisher, logger)
	customerService := customer.NewCustomerService(customer.Dependencies{
		Repo:      customerRepo,
		RiskRepo:  riskRepo,
		Scheduler: scheduler,
		Passwords: authService,
		Audit:     auditService,
		Publisher: publisher,
	}, logger)
	registrar := auth.NewRegistrar(userRepo, customerService, cfg.Server.Auth.BcryptCost, logger)
	documentService := document.NewService(documentRepo, blobs, customerService, auditService, document.Options{
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		SignedURLTTL:   cfg.Storage.SignedURLTTL,
	}, logger)
	dashboardService := dashboard.NewService(dashboardRepo, auditService, logger)

	return &application{
		services: api.Services{
			Auth:      authService,
			Registrar: registrar,
			Tokens:    tokens,
			Customers: customerService,
			Reviews:   scheduler,
			Documents: documentService,
			Dashboard: dashboardService,
			Audit:     auditService,
		},
		audit: auditService,
	}
}

func initializePublisher(cfg *config.Config, rabbitConn *amqp.Connection, logger *slog.Logger) event.Publisher {
	if rabbitConn == nil {
		logger.Info("RabbitMQ not available, domain events will be logged only")
		return event.NewLogPublisher(logger)
	}
	publisher, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to initialize RabbitMQ publisher, domain events will be logged only", slog.Any("error", err))
		return event.NewLogPublisher(logger)
	}
	return publisher
}

// startApprovalConsumer returns nil when RabbitMQ or the queue is not configured.
func startApprovalConsumer(ctx context.Context, cfg *config.Config, rabbitConn *amqp.Connection, reviews review.Scheduler, logger *slog.Logger) *consumer.Consumer {
	if rabbitConn == nil || cfg.RabbitMQ.QueueName == "" {
		logger.Info("Approval event consumer disabled")
		return nil
	}
	handler := consumer.NewApprovalHandler(reviews, logger)
	c, err := consumer.NewConsumer(rabbitConn, cfg.RabbitMQ.ExchangeName, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.ConsumerTag,
		handler.RoutingKeys(), handler.HandleDelivery, logger)
	if err != nil {
		logger.Error("Failed to create approval event consumer", slog.Any("error", err))
		return nil
	}
	if err := c.Start(ctx); err != nil {
		logger.Error("Failed to start approval event consumer", slog.Any("error", err))
		return nil
	}
	return c
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, approvalConsumer *consumer.Consumer, rabbitConn *amqp.Connection, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	if approvalConsumer != nil {
		approvalConsumer.Stop()
	}
	closeRabbitMQConnection(rabbitConn, logger)
	logger.Info("Application shutdown process complete.")
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
		return
	}
	if rabbitConn.IsClosed() {
		logger.Info("RabbitMQ connection already closed, skipping close.")
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := rabbitConn.Close(); err != nil {
		logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		return
	}
	logger.Info("RabbitMQ connection closed.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, backfillJob *batch.ReviewBackfillJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.ReviewBackfillSchedule
	if scheduleSpec == "" {
		scheduleSpec = "0 3 * * *"
		logger.Warn("Review backfill schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.ReviewBackfillTimeout
	if jobTimeout <= 0 {
		jobTimeout = 1 * time.Hour
	} else {
		jobTimeout = jobTimeout * time.Second
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "ReviewBackfill")
		jobLogger.Info("Cron triggered: Running review backfill job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := backfillJob.Run(ctx); runErr != nil {
			jobLogger.Error("Review backfill job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Review backfill job finished successfully.")
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule review backfill job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled review backfill job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func setupLogger(cfg config.LoggerConfig) *slog.Logger {
	return logging.NewLogger(cfg)
}

func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled by configuration")
		return nil
	}
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("RabbitMQ enabled but no URL configured")
		return nil
	}
	conn, err := connectRabbitMQ(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil
	}
	return conn
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}
