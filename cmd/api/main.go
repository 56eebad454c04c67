package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/app"
	"github.com/harry-torres/gbarber-backend/internal/auth"
	"github.com/harry-torres/gbarber-backend/internal/config"
	"github.com/harry-torres/gbarber-backend/internal/controller/httpapi"
	"github.com/harry-torres/gbarber-backend/internal/queue"
	"github.com/harry-torres/gbarber-backend/internal/repository"
	"github.com/harry-torres/gbarber-backend/internal/repository/base"
	"github.com/harry-torres/gbarber-backend/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("API stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := app.NewPostgres(ctx, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}
	}

	mongoClient, mongoDB, err := app.NewMongo(ctx, cfg.MongoURL, cfg.MongoDatabase, logger)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	rdb, err := app.NewRedis(ctx, cfg.RedisAddr, logger)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Репозитории
	txManager := base.NewTxManager(pool)
	userRepo := repository.NewUserRepository(pool, cfg.AppURL)
	appointmentRepo := repository.NewAppointmentRepository(pool, cfg.AppURL)
	jobRepo := repository.NewJobRepository(pool)
	notificationRepo := repository.NewNotificationRepository(mongoDB)

	if err := notificationRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// Сервисы
	clock := time.Now
	producer := queue.NewProducer(jobRepo, cfg.Worker.MaxAttempts, clock, logger.Named("queue"))
	notificationService := service.NewNotificationService(notificationRepo, userRepo, clock, logger)
	bookingService := service.NewBookingService(txManager, appointmentRepo, userRepo, notificationService, clock, cfg.Location, logger)
	cancellationService := service.NewCancellationService(txManager, appointmentRepo, producer, clock, logger)
	availabilityService := service.NewAvailabilityService(appointmentRepo, userRepo, clock, cfg.Location, logger)
	userService := service.NewUserService(userRepo, logger)

	if cfg.Worker.Embedded {
		dispatcher, err := app.NewDispatcher(cfg, logger)
		if err != nil {
			return err
		}
		worker := app.NewWorker(app.NewConsumer(pool, cfg, dispatcher, logger), logger)
		worker.Start(ctx)
		defer worker.Stop()
	}

	var limiter httpapi.RateLimiter
	if rdb != nil {
		limiter = httpapi.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
	} else {
		limiter = httpapi.NewMemoryRateLimiter(cfg.RateLimitPerMinute, time.Minute, clock)
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Booking:       bookingService,
		Cancellation:  cancellationService,
		Availability:  availabilityService,
		Notifications: notificationService,
		Providers:     userService,
	}, cfg.Location, logger)

	checks := []httpapi.ReadyCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "mongo", Check: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
	}
	if rdb != nil {
		checks = append(checks, httpapi.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.RouterConfig{
			Handler:  handler,
			Verifier: auth.NewVerifier(cfg.JWTSecret),
			Limiter:  limiter,
			Checks:   checks,
			Logger:   logger.Named("http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
