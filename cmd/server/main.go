package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/urbanly-services/provider-dashboard/internal/application"
	"github.com/urbanly-services/provider-dashboard/internal/common/auth"
	"github.com/urbanly-services/provider-dashboard/internal/common/database"
	"github.com/urbanly-services/provider-dashboard/internal/common/health"
	"github.com/urbanly-services/provider-dashboard/internal/common/kafka"
	"github.com/urbanly-services/provider-dashboard/internal/common/logger"
	"github.com/urbanly-services/provider-dashboard/internal/common/middleware"
	"github.com/urbanly-services/provider-dashboard/internal/config"
	"github.com/urbanly-services/provider-dashboard/internal/events"
	"github.com/urbanly-services/provider-dashboard/internal/handler"
	"github.com/urbanly-services/provider-dashboard/internal/metrics"
	"github.com/urbanly-services/provider-dashboard/internal/repository"
)

const serviceName = "provider-dashboard"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.IsProduction() {
		if err := database.RunMigrations(cfg.Database.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	} else {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.BusinessModel{},
			&repository.ProviderModel{},
			&repository.ProviderServiceModel{},
			&repository.PayoutModel{},
		); err != nil {
			log.Fatal("failed to auto-migrate schema", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 15*time.Minute, 7*24*time.Hour)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close() //nolint:errcheck

	bookingRepo := repository.NewGormBookingRepository(db)
	providerRepo := repository.NewGormProviderRepository(db)
	payoutRepo := repository.NewGormPayoutRepository(db)

	bookingService := application.NewBookingService(bookingRepo, producer, log)
	assignmentService := application.NewAssignmentService(bookingRepo, providerRepo, producer, log)
	financeService := application.NewFinanceService(bookingRepo, payoutRepo, producer, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupPrefix+serviceName,
		events.Handlers{
			TipPaid: func(ctx context.Context, evt events.TipPaidEvent) error {
				return bookingService.MarkTipPaid(ctx, evt.BookingID, evt.TipAmountCents)
			},
			BookingCreated: func(ctx context.Context, evt events.BookingCreatedEvent) error {
				return assignmentService.AutoAssignNewBooking(ctx, evt.BookingID)
			},
		},
		log,
	)
	defer consumer.Close() //nolint:errcheck
	consumer.Start(ctx)

	metrics.Register()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(log),
		middleware.CORSMiddleware(),
		middleware.SecurityHeadersMiddleware(),
	)

	health.NewHandler(db, serviceName).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewAssignmentHandler(assignmentService).RegisterRoutes(api, jwtManager)
	handler.NewFinanceHandler(financeService).RegisterRoutes(api, jwtManager)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:         cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}
