package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campuswell/scheduling-api/api/swagger"
	"github.com/campuswell/scheduling-api/internal/handler"
	internalmiddleware "github.com/campuswell/scheduling-api/internal/middleware"
	"github.com/campuswell/scheduling-api/internal/repository"
	"github.com/campuswell/scheduling-api/internal/service"
	"github.com/campuswell/scheduling-api/internal/store"
	"github.com/campuswell/scheduling-api/pkg/cache"
	"github.com/campuswell/scheduling-api/pkg/config"
	"github.com/campuswell/scheduling-api/pkg/database"
	"github.com/campuswell/scheduling-api/pkg/jobs"
	"github.com/campuswell/scheduling-api/pkg/logger"
	corsmiddleware "github.com/campuswell/scheduling-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuswell/scheduling-api/pkg/middleware/requestid"
)

// @title CampusWell Scheduling API
// @version 1.0.0
// @description Counselling appointment scheduling for students and counsellors
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	// Store driver selection. The memory driver serves development and tests;
	// postgres is the production path.
	var (
		availabilityStore service.AvailabilityStore
		appointmentStore  service.AppointmentStore
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		availabilityStore = repository.NewAvailabilityRepository(db)
		appointmentStore = repository.NewAppointmentStore(db)
	default:
		availabilityStore = store.NewAvailability()
		appointmentStore = store.NewAppointments()
	}

	var cacheSvc *service.CacheService
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		cacheRepo := repository.NewCacheRepository(client, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Availability.CacheTTL, logr)
	} else {
		cacheSvc = service.NewCacheService(nil, metrics, cfg.Availability.CacheTTL, logr)
	}

	identitySvc := service.NewIdentityService(cfg.JWT)
	availabilitySvc := service.NewAvailabilityService(availabilityStore, appointmentStore, cacheSvc, validate, logr)
	bookingSvc := service.NewBookingService(appointmentStore, availabilityStore, cacheSvc, metrics, validate, logr)
	appointmentSvc := service.NewAppointmentService(appointmentStore, validate, logr)
	actionItemSvc := service.NewActionItemService(appointmentStore, validate, logr)
	lifecycleSvc := service.NewLifecycleService(appointmentStore, metrics, time.UTC, logr)

	appointmentHandler := handler.NewAppointmentHandler(bookingSvc, appointmentSvc, nil)
	if cfg.Exports.Enabled {
		appointmentHandler = handler.NewAppointmentHandler(bookingSvc, appointmentSvc, service.NewExportService(appointmentSvc, logr))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := handler.Handlers{
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Appointments: appointmentHandler,
		ActionItems:  handler.NewActionItemHandler(actionItemSvc),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, identitySvc, handlers)

	var sweep *jobs.Recurring
	if cfg.Sweep.Enabled {
		sweep = jobs.NewRecurring("completion-sweep", lifecycleSvc.Sweep, jobs.RecurringConfig{
			Interval: cfg.Sweep.Interval,
			Logger:   logr,
		})
		sweep.Start(ctx)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	if sweep != nil {
		sweep.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
