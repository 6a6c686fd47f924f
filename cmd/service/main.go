package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentalhub/config"
	"rentalhub/internal/cache"
	"rentalhub/internal/database"
	"rentalhub/internal/logger"
	"rentalhub/internal/migrate"
	"rentalhub/internal/producer"
	"rentalhub/internal/repository"
	"rentalhub/internal/schema"
	"rentalhub/internal/service"
	"rentalhub/internal/transport/http/router"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	ctx := context.Background()
	if err := migrate.Run(ctx, db, log, migrate.DefaultOptions()); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	caps := schema.Detect(db, log)
	repos := repository.New(db, caps, log)
	log.Info("inventory backend selected",
		zap.String("backend", string(repository.SelectBackend(caps))))

	var availabilityCache service.AvailabilityCache
	if cfg.Redis.Enabled {
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		rc, err := cache.NewAvailabilityCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl, log)
		if err != nil {
			log.Warn("redis unavailable, running without availability cache", zap.Error(err))
		} else {
			defer rc.Close()
			availabilityCache = rc
		}
	}

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		kp := producer.NewNotificationProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
	}

	billing := service.NewBillingService(repos, log)
	notifications := service.NewNotificationService(repos, publisher, log)
	reservations := service.NewReservationService(repos, billing, notifications, cfg.ReleaseOnCancel, log)
	bookings := service.NewBookingService(repos, billing, notifications, log)
	catalog := service.NewCatalogService(repos, availabilityCache, log)

	r := router.Router(router.Deps{
		Reservations:  reservations,
		Bookings:      bookings,
		Catalog:       catalog,
		Notifications: notifications,
		Billing:       billing,
		JWTSecret:     cfg.JWTSecret,
		Log:           log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
