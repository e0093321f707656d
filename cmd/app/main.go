package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/okunev/spotbooking/config"
	"github.com/okunev/spotbooking/internal/bootstrap"
	"github.com/okunev/spotbooking/internal/cache"
	"github.com/okunev/spotbooking/internal/kafka"
	"github.com/okunev/spotbooking/internal/repository"
	"github.com/okunev/spotbooking/internal/service/booking"
)

func main() {
	godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ResourceCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	reservationRepo := repository.NewReservationRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	bookingService := booking.NewBookingService(
		reservationRepo,
		resourceRepo,
		redisCache,
		producer,
		cfg.Kafka.ReservationsTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		cfg.Booking.MaxSuggestions,
		cfg.Booking.MaxProbeHours,
		cfg.Booking.DefaultPolicy,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithSettlementTopic(cfg.Kafka.SettlementTopic),
	)

	if err := bootstrap.Run(ctx, cfg, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
