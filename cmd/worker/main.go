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
	"github.com/okunev/spotbooking/internal/cache"
	"github.com/okunev/spotbooking/internal/email"
	"github.com/okunev/spotbooking/internal/kafka"
	"github.com/okunev/spotbooking/internal/repository"
	"github.com/okunev/spotbooking/internal/service/booking"
	"github.com/robfig/cron/v3"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	schedule := cfg.Worker.SweepSchedule
	if schedule == "" {
		schedule = "@every 1m"
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		expired, err := bookingService.ExpirePendingReservations(ctx)
		if err != nil {
			log.Printf("expire reservations error: %v", err)
		} else if len(expired) > 0 {
			log.Printf("expired %d pending reservations", len(expired))
		}

		completed, err := bookingService.CompleteElapsedReservations(ctx)
		if err != nil {
			log.Printf("complete reservations error: %v", err)
		} else if completed > 0 {
			log.Printf("completed %d elapsed reservations", completed)
		}
	}); err != nil {
		log.Fatalf("schedule sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Printf("received signal %v, shutting down", s)
}
