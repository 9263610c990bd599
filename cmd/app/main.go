package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avetluv/flightbook/config"
	"github.com/avetluv/flightbook/internal/amadeus"
	"github.com/avetluv/flightbook/internal/auth"
	"github.com/avetluv/flightbook/internal/bootstrap"
	"github.com/avetluv/flightbook/internal/cache"
	"github.com/avetluv/flightbook/internal/checkout"
	"github.com/avetluv/flightbook/internal/email"
	"github.com/avetluv/flightbook/internal/kafka"
	"github.com/avetluv/flightbook/internal/pdf"
	"github.com/avetluv/flightbook/internal/repository"
	"github.com/avetluv/flightbook/internal/service/booking"
	"github.com/avetluv/flightbook/internal/service/flights"
	"github.com/avetluv/flightbook/internal/service/payment"
	"github.com/avetluv/flightbook/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	amadeusClient := amadeus.NewClient(cfg.Amadeus, nil)
	tokens := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	txManager := repository.NewTxManager(pool)
	flightRepo := repository.NewFlightRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	flightService := flights.NewFlightService(amadeusClient, redisCache)
	bookingService := booking.NewBookingService(
		txManager,
		flightRepo,
		passengerRepo,
		bookingRepo,
		pdf.NewTicketRenderer(""),
		email.NewSender(cfg.SMTP),
		producer,
		cfg.Kafka.BookingEventsTopic,
	)
	paymentService := payment.NewPaymentService(
		checkout.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.FrontendURL),
		paymentRepo,
		cfg.Amadeus.Currency,
	)
	userService := users.NewUserService(userRepo, tokens)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService, paymentService, userService, tokens); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
