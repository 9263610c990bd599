package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avetluv/flightbook/config"
	"github.com/avetluv/flightbook/internal/domain"
	"github.com/avetluv/flightbook/internal/kafka"
	"github.com/avetluv/flightbook/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// The worker tails booking lifecycle events for the audit log and sweeps
// payment records that were created but never confirmed.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	paymentRepo := repository.NewPaymentRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
			logrus.WithFields(logrus.Fields{
				"type":       event.Type,
				"booking_id": event.BookingID,
				"status":     event.Status,
			}).Info("booking event")
			return nil
		}); err != nil {
			logrus.Errorf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.PaymentSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	paymentTTL := time.Duration(cfg.Worker.PaymentTTLMinutes) * time.Minute

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			deleted, err := paymentRepo.DeleteStaleBefore(ctx, domain.PaymentStatusPending, time.Now().Add(-paymentTTL))
			if err != nil {
				logrus.Errorf("payment sweep error: %v", err)
				continue
			}
			if deleted > 0 {
				logrus.Infof("swept %d stale pending payments", deleted)
			}
		case s := <-sig:
			logrus.Infof("received signal %v, shutting down", s)
			return
		}
	}
}
