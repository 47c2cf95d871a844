package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	Redis          *redis.Client
	Logger         *zap.Logger
	RabbitMQ       *amqp091.Connection
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// ReporterStop closes the degradation publisher channel, when one was opened.
	ReporterStop func() error
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.ReporterStop != nil {
		if err := b.ReporterStop(); err != nil {
			return err
		}
		log.Println("Successfully stopped fetch reporter")
	}

	err := b.Redis.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	if b.RabbitMQ != nil {
		err = b.RabbitMQ.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	// Sync on stdout/stderr fails with EINVAL on most platforms.
	_ = b.Logger.Sync()
	log.Println("Successfully closing Logger")

	return nil
}
