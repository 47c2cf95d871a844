package reporter

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// messagePublisher is the part of *amqp091.Channel the reporter needs.
type messagePublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}
