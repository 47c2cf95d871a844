package messaging

import (
	"deathcert-service/internal/app/config"
	"fmt"
	"log"

	"github.com/rabbitmq/amqp091-go"
)

// NewRabbitMQ dials the broker, or returns nil when publishing is disabled.
func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	if !driverConfig.RabbitMQ.Enabled {
		log.Println("RabbitMQ disabled, fetch events are only logged")
		return nil
	}

	connectionString := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		driverConfig.RabbitMQ.Username,
		driverConfig.RabbitMQ.Password,
		driverConfig.RabbitMQ.Host,
		driverConfig.RabbitMQ.Port,
	)
	conn, err := amqp091.Dial(connectionString)
	if err != nil {
		log.Fatalf("Failed to connect to rabbitMQ: %s", err.Error())
	}
	log.Println("Successfully connected to rabbitMQ")
	return conn
}
