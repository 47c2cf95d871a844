package reporter

import (
	"context"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/app/models"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type logReporter struct {
	log *zap.Logger
}

// NewLogReporter reports fetch events as warnings on the service log.
func NewLogReporter(logger *zap.Logger) contracts.FetchReporter {
	return &logReporter{log: logger}
}

func (r *logReporter) Report(ctx context.Context, event models.FetchEvent) {
	r.log.Warn("Clinical fetch degraded",
		zap.String(constvars.LoggingRequestIDKey, event.RequestID),
		zap.String(constvars.LoggingEventKindKey, event.Kind),
		zap.String(constvars.LoggingServiceURLKey, event.ServiceURL),
		zap.String(constvars.LoggingPatientIDKey, event.PatientID),
		zap.String(constvars.LoggingCategoryKey, event.Category),
		zap.String(constvars.LoggingReferenceKey, event.Reference),
		zap.String("reason", event.Reason),
	)
}

type queueReporter struct {
	publisher messagePublisher
	queue     string
	log       *zap.Logger
	mu        sync.Mutex
}

// NewQueueReporter opens a channel on conn and publishes every event as JSON
// on queue. The returned stop function closes the channel.
func NewQueueReporter(logger *zap.Logger, conn *amqp091.Connection, queue string) (contracts.FetchReporter, func() error, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		return nil, nil, err
	}

	return newQueueReporter(logger, channel, queue), channel.Close, nil
}

func newQueueReporter(logger *zap.Logger, publisher messagePublisher, queue string) *queueReporter {
	return &queueReporter{
		publisher: publisher,
		queue:     queue,
		log:       logger,
	}
}

func (r *queueReporter) Report(ctx context.Context, event models.FetchEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		r.log.Error("queueReporter.Report error marshalling event", zap.Error(exceptions.ErrCannotMarshalJSON(err)))
		return
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Kind,
		Headers: amqp091.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
		},
	}

	r.mu.Lock()
	err = r.publisher.PublishWithContext(context.WithoutCancel(ctx), "", r.queue, false, false, message)
	r.mu.Unlock()
	if err != nil {
		r.log.Error("queueReporter.Report error publishing event",
			zap.String(constvars.LoggingRequestIDKey, event.RequestID),
			zap.String(constvars.LoggingQueueKey, r.queue),
			zap.Error(exceptions.ErrRabbitMQPublishMessage(err, r.queue)),
		)
	}
}

type multiReporter []contracts.FetchReporter

// NewMultiReporter fans every event out to all reporters in order.
func NewMultiReporter(reporters ...contracts.FetchReporter) contracts.FetchReporter {
	return multiReporter(reporters)
}

func (m multiReporter) Report(ctx context.Context, event models.FetchEvent) {
	for _, reporter := range m {
		reporter.Report(ctx, event)
	}
}
