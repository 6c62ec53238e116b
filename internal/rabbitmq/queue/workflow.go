package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/notifbox/notifbox/internal/config"
	"github.com/notifbox/notifbox/internal/model"
)

// TriggerMessage is the payload of one workflow job: everything the channel
// pipeline needs to run a single delivery attempt. Digested trigger events
// travel in Events when several triggers collapse into one delivery.
type TriggerMessage struct {
	ID             uuid.UUID           `json:"id"`
	TransactionID  string              `json:"transaction_id"`
	OrganizationID uuid.UUID           `json:"organization_id"`
	EnvironmentID  uuid.UUID           `json:"environment_id"`
	UserID         uuid.UUID           `json:"user_id"`
	SubscriberID   uuid.UUID           `json:"subscriber_id"`
	NotificationID uuid.UUID           `json:"notification_id"`
	TemplateID     uuid.UUID           `json:"template_id"`
	JobID          uuid.UUID           `json:"job_id"`
	Step           *model.WorkflowStep `json:"step"`
	Payload        map[string]any      `json:"payload"`
	Overrides      map[string]any      `json:"overrides"`
	Tenant         string              `json:"tenant,omitempty"`
	Events         []map[string]any    `json:"events,omitempty"`
	IsTest         bool                `json:"is_test"`
	IsRetry        bool                `json:"is_retry"`
}

// WorkflowQueue is the durable transport for trigger jobs. Topology: a main
// queue dead-lettering into the DLQ, and a retry queue whose message TTL
// dead-letters back into the main queue.
type WorkflowQueue struct {
	Publisher  *rabbitmq.Publisher
	Consumer   *rabbitmq.Consumer
	routingKey string
	retryQueue string
	channel    *rabbitmq.Channel
}

func NewWorkflowQueue(ch *rabbitmq.Channel, cfg *config.Config) (*WorkflowQueue, error) {
	exchange := rabbitmq.NewExchange(cfg.RabbitMQ.Exchange, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	_, err := qm.DeclareQueue(cfg.RabbitMQ.DLQ, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	retryArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitMQ.Queue,
		"x-message-ttl":             int32(5000),
	}

	_, err = qm.DeclareQueue(cfg.RabbitMQ.RetryQueue, rabbitmq.QueueConfig{
		Durable: true,
		Args:    retryArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	mainArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitMQ.DLQ,
	}

	mainQ, err := qm.DeclareQueue(cfg.RabbitMQ.Queue, rabbitmq.QueueConfig{
		Durable: true,
		Args:    mainArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, cfg.RabbitMQ.RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())
	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name))

	return &WorkflowQueue{
		Publisher:  pub,
		Consumer:   cons,
		routingKey: cfg.RabbitMQ.RoutingKey,
		retryQueue: cfg.RabbitMQ.RetryQueue,
		channel:    ch,
	}, nil
}

// Publish enqueues a single trigger job.
func (q *WorkflowQueue) Publish(msg TriggerMessage, strategy retry.Strategy) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.Publisher.PublishWithRetry(body, q.routingKey, "application/json", strategy)
}

// PublishBulk enqueues a batch of trigger jobs, stopping at the first
// transport failure so the caller knows how far the batch got.
func (q *WorkflowQueue) PublishBulk(msgs []TriggerMessage, strategy retry.Strategy) error {
	for i, msg := range msgs {
		if err := q.Publish(msg, strategy); err != nil {
			return fmt.Errorf("failed to publish message %d of %d: %w", i+1, len(msgs), err)
		}
	}

	return nil
}

// Requeue parks a job on the retry queue; its TTL dead-letters it back to
// the main queue, which is how a rejected job re-enters delivery.
func (q *WorkflowQueue) Requeue(msg TriggerMessage, strategy retry.Strategy) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	pub := rabbitmq.NewPublisher(q.channel, "")

	return pub.PublishWithRetry(body, q.retryQueue, "application/json", strategy)
}

// Consume decodes trigger jobs off the main queue into out. The decode
// goroutine exits when ctx is cancelled, so a drained worker pool never
// strands it on the send.
func (q *WorkflowQueue) Consume(ctx context.Context, out chan<- TriggerMessage, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go func() {
		for m := range msgChan {
			var msg TriggerMessage
			if err := json.Unmarshal(m, &msg); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to unmarshal message")
				continue
			}

			select {
			case <-ctx.Done():
				return
			case out <- msg:
			}
		}
	}()

	return q.Consumer.ConsumeWithRetry(msgChan, strategy)
}
