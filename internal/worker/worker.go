package worker

import (
	"context"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/notifbox/notifbox/internal/model"
	"github.com/notifbox/notifbox/internal/rabbitmq/queue"
	"github.com/notifbox/notifbox/internal/service/send"
	"github.com/notifbox/notifbox/internal/trace"
)

//go:generate mockgen -source=worker.go -destination=../mocks/worker/mock.go -package=mocks

type workflowQueue interface {
	Consume(ctx context.Context, out chan<- queue.TriggerMessage, strategy retry.Strategy) error
	Requeue(msg queue.TriggerMessage, strategy retry.Strategy) error
}

// ChannelSender is one channel's pipeline as seen from the worker.
type ChannelSender interface {
	Execute(ctx context.Context, cmd send.Command) error
}

// Worker consumes trigger jobs and drives the channel pipeline. One job
// occupies one worker goroutine end to end inside a traced unit of work;
// the span is closed exactly once on every exit path.
//
// A fatal pipeline error rejects the job back onto the retry queue so the
// transport's own retry policy applies. Recorded failures inside the
// pipeline return nil and the job completes normally.
type Worker struct {
	queue    workflowQueue
	channels map[model.Channel]ChannelSender
}

func NewWorker(q workflowQueue, channels map[model.Channel]ChannelSender) *Worker {
	return &Worker{
		queue:    q,
		channels: channels,
	}
}

func (w *Worker) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	msgChan := make(chan queue.TriggerMessage)

	go func() {
		if err := w.queue.Consume(ctx, msgChan, strategy); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to consume messages")
		}
	}()

	for i := 0; i < workerCount; i++ {
		go func(id int) {
			zlog.Logger.Printf("worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("worker-%d shutting down", id)
					return
				case msg := <-msgChan:
					w.process(ctx, msg, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	zlog.Logger.Print("worker stopped")
}

func (w *Worker) process(ctx context.Context, msg queue.TriggerMessage, strategy retry.Strategy) {
	span := trace.Start("workflow.send_message", msg.TransactionID)

	err := w.execute(ctx, msg)
	span.End(err)

	if err == nil {
		return
	}

	zlog.Logger.Error().
		Err(err).
		Str("transaction_id", msg.TransactionID).
		Str("job_id", msg.JobID.String()).
		Msg("pipeline failed, rejecting job")

	if err := w.queue.Requeue(msg, strategy); err != nil {
		zlog.Logger.Error().Err(err).Str("job_id", msg.JobID.String()).Msg("failed to requeue job")
	}
}

func (w *Worker) execute(ctx context.Context, msg queue.TriggerMessage) error {
	channel := model.ChannelEmail
	if msg.Step != nil && msg.Step.Channel != "" {
		channel = msg.Step.Channel
	}

	sender, ok := w.channels[channel]
	if !ok {
		zlog.Logger.Error().Str("channel", string(channel)).Msg("no sender registered for channel, dropping job")
		return nil
	}

	return sender.Execute(ctx, toCommand(msg))
}

func toCommand(msg queue.TriggerMessage) send.Command {
	return send.Command{
		TransactionID:  msg.TransactionID,
		OrganizationID: msg.OrganizationID,
		EnvironmentID:  msg.EnvironmentID,
		UserID:         msg.UserID,
		SubscriberID:   msg.SubscriberID,
		NotificationID: msg.NotificationID,
		TemplateID:     msg.TemplateID,
		JobID:          msg.JobID,
		Step:           msg.Step,
		Payload:        msg.Payload,
		Overrides:      msg.Overrides,
		Tenant:         msg.Tenant,
		Events:         msg.Events,
		IsTest:         msg.IsTest,
		IsRetry:        msg.IsRetry,
	}
}
