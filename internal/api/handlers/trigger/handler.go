package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/notifbox/notifbox/internal/api/dto"
	"github.com/notifbox/notifbox/internal/api/respond"
	"github.com/notifbox/notifbox/internal/config"
	"github.com/notifbox/notifbox/internal/rabbitmq/queue"
	messagerepo "github.com/notifbox/notifbox/internal/repository/message"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/trigger/mock.go -package=mocks

type triggerPublisher interface {
	Publish(msg queue.TriggerMessage, strategy retry.Strategy) error
	PublishBulk(msgs []queue.TriggerMessage, strategy retry.Strategy) error
}

type messageService interface {
	GetStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error)
}

type Handler struct {
	publisher triggerPublisher
	messages  messageService
	validator *validator.Validate
	cfg       *config.Config
}

func NewHandler(
	p triggerPublisher,
	m messageService,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{publisher: p, messages: m, validator: v, cfg: cfg}
}

// Trigger validates a trigger request and enqueues it as a workflow job.
// Delivery itself is asynchronous; the caller gets the transaction id back.
func (h *Handler) Trigger(c *ginext.Context) {
	var req dto.TriggerRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}

	msg := queue.TriggerMessage{
		ID:             uuid.New(),
		TransactionID:  transactionID,
		OrganizationID: req.OrganizationID,
		EnvironmentID:  req.EnvironmentID,
		UserID:         req.UserID,
		SubscriberID:   req.SubscriberID,
		NotificationID: req.NotificationID,
		TemplateID:     req.TemplateID,
		JobID:          uuid.New(),
		Step:           req.Step,
		Payload:        req.Payload,
		Overrides:      req.Overrides,
		Tenant:         req.Tenant,
		Events:         req.Events,
		IsTest:         req.IsTest,
	}

	if err := h.publisher.Publish(msg, h.cfg.Retry); err != nil {
		zlog.Logger.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to publish trigger")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Accepted(c.Writer, map[string]string{"transaction_id": transactionID})
}

// TriggerBulk validates a batch of trigger requests and enqueues them as one
// publish sequence, typically digest fan-out. All requests must validate
// before anything is enqueued.
func (h *Handler) TriggerBulk(c *ginext.Context) {
	var reqs []dto.TriggerRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&reqs); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if len(reqs) == 0 {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("empty batch"))
		return
	}

	msgs := make([]queue.TriggerMessage, 0, len(reqs))
	transactionIDs := make([]string, 0, len(reqs))

	for i, req := range reqs {
		if err := h.validator.Struct(req); err != nil {
			zlog.Logger.Warn().Err(err).Int("index", i).Msg("failed to validate request body")
			respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error at index %d: %s", i, err.Error()))
			return
		}

		transactionID := req.TransactionID
		if transactionID == "" {
			transactionID = uuid.NewString()
		}

		msgs = append(msgs, queue.TriggerMessage{
			ID:             uuid.New(),
			TransactionID:  transactionID,
			OrganizationID: req.OrganizationID,
			EnvironmentID:  req.EnvironmentID,
			UserID:         req.UserID,
			SubscriberID:   req.SubscriberID,
			NotificationID: req.NotificationID,
			TemplateID:     req.TemplateID,
			JobID:          uuid.New(),
			Step:           req.Step,
			Payload:        req.Payload,
			Overrides:      req.Overrides,
			Tenant:         req.Tenant,
			Events:         req.Events,
			IsTest:         req.IsTest,
		})
		transactionIDs = append(transactionIDs, transactionID)
	}

	if err := h.publisher.PublishBulk(msgs, h.cfg.Retry); err != nil {
		zlog.Logger.Error().Err(err).Int("batch_size", len(msgs)).Msg("failed to publish trigger batch")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Accepted(c.Writer, map[string]any{"transaction_ids": transactionIDs})
}

// GetMessageStatus returns the delivery status of one message record.
func (h *Handler) GetMessageStatus(c *ginext.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Interface("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}

	if id == uuid.Nil {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	status, err := h.messages.GetStatusByID(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		if errors.Is(err, messagerepo.ErrMessageNotFound) {
			zlog.Logger.Warn().Interface("id", id).Err(err).Msg("message not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("message not found"))
			return
		}

		zlog.Logger.Error().Err(err).Interface("id", id).Msg("failed to get message status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, status)
}
