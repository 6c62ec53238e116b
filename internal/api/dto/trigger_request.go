package dto

import (
	"github.com/google/uuid"

	"github.com/notifbox/notifbox/internal/model"
)

// TriggerRequest is the body of POST /api/events/trigger: one workflow
// trigger to be enqueued as a delivery job.
type TriggerRequest struct {
	TransactionID  string              `json:"transaction_id"`
	OrganizationID uuid.UUID           `json:"organization_id" validate:"required"`
	EnvironmentID  uuid.UUID           `json:"environment_id" validate:"required"`
	UserID         uuid.UUID           `json:"user_id"`
	SubscriberID   uuid.UUID           `json:"subscriber_id" validate:"required"`
	NotificationID uuid.UUID           `json:"notification_id" validate:"required"`
	TemplateID     uuid.UUID           `json:"template_id"`
	Step           *model.WorkflowStep `json:"step" validate:"required"`
	Payload        map[string]any      `json:"payload"`
	Overrides      map[string]any      `json:"overrides"`
	Tenant         string              `json:"tenant,omitempty"`
	Events         []map[string]any    `json:"events,omitempty"`
	IsTest         bool                `json:"is_test"`
}
