package send

import (
	"context"

	"github.com/google/uuid"

	"github.com/notifbox/notifbox/internal/model"
)

// Command carries everything one delivery attempt needs. It is built from a
// dequeued trigger job and threaded explicitly through the pipeline.
type Command struct {
	TransactionID  string
	OrganizationID uuid.UUID
	EnvironmentID  uuid.UUID
	UserID         uuid.UUID
	SubscriberID   uuid.UUID
	NotificationID uuid.UUID
	TemplateID     uuid.UUID
	JobID          uuid.UUID
	Step           *model.WorkflowStep
	Payload        map[string]any
	Overrides      map[string]any
	Tenant         string // tenant identifier, empty when the job has none
	Events         []map[string]any
	IsTest         bool
	IsRetry        bool
}

// SendChannel is one channel's delivery pipeline, from command to terminal
// outcome. Recorded failures return nil; only fatal conditions surface as
// errors.
type SendChannel interface {
	Execute(ctx context.Context, cmd Command) error
}
