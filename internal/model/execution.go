package model

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus is the outcome class of a single pipeline decision.
type ExecutionStatus string

const (
	StatusPending ExecutionStatus = "PENDING"
	StatusSuccess ExecutionStatus = "SUCCESS"
	StatusFailed  ExecutionStatus = "FAILED"
	StatusWarning ExecutionStatus = "WARNING"
)

// ExecutionSource identifies who produced an execution detail.
type ExecutionSource string

const (
	SourceInternal ExecutionSource = "INTERNAL"
	SourceWebhook  ExecutionSource = "WEBHOOK"
)

// DetailKind enumerates the pipeline decision points recorded in the audit
// trail. The codes are stable: operators reconstruct delivery history from
// them.
type DetailKind string

const (
	DetailMessageCreated         DetailKind = "MESSAGE_CREATED"
	DetailMessageSent            DetailKind = "MESSAGE_SENT"
	DetailNoActiveIntegration    DetailKind = "SUBSCRIBER_NO_ACTIVE_INTEGRATION"
	DetailLimitPassedIntegration DetailKind = "LIMIT_PASSED_INTEGRATION"
	DetailMissingEmailAddress    DetailKind = "SUBSCRIBER_MISSING_EMAIL_ADDRESS"
	DetailMissingIntegration     DetailKind = "SUBSCRIBER_MISSING_INTEGRATION"
	DetailProviderError          DetailKind = "PROVIDER_ERROR"
	DetailContentNotGenerated    DetailKind = "MESSAGE_CONTENT_NOT_GENERATED"
	DetailLayoutNotFound         DetailKind = "LAYOUT_NOT_FOUND"
	DetailReplyMissingCallback   DetailKind = "REPLY_CALLBACK_MISSING_URL"
	DetailReplyNotConfigured     DetailKind = "REPLY_NOT_CONFIGURED"
	DetailReplyMissingMXRecord   DetailKind = "REPLY_MX_RECORD_NOT_CONFIGURED"
	DetailReplyMissingDomain     DetailKind = "REPLY_INBOUND_PARSE_DOMAIN_NOT_SET"
)

// ExecutionDetail is one immutable audit entry. Entries for a message are
// issued in pipeline order and are never mutated or deleted.
type ExecutionDetail struct {
	ID        uuid.UUID       `json:"id"`
	MessageID uuid.UUID       `json:"message_id"` // uuid.Nil when no message record exists yet
	JobID     uuid.UUID       `json:"job_id"`
	Kind      DetailKind      `json:"detail_kind"`
	Source    ExecutionSource `json:"source"`
	Status    ExecutionStatus `json:"status"`
	IsTest    bool            `json:"is_test"`
	IsRetry   bool            `json:"is_retry"`
	Raw       string          `json:"raw,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpireAt  time.Time       `json:"expire_at"`
}
