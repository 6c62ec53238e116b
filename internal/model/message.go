package model

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies a delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
)

// Message is one persisted delivery attempt. It is created before template
// compilation and mutated exactly twice afterwards: once with the compiled
// content and once with the provider-assigned identifier.
type Message struct {
	ID                uuid.UUID      `json:"id"`
	TransactionID     string         `json:"transaction_id"`
	OrganizationID    uuid.UUID      `json:"organization_id"`
	EnvironmentID     uuid.UUID      `json:"environment_id"`
	SubscriberID      uuid.UUID      `json:"subscriber_id"`
	NotificationID    uuid.UUID      `json:"notification_id"`
	TemplateID        uuid.UUID      `json:"template_id"`
	StepID            uuid.UUID      `json:"step_id"`
	JobID             uuid.UUID      `json:"job_id"`
	Channel           Channel        `json:"channel"`
	Recipient         string         `json:"recipient"`
	ProviderID        string         `json:"provider_id"`
	Payload           map[string]any `json:"payload"`
	Overrides         map[string]any `json:"overrides"`
	Subject           string         `json:"subject"`
	Content           string         `json:"content"`
	ProviderMessageID string         `json:"provider_message_id"`
	Status            string         `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	ExpireAt          time.Time      `json:"expire_at"`
}
