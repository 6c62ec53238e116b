package model

import "github.com/google/uuid"

// Provider identifiers known to the adapter registry.
const (
	ProviderSMTP     = "smtp"
	ProviderSendgrid = "sendgrid"
)

// Credentials holds the provider-specific secrets of an integration.
// Stored as a JSON column; unused fields stay empty per provider.
type Credentials struct {
	APIKey     string `json:"api_key,omitempty"`
	User       string `json:"user,omitempty"`
	Password   string `json:"password,omitempty"`
	Host       string `json:"host,omitempty"`
	Port       int    `json:"port,omitempty"`
	From       string `json:"from,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	IPPoolName string `json:"ip_pool_name,omitempty"`
}

// Integration is a configured provider credential set scoped to an
// organization, environment and channel. Read-only for the send pipeline.
type Integration struct {
	ID               uuid.UUID   `json:"id"`
	OrganizationID   uuid.UUID   `json:"organization_id"`
	EnvironmentID    uuid.UUID   `json:"environment_id"`
	ProviderID       string      `json:"provider_id"`
	Channel          Channel     `json:"channel"`
	Credentials      Credentials `json:"credentials"`
	Active           bool        `json:"active"`
	TenantIdentifier string      `json:"tenant_identifier,omitempty"` // empty means any tenant
}
