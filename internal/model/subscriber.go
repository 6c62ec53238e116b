package model

import "github.com/google/uuid"

// Subscriber is the recipient of a delivery. Read-only reference entity.
type Subscriber struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	EnvironmentID  uuid.UUID `json:"environment_id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Locale         string    `json:"locale"`
}

// Environment carries the DNS configuration consulted for reply-address
// derivation.
type Environment struct {
	ID                 uuid.UUID `json:"id"`
	OrganizationID     uuid.UUID `json:"organization_id"`
	Name               string    `json:"name"`
	MXRecordConfigured bool      `json:"mx_record_configured"`
	InboundParseDomain string    `json:"inbound_parse_domain"`
}

// Tenant is an optional multi-tenancy context attached to a delivery,
// consulted for integration routing and template data.
type Tenant struct {
	ID            uuid.UUID      `json:"id"`
	EnvironmentID uuid.UUID      `json:"environment_id"`
	Identifier    string         `json:"identifier"`
	Name          string         `json:"name"`
	Data          map[string]any `json:"data"`
}

// Layout is a named wrapper template a step may override.
type Layout struct {
	ID            uuid.UUID `json:"id"`
	EnvironmentID uuid.UUID `json:"environment_id"`
	Identifier    string    `json:"identifier"`
	Content       string    `json:"content"`
}
