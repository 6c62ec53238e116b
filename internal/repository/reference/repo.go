package reference

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/notifbox/notifbox/internal/model"
)

var (
	ErrSubscriberNotFound  = errors.New("subscriber not found")
	ErrEnvironmentNotFound = errors.New("environment not found")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrLayoutNotFound      = errors.New("layout not found")
)

// Repository provides read-only lookups of the reference entities the send
// pipeline resolves: subscribers, environments, tenants and layouts.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new reference entity repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// GetSubscriber retrieves a subscriber by ID within an environment.
func (r *Repository) GetSubscriber(ctx context.Context, envID, id uuid.UUID) (model.Subscriber, error) {
	query := `
		SELECT id, organization_id, environment_id, email, first_name, last_name, locale
		FROM subscribers
		WHERE environment_id = $1 AND id = $2;
    `

	var s model.Subscriber
	err := r.db.QueryRowContext(ctx, query, envID, id).
		Scan(&s.ID, &s.OrganizationID, &s.EnvironmentID, &s.Email, &s.FirstName, &s.LastName, &s.Locale)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Subscriber{}, ErrSubscriberNotFound
		}

		return model.Subscriber{}, fmt.Errorf("failed to get subscriber: %w", err)
	}

	return s, nil
}

// GetEnvironment retrieves an environment by ID.
func (r *Repository) GetEnvironment(ctx context.Context, id uuid.UUID) (model.Environment, error) {
	query := `
		SELECT id, organization_id, name, mx_record_configured, inbound_parse_domain
		FROM environments
		WHERE id = $1;
    `

	var e model.Environment
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.OrganizationID, &e.Name, &e.MXRecordConfigured, &e.InboundParseDomain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Environment{}, ErrEnvironmentNotFound
		}

		return model.Environment{}, fmt.Errorf("failed to get environment: %w", err)
	}

	return e, nil
}

// GetTenant retrieves a tenant by its identifier within an environment.
func (r *Repository) GetTenant(ctx context.Context, envID uuid.UUID, identifier string) (model.Tenant, error) {
	query := `
		SELECT id, environment_id, identifier, name, data
		FROM tenants
		WHERE environment_id = $1 AND identifier = $2;
    `

	var t model.Tenant
	var data []byte
	err := r.db.QueryRowContext(ctx, query, envID, identifier).
		Scan(&t.ID, &t.EnvironmentID, &t.Identifier, &t.Name, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tenant{}, ErrTenantNotFound
		}

		return model.Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &t.Data); err != nil {
			return model.Tenant{}, fmt.Errorf("failed to unmarshal tenant data: %w", err)
		}
	}

	return t, nil
}

// GetLayout retrieves a layout by its identifier within an environment.
func (r *Repository) GetLayout(ctx context.Context, envID uuid.UUID, identifier string) (model.Layout, error) {
	query := `
		SELECT id, environment_id, identifier, content
		FROM layouts
		WHERE environment_id = $1 AND identifier = $2;
    `

	var l model.Layout
	err := r.db.QueryRowContext(ctx, query, envID, identifier).
		Scan(&l.ID, &l.EnvironmentID, &l.Identifier, &l.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Layout{}, ErrLayoutNotFound
		}

		return model.Layout{}, fmt.Errorf("failed to get layout: %w", err)
	}

	return l, nil
}
