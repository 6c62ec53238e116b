package integration

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

var ErrIntegrationNotFound = errors.New("integration not found")

// Repository provides read access to the integrations table.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new integration repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// FindByScope retrieves every integration configured for an organization,
// environment and channel, active or not. The selector applies tenant
// narrowing and the active filter on top.
func (r *Repository) FindByScope(ctx context.Context, orgID, envID uuid.UUID, channel model.Channel) ([]model.Integration, error) {
	query := `
		SELECT id, organization_id, environment_id, provider_id, channel, credentials, active, tenant_identifier
		FROM integrations
		WHERE organization_id = $1 AND environment_id = $2 AND channel = $3;
    `

	rows, err := r.db.QueryContext(ctx, query, orgID, envID, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to find integrations: %w", err)
	}
	defer rows.Close()

	var integrations []model.Integration
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}

		integrations = append(integrations, i)
	}

	return integrations, rows.Err()
}

// FindByProviderID retrieves the integration for a specific provider within
// an (organization, environment, channel) scope.
func (r *Repository) FindByProviderID(ctx context.Context, orgID, envID uuid.UUID, channel model.Channel, providerID string) (model.Integration, error) {
	query := `
		SELECT id, organization_id, environment_id, provider_id, channel, credentials, active, tenant_identifier
		FROM integrations
		WHERE organization_id = $1 AND environment_id = $2 AND channel = $3 AND provider_id = $4;
    `

	row := r.db.QueryRowContext(ctx, query, orgID, envID, channel, providerID)

	var i model.Integration
	var credentials []byte
	err := row.Scan(&i.ID, &i.OrganizationID, &i.EnvironmentID, &i.ProviderID, &i.Channel, &credentials, &i.Active, &i.TenantIdentifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Integration{}, ErrIntegrationNotFound
		}

		return model.Integration{}, fmt.Errorf("failed to find integration: %w", err)
	}

	if err := json.Unmarshal(credentials, &i.Credentials); err != nil {
		return model.Integration{}, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return i, nil
}

func scanIntegration(rows *sql.Rows) (model.Integration, error) {
	var i model.Integration
	var credentials []byte

	if err := rows.Scan(&i.ID, &i.OrganizationID, &i.EnvironmentID, &i.ProviderID, &i.Channel, &credentials, &i.Active, &i.TenantIdentifier); err != nil {
		return model.Integration{}, err
	}

	if err := json.Unmarshal(credentials, &i.Credentials); err != nil {
		return model.Integration{}, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return i, nil
}
