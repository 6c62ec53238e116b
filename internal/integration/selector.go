package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notifbox/notifbox/internal/model"
	integrationrepo "github.com/notifbox/notifbox/internal/repository/integration"
)

var (
	// ErrNoActiveIntegration means zero active integrations remained after
	// tenant narrowing for the requested scope.
	ErrNoActiveIntegration = errors.New("no active integration")
	// ErrIntegrationNotFound means an explicitly requested provider has no
	// integration in the requested scope.
	ErrIntegrationNotFound = errors.New("integration not found")
)

type integrationRepository interface {
	FindByScope(ctx context.Context, orgID, envID uuid.UUID, channel model.Channel) ([]model.Integration, error)
	FindByProviderID(ctx context.Context, orgID, envID uuid.UUID, channel model.Channel, providerID string) (model.Integration, error)
}

// Selector resolves exactly one provider configuration for a delivery scope.
// Selection errors are terminal for the current attempt; nothing here
// retries.
type Selector struct {
	repo integrationRepository
}

func NewSelector(repo integrationRepository) *Selector {
	return &Selector{repo: repo}
}

// Select resolves the integration for (org, env, channel). When providerID
// is set the lookup is exact and its absence is an error carrying the
// identifier. Otherwise tenant routing narrows the candidates before the
// active filter, and exactly one active candidate must remain reachable
// (the first one wins when several are active).
func (s *Selector) Select(ctx context.Context, orgID, envID uuid.UUID, channel model.Channel, tenantIdentifier, providerID string) (model.Integration, error) {
	if providerID != "" {
		integ, err := s.repo.FindByProviderID(ctx, orgID, envID, channel, providerID)
		if err != nil {
			if errors.Is(err, integrationrepo.ErrIntegrationNotFound) {
				return model.Integration{}, fmt.Errorf("provider %q: %w", providerID, ErrIntegrationNotFound)
			}

			return model.Integration{}, fmt.Errorf("failed to select integration: %w", err)
		}

		return integ, nil
	}

	candidates, err := s.repo.FindByScope(ctx, orgID, envID, channel)
	if err != nil {
		return model.Integration{}, fmt.Errorf("failed to select integration: %w", err)
	}

	candidates = narrowByTenant(candidates, tenantIdentifier)

	for _, c := range candidates {
		if c.Active {
			return c, nil
		}
	}

	return model.Integration{}, ErrNoActiveIntegration
}

// narrowByTenant keeps only tenant-scoped candidates when routing rules for
// the tenant exist; otherwise the full set passes through untouched.
func narrowByTenant(candidates []model.Integration, tenantIdentifier string) []model.Integration {
	if tenantIdentifier == "" {
		return candidates
	}

	var scoped []model.Integration
	for _, c := range candidates {
		if c.TenantIdentifier == tenantIdentifier {
			scoped = append(scoped, c)
		}
	}

	if len(scoped) == 0 {
		return candidates
	}

	return scoped
}
