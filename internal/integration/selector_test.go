package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifbox/notifbox/internal/model"
	integrationrepo "github.com/notifbox/notifbox/internal/repository/integration"
)

type fakeRepo struct {
	byScope    []model.Integration
	byProvider model.Integration
	scopeErr   error
	lookupErr  error
}

func (f *fakeRepo) FindByScope(_ context.Context, _, _ uuid.UUID, _ model.Channel) ([]model.Integration, error) {
	return f.byScope, f.scopeErr
}

func (f *fakeRepo) FindByProviderID(_ context.Context, _, _ uuid.UUID, _ model.Channel, _ string) (model.Integration, error) {
	return f.byProvider, f.lookupErr
}

func TestSelector_Select_SingleActive(t *testing.T) {
	active := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSMTP, Active: true}
	inactive := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSendgrid}

	s := NewSelector(&fakeRepo{byScope: []model.Integration{inactive, active}})

	got, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "", "")
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestSelector_Select_NoActiveIntegration(t *testing.T) {
	inactive := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSMTP}

	s := NewSelector(&fakeRepo{byScope: []model.Integration{inactive}})

	_, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "", "")
	assert.ErrorIs(t, err, ErrNoActiveIntegration)
}

func TestSelector_Select_EmptyScope(t *testing.T) {
	s := NewSelector(&fakeRepo{})

	_, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "", "")
	assert.ErrorIs(t, err, ErrNoActiveIntegration)
}

func TestSelector_Select_TenantNarrowing(t *testing.T) {
	general := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSMTP, Active: true}
	scoped := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSendgrid, Active: true, TenantIdentifier: "acme"}

	s := NewSelector(&fakeRepo{byScope: []model.Integration{general, scoped}})

	got, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "acme", "")
	require.NoError(t, err)
	assert.Equal(t, scoped.ID, got.ID)
}

func TestSelector_Select_TenantWithoutRoutingRulesFallsThrough(t *testing.T) {
	general := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSMTP, Active: true}

	s := NewSelector(&fakeRepo{byScope: []model.Integration{general}})

	got, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "acme", "")
	require.NoError(t, err)
	assert.Equal(t, general.ID, got.ID)
}

func TestSelector_Select_TenantScopedInactive(t *testing.T) {
	general := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSMTP, Active: true}
	scoped := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSendgrid, TenantIdentifier: "acme"}

	s := NewSelector(&fakeRepo{byScope: []model.Integration{general, scoped}})

	// routing rules narrow the set before the active filter applies
	_, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "acme", "")
	assert.ErrorIs(t, err, ErrNoActiveIntegration)
}

func TestSelector_Select_ExplicitProvider(t *testing.T) {
	explicit := model.Integration{ID: uuid.New(), ProviderID: model.ProviderSendgrid, Active: true}

	s := NewSelector(&fakeRepo{byProvider: explicit})

	got, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "", model.ProviderSendgrid)
	require.NoError(t, err)
	assert.Equal(t, explicit.ID, got.ID)
}

func TestSelector_Select_ExplicitProviderNotFound(t *testing.T) {
	s := NewSelector(&fakeRepo{lookupErr: integrationrepo.ErrIntegrationNotFound})

	_, err := s.Select(context.Background(), uuid.New(), uuid.New(), model.ChannelEmail, "", "mailjet")
	assert.ErrorIs(t, err, ErrIntegrationNotFound)
	assert.Contains(t, err.Error(), "mailjet")
}
