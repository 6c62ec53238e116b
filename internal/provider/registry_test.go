package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifbox/notifbox/internal/model"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	smtpHandler, err := r.Handler(model.Integration{
		ProviderID:  model.ProviderSMTP,
		Credentials: model.Credentials{Host: "smtp.example.com", Port: 587},
	}, "noreply@example.com")
	require.NoError(t, err)
	assert.IsType(t, &SMTPHandler{}, smtpHandler)

	sgHandler, err := r.Handler(model.Integration{
		ProviderID:  model.ProviderSendgrid,
		Credentials: model.Credentials{APIKey: "sg-key"},
	}, "noreply@example.com")
	require.NoError(t, err)
	assert.IsType(t, &SendgridHandler{}, sgHandler)
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry()

	_, err := r.Handler(model.Integration{ProviderID: "mailjet"}, "noreply@example.com")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), "mailjet")
}

type stubHandler struct{}

func (stubHandler) Send(context.Context, Email) (Result, error) {
	return Result{ProviderMessageID: "stub-1"}, nil
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := NewRegistry()
	r.Register(model.ProviderSMTP, func(model.Integration, string) (Handler, error) {
		return stubHandler{}, nil
	})

	h, err := r.Handler(model.Integration{ProviderID: model.ProviderSMTP}, "noreply@example.com")
	require.NoError(t, err)

	res, err := h.Send(context.Background(), Email{})
	require.NoError(t, err)
	assert.Equal(t, "stub-1", res.ProviderMessageID)
}
