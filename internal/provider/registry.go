package provider

import (
	"fmt"

	"github.com/notifbox/notifbox/internal/model"
)

// Factory builds a handler from an integration's credentials and the
// resolved from-address.
type Factory func(integ model.Integration, from string) (Handler, error)

// Registry maps provider identifiers to handler factories. The mapping is
// fixed at startup; lookups happen once per dispatch.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in handlers registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register(model.ProviderSMTP, func(integ model.Integration, from string) (Handler, error) {
		return NewSMTPHandler(integ.Credentials, from), nil
	})
	r.Register(model.ProviderSendgrid, func(integ model.Integration, from string) (Handler, error) {
		return NewSendgridHandler(integ.Credentials, from), nil
	})

	return r
}

// Register adds or replaces the factory for a provider identifier.
func (r *Registry) Register(providerID string, f Factory) {
	r.factories[providerID] = f
}

// Handler resolves the send handler for an integration.
func (r *Registry) Handler(integ model.Integration, from string) (Handler, error) {
	f, ok := r.factories[integ.ProviderID]
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", integ.ProviderID, ErrUnknownProvider)
	}

	return f(integ, from)
}
