// Package auth consumes the authentication collaborator. Session handling
// lives upstream; the dashboard only needs to know whether a signed-in
// identity exists and how to display it.
package auth

import "context"

// Identity is the display identity of a signed-in user.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Provider resolves the current signed-in identity. A nil identity with a
// nil error means signed out; the dashboard treats that as "cannot begin
// any fetch".
type Provider interface {
	Identity(ctx context.Context) (*Identity, error)
}

// StaticProvider serves a fixed identity, used for single-user deployments
// and tests.
type StaticProvider struct {
	identity *Identity
}

// NewStaticProvider creates a provider for the given identity. A nil
// identity models a signed-out user.
func NewStaticProvider(identity *Identity) *StaticProvider {
	return &StaticProvider{identity: identity}
}

// Identity implements Provider.
func (p *StaticProvider) Identity(_ context.Context) (*Identity, error) {
	return p.identity, nil
}
