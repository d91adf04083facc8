package domain

import "context"

// Provider is the interface cloud providers implement for the droplet
// lifecycle. Implementations must not retry failed calls.
type Provider interface {
	// GetDisplayName returns the human-readable provider name (e.g. "DigitalOcean").
	GetDisplayName() string

	// ListDroplets returns every droplet in the account.
	ListDroplets(ctx context.Context) ([]Droplet, error)

	// CreateDroplet creates a droplet and returns it as first reported.
	CreateDroplet(ctx context.Context, opts CreateDropletOpts) (*Droplet, error)

	// DeleteDroplet destroys the droplet with the given provider ID.
	DeleteDroplet(ctx context.Context, id string) error
}
