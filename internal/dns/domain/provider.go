package domain

import "context"

// Provider is the interface that DNS providers must implement for the
// address cutover: list a zone's records, then create or update one.
type Provider interface {
	// GetDisplayName returns the human-readable provider name (e.g. "Porkbun").
	GetDisplayName() string

	// ListRecords returns all DNS records in zone.
	ListRecords(ctx context.Context, zone string) ([]Record, error)

	// CreateRecord creates a new DNS record and returns it.
	CreateRecord(ctx context.Context, zone string, opts RecordOpts) (*Record, error)

	// UpdateRecord replaces the record with the given ID.
	UpdateRecord(ctx context.Context, zone, id string, opts RecordOpts) error
}
