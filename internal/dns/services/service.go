// Package services provides the DNS service layer.
//
// The Service type wraps a domain.Provider and adds input normalisation,
// validation and default values before delegating to the provider.
package services

import (
	"context"
	"fmt"
	"strings"

	"pickaxeclub/wither/internal/dns/domain"
)

// Service is the DNS business logic layer between the cutover and the
// provider.
type Service struct {
	provider domain.Provider
	ttl      int
}

// Option configures a Service.
type Option func(*Service)

// WithTTL sets the TTL applied to written records.
func WithTTL(ttl int) Option {
	return func(s *Service) { s.ttl = ttl }
}

// New returns a Service backed by the given provider.
func New(provider domain.Provider, opts ...Option) *Service {
	svc := &Service{provider: provider, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// UpsertA points <name>.<zone> at address, updating the existing A record
// when there is one and creating it otherwise. name may be given
// fully-qualified.
func (s *Service) UpsertA(ctx context.Context, zone, name, address string) (*domain.Record, error) {
	zone = normalizeDomain(zone)
	if zone == "" {
		return nil, fmt.Errorf("zone is required")
	}
	if err := validateContent(domain.RecordTypeA, address); err != nil {
		return nil, err
	}

	opts := domain.RecordOpts{
		Name:    normalizeSubdomain(name, zone),
		Type:    domain.RecordTypeA,
		Content: address,
		TTL:     s.ttl,
	}
	fqdn := zone
	if opts.Name != "" {
		fqdn = opts.Name + "." + zone
	}

	records, err := s.provider.ListRecords(ctx, zone)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Type != domain.RecordTypeA || !strings.EqualFold(normalizeDomain(r.Name), fqdn) {
			continue
		}
		if err := s.provider.UpdateRecord(ctx, zone, r.ID, opts); err != nil {
			return nil, err
		}
		r.Content, r.TTL = address, s.ttl
		return &r, nil
	}

	return s.provider.CreateRecord(ctx, zone, opts)
}
