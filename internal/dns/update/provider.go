package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/dns/services"
)

// ProviderUpdater upserts the A record through a DNS provider API.
type ProviderUpdater struct {
	svc    *services.Service
	zone   string
	logger zerolog.Logger
}

// NewProviderUpdater returns an updater writing records in zone. Names are
// compared case-insensitively.
func NewProviderUpdater(svc *services.Service, zone string, logger zerolog.Logger) *ProviderUpdater {
	zone = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(zone), "."))
	return &ProviderUpdater{svc: svc, zone: zone, logger: logger}
}

func (p *ProviderUpdater) Update(ctx context.Context, fqdn, address string) error {
	name := strings.ToLower(strings.TrimSuffix(fqdn, "."))
	if name != p.zone && !strings.HasSuffix(name, "."+p.zone) {
		return fmt.Errorf("dns: %s is outside zone %s", fqdn, p.zone)
	}
	rec, err := p.svc.UpsertA(ctx, p.zone, fqdn, address)
	if err != nil {
		return fmt.Errorf("dns: upsert %s: %w", fqdn, err)
	}
	p.logger.Info().Str("record", rec.ID).Str("name", fqdn).Str("address", address).Msg("dns record upserted")
	return nil
}
