package providers

import (
	"context"
	"fmt"
	"strconv"

	"pickaxeclub/wither/internal/domain"
	"pickaxeclub/wither/internal/services/auth"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Compile-time check that HetznerProvider satisfies domain.Provider.
var _ domain.Provider = (*HetznerProvider)(nil)

// HetznerProvider implements domain.Provider using the Hetzner Cloud API.
// Hetzner has no per-server private networking switch, so
// CreateDropletOpts.PrivateNetworking is ignored.
type HetznerProvider struct {
	client *hcloud.Client
}

// NewHetznerProvider creates a HetznerProvider with the given hcloud client options.
// Default options (application name) are applied first; callers can override them.
func NewHetznerProvider(opts ...hcloud.ClientOption) *HetznerProvider {
	defaults := []hcloud.ClientOption{
		hcloud.WithApplication("wither", "1.0.0"),
	}
	allOpts := append(defaults, opts...)
	return &HetznerProvider{
		client: hcloud.NewClient(allOpts...),
	}
}

// RegisterHetzner registers the Hetzner provider factory with the global registry.
func RegisterHetzner() {
	Register("hetzner", func(store auth.Store) (domain.Provider, error) {
		token, err := store.GetToken("hetzner")
		if err != nil {
			return nil, fmt.Errorf("hetzner auth: %w", err)
		}

		return NewHetznerProvider(hcloud.WithToken(token)), nil
	})
}

func (h *HetznerProvider) GetDisplayName() string {
	return "Hetzner"
}

// ListDroplets retrieves all servers from the Hetzner Cloud API.
func (h *HetznerProvider) ListDroplets(ctx context.Context) ([]domain.Droplet, error) {
	hzServers, err := h.client.Server.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", mapHetznerError(err))
	}

	droplets := make([]domain.Droplet, 0, len(hzServers))
	for _, s := range hzServers {
		droplets = append(droplets, hetznerToDroplet(s))
	}

	return droplets, nil
}

// CreateDroplet creates a server. Region maps to a Hetzner location and Size
// to a server type.
func (h *HetznerProvider) CreateDroplet(ctx context.Context, opts domain.CreateDropletOpts) (*domain.Droplet, error) {
	hcloudOpts := hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: &hcloud.ServerType{Name: opts.Size},
		Image:      &hcloud.Image{Name: opts.Image},
		UserData:   opts.UserData,
	}
	if opts.Region != "" {
		hcloudOpts.Location = &hcloud.Location{Name: opts.Region}
	}

	result, _, err := h.client.Server.Create(ctx, hcloudOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", mapHetznerError(err))
	}

	droplet := hetznerToDroplet(result.Server)
	return &droplet, nil
}

// DeleteDroplet removes a server by its ID. The ID must be a numeric string
// matching the Hetzner server ID.
func (h *HetznerProvider) DeleteDroplet(ctx context.Context, id string) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid server ID %q: %w", id, err)
	}

	_, _, err = h.client.Server.DeleteWithResult(ctx, &hcloud.Server{ID: numericID})
	if err != nil {
		return fmt.Errorf("failed to delete server: %w", mapHetznerError(err))
	}

	return nil
}

// mapHetznerError wraps hcloud API errors with the matching domain sentinel.
func mapHetznerError(err error) error {
	switch {
	case hcloud.IsError(err, hcloud.ErrorCodeNotFound):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case hcloud.IsError(err, hcloud.ErrorCodeUnauthorized):
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	case hcloud.IsError(err, hcloud.ErrorCodeRateLimitExceeded):
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	case hcloud.IsError(err, hcloud.ErrorCodeConflict), hcloud.IsError(err, hcloud.ErrorCodeUniquenessError):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

// hetznerToDroplet converts an hcloud.Server to a domain.Droplet.
func hetznerToDroplet(s *hcloud.Server) domain.Droplet {
	droplet := domain.Droplet{
		ID:        strconv.FormatInt(s.ID, 10),
		Name:      s.Name,
		Status:    string(s.Status),
		CreatedAt: s.Created,
		Provider:  "hetzner",
	}

	if !s.PublicNet.IPv4.IsUnspecified() {
		droplet.PublicIPv4 = s.PublicNet.IPv4.IP.String()
	}

	if s.ServerType != nil {
		droplet.Size = s.ServerType.Name
	}

	if s.Image != nil {
		droplet.Image = s.Image.Name
	}

	if s.Location != nil {
		droplet.Region = s.Location.Name
	}

	return droplet
}
