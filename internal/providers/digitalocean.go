package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pickaxeclub/wither/internal/domain"
	"pickaxeclub/wither/internal/services/auth"

	"github.com/digitalocean/godo"
)

const digitalOceanPageSize = 200

// Compile-time check that DigitalOceanProvider satisfies domain.Provider.
var _ domain.Provider = (*DigitalOceanProvider)(nil)

// DigitalOceanProvider implements domain.Provider using the DigitalOcean API.
type DigitalOceanProvider struct {
	client *godo.Client
}

// NewDigitalOceanProvider wraps an existing godo client.
func NewDigitalOceanProvider(client *godo.Client) *DigitalOceanProvider {
	return &DigitalOceanProvider{client: client}
}

// RegisterDigitalOcean registers the DigitalOcean provider factory with the global registry.
func RegisterDigitalOcean() {
	Register("digitalocean", func(store auth.Store) (domain.Provider, error) {
		token, err := store.GetToken("digitalocean")
		if err != nil {
			return nil, fmt.Errorf("digitalocean auth: %w", err)
		}

		return NewDigitalOceanProvider(godo.NewFromToken(token)), nil
	})
}

func (d *DigitalOceanProvider) GetDisplayName() string {
	return "DigitalOcean"
}

// ListDroplets pages through every droplet in the account.
func (d *DigitalOceanProvider) ListDroplets(ctx context.Context) ([]domain.Droplet, error) {
	var droplets []domain.Droplet

	opt := &godo.ListOptions{Page: 1, PerPage: digitalOceanPageSize}
	for {
		page, resp, err := d.client.Droplets.List(ctx, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to list droplets: %w", mapDigitalOceanError(err))
		}

		for i := range page {
			droplets = append(droplets, digitalOceanToDroplet(&page[i]))
		}

		if resp == nil || resp.Links == nil || resp.Links.IsLastPage() {
			break
		}
		current, err := resp.Links.CurrentPage()
		if err != nil {
			return nil, fmt.Errorf("failed to read droplet page: %w", err)
		}
		opt.Page = current + 1
	}

	return droplets, nil
}

// CreateDroplet issues a single create request. The API answers before the
// droplet has an address; PublicIPv4 is usually empty on the result.
func (d *DigitalOceanProvider) CreateDroplet(ctx context.Context, opts domain.CreateDropletOpts) (*domain.Droplet, error) {
	req := &godo.DropletCreateRequest{
		Name:              opts.Name,
		Region:            opts.Region,
		Size:              opts.Size,
		Image:             godo.DropletCreateImage{Slug: opts.Image},
		PrivateNetworking: opts.PrivateNetworking,
		UserData:          opts.UserData,
	}

	created, _, err := d.client.Droplets.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create droplet: %w", mapDigitalOceanError(err))
	}

	droplet := digitalOceanToDroplet(created)
	return &droplet, nil
}

// DeleteDroplet destroys a droplet by its numeric ID.
func (d *DigitalOceanProvider) DeleteDroplet(ctx context.Context, id string) error {
	numericID, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("invalid droplet ID %q: %w", id, err)
	}

	if _, err := d.client.Droplets.Delete(ctx, numericID); err != nil {
		return fmt.Errorf("failed to delete droplet: %w", mapDigitalOceanError(err))
	}

	return nil
}

// mapDigitalOceanError wraps API error responses with the matching domain sentinel.
func mapDigitalOceanError(err error) error {
	var apiErr *godo.ErrorResponse
	if !errors.As(err, &apiErr) || apiErr.Response == nil {
		return err
	}

	switch apiErr.Response.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

// digitalOceanToDroplet converts a godo.Droplet to a domain.Droplet.
func digitalOceanToDroplet(d *godo.Droplet) domain.Droplet {
	droplet := domain.Droplet{
		ID:       strconv.Itoa(d.ID),
		Name:     d.Name,
		Status:   d.Status,
		Size:     d.SizeSlug,
		Provider: "digitalocean",
	}

	if ip, err := d.PublicIPv4(); err == nil {
		droplet.PublicIPv4 = ip
	}

	if d.Region != nil {
		droplet.Region = d.Region.Slug
	}

	if d.Image != nil {
		droplet.Image = d.Image.Slug
	}

	if created, err := time.Parse(time.RFC3339, d.Created); err == nil {
		droplet.CreatedAt = created
	}

	return droplet
}
