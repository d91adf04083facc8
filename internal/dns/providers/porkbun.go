package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pickaxeclub/wither/internal/dns/domain"
	"pickaxeclub/wither/internal/services/auth"
)

const (
	porkbunBaseURL     = "https://api.porkbun.com/api/json/v3"
	porkbunTimeout     = 30 * time.Second
	porkbunAPIKeyStore = "porkbun-apikey"
	porkbunSecretStore = "porkbun-secretapikey"
)

// Compile-time check that PorkbunProvider satisfies domain.Provider.
var _ domain.Provider = (*PorkbunProvider)(nil)

// PorkbunProvider implements domain.Provider using the Porkbun API v3.
type PorkbunProvider struct {
	apiKey    string
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPorkbunProvider creates a PorkbunProvider with the given credentials.
// A nil client uses a plain client with a 30s timeout.
func NewPorkbunProvider(apiKey, secretKey string, client *http.Client) *PorkbunProvider {
	if client == nil {
		client = &http.Client{Timeout: porkbunTimeout}
	}
	return &PorkbunProvider{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   porkbunBaseURL,
		client:    client,
	}
}

// RegisterPorkbun registers the Porkbun provider factory with the DNS registry.
// It reads two separate credentials: porkbun-apikey and porkbun-secretapikey.
func RegisterPorkbun(client *http.Client) {
	Register("porkbun", func(store auth.Store) (domain.Provider, error) {
		apiKey, err := store.GetToken(porkbunAPIKeyStore)
		if err != nil {
			return nil, fmt.Errorf("porkbun auth: api key not found (set PORKBUN_API_KEY or run 'wither auth login porkbun-apikey'): %w", err)
		}
		secretKey, err := store.GetToken(porkbunSecretStore)
		if err != nil {
			return nil, fmt.Errorf("porkbun auth: secret key not found (set PORKBUN_SECRET_API_KEY or run 'wither auth login porkbun-secretapikey'): %w", err)
		}
		return NewPorkbunProvider(apiKey, secretKey, client), nil
	})
}

// GetDisplayName returns the human-readable provider name.
func (p *PorkbunProvider) GetDisplayName() string {
	return "Porkbun"
}

// porkbunAuth is embedded in every request body.
type porkbunAuth struct {
	APIKey    string `json:"apikey"`
	SecretKey string `json:"secretapikey"`
}

// porkbunResponse is the base response shape for all Porkbun API calls.
type porkbunResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (r porkbunResponse) err() error {
	if r.Status != "SUCCESS" {
		return fmt.Errorf("porkbun: %s", r.Message)
	}
	return nil
}

type porkbunRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     string `json:"ttl"`
}

type porkbunWriteRequest struct {
	porkbunAuth
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     string `json:"ttl,omitempty"`
}

// post sends body to path and decodes the response into out.
func (p *PorkbunProvider) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("porkbun: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("porkbun: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("porkbun: request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("porkbun: failed to decode response: %w", err)
	}
	return nil
}

func (p *PorkbunProvider) authBody() porkbunAuth {
	return porkbunAuth{APIKey: p.apiKey, SecretKey: p.secretKey}
}

func (p *PorkbunProvider) writeBody(opts domain.RecordOpts) porkbunWriteRequest {
	body := porkbunWriteRequest{
		porkbunAuth: p.authBody(),
		Name:        opts.Name,
		Type:        string(opts.Type),
		Content:     opts.Content,
	}
	if opts.TTL > 0 {
		body.TTL = strconv.Itoa(opts.TTL)
	}
	return body
}

// mapAPIError converts Porkbun error messages to domain sentinels where recognisable.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication"):
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, err.Error())
	case strings.Contains(msg, "not found") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "invalid domain"):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, err.Error())
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, err.Error())
	case strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "conflict"):
		return fmt.Errorf("%w: %s", domain.ErrConflict, err.Error())
	}
	return err
}

// ListRecords returns all DNS records in zone.
func (p *PorkbunProvider) ListRecords(ctx context.Context, zone string) ([]domain.Record, error) {
	var out struct {
		porkbunResponse
		Records []porkbunRecord `json:"records"`
	}
	if err := p.post(ctx, "/dns/retrieve/"+zone, p.authBody(), &out); err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", zone, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", zone, err)
	}

	records := make([]domain.Record, 0, len(out.Records))
	for _, r := range out.Records {
		records = append(records, porkbunToRecord(zone, r))
	}
	return records, nil
}

// CreateRecord creates a DNS record. Porkbun only returns the new ID, so the
// record is built from opts.
func (p *PorkbunProvider) CreateRecord(ctx context.Context, zone string, opts domain.RecordOpts) (*domain.Record, error) {
	var out struct {
		porkbunResponse
		ID json.Number `json:"id"`
	}
	if err := p.post(ctx, "/dns/create/"+zone, p.writeBody(opts), &out); err != nil {
		return nil, fmt.Errorf("failed to create record for %q: %w", zone, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return nil, fmt.Errorf("failed to create record for %q: %w", zone, err)
	}

	name := zone
	if opts.Name != "" {
		name = opts.Name + "." + zone
	}
	return &domain.Record{
		ID:      out.ID.String(),
		Zone:    zone,
		Name:    name,
		Type:    opts.Type,
		Content: opts.Content,
		TTL:     opts.TTL,
	}, nil
}

// UpdateRecord replaces the record with the given ID.
func (p *PorkbunProvider) UpdateRecord(ctx context.Context, zone, id string, opts domain.RecordOpts) error {
	var out porkbunResponse
	if err := p.post(ctx, "/dns/edit/"+zone+"/"+id, p.writeBody(opts), &out); err != nil {
		return fmt.Errorf("failed to update record %q for %q: %w", id, zone, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return fmt.Errorf("failed to update record %q for %q: %w", id, zone, err)
	}
	return nil
}

func porkbunToRecord(zone string, r porkbunRecord) domain.Record {
	ttl, _ := strconv.Atoi(r.TTL)
	return domain.Record{
		ID:      r.ID,
		Zone:    zone,
		Name:    r.Name,
		Type:    domain.RecordType(r.Type),
		Content: r.Content,
		TTL:     ttl,
	}
}
