package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pickaxeclub/wither/internal/dns/domain"
	"pickaxeclub/wither/internal/services/auth"
)

const (
	cloudflareBaseURL    = "https://api.cloudflare.com/client/v4"
	cloudflareTimeout    = 30 * time.Second
	cloudflareTokenStore = "cloudflare"
)

// Compile-time check that CloudflareProvider satisfies domain.Provider.
var _ domain.Provider = (*CloudflareProvider)(nil)

// CloudflareProvider implements domain.Provider using the Cloudflare API v4.
// It authenticates with a scoped API token that needs Zone:Read and DNS:Edit.
type CloudflareProvider struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewCloudflareProvider creates a CloudflareProvider with the given API token.
// A nil client uses a plain client with a 30s timeout.
func NewCloudflareProvider(token string, client *http.Client) *CloudflareProvider {
	if client == nil {
		client = &http.Client{Timeout: cloudflareTimeout}
	}
	return &CloudflareProvider{
		token:   token,
		baseURL: cloudflareBaseURL,
		client:  client,
	}
}

// RegisterCloudflare registers the Cloudflare provider factory with the DNS registry.
func RegisterCloudflare(client *http.Client) {
	Register("cloudflare", func(store auth.Store) (domain.Provider, error) {
		token, err := store.GetToken(cloudflareTokenStore)
		if err != nil {
			return nil, fmt.Errorf("cloudflare auth: token not found (set CLOUDFLARE_API_TOKEN or run 'wither auth login cloudflare'): %w", err)
		}
		return NewCloudflareProvider(token, client), nil
	})
}

// GetDisplayName returns the human-readable provider name.
func (c *CloudflareProvider) GetDisplayName() string {
	return "Cloudflare"
}

// cfEnvelope is the standard Cloudflare API response wrapper.
type cfEnvelope[T any] struct {
	Success    bool         `json:"success"`
	Errors     []cfError    `json:"errors"`
	Result     T            `json:"result"`
	ResultInfo cfResultInfo `json:"result_info"`
}

type cfError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cfResultInfo struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

type cfZone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type cfDNSRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
}

type cfRecordBody struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl,omitempty"`
}

// envelopeError maps an unsuccessful response to a domain sentinel, by HTTP
// status first and then by Cloudflare error code.
func envelopeError(success bool, errors []cfError, httpStatus int) error {
	if success {
		return nil
	}

	switch httpStatus {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, cfErrorString(errors))
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, cfErrorString(errors))
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, cfErrorString(errors))
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, cfErrorString(errors))
	}

	for _, e := range errors {
		msg := strings.ToLower(e.Message)
		switch {
		case e.Code == 9109 || e.Code == 10000 || strings.Contains(msg, "authentication"):
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, e.Message)
		case e.Code == 81044 || strings.Contains(msg, "not found"):
			return fmt.Errorf("%w: %s", domain.ErrNotFound, e.Message)
		case e.Code == 81057 || strings.Contains(msg, "already exists"):
			return fmt.Errorf("%w: %s", domain.ErrConflict, e.Message)
		}
	}

	return fmt.Errorf("cloudflare: %s", cfErrorString(errors))
}

func cfErrorString(errors []cfError) string {
	if len(errors) == 0 {
		return "unknown error"
	}
	msgs := make([]string, 0, len(errors))
	for _, e := range errors {
		msgs = append(msgs, fmt.Sprintf("[%d] %s", e.Code, e.Message))
	}
	return strings.Join(msgs, "; ")
}

// do sends a JSON request and decodes the envelope into out. The returned
// error already carries the mapped API failure.
func do[T any](ctx context.Context, c *CloudflareProvider, method, path string, body any, out *cfEnvelope[T]) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cloudflare: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("cloudflare: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudflare: request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cloudflare: failed to decode response: %w", err)
	}
	return envelopeError(out.Success, out.Errors, resp.StatusCode)
}

// zoneID resolves a zone name to its Cloudflare zone ID.
func (c *CloudflareProvider) zoneID(ctx context.Context, zone string) (string, error) {
	var out cfEnvelope[[]cfZone]
	if err := do(ctx, c, http.MethodGet, "/zones?name="+url.QueryEscape(zone)+"&per_page=1", nil, &out); err != nil {
		return "", fmt.Errorf("failed to look up zone %q: %w", zone, err)
	}
	if len(out.Result) == 0 {
		return "", fmt.Errorf("zone %q: %w", zone, domain.ErrNotFound)
	}
	return out.Result[0].ID, nil
}

// ListRecords returns all DNS records in zone.
func (c *CloudflareProvider) ListRecords(ctx context.Context, zone string) ([]domain.Record, error) {
	id, err := c.zoneID(ctx, zone)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for page := 1; ; page++ {
		var out cfEnvelope[[]cfDNSRecord]
		path := fmt.Sprintf("/zones/%s/dns_records?page=%d&per_page=100", id, page)
		if err := do(ctx, c, http.MethodGet, path, nil, &out); err != nil {
			return nil, fmt.Errorf("failed to list records for %q: %w", zone, err)
		}
		for _, r := range out.Result {
			records = append(records, cfToRecord(zone, r))
		}
		if page >= out.ResultInfo.TotalPages {
			break
		}
	}
	return records, nil
}

// CreateRecord creates a DNS record and returns it.
func (c *CloudflareProvider) CreateRecord(ctx context.Context, zone string, opts domain.RecordOpts) (*domain.Record, error) {
	id, err := c.zoneID(ctx, zone)
	if err != nil {
		return nil, err
	}

	var out cfEnvelope[cfDNSRecord]
	if err := do(ctx, c, http.MethodPost, "/zones/"+id+"/dns_records", cfBody(zone, opts), &out); err != nil {
		return nil, fmt.Errorf("failed to create record for %q: %w", zone, err)
	}
	rec := cfToRecord(zone, out.Result)
	return &rec, nil
}

// UpdateRecord replaces the record with the given ID.
func (c *CloudflareProvider) UpdateRecord(ctx context.Context, zone, recordID string, opts domain.RecordOpts) error {
	id, err := c.zoneID(ctx, zone)
	if err != nil {
		return err
	}

	var out cfEnvelope[cfDNSRecord]
	if err := do(ctx, c, http.MethodPatch, "/zones/"+id+"/dns_records/"+recordID, cfBody(zone, opts), &out); err != nil {
		return fmt.Errorf("failed to update record %q for %q: %w", recordID, zone, err)
	}
	return nil
}

// cfBody builds a write body; Cloudflare expects fully-qualified names.
func cfBody(zone string, opts domain.RecordOpts) cfRecordBody {
	name := zone
	if opts.Name != "" {
		name = opts.Name + "." + zone
	}
	return cfRecordBody{
		Type:    string(opts.Type),
		Name:    name,
		Content: opts.Content,
		TTL:     opts.TTL,
	}
}

func cfToRecord(zone string, r cfDNSRecord) domain.Record {
	return domain.Record{
		ID:      r.ID,
		Zone:    zone,
		Name:    r.Name,
		Type:    domain.RecordType(r.Type),
		Content: r.Content,
		TTL:     r.TTL,
	}
}
