package configvars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"pickaxeclub/wither/internal/domain"
)

const (
	herokuBaseURL = "https://api.heroku.com"
	herokuAccept  = "application/vnd.heroku+json; version=3"
)

// HerokuStore reads and writes config vars through the Heroku Platform API.
// Every Set restarts the app's dynos.
type HerokuStore struct {
	app     string
	token   string
	baseURL string
	http    *retryablehttp.Client
}

// HerokuOption configures a HerokuStore.
type HerokuOption func(*HerokuStore)

// WithBaseURL points the store at a different API endpoint.
func WithBaseURL(u string) HerokuOption {
	return func(s *HerokuStore) { s.baseURL = u }
}

// NewHerokuStore returns a store for app authenticated with token.
func NewHerokuStore(client *retryablehttp.Client, app, token string, opts ...HerokuOption) *HerokuStore {
	s := &HerokuStore{app: app, token: token, baseURL: herokuBaseURL, http: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HerokuStore) Get(ctx context.Context, key string) (string, error) {
	vars, err := s.All(ctx)
	if err != nil {
		return "", err
	}
	v, ok := vars[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return v, nil
}

func (s *HerokuStore) Set(ctx context.Context, key, value string) error {
	resp, err := s.do(ctx, http.MethodPatch, map[string]string{key: value})
	if err != nil {
		return fmt.Errorf("heroku: failed to set %s: %w", key, err)
	}
	resp.Body.Close()
	return nil
}

func (s *HerokuStore) All(ctx context.Context) (map[string]string, error) {
	resp, err := s.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, fmt.Errorf("heroku: failed to read config vars: %w", err)
	}
	defer resp.Body.Close()

	vars := map[string]string{}
	if err := json.NewDecoder(resp.Body).Decode(&vars); err != nil {
		return nil, fmt.Errorf("heroku: failed to decode config vars: %w", err)
	}
	return vars, nil
}

func (s *HerokuStore) do(ctx context.Context, method string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	endpoint := s.baseURL + "/apps/" + url.PathEscape(s.app) + "/config-vars"
	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", herokuAccept)
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, mapHerokuStatus(resp.StatusCode, msg)
	}
	return resp, nil
}

func mapHerokuStatus(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
	default:
		return fmt.Errorf("unexpected status %d: %s", code, body)
	}
}
