package droplet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// HTTPArchive checks for restore archives with a HEAD request against
// <baseURL>/week<id>.tar.gz.
type HTTPArchive struct {
	client  *retryablehttp.Client
	baseURL string
	logger  zerolog.Logger
}

// NewHTTPArchive returns an archive checker rooted at baseURL.
func NewHTTPArchive(client *retryablehttp.Client, baseURL string, logger zerolog.Logger) *HTTPArchive {
	return &HTTPArchive{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Exists reports whether the archive for week answers 200. Any other status
// is a missing archive; only transport failures return an error.
func (a *HTTPArchive) Exists(ctx context.Context, week string) (bool, error) {
	url := a.baseURL + "/" + ArchiveName(week)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("archive: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("archive: HEAD %s: %w", url, err)
	}
	resp.Body.Close()

	a.logger.Info().Str("url", url).Int("status", resp.StatusCode).Msg("restore archive HEAD")
	return resp.StatusCode == http.StatusOK, nil
}

// HTTPUserData downloads the cloud-init script passed to new droplets.
type HTTPUserData struct {
	client *retryablehttp.Client
	url    string
}

// NewHTTPUserData returns a user-data source reading url.
func NewHTTPUserData(client *retryablehttp.Client, url string) *HTTPUserData {
	return &HTTPUserData{client: client, url: url}
}

// Fetch returns the body at the configured URL.
func (u *HTTPUserData) Fetch(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		return "", fmt.Errorf("user-data: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("user-data: GET %s: %w", u.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user-data: GET %s: unexpected status %d", u.url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("user-data: read body: %w", err)
	}
	return string(data), nil
}
