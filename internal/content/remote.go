// ABOUTME: HTTP content repository for a published data directory.
// ABOUTME: Fetches the content JSON files relative to a base URL.
package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// RemoteRepository fetches content files over HTTP.
type RemoteRepository struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewRemoteRepository creates a repository for files under baseURL. Requests
// carry no client timeout; the caller's context bounds them.
func NewRemoteRepository(baseURL string, logger *slog.Logger) *RemoteRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger,
	}
}

// Load fetches every content file.
func (r *RemoteRepository) Load(ctx context.Context) (*Bundle, error) {
	return loadBundle(ctx, r.fetch, r.logger)
}

func (r *RemoteRepository) fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content source returned %d for %s: %s", resp.StatusCode, name, string(body))
	}
	return body, nil
}
