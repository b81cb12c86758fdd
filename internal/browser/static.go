package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/event-csv/internal/dom"
)

// Static fetches pages over plain HTTP without running scripts
type Static struct {
	client    *http.Client
	userAgent string
}

// NewStatic creates a Static renderer
func NewStatic(userAgent string) *Static {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Static{
		client:    &http.Client{},
		userAgent: userAgent,
	}
}

// Render fetches url and checks that ready is present in the returned markup
func (s *Static) Render(ctx context.Context, url, ready string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", notReady(ctx, ready, timeout, fmt.Errorf("fetching page: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", notReady(ctx, ready, timeout, fmt.Errorf("reading response body: %w", err))
	}
	markup := string(body)

	doc, err := dom.ParseString(markup)
	if err != nil {
		return "", err
	}
	if ready != "" && !doc.Find(ready).Exists() {
		return "", fmt.Errorf("%w: %q not present in %s", ErrNotReady, ready, url)
	}

	return markup, nil
}
