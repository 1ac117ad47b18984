// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the Google My Maps viewer page. The fetch is the
// only network boundary of the sync stage: it returns the full document or
// fails outright, and retry policy lives here rather than in the extraction
// core.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/guide-engine/internal/httputil"
	"github.com/pdiddy/guide-engine/pkg/types"
)

// DefaultUserAgent is sent when the config does not override it. My Maps
// returns a reduced page without the _pageData blob to clients it does not
// recognize as browsers.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Document fetches url and returns the response body as a string.
// Transport failures and non-200 responses are errors; nothing is retried
// beyond the rate-limit backoff in httputil.
func Document(ctx context.Context, client *http.Client, url string, cfg types.SyncConfig) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}
