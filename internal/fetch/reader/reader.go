// Package reader implements the text-extraction fallback tier. A remote
// reader service renders the page on its side and returns plain text, which
// gets past most bot mitigation at the cost of markup fidelity.
package reader

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pagewatch/internal/fetch"
)

// DefaultEndpoint is the public reader frontend used when the configuration
// names none.
const DefaultEndpoint = "https://r.jina.ai"

// Client queries the reader service for pre-extracted page text.
type Client struct {
	endpoint string
	client   fetch.Client
}

// New builds a reader tier on top of the given HTTP client.
func New(endpoint string, client fetch.Client) *Client {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{endpoint: endpoint, client: client}
}

// Extract returns readable text for pageURL. The reader is queried with the
// full URL first and with the scheme stripped second; some deployments only
// accept one of the two forms.
func (c *Client) Extract(ctx context.Context, pageURL string) (string, error) {
	var lastErr error
	for _, candidate := range c.candidates(pageURL) {
		res, err := c.client.Get(ctx, candidate, readerHeaders())
		switch {
		case err != nil:
			lastErr = err
		case res.StatusCode < 200 || res.StatusCode >= 300:
			lastErr = fmt.Errorf("reader status %d for %s", res.StatusCode, candidate)
		case len(res.Body) == 0:
			lastErr = fmt.Errorf("reader returned empty body for %s", candidate)
		default:
			return string(res.Body), nil
		}
	}
	return "", fmt.Errorf("reader fallback failed: %w", lastErr)
}

func (c *Client) candidates(pageURL string) []string {
	urls := []string{c.endpoint + "/" + pageURL}
	if stripped := stripScheme(pageURL); stripped != pageURL {
		urls = append(urls, c.endpoint+"/"+stripped)
	}
	return urls
}

func stripScheme(pageURL string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(pageURL, scheme) {
			return strings.TrimPrefix(pageURL, scheme)
		}
	}
	return pageURL
}

func readerHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/plain")
	return h
}
