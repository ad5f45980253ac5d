package fetch

import (
	"context"
	"net/http"
)

// Response is the raw outcome of one retrieval attempt.
type Response struct {
	StatusCode int
	Body       []byte
	FinalURL   string
}

// Client retrieves a single URL. Implementations return a non-nil Response
// whenever an HTTP response arrived, including non-2xx statuses; an error
// means the transport itself failed.
type Client interface {
	Get(ctx context.Context, url string, headers http.Header) (*Response, error)
}

// BrowserHeaders returns the fixed browser-like header set sent with every
// attempt. Monitored sites throttle obvious bots, so the set mimics a desktop
// Chrome visit arriving from a search result.
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "ru,en;q=0.9")
	h.Set("Referer", "https://www.google.com/")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	return h
}
