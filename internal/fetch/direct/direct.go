// Package direct implements the plain HTTP retrieval tier on top of colly.
package direct

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"pagewatch/internal/fetch"
)

const defaultTimeout = 60 * time.Second

// Config controls the colly-backed client.
type Config struct {
	Timeout time.Duration
}

// Client fetches pages through a colly collector. The base collector is
// built once; every Get runs on a clone so callbacks and state never leak
// between requests.
type Client struct {
	base *colly.Collector
}

// New builds the plain HTTP tier.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := colly.NewCollector(
		colly.Async(false),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)
	base.SetRequestTimeout(timeout)
	base.WithTransport(newHTTPTransport())

	return &Client{base: base}
}

// Get retrieves url with the supplied headers. Any HTTP response, non-2xx
// included, yields a fetch.Response and a nil error; an error means the
// transport failed before a response arrived.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) (*fetch.Response, error) {
	collector := c.base.Clone()

	var (
		result   *fetch.Response
		fetchErr error
	)

	collector.OnRequest(func(r *colly.Request) {
		for key, values := range headers {
			if len(values) == 0 {
				continue
			}
			r.Headers.Set(key, values[0])
			for _, value := range values[1:] {
				r.Headers.Add(key, value)
			}
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		body := make([]byte, len(r.Body))
		copy(body, r.Body)
		result = &fetch.Response{
			StatusCode: r.StatusCode,
			Body:       body,
			FinalURL:   r.Request.URL.String(),
		}
	})

	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := visit(ctx, collector, url); err != nil {
		if fetchErr != nil {
			return nil, fmt.Errorf("get %s: %w", url, fetchErr)
		}
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if result == nil {
		return nil, fmt.Errorf("get %s: no response received", url)
	}
	return result, nil
}

// visit runs the collector in a goroutine so the caller's context can cut
// the wait short. The request itself is bounded by the collector timeout.
func visit(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}
