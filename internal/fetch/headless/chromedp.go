// Package headless implements the browser retrieval tier for hosts that gate
// plain HTTP clients behind JavaScript challenges.
package headless

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"pagewatch/internal/fetch"
)

const defaultNavigationTimeout = 45 * time.Second

// Config controls the chromedp-backed client.
type Config struct {
	NavigationTimeout time.Duration
}

// Client renders pages in headless Chrome. The exec allocator is shared
// across requests; each Get runs in a fresh browser context.
type Client struct {
	cfg         Config
	allocator   context.Context
	allocCancel context.CancelFunc
}

// New prepares the browser allocator. Chrome itself starts lazily on the
// first Get.
func New(cfg Config) *Client {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}
}

// Close shuts the browser down.
func (c *Client) Close() {
	c.allocCancel()
}

// Get navigates to url and returns the rendered DOM. The status code comes
// from the document's network response; navigations that emit none (cache
// hits, about: pages) count as 200.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) (*fetch.Response, error) {
	taskCtx, taskCancel := chromedp.NewContext(c.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, c.cfg.NavigationTimeout)
	defer cancel()

	// The task context derives from the allocator, not the caller, so
	// caller cancellation is propagated by hand.
	unlink := linkContext(ctx, taskCancel)
	defer unlink()

	meta := &responseMeta{}
	chromedp.ListenTarget(taskCtx, meta.captureEvent)

	html, currentURL, err := c.render(taskCtx, url, headers)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("render %s: %w", url, ctx.Err())
		}
		return nil, err
	}

	status, finalURL := meta.snapshot(url, currentURL)
	return &fetch.Response{
		StatusCode: status,
		Body:       []byte(html),
		FinalURL:   finalURL,
	}, nil
}

func (c *Client) render(ctx context.Context, url string, headers http.Header) (string, string, error) {
	var (
		html       string
		currentURL string
	)
	actions := []chromedp.Action{
		c.networkSetupAction(headers),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.Location(&currentURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, actions...); err != nil {
		return "", "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, currentURL, nil
}

func (c *Client) networkSetupAction(headers http.Header) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if ua := headers.Get("User-Agent"); ua != "" {
			if err := emulation.SetUserAgentOverride(ua).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		if len(headers) > 0 {
			if err := network.SetExtraHTTPHeaders(toNetworkHeaders(headers)).Do(ctx); err != nil {
				return fmt.Errorf("set extra headers: %w", err)
			}
		}
		return nil
	})
}

// linkContext cancels the task when the caller's context ends. The returned
// stop function must be called once the task finishes; it blocks until the
// watcher goroutine exits.
func linkContext(ctx context.Context, cancel context.CancelFunc) func() {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

// responseMeta records the main document's network response while chromedp
// events stream in on a separate goroutine.
type responseMeta struct {
	mu     sync.Mutex
	status int
	url    string
}

func (m *responseMeta) captureEvent(ev any) {
	event, ok := ev.(*network.EventResponseReceived)
	if !ok || event.Type != network.ResourceTypeDocument || event.Response == nil {
		return
	}
	m.mu.Lock()
	m.status = int(event.Response.Status)
	m.url = event.Response.URL
	m.mu.Unlock()
}

func (m *responseMeta) snapshot(requestURL, locationURL string) (int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	url := m.url
	if url == "" {
		url = locationURL
	}
	if url == "" {
		url = requestURL
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return status, url
}

func toNetworkHeaders(h http.Header) network.Headers {
	headers := network.Headers{}
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		if len(values) == 1 {
			headers[key] = values[0]
		} else {
			headers[key] = append([]string(nil), values...)
		}
	}
	return headers
}
