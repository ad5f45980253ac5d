package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"pagewatch/internal/metrics"
	"pagewatch/internal/normalize"
	"pagewatch/internal/watch"
)

const (
	defaultRetries     = 3
	defaultBackoffBase = time.Second

	tierDirect  = "direct"
	tierBrowser = "browser"
	tierReader  = "reader"
)

// blockedStatuses mark responses where the site refused the client rather
// than reported a missing page. They escalate straight to the reader tier.
var blockedStatuses = map[int]struct{}{
	http.StatusUnauthorized:        {},
	http.StatusForbidden:           {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// TextExtractor returns pre-extracted readable text for a URL. It backs the
// third retrieval tier.
type TextExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// Options tune the retry loop and host classification.
type Options struct {
	Retries      int
	BackoffBase  time.Duration
	HostileHosts []string
}

// Strategy implements watch.Fetcher over three tiers: a plain HTTP client, a
// headless browser for hostile hosts, and a reader fallback for blocked
// responses. Both browser and reader may be nil, which disables that tier.
type Strategy struct {
	direct      Client
	browser     Client
	reader      TextExtractor
	hostile     *hostileList
	retries     int
	backoffBase time.Duration
	headers     http.Header
	logger      *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewStrategy wires the retrieval tiers together.
func NewStrategy(direct Client, browser Client, reader TextExtractor, opts Options, logger *zap.Logger) *Strategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	base := opts.BackoffBase
	if base <= 0 {
		base = defaultBackoffBase
	}
	return &Strategy{
		direct:      direct,
		browser:     browser,
		reader:      reader,
		hostile:     newHostileList(opts.HostileHosts),
		retries:     retries,
		backoffBase: base,
		headers:     BrowserHeaders(),
		logger:      logger,
		sleep:       sleepContext,
	}
}

// Fetch retrieves the target's page and returns its normalized text. It
// fails with a RetrievalError only after every tier is exhausted; context
// cancellation is returned as-is.
func (s *Strategy) Fetch(ctx context.Context, target watch.Target) (string, error) {
	useBrowser := s.browser != nil && s.hostile.Contains(hostOf(target.URL))
	if useBrowser {
		s.logger.Debug("hostile host, starting on browser tier",
			zap.String("site", target.Name),
			zap.String("url", target.URL),
		)
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		client, tier := s.pickClient(useBrowser)
		res, err := client.Get(ctx, target.URL, s.headers)

		escalate := false
		switch {
		case err != nil:
			lastErr = err
			escalate = true
		case res.StatusCode >= 200 && res.StatusCode < 300:
			if !looksLikeChallenge(res.Body) {
				return s.finish(target, res.Body), nil
			}
			lastErr = fmt.Errorf("challenge page served with status %d", res.StatusCode)
			escalate = true
			if s.browser != nil && !useBrowser {
				useBrowser = true
				metrics.ObserveTierFallback(tierBrowser)
				s.logger.Warn("challenge page detected, promoting to browser tier",
					zap.String("site", target.Name),
				)
			}
		case isBlockedStatus(res.StatusCode):
			lastErr = fmt.Errorf("blocked with status %d", res.StatusCode)
			escalate = true
		default:
			lastErr = fmt.Errorf("unexpected status %d", res.StatusCode)
		}

		s.logger.Warn("fetch attempt failed",
			zap.String("site", target.Name),
			zap.String("tier", tier),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if escalate && s.reader != nil {
			metrics.ObserveTierFallback(tierReader)
			text, rerr := s.reader.Extract(ctx, target.URL)
			if rerr == nil {
				s.logger.Info("reader fallback succeeded", zap.String("site", target.Name))
				return normalize.Text(text), nil
			}
			lastErr = fmt.Errorf("%w; reader fallback: %v", lastErr, rerr)
		}

		if attempt < s.retries {
			delay := s.backoffBase + time.Duration(attempt-1)*time.Second
			if err := s.sleep(ctx, delay); err != nil {
				return "", err
			}
		}
	}

	return "", watch.NewError(watch.KindRetrieval,
		fmt.Errorf("all fetch tiers exhausted after %d attempts: %w", s.retries, lastErr))
}

// finish isolates the configured selector and normalizes the markup.
func (s *Strategy) finish(target watch.Target, body []byte) string {
	markup := string(body)
	if target.Selector != "" {
		markup = Isolate(markup, target.Selector)
	}
	return normalize.Normalize(markup)
}

func (s *Strategy) pickClient(useBrowser bool) (Client, string) {
	if useBrowser && s.browser != nil {
		return s.browser, tierBrowser
	}
	return s.direct, tierDirect
}

func isBlockedStatus(status int) bool {
	_, ok := blockedStatuses[status]
	return ok
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
