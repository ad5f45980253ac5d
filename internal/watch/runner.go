package watch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pagewatch/internal/metrics"
)

// Target outcome labels recorded per run.
const (
	outcomeChanged   = "changed"
	outcomeUnchanged = "unchanged"
	outcomeFailed    = "failed"
)

// Runner executes one monitoring pass over the configured targets.
type Runner struct {
	targets  []Target
	fetcher  Fetcher
	hasher   Hasher
	differ   Summarizer
	store    Store
	composer Composer
	notifier Notifier
	clock    Clock
	logger   *zap.Logger
}

// NewRunner constructs a Runner. A nil notifier disables delivery (the run
// still detects changes and saves state).
func NewRunner(
	targets []Target,
	fetcher Fetcher,
	hasher Hasher,
	differ Summarizer,
	store Store,
	composer Composer,
	notifier Notifier,
	clock Clock,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		targets:  targets,
		fetcher:  fetcher,
		hasher:   hasher,
		differ:   differ,
		store:    store,
		composer: composer,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Run walks the targets sequentially, persists the updated state exactly
// once, and delivers the composed digest. Per-target retrieval failures are
// folded into the digest; a delivery failure is returned as a fatal
// TransportError.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.targets) == 0 {
		r.logger.Info("no targets configured, nothing to do")
		return nil
	}

	states, err := r.store.Load(r.targets)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	events := make([]Event, 0, len(r.targets))
	interrupted := false
	for _, target := range r.targets {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if event, reportable := r.observe(ctx, target, states); reportable {
			events = append(events, event)
		}
	}

	// State is saved before delivery so a notification outage never loses
	// observations.
	if err := r.store.Save(r.targets, states); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if interrupted {
		r.logger.Warn("run interrupted, digest skipped", zap.Int("events", len(events)))
		return ctx.Err()
	}

	messages := r.composer.Compose(r.clock.Now(), events)
	if len(messages) == 0 {
		r.logger.Info("run finished, nothing to deliver", zap.Int("events", len(events)))
		return nil
	}
	if r.notifier == nil {
		r.logger.Warn("notification credentials missing, digest skipped",
			zap.Int("messages", len(messages)))
		return nil
	}
	for i, message := range messages {
		if err := r.notifier.Send(ctx, message); err != nil {
			return NewError(KindTransport, fmt.Errorf("deliver digest chunk %d/%d: %w", i+1, len(messages), err))
		}
	}
	r.logger.Info("digest delivered",
		zap.Int("events", len(events)),
		zap.Int("messages", len(messages)))
	return nil
}

// observe fetches one target and updates the state map in place. It reports
// an Event for failures and detected changes; unchanged targets produce none.
func (r *Runner) observe(ctx context.Context, target Target, states map[string]TargetState) (Event, bool) {
	text, err := r.fetcher.Fetch(ctx, target)
	if err != nil {
		kind, message := Classify(err, KindRetrieval)
		r.logger.Warn("target retrieval failed",
			zap.String("target", target.Name),
			zap.String("url", target.URL),
			zap.String("kind", string(kind)),
			zap.Error(err))
		metrics.ObserveTarget(target.URL, outcomeFailed)
		metrics.ObserveFailure(string(kind))
		return Event{Target: target, ErrKind: kind, ErrMsg: message}, true
	}

	fingerprint := r.hasher.Fingerprint(text)
	prior, seen := states[target.URL]
	if seen && prior.Fingerprint == fingerprint {
		// Backfill the content snapshot for legacy state that predates
		// snapshot storage; the fingerprint is unchanged either way.
		if prior.Content == "" && text != "" {
			states[target.URL] = TargetState{Fingerprint: fingerprint, Content: text}
		}
		r.logger.Debug("target unchanged",
			zap.String("target", target.Name),
			zap.String("fingerprint", fingerprint.Short()))
		metrics.ObserveTarget(target.URL, outcomeUnchanged)
		return Event{}, false
	}

	preview := r.differ.Summarize(prior.Content, text)
	states[target.URL] = TargetState{Fingerprint: fingerprint, Content: text}
	r.logger.Info("target changed",
		zap.String("target", target.Name),
		zap.Bool("first_seen", !seen),
		zap.String("previous", prior.Fingerprint.Short()),
		zap.String("current", fingerprint.Short()))
	metrics.ObserveTarget(target.URL, outcomeChanged)
	metrics.ObserveChange(target.URL)
	return Event{
		Target:    target,
		FirstSeen: !seen,
		Previous:  prior.Fingerprint,
		Current:   fingerprint,
		Preview:   preview,
	}, true
}
