package watch

import (
	"context"
	"time"
)

// Fetcher retrieves a target and returns its normalized text.
type Fetcher interface {
	Fetch(ctx context.Context, target Target) (string, error)
}

// Hasher computes content fingerprints.
type Hasher interface {
	Fingerprint(text string) Fingerprint
}

// Summarizer renders a bounded human-readable preview of the change from
// previous to current text. It never returns an empty string.
type Summarizer interface {
	Summarize(previous, current string) string
}

// Store loads the persisted target states at run start and saves them at run
// end. Save is called exactly once per run.
type Store interface {
	Load(targets []Target) (map[string]TargetState, error)
	Save(targets []Target, states map[string]TargetState) error
}

// Composer aggregates events into notification-ready message chunks.
type Composer interface {
	Compose(now time.Time, events []Event) []string
}

// Notifier delivers one digest chunk to the notification channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
