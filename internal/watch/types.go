package watch

// Target describes one monitored page.
type Target struct {
	// Name is the human-facing label used in digests and snapshot file names.
	Name string `json:"name" mapstructure:"name"`
	// URL identifies the page and keys its persisted state.
	URL string `json:"url" mapstructure:"url"`
	// Selector optionally narrows change detection to the first matching
	// subtree of the fetched document.
	Selector string `json:"selector,omitempty" mapstructure:"selector"`
}

// Fingerprint is the lowercase hex digest of a target's normalized text.
// Equal text always produces an equal fingerprint across runs and processes.
type Fingerprint string

const shortFingerprintLen = 10

// Short returns a truncated form for digest display.
func (f Fingerprint) Short() string {
	if len(f) <= shortFingerprintLen {
		return string(f)
	}
	return string(f[:shortFingerprintLen]) + "…"
}

// TargetState is what the store remembers about a target between runs.
// It is created on the first successful fetch and rewritten only when the
// fetched content differs; a failed retrieval never touches it.
type TargetState struct {
	Fingerprint Fingerprint
	Content     string
}

// Event is the per-target outcome of one run, consumed by the composer.
// A failed retrieval produces an Event with ErrKind set; a detected change
// produces one with the fingerprints and the bounded diff preview.
type Event struct {
	Target    Target
	FirstSeen bool
	Previous  Fingerprint
	Current   Fingerprint
	Preview   string
	ErrKind   ErrorKind
	ErrMsg    string
}

// Failed reports whether the event records a retrieval failure.
func (e Event) Failed() bool {
	return e.ErrKind != ""
}
