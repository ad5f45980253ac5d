// Package digest composes the per-run notification messages.
//
// Blocks use Telegram HTML parse mode, so every piece of page-derived text is
// escaped. The composed digest is split into transport-sized chunks whose
// concatenation reproduces the full text exactly.
package digest

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"pagewatch/internal/watch"
)

// Message size bounds.
const (
	// TransportMessageLimit is the messaging API's hard per-message cap.
	TransportMessageLimit = 4096
	// DefaultChunkLimit leaves margin below the hard cap for formatting.
	DefaultChunkLimit = 4000
)

// EmptyRunText is sent when a run produced no blocks and SendWhenEmpty is on.
const EmptyRunText = "No changes detected."

// Config carries the composer policies.
type Config struct {
	// ChunkLimit bounds each emitted message, in runes.
	ChunkLimit int
	// NotifyFirstSeen controls whether first observations are announced or
	// silently baselined. Either way the state is saved.
	NotifyFirstSeen bool
	// SendWhenEmpty emits a single "no changes" message for quiet runs.
	SendWhenEmpty bool
}

// Composer implements watch.Composer.
type Composer struct {
	cfg Config
}

// NewComposer builds a Composer; a chunk limit outside (0, hard cap] falls
// back to the default.
func NewComposer(cfg Config) *Composer {
	if cfg.ChunkLimit <= 0 || cfg.ChunkLimit > TransportMessageLimit {
		cfg.ChunkLimit = DefaultChunkLimit
	}
	return &Composer{cfg: cfg}
}

// Compose renders the events into ordered message chunks. Quiet runs produce
// nothing unless SendWhenEmpty is set.
func (c *Composer) Compose(now time.Time, events []watch.Event) []string {
	blocks := make([]string, 0, len(events))
	for _, event := range events {
		if !event.Failed() && event.FirstSeen && !c.cfg.NotifyFirstSeen {
			continue
		}
		blocks = append(blocks, renderBlock(event))
	}

	if len(blocks) == 0 {
		if !c.cfg.SendWhenEmpty {
			return nil
		}
		blocks = []string{EmptyRunText}
	}

	text := header(now) + "\n\n" + strings.Join(blocks, "\n\n")
	return SplitMessage(text, c.cfg.ChunkLimit)
}

func header(now time.Time) string {
	return "🧭 Watched page updates\n<code>" + now.UTC().Format("2006-01-02 15:04 UTC") + "</code>"
}

func renderBlock(event watch.Event) string {
	if event.Failed() {
		return fmt.Sprintf("⚠️ <b>%s</b>: error: %s: %s",
			html.EscapeString(event.Target.Name),
			event.ErrKind,
			html.EscapeString(event.ErrMsg))
	}

	previous := "—"
	if event.Previous != "" {
		previous = event.Previous.Short()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔄 <b>Changed</b> — %s\n", html.EscapeString(event.Target.Name))
	b.WriteString(html.EscapeString(event.Target.URL))
	fmt.Fprintf(&b, "\n<i>%s → %s</i>", previous, event.Current.Short())
	if event.Preview != "" {
		b.WriteString("\n<pre>")
		b.WriteString(html.EscapeString(event.Preview))
		b.WriteString("</pre>")
	}
	return b.String()
}

// SplitMessage splits text into ordered chunks of at most limit runes,
// preferring block boundaries (blank lines), then line boundaries, then a
// hard rune cut. The concatenation of the chunks equals text.
func SplitMessage(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		runes := 0
		end := start
		// Byte offsets just past the best split candidates in this window.
		blockCut, blockCutRunes := -1, 0
		lineCut, lineCutRunes := -1, 0
		var prev rune
		for end < len(text) && runes < limit {
			r, size := utf8.DecodeRuneInString(text[end:])
			runes++
			end += size
			if r == '\n' {
				lineCut, lineCutRunes = end, runes
				if prev == '\n' {
					blockCut, blockCutRunes = end, runes
				}
			}
			prev = r
		}
		if end < len(text) {
			// Prefer a boundary unless it would leave the chunk degenerate.
			switch {
			case blockCut > start && blockCutRunes >= limit/3:
				end = blockCut
			case lineCut > start && lineCutRunes >= limit/3:
				end = lineCut
			}
		}
		chunks = append(chunks, text[start:end])
		start = end
	}
	return chunks
}
