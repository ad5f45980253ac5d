// Package diff renders bounded line-diff previews between two normalized
// texts.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Placeholder is returned when no inserted or deleted line survives; callers
// never receive an empty preview for a real change.
const Placeholder = "(no representable changes)"

// Preview bounds.
const (
	DefaultMaxLines     = 12
	DefaultMaxLineWidth = 160
)

// Summarizer implements watch.Summarizer with fixed output bounds.
type Summarizer struct {
	maxLines     int
	maxLineWidth int
}

// NewSummarizer builds a Summarizer; non-positive bounds fall back to the
// defaults.
func NewSummarizer(maxLines, maxLineWidth int) *Summarizer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	if maxLineWidth <= 0 {
		maxLineWidth = DefaultMaxLineWidth
	}
	return &Summarizer{maxLines: maxLines, maxLineWidth: maxLineWidth}
}

// Summarize renders the bounded preview of the change from previous to
// current.
func (s *Summarizer) Summarize(previous, current string) string {
	return Summarize(previous, current, s.maxLines, s.maxLineWidth)
}

// Summarize computes a line-level LCS diff and keeps only inserted and
// deleted lines, signed and bounded: at most maxLines output lines, each at
// most maxLineWidth runes with a trailing ellipsis when cut. Previous text
// may be empty (first observation degrades to an all-added preview).
func Summarize(previous, current string, maxLines, maxLineWidth int) string {
	a := splitLines(previous)
	b := splitLines(current)

	lines := make([]string, 0, maxLines)
	collect := func(sign string, src []string, from, to int) bool {
		for _, line := range src[from:to] {
			if len(lines) >= maxLines {
				return false
			}
			lines = append(lines, truncate(sign+line, maxLineWidth))
		}
		return true
	}

opcodes:
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'd':
			if !collect("- ", a, op.I1, op.I2) {
				break opcodes
			}
		case 'i':
			if !collect("+ ", b, op.J1, op.J2) {
				break opcodes
			}
		case 'r':
			if !collect("- ", a, op.I1, op.I2) {
				break opcodes
			}
			if !collect("+ ", b, op.J1, op.J2) {
				break opcodes
			}
		}
	}

	if len(lines) == 0 {
		return Placeholder
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
