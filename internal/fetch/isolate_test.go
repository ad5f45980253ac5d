package fetch

import (
	"strings"
	"testing"
)

func TestIsolate(t *testing.T) {
	t.Parallel()

	page := `<html><body><nav>Menu</nav><div id="tariffs"><p>Fee: 5%</p></div><div id="tariffs"><p>ignored</p></div></body></html>`

	t.Run("first match wins", func(t *testing.T) {
		t.Parallel()
		got := Isolate(page, "#tariffs")
		if !strings.Contains(got, "Fee: 5%") {
			t.Fatalf("isolated fragment missing content: %q", got)
		}
		if strings.Contains(got, "Menu") || strings.Contains(got, "ignored") {
			t.Fatalf("isolated fragment leaked surrounding markup: %q", got)
		}
	})

	t.Run("no match returns input", func(t *testing.T) {
		t.Parallel()
		if got := Isolate(page, "#missing"); got != page {
			t.Fatalf("expected untouched markup, got %q", got)
		}
	})

	t.Run("invalid selector returns input", func(t *testing.T) {
		t.Parallel()
		if got := Isolate(page, "[[["); got != page {
			t.Fatalf("expected untouched markup for invalid selector, got %q", got)
		}
	})
}
