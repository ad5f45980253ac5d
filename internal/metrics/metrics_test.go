package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSanitizeSite(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard http", "http://docs.ozon.ru/global/fees", "docs.ozon.ru"},
		{"standard https", "https://Seller.Wildberries.ru/news", "seller.wildberries.ru"},
		{"no scheme", "example.com/path", "example.com"},
		{"just host", "example.com", "example.com"},
		{"host with port", "example.com:8080", "example.com"},
		{"ip address", "192.168.1.1", "192.168.1.1"},
		{"invalid url", "http://%", "unknown"},
		{"empty string", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeSite(tc.input); got != tc.expected {
				t.Errorf("SanitizeSite(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestInitIdempotent(t *testing.T) {
	// Init runs on every observer, so calling it repeatedly must neither
	// panic nor re-register collectors.
	Init()
	Init()

	ObserveTarget("https://init.example/page", "unchanged")
	got := testutil.ToFloat64(watchPagesTotal.WithLabelValues("init.example", "unchanged"))
	if got != 1 {
		t.Errorf("watch_pages_total{site=%q,outcome=%q} = %f; want 1", "init.example", "unchanged", got)
	}
}

func TestObserversRecordLabels(t *testing.T) {
	ObserveChange("https://changes.example/a")
	ObserveChange("https://changes.example/b")
	if got := testutil.ToFloat64(watchChangesTotal.WithLabelValues("changes.example")); got != 2 {
		t.Errorf("watch_changes_total{site=%q} = %f; want 2", "changes.example", got)
	}

	ObserveFailure("RetrievalError")
	if got := testutil.ToFloat64(watchFailuresTotal.WithLabelValues("RetrievalError")); got != 1 {
		t.Errorf("watch_failures_total{kind=%q} = %f; want 1", "RetrievalError", got)
	}

	ObserveTierFallback("reader")
	if got := testutil.ToFloat64(watchTierFallbacksTotal.WithLabelValues("reader")); got != 1 {
		t.Errorf("watch_tier_fallbacks_total{tier=%q} = %f; want 1", "reader", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	ObserveTarget("https://textfile.example/page", "changed")
	SetRunDuration(1500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "pagewatch.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{"watch_pages_total", "watch_run_duration_seconds 1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile output missing %q:\n%s", want, out)
		}
	}
}

// Fuzz test for SanitizeSite.
func FuzzSanitizeSite(f *testing.F) {
	testcases := []string{"http://docs.ozon.ru", "https://seller.wildberries.ru", "ftp://example.com"}
	for _, tc := range testcases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		sanitized := SanitizeSite(orig)
		if sanitized == "" {
			t.Errorf("SanitizeSite(%q) returned an empty string", orig)
		}
	})
}
