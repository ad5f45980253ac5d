package state

import (
	"os"
	"path/filepath"
	"testing"

	"pagewatch/internal/watch"
)

func TestStoreLoadFirstRun(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "data"), nil)
	states, err := store.Load([]watch.Target{{Name: "Ozon Fees", URL: "https://docs.ozon.ru/fees"}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(states) != 0 {
		t.Fatalf("expected empty state on first run, got %v", states)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	targets := []watch.Target{
		{Name: "Ozon Fees", URL: "https://docs.ozon.ru/fees"},
		{Name: "WB Logistics", URL: "https://wb.example/logistics"},
	}
	states := map[string]watch.TargetState{
		"https://docs.ozon.ru/fees":    {Fingerprint: "aaa111", Content: "Fee: 5%"},
		"https://wb.example/logistics": {Fingerprint: "bbb222", Content: "Box: 30 ₽"},
	}

	dir := filepath.Join(t.TempDir(), "data")
	store := NewStore(dir, nil)
	if err := store.Save(targets, states); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(targets)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for url, want := range states {
		got, ok := loaded[url]
		if !ok {
			t.Fatalf("missing state for %s", url)
		}
		if got != want {
			t.Fatalf("state for %s = %+v, want %+v", url, got, want)
		}
	}

	snapshot, err := os.ReadFile(filepath.Join(dir, "pages", "ozon-fees.txt"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(snapshot) != "Fee: 5%" {
		t.Fatalf("unexpected snapshot body %q", snapshot)
	}
}

func TestStoreSaveKeepsStaleEntries(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")
	store := NewStore(dir, nil)

	targets := []watch.Target{{Name: "Ozon Fees", URL: "https://docs.ozon.ru/fees"}}
	states := map[string]watch.TargetState{
		"https://docs.ozon.ru/fees": {Fingerprint: "aaa111", Content: "Fee: 5%"},
		"https://gone.example/old":  {Fingerprint: "ccc333"},
	}
	if err := store.Save(targets, states); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(targets)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded["https://gone.example/old"].Fingerprint; got != "ccc333" {
		t.Fatalf("expected stale entry preserved, got %q", got)
	}
}

func TestStoreLoadWithoutSnapshot(t *testing.T) {
	t.Parallel()

	// A fingerprint entry without its snapshot file is legacy state: the
	// fingerprint loads, the content stays empty.
	dir := filepath.Join(t.TempDir(), "data")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	payload := []byte("{\n  \"https://docs.ozon.ru/fees\": \"aaa111\"\n}\n")
	if err := os.WriteFile(filepath.Join(dir, "fingerprints.json"), payload, 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir, nil)
	loaded, err := store.Load([]watch.Target{{Name: "Ozon Fees", URL: "https://docs.ozon.ru/fees"}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := loaded["https://docs.ozon.ru/fees"]
	if got.Fingerprint != "aaa111" || got.Content != "" {
		t.Fatalf("unexpected legacy state %+v", got)
	}
}

func TestStoreLoadMalformedJSON(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fingerprints.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir, nil)
	if _, err := store.Load(nil); err == nil {
		t.Fatal("expected error for malformed fingerprints file")
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"spaces", "Ozon Fees", "ozon-fees"},
		{"punctuation", "WB — Logistics (FBS)!", "wb-logistics-fbs"},
		{"collapsed runs", "a  / b", "a-b"},
		{"already clean", "yandex", "yandex"},
		{"trimmed", "--edge--", "edge"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Slug(tc.in); got != tc.want {
				t.Fatalf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlugFallbackForUnusableNames(t *testing.T) {
	t.Parallel()

	got := Slug("Тарифы")
	if len(got) != 16 {
		t.Fatalf("expected 16-char hash fallback, got %q", got)
	}
	if again := Slug("Тарифы"); again != got {
		t.Fatalf("expected stable fallback, got %q vs %q", got, again)
	}
}
