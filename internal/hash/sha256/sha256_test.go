// Package sha256 includes tests for the fingerprint hasher.
package sha256

import "testing"

// TestFingerprintDeterministic ensures repeated hashing yields the same digest.
func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	h := New()
	got := h.Fingerprint("Fee: 5%")
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d (%s)", len(got), got)
	}
	if again := h.Fingerprint("Fee: 5%"); again != got {
		t.Fatalf("expected deterministic fingerprint, got %s vs %s", got, again)
	}
}

// TestFingerprintKnownValue pins the digest of a fixed input.
func TestFingerprintKnownValue(t *testing.T) {
	t.Parallel()

	h := New()
	got := h.Fingerprint("hello world")
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if string(got) != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

// TestFingerprintDiffers ensures distinct texts do not collide.
func TestFingerprintDiffers(t *testing.T) {
	t.Parallel()

	h := New()
	if h.Fingerprint("Fee: 5%") == h.Fingerprint("Fee: 7%") {
		t.Fatal("expected different fingerprints for different texts")
	}
	if h.Fingerprint("a") == h.Fingerprint("a ") {
		t.Fatal("expected a whitespace delta to change the fingerprint")
	}
}

// TestFingerprintShort covers the digest display form.
func TestFingerprintShort(t *testing.T) {
	t.Parallel()

	h := New()
	short := h.Fingerprint("hello world").Short()
	if short != "b94d27b993…" {
		t.Fatalf("unexpected short form %q", short)
	}
}
