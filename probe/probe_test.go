package probe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryOrderIsFixed(t *testing.T) {
	want := []string{
		"identity", "display", "hardware", "graphics", "battery",
		"network", "location", "media", "permissions", "timing",
		"sensors", "render", "audio", "apis",
	}

	got := NewRegistry().Names()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("registry order mismatch (-want +got):\n%s", diff)
	}

	// Two registries must agree; order comes from the table, not from
	// anything runtime-dependent.
	if diff := cmp.Diff(got, NewRegistry().Names()); diff != "" {
		t.Errorf("registry order not stable (-first +second):\n%s", diff)
	}
}

func TestRegistrySelectKeepsOrder(t *testing.T) {
	reg := NewRegistry()

	// Request out of presentation order; the subset must come back in
	// presentation order anyway.
	sub, err := reg.Select([]string{"audio", "battery", "identity"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	want := []string{"identity", "battery", "audio"}
	if diff := cmp.Diff(want, sub.Names()); diff != "" {
		t.Errorf("subset order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistrySelectUnknownName(t *testing.T) {
	_, err := NewRegistry().Select([]string{"identity", "warp", "flux"})
	if err == nil {
		t.Fatal("expected error for unknown probe names")
	}
	want := `unknown probe(s): flux, warp (see -list)`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestRegistrySelectEmptyMeansAll(t *testing.T) {
	reg := NewRegistry()
	sub, err := reg.Select(nil)
	if err != nil {
		t.Fatalf("Select(nil): %v", err)
	}
	if sub.Len() != reg.Len() {
		t.Errorf("Select(nil) len = %d, want %d", sub.Len(), reg.Len())
	}

	sub, err = reg.Select([]string{"", "  "})
	if err != nil {
		t.Fatalf("Select(blank): %v", err)
	}
	if sub.Len() != reg.Len() {
		t.Errorf("Select(blank) len = %d, want %d", sub.Len(), reg.Len())
	}
}

func TestProbeTitlesNonEmpty(t *testing.T) {
	for _, p := range NewRegistry().Probes() {
		if p.Name() == "" || p.Title() == "" {
			t.Errorf("probe %T has empty name or title", p)
		}
	}
}
