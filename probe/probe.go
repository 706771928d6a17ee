package probe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/probekit/devcheck/model"
)

// Prober is the interface for all capability probes. A probe inspects
// one facet of the machine and reports it as a group of display rows.
//
// Probes never return errors: every read inside a probe reduces to a
// row value, so a probe that finds nothing still produces a renderable
// group. Probes are independent of each other and must not assume any
// other probe has run.
type Prober interface {
	// Name is the stable machine identifier, used for -only selection
	// and log lines.
	Name() string
	// Title is the card heading shown to the user.
	Title() string
	// Probe inspects the machine. Implementations honor ctx deadlines
	// on anything that can block.
	Probe(ctx context.Context) model.Group
}

// Registry holds probes in their fixed presentation order. The order
// probes are registered in is the order groups appear in, every run.
type Registry struct {
	probes []Prober
}

// NewRegistry creates a registry with all default probes in
// presentation order.
func NewRegistry() *Registry {
	return &Registry{
		probes: []Prober{
			NewIdentityProbe(),
			NewDisplayProbe(),
			NewHardwareProbe(),
			NewGraphicsProbe(),
			NewBatteryProbe(),
			NewNetworkProbe(),
			NewLocationProbe(),
			NewMediaProbe(),
			NewPermissionsProbe(),
			NewTimingProbe(),
			NewSensorsProbe(),
			NewRenderProbe(),
			NewAudioProbe(),
			NewAPIProbe(),
		},
	}
}

// Add registers an additional probe at the end of the order.
func (r *Registry) Add(p Prober) {
	r.probes = append(r.probes, p)
}

// Probes returns the probes in presentation order.
func (r *Registry) Probes() []Prober {
	return r.probes
}

// Len returns the number of registered probes.
func (r *Registry) Len() int {
	return len(r.probes)
}

// Names returns the probe names in presentation order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.probes))
	for i, p := range r.probes {
		names[i] = p.Name()
	}
	return names
}

// Select returns a registry restricted to the named probes, keeping
// presentation order regardless of how the names were given. Unknown
// names are an error so typos surface instead of silently probing
// nothing.
func (r *Registry) Select(names []string) (*Registry, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		want[n] = true
	}
	if len(want) == 0 {
		return r, nil
	}

	sub := &Registry{}
	for _, p := range r.probes {
		if want[p.Name()] {
			sub.probes = append(sub.probes, p)
			delete(want, p.Name())
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown probe(s): %s (see -list)", strings.Join(unknown, ", "))
	}
	return sub, nil
}
