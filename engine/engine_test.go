package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/probe"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeProbe is a scriptable probe. An optional sleep simulates slow
// hardware; sleeps stay short so abandoned goroutines drain quickly.
type fakeProbe struct {
	name  string
	sleep time.Duration
	panic bool
	calls int
}

func (f *fakeProbe) Name() string  { return f.name }
func (f *fakeProbe) Title() string { return "Fake " + f.name }

func (f *fakeProbe) Probe(ctx context.Context) model.Group {
	f.calls++
	if f.panic {
		panic("scripted failure")
	}
	if f.sleep > 0 {
		time.Sleep(f.sleep)
	}
	g := model.Group{Name: f.name, Title: f.Title()}
	g.Add("call", model.Count(f.calls))
	return g
}

func newTestEngine(timeout time.Duration, probes ...probe.Prober) *Engine {
	reg := &probe.Registry{}
	for _, p := range probes {
		reg.Add(p)
	}
	return New(reg, timeout, zerolog.Nop())
}

func TestRunKeepsOrder(t *testing.T) {
	e := newTestEngine(time.Second,
		&fakeProbe{name: "alpha"},
		&fakeProbe{name: "beta"},
		&fakeProbe{name: "gamma"},
	)

	rep := e.Run(context.Background())

	want := []string{"alpha", "beta", "gamma"}
	if len(rep.Groups) != len(want) {
		t.Fatalf("groups = %d, want %d", len(rep.Groups), len(want))
	}
	for i, name := range want {
		if rep.Groups[i].Name != name {
			t.Errorf("group[%d] = %q, want %q", i, rep.Groups[i].Name, name)
		}
	}
}

func TestRunIsolatesPanic(t *testing.T) {
	after := &fakeProbe{name: "after"}
	e := newTestEngine(time.Second,
		&fakeProbe{name: "boom", panic: true},
		after,
	)

	rep := e.Run(context.Background())

	if len(rep.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(rep.Groups))
	}
	got := rep.Groups[0].Get("error").Display()
	if got != "unknown (probe failed)" {
		t.Errorf("error row = %q, want %q", got, "unknown (probe failed)")
	}
	if after.calls != 1 {
		t.Errorf("probe after the panic ran %d times, want 1", after.calls)
	}
}

func TestRunAbandonsSlowProbe(t *testing.T) {
	after := &fakeProbe{name: "after"}
	e := newTestEngine(20*time.Millisecond,
		&fakeProbe{name: "slow", sleep: 150 * time.Millisecond},
		after,
	)

	rep := e.Run(context.Background())

	got := rep.Groups[0].Get("error").Display()
	if got != "unknown (timed out)" {
		t.Errorf("error row = %q, want %q", got, "unknown (timed out)")
	}
	if after.calls != 1 {
		t.Errorf("probe after the timeout ran %d times, want 1", after.calls)
	}
	// Let the abandoned goroutine finish before goleak inspects.
	time.Sleep(200 * time.Millisecond)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(time.Second,
		&fakeProbe{name: "one", sleep: 50 * time.Millisecond},
		&fakeProbe{name: "two", sleep: 50 * time.Millisecond},
	)

	rep := e.Run(ctx)

	if len(rep.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(rep.Groups))
	}
	for i, g := range rep.Groups {
		got := g.Get("error").Display()
		if got != "unknown (canceled)" {
			t.Errorf("group[%d] error row = %q, want %q", i, got, "unknown (canceled)")
		}
	}
	time.Sleep(100 * time.Millisecond)
}

func TestRunBuildsFreshReport(t *testing.T) {
	p := &fakeProbe{name: "counter"}
	e := newTestEngine(time.Second, p)

	first := e.Run(context.Background())
	second := e.Run(context.Background())

	if first == second {
		t.Fatal("second run returned the same report")
	}
	if got := first.Groups[0].Get("call").Display(); got != "1" {
		t.Errorf("first call row = %q, want %q", got, "1")
	}
	if got := second.Groups[0].Get("call").Display(); got != "2" {
		t.Errorf("second call row = %q, want %q", got, "2")
	}
	if second.Taken.Before(first.Taken) {
		t.Error("second report timestamp precedes the first")
	}
}

func TestRunDefaultTimeout(t *testing.T) {
	e := New(&probe.Registry{}, 0, zerolog.Nop())
	if e.timeout != DefaultProbeTimeout {
		t.Errorf("timeout = %v, want %v", e.timeout, DefaultProbeTimeout)
	}
}
