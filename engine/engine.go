package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/probe"
)

// DefaultProbeTimeout bounds a single probe when no explicit budget is set.
const DefaultProbeTimeout = 5 * time.Second

// Engine runs every registered probe in declaration order and folds the
// results into a single report. One probe failing, hanging, or panicking
// never stops the run: the engine substitutes an error group and moves on.
type Engine struct {
	reg     *probe.Registry
	timeout time.Duration
	log     zerolog.Logger
}

// New creates an engine over the given registry. A non-positive timeout
// falls back to DefaultProbeTimeout.
func New(reg *probe.Registry, timeout time.Duration, log zerolog.Logger) *Engine {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Engine{reg: reg, timeout: timeout, log: log}
}

// Len reports how many probes a run will execute.
func (e *Engine) Len() int { return e.reg.Len() }

// Run executes all probes sequentially and returns a freshly built report.
// Nothing from a previous run is carried over.
func (e *Engine) Run(ctx context.Context) *model.Report {
	start := time.Now()
	rep := &model.Report{Taken: start}

	for _, p := range e.reg.Probes() {
		t0 := time.Now()
		g := e.runOne(ctx, p)
		rep.Groups = append(rep.Groups, g)
		e.log.Debug().
			Str("probe", p.Name()).
			Dur("took", time.Since(t0)).
			Int("rows", len(g.Rows)).
			Msg("probe done")
	}

	rep.ElapsedMs = time.Since(start).Milliseconds()
	e.log.Info().
		Int("groups", len(rep.Groups)).
		Int64("elapsed_ms", rep.ElapsedMs).
		Msg("run complete")
	return rep
}

// runOne executes a single probe under its time budget. The probe runs in
// its own goroutine so a hung probe can be abandoned; the buffered channel
// lets the goroutine finish and exit on its own later.
func (e *Engine) runOne(ctx context.Context, p probe.Prober) model.Group {
	probeCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan model.Group, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error().Str("probe", p.Name()).Interface("panic", r).Msg("probe panicked")
				done <- failureGroup(p, "probe failed")
			}
		}()
		done <- p.Probe(probeCtx)
	}()

	select {
	case g := <-done:
		return g
	case <-probeCtx.Done():
		reason := "canceled"
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			reason = "timed out"
		}
		e.log.Warn().Str("probe", p.Name()).Str("reason", reason).Msg("probe abandoned")
		return failureGroup(p, reason)
	}
}

// failureGroup stands in for a probe that produced nothing. The report
// keeps its shape: every registered probe contributes exactly one group.
func failureGroup(p probe.Prober, reason string) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}
	g.Add("error", model.AbsentBecause(reason))
	return g
}
