package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/probekit/devcheck/engine"
	"github.com/probekit/devcheck/probe"
	"github.com/probekit/devcheck/ui"
)

// runJSON runs all probes once and writes the report as indented JSON.
func runJSON(w io.Writer, eng *engine.Engine) error {
	rep := eng.Run(context.Background())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// runText runs all probes once and prints the same cards the TUI shows.
// A spinner keeps an interactive stderr busy while probes run; piped
// output stays clean.
func runText(eng *engine.Engine) error {
	var sp *spinner.Spinner
	if term.IsTerminal(int(os.Stderr.Fd())) {
		sp = spinner.New(spinner.CharSets[11], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
		sp.Suffix = " probing host capabilities..."
		sp.Start()
	}

	rep := eng.Run(context.Background())

	if sp != nil {
		sp.Stop()
	}

	width := 100
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	fmt.Print(ui.RenderReport(rep, width))
	fmt.Printf(" %d probes, %d rows, %dms\n", len(rep.Groups), rep.Rows(), rep.ElapsedMs)
	return nil
}

// runList prints the probe names usable with -only.
func runList(w io.Writer, reg *probe.Registry) error {
	for _, p := range reg.Probes() {
		fmt.Fprintf(w, "%-12s %s\n", p.Name(), p.Title())
	}
	return nil
}
