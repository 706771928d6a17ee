package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/probekit/devcheck/config"
	"github.com/probekit/devcheck/engine"
	"github.com/probekit/devcheck/logging"
	"github.com/probekit/devcheck/probe"
	"github.com/probekit/devcheck/ui"
)

// Version is set at build time via ldflags.
var Version = "0.3.0"

func printUsage() {
	fmt.Fprintf(os.Stderr, `devcheck v%s — host capability report for the terminal

Usage:
  devcheck [OPTIONS]

Modes:
  (default)         Interactive TUI (bubbletea, fullscreen)
  -text             One-shot styled report to stdout, then exit
  -json             One-shot JSON report to stdout, then exit
  -list             List available probes and exit
  -version          Print version and exit

Options:
  -only LIST        Comma-separated probe names to run (default: all)
  -timeout D        Per-probe time budget (default: 5s)
  -reveal D         Minimum holding-screen time before the TUI shows
                    results (default: 7s)
  -debug            Verbose logging
  -no-color         Disable color output

Environment:
  DEVCHECK_TIMEOUT, DEVCHECK_REVEAL, DEVCHECK_DEBUG, DEVCHECK_NO_COLOR
  override the config file when the matching flag is not given.
  Config file: ~/.config/devcheck/config.json

Examples:
  devcheck                           Interactive TUI
  devcheck -text                     Print the report and exit
  devcheck -json | jq '.groups[].name'
  devcheck -only battery,network     Probe a subset
  devcheck -text -timeout 2s         Tighter probe budget
  devcheck -reveal 0s                Skip the holding screen
`, Version)
}

// Run parses flags and starts the application.
func Run() error {
	cfg := config.Load()

	var (
		jsonMode    = flag.Bool("json", false, "Output a single JSON report and exit")
		textMode    = flag.Bool("text", false, "Output a single styled report and exit")
		listMode    = flag.Bool("list", false, "List available probes and exit")
		only        = flag.String("only", "", "Comma-separated probe names to run")
		timeout     = flag.Duration("timeout", cfg.ProbeTimeout(), "Per-probe time budget")
		reveal      = flag.Duration("reveal", cfg.RevealDelay(), "Minimum holding-screen time")
		debug       = flag.Bool("debug", cfg.Debug, "Verbose logging")
		noColor     = flag.Bool("no-color", cfg.NoColor, "Disable color output")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Usage = printUsage
	flag.Parse()

	// Priority: explicit flag > environment > config file > default.
	config.ApplyEnv(&cfg, flag.CommandLine)
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if explicit["timeout"] {
		cfg.ProbeTimeoutMs = int(timeout.Milliseconds())
	}
	if explicit["reveal"] {
		cfg.RevealDelayMs = int(reveal.Milliseconds())
	}
	if explicit["debug"] {
		cfg.Debug = *debug
	}
	if explicit["no-color"] {
		cfg.NoColor = *noColor
	}

	if *showVersion {
		fmt.Printf("devcheck v%s\n", Version)
		return nil
	}

	if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColor()
	}

	reg := probe.NewRegistry()
	if *only != "" {
		sub, err := reg.Select(strings.Split(*only, ","))
		if err != nil {
			return err
		}
		reg = sub
	}

	if *listMode {
		return runList(os.Stdout, reg)
	}

	// One-shot modes keep stdout for the report and stderr for logs;
	// logs stay off unless asked for.
	if *jsonMode || *textMode {
		log := zerolog.Nop()
		if cfg.Debug {
			log = logging.Console(os.Stderr, true)
		}
		eng := engine.New(reg, cfg.ProbeTimeout(), log)
		if *jsonMode {
			return runJSON(os.Stdout, eng)
		}
		return runText(eng)
	}

	// The TUI owns the terminal, so logs go to the state file.
	log, closeLog := logging.File(cfg.Debug)
	defer closeLog()

	eng := engine.New(reg, cfg.ProbeTimeout(), log)
	m := ui.NewModel(eng, cfg.RevealDelay())
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
