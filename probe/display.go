package probe

import (
	"context"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"

	"github.com/probekit/devcheck/model"
)

// DisplayProbe reports the terminal surface this tool is rendering to:
// cell and pixel geometry, color depth, and background.
type DisplayProbe struct {
	getenv       func(string) string
	winsize      func(fd uintptr) (*unix.Winsize, error)
	colorProfile func() termenv.Profile
	darkBG       func() bool
}

func NewDisplayProbe() *DisplayProbe {
	return &DisplayProbe{
		getenv: os.Getenv,
		winsize: func(fd uintptr) (*unix.Winsize, error) {
			return unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
		},
		colorProfile: termenv.ColorProfile,
		darkBG:       termenv.HasDarkBackground,
	}
}

func (p *DisplayProbe) Name() string  { return "display" }
func (p *DisplayProbe) Title() string { return "Display" }

func (p *DisplayProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	g.Add("terminal", terminalValue(p.getenv))

	ws, err := p.winsize(os.Stdout.Fd())
	if err == nil && ws.Col > 0 {
		g.Add("size", model.Textf("%dx%d cells", ws.Col, ws.Row))
	} else if cols := p.getenv("COLUMNS"); cols != "" {
		g.Add("size", model.Textf("%sx%s cells", cols, p.getenv("LINES")))
	} else {
		g.Add("size", model.Failed(err))
	}
	if err == nil && ws.Xpixel > 0 && ws.Ypixel > 0 {
		g.Add("pixels", model.Textf("%dx%d", ws.Xpixel, ws.Ypixel))
	} else {
		g.Add("pixels", model.AbsentBecause("not reported"))
	}

	g.Add("colors", model.Text(profileName(p.colorProfile())))
	if p.darkBG() {
		g.Add("background", model.Text("dark"))
	} else {
		g.Add("background", model.Text("light"))
	}

	if tty, terr := os.Readlink("/proc/self/fd/1"); terr == nil {
		g.Add("tty", model.Text(tty))
	} else {
		g.Add("tty", model.Failed(terr))
	}

	g.Add("multiplexer", multiplexerValue(p.getenv))
	return g
}

// terminalValue combines TERM with the advertised terminal program.
func terminalValue(getenv func(string) string) model.Value {
	term := getenv("TERM")
	prog := getenv("TERM_PROGRAM")
	switch {
	case term != "" && prog != "":
		return model.Textf("%s (%s)", term, prog)
	case term != "":
		return model.Text(term)
	case prog != "":
		return model.Text(prog)
	}
	return model.Absent()
}

// profileName maps a termenv color profile to a display label.
func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor (16.7M)"
	case termenv.ANSI256:
		return "256"
	case termenv.ANSI:
		return "16"
	}
	return "monochrome"
}

// multiplexerValue detects an interposed terminal multiplexer.
func multiplexerValue(getenv func(string) string) model.Value {
	if getenv("TMUX") != "" {
		return model.Text("tmux")
	}
	if getenv("STY") != "" {
		return model.Text("screen")
	}
	if getenv("ZELLIJ") != "" {
		return model.Text("zellij")
	}
	return model.Text("none")
}
