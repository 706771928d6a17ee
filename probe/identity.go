package probe

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/probekit/devcheck/model"
)

// IdentityProbe reports who and what this machine is: platform, kernel,
// virtualization, user, and regional settings.
type IdentityProbe struct {
	hostInfo    func(ctx context.Context) (*host.InfoStat, error)
	currentUser func() (*user.User, error)
	getenv      func(string) string
	now         func() time.Time
}

func NewIdentityProbe() *IdentityProbe {
	return &IdentityProbe{
		hostInfo:    host.InfoWithContext,
		currentUser: user.Current,
		getenv:      os.Getenv,
		now:         time.Now,
	}
}

func (p *IdentityProbe) Name() string  { return "identity" }
func (p *IdentityProbe) Title() string { return "Device & OS" }

func (p *IdentityProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	info, err := p.hostInfo(ctx)
	if err != nil || info == nil {
		g.Add("hostname", model.Failed(err))
		g.Add("os", model.Failed(err))
		g.Add("kernel", model.Failed(err))
		g.Add("arch", model.Failed(err))
		g.Add("virtualization", model.Failed(err))
	} else {
		g.Add("hostname", model.Text(info.Hostname))
		g.Add("os", model.Textf("%s %s", info.Platform, info.PlatformVersion))
		g.Add("kernel", model.Text(info.KernelVersion))
		g.Add("arch", model.Text(info.KernelArch))
		g.Add("virtualization", virtValue(info.VirtualizationSystem, info.VirtualizationRole))
	}

	if u, uerr := p.currentUser(); uerr == nil {
		g.Add("user", model.Text(u.Username))
	} else {
		g.Add("user", model.Text(p.getenv("USER")))
	}

	g.Add("locale", localeValue(p.getenv))
	g.Add("timezone", timezoneValue(p.now()))
	return g
}

// virtValue renders the virtualization detection result. An empty
// system with a clean read means no hypervisor was detected.
func virtValue(system, role string) model.Value {
	if system == "" {
		return model.Text("none detected")
	}
	if role == "" {
		return model.Text(system)
	}
	return model.Textf("%s (%s)", system, role)
}

// localeValue resolves the active locale from the usual environment
// chain, most specific first.
func localeValue(getenv func(string) string) model.Value {
	for _, key := range []string{"LC_ALL", "LANG", "LC_MESSAGES"} {
		if v := getenv(key); v != "" {
			return model.Text(v)
		}
	}
	return model.Absent()
}

// timezoneValue renders the local zone with its UTC offset.
func timezoneValue(now time.Time) model.Value {
	name, offset := now.Zone()
	if name == "" {
		return model.Absent()
	}
	return model.Textf("%s (%s)", name, fmtUTCOffset(offset))
}

// fmtUTCOffset formats a zone offset in seconds as UTC±HH:MM.
func fmtUTCOffset(sec int) string {
	sign := "+"
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, sec/3600, (sec%3600)/60)
}
