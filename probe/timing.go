package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// TimingProbe reports the machine's clocks: wall time, boot time,
// uptime, the active clock source, and measured timer resolution.
type TimingProbe struct {
	Root     string
	bootTime func(ctx context.Context) (uint64, error)
	now      func() time.Time
}

func NewTimingProbe() *TimingProbe {
	return &TimingProbe{
		bootTime: host.BootTimeWithContext,
		now:      time.Now,
	}
}

func (p *TimingProbe) Name() string  { return "timing" }
func (p *TimingProbe) Title() string { return "Clocks & Timing" }

func (p *TimingProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	now := p.now()
	g.Add("wallClock", model.Text(now.Format(time.RFC3339)))

	if bt, err := p.bootTime(ctx); err == nil && bt > 0 {
		boot := time.Unix(int64(bt), 0)
		g.Add("bootTime", model.Textf("%s (%s)", boot.Format("2006-01-02 15:04"), humanize.Time(boot)))
		g.Add("uptime", model.Text(fmtUptime(now.Sub(boot))))
	} else {
		g.Add("bootTime", model.Failed(err))
		g.Add("uptime", model.Failed(err))
	}

	src := util.ReadSysString(sysPath(p.Root, "/sys/devices/system/clocksource/clocksource0/current_clocksource"))
	g.Add("clockSource", model.Text(src))

	g.Add("timerResolution", model.Text(util.FmtDuration(timerResolution())))
	g.Add("monotonicClock", model.YesNo(monotonicAdvances()))
	return g
}

// fmtUptime renders an uptime as the largest two units that apply.
func fmtUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// timerResolution measures the smallest observable monotonic step.
func timerResolution() time.Duration {
	best := time.Hour
	for i := 0; i < 32; i++ {
		start := time.Now()
		var d time.Duration
		for d <= 0 {
			d = time.Since(start)
		}
		if d < best {
			best = d
		}
	}
	return best
}

// monotonicAdvances confirms the monotonic clock moves forward across
// a minimal sleep.
func monotonicAdvances() bool {
	start := time.Now()
	time.Sleep(time.Millisecond)
	return time.Since(start) > 0
}
