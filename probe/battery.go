package probe

import (
	"context"
	"strings"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// BatteryProbe reports charge state and health from the power supply
// class. Desktops without a battery report the capability as missing
// rather than erroring.
type BatteryProbe struct {
	Root string
}

func NewBatteryProbe() *BatteryProbe {
	return &BatteryProbe{}
}

func (p *BatteryProbe) Name() string  { return "battery" }
func (p *BatteryProbe) Title() string { return "Battery" }

func (p *BatteryProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	base := sysPath(p.Root, "/sys/class/power_supply")
	names := util.DirNames(base)
	if names == nil {
		g.Add("powerSupply", model.NotSupported())
		return g
	}

	var battery string
	acOnline := model.Absent()
	for _, name := range names {
		dir := base + "/" + name
		switch util.ReadSysString(dir + "/type") {
		case "Battery":
			if battery == "" {
				battery = name
			}
		case "Mains", "USB":
			acOnline = model.YesNo(util.ReadSysString(dir+"/online") == "1")
		}
	}

	g.Add("acOnline", acOnline)
	if battery == "" {
		g.Add("battery", model.NotSupported())
		return g
	}

	dir := base + "/" + battery
	g.Add("battery", model.Text(battery))
	g.Add("status", statusValue(util.ReadSysString(dir+"/status")))
	if level := util.ReadSysString(dir + "/capacity"); level != "" {
		g.Add("charge", model.Textf("%s%%", level))
	} else {
		g.Add("charge", model.Absent())
	}
	g.Add("cycles", model.Text(util.ReadSysString(dir+"/cycle_count")))
	g.Add("health", healthValue(dir))
	return g
}

// statusValue lowercases the kernel's charge status for display.
func statusValue(s string) model.Value {
	if s == "" {
		return model.Absent()
	}
	return model.Text(strings.ToLower(s))
}

// healthValue computes remaining full-charge capacity against the
// design capacity. Firmware exposes either energy (µWh) or charge
// (µAh) counters; both work for the ratio.
func healthValue(dir string) model.Value {
	full := util.ParseUint64(util.ReadSysString(dir + "/energy_full"))
	design := util.ParseUint64(util.ReadSysString(dir + "/energy_full_design"))
	if full == 0 || design == 0 {
		full = util.ParseUint64(util.ReadSysString(dir + "/charge_full"))
		design = util.ParseUint64(util.ReadSysString(dir + "/charge_full_design"))
	}
	if full == 0 || design == 0 {
		return model.Absent()
	}
	pct := float64(full) / float64(design) * 100
	if pct > 100 {
		pct = 100
	}
	return model.Textf("%.0f%% of design", pct)
}
