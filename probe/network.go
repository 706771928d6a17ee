package probe

import (
	"context"
	"strings"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// NetworkProbe reports interface presence and link state without
// sending a single packet. Connectivity here means "a route exists",
// not "the internet answered".
type NetworkProbe struct {
	Root string
}

func NewNetworkProbe() *NetworkProbe {
	return &NetworkProbe{}
}

func (p *NetworkProbe) Name() string  { return "network" }
func (p *NetworkProbe) Title() string { return "Network" }

func (p *NetworkProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	base := sysPath(p.Root, "/sys/class/net")
	var ifaces []string
	for _, name := range util.DirNames(base) {
		if name == "lo" || name == "bonding_masters" {
			continue
		}
		ifaces = append(ifaces, name)
	}

	g.Add("interfaces", model.Count(len(ifaces)))
	for _, name := range ifaces {
		g.Add(name, ifaceSummary(base+"/"+name))
	}

	g.Add("defaultRoute", defaultRouteValue(sysPath(p.Root, "/proc/net/route")))
	g.Add("dns", dnsValue(sysPath(p.Root, "/etc/resolv.conf")))
	return g
}

// ifaceSummary condenses one interface's sysfs state into a single
// display line: state, medium, speed, and MTU.
func ifaceSummary(dir string) model.Value {
	state := util.ReadSysString(dir + "/operstate")
	if state == "" {
		return model.Absent()
	}

	parts := []string{state}
	if util.Exists(dir + "/wireless") {
		parts = append(parts, "wifi")
	} else {
		parts = append(parts, "wired")
	}
	if speed := util.ParseInt(util.ReadSysString(dir + "/speed")); speed > 0 {
		parts = append(parts, util.FmtMbps(speed))
	}
	if mtu := util.ReadSysString(dir + "/mtu"); mtu != "" {
		parts = append(parts, "mtu "+mtu)
	}
	return model.Text(strings.Join(parts, ", "))
}

// defaultRouteValue scans the kernel routing table for a zero
// destination. "none" is a real answer: the machine is offline.
func defaultRouteValue(routePath string) model.Value {
	lines, err := util.ReadFileLines(routePath)
	if err != nil {
		return model.Failed(err)
	}
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		if util.FieldsAt(line, 1) == "00000000" {
			if iface := util.FieldsAt(line, 0); iface != "" {
				return model.Text("via " + iface)
			}
		}
	}
	return model.Text("none")
}

// dnsValue counts configured resolvers.
func dnsValue(resolvPath string) model.Value {
	lines, err := util.ReadFileLines(resolvPath)
	if err != nil {
		return model.Failed(err)
	}
	n := 0
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "nameserver") {
			n++
		}
	}
	return model.Textf("%d resolver(s)", n)
}
