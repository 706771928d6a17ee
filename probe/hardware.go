package probe

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/probekit/devcheck/model"
)

// HardwareProbe reports the processor and memory complement.
type HardwareProbe struct {
	cpuInfo   func(ctx context.Context) ([]cpu.InfoStat, error)
	cpuCounts func(ctx context.Context, logical bool) (int, error)
	virtMem   func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swapMem   func(ctx context.Context) (*mem.SwapMemoryStat, error)
}

func NewHardwareProbe() *HardwareProbe {
	return &HardwareProbe{
		cpuInfo:   cpu.InfoWithContext,
		cpuCounts: cpu.CountsWithContext,
		virtMem:   mem.VirtualMemoryWithContext,
		swapMem:   mem.SwapMemoryWithContext,
	}
}

func (p *HardwareProbe) Name() string  { return "hardware" }
func (p *HardwareProbe) Title() string { return "Processor & Memory" }

func (p *HardwareProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	if infos, err := p.cpuInfo(ctx); err == nil && len(infos) > 0 {
		g.Add("model", model.Text(strings.TrimSpace(infos[0].ModelName)))
	} else {
		g.Add("model", model.Failed(err))
	}

	logical, lerr := p.cpuCounts(ctx, true)
	if lerr == nil && logical > 0 {
		g.Add("logicalCPUs", model.Count(logical))
	} else {
		g.Add("logicalCPUs", model.Failed(lerr))
	}
	physical, perr := p.cpuCounts(ctx, false)
	if perr == nil && physical > 0 {
		g.Add("physicalCores", model.Count(physical))
	} else {
		g.Add("physicalCores", model.Failed(perr))
	}

	if vm, err := p.virtMem(ctx); err == nil && vm != nil {
		g.Add("memory", model.Text(humanize.IBytes(vm.Total)))
		g.Add("available", model.Text(humanize.IBytes(vm.Available)))
	} else {
		g.Add("memory", model.Failed(err))
		g.Add("available", model.Failed(err))
	}

	if sw, err := p.swapMem(ctx); err == nil && sw != nil {
		if sw.Total == 0 {
			g.Add("swap", model.Text("none"))
		} else {
			g.Add("swap", model.Text(humanize.IBytes(sw.Total)))
		}
	} else {
		g.Add("swap", model.Failed(err))
	}

	return g
}
