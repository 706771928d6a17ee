package probe

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/features"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// apiCheck names one kernel interface and the function resolving its
// availability.
type apiCheck struct {
	name  string
	check func(p *APIProbe) model.Value
}

// apiChecks is the fixed interface table; card rows follow this order.
var apiChecks = []apiCheck{
	{"cgroup2", (*APIProbe).checkCgroup2},
	{"io_uring", (*APIProbe).checkIoUring},
	{"kvm", (*APIProbe).checkKVM},
	{"seccomp", (*APIProbe).checkSeccomp},
	{"landlock", (*APIProbe).checkLandlock},
	{"userNamespaces", (*APIProbe).checkUserNS},
	{"fuse", (*APIProbe).checkFuse},
	{"tun", (*APIProbe).checkTun},
	{"vsock", (*APIProbe).checkVsock},
	{"bpf", (*APIProbe).checkBPF},
	{"binfmt_misc", (*APIProbe).checkBinfmt},
	{"hugePages", (*APIProbe).checkHugePages},
}

// APIProbe reports which optional kernel interfaces this system
// offers. Presence checks read /proc and /sys; the BPF check actually
// asks the verifier, which also surfaces privilege limits.
type APIProbe struct {
	Root     string
	progLoad func(pt ebpf.ProgramType) error
}

func NewAPIProbe() *APIProbe {
	return &APIProbe{progLoad: features.HaveProgramType}
}

func (p *APIProbe) Name() string  { return "apis" }
func (p *APIProbe) Title() string { return "Kernel Interfaces" }

func (p *APIProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}
	for _, c := range apiChecks {
		g.Add(c.name, c.check(p))
	}
	return g
}

// supportedIf collapses a presence check to supported/unsupported.
func supportedIf(present bool) model.Value {
	if present {
		return model.Text("supported")
	}
	return model.NotSupported()
}

func (p *APIProbe) checkCgroup2() model.Value {
	return supportedIf(util.Exists(sysPath(p.Root, "/sys/fs/cgroup/cgroup.controllers")))
}

func (p *APIProbe) checkIoUring() model.Value {
	switch util.ReadSysString(sysPath(p.Root, "/proc/sys/kernel/io_uring_disabled")) {
	case "0":
		return model.Text("enabled")
	case "1":
		return model.Text("restricted")
	case "2":
		return model.Text("disabled")
	}
	// Kernels before the knob existed neither confirm nor deny.
	return model.Absent()
}

func (p *APIProbe) checkKVM() model.Value {
	return supportedIf(util.Exists(sysPath(p.Root, "/dev/kvm")))
}

func (p *APIProbe) checkSeccomp() model.Value {
	actions := util.ReadSysString(sysPath(p.Root, "/proc/sys/kernel/seccomp/actions_avail"))
	return supportedIf(actions != "")
}

func (p *APIProbe) checkLandlock() model.Value {
	lsm := util.ReadSysString(sysPath(p.Root, "/sys/kernel/security/lsm"))
	if lsm == "" {
		return model.Absent()
	}
	return supportedIf(strings.Contains(lsm, "landlock"))
}

func (p *APIProbe) checkUserNS() model.Value {
	v := util.ReadSysString(sysPath(p.Root, "/proc/sys/user/max_user_namespaces"))
	switch {
	case v == "":
		return model.Absent()
	case util.ParseInt(v) > 0:
		return model.Text("supported")
	}
	return model.Text("disabled")
}

func (p *APIProbe) checkFuse() model.Value {
	return supportedIf(util.Exists(sysPath(p.Root, "/dev/fuse")))
}

func (p *APIProbe) checkTun() model.Value {
	return supportedIf(util.Exists(sysPath(p.Root, "/dev/net/tun")))
}

func (p *APIProbe) checkVsock() model.Value {
	return supportedIf(util.Exists(sysPath(p.Root, "/dev/vsock")))
}

// checkBPF loads a trivial program through the verifier instead of
// trusting any /proc flag. Lack of privilege is its own answer.
func (p *APIProbe) checkBPF() model.Value {
	err := p.progLoad(ebpf.SocketFilter)
	switch {
	case err == nil:
		return model.Text("supported")
	case errors.Is(err, ebpf.ErrNotSupported):
		return model.NotSupported()
	case errors.Is(err, os.ErrPermission):
		return model.AbsentBecause("permission denied")
	}
	return model.Failed(err)
}

func (p *APIProbe) checkBinfmt() model.Value {
	status := util.ReadSysString(sysPath(p.Root, "/proc/sys/fs/binfmt_misc/status"))
	if status == "" {
		return model.NotSupported()
	}
	return model.Text(status)
}

func (p *APIProbe) checkHugePages() model.Value {
	mode := util.ReadSysString(sysPath(p.Root, "/sys/kernel/mm/transparent_hugepage/enabled"))
	if mode == "" {
		return model.NotSupported()
	}
	if sel := bracketChoice(mode); sel != "" {
		return model.Text(sel)
	}
	return model.Text(mode)
}

// bracketChoice extracts the selected option from a sysfs line like
// "always [madvise] never".
func bracketChoice(s string) string {
	start := strings.Index(s, "[")
	end := strings.Index(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start+1 : end]
}
