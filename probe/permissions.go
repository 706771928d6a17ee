package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// accessCheck names one capability and the function resolving its
// permission state.
type accessCheck struct {
	name  string
	check func(p *PermissionsProbe) permState
}

// accessChecks is the fixed check table. Row order in the card follows
// this table, every run.
var accessChecks = []accessCheck{
	{"geolocation", (*PermissionsProbe).checkGeolocation},
	{"microphone", (*PermissionsProbe).checkMicrophone},
	{"camera", (*PermissionsProbe).checkCamera},
	{"notifications", (*PermissionsProbe).checkNotifications},
	{"persistent-storage", (*PermissionsProbe).checkPersistentStorage},
	{"push", (*PermissionsProbe).checkPush},
	{"clipboard-read", (*PermissionsProbe).checkClipboardRead},
	{"clipboard-write", (*PermissionsProbe).checkClipboardWrite},
	{"background-sync", (*PermissionsProbe).checkBackgroundSync},
}

// PermissionsProbe resolves a fixed set of named access checks into
// granted, prompt, denied, or unsupported. Checks only stat, access,
// and look up binaries; none of them touch the capability itself.
type PermissionsProbe struct {
	Root     string
	getenv   func(string) string
	lookPath func(file string) (string, error)
	access   func(path string, mode uint32) error
	listen   func(network, addr string) (net.Listener, error)
}

func NewPermissionsProbe() *PermissionsProbe {
	return &PermissionsProbe{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		access:   unix.Access,
		listen:   net.Listen,
	}
}

func (p *PermissionsProbe) Name() string  { return "permissions" }
func (p *PermissionsProbe) Title() string { return "Access Checks" }

func (p *PermissionsProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}
	for _, c := range accessChecks {
		g.Add(c.name, permValue(c.check(p)))
	}
	return g
}

func (p *PermissionsProbe) has(tool string) bool {
	_, err := p.lookPath(tool)
	return err == nil
}

// checkGeolocation inspects the gpsd control socket without opening a
// session; the location probe owns the actual fix attempt.
func (p *PermissionsProbe) checkGeolocation() permState {
	sock := sysPath(p.Root, "/var/run/gpsd.sock")
	if util.Exists(sock) {
		err := p.access(sock, unix.R_OK|unix.W_OK)
		if err == nil {
			return permGranted
		}
		if errors.Is(err, os.ErrPermission) {
			return permDenied
		}
		return permPrompt
	}
	if p.has("gpsd") {
		return permPrompt
	}
	return permUnsupported
}

func (p *PermissionsProbe) checkMicrophone() permState {
	if !util.Exists(sysPath(p.Root, "/proc/asound")) {
		return permUnsupported
	}
	snd := sysPath(p.Root, "/dev/snd")
	if !util.Exists(snd) {
		// Driver present but device nodes not exposed, typical for
		// containers.
		return permPrompt
	}
	err := p.access(snd, unix.R_OK|unix.X_OK)
	if err == nil {
		return permGranted
	}
	if errors.Is(err, os.ErrPermission) {
		return permDenied
	}
	return permPrompt
}

func (p *PermissionsProbe) checkCamera() permState {
	var cams []string
	for _, name := range util.DirNames(sysPath(p.Root, "/sys/class/video4linux")) {
		if videoDevRe.MatchString(name) {
			cams = append(cams, name)
		}
	}
	if len(cams) == 0 {
		return permUnsupported
	}
	node := sysPath(p.Root, "/dev/"+cams[0])
	if !util.Exists(node) {
		return permPrompt
	}
	err := p.access(node, unix.R_OK|unix.W_OK)
	if err == nil {
		return permGranted
	}
	if errors.Is(err, os.ErrPermission) {
		return permDenied
	}
	return permPrompt
}

func (p *PermissionsProbe) checkNotifications() permState {
	tool := p.has("notify-send")
	bus := p.getenv("DBUS_SESSION_BUS_ADDRESS") != ""
	switch {
	case tool && bus:
		return permGranted
	case tool || bus:
		return permPrompt
	}
	return permUnsupported
}

func (p *PermissionsProbe) checkPersistentStorage() permState {
	dataDir := p.getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home := p.getenv("HOME")
		if home == "" {
			return permUnsupported
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	err := p.access(dataDir, unix.W_OK)
	if err == nil {
		return permGranted
	}
	if errors.Is(err, os.ErrPermission) {
		return permDenied
	}
	// Directory does not exist yet but could be created.
	return permPrompt
}

// checkPush verifies we may open a local listening socket, the host
// equivalent of being reachable for push delivery.
func (p *PermissionsProbe) checkPush() permState {
	ln, err := p.listen("tcp", "127.0.0.1:0")
	if err == nil {
		ln.Close()
		return permGranted
	}
	if errors.Is(err, os.ErrPermission) {
		return permDenied
	}
	return permUnsupported
}

func (p *PermissionsProbe) checkClipboardRead() permState {
	return p.clipboardState("wl-paste", "xclip", "xsel")
}

func (p *PermissionsProbe) checkClipboardWrite() permState {
	return p.clipboardState("wl-copy", "xclip", "xsel")
}

// clipboardState pairs a clipboard tool with a live display session.
// Tool without display (or display without tool) can be fixed by the
// user, so it resolves to prompt.
func (p *PermissionsProbe) clipboardState(tools ...string) permState {
	tool := false
	for _, t := range tools {
		if p.has(t) {
			tool = true
			break
		}
	}
	display := p.getenv("WAYLAND_DISPLAY") != "" || p.getenv("DISPLAY") != ""
	switch {
	case tool && display:
		return permGranted
	case tool || display:
		return permPrompt
	}
	return permUnsupported
}

func (p *PermissionsProbe) checkBackgroundSync() permState {
	if p.has("systemctl") {
		if p.getenv("XDG_RUNTIME_DIR") != "" {
			return permGranted
		}
		return permPrompt
	}
	if p.has("crontab") {
		return permGranted
	}
	return permUnsupported
}
