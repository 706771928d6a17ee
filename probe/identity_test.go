package probe

import (
	"context"
	"errors"
	"os/user"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

func TestIdentityProbeRows(t *testing.T) {
	p := &IdentityProbe{
		hostInfo: func(ctx context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{
				Hostname:             "devbox",
				Platform:             "arch",
				PlatformVersion:      "rolling",
				KernelVersion:        "6.12.1-arch1",
				KernelArch:           "x86_64",
				VirtualizationSystem: "kvm",
				VirtualizationRole:   "guest",
			}, nil
		},
		currentUser: func() (*user.User, error) {
			return &user.User{Username: "dev"}, nil
		},
		getenv: envMap(map[string]string{"LANG": "en_US.UTF-8"}),
		now: func() time.Time {
			return time.Date(2026, 1, 10, 12, 0, 0, 0, time.FixedZone("CET", 3600))
		},
	}

	g := p.Probe(context.Background())

	cases := map[string]string{
		"hostname":       "devbox",
		"os":             "arch rolling",
		"kernel":         "6.12.1-arch1",
		"arch":           "x86_64",
		"virtualization": "kvm (guest)",
		"user":           "dev",
		"locale":         "en_US.UTF-8",
		"timezone":       "CET (UTC+01:00)",
	}
	for key, want := range cases {
		if got := g.Get(key).Display(); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestIdentityProbeHostInfoFailure(t *testing.T) {
	p := &IdentityProbe{
		hostInfo: func(ctx context.Context) (*host.InfoStat, error) {
			return nil, errors.New("host info unavailable")
		},
		currentUser: func() (*user.User, error) { return nil, errors.New("no user db") },
		getenv:      envMap(map[string]string{"USER": "fallback"}),
		now:         time.Now,
	}

	g := p.Probe(context.Background())

	for _, key := range []string{"hostname", "os", "kernel", "arch", "virtualization"} {
		if got := g.Get(key).Display(); got != "unknown" {
			t.Errorf("%s = %q, want unknown", key, got)
		}
	}
	if got := g.Get("user").Display(); got != "fallback" {
		t.Errorf("user = %q, want env fallback", got)
	}
}

func TestVirtValue(t *testing.T) {
	cases := []struct {
		system, role string
		want         string
	}{
		{"", "", "none detected"},
		{"docker", "", "docker"},
		{"kvm", "host", "kvm (host)"},
	}
	for _, c := range cases {
		if got := virtValue(c.system, c.role).Display(); got != c.want {
			t.Errorf("virtValue(%q, %q) = %q, want %q", c.system, c.role, got, c.want)
		}
	}
}

func TestLocaleValuePrecedence(t *testing.T) {
	env := map[string]string{"LC_ALL": "de_DE.UTF-8", "LANG": "en_US.UTF-8"}
	if got := localeValue(envMap(env)).Display(); got != "de_DE.UTF-8" {
		t.Errorf("LC_ALL should win, got %q", got)
	}
	if got := localeValue(envMap(nil)).Display(); got != "unknown" {
		t.Errorf("empty env locale = %q, want unknown", got)
	}
}

func TestFmtUTCOffset(t *testing.T) {
	cases := []struct {
		sec  int
		want string
	}{
		{0, "UTC+00:00"},
		{3600, "UTC+01:00"},
		{-18000, "UTC-05:00"},
		{19800, "UTC+05:30"},
	}
	for _, c := range cases {
		if got := fmtUTCOffset(c.sec); got != c.want {
			t.Errorf("fmtUTCOffset(%d) = %q, want %q", c.sec, got, c.want)
		}
	}
}
