package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/probekit/devcheck/model"
)

// gpsdAddr is the default local gpsd endpoint.
const gpsdAddr = "127.0.0.1:2947"

// LocationProbe resolves position through gpsd. Access is gated: the
// probe first resolves a permission state, and only a granted state
// leads to an actual fix attempt. Denied means the daemon exists but
// refused us; prompt means it is installed but not running.
type LocationProbe struct {
	dial       func(ctx context.Context, network, addr string) (net.Conn, error)
	lookPath   func(file string) (string, error)
	now        func() time.Time
	fixTimeout time.Duration
}

func NewLocationProbe() *LocationProbe {
	d := &net.Dialer{}
	return &LocationProbe{
		dial:       d.DialContext,
		lookPath:   exec.LookPath,
		now:        time.Now,
		fixTimeout: 4 * time.Second,
	}
}

func (p *LocationProbe) Name() string  { return "location" }
func (p *LocationProbe) Title() string { return "Location" }

func (p *LocationProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	state, conn := p.access(ctx)
	g.Add("permission", permValue(state))

	switch state {
	case permGranted:
		fix, err := p.readFix(ctx, conn)
		if err != nil {
			g.Add("coords", model.AbsentBecause("no fix"))
			g.Add("altitude", model.Absent())
		} else {
			g.Add("coords", model.Textf("%.5f, %.5f", fix.Lat, fix.Lon))
			g.Add("altitude", altitudeValue(fix))
		}
	case permPrompt:
		// Installed but not running; the connection attempt above was
		// the whole try.
		g.Add("coords", model.AbsentBecause("no fix"))
		g.Add("altitude", model.Absent())
	default:
		// Denied or unsupported: no position attempt at all.
		g.Add("coords", model.AbsentBecause("permission denied or prompt"))
		g.Add("altitude", model.Absent())
	}

	name, _ := p.now().Zone()
	g.Add("timezone", model.Text(name))
	return g
}

// access resolves the permission state for position data. On a granted
// state the live connection is returned for the fix attempt; every
// other state returns a nil connection.
func (p *LocationProbe) access(ctx context.Context) (permState, net.Conn) {
	dialCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	conn, err := p.dial(dialCtx, "tcp", gpsdAddr)
	if err == nil {
		return permGranted, conn
	}
	if errors.Is(err, os.ErrPermission) {
		return permDenied, nil
	}
	if _, lerr := p.lookPath("gpsd"); lerr == nil {
		return permPrompt, nil
	}
	return permUnsupported, nil
}

// tpvReport is the subset of a gpsd TPV message the probe needs.
type tpvReport struct {
	Class  string  `json:"class"`
	Mode   int     `json:"mode"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Alt    float64 `json:"alt"`
	AltMSL float64 `json:"altMSL"`
}

var errNoFix = errors.New("no position fix")

// readFix subscribes to gpsd on an established connection and waits
// for the first usable TPV report. The connection is always closed
// before returning.
func (p *LocationProbe) readFix(ctx context.Context, conn net.Conn) (*tpvReport, error) {
	defer conn.Close()

	deadline := p.now().Add(p.fixTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	if _, err := fmt.Fprint(conn, `?WATCH={"enable":true,"json":true};`+"\r\n"); err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for sc.Scan() {
		var msg tpvReport
		if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Class == "TPV" && msg.Mode >= 2 && (msg.Lat != 0 || msg.Lon != 0) {
			return &msg, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, errNoFix
}

// altitudeValue reports altitude only for a 3D fix. gpsd emits either
// the legacy alt field or altMSL depending on version.
func altitudeValue(fix *tpvReport) model.Value {
	if fix.Mode < 3 {
		return model.AbsentBecause("2D fix")
	}
	alt := fix.Alt
	if alt == 0 {
		alt = fix.AltMSL
	}
	if alt == 0 {
		return model.Absent()
	}
	return model.Textf("%.0f m", alt)
}
