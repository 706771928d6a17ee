package probe

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

var drmCardRe = regexp.MustCompile(`^card[0-9]+$`)

// GraphicsProbe reports GPU hardware known to the DRM subsystem and any
// in-terminal graphics protocol the session advertises.
type GraphicsProbe struct {
	Root   string
	getenv func(string) string
}

func NewGraphicsProbe() *GraphicsProbe {
	return &GraphicsProbe{getenv: os.Getenv}
}

func (p *GraphicsProbe) Name() string  { return "graphics" }
func (p *GraphicsProbe) Title() string { return "Graphics" }

func (p *GraphicsProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	drm := sysPath(p.Root, "/sys/class/drm")
	names := util.DirNames(drm)
	if names == nil {
		g.Add("gpus", model.NotSupported())
		g.Add("terminalGraphics", terminalGraphicsValue(p.getenv))
		return g
	}

	var cards []string
	renderNodes := 0
	for _, name := range names {
		if drmCardRe.MatchString(name) {
			cards = append(cards, name)
		}
		if strings.HasPrefix(name, "renderD") {
			renderNodes++
		}
	}

	g.Add("gpus", model.Count(len(cards)))
	for i, card := range cards {
		g.Add(gpuKey(i), gpuValue(drm+"/"+card))
	}
	g.Add("renderNodes", model.Count(renderNodes))
	g.Add("terminalGraphics", terminalGraphicsValue(p.getenv))
	return g
}

func gpuKey(i int) string {
	return fmt.Sprintf("gpu%d", i)
}

// gpuValue reads a DRM card's uevent for its driver and PCI identity.
func gpuValue(cardDir string) model.Value {
	kv, err := util.ParseKeyValueFile(cardDir + "/device/uevent")
	if err != nil {
		return model.Failed(err)
	}
	driver := kv["DRIVER"]
	pciID := kv["PCI_ID"]
	switch {
	case driver != "" && pciID != "":
		return model.Textf("%s (%s)", driver, strings.ToLower(pciID))
	case driver != "":
		return model.Text(driver)
	}
	return model.Absent()
}

// terminalGraphicsValue detects an in-terminal raster protocol from the
// session environment.
func terminalGraphicsValue(getenv func(string) string) model.Value {
	term := getenv("TERM")
	switch {
	case getenv("KITTY_WINDOW_ID") != "" || strings.Contains(term, "kitty"):
		return model.Text("kitty protocol")
	case strings.Contains(term, "sixel") || strings.Contains(getenv("COLORTERM"), "sixel"):
		return model.Text("sixel")
	case getenv("TERM_PROGRAM") == "iTerm.app" || getenv("TERM_PROGRAM") == "WezTerm":
		return model.Text("inline images")
	}
	return model.Text("none detected")
}
