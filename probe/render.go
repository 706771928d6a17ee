package probe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"time"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// Raster dimensions for the render fingerprint. Fixed so the hash is
// comparable between runs on the same machine.
const (
	renderW = 192
	renderH = 64
)

// RenderProbe draws a fixed composition into an in-memory RGBA raster
// and hashes the pixels. The surface never reaches a display; the
// interesting outputs are the digest and how long the fill took.
type RenderProbe struct{}

func NewRenderProbe() *RenderProbe {
	return &RenderProbe{}
}

func (p *RenderProbe) Name() string  { return "render" }
func (p *RenderProbe) Title() string { return "Render Fingerprint" }

func (p *RenderProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	start := time.Now()
	img := drawPattern(renderW, renderH)
	sum := sha256.Sum256(img.Pix)
	elapsed := time.Since(start)

	g.Add("surface", model.Textf("%dx%d rgba", renderW, renderH))
	g.Add("hash", model.Text(hex.EncodeToString(sum[:8])))
	g.Add("renderTime", model.Text(util.FmtDuration(elapsed)))
	return g
}

// drawPattern fills a raster with a gradient, an xor weave, three
// disks, and a diagonal hatch. Integer math only, so the pixel bytes
// are identical on every run and architecture.
func drawPattern(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	type disk struct{ cx, cy, r int }
	disks := []disk{{48, 20, 14}, {96, 40, 18}, {150, 16, 10}}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8(x * 255 / w)
			gc := uint8(y * 255 / h)
			b := uint8((x ^ y) & 0xff)

			for _, d := range disks {
				dx, dy := x-d.cx, y-d.cy
				if dx*dx+dy*dy <= d.r*d.r {
					r, gc, b = gc, b, r
					break
				}
			}
			if (x+y)%9 == 0 {
				r |= 0x40
				gc |= 0x20
			}

			off := img.PixOffset(x, y)
			img.Pix[off+0] = r
			img.Pix[off+1] = gc
			img.Pix[off+2] = b
			img.Pix[off+3] = 0xff
		}
	}
	return img
}
