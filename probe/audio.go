package probe

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

// Synthesis parameters for the audio fingerprint. The sweep runs from
// low to high across one fixed-length buffer.
const (
	audioRate    = 44100
	audioSamples = 2048
	sweepLowHz   = 220.0
	sweepHighHz  = 880.0
)

// AudioProbe synthesizes a frequency sweep through a soft clipper in
// memory, hashes the samples, and reports whether real playback
// hardware exists. The graph ends in gain(0): nothing is ever audible,
// and the buffers die with the probe.
type AudioProbe struct {
	Root string
}

func NewAudioProbe() *AudioProbe {
	return &AudioProbe{}
}

func (p *AudioProbe) Name() string  { return "audio" }
func (p *AudioProbe) Title() string { return "Audio Pipeline" }

func (p *AudioProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	start := time.Now()
	buf := synthSweep()
	digest := hashSamples(buf)
	elapsed := time.Since(start)

	g.Add("graph", model.Text("osc > softclip > gain(0)"))
	g.Add("sampleRate", model.Textf("%d Hz", audioRate))
	g.Add("samples", model.Count(audioSamples))
	g.Add("hash", model.Text(digest))
	g.Add("synthTime", model.Text(util.FmtDuration(elapsed)))

	if util.Exists(sysPath(p.Root, "/proc/asound")) {
		g.Add("playbackDevice", model.YesNo(true))
	} else {
		g.Add("playbackDevice", model.NotSupported())
	}
	return g
}

// synthSweep renders the sweep buffer: a sine oscillator rising from
// sweepLowHz to sweepHighHz, soft-clipped with tanh.
func synthSweep() []float64 {
	buf := make([]float64, audioSamples)
	phase := 0.0
	for i := range buf {
		f := sweepLowHz + (sweepHighHz-sweepLowHz)*float64(i)/audioSamples
		phase += 2 * math.Pi * f / audioRate
		buf[i] = math.Tanh(2.2 * math.Sin(phase))
	}
	return buf
}

// hashSamples digests the exact float bits, so any numeric drift in
// the pipeline changes the fingerprint.
func hashSamples(buf []float64) string {
	h := sha256.New()
	var b [8]byte
	for _, s := range buf {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(s))
		h.Write(b[:])
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}
