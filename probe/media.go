package probe

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/util"
)

var videoDevRe = regexp.MustCompile(`^video[0-9]+$`)

// MediaProbe enumerates capture and playback hardware: V4L cameras and
// ALSA sound cards. A machine with neither subsystem reports media
// enumeration itself as unsupported, as a single row.
type MediaProbe struct {
	Root string
}

func NewMediaProbe() *MediaProbe {
	return &MediaProbe{}
}

func (p *MediaProbe) Name() string  { return "media" }
func (p *MediaProbe) Title() string { return "Media Devices" }

func (p *MediaProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: p.Name(), Title: p.Title()}

	videoDir := sysPath(p.Root, "/sys/class/video4linux")
	asoundDir := sysPath(p.Root, "/proc/asound")
	haveVideo := util.Exists(videoDir)
	haveSound := util.Exists(asoundDir)
	if !haveVideo && !haveSound {
		g.Add("mediaDevices", model.NotSupported())
		return g
	}

	var cameras []string
	for _, name := range util.DirNames(videoDir) {
		if videoDevRe.MatchString(name) {
			cameras = append(cameras, name)
		}
	}
	g.Add("cameras", model.Count(len(cameras)))
	for _, cam := range cameras {
		g.Add(cam, model.Text(util.ReadSysString(videoDir+"/"+cam+"/name")))
	}

	cards := parseSoundCards(asoundDir + "/cards")
	g.Add("soundCards", model.Count(len(cards)))
	for i, card := range cards {
		g.Add(fmt.Sprintf("audio%d", i), model.Text(card))
	}

	playback, capture := pcmDirections(asoundDir + "/pcm")
	g.Add("playback", model.YesNo(playback))
	g.Add("capture", model.YesNo(capture))
	return g
}

// parseSoundCards extracts card descriptions from /proc/asound/cards.
// Card header lines look like:
//
//	0 [PCH            ]: HDA-Intel - HDA Intel PCH
func parseSoundCards(path string) []string {
	lines, err := util.ReadFileLines(path)
	if err != nil {
		return nil
	}
	var cards []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "---") {
			continue
		}
		idx := strings.Index(line, "]:")
		if idx < 0 {
			continue // description continuation line
		}
		if desc := strings.TrimSpace(line[idx+2:]); desc != "" {
			cards = append(cards, desc)
		}
	}
	return cards
}

// pcmDirections scans /proc/asound/pcm for playback and capture
// stream declarations.
func pcmDirections(path string) (playback, capture bool) {
	lines, err := util.ReadFileLines(path)
	if err != nil {
		return false, false
	}
	for _, line := range lines {
		if strings.Contains(line, "playback") {
			playback = true
		}
		if strings.Contains(line, "capture") {
			capture = true
		}
	}
	return playback, capture
}
