package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/probekit/devcheck/model"
)

func sampleReport() *model.Report {
	alpha := model.Group{Name: "alpha", Title: "Alpha"}
	alpha.Add("first", model.Text("one"))
	alpha.Add("second", model.Absent())
	alpha.Add("third", model.NotSupported())

	beta := model.Group{Name: "beta", Title: "Beta"}
	beta.Add("fourth", model.Text("four"))

	return &model.Report{
		Taken:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Groups: []model.Group{alpha, beta},
	}
}

func TestRenderCardShape(t *testing.T) {
	g := model.Group{Name: "g", Title: "Gadgets"}
	g.Add("count", model.Count(3))
	g.Add("driver", model.Absent())

	out := renderCard(g, 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("card has %d lines, want 4 (top, 2 rows, bottom)", len(lines))
	}
	if !strings.Contains(lines[0], "GADGETS") {
		t.Errorf("title line = %q, want GADGETS embedded", lines[0])
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 45 {
			t.Errorf("line %d visual width = %d, want 45", i, w)
		}
	}
	if !strings.Contains(out, "unknown") {
		t.Error("absent row did not render the unknown sentinel")
	}
}

func TestRenderReportSingleColumn(t *testing.T) {
	out := RenderReport(sampleReport(), 80)

	alphaAt := strings.Index(out, "ALPHA")
	betaAt := strings.Index(out, "BETA")
	if alphaAt < 0 || betaAt < 0 {
		t.Fatalf("missing group titles in output:\n%s", out)
	}
	if alphaAt > betaAt {
		t.Error("groups rendered out of order")
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "ALPHA") && strings.Contains(line, "BETA") {
			t.Error("narrow terminal should stack cards, found side-by-side titles")
		}
	}
}

func TestRenderReportTwoColumns(t *testing.T) {
	out := RenderReport(sampleReport(), 160)

	found := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "ALPHA") && strings.Contains(line, "BETA") {
			found = true
		}
	}
	if !found {
		t.Errorf("wide terminal should place cards side by side:\n%s", out)
	}
}

func TestRenderReportEmpty(t *testing.T) {
	if out := RenderReport(nil, 80); !strings.Contains(out, "no results") {
		t.Errorf("nil report = %q, want placeholder", out)
	}
	if out := RenderReport(&model.Report{}, 80); !strings.Contains(out, "no results") {
		t.Errorf("empty report = %q, want placeholder", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"much longer than that", 10, "much lo..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestJoinColumnsUnevenBlocks(t *testing.T) {
	left := "a1\na2\na3\n"
	right := "b1\n"

	out := joinColumns(left, right, 4, "")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("joined lines = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "a1  b1") {
		t.Errorf("line 0 = %q, want left padded to 4 then right", lines[0])
	}
	if strings.TrimRight(lines[2], " ") != "a3" {
		t.Errorf("line 2 = %q, want bare left cell", lines[2])
	}
}

func TestCardInnerW(t *testing.T) {
	if got := cardInnerW(200); got != maxBoxInner {
		t.Errorf("cardInnerW(200) = %d, want %d", got, maxBoxInner)
	}
	if got := cardInnerW(30); got != minBoxInner {
		t.Errorf("cardInnerW(30) = %d, want %d", got, minBoxInner)
	}
	if got := cardInnerW(56); got != 50 {
		t.Errorf("cardInnerW(56) = %d, want 50", got)
	}
}
