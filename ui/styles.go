package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/probekit/devcheck/model"
)

// DisableColor forces plain ASCII output. Honors the NO_COLOR
// convention as well as the -no-color flag.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var (
	// Colors
	colorRed     = lipgloss.Color("#FF5555")
	colorCyan    = lipgloss.Color("#8BE9FD")
	colorMagenta = lipgloss.Color("#FF79C6")
	colorOrange  = lipgloss.Color("#FFB86C")
	colorWhite   = lipgloss.Color("#F8F8F2")
	colorGray    = lipgloss.Color("#6272A4")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	valueStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	critStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(colorGray)
	dimStyle    = lipgloss.NewStyle().Foreground(colorGray)
	orangeStyle = lipgloss.NewStyle().Foreground(colorOrange)
	spinStyle   = lipgloss.NewStyle().Foreground(colorMagenta)
)

// valueColor picks the style for a row value by how the read resolved.
func valueColor(v model.Value) lipgloss.Style {
	switch v.Kind() {
	case model.KindPresent:
		return valueStyle
	case model.KindUnsupported:
		return dimStyle
	case model.KindError:
		return critStyle
	default:
		return orangeStyle
	}
}
