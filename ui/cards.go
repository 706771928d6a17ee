package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/probekit/devcheck/model"
)

// Column widths shared by every card so values line up across groups.
const (
	colKey      = 20 // row key column, includes the colon
	maxBoxInner = 58 // max inner width for capability cards
	minBoxInner = 40
)

// styledPad pads a styled string to the given visual width using spaces.
// Unlike fmt.Sprintf("%-Xs"), this accounts for ANSI escape codes.
func styledPad(styled string, width int) string {
	visW := lipgloss.Width(styled)
	if visW >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-visW)
}

// truncate shortens s to maxLen characters with ellipsis if needed.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// boxTopTitle renders the top border of a rounded box with the title
// embedded in the border line.
func boxTopTitle(title string, innerW int) string {
	rest := innerW + 1 - lipgloss.Width(title)
	if rest < 0 {
		rest = 0
	}
	return " " + dimStyle.Render("╭─") + title + dimStyle.Render(strings.Repeat("─", rest)+"╮")
}

// boxBot renders the bottom border of a rounded box.
func boxBot(innerW int) string {
	return " " + dimStyle.Render("╰"+strings.Repeat("─", innerW+2)+"╯")
}

// boxRow renders one content line inside a box, padded to innerW.
func boxRow(content string, innerW int) string {
	visW := lipgloss.Width(content)
	pad := innerW - visW
	if pad < 0 {
		pad = 0
	}
	return " " + dimStyle.Render("│") + " " + content + strings.Repeat(" ", pad) + " " + dimStyle.Render("│")
}

// renderCard renders one probe group as a bordered key/value card.
func renderCard(g model.Group, innerW int) string {
	var sb strings.Builder
	title := headerStyle.Render(" " + strings.ToUpper(g.Title) + " ")
	sb.WriteString(boxTopTitle(title, innerW) + "\n")
	for _, row := range g.Rows {
		key := row.Key
		if len(key) > colKey-2 {
			key = key[:colKey-2]
		}
		val := truncate(row.Val.Display(), innerW-colKey-1)
		content := styledPad(dimStyle.Render(key+":"), colKey) + " " + valueColor(row.Val).Render(val)
		sb.WriteString(boxRow(content, innerW) + "\n")
	}
	sb.WriteString(boxBot(innerW) + "\n")
	return sb.String()
}

// cardInnerW computes the card inner width for a terminal width.
func cardInnerW(termWidth int) int {
	w := termWidth - 6
	if w > maxBoxInner {
		w = maxBoxInner
	}
	if w < minBoxInner {
		w = minBoxInner
	}
	return w
}

// RenderReport renders every group of a report as cards, using two
// columns when the terminal is wide enough. The same renderer backs the
// interactive view and the one-shot text mode, so both look identical.
func RenderReport(rep *model.Report, width int) string {
	if rep == nil || len(rep.Groups) == 0 {
		return dimStyle.Render(" no results") + "\n"
	}

	innerW := cardInnerW(width)
	cardW := innerW + 5
	twoCols := width >= 2*cardW+2

	cards := make([]string, len(rep.Groups))
	total := 0
	for i, g := range rep.Groups {
		cards[i] = renderCard(g, innerW)
		total += len(g.Rows) + 2
	}

	if !twoCols {
		return strings.Join(cards, "")
	}

	// Split the card stack where the line count balances.
	var left, right strings.Builder
	used := 0
	for i, c := range cards {
		if used < (total+1)/2 || i == 0 {
			left.WriteString(c)
			used += len(rep.Groups[i].Rows) + 2
		} else {
			right.WriteString(c)
		}
	}
	return joinColumns(left.String(), right.String(), cardW, "")
}

// joinColumns joins two text blocks side-by-side with a separator.
func joinColumns(left, right string, leftW int, sep string) string {
	leftLines := strings.Split(strings.TrimRight(left, "\n"), "\n")
	rightLines := strings.Split(strings.TrimRight(right, "\n"), "\n")

	maxLines := len(leftLines)
	if len(rightLines) > maxLines {
		maxLines = len(rightLines)
	}

	var sb strings.Builder
	for i := 0; i < maxLines; i++ {
		l := ""
		r := ""
		if i < len(leftLines) {
			l = leftLines[i]
		}
		if i < len(rightLines) {
			r = rightLines[i]
		}
		lVis := lipgloss.Width(l)
		pad := leftW - lVis
		if pad < 0 {
			pad = 0
		}
		sb.WriteString(l)
		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteString(sep)
		sb.WriteString(r)
		sb.WriteString("\n")
	}
	return sb.String()
}
