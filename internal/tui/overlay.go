package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter places box horizontally centered and a third of the way down.
func overlayCenter(base, box string, width, height int) string {
	ow, oh := lipgloss.Width(box), lipgloss.Height(box)
	x := (width - ow) / 2
	y := (height - oh) / 3
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return overlayAt(base, box, x, y, width, height)
}

// overlayAt draws box over base with its top-left cell at (x, y). Rows of
// base are padded to width first so the box can land past a short line.
func overlayAt(base, box string, x, y, width, height int) string {
	rows := strings.Split(base, "\n")
	for len(rows) < height {
		rows = append(rows, "")
	}
	boxRows := strings.Split(box, "\n")
	boxWidth := maxLineWidth(boxRows)
	for i, line := range boxRows {
		row := y + i
		if row < 0 || row >= height || row >= len(rows) {
			continue
		}
		rows[row] = spliceRow(padRight(rows[row], width), padRight(line, boxWidth), x, width)
	}
	return strings.Join(rows, "\n")
}

// spliceRow replaces the cells of row starting at column x with insert.
func spliceRow(row, insert string, x, width int) string {
	end := x + ansi.StringWidth(insert)
	left := padRight(ansi.Cut(row, 0, x), x)
	if end >= width {
		return left + insert
	}
	return left + insert + ansi.Cut(row, end, width)
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, ending with an ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
