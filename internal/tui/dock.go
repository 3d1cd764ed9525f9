package tui

import (
	"fmt"
	"strings"

	"github.com/jask/orbit/internal/state"
)

// renderDock draws the command dock: the four views with the active one
// highlighted and the cursor shown while the dock has focus.
func renderDock(active state.View, cursor int, focused bool, width, height int) string {
	inner := width - 4
	lines := []string{accentStyle.Render("◉ Orbit"), ""}
	for i, v := range state.Views() {
		label := truncate(fmt.Sprintf("%d %s", i+1, v.Label), inner-2)
		marker := "  "
		if focused && i == cursor {
			marker = cursorStyle.Render("▸ ")
		}
		switch {
		case v.View == active:
			label = selectedStyle.Render(padRight(label, inner-2))
		default:
			label = subtleStyle.Render(label)
		}
		lines = append(lines, marker+label)
	}
	return pane(focused).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}
