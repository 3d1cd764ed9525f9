package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, trimmed to the shades Orbit uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent  = colorMauve
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	subtleStyle   = lipgloss.NewStyle().Foreground(colorSubtext0)
	accentStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	sectionStyle  = lipgloss.NewStyle().Foreground(colorSubtext0).Bold(true).MarginTop(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorSurface0).Background(colorAccent).Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(colorAccent).Background(colorSurface0).Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	focusedPaneStyle = paneStyle.BorderForeground(colorFocus)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)

// tierColor gives each tier a stable accent.
func tierColor(tier string) lipgloss.Color {
	switch tier {
	case "Enterprise":
		return colorMauve
	case "Growth":
		return colorBlue
	case "Starter":
		return colorTeal
	default:
		return colorOverlay0
	}
}

// healthColor maps a 0..100 score to red / yellow / green.
func healthColor(health int) lipgloss.Color {
	switch {
	case health < 50:
		return colorRed
	case health < 70:
		return colorPeach
	default:
		return colorGreen
	}
}

func toastColor(kind toastKind) lipgloss.Color {
	switch kind {
	case toastError:
		return colorError
	case toastWarning:
		return colorWarning
	case toastSuccess:
		return colorSuccess
	default:
		return colorInfo
	}
}

func pane(focused bool) lipgloss.Style {
	if focused {
		return focusedPaneStyle
	}
	return paneStyle
}
