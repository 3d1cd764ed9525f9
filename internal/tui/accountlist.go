package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/service"
)

// renderAccountList draws the scrollable account list. The selected account
// is highlighted; the cursor marker follows keyboard navigation.
func renderAccountList(accounts []repository.Account, selectedID string, cursor int, focused bool, symbol string, width, height int) string {
	inner := width - 4
	header := titleStyle.Render("Accounts") + mutedStyle.Render(fmt.Sprintf(" %d", len(accounts)))
	lines := []string{header, ""}

	if len(accounts) == 0 {
		lines = append(lines, mutedStyle.Render("No accounts yet."), mutedStyle.Render("Press n to create one."))
	}

	visible := max(1, height-5)
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	for i := start; i < len(accounts) && i < start+visible; i++ {
		lines = append(lines, renderAccountRow(accounts[i], accounts[i].ID == selectedID, focused && i == cursor, symbol, inner))
	}

	return pane(focused).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func renderAccountRow(a repository.Account, selected, isCursor bool, symbol string, width int) string {
	marker := "  "
	if isCursor {
		marker = cursorStyle.Render("▸ ")
	}
	tier := lipgloss.NewStyle().Foreground(tierColor(a.Tier)).Render(tierInitial(a.Tier))
	health := lipgloss.NewStyle().Foreground(healthColor(a.Health)).Render(fmt.Sprintf("%3d", a.Health))
	arr := mutedStyle.Render(fmt.Sprintf("%6s", service.CompactMoney(a.ARRCents, symbol)))

	nameWidth := max(4, width-2-2-4-7)
	name := padRight(truncate(a.Name, nameWidth), nameWidth)
	if selected {
		name = selectedStyle.Render(name)
	}
	return marker + name + " " + tier + " " + health + " " + arr
}

func tierInitial(tier string) string {
	for _, r := range tier {
		return string(r)
	}
	return "?"
}
