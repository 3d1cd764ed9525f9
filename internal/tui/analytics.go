package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/service"
)

// renderAnalytics breaks the portfolio down by tier and health band.
func renderAnalytics(accounts []repository.Account, symbol string, width int) string {
	barWidth := max(6, min(30, width-38))
	var b strings.Builder

	b.WriteString(sectionStyle.MarginTop(0).Render("ARR by tier"))
	b.WriteString("\n")
	for _, t := range service.TierBreakdown(accounts) {
		filled := int(t.Share*float64(barWidth) + 0.5)
		bar := lipgloss.NewStyle().Foreground(tierColor(t.Tier)).Render(strings.Repeat("█", filled)) +
			strings.Repeat(" ", barWidth-filled)
		b.WriteString(fmt.Sprintf("%-10s %2d  %s %3.0f%%  %s\n",
			t.Tier, t.Accounts, bar, t.Share*100, mutedStyle.Render(service.CompactMoney(t.ARRCents, symbol))))
	}

	b.WriteString(sectionStyle.Render("Health"))
	b.WriteString("\n")
	total := len(accounts)
	for _, band := range service.HealthBands(accounts) {
		filled := 0
		if total > 0 {
			filled = (band.Accounts*barWidth + total/2) / total
		}
		bar := lipgloss.NewStyle().Foreground(healthColor(band.Min)).Render(strings.Repeat("█", filled)) +
			strings.Repeat(" ", barWidth-filled)
		b.WriteString(fmt.Sprintf("%-10s %2d  %s  %s\n",
			band.Label, band.Accounts, bar, mutedStyle.Render(fmt.Sprintf("%d-%d", band.Min, band.Max))))
	}
	return strings.TrimRight(b.String(), "\n")
}
