package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/service"
)

const pulseTopAccounts = 5

// renderPulse is the portfolio overview shown when nothing is selected.
func renderPulse(accounts []repository.Account, recent []repository.Activity, symbol string, width int) string {
	if len(accounts) == 0 {
		return mutedStyle.Render("The portfolio is empty. Press n to add an account.")
	}
	sum := service.Pulse(accounts, pulseTopAccounts)

	stats := []string{
		statBlock("Accounts", fmt.Sprintf("%d", sum.Accounts), colorText),
		statBlock("Total ARR", service.CompactMoney(sum.TotalARRCents, symbol), colorAccent),
		statBlock("Avg health", fmt.Sprintf("%d", sum.AverageHealth), healthColor(sum.AverageHealth)),
		statBlock("At risk", fmt.Sprintf("%d", sum.AtRisk), colorRed),
	}
	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, stats...))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Top accounts by ARR"))
	b.WriteString("\n")
	for _, a := range sum.Top {
		name := padRight(truncate(a.Name, 20), 20)
		b.WriteString(name + " " + fmt.Sprintf("%12s", service.FormatMoney(a.ARRCents, symbol)) + "  " +
			lipgloss.NewStyle().Foreground(healthColor(a.Health)).Render(fmt.Sprintf("%3d", a.Health)))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Recent activity"))
	b.WriteString("\n")
	if len(recent) == 0 {
		b.WriteString(mutedStyle.Render("Nothing yet."))
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	for _, item := range recent {
		b.WriteString(renderActivity(item, names[item.AccountID], width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func statBlock(label, value string, color lipgloss.Color) string {
	return lipgloss.NewStyle().Width(14).Render(
		mutedStyle.Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Foreground(color).Render(value))
}
