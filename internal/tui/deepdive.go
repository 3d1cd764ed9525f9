package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/service"
)

const healthBarWidth = 20

// renderDeepDive shows one account: metrics then its activity timeline.
func renderDeepDive(a repository.Account, timeline []repository.Activity, loaded bool, symbol string, width int) string {
	var b strings.Builder

	meta := []string{}
	if a.Industry != "" {
		meta = append(meta, a.Industry)
	}
	if a.Owner != "" {
		meta = append(meta, "owned by "+a.Owner)
	}
	if len(meta) > 0 {
		b.WriteString(subtleStyle.Render(truncate(strings.Join(meta, " · "), width)))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Metrics"))
	b.WriteString("\n")
	b.WriteString(metricLine("ARR", service.FormatMoney(a.ARRCents, symbol)))
	b.WriteString(metricLine("Health", healthBar(a.Health, healthBarWidth)+" "+
		lipgloss.NewStyle().Foreground(healthColor(a.Health)).Render(fmt.Sprintf("%d %s", a.Health, service.HealthLabel(a.Health)))))
	b.WriteString(metricLine("Tier", lipgloss.NewStyle().Foreground(tierColor(a.Tier)).Render(a.Tier)))
	if !a.CreatedAt.IsZero() {
		b.WriteString(metricLine("Since", a.CreatedAt.Format("Jan 2, 2006")))
	}

	b.WriteString(sectionStyle.Render("Activity"))
	b.WriteString("\n")
	switch {
	case !loaded:
		b.WriteString(mutedStyle.Render("Loading activity…"))
	case len(timeline) == 0:
		b.WriteString(mutedStyle.Render("No activity recorded."))
	default:
		for _, item := range timeline {
			b.WriteString(renderActivity(item, "", width))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func metricLine(label, value string) string {
	return mutedStyle.Width(8).Render(label) + value + "\n"
}

// healthBar renders score as a filled bar of width cells.
func healthBar(score, width int) string {
	score = min(100, max(0, score))
	filled := (score*width + 50) / 100
	return lipgloss.NewStyle().Foreground(healthColor(score)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("░", width-filled))
}

func renderActivity(item repository.Activity, account string, width int) string {
	when := mutedStyle.Render(item.OccurredAt.Local().Format("Jan 02"))
	kind := activityGlyph(item.Kind)
	text := item.Summary
	if account != "" {
		text = account + ": " + text
	}
	return when + " " + kind + " " + truncate(text, max(8, width-10))
}

func activityGlyph(kind string) string {
	switch kind {
	case repository.ActivityCreated:
		return lipgloss.NewStyle().Foreground(colorSuccess).Render("+")
	case repository.ActivityUpdated:
		return lipgloss.NewStyle().Foreground(colorBlue).Render("~")
	default:
		return lipgloss.NewStyle().Foreground(colorPink).Render("•")
	}
}
