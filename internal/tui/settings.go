package tui

import (
	"fmt"
	"strings"

	"github.com/jask/orbit/internal/config"
	"github.com/jask/orbit/internal/state"
)

var settingsScopes = []string{scopeGlobal, scopeDock, scopeList, scopeDeepDive, scopeSettings, scopePalette, scopeModal}

// renderSettings shows the effective configuration and key bindings.
func renderSettings(cfg config.Config, keys *KeyRegistry, width int) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(mutedStyle.Width(16).Render(label) + truncate(value, max(8, width-16)) + "\n")
	}

	b.WriteString(sectionStyle.MarginTop(0).Render("Configuration"))
	b.WriteString("\n")
	row("Config file", config.Path())
	row("Database", cfg.Database.Path)
	row("Log file", cfg.Log.Path+" ("+cfg.Log.Level+")")
	row("Currency", cfg.UI.CurrencySymbol)
	row("Toasts", fmt.Sprintf("%ds", cfg.UI.ToastSeconds))
	row("Default view", accentStyle.Render(state.ParseView(cfg.UI.DefaultView).Label()))

	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	b.WriteString(renderHints(keys, scopeSettings))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Key bindings"))
	b.WriteString("\n")
	for _, scope := range settingsScopes {
		var parts []string
		for _, binding := range keys.BindingsForScope(scope) {
			parts = append(parts, binding.Keys[0]+" "+mutedStyle.Render(binding.Help))
		}
		if len(parts) == 0 {
			continue
		}
		b.WriteString(subtleStyle.Width(11).Render(scope) + truncate(strings.Join(parts, "  "), max(8, width-11)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
