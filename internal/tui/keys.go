package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/orbit/internal/config"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps keys to actions per scope. Lookup falls back to the
// global scope; LookupExact does not, which overlays with text input need.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal   = "global"
	scopeDock     = "dock"
	scopeList     = "list"
	scopeStage    = "stage"
	scopeDeepDive = "deep_dive"
	scopeSettings = "settings"
	scopePalette  = "palette"
	scopeModal    = "modal"
	scopeConfirm  = "confirm"
)

const (
	actionQuit        Action = "quit"
	actionNextFocus   Action = "next_focus"
	actionPrevFocus   Action = "prev_focus"
	actionPalette     Action = "palette"
	actionGoOverview  Action = "go_overview"
	actionGoAccounts  Action = "go_accounts"
	actionGoAnalytics Action = "go_analytics"
	actionGoSettings  Action = "go_settings"
	actionNewAccount  Action = "new_account"
	actionNavigate    Action = "navigate"
	actionSelect      Action = "select"
	actionEdit        Action = "edit"
	actionBack        Action = "back"
	actionClose       Action = "close"
	actionSave        Action = "save"
	actionNextField   Action = "next_field"
	actionPrevField   Action = "prev_field"
	actionCycle       Action = "cycle"
	actionDefaultView Action = "default_view"
	actionReset       Action = "reset"
	actionConfirm     Action = "confirm"
	actionCancel      Action = "cancel"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	// Global fallback lookup.
	reg(scopeGlobal, actionPalette, []string{"ctrl+k", "/"}, "search")
	reg(scopeGlobal, actionNextFocus, []string{"tab"}, "next pane")
	reg(scopeGlobal, actionPrevFocus, []string{"shift+tab"}, "prev pane")
	reg(scopeGlobal, actionGoOverview, []string{"1"}, "overview")
	reg(scopeGlobal, actionGoAccounts, []string{"2"}, "accounts")
	reg(scopeGlobal, actionGoAnalytics, []string{"3"}, "analytics")
	reg(scopeGlobal, actionGoSettings, []string{"4"}, "settings")
	reg(scopeGlobal, actionNewAccount, []string{"n"}, "new account")
	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeDock, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeDock, actionSelect, []string{"enter"}, "open view")

	reg(scopeList, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeList, actionSelect, []string{"enter"}, "open account")

	reg(scopeDeepDive, actionEdit, []string{"e"}, "edit")
	reg(scopeDeepDive, actionBack, []string{"esc", "backspace"}, "back")

	reg(scopeSettings, actionDefaultView, []string{"d"}, "default view")
	reg(scopeSettings, actionReset, []string{"x"}, "reset data")

	reg(scopePalette, actionNavigate, []string{"up/down", "up", "down", "ctrl+p", "ctrl+n"}, "navigate")
	reg(scopePalette, actionSelect, []string{"enter"}, "run")
	reg(scopePalette, actionClose, []string{"esc"}, "close")

	reg(scopeModal, actionNextField, []string{"tab", "down"}, "next field")
	reg(scopeModal, actionPrevField, []string{"shift+tab", "up"}, "prev field")
	reg(scopeModal, actionCycle, []string{"h/l", "left", "right"}, "tier")
	reg(scopeModal, actionSave, []string{"enter"}, "save")
	reg(scopeModal, actionClose, []string{"esc"}, "cancel")

	reg(scopeConfirm, actionConfirm, []string{"y"}, "yes")
	reg(scopeConfirm, actionCancel, []string{"n", "esc"}, "no")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if b := r.LookupExact(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.LookupExact(keyName, scopeGlobal)
	}
	return nil
}

func (r *KeyRegistry) LookupExact(keyName, scope string) *Binding {
	if r == nil || keyName == "" || scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[normalizeKeyName(keyName)]
}

func (r *KeyRegistry) HelpBindings(scopes ...string) []key.Binding {
	var out []key.Binding
	for _, scope := range scopes {
		for _, b := range r.BindingsForScope(scope) {
			out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
		}
	}
	return out
}

// ApplyOverrides replaces the keys of existing bindings. Entries are checked
// in order and the first problem is reported with its position in the list.
// After all entries apply, no two actions in a scope may share a key.
func (r *KeyRegistry) ApplyOverrides(items []config.KeybindingConfig) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	applied := make(map[string]int) // scope/action -> entry index
	for i, item := range items {
		scope := strings.TrimSpace(item.Scope)
		action := Action(strings.TrimSpace(item.Action))
		keys := normalizeKeyList(item.Keys)
		switch {
		case scope == "":
			return fmt.Errorf("keybindings[%d]: missing scope", i)
		case action == "":
			return fmt.Errorf("keybindings[%d] (%s): missing action", i, scope)
		case len(keys) == 0:
			return fmt.Errorf("keybindings[%d] (%s.%s): no keys given", i, scope, action)
		}

		target, err := r.binding(scope, action)
		if err != nil {
			return fmt.Errorf("keybindings[%d]: %w", i, err)
		}
		id := scope + "/" + string(action)
		if prev, dup := applied[id]; dup {
			return fmt.Errorf("keybindings[%d] (%s.%s): already set by keybindings[%d]", i, scope, action, prev)
		}
		applied[id] = i
		target.Keys = keys
	}

	r.rebuildIndex()
	return r.checkConflicts()
}

// binding finds the registered binding for action in scope.
func (r *KeyRegistry) binding(scope string, action Action) (*Binding, error) {
	bindings, ok := r.bindingsByScope[scope]
	if !ok {
		return nil, fmt.Errorf("unknown scope %q", scope)
	}
	for _, b := range bindings {
		if b.Action == action {
			return b, nil
		}
	}
	return nil, fmt.Errorf("scope %q has no action %q", scope, action)
}

// checkConflicts reports the first key bound to two actions of one scope.
// Scopes are visited in sorted order so the message is stable.
func (r *KeyRegistry) checkConflicts() error {
	scopes := make([]string, 0, len(r.bindingsByScope))
	for scope := range r.bindingsByScope {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	for _, scope := range scopes {
		owner := make(map[string]Action)
		for _, b := range r.bindingsByScope[scope] {
			for _, k := range b.Keys {
				if other, taken := owner[k]; taken && other != b.Action {
					return fmt.Errorf("key %q in scope %q is bound to both %s and %s", k, scope, other, b.Action)
				}
				owner[k] = b.Action
			}
		}
	}
	return nil
}

func (r *KeyRegistry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// uppercase letters stay distinct from lowercase
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "escape", "esc")
	return s
}

var hintHelp = func() help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(colorAccent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(colorOverlay1)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(colorSurface1)
	return h
}()

// renderHints renders the short help line for the given scopes.
func renderHints(keys *KeyRegistry, scopes ...string) string {
	return hintHelp.ShortHelpView(keys.HelpBindings(scopes...))
}
