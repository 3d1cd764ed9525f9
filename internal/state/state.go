// Package state holds the process-wide UI state the shell routes on: the
// selected account, the active top-level view and the account cache used to
// resolve selections.
package state

import (
	"sort"
	"strings"
	"sync"

	"github.com/jask/orbit/internal/database/repository"
)

// View is a top-level dashboard view.
type View string

const (
	ViewOverview  View = "overview"
	ViewAccounts  View = "accounts"
	ViewAnalytics View = "analytics"
	ViewSettings  View = "settings"
)

// ViewInfo describes a view for the navigation rail.
type ViewInfo struct {
	View  View
	Label string
}

// Views lists the views in rail order.
func Views() []ViewInfo {
	return []ViewInfo{
		{ViewOverview, "Overview"},
		{ViewAccounts, "Accounts"},
		{ViewAnalytics, "Analytics"},
		{ViewSettings, "Settings"},
	}
}

// ParseView normalizes s. Unknown names are returned verbatim so that
// routing falls back to the overview content instead of failing.
func ParseView(s string) View {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if v == "dashboard" || v == "" {
		return ViewOverview
	}
	return v
}

// Label returns the rail label for v, or v itself when unknown.
func (v View) Label() string {
	for _, info := range Views() {
		if info.View == v {
			return info.Label
		}
	}
	return string(v)
}

// Store is the shared state consumed by the shell. Implementations must be
// safe to read from tea.Cmd goroutines.
type Store interface {
	SelectedAccountID() string
	// SelectAccount stores id as the selection; "" clears it.
	SelectAccount(id string)
	AccountByID(id string) (repository.Account, bool)
	ActiveView() View
	SetActiveView(v View)
	Accounts() []repository.Account
	SetAccounts(accounts []repository.Account)
}

// Provider is the in-memory Store.
type Provider struct {
	mu       sync.RWMutex
	selected string
	view     View
	accounts []repository.Account
	byID     map[string]int
	onChange func()
}

// New returns a provider showing initial with nothing selected.
func New(initial View) *Provider {
	return &Provider{view: initial, byID: map[string]int{}}
}

// OnChange registers fn to run after every mutation.
func (p *Provider) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

func (p *Provider) SelectedAccountID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

func (p *Provider) SelectAccount(id string) {
	p.mu.Lock()
	p.selected = strings.TrimSpace(id)
	fn := p.onChange
	p.mu.Unlock()
	notify(fn)
}

func (p *Provider) AccountByID(id string) (repository.Account, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i, ok := p.byID[id]
	if !ok {
		return repository.Account{}, false
	}
	return p.accounts[i], true
}

func (p *Provider) ActiveView() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

func (p *Provider) SetActiveView(v View) {
	p.mu.Lock()
	p.view = v
	fn := p.onChange
	p.mu.Unlock()
	notify(fn)
}

// Accounts returns a copy sorted by name.
func (p *Provider) Accounts() []repository.Account {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]repository.Account(nil), p.accounts...)
}

// SetAccounts replaces the cache. The selection is kept even when its
// account disappears; routing treats it as stale.
func (p *Provider) SetAccounts(accounts []repository.Account) {
	sorted := append([]repository.Account(nil), accounts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	byID := make(map[string]int, len(sorted))
	for i, a := range sorted {
		byID[a.ID] = i
	}

	p.mu.Lock()
	p.accounts = sorted
	p.byID = byID
	fn := p.onChange
	p.mu.Unlock()
	notify(fn)
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
