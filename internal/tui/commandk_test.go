package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/state"
)

func paletteAccounts() []repository.Account {
	return []repository.Account{
		{ID: "a1", Name: "Acme Corp", Tier: repository.TierEnterprise},
		{ID: "g1", Name: "Globex", Tier: repository.TierEnterprise},
		{ID: "s1", Name: "Stark Logistics", Tier: repository.TierGrowth},
	}
}

func TestPaletteScoreRanking(t *testing.T) {
	tests := []struct {
		label string
		query string
		score int
		ok    bool
	}{
		{"Globex", "", 0, true},
		{"Globex", "glo", 0, true},
		{"Stark Logistics", "log", 1, true},
		{"Globex", "obe", 2, true},
		{"Globex", "globx", 4, true},
		{"Analytics", "anlytics", 4, true},
		{"Acme Corp", "zzz", 0, false},
		{"Hooli", "xyzzy", 0, false},
	}
	for _, tt := range tests {
		score, ok := paletteScore(tt.label, tt.query)
		if ok != tt.ok || (ok && score != tt.score) {
			t.Errorf("paletteScore(%q, %q) = %d, %v; want %d, %v", tt.label, tt.query, score, ok, tt.score, tt.ok)
		}
	}
}

func TestPaletteListsViewsAccountsAndCreate(t *testing.T) {
	p := newCommandPalette(paletteAccounts())
	items := p.Filtered()
	require.Len(t, items, len(state.Views())+3+1)
	require.Equal(t, paletteView, items[0].Kind)
	require.Equal(t, paletteCreate, items[len(items)-1].Kind)
}

func TestPaletteFilterOrdersPrefixFirst(t *testing.T) {
	p := newCommandPalette(paletteAccounts())
	p.SetQuery("s")

	items := p.Filtered()
	require.NotEmpty(t, items)
	require.Equal(t, "Settings", items[0].Label)
	for _, it := range items {
		require.NotEqual(t, "Globex", it.Label)
	}
	requireContiguousSections(t, items)
}

func TestPaletteSectionOrderFollowsBestMatch(t *testing.T) {
	p := newCommandPalette(paletteAccounts())
	p.SetQuery("lo")

	items := p.Filtered()
	require.NotEmpty(t, items)
	require.Equal(t, "Accounts", items[0].Section)
	require.Equal(t, "Stark Logistics", items[0].Label, "word prefix outranks a substring in the same section")
	require.Equal(t, "Globex", items[1].Label)
	requireContiguousSections(t, items)
}

func requireContiguousSections(t *testing.T, items []paletteItem) {
	t.Helper()
	done := map[string]bool{}
	for i, it := range items {
		if i > 0 && items[i-1].Section != it.Section {
			done[items[i-1].Section] = true
		}
		require.False(t, done[it.Section], "section %q split at %d", it.Section, i)
	}
}

func TestPaletteTypingAndRun(t *testing.T) {
	p := newCommandPalette(paletteAccounts())
	for _, r := range "globx" {
		p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Equal(t, "globx", p.Query())

	res := p.Run()
	require.Equal(t, paletteActionRun, res.Action)
	require.Equal(t, paletteAccount, res.Item.Kind)
	require.Equal(t, "g1", res.Item.AccountID)
}

func TestPaletteMoveWraps(t *testing.T) {
	p := newCommandPalette(paletteAccounts())
	p.Move(-1)
	require.Equal(t, paletteCreate, p.Run().Item.Kind)
	p.Move(1)
	require.Equal(t, state.ViewOverview, p.Run().Item.View)

	p.SetQuery("qqqqqqqq")
	require.Empty(t, p.Filtered())
	require.Equal(t, paletteActionNone, p.Run().Action)
}
