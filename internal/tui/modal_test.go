package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/service"
)

func TestAccountModalPrefillsInEditMode(t *testing.T) {
	a := repository.Account{
		ID: "42", Name: "Acme Corp", Tier: repository.TierGrowth,
		Industry: "Manufacturing", Owner: "Dana", ARRCents: 12_345_050, Health: 81,
	}
	m := newAccountModal(&a)
	require.False(t, m.creating())

	got, err := m.Account()
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, a.Name, got.Name)
	require.Equal(t, repository.TierGrowth, got.Tier)
	require.Equal(t, int64(12_345_050), got.ARRCents)
	require.Equal(t, 81, got.Health)
}

func TestAccountModalCreateDefaults(t *testing.T) {
	m := newAccountModal(nil)
	require.True(t, m.creating())
	require.Equal(t, fieldName, m.focus)

	_, err := m.Account()
	require.ErrorIs(t, err, service.ErrNameRequired)
}

func TestAccountModalTypingAndCycling(t *testing.T) {
	m := newAccountModal(nil)
	for _, r := range "Initech" {
		m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.nextField()
	require.Equal(t, fieldTier, m.focus)
	m.cycleTier(1)
	m.prevField()
	m.prevField()
	require.Equal(t, fieldHealth, m.focus)

	a, err := m.Account()
	require.NoError(t, err)
	require.Equal(t, "Initech", a.Name)
	require.Equal(t, repository.TierEnterprise, a.Tier)
	require.Equal(t, 70, a.Health)
}

func TestAccountModalReportsFieldErrors(t *testing.T) {
	m := newAccountModal(nil)
	m.inputs[fieldName].SetValue("Globex")
	m.inputs[fieldARR].SetValue("lots")
	_, err := m.Account()
	require.ErrorIs(t, err, service.ErrInvalidAmount)
	m.fail(err)
	require.Equal(t, fieldARR, m.focus)
	require.NotEmpty(t, m.err)

	m.inputs[fieldARR].SetValue("1,000")
	m.inputs[fieldHealth].SetValue("140")
	_, err = m.Account()
	require.ErrorIs(t, err, service.ErrHealthRange)
	m.fail(err)
	require.Equal(t, fieldHealth, m.focus)
}

func TestFormatPlain(t *testing.T) {
	require.Equal(t, "125000", formatPlain(12_500_000))
	require.Equal(t, "10.05", formatPlain(1005))
	cents, err := service.ParseMoney(formatPlain(1005))
	require.NoError(t, err)
	require.Equal(t, int64(1005), cents)
}
