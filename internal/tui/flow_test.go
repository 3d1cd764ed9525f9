package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/jask/orbit/internal/state"
)

// TestShellFlow drives the program end to end: open the first account,
// back out with escape and quit.
func TestShellFlow(t *testing.T) {
	f := newShellFixture(t)
	f.shell.Close()
	f.store.SetAccounts(nil)

	tm := teatest.NewTestModel(t, f.shell, teatest.WithInitialTermSize(120, 36))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Acme Corp")) && bytes.Contains(out, []byte("Portfolio Overview"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Kickoff call"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(*Shell)
	if got := final.store.SelectedAccountID(); got != "" {
		t.Fatalf("selection = %q after escape, want none", got)
	}
	if got := final.store.ActiveView(); got != state.ViewAccounts {
		t.Fatalf("view = %q, want %q", got, state.ViewAccounts)
	}
	if got := final.listeners.len(); got != 1 {
		t.Fatalf("listeners = %d, want the escape listener only", got)
	}
}
