package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/orbit/internal/config"
)

func TestKeyRegistryLookupByScope(t *testing.T) {
	r := NewKeyRegistry()

	edit := r.Lookup("e", scopeDeepDive)
	if edit == nil || edit.Action != actionEdit {
		t.Fatalf("deep-dive e = %v, want edit", edit)
	}
	if got := r.Lookup("e", scopeList); got != nil {
		t.Fatalf("did not expect e in list scope, got %q", got.Action)
	}

	quit := r.Lookup("q", scopeList)
	if quit == nil || quit.Action != actionQuit {
		t.Fatalf("list q = %v, want global quit", quit)
	}
	if got := r.Lookup("ctrl+k", scopeStage); got == nil || got.Action != actionPalette {
		t.Fatalf("stage ctrl+k = %v, want palette via global fallback", got)
	}
}

func TestKeyRegistryLookupExactSkipsGlobal(t *testing.T) {
	r := NewKeyRegistry()
	if got := r.LookupExact("q", scopeModal); got != nil {
		t.Fatalf("modal q = %q, want nil so the key reaches the text input", got.Action)
	}
	if got := r.LookupExact("Escape", scopePalette); got == nil || got.Action != actionClose {
		t.Fatalf("palette escape = %v, want close", got)
	}
}

func TestKeyRegistryNoDuplicateInSameScope(t *testing.T) {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
	r.Register(Binding{Action: actionEdit, Keys: []string{"x"}, Help: "first", Scopes: []string{"a"}})
	r.Register(Binding{Action: actionBack, Keys: []string{"x"}, Help: "dup", Scopes: []string{"a"}})
	r.Register(Binding{Action: actionBack, Keys: []string{"x"}, Help: "other", Scopes: []string{"b"}})

	require.Len(t, r.BindingsForScope("a"), 1)
	require.Equal(t, actionEdit, r.BindingsForScope("a")[0].Action)
	require.Len(t, r.BindingsForScope("b"), 1)
}

func TestKeyRegistryApplyOverrides(t *testing.T) {
	r := NewKeyRegistry()
	err := r.ApplyOverrides([]config.KeybindingConfig{
		{Scope: scopeDeepDive, Action: string(actionEdit), Keys: []string{"E", "ctrl+e"}},
	})
	require.NoError(t, err)

	require.Nil(t, r.Lookup("e", scopeDeepDive))
	got := r.Lookup("ctrl+e", scopeDeepDive)
	require.NotNil(t, got)
	require.Equal(t, actionEdit, got.Action)
	require.NotNil(t, r.Lookup("E", scopeDeepDive))
}

func TestKeyRegistryApplyOverridesRejectsBadEntries(t *testing.T) {
	cases := map[string][]config.KeybindingConfig{
		"unknown scope":  {{Scope: "nowhere", Action: "edit", Keys: []string{"x"}}},
		"unknown action": {{Scope: scopeList, Action: "explode", Keys: []string{"x"}}},
		"empty keys":     {{Scope: scopeList, Action: string(actionSelect), Keys: []string{""}}},
		"duplicate": {
			{Scope: scopeList, Action: string(actionSelect), Keys: []string{"o"}},
			{Scope: scopeList, Action: string(actionSelect), Keys: []string{"p"}},
		},
		"conflict": {{Scope: scopeGlobal, Action: string(actionNewAccount), Keys: []string{"q"}}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, NewKeyRegistry().ApplyOverrides(items))
		})
	}
}

func TestKeyRegistryApplyOverridesNamesTheEntry(t *testing.T) {
	err := NewKeyRegistry().ApplyOverrides([]config.KeybindingConfig{
		{Scope: scopeList, Action: string(actionSelect), Keys: []string{"o"}},
		{Scope: scopeList, Action: "explode", Keys: []string{"x"}},
	})
	require.ErrorContains(t, err, "keybindings[1]")
	require.ErrorContains(t, err, `no action "explode"`)

	err = NewKeyRegistry().ApplyOverrides([]config.KeybindingConfig{
		{Scope: scopeList, Action: string(actionSelect), Keys: []string{"o"}},
		{Scope: scopeList, Action: string(actionSelect), Keys: []string{"p"}},
	})
	require.ErrorContains(t, err, "already set by keybindings[0]")

	err = NewKeyRegistry().ApplyOverrides([]config.KeybindingConfig{
		{Scope: scopeGlobal, Action: string(actionNewAccount), Keys: []string{"q"}},
	})
	require.ErrorContains(t, err, `key "q" in scope "global"`)
}

func TestKeyRegistryHelpBindings(t *testing.T) {
	r := NewKeyRegistry()
	bindings := r.HelpBindings(scopeConfirm)
	require.Len(t, bindings, 2)
	require.Equal(t, "y", bindings[0].Help().Key)
	require.Equal(t, "yes", bindings[0].Help().Desc)
	require.Contains(t, renderHints(r, scopeConfirm), "yes")
}
