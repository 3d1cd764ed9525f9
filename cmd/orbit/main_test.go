package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jask/orbit/internal/database"
	"github.com/jask/orbit/internal/database/repository"
	"github.com/jask/orbit/internal/logging"
	"github.com/jask/orbit/internal/service"
	"github.com/jask/orbit/internal/state"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	var cli CLI
	k, err := kong.New(&cli,
		kong.Vars{"version": "v1.2.3 abc1234"},
		kong.Exit(func(int) { panic(errExitCalled) }),
	)
	require.NoError(t, err)
	kctx, err := k.Parse(args)
	require.NoError(t, err)
	return kctx, &cli
}

// withConfig points the CLI at a throwaway config, database and log.
func withConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`
[database]
path = %q
seed_demo = true

[log]
path = %q
level = "debug"
`, filepath.Join(dir, "orbit.db"), filepath.Join(dir, "orbit.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))
	t.Setenv("ORBIT_CONFIG", cfgPath)
	return dir
}

func runCLI(t *testing.T, tty bool, args ...string) (string, error) {
	t.Helper()
	kctx, _ := parse(t, args...)
	var out bytes.Buffer
	err := kctx.Run(&environment{
		ctx:   context.Background(),
		out:   &out,
		isTTY: func() bool { return tty },
	})
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	var cli CLI
	var buf bytes.Buffer
	k, err := kong.New(&cli,
		kong.Vars{"version": "v1.2.3 abc1234"},
		kong.Writers(&buf, &buf),
		kong.Exit(func(int) { panic(errExitCalled) }),
	)
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected --version to exit")
		rerr, ok := r.(error)
		if !ok || !errors.Is(rerr, errExitCalled) {
			panic(r)
		}
		require.Contains(t, buf.String(), "v1.2.3 abc1234")
	}()
	_, _ = k.Parse([]string{"--version"})
}

func TestDefaultCommandIsRun(t *testing.T) {
	kctx, _ := parse(t)
	require.Equal(t, "run", kctx.Command())
}

func TestRunRequiresTTY(t *testing.T) {
	withConfig(t)
	_, err := runCLI(t, false)
	require.ErrorContains(t, err, "requires a terminal")
}

func TestResetRequiresYes(t *testing.T) {
	withConfig(t)
	_, err := runCLI(t, false, "reset")
	require.ErrorContains(t, err, "--yes")
}

func TestSeedListReset(t *testing.T) {
	withConfig(t)

	out, err := runCLI(t, false, "accounts")
	require.NoError(t, err)
	require.Equal(t, "no accounts\n", out)

	out, err = runCLI(t, false, "seed")
	require.NoError(t, err)
	require.Contains(t, out, "seeded")

	out, err = runCLI(t, false, "seed")
	require.NoError(t, err)
	require.Contains(t, out, "nothing seeded")

	out, err = runCLI(t, false, "accounts")
	require.NoError(t, err)
	require.Contains(t, out, "Acme Corp")
	require.Contains(t, out, "Enterprise")
	require.Contains(t, out, "8 accounts")

	out, err = runCLI(t, false, "reset", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "removed")

	out, err = runCLI(t, false, "accounts")
	require.NoError(t, err)
	require.Equal(t, "no accounts\n", out)
}

func TestAccountDetail(t *testing.T) {
	withConfig(t)
	_, err := runCLI(t, false, "seed")
	require.NoError(t, err)

	out, err := runCLI(t, false, "accounts", database.DemoAccountID("Acme Corp"))
	require.NoError(t, err)
	require.Contains(t, out, "Acme Corp")
	require.Contains(t, out, "Enterprise")
	require.Contains(t, out, "$1,250,000")
	require.NotContains(t, out, "no activity")

	_, err = runCLI(t, false, "accounts", "ghost")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestLogRouteChangesSkipsCacheReloads(t *testing.T) {
	var buf bytes.Buffer
	log := logging.Discard()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	store := state.New(state.ViewOverview)
	logRouteChanges(store, log)

	store.SetAccounts([]repository.Account{{ID: "42", Name: "Acme Corp"}})
	require.Empty(t, buf.String())

	store.SelectAccount("42")
	store.SetActiveView(state.ViewAccounts)
	store.SetActiveView(state.ViewAccounts)
	require.Equal(t, 2, strings.Count(buf.String(), "route changed"))
	require.Contains(t, buf.String(), "account=42")
}

func TestPrintAccounts(t *testing.T) {
	var buf bytes.Buffer
	err := printAccounts(&buf, []repository.Account{
		{Name: "Globex", Tier: repository.TierEnterprise, Owner: "Marcus", ARRCents: 98_000_000, Health: 44},
		{Name: "Hooli", Tier: repository.TierGrowth, Owner: "Priya", ARRCents: 42_000_000, Health: 90},
	}, "€")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.True(t, strings.HasPrefix(lines[0], "NAME"))
	require.Contains(t, lines[1], "€980,000")
	require.Contains(t, lines[1], "44 At risk")
	require.Contains(t, lines[2], "90 Healthy")
	require.Contains(t, lines[len(lines)-1], "2 accounts")
	require.Contains(t, lines[len(lines)-1], "€1,400,000")
	require.Contains(t, lines[len(lines)-1], "avg 67")
}
