package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/orbit/internal/database"
	"github.com/jask/orbit/internal/database/repository"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Setup(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAccountUpsertAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewAccountRepo(openDB(t))

	a := repository.Account{ID: "42", Name: "Acme", Tier: repository.TierGrowth, Industry: "Retail", ARRCents: 12_000_00, Health: 70}
	require.NoError(t, repo.Upsert(ctx, a))

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Acme", got.Name)
	require.Equal(t, int64(12_000_00), got.ARRCents)
	require.False(t, got.CreatedAt.IsZero())

	a.Name = "Acme Holdings"
	a.Tier = repository.TierEnterprise
	require.NoError(t, repo.Upsert(ctx, a))
	got, err = repo.Get(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, "Acme Holdings", got.Name)
	require.Equal(t, repository.TierEnterprise, got.Tier)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestAccountListOrderedByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewAccountRepo(openDB(t))

	for _, a := range []repository.Account{
		{ID: "b", Name: "beta", Tier: repository.TierStarter},
		{ID: "a", Name: "Alpha", Tier: repository.TierStarter},
		{ID: "c", Name: "Gamma", Tier: repository.TierStarter},
	} {
		require.NoError(t, repo.Upsert(ctx, a))
	}
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestAccountRejectsUnknownTier(t *testing.T) {
	t.Parallel()
	repo := repository.NewAccountRepo(openDB(t))
	err := repo.Upsert(context.Background(), repository.Account{ID: "x", Name: "X", Tier: "Platinum"})
	require.Error(t, err)
}

func TestActivitiesNewestFirstAndCascade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	accounts := repository.NewAccountRepo(db)
	acts := repository.NewActivityRepo(db)

	require.NoError(t, accounts.Upsert(ctx, repository.Account{ID: "42", Name: "Acme", Tier: repository.TierGrowth}))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, summary := range []string{"first", "second", "third"} {
		require.NoError(t, acts.Insert(ctx, repository.Activity{
			ID: summary, AccountID: "42", Kind: repository.ActivityNote, Summary: summary,
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	list, err := acts.ListByAccount(ctx, "42", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "third", list[0].Summary)
	require.Equal(t, "second", list[1].Summary)

	recent, err := acts.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	_, err = db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, "42")
	require.NoError(t, err)
	list, err = acts.ListByAccount(ctx, "42", 0)
	require.NoError(t, err)
	require.Empty(t, list)
}
