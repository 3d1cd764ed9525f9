package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/orbit/internal/database/repository"
)

func samplePortfolio() []repository.Account {
	return []repository.Account{
		{ID: "1", Name: "Acme", Tier: repository.TierEnterprise, ARRCents: 600_00, Health: 80},
		{ID: "2", Name: "Globex", Tier: repository.TierEnterprise, ARRCents: 200_00, Health: 40},
		{ID: "3", Name: "Initech", Tier: repository.TierGrowth, ARRCents: 150_00, Health: 65},
		{ID: "4", Name: "Hooli", Tier: repository.TierGrowth, ARRCents: 50_00, Health: 20},
	}
}

func TestPulse(t *testing.T) {
	p := Pulse(samplePortfolio(), 2)
	require.Equal(t, 4, p.Accounts)
	require.Equal(t, int64(1000_00), p.TotalARRCents)
	require.Equal(t, 51, p.AverageHealth)
	require.Equal(t, 2, p.AtRisk)
	require.Len(t, p.Top, 2)
	require.Equal(t, "Acme", p.Top[0].Name)
	require.Equal(t, "Globex", p.Top[1].Name)
}

func TestPulseEmpty(t *testing.T) {
	p := Pulse(nil, 5)
	require.Zero(t, p.Accounts)
	require.Zero(t, p.AverageHealth)
	require.Empty(t, p.Top)
}

func TestTierBreakdown(t *testing.T) {
	stats := TierBreakdown(samplePortfolio())
	require.Len(t, stats, 3)
	require.Equal(t, repository.TierEnterprise, stats[0].Tier)
	require.Equal(t, 2, stats[0].Accounts)
	require.InDelta(t, 0.8, stats[0].Share, 1e-9)
	require.Equal(t, repository.TierGrowth, stats[1].Tier)
	require.InDelta(t, 0.2, stats[1].Share, 1e-9)
	require.Equal(t, repository.TierStarter, stats[2].Tier)
	require.Zero(t, stats[2].Accounts)
	require.Zero(t, stats[2].Share)
}

func TestHealthBands(t *testing.T) {
	bands := HealthBands(samplePortfolio())
	require.Equal(t, []int{2, 1, 1}, []int{bands[0].Accounts, bands[1].Accounts, bands[2].Accounts})
	require.Equal(t, "At risk", HealthLabel(49))
	require.Equal(t, "Watch", HealthLabel(50))
	require.Equal(t, "Healthy", HealthLabel(70))
}
