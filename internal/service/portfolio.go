package service

import (
	"sort"

	"github.com/jask/orbit/internal/database/repository"
)

// AtRiskThreshold is the health score below which an account is at risk.
const AtRiskThreshold = 50

// PulseSummary is the portfolio overview shown when nothing is selected.
type PulseSummary struct {
	Accounts      int
	TotalARRCents int64
	AverageHealth int
	AtRisk        int
	Top           []repository.Account
}

// Pulse summarizes accounts. Top holds at most top accounts by ARR, largest first.
func Pulse(accounts []repository.Account, top int) PulseSummary {
	out := PulseSummary{Accounts: len(accounts)}
	if len(accounts) == 0 {
		return out
	}
	healthSum := 0
	for _, a := range accounts {
		out.TotalARRCents += a.ARRCents
		healthSum += a.Health
		if a.Health < AtRiskThreshold {
			out.AtRisk++
		}
	}
	out.AverageHealth = (healthSum + len(accounts)/2) / len(accounts)

	ranked := append([]repository.Account(nil), accounts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ARRCents != ranked[j].ARRCents {
			return ranked[i].ARRCents > ranked[j].ARRCents
		}
		return ranked[i].Name < ranked[j].Name
	})
	if top >= 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	out.Top = ranked
	return out
}

// TierStat aggregates one tier.
type TierStat struct {
	Tier     string
	Accounts int
	ARRCents int64
	Share    float64 // of total ARR, 0..1
}

// TierBreakdown returns one entry per known tier in display order, including
// empty tiers.
func TierBreakdown(accounts []repository.Account) []TierStat {
	tiers := repository.Tiers()
	out := make([]TierStat, len(tiers))
	index := make(map[string]int, len(tiers))
	for i, t := range tiers {
		out[i].Tier = t
		index[t] = i
	}
	var total int64
	for _, a := range accounts {
		i, ok := index[a.Tier]
		if !ok {
			continue
		}
		out[i].Accounts++
		out[i].ARRCents += a.ARRCents
		total += a.ARRCents
	}
	if total > 0 {
		for i := range out {
			out[i].Share = float64(out[i].ARRCents) / float64(total)
		}
	}
	return out
}

// HealthBand counts accounts whose health falls in [Min, Max].
type HealthBand struct {
	Label    string
	Min, Max int
	Accounts int
}

// HealthBands buckets accounts into at risk / watch / healthy.
func HealthBands(accounts []repository.Account) []HealthBand {
	bands := []HealthBand{
		{Label: "At risk", Min: 0, Max: AtRiskThreshold - 1},
		{Label: "Watch", Min: AtRiskThreshold, Max: 69},
		{Label: "Healthy", Min: 70, Max: 100},
	}
	for _, a := range accounts {
		for i := range bands {
			if a.Health >= bands[i].Min && a.Health <= bands[i].Max {
				bands[i].Accounts++
				break
			}
		}
	}
	return bands
}

// HealthLabel names the band a score falls in.
func HealthLabel(health int) string {
	switch {
	case health < AtRiskThreshold:
		return "At risk"
	case health < 70:
		return "Watch"
	default:
		return "Healthy"
	}
}
