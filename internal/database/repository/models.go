package repository

import "time"

// Account tiers, ordered from largest to smallest contract.
const (
	TierEnterprise = "Enterprise"
	TierGrowth     = "Growth"
	TierStarter    = "Starter"
)

// Tiers returns every tier in display order.
func Tiers() []string {
	return []string{TierEnterprise, TierGrowth, TierStarter}
}

// Activity kinds.
const (
	ActivityCreated = "created"
	ActivityUpdated = "updated"
	ActivityNote    = "note"
)

// Account represents an account row.
type Account struct {
	ID        string
	Name      string
	Tier      string
	Industry  string
	Owner     string
	ARRCents  int64
	Health    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Activity is one entry in an account's timeline.
type Activity struct {
	ID         string
	AccountID  string
	Kind       string
	Summary    string
	OccurredAt time.Time
}
