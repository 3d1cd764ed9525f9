package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/orbit/internal/database/repository"
)

type demoAccount struct {
	name     string
	tier     string
	industry string
	owner    string
	arr      int64 // whole currency units
	health   int
	notes    []string
}

var demoPortfolio = []demoAccount{
	{"Acme Corp", repository.TierEnterprise, "Manufacturing", "Dana Whitfield", 1_250_000, 82,
		[]string{"Quarterly business review booked", "Expanded to EU plants"}},
	{"Globex", repository.TierEnterprise, "Energy", "Marcus Lee", 980_000, 44,
		[]string{"Champion left the company", "Renewal flagged at risk"}},
	{"Umbrella Health", repository.TierEnterprise, "Healthcare", "Dana Whitfield", 1_540_000, 63,
		[]string{"Security review passed"}},
	{"Initech", repository.TierGrowth, "Software", "Priya Shah", 310_000, 71,
		[]string{"Upsell conversation started"}},
	{"Hooli", repository.TierGrowth, "Software", "Priya Shah", 420_000, 90,
		[]string{"Case study published"}},
	{"Stark Logistics", repository.TierGrowth, "Logistics", "Tomás Ortega", 275_000, 38,
		[]string{"Support escalations up 3x", "Exec sponsor call requested"}},
	{"Wayne Studio", repository.TierStarter, "Media", "Marcus Lee", 48_000, 57, nil},
	{"Pied Piper", repository.TierStarter, "Software", "Tomás Ortega", 36_000, 88,
		[]string{"Self-serve trial converted"}},
}

// DemoAccountID returns the stable id a demo account is seeded with.
func DemoAccountID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("account:"+name)).String()
}

// SeedDefaults fills an empty database with a demo portfolio.
// It is idempotent and safe to run on every startup: a database holding any
// account is left untouched.
func SeedDefaults(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	base := Now()
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		for i, d := range demoPortfolio {
			id := DemoAccountID(d.name)
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO accounts(id, name, tier, industry, owner, arr_cents, health)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, d.name, d.tier, d.industry, d.owner, d.arr*100, d.health); err != nil {
				return fmt.Errorf("seed %s: %w", d.name, err)
			}

			created := base.AddDate(0, 0, -90+i)
			entries := []repository.Activity{{Kind: repository.ActivityCreated, Summary: "Account created", OccurredAt: created}}
			for j, note := range d.notes {
				entries = append(entries, repository.Activity{
					Kind:       repository.ActivityNote,
					Summary:    note,
					OccurredAt: base.Add(-time.Duration(i*7+j*3+1) * time.Hour * 24),
				})
			}
			for j, e := range entries {
				actID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("activity:%s:%d", d.name, j))).String()
				if _, err := tx.ExecContext(ctx, `
				INSERT INTO activities(id, account_id, kind, summary, occurred_at)
				VALUES (?, ?, ?, ?, ?)`, actID, id, e.Kind, e.Summary, e.OccurredAt); err != nil {
					return fmt.Errorf("seed activity for %s: %w", d.name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
