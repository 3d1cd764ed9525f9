package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/orbit/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the TUI and CLI.
type MaintenanceService struct {
	DB  *sql.DB
	Log *logrus.Logger
}

// Reset wipes all portfolio data. It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"activities", "accounts"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	if s.Log != nil {
		s.Log.Warn("portfolio data reset")
	}
	return nil
}

// Seed loads the demo portfolio into an empty database.
func (s *MaintenanceService) Seed(ctx context.Context) (bool, error) {
	if s.DB == nil {
		return false, fmt.Errorf("maintenance: db not configured")
	}
	seeded, err := database.SeedDefaults(ctx, s.DB)
	if err != nil {
		return false, fmt.Errorf("seed demo portfolio: %w", err)
	}
	if seeded && s.Log != nil {
		s.Log.Info("demo portfolio seeded")
	}
	return seeded, nil
}
