package repository

import (
	"context"
	"database/sql"
)

// ActivityRepo handles the account timeline.
type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Insert(ctx context.Context, a Activity) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO activities(id, account_id, kind, summary, occurred_at)
	VALUES(?, ?, ?, ?, ?);
	`, a.ID, a.AccountID, a.Kind, a.Summary, a.OccurredAt)
	return err
}

// ListByAccount returns the newest entries first. limit <= 0 means no limit.
func (r *ActivityRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, account_id, kind, summary, occurred_at
	FROM activities
	WHERE account_id = ?
	ORDER BY occurred_at DESC, id
	LIMIT ?`, accountID, limit)
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

// Recent returns the newest entries across every account.
func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, account_id, kind, summary, occurred_at
	FROM activities
	ORDER BY occurred_at DESC, id
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

func collectActivities(rows *sql.Rows) ([]Activity, error) {
	defer rows.Close()
	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Kind, &a.Summary, &a.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
