package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the roster into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, roster memory.Roster) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range roster.Teams {
		if err := namedExec(ctx, tx, `
INSERT INTO teams (id, name, short, logo_url)
VALUES (:id, :name, :short, :logo_url)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":       t.ID,
			"name":     t.Name,
			"short":    t.Short,
			"logo_url": t.LogoURL,
		}); err != nil {
			return fmt.Errorf("seed team %d: %w", t.ID, err)
		}
	}

	for _, p := range roster.Players {
		if err := namedExec(ctx, tx, `
INSERT INTO players (id, name, role, nationality, is_overseas, is_active)
VALUES (:id, :name, :role, :nationality, :is_overseas, :is_active)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"role":        string(p.Role),
			"nationality": p.Nationality,
			"is_overseas": p.IsOverseas,
			"is_active":   p.IsActive,
		}); err != nil {
			return fmt.Errorf("seed player %d: %w", p.ID, err)
		}
	}

	for _, s := range roster.Seasons {
		if err := namedExec(ctx, tx, `
INSERT INTO seasons (id, year, name, is_current)
VALUES (:id, :year, :name, :is_current)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":         s.ID,
			"year":       s.Year,
			"name":       s.Name,
			"is_current": s.IsCurrent,
		}); err != nil {
			return fmt.Errorf("seed season %d: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func namedExec(ctx context.Context, tx *sqlx.Tx, query string, arg map[string]any) error {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("bind query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(bound), args...); err != nil {
		return err
	}
	return nil
}
