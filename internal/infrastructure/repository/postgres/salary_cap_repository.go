package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	qb "github.com/riskibarqy/cricket-auction/internal/platform/querybuilder"
)

type SalaryCapRepository struct {
	db sqlx.ExtContext
}

var salaryCapSelectColumns = qb.Columns(salaryCapTableModel{})

func NewSalaryCapRepository(db sqlx.ExtContext) *SalaryCapRepository {
	return &SalaryCapRepository{db: db}
}

func (r *SalaryCapRepository) Get(ctx context.Context, teamID int64, season int) (salarycap.SalaryCap, bool, error) {
	query, args, err := qb.Select(salaryCapSelectColumns...).From("salary_caps").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("season", season),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return salarycap.SalaryCap{}, false, fmt.Errorf("build get salary cap query: %w", err)
	}

	var row salaryCapTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return salarycap.SalaryCap{}, false, nil
		}
		return salarycap.SalaryCap{}, false, fmt.Errorf("get salary cap: %w", err)
	}
	return salarycap.SalaryCap(row), true, nil
}

func (r *SalaryCapRepository) Upsert(ctx context.Context, item salarycap.SalaryCap) error {
	const upsertSalaryCapQuery = `
INSERT INTO salary_caps (team_id, season, cap_amount, used_amount, is_compliant, updated_at)
VALUES (:team_id, :season, :cap_amount, :used_amount, :is_compliant, :updated_at)
ON CONFLICT (team_id, season)
DO UPDATE SET
    cap_amount = EXCLUDED.cap_amount,
    used_amount = EXCLUDED.used_amount,
    is_compliant = EXCLUDED.is_compliant,
    updated_at = EXCLUDED.updated_at`

	query, args, err := sqlx.Named(upsertSalaryCapQuery, salaryCapTableModel(item))
	if err != nil {
		return fmt.Errorf("bind upsert salary cap query: %w", err)
	}
	query = r.db.Rebind(query)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert salary cap: %w", err)
	}
	return nil
}

func (r *SalaryCapRepository) ListBySeason(ctx context.Context, season int) ([]salarycap.SalaryCap, error) {
	query, args, err := qb.Select(salaryCapSelectColumns...).From("salary_caps").
		Where(qb.Eq("season", season)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list salary caps query: %w", err)
	}

	var rows []salaryCapTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select salary caps: %w", err)
	}

	out := make([]salarycap.SalaryCap, 0, len(rows))
	for _, row := range rows {
		out = append(out, salarycap.SalaryCap(row))
	}
	return out, nil
}
