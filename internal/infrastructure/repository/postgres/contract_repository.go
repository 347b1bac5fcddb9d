package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	qb "github.com/riskibarqy/cricket-auction/internal/platform/querybuilder"
	"github.com/shopspring/decimal"
)

type ContractRepository struct {
	db sqlx.ExtContext
}

var contractSelectColumns = qb.Columns(contractTableModel{})

func NewContractRepository(db sqlx.ExtContext) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, item contract.Contract) error {
	query, args, err := qb.InsertModel("contracts", contractToModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert contract query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapContractInsertError(err, item.PlayerID, item.Season)
	}
	return nil
}

func mapContractInsertError(err error, playerID int64, season int) error {
	if name, ok := uniqueConstraint(err); ok && name == contractPlayerSeasonConstraint {
		return fmt.Errorf("%w: player=%d season=%d", contract.ErrContractAlreadyExists, playerID, season)
	}
	return fmt.Errorf("insert contract: %w", err)
}

func (r *ContractRepository) Update(ctx context.Context, item contract.Contract) error {
	query, args, err := qb.Update("contracts").
		Set("contract_value", item.Value).
		Set("category", string(item.Category)).
		Set("contract_type", string(item.Type)).
		Set("start_date", item.StartDate).
		Set("end_date", item.EndDate).
		Set("status", string(item.Status)).
		Set("is_captain", item.IsCaptain).
		Set("is_vice_captain", item.IsViceCaptain).
		Set("is_retained", item.IsRetained).
		Set("released_at", item.ReleasedAt).
		Set("updated_at", item.UpdatedAt).
		Where(qb.Eq("public_id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update contract query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update contract %s: no row updated", item.ID)
	}
	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, contractID string) (contract.Contract, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", contractID))
}

func (r *ContractRepository) GetByPlayerSeason(ctx context.Context, playerID int64, season int) (contract.Contract, bool, error) {
	return r.getOne(ctx, qb.Eq("player_id", playerID), qb.Eq("season", season))
}

func (r *ContractRepository) getOne(ctx context.Context, conds ...qb.Condition) (contract.Contract, bool, error) {
	query, args, err := qb.Select(contractSelectColumns...).From("contracts").
		Where(conds...).
		Limit(1).
		ToSQL()
	if err != nil {
		return contract.Contract{}, false, fmt.Errorf("build get contract query: %w", err)
	}

	var row contractTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contract.Contract{}, false, nil
		}
		return contract.Contract{}, false, fmt.Errorf("get contract: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *ContractRepository) List(ctx context.Context, filter contract.Filter) ([]contract.Contract, error) {
	query, args, err := qb.Select(contractSelectColumns...).From("contracts").
		Where(
			qb.Optional(filter.Season > 0, qb.Eq("season", filter.Season)),
			qb.Optional(filter.TeamID > 0, qb.Eq("team_id", filter.TeamID)),
			qb.Optional(filter.PlayerID > 0, qb.Eq("player_id", filter.PlayerID)),
			qb.Optional(filter.Status != "", qb.Eq("status", string(filter.Status))),
			qb.Optional(filter.Category != "", qb.Eq("category", string(filter.Category))),
		).
		OrderBy("season DESC", "contract_value DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contracts query: %w", err)
	}

	var rows []contractTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select contracts: %w", err)
	}

	out := make([]contract.Contract, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ContractRepository) ClearCaptain(ctx context.Context, teamID int64, season int, exceptID string) error {
	return r.clearFlag(ctx, "is_captain", teamID, season, exceptID)
}

func (r *ContractRepository) ClearViceCaptain(ctx context.Context, teamID int64, season int, exceptID string) error {
	return r.clearFlag(ctx, "is_vice_captain", teamID, season, exceptID)
}

func (r *ContractRepository) clearFlag(ctx context.Context, column string, teamID int64, season int, exceptID string) error {
	query, args, err := qb.Update("contracts").
		Set(column, false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("season", season),
			qb.Eq(column, true),
			qb.Optional(exceptID != "", qb.Ne("public_id", exceptID)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear %s query: %w", column, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %s: %w", column, err)
	}
	return nil
}

func (r *ContractRepository) SumActiveValue(ctx context.Context, teamID int64, season int) (decimal.Decimal, error) {
	query, args, err := qb.Select("COALESCE(SUM(contract_value), 0)").From("contracts").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("season", season),
			qb.Eq("status", string(contract.StatusActive)),
		).
		ToSQL()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum contract value query: %w", err)
	}

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, r.db, &total, query, args...); err != nil {
		return decimal.Zero, fmt.Errorf("sum active contract value: %w", err)
	}
	return total, nil
}
