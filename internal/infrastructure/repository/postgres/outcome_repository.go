package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	qb "github.com/riskibarqy/cricket-auction/internal/platform/querybuilder"
)

type OutcomeRepository struct {
	db sqlx.ExtContext
}

var outcomeSelectColumns = qb.Columns(outcomeTableModel{})

func NewOutcomeRepository(db sqlx.ExtContext) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

func (r *OutcomeRepository) Get(ctx context.Context, playerID int64, year int) (auction.Outcome, bool, error) {
	query, args, err := qb.Select(outcomeSelectColumns...).From("auction_outcomes").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("auction_year", year),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return auction.Outcome{}, false, fmt.Errorf("build get auction outcome query: %w", err)
	}

	var row outcomeTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auction.Outcome{}, false, nil
		}
		return auction.Outcome{}, false, fmt.Errorf("get auction outcome: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *OutcomeRepository) Upsert(ctx context.Context, outcome auction.Outcome) error {
	const upsertOutcomeQuery = `
INSERT INTO auction_outcomes (player_id, auction_year, status, team_id, final_price, base_price, auction_type, round, auction_date, created_at, updated_at)
VALUES (:player_id, :auction_year, :status, :team_id, :final_price, :base_price, :auction_type, :round, :auction_date, :created_at, :updated_at)
ON CONFLICT (player_id, auction_year)
DO UPDATE SET
    status = EXCLUDED.status,
    team_id = EXCLUDED.team_id,
    final_price = EXCLUDED.final_price,
    base_price = EXCLUDED.base_price,
    auction_type = EXCLUDED.auction_type,
    round = EXCLUDED.round,
    auction_date = EXCLUDED.auction_date,
    updated_at = EXCLUDED.updated_at`

	query, args, err := sqlx.Named(upsertOutcomeQuery, outcomeToModel(outcome))
	if err != nil {
		return fmt.Errorf("bind upsert auction outcome query: %w", err)
	}
	query = r.db.Rebind(query)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert auction outcome: %w", err)
	}
	return nil
}

func (r *OutcomeRepository) List(ctx context.Context, filter auction.OutcomeFilter) ([]auction.Outcome, error) {
	query, args, err := qb.Select(outcomeSelectColumns...).From("auction_outcomes").
		Where(
			qb.Optional(filter.AuctionYear > 0, qb.Eq("auction_year", filter.AuctionYear)),
			qb.Optional(filter.TeamID > 0, qb.Eq("team_id", filter.TeamID)),
			qb.Optional(filter.Status != "", qb.Eq("status", string(filter.Status))),
		).
		OrderBy("auction_year DESC", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list auction outcomes query: %w", err)
	}

	return r.selectOutcomes(ctx, query, args)
}

func (r *OutcomeRepository) ListByPlayer(ctx context.Context, playerID int64) ([]auction.Outcome, error) {
	query, args, err := qb.Select(outcomeSelectColumns...).From("auction_outcomes").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("auction_year DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player auction outcomes query: %w", err)
	}

	return r.selectOutcomes(ctx, query, args)
}

func (r *OutcomeRepository) selectOutcomes(ctx context.Context, query string, args []any) ([]auction.Outcome, error) {
	var rows []outcomeTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select auction outcomes: %w", err)
	}

	out := make([]auction.Outcome, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
