package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-auction/internal/domain/season"
	qb "github.com/riskibarqy/cricket-auction/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

var seasonSelectColumns = qb.Columns(seasonTableModel{})

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID int64) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Select(seasonSelectColumns...).From("seasons").Where(qb.Eq("id", seasonID)))
}

func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Select(seasonSelectColumns...).From("seasons").Where(qb.Eq("year", year)))
}

func (r *SeasonRepository) GetCurrent(ctx context.Context) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Select(seasonSelectColumns...).From("seasons").
		Where(qb.Eq("is_current", true)).
		OrderBy("year DESC"))
}

func (r *SeasonRepository) getOne(ctx context.Context, b *qb.SelectBuilder) (season.Season, bool, error) {
	query, args, err := b.Limit(1).ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season: %w", err)
	}

	return season.Season(row), true, nil
}
