package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/cricket-auction/internal/domain/season"
)

// SeasonResolver maps the series ids used by clients onto season years and
// answers which season is current.
type SeasonResolver struct {
	seasons       season.Repository
	currentSeason int
}

// NewSeasonResolver pins the current season when currentSeason > 0; otherwise
// the roster's current flag decides.
func NewSeasonResolver(seasons season.Repository, currentSeason int) *SeasonResolver {
	return &SeasonResolver{seasons: seasons, currentSeason: currentSeason}
}

// YearOf resolves a series id to its season year.
func (r *SeasonResolver) YearOf(ctx context.Context, seriesID int64) (season.Season, error) {
	if seriesID <= 0 {
		return season.Season{}, fmt.Errorf("%w: series_id must be > 0", ErrInvalidInput)
	}

	item, exists, err := r.seasons.GetByID(ctx, seriesID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season by id: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: series_id=%d", ErrSeasonNotFound, seriesID)
	}
	return item, nil
}

// ByYear resolves a season year and reports ErrSeasonNotFound when unknown.
func (r *SeasonResolver) ByYear(ctx context.Context, year int) (season.Season, error) {
	if year <= 0 {
		return season.Season{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	item, exists, err := r.seasons.GetByYear(ctx, year)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season by year: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: year=%d", ErrSeasonNotFound, year)
	}
	return item, nil
}

func (r *SeasonResolver) Current(ctx context.Context) (int, error) {
	if r.currentSeason > 0 {
		return r.currentSeason, nil
	}

	item, exists, err := r.seasons.GetCurrent(ctx)
	if err != nil {
		return 0, fmt.Errorf("get current season: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: no current season", ErrSeasonNotFound)
	}
	return item.Year, nil
}
