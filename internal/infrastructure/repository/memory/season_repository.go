package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-auction/internal/domain/season"
)

type SeasonRepository struct {
	mu      sync.RWMutex
	seasons []season.Season
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	out := make([]season.Season, 0, len(seasons))
	out = append(out, seasons...)

	return &SeasonRepository{seasons: out}
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID int64) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.seasons {
		if item.ID == seasonID {
			return item, true, nil
		}
	}

	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetByYear(_ context.Context, year int) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.seasons {
		if item.Year == year {
			return item, true, nil
		}
	}

	return season.Season{}, false, nil
}

// GetCurrent returns the latest season flagged current.
func (r *SeasonRepository) GetCurrent(_ context.Context) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		current season.Season
		found   bool
	)
	for _, item := range r.seasons {
		if !item.IsCurrent {
			continue
		}
		if !found || item.Year > current.Year {
			current, found = item, true
		}
	}

	return current, found, nil
}
