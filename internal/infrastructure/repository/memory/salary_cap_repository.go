package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
)

type SalaryCapRepository struct {
	access access
}

func (r *SalaryCapRepository) Get(_ context.Context, teamID int64, season int) (salarycap.SalaryCap, bool, error) {
	var (
		item   salarycap.SalaryCap
		exists bool
	)
	r.access.read(func(st *ledgerState) {
		item, exists = st.caps[capKey{teamID: teamID, season: season}]
	})
	return item, exists, nil
}

func (r *SalaryCapRepository) Upsert(_ context.Context, item salarycap.SalaryCap) error {
	return r.access.write(func(st *ledgerState) error {
		st.caps[capKey{teamID: item.TeamID, season: item.Season}] = item
		return nil
	})
}

func (r *SalaryCapRepository) ListBySeason(_ context.Context, season int) ([]salarycap.SalaryCap, error) {
	var out []salarycap.SalaryCap
	r.access.read(func(st *ledgerState) {
		for key, item := range st.caps {
			if key.season == season {
				out = append(out, item)
			}
		}
	})

	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}
