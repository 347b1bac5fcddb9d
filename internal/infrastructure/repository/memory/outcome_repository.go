package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
)

type OutcomeRepository struct {
	access access
}

func (r *OutcomeRepository) Get(_ context.Context, playerID int64, year int) (auction.Outcome, bool, error) {
	var (
		item   auction.Outcome
		exists bool
	)
	r.access.read(func(st *ledgerState) {
		item, exists = st.outcomes[outcomeKey{playerID: playerID, year: year}]
	})
	return item, exists, nil
}

func (r *OutcomeRepository) Upsert(_ context.Context, outcome auction.Outcome) error {
	return r.access.write(func(st *ledgerState) error {
		key := outcomeKey{playerID: outcome.PlayerID, year: outcome.AuctionYear}
		if prev, ok := st.outcomes[key]; ok {
			outcome.CreatedAt = prev.CreatedAt
		}
		st.outcomes[key] = outcome
		return nil
	})
}

func (r *OutcomeRepository) List(_ context.Context, filter auction.OutcomeFilter) ([]auction.Outcome, error) {
	var out []auction.Outcome
	r.access.read(func(st *ledgerState) {
		for _, item := range st.outcomes {
			if filter.Match(item) {
				out = append(out, item)
			}
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].AuctionYear != out[j].AuctionYear {
			return out[i].AuctionYear > out[j].AuctionYear
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *OutcomeRepository) ListByPlayer(ctx context.Context, playerID int64) ([]auction.Outcome, error) {
	var out []auction.Outcome
	r.access.read(func(st *ledgerState) {
		for key, item := range st.outcomes {
			if key.playerID == playerID {
				out = append(out, item)
			}
		}
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].AuctionYear > out[j].AuctionYear
	})
	return out, nil
}
