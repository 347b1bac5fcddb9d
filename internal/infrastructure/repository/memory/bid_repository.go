package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/shopspring/decimal"
)

type BidRepository struct {
	access access
}

func (r *BidRepository) Append(_ context.Context, bid auction.Bid) error {
	return r.access.write(func(st *ledgerState) error {
		for _, existing := range st.bids {
			if existing.ID == bid.ID {
				return fmt.Errorf("bid %s already recorded", bid.ID)
			}
		}
		st.bids = append(st.bids, bid)
		return nil
	})
}

func (r *BidRepository) HighestAmount(_ context.Context, playerID int64, year, round int) (decimal.Decimal, error) {
	highest := decimal.Zero
	r.access.read(func(st *ledgerState) {
		for _, bid := range st.bids {
			if bid.PlayerID != playerID || bid.AuctionYear != year || bid.Round != round {
				continue
			}
			if bid.Amount.GreaterThan(highest) {
				highest = bid.Amount
			}
		}
	})
	return highest, nil
}

func (r *BidRepository) ListByYear(_ context.Context, year int, playerID int64) ([]auction.Bid, error) {
	var out []auction.Bid
	r.access.read(func(st *ledgerState) {
		for _, bid := range st.bids {
			if bid.AuctionYear != year {
				continue
			}
			if playerID > 0 && bid.PlayerID != playerID {
				continue
			}
			out = append(out, bid)
		}
	})

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}

func (r *BidRepository) CountByPlayer(_ context.Context, playerID int64) (map[int]int, error) {
	out := make(map[int]int)
	r.access.read(func(st *ledgerState) {
		for _, bid := range st.bids {
			if bid.PlayerID == playerID {
				out[bid.AuctionYear]++
			}
		}
	})
	return out, nil
}
