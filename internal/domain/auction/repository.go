package auction

import (
	"context"

	"github.com/shopspring/decimal"
)

// BidRepository is the append-only bid ledger.
type BidRepository interface {
	Append(ctx context.Context, bid Bid) error
	// HighestAmount aggregates MAX(amount) for one round; zero when no bids exist.
	HighestAmount(ctx context.Context, playerID int64, year, round int) (decimal.Decimal, error)
	ListByYear(ctx context.Context, year int, playerID int64) ([]Bid, error)
	CountByPlayer(ctx context.Context, playerID int64) (map[int]int, error)
}

type OutcomeRepository interface {
	Get(ctx context.Context, playerID int64, year int) (Outcome, bool, error)
	// Upsert replaces the whole snapshot for (player, year).
	Upsert(ctx context.Context, outcome Outcome) error
	List(ctx context.Context, filter OutcomeFilter) ([]Outcome, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]Outcome, error)
}
