package ledger

import (
	"context"

	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
)

// Repositories groups the four ledgers owned by the auction core.
type Repositories interface {
	Bids() auction.BidRepository
	Outcomes() auction.OutcomeRepository
	Contracts() contract.Repository
	SalaryCaps() salarycap.Repository
}

// Tx is a unit of work. Lock serializes callers on key until the unit ends.
type Tx interface {
	Repositories
	Lock(ctx context.Context, key string) error
}

// Store runs fn atomically: every write made through tx is committed together
// or not at all.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
