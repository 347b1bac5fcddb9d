package contract

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the contract ledger. Create must fail with ErrContractAlreadyExists
// when (player, season) is taken.
type Repository interface {
	Create(ctx context.Context, item Contract) error
	Update(ctx context.Context, item Contract) error
	GetByID(ctx context.Context, contractID string) (Contract, bool, error)
	GetByPlayerSeason(ctx context.Context, playerID int64, season int) (Contract, bool, error)
	List(ctx context.Context, filter Filter) ([]Contract, error)
	// ClearCaptain unsets is_captain on every contract of (team, season) except exceptID.
	ClearCaptain(ctx context.Context, teamID int64, season int, exceptID string) error
	ClearViceCaptain(ctx context.Context, teamID int64, season int, exceptID string) error
	SumActiveValue(ctx context.Context, teamID int64, season int) (decimal.Decimal, error)
}
