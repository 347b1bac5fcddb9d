package player

import "context"

// Repository describes the roster directory lookups needed for players.
type Repository interface {
	GetByID(ctx context.Context, playerID int64) (Player, bool, error)
	ListByIDs(ctx context.Context, playerIDs []int64) ([]Player, error)
}
