package team

import "context"

// Repository describes the roster directory lookups needed for teams.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID int64) (Team, bool, error)
	ListByIDs(ctx context.Context, teamIDs []int64) ([]Team, error)
}
