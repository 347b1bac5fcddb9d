package season

import "context"

// Repository describes season lookups against the roster directory.
type Repository interface {
	GetByID(ctx context.Context, seasonID int64) (Season, bool, error)
	GetByYear(ctx context.Context, year int) (Season, bool, error)
	GetCurrent(ctx context.Context) (Season, bool, error)
}
