package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

var (
	ErrPlayerNotFound   = fmt.Errorf("%w: player", ErrNotFound)
	ErrTeamNotFound     = fmt.Errorf("%w: team", ErrNotFound)
	ErrSeasonNotFound   = fmt.Errorf("%w: season", ErrNotFound)
	ErrContractNotFound = fmt.Errorf("%w: contract", ErrNotFound)
	ErrAuctionNotFound  = fmt.Errorf("%w: auction", ErrNotFound)

	ErrPlayerInactive     = errors.New("player is not active")
	ErrInvalidAuctionYear = fmt.Errorf("%w: auction year out of range", ErrInvalidInput)
	ErrFinalizeFailed     = errors.New("auction finalization failed")
)

// FinalizeFailedError reports that the contract or salary cap step of a
// finalization failed; the outcome was left untouched.
type FinalizeFailedError struct {
	PlayerID    int64
	AuctionYear int
	Cause       error
}

func (e *FinalizeFailedError) Error() string {
	return fmt.Sprintf("finalize auction player=%d year=%d: %v", e.PlayerID, e.AuctionYear, e.Cause)
}

func (e *FinalizeFailedError) Unwrap() error {
	return e.Cause
}

func (e *FinalizeFailedError) Is(target error) bool {
	return target == ErrFinalizeFailed
}
