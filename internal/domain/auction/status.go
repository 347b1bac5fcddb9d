package auction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusBidding      Status = "bidding"
	StatusSold         Status = "sold"
	StatusUnsold       Status = "unsold"
	StatusRetained     Status = "retained"
	StatusRightToMatch Status = "right_to_match"
)

var AllStatuses = map[Status]struct{}{
	StatusBidding:      {},
	StatusSold:         {},
	StatusUnsold:       {},
	StatusRetained:     {},
	StatusRightToMatch: {},
}

func ParseStatus(v string) (Status, error) {
	if _, ok := AllStatuses[Status(v)]; !ok {
		return "", fmt.Errorf("unknown auction status %q", v)
	}
	return Status(v), nil
}

func (s Status) IsTerminal() bool {
	return s != StatusBidding
}

// CanTransition reports whether the outcome state machine allows from -> to.
func CanTransition(from, to Status) bool {
	return from == StatusBidding && to.IsTerminal()
}

// Reopenable reports whether a new round may be started for a closed outcome.
func (s Status) Reopenable() bool {
	return s == StatusUnsold || s == StatusRightToMatch
}

// CreatesContract reports whether finalizing into s binds the player to a team.
func (s Status) CreatesContract() bool {
	return s == StatusSold || s == StatusRetained
}

// Finalization is a requested terminal disposition.
type Finalization struct {
	Status   Status
	TeamID   *int64
	Price    *decimal.Decimal
	Override bool
}

// ValidateFinalization checks a terminal transition against the current snapshot and ledger highest.
func ValidateFinalization(current Outcome, highest decimal.Decimal, req Finalization) error {
	if !CanTransition(current.Status, req.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, req.Status)
	}

	switch req.Status {
	case StatusSold, StatusRetained, StatusRightToMatch:
		if req.TeamID == nil || *req.TeamID <= 0 {
			return fmt.Errorf("%w: team_id is required for %s", ErrInvalidFinalization, req.Status)
		}
		if req.Price == nil || !req.Price.IsPositive() {
			return fmt.Errorf("%w: price is required for %s", ErrInvalidFinalization, req.Status)
		}
		if req.Status != StatusSold {
			return nil
		}
		if req.Price.LessThan(highest) {
			return fmt.Errorf("%w: price %s is below highest bid %s", ErrInvalidFinalization, req.Price, highest)
		}
		if floor := Floor(current.BasePrice); req.Price.LessThan(floor) {
			return fmt.Errorf("%w: price %s is below floor %s", ErrInvalidFinalization, req.Price, floor)
		}
	case StatusUnsold:
		if highest.IsPositive() && !req.Override {
			return fmt.Errorf("%w: player has a winning bid of %s", ErrInvalidFinalization, highest)
		}
	}

	return nil
}

// Close applies a validated finalization to the snapshot.
func (o Outcome) Close(req Finalization, now time.Time) Outcome {
	o.Status = req.Status
	o.UpdatedAt = now
	if req.Status == StatusUnsold {
		o.TeamID = nil
		o.FinalPrice = nil
		return o
	}
	teamID := *req.TeamID
	price := *req.Price
	o.TeamID = &teamID
	o.FinalPrice = &price
	return o
}

// Reopen starts a new round of bidding; earlier rounds stay in the ledger.
func (o Outcome) Reopen(now time.Time) (Outcome, error) {
	if !o.Status.Reopenable() {
		return Outcome{}, fmt.Errorf("%w: cannot reopen a %s auction", ErrInvalidTransition, o.Status)
	}
	o.Status = StatusBidding
	o.TeamID = nil
	o.FinalPrice = nil
	o.Round++
	o.UpdatedAt = now
	return o, nil
}
