package auction

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrBidTooLow           = errors.New("bid too low")
	ErrAuctionClosed       = errors.New("auction is closed")
	ErrInvalidTransition   = errors.New("invalid auction transition")
	ErrInvalidFinalization = errors.New("invalid auction finalization")
)

// BidTooLowError carries the computed minimum so the caller can retry.
type BidTooLowError struct {
	Amount  decimal.Decimal
	Highest decimal.Decimal
	Minimum decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("%s: amount %s, highest %s, minimum %s", ErrBidTooLow, e.Amount, e.Highest, e.Minimum)
}

func (e *BidTooLowError) Is(target error) bool {
	return target == ErrBidTooLow
}

// CheckBid validates amount against the ledger highest for the player's floor.
func CheckBid(amount, highest, basePrice decimal.Decimal) error {
	minimum := MinimumNextBid(highest, basePrice)
	if amount.LessThan(minimum) {
		return &BidTooLowError{Amount: amount, Highest: highest, Minimum: minimum}
	}
	return nil
}
