package auction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MinAuctionYear is the first season the auction ledger accepts.
const MinAuctionYear = 2008

type BidType string

const (
	BidTypeStandard BidType = "standard"
	BidTypeJump     BidType = "jump"
)

func ParseBidType(v string) (BidType, error) {
	switch BidType(v) {
	case "":
		return BidTypeStandard, nil
	case BidTypeStandard, BidTypeJump:
		return BidType(v), nil
	default:
		return "", fmt.Errorf("unknown bid type %q", v)
	}
}

// Type is the kind of auction event a player was registered under.
type Type string

const (
	TypeMega      Type = "mega"
	TypeMini      Type = "mini"
	TypeRetention Type = "retention"
)

func ParseType(v string) (Type, error) {
	switch Type(v) {
	case "":
		return TypeMega, nil
	case TypeMega, TypeMini, TypeRetention:
		return Type(v), nil
	default:
		return "", fmt.Errorf("unknown auction type %q", v)
	}
}

// Bid is an immutable ledger row.
type Bid struct {
	ID          string
	PlayerID    int64
	TeamID      int64
	AuctionYear int
	Round       int
	Amount      decimal.Decimal
	Type        BidType
	PlacedBy    string
	CreatedAt   time.Time
}

// Outcome is the single snapshot kept per (player, auction year).
type Outcome struct {
	PlayerID    int64
	AuctionYear int
	Status      Status
	TeamID      *int64
	FinalPrice  *decimal.Decimal
	BasePrice   decimal.Decimal
	AuctionType Type
	Round       int
	AuctionDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOutcome starts the first round of bidding for a player.
func NewOutcome(playerID int64, year int, basePrice decimal.Decimal, auctionType Type, now time.Time) Outcome {
	if auctionType == "" {
		auctionType = TypeMega
	}
	return Outcome{
		PlayerID:    playerID,
		AuctionYear: year,
		Status:      StatusBidding,
		BasePrice:   basePrice,
		AuctionType: auctionType,
		Round:       1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Leader records a bid as the current leading one.
func (o Outcome) Leader(bid Bid, now time.Time) Outcome {
	teamID := bid.TeamID
	amount := bid.Amount
	o.Status = StatusBidding
	o.TeamID = &teamID
	o.FinalPrice = &amount
	o.UpdatedAt = now
	return o
}

// Key identifies the per-player auction critical section.
func Key(playerID int64, year int) string {
	return fmt.Sprintf("auction:%d:%d", year, playerID)
}

type OutcomeFilter struct {
	AuctionYear int
	TeamID      int64
	Status      Status
}

func (f OutcomeFilter) Match(o Outcome) bool {
	if f.AuctionYear > 0 && o.AuctionYear != f.AuctionYear {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.TeamID > 0 && (o.TeamID == nil || *o.TeamID != f.TeamID) {
		return false
	}
	return true
}
