package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type bidTableModel struct {
	PublicID    string          `db:"public_id"`
	PlayerID    int64           `db:"player_id"`
	TeamID      int64           `db:"team_id"`
	AuctionYear int             `db:"auction_year"`
	Round       int             `db:"round"`
	Amount      decimal.Decimal `db:"amount"`
	BidType     string          `db:"bid_type"`
	PlacedBy    string          `db:"placed_by"`
	CreatedAt   time.Time       `db:"created_at"`
}

type bidCountRow struct {
	AuctionYear int `db:"auction_year"`
	Total       int `db:"total"`
}
