package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/shopspring/decimal"
)

type outcomeTableModel struct {
	PlayerID    int64               `db:"player_id"`
	AuctionYear int                 `db:"auction_year"`
	Status      string              `db:"status"`
	TeamID      sql.NullInt64       `db:"team_id"`
	FinalPrice  decimal.NullDecimal `db:"final_price"`
	BasePrice   decimal.Decimal     `db:"base_price"`
	AuctionType string              `db:"auction_type"`
	Round       int                 `db:"round"`
	AuctionDate *time.Time          `db:"auction_date"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
}

func outcomeToModel(o auction.Outcome) outcomeTableModel {
	row := outcomeTableModel{
		PlayerID:    o.PlayerID,
		AuctionYear: o.AuctionYear,
		Status:      string(o.Status),
		BasePrice:   o.BasePrice,
		AuctionType: string(o.AuctionType),
		Round:       o.Round,
		AuctionDate: o.AuctionDate,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.TeamID != nil {
		row.TeamID = sql.NullInt64{Int64: *o.TeamID, Valid: true}
	}
	if o.FinalPrice != nil {
		row.FinalPrice = decimal.NullDecimal{Decimal: *o.FinalPrice, Valid: true}
	}
	return row
}

func (m outcomeTableModel) toDomain() auction.Outcome {
	out := auction.Outcome{
		PlayerID:    m.PlayerID,
		AuctionYear: m.AuctionYear,
		Status:      auction.Status(m.Status),
		BasePrice:   m.BasePrice,
		AuctionType: auction.Type(m.AuctionType),
		Round:       m.Round,
		AuctionDate: m.AuctionDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.TeamID.Valid {
		teamID := m.TeamID.Int64
		out.TeamID = &teamID
	}
	if m.FinalPrice.Valid {
		price := m.FinalPrice.Decimal
		out.FinalPrice = &price
	}
	return out
}
