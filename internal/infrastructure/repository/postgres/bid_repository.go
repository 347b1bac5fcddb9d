package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	qb "github.com/riskibarqy/cricket-auction/internal/platform/querybuilder"
	"github.com/shopspring/decimal"
)

type BidRepository struct {
	db sqlx.ExtContext
}

var bidSelectColumns = qb.Columns(bidTableModel{})

func NewBidRepository(db sqlx.ExtContext) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Append(ctx context.Context, bid auction.Bid) error {
	query, args, err := qb.InsertModel("bids", bidTableModel{
		PublicID:    bid.ID,
		PlayerID:    bid.PlayerID,
		TeamID:      bid.TeamID,
		AuctionYear: bid.AuctionYear,
		Round:       bid.Round,
		Amount:      bid.Amount,
		BidType:     string(bid.Type),
		PlacedBy:    bid.PlacedBy,
		CreatedAt:   bid.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert bid query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert bid: %w", err)
	}
	return nil
}

func (r *BidRepository) HighestAmount(ctx context.Context, playerID int64, year, round int) (decimal.Decimal, error) {
	query, args, err := qb.Select("COALESCE(MAX(amount), 0)").From("bids").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("auction_year", year),
			qb.Eq("round", round),
		).
		ToSQL()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build highest bid query: %w", err)
	}

	var highest decimal.Decimal
	if err := sqlx.GetContext(ctx, r.db, &highest, query, args...); err != nil {
		return decimal.Zero, fmt.Errorf("select highest bid: %w", err)
	}
	return highest, nil
}

func (r *BidRepository) ListByYear(ctx context.Context, year int, playerID int64) ([]auction.Bid, error) {
	query, args, err := qb.Select(bidSelectColumns...).From("bids").
		Where(
			qb.Eq("auction_year", year),
			qb.Optional(playerID > 0, qb.Eq("player_id", playerID)),
		).
		OrderBy("created_at DESC", "amount DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bids query: %w", err)
	}

	var rows []bidTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bids: %w", err)
	}

	out := make([]auction.Bid, 0, len(rows))
	for _, row := range rows {
		out = append(out, auction.Bid{
			ID:          row.PublicID,
			PlayerID:    row.PlayerID,
			TeamID:      row.TeamID,
			AuctionYear: row.AuctionYear,
			Round:       row.Round,
			Amount:      row.Amount,
			Type:        auction.BidType(row.BidType),
			PlacedBy:    row.PlacedBy,
			CreatedAt:   row.CreatedAt,
		})
	}
	return out, nil
}

func (r *BidRepository) CountByPlayer(ctx context.Context, playerID int64) (map[int]int, error) {
	query, args, err := qb.Select("auction_year", "COUNT(1) AS total").From("bids").
		Where(qb.Eq("player_id", playerID)).
		GroupBy("auction_year").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count bids query: %w", err)
	}

	var rows []bidCountRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count bids by player: %w", err)
	}

	out := make(map[int]int, len(rows))
	for _, row := range rows {
		out[row.AuctionYear] = row.Total
	}
	return out, nil
}
