package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

func TestLedgerStore_WithinTxDiscardsWritesOnError(t *testing.T) {
	store := NewLedgerStore()
	ctx := t.Context()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := tx.Bids().Append(ctx, auction.Bid{
			ID: "b-1", PlayerID: 101, TeamID: TeamIDChennai, AuctionYear: 2025, Round: 1,
			Amount: decimal.NewFromInt(20), CreatedAt: now,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	highest, err := store.Bids().HighestAmount(ctx, 101, 2025, 1)
	if err != nil {
		t.Fatalf("highest amount: %v", err)
	}
	if !highest.IsZero() {
		t.Fatalf("rolled back bid must not be visible, got %s", highest)
	}
}

func TestLedgerStore_HighestAmountIsPerRound(t *testing.T) {
	store := NewLedgerStore()
	ctx := t.Context()

	for i, row := range []struct {
		round  int
		amount int64
	}{{1, 20}, {1, 45}, {2, 30}} {
		if err := store.Bids().Append(ctx, auction.Bid{
			ID: string(rune('a' + i)), PlayerID: 105, TeamID: TeamIDMumbai, AuctionYear: 2025,
			Round: row.round, Amount: decimal.NewFromInt(row.amount),
		}); err != nil {
			t.Fatalf("append bid: %v", err)
		}
	}

	first, _ := store.Bids().HighestAmount(ctx, 105, 2025, 1)
	second, _ := store.Bids().HighestAmount(ctx, 105, 2025, 2)
	if !first.Equal(decimal.NewFromInt(45)) || !second.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected highest per round: %s %s", first, second)
	}
}

func TestContractRepository_UniqueAndActiveSum(t *testing.T) {
	store := NewLedgerStore()
	ctx := t.Context()
	repo := store.Contracts()

	active := contract.Contract{
		ID: "c-1", PlayerID: 101, TeamID: TeamIDChennai, Season: 2025,
		Value: decimal.RequireFromString("80.50"), Status: contract.StatusActive,
	}
	if err := repo.Create(ctx, active); err != nil {
		t.Fatalf("create contract: %v", err)
	}

	dup := active
	dup.ID = "c-2"
	if err := repo.Create(ctx, dup); !errors.Is(err, contract.ErrContractAlreadyExists) {
		t.Fatalf("expected ErrContractAlreadyExists, got %v", err)
	}

	released := contract.Contract{
		ID: "c-3", PlayerID: 102, TeamID: TeamIDChennai, Season: 2025,
		Value: decimal.NewFromInt(100), Status: contract.StatusTerminated,
	}
	if err := repo.Create(ctx, released); err != nil {
		t.Fatalf("create released contract: %v", err)
	}

	sum, err := repo.SumActiveValue(ctx, TeamIDChennai, 2025)
	if err != nil {
		t.Fatalf("sum active value: %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("80.5")) {
		t.Fatalf("unexpected active sum: %s", sum)
	}
}

func TestParseRoster_DefaultsPlayersToActive(t *testing.T) {
	raw := []byte(`
teams:
  - {id: 9, name: Gujarat Titans, short: GT}
players:
  - {id: 901, name: Shubman Gill, role: batter, nationality: India}
  - {id: 902, name: Rashid Khan, role: bowler, nationality: Afghanistan, overseas: true, active: false}
seasons:
  - {id: 19, year: 2026, name: IPL 2026, current: true}
`)

	roster, err := ParseRoster(raw)
	if err != nil {
		t.Fatalf("parse roster: %v", err)
	}
	if len(roster.Teams) != 1 || len(roster.Players) != 2 || len(roster.Seasons) != 1 {
		t.Fatalf("unexpected roster sizes: %+v", roster)
	}
	if !roster.Players[0].IsActive || roster.Players[1].IsActive || !roster.Players[1].IsOverseas {
		t.Fatalf("unexpected player flags: %+v", roster.Players)
	}

	if _, err := ParseRoster([]byte("players:\n  - {id: 1, name: X, role: keeper}\n")); err == nil {
		t.Fatalf("expected invalid role to fail")
	}
}
