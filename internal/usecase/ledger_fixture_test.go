package usecase

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/shopspring/decimal"
)

const (
	testAuctionYear = 2025
	testSeriesID    = 18
)

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.next.Add(1)), nil
}

type ledgerFixture struct {
	store     *memory.LedgerStore
	clock     *clockwork.FakeClock
	auctions  *AuctionService
	contracts *ContractService
	caps      *SalaryCapService
}

func newLedgerFixture(t *testing.T, policy CapPolicy) ledgerFixture {
	t.Helper()

	roster := memory.SeedRoster()
	players := memory.NewPlayerRepository(roster.Players)
	teams := memory.NewTeamRepository(roster.Teams)
	seasons := NewSeasonResolver(memory.NewSeasonRepository(roster.Seasons), 0)

	store := memory.NewLedgerStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	logger := logging.NewNop()
	ids := &sequenceIDGenerator{prefix: "id"}

	return ledgerFixture{
		store:     store,
		clock:     clock,
		auctions:  NewAuctionService(store, players, teams, seasons, ids, policy, logger, clock),
		contracts: NewContractService(store, players, teams, seasons, ids, policy, logger, clock),
		caps:      NewSalaryCapService(store, teams, policy, 2, logger, clock),
	}
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func moneyPtr(v string) *decimal.Decimal {
	d := money(v)
	return &d
}

func int64Ptr(v int64) *int64 {
	return &v
}
