package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
)

// lockWaitStore runs onLock the first time a unit of work takes a lock, the
// way a competing unit would commit while this one waits on the key.
type lockWaitStore struct {
	ledger.Store
	onLock func(ctx context.Context, tx ledger.Tx) error
}

func (s *lockWaitStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		return fn(ctx, &lockWaitTx{Tx: tx, store: s})
	})
}

type lockWaitTx struct {
	ledger.Tx
	store *lockWaitStore
}

func (t *lockWaitTx) Lock(ctx context.Context, key string) error {
	if hook := t.store.onLock; hook != nil {
		t.store.onLock = nil
		if err := hook(ctx, t.Tx); err != nil {
			return err
		}
	}
	return t.Tx.Lock(ctx, key)
}

func TestContractService_CreateRejectsSecondContractForSeason(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	created, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 107, TeamID: memory.TeamIDBangalore, SeriesID: testSeriesID, Price: money("210"),
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if created.Contract.Season != testAuctionYear || created.Contract.Type != contract.TypeDirect {
		t.Fatalf("unexpected contract: %+v", created.Contract)
	}

	_, err = fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 107, TeamID: memory.TeamIDChennai, SeriesID: testSeriesID, Price: money("50"),
	})
	if !errors.Is(err, contract.ErrContractAlreadyExists) {
		t.Fatalf("expected ErrContractAlreadyExists, got %v", err)
	}

	if _, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 107, TeamID: memory.TeamIDBangalore, SeriesID: 17, Price: money("150"),
	}); err != nil {
		t.Fatalf("contract for a different season should succeed: %v", err)
	}
}

func TestContractService_CreateValidatesInput(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	cases := []struct {
		name  string
		input CreateContractInput
		want  error
	}{
		{name: "zero price", input: CreateContractInput{PlayerID: 101, TeamID: 1, SeriesID: testSeriesID}, want: ErrInvalidInput},
		{name: "both leadership flags", input: CreateContractInput{PlayerID: 101, TeamID: 1, SeriesID: testSeriesID, Price: money("10"), IsCaptain: true, IsViceCaptain: true}, want: ErrInvalidInput},
		{name: "end before start", input: CreateContractInput{PlayerID: 101, TeamID: 1, SeriesID: testSeriesID, Price: money("10"), StartDate: &start, EndDate: &end}, want: ErrInvalidInput},
		{name: "bad type", input: CreateContractInput{PlayerID: 101, TeamID: 1, SeriesID: testSeriesID, Price: money("10"), ContractType: "loan"}, want: ErrInvalidInput},
		{name: "unknown team", input: CreateContractInput{PlayerID: 101, TeamID: 42, SeriesID: testSeriesID, Price: money("10")}, want: ErrTeamNotFound},
		{name: "unknown series", input: CreateContractInput{PlayerID: 101, TeamID: 1, SeriesID: 3, Price: money("10")}, want: ErrSeasonNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := fx.contracts.Create(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestContractService_CaptaincyIsExclusivePerTeamSeason(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	first, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 101, TeamID: memory.TeamIDChennai, SeriesID: testSeriesID, Price: money("120"), IsCaptain: true,
	})
	if err != nil {
		t.Fatalf("create first captain: %v", err)
	}
	second, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 102, TeamID: memory.TeamIDChennai, SeriesID: testSeriesID, Price: money("180"), IsCaptain: true,
	})
	if err != nil {
		t.Fatalf("create second captain: %v", err)
	}

	stored, _, err := fx.store.Contracts().GetByID(ctx, first.Contract.ID)
	if err != nil {
		t.Fatalf("get first contract: %v", err)
	}
	if stored.IsCaptain {
		t.Fatalf("previous captain should be cleared")
	}

	vice, err := fx.contracts.AssignCaptaincy(ctx, first.Contract.ID, false, true)
	if err != nil {
		t.Fatalf("assign vice captain: %v", err)
	}
	if !vice.IsViceCaptain || vice.IsCaptain {
		t.Fatalf("unexpected flags: %+v", vice)
	}

	captain, err := fx.contracts.AssignCaptaincy(ctx, first.Contract.ID, true, false)
	if err != nil {
		t.Fatalf("reassign captain: %v", err)
	}
	if !captain.IsCaptain {
		t.Fatalf("expected captain flag to be set")
	}

	items, err := fx.store.Contracts().List(ctx, contract.Filter{TeamID: memory.TeamIDChennai, Season: testAuctionYear})
	if err != nil {
		t.Fatalf("list contracts: %v", err)
	}
	captains := 0
	for _, item := range items {
		if item.IsCaptain {
			captains++
		}
		if item.ID == second.Contract.ID && item.IsCaptain {
			t.Fatalf("second contract should have lost captaincy")
		}
	}
	if captains != 1 {
		t.Fatalf("expected exactly one captain, got %d", captains)
	}

	if _, err := fx.contracts.AssignCaptaincy(ctx, first.Contract.ID, true, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected both flags to be rejected, got %v", err)
	}
	if _, err := fx.contracts.AssignCaptaincy(ctx, "missing", true, false); !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}

func TestContractService_ReleaseUpdatesCapAndBlocksCaptaincy(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	if _, err := fx.caps.Configure(ctx, ConfigureSalaryCapInput{
		TeamID: memory.TeamIDMumbai, Season: testAuctionYear, CapAmount: money("200"),
	}); err != nil {
		t.Fatalf("configure cap: %v", err)
	}
	created, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 104, TeamID: memory.TeamIDMumbai, SeriesID: testSeriesID, Price: money("180"), IsCaptain: true,
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if created.SalaryCap == nil || !created.SalaryCap.UsedAmount.Equal(money("180")) {
		t.Fatalf("unexpected cap after create: %+v", created.SalaryCap)
	}

	released, err := fx.contracts.Release(ctx, created.Contract.ID, nil)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Contract.Status != contract.StatusTerminated || released.Contract.ReleasedAt == nil || released.Contract.IsCaptain {
		t.Fatalf("unexpected released contract: %+v", released.Contract)
	}
	if released.SalaryCap == nil || !released.SalaryCap.UsedAmount.IsZero() {
		t.Fatalf("released contract should not count toward the cap: %+v", released.SalaryCap)
	}

	if _, err := fx.contracts.Release(ctx, created.Contract.ID, nil); !errors.Is(err, contract.ErrContractNotActive) {
		t.Fatalf("expected ErrContractNotActive on double release, got %v", err)
	}
	if _, err := fx.contracts.AssignCaptaincy(ctx, created.Contract.ID, true, false); !errors.Is(err, contract.ErrContractNotActive) {
		t.Fatalf("expected ErrContractNotActive for captaincy, got %v", err)
	}
}

func TestContractService_EnforcedCapRejectsOverspend(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{Enforced: true})
	ctx := t.Context()

	if _, err := fx.caps.Configure(ctx, ConfigureSalaryCapInput{
		TeamID: memory.TeamIDKolkata, Season: testAuctionYear, CapAmount: money("100"),
	}); err != nil {
		t.Fatalf("configure cap: %v", err)
	}
	if _, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 111, TeamID: memory.TeamIDKolkata, SeriesID: testSeriesID, Price: money("70"),
	}); err != nil {
		t.Fatalf("create within cap: %v", err)
	}

	_, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 112, TeamID: memory.TeamIDKolkata, SeriesID: testSeriesID, Price: money("40"),
	})
	if !errors.Is(err, salarycap.ErrCapExceeded) {
		t.Fatalf("expected ErrCapExceeded, got %v", err)
	}
	if _, exists, _ := fx.store.Contracts().GetByPlayerSeason(ctx, 112, testAuctionYear); exists {
		t.Fatalf("rejected contract must not persist")
	}
}

func TestContractService_TeamSeasonAndListBySeason(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	inputs := []CreateContractInput{
		{PlayerID: 107, TeamID: memory.TeamIDBangalore, SeriesID: testSeriesID, Price: money("210"), IsCaptain: true},
		{PlayerID: 108, TeamID: memory.TeamIDBangalore, SeriesID: testSeriesID, Price: money("125"), Category: string(contract.CategoryOverseas)},
		{PlayerID: 109, TeamID: memory.TeamIDBangalore, SeriesID: testSeriesID, Price: money("115"), Category: string(contract.CategoryOverseas)},
		{PlayerID: 110, TeamID: memory.TeamIDKolkata, SeriesID: testSeriesID, Price: money("120")},
	}
	for _, input := range inputs {
		if _, err := fx.contracts.Create(ctx, input); err != nil {
			t.Fatalf("create contract for %d: %v", input.PlayerID, err)
		}
	}

	teamSeason, err := fx.contracts.TeamSeason(ctx, memory.TeamIDBangalore, testAuctionYear)
	if err != nil {
		t.Fatalf("team season: %v", err)
	}
	if teamSeason.Summary.TotalContracts != 3 || !teamSeason.Summary.TotalValue.Equal(money("450")) {
		t.Fatalf("unexpected team summary: %+v", teamSeason.Summary)
	}
	if teamSeason.SalaryCap.Compliance != salarycap.ComplianceUnknown || !teamSeason.SalaryCap.UsedAmount.Equal(money("450")) {
		t.Fatalf("expected unknown compliance with live usage, got %+v", teamSeason.SalaryCap)
	}
	if len(teamSeason.Nationalities) != 3 || teamSeason.Nationalities[0].Players != 1 {
		t.Fatalf("unexpected nationality breakdown: %+v", teamSeason.Nationalities)
	}

	season, err := fx.contracts.ListBySeason(ctx, SeasonContractsFilter{})
	if err != nil {
		t.Fatalf("list by season: %v", err)
	}
	if season.Season != testAuctionYear || len(season.Items) != 4 {
		t.Fatalf("unexpected season listing: season=%d items=%d", season.Season, len(season.Items))
	}
	if len(season.Teams) != 2 || season.Teams[0].TeamID != memory.TeamIDBangalore || season.Teams[0].OverseasPlayers != 2 {
		t.Fatalf("unexpected team summaries: %+v", season.Teams)
	}
	for _, item := range season.Items {
		if item.PlayerID == 110 && item.Category != contract.CategoryOverseas {
			t.Fatalf("overseas player without explicit category should default to overseas, got %s", item.Category)
		}
	}
	if season.Teams[0].CaptainID == nil || *season.Teams[0].CaptainID != 107 {
		t.Fatalf("expected captain 107, got %+v", season.Teams[0].CaptainID)
	}

	if _, err := fx.contracts.ListBySeason(ctx, SeasonContractsFilter{Status: "expired"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid status to fail, got %v", err)
	}

	history, err := fx.contracts.PlayerContracts(ctx, 107)
	if err != nil {
		t.Fatalf("player contracts: %v", err)
	}
	if history.Summary.TotalContracts != 1 || history.Summary.CaptaincySeasons != 1 || history.Items[0].TeamShort != "RCB" {
		t.Fatalf("unexpected player contracts: %+v", history)
	}
}

func TestContractService_ReadsContractAfterTakingTeamLock(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	if _, err := fx.caps.Configure(ctx, ConfigureSalaryCapInput{
		TeamID: memory.TeamIDMumbai, Season: testAuctionYear, CapAmount: money("300"),
	}); err != nil {
		t.Fatalf("configure cap: %v", err)
	}
	created, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 104, TeamID: memory.TeamIDMumbai, SeriesID: testSeriesID, Price: money("180"),
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}

	store := &lockWaitStore{Store: fx.store}
	releaseMeanwhile := func(ctx context.Context, tx ledger.Tx) error {
		current, _, err := tx.Contracts().GetByID(ctx, created.Contract.ID)
		if err != nil {
			return err
		}
		released, err := current.Release(fx.clock.Now(), fx.clock.Now())
		if err != nil {
			return err
		}
		return tx.Contracts().Update(ctx, released)
	}
	roster := memory.SeedRoster()
	svc := NewContractService(
		store,
		memory.NewPlayerRepository(roster.Players),
		memory.NewTeamRepository(roster.Teams),
		NewSeasonResolver(memory.NewSeasonRepository(roster.Seasons), 0),
		&sequenceIDGenerator{prefix: "race"},
		CapPolicy{},
		logging.NewNop(),
		fx.clock,
	)

	store.onLock = releaseMeanwhile
	if _, err := svc.AssignCaptaincy(ctx, created.Contract.ID, true, false); !errors.Is(err, contract.ErrContractNotActive) {
		t.Fatalf("captaincy over a contract released while waiting: expected ErrContractNotActive, got %v", err)
	}

	store.onLock = releaseMeanwhile
	if _, err := svc.Release(ctx, created.Contract.ID, nil); !errors.Is(err, contract.ErrContractNotActive) {
		t.Fatalf("release of a contract released while waiting: expected ErrContractNotActive, got %v", err)
	}

	stored, _, err := fx.store.Contracts().GetByID(ctx, created.Contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if stored.Status != contract.StatusActive || stored.IsCaptain {
		t.Fatalf("failed units must leave the contract untouched, got %+v", stored)
	}
}
