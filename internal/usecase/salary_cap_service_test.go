package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/memory"
)

func TestSalaryCapService_RecomputeIsIdempotent(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	if _, err := fx.caps.Configure(ctx, ConfigureSalaryCapInput{
		TeamID: memory.TeamIDChennai, Season: testAuctionYear, CapAmount: money("100"),
	}); err != nil {
		t.Fatalf("configure cap: %v", err)
	}
	if _, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 101, TeamID: memory.TeamIDChennai, SeriesID: testSeriesID, Price: money("60.25"),
	}); err != nil {
		t.Fatalf("create contract: %v", err)
	}

	first, err := fx.caps.Recompute(ctx, memory.TeamIDChennai, testAuctionYear)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	fx.clock.Advance(time.Minute)
	second, err := fx.caps.Recompute(ctx, memory.TeamIDChennai, testAuctionYear)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	if !first.UsedAmount.Equal(second.UsedAmount) || first.Compliance != second.Compliance {
		t.Fatalf("recompute is not idempotent: %+v vs %+v", first, second)
	}
	if !second.UsedAmount.Equal(money("60.25")) || second.Remaining == nil || !second.Remaining.Equal(money("39.75")) {
		t.Fatalf("unexpected cap state: %+v", second)
	}
}

func TestSalaryCapService_ConfigureMarksNonCompliant(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	if _, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 105, TeamID: memory.TeamIDMumbai, SeriesID: testSeriesID, Price: money("90"),
	}); err != nil {
		t.Fatalf("create contract: %v", err)
	}

	before, err := fx.caps.Get(ctx, memory.TeamIDMumbai, testAuctionYear)
	if err != nil {
		t.Fatalf("get cap: %v", err)
	}
	if before.Compliance != salarycap.ComplianceUnknown || before.CapAmount != nil {
		t.Fatalf("expected unknown compliance before configure, got %+v", before)
	}

	status, err := fx.caps.Configure(ctx, ConfigureSalaryCapInput{
		TeamID: memory.TeamIDMumbai, Season: testAuctionYear, CapAmount: money("80"),
	})
	if err != nil {
		t.Fatalf("configure cap: %v", err)
	}
	if status.Compliance != salarycap.ComplianceNonCompliant || !status.Remaining.Equal(money("-10")) {
		t.Fatalf("expected non compliant cap, got %+v", status)
	}

	if _, err := fx.caps.Recompute(ctx, memory.TeamIDKolkata, testAuctionYear); !errors.Is(err, salarycap.ErrCapNotConfigured) {
		t.Fatalf("expected ErrCapNotConfigured, got %v", err)
	}
	if _, err := fx.caps.Configure(ctx, ConfigureSalaryCapInput{
		TeamID: memory.TeamIDMumbai, Season: testAuctionYear,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected zero cap to be rejected, got %v", err)
	}
}

func TestSalaryCapService_RecomputeSeasonCountsOutcomes(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	for _, cfg := range []ConfigureSalaryCapInput{
		{TeamID: memory.TeamIDChennai, Season: testAuctionYear, CapAmount: money("100")},
		{TeamID: memory.TeamIDMumbai, Season: testAuctionYear, CapAmount: money("50")},
	} {
		if _, err := fx.caps.Configure(ctx, cfg); err != nil {
			t.Fatalf("configure cap: %v", err)
		}
	}
	if _, err := fx.contracts.Create(ctx, CreateContractInput{
		PlayerID: 104, TeamID: memory.TeamIDMumbai, SeriesID: testSeriesID, Price: money("75"),
	}); err != nil {
		t.Fatalf("create contract: %v", err)
	}

	result, err := fx.caps.RecomputeSeason(ctx, testAuctionYear)
	if err != nil {
		t.Fatalf("recompute season: %v", err)
	}
	if result.RecomputedCount != 2 || result.SkippedCount != 2 || result.FailedCount != 0 || result.NonCompliant != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Rows) != 4 || result.Rows[0].TeamID != memory.TeamIDChennai {
		t.Fatalf("rows should be ordered by team: %+v", result.Rows)
	}
}

func TestSalaryCapService_DefaultCapAppliesOnRecompute(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{DefaultCap: money("120")})
	ctx := t.Context()

	status, err := fx.caps.Recompute(ctx, memory.TeamIDBangalore, testAuctionYear)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if status.CapAmount == nil || !status.CapAmount.Equal(money("120")) || status.Compliance != salarycap.ComplianceCompliant {
		t.Fatalf("expected default cap to be configured, got %+v", status)
	}
}

func TestSalaryCapService_RecomputeSeasonIncludesStoredCapsOffRoster(t *testing.T) {
	fx := newLedgerFixture(t, CapPolicy{})
	ctx := t.Context()

	const disbandedTeam int64 = 99
	if err := fx.store.SalaryCaps().Upsert(ctx, salarycap.SalaryCap{
		TeamID:      disbandedTeam,
		Season:      testAuctionYear,
		CapAmount:   money("40"),
		UsedAmount:  money("75"),
		IsCompliant: false,
		UpdatedAt:   fx.clock.Now(),
	}); err != nil {
		t.Fatalf("seed stored cap: %v", err)
	}

	result, err := fx.caps.RecomputeSeason(ctx, testAuctionYear)
	if err != nil {
		t.Fatalf("recompute season: %v", err)
	}
	if len(result.Rows) != 5 || result.RecomputedCount != 1 || result.SkippedCount != 4 {
		t.Fatalf("unexpected recompute result: %+v", result)
	}

	last := result.Rows[len(result.Rows)-1]
	if last.TeamID != disbandedTeam || last.Cap == nil {
		t.Fatalf("expected stored cap to be recomputed, got %+v", last)
	}
	if !last.Cap.UsedAmount.IsZero() || last.Cap.Compliance != salarycap.ComplianceCompliant {
		t.Fatalf("stored cap should be re-derived from contracts, got %+v", last.Cap)
	}
}
