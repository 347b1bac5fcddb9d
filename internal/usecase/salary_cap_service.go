package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/riskibarqy/cricket-auction/internal/domain/team"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/shopspring/decimal"
)

const defaultCapRecomputeWorkers = 4

const (
	capRecomputeStatusRecomputed = "recomputed"
	capRecomputeStatusSkipped    = "skipped"
	capRecomputeStatusFailed     = "failed"
)

type ConfigureSalaryCapInput struct {
	TeamID    int64
	Season    int
	CapAmount decimal.Decimal
}

type CapRecomputeRow struct {
	TeamID     int64
	Status     string
	Message    string
	Cap        *SalaryCapStatus
	DurationMs int64
}

type SeasonCapRecompute struct {
	Season          int
	Rows            []CapRecomputeRow
	RecomputedCount int
	SkippedCount    int
	FailedCount     int
	NonCompliant    int
}

type SalaryCapService struct {
	store     ledger.Store
	teams     team.Repository
	capPolicy CapPolicy
	workers   int
	logger    *logging.Logger
	clock     clockwork.Clock
}

func NewSalaryCapService(
	store ledger.Store,
	teams team.Repository,
	capPolicy CapPolicy,
	workers int,
	logger *logging.Logger,
	clock clockwork.Clock,
) *SalaryCapService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if workers <= 0 {
		workers = defaultCapRecomputeWorkers
	}

	return &SalaryCapService{
		store:     store,
		teams:     teams,
		capPolicy: capPolicy,
		workers:   workers,
		logger:    logger,
		clock:     clock,
	}
}

// Configure sets the cap amount for a team and season and recomputes usage
// against it.
func (s *SalaryCapService) Configure(ctx context.Context, input ConfigureSalaryCapInput) (SalaryCapStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SalaryCapService.Configure", teamSeasonAttrs(input.TeamID, input.Season)...)
	defer span.End()

	if input.Season <= 0 {
		return SalaryCapStatus{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}
	if !input.CapAmount.IsPositive() {
		return SalaryCapStatus{}, fmt.Errorf("%w: cap_amount must be > 0", ErrInvalidInput)
	}
	if err := checkMoney("cap_amount", input.CapAmount); err != nil {
		return SalaryCapStatus{}, err
	}
	if _, err := requireTeam(ctx, s.teams, input.TeamID); err != nil {
		return SalaryCapStatus{}, err
	}

	var updated salarycap.SalaryCap
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := tx.Lock(ctx, contract.TeamSeasonKey(input.TeamID, input.Season)); err != nil {
			return err
		}
		used, err := tx.Contracts().SumActiveValue(ctx, input.TeamID, input.Season)
		if err != nil {
			return fmt.Errorf("sum active contract value: %w", err)
		}

		current, exists, err := tx.SalaryCaps().Get(ctx, input.TeamID, input.Season)
		if err != nil {
			return fmt.Errorf("get salary cap: %w", err)
		}
		if !exists {
			current = salarycap.SalaryCap{TeamID: input.TeamID, Season: input.Season}
		}
		current.CapAmount = input.CapAmount
		if err := current.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		updated = salarycap.Compute(current, used, s.clock.Now().UTC())
		if err := tx.SalaryCaps().Upsert(ctx, updated); err != nil {
			return fmt.Errorf("upsert salary cap: %w", err)
		}
		return nil
	})
	if err != nil {
		return SalaryCapStatus{}, err
	}

	s.logger.InfoContext(ctx, "salary cap configured",
		"team_id", updated.TeamID,
		"season", updated.Season,
		"cap_amount", updated.CapAmount,
		"used_amount", updated.UsedAmount,
		"is_compliant", updated.IsCompliant,
	)
	return capStatus(updated), nil
}

func (s *SalaryCapService) Get(ctx context.Context, teamID int64, season int) (SalaryCapStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SalaryCapService.Get")
	defer span.End()

	if season <= 0 {
		return SalaryCapStatus{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}
	if _, err := requireTeam(ctx, s.teams, teamID); err != nil {
		return SalaryCapStatus{}, err
	}
	return readCapStatus(ctx, s.store, teamID, season)
}

// Recompute re-derives one team's used amount from its active contracts.
// Running it twice without contract changes yields the same state.
func (s *SalaryCapService) Recompute(ctx context.Context, teamID int64, season int) (SalaryCapStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SalaryCapService.Recompute", teamSeasonAttrs(teamID, season)...)
	defer span.End()

	if season <= 0 {
		return SalaryCapStatus{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}
	if _, err := requireTeam(ctx, s.teams, teamID); err != nil {
		return SalaryCapStatus{}, err
	}

	updated, err := s.recompute(ctx, teamID, season)
	if err != nil {
		return SalaryCapStatus{}, err
	}
	return capStatus(updated), nil
}

// RecomputeSeason recomputes every registered team for a season, plus any
// team holding a stored cap for it, on a bounded worker pool. Teams without a
// cap are reported as skipped.
func (s *SalaryCapService) RecomputeSeason(ctx context.Context, season int) (SeasonCapRecompute, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SalaryCapService.RecomputeSeason")
	defer span.End()

	if season <= 0 {
		return SeasonCapRecompute{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}
	teams, err := s.seasonTeamIDs(ctx, season)
	if err != nil {
		return SeasonCapRecompute{}, err
	}

	result := SeasonCapRecompute{Season: season, Rows: make([]CapRecomputeRow, 0, len(teams))}
	if len(teams) == 0 {
		return result, nil
	}

	workerCount := min(s.workers, len(teams))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SeasonCapRecompute{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		recomputed   atomic.Int32
		skipped      atomic.Int32
		failed       atomic.Int32
		nonCompliant atomic.Int32
	)
	rows := make(chan CapRecomputeRow, len(teams))

	var workers sync.WaitGroup
	for _, teamID := range teams {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := CapRecomputeRow{TeamID: teamID}
			updated, err := s.recompute(ctx, teamID, season)
			switch {
			case errors.Is(err, salarycap.ErrCapNotConfigured):
				row.Status = capRecomputeStatusSkipped
				row.Message = "salary cap not configured"
				skipped.Add(1)
			case err != nil:
				row.Status = capRecomputeStatusFailed
				row.Message = err.Error()
				failed.Add(1)
			default:
				status := capStatus(updated)
				row.Status = capRecomputeStatusRecomputed
				row.Cap = &status
				recomputed.Add(1)
				if !updated.IsCompliant {
					nonCompliant.Add(1)
				}
			}
			row.DurationMs = time.Since(start).Milliseconds()
			rows <- row
		}); err != nil {
			workers.Done()
			return SeasonCapRecompute{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Rows = append(result.Rows, row)
	}
	sort.Slice(result.Rows, func(i, j int) bool {
		return result.Rows[i].TeamID < result.Rows[j].TeamID
	})

	result.RecomputedCount = int(recomputed.Load())
	result.SkippedCount = int(skipped.Load())
	result.FailedCount = int(failed.Load())
	result.NonCompliant = int(nonCompliant.Load())

	s.logger.InfoContext(ctx, "season salary caps recomputed",
		"season", season,
		"recomputed", result.RecomputedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
		"non_compliant", result.NonCompliant,
	)
	return result, nil
}

func (s *SalaryCapService) seasonTeamIDs(ctx context.Context, season int) ([]int64, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list teams: %v", ErrDependencyUnavailable, err)
	}
	caps, err := s.store.SalaryCaps().ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list salary caps: %w", err)
	}

	seen := make(map[int64]struct{}, len(teams)+len(caps))
	ids := make([]int64, 0, len(teams)+len(caps))
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, t := range teams {
		add(t.ID)
	}
	for _, c := range caps {
		add(c.TeamID)
	}
	return ids, nil
}

func (s *SalaryCapService) recompute(ctx context.Context, teamID int64, season int) (salarycap.SalaryCap, error) {
	var updated salarycap.SalaryCap
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := tx.Lock(ctx, contract.TeamSeasonKey(teamID, season)); err != nil {
			return err
		}
		var err error
		updated, err = recomputeCapTx(ctx, tx, teamID, season, s.capPolicy, s.clock.Now().UTC())
		return err
	})
	if err != nil {
		return salarycap.SalaryCap{}, err
	}
	return updated, nil
}
