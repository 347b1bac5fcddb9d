package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/riskibarqy/cricket-auction/internal/domain/player"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/riskibarqy/cricket-auction/internal/domain/team"
	idgen "github.com/riskibarqy/cricket-auction/internal/platform/id"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

type CreateContractInput struct {
	PlayerID      int64
	TeamID        int64
	SeriesID      int64
	Price         decimal.Decimal
	ContractType  string
	Category      string
	IsCaptain     bool
	IsViceCaptain bool
	StartDate     *time.Time
	EndDate       *time.Time
}

type ContractResult struct {
	Contract  contract.Contract
	SalaryCap *salarycap.SalaryCap
}

type ContractView struct {
	contract.Contract
	PlayerName  string
	PlayerRole  player.Role
	Nationality string
	IsOverseas  bool
	TeamName    string
	TeamShort   string
}

type SeasonContractsFilter struct {
	Season   int
	TeamID   int64
	Status   string
	Category string
}

type ContractSummary struct {
	TotalContracts  int
	ActiveContracts int
	TotalValue      decimal.Decimal
	AverageValue    decimal.Decimal
	HighestValue    decimal.Decimal
}

type TeamContractSummary struct {
	TeamID          int64
	TeamName        string
	Contracts       int
	TotalValue      decimal.Decimal
	CaptainID       *int64
	ViceCaptainID   *int64
	OverseasPlayers int
}

type SeasonContracts struct {
	Season  int
	Items   []ContractView
	Summary ContractSummary
	Teams   []TeamContractSummary
}

type NationalityCount struct {
	Nationality string
	Players     int
	IsOverseas  bool
}

type TeamSeasonContracts struct {
	Team          team.Team
	Season        int
	Items         []ContractView
	Summary       ContractSummary
	SalaryCap     SalaryCapStatus
	Nationalities []NationalityCount
}

type PlayerContractSummary struct {
	TotalContracts   int
	TotalEarnings    decimal.Decimal
	DistinctTeams    int
	CaptaincySeasons int
}

type PlayerContracts struct {
	Player  player.Player
	Items   []ContractView
	Summary PlayerContractSummary
}

type ContractService struct {
	store     ledger.Store
	players   player.Repository
	teams     team.Repository
	seasons   *SeasonResolver
	idGen     idgen.Generator
	capPolicy CapPolicy
	logger    *logging.Logger
	clock     clockwork.Clock
}

func NewContractService(
	store ledger.Store,
	players player.Repository,
	teams team.Repository,
	seasons *SeasonResolver,
	idGen idgen.Generator,
	capPolicy CapPolicy,
	logger *logging.Logger,
	clock clockwork.Clock,
) *ContractService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &ContractService{
		store:     store,
		players:   players,
		teams:     teams,
		seasons:   seasons,
		idGen:     idGen,
		capPolicy: capPolicy,
		logger:    logger,
		clock:     clock,
	}
}

func (s *ContractService) Create(ctx context.Context, input CreateContractInput) (ContractResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.Create")
	defer span.End()

	if input.PlayerID <= 0 {
		return ContractResult{}, fmt.Errorf("%w: player_id must be > 0", ErrInvalidInput)
	}
	if !input.Price.IsPositive() {
		return ContractResult{}, fmt.Errorf("%w: price must be > 0", ErrInvalidInput)
	}
	if err := checkMoney("price", input.Price); err != nil {
		return ContractResult{}, err
	}
	if input.IsCaptain && input.IsViceCaptain {
		return ContractResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, contract.ErrConflictingLeadership)
	}
	contractType, err := contract.ParseType(strings.TrimSpace(input.ContractType), contract.TypeDirect)
	if err != nil {
		return ContractResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	category, err := contract.ParseCategory(strings.TrimSpace(input.Category))
	if err != nil {
		return ContractResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return ContractResult{}, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}

	season, err := s.seasons.YearOf(ctx, input.SeriesID)
	if err != nil {
		return ContractResult{}, err
	}
	p, err := requirePlayer(ctx, s.players, input.PlayerID)
	if err != nil {
		return ContractResult{}, err
	}
	if _, err := requireTeam(ctx, s.teams, input.TeamID); err != nil {
		return ContractResult{}, err
	}
	if strings.TrimSpace(input.Category) == "" && p.IsOverseas {
		category = contract.CategoryOverseas
	}

	contractID, err := s.idGen.NewID()
	if err != nil {
		return ContractResult{}, fmt.Errorf("generate contract id: %w", err)
	}
	now := s.clock.Now().UTC()
	item := contract.Contract{
		ID:            contractID,
		PlayerID:      input.PlayerID,
		TeamID:        input.TeamID,
		Season:        season.Year,
		Value:         input.Price,
		BasePrice:     decimal.Zero,
		Category:      category,
		Type:          contractType,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Status:        contract.StatusActive,
		IsCaptain:     input.IsCaptain,
		IsViceCaptain: input.IsViceCaptain,
		IsRetained:    contractType == contract.TypeRetention,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var updatedCap *salarycap.SalaryCap
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		updatedCap, err = createContractTx(ctx, tx, item, s.capPolicy, now)
		return err
	})
	if err != nil {
		return ContractResult{}, err
	}

	s.logger.InfoContext(ctx, "contract created",
		"contract_id", item.ID,
		"player_id", item.PlayerID,
		"team_id", item.TeamID,
		"season", item.Season,
		"value", item.Value,
		"is_captain", item.IsCaptain,
	)

	return ContractResult{Contract: item, SalaryCap: updatedCap}, nil
}

// Release terminates an active contract and recomputes the team's cap. The
// row is kept.
func (s *ContractService) Release(ctx context.Context, contractID string, releaseDate *time.Time) (ContractResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.Release")
	defer span.End()

	contractID = strings.TrimSpace(contractID)
	if contractID == "" {
		return ContractResult{}, fmt.Errorf("%w: contract id is required", ErrInvalidInput)
	}

	var result ContractResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		current, err := s.lockContractTx(ctx, tx, contractID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		releasedAt := now
		if releaseDate != nil {
			releasedAt = releaseDate.UTC()
		}
		released, err := current.Release(releasedAt, now)
		if err != nil {
			return err
		}
		released.IsCaptain = false
		released.IsViceCaptain = false
		if err := tx.Contracts().Update(ctx, released); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}

		updatedCap, err := applyCapAfterWrite(ctx, tx, released.TeamID, released.Season, CapPolicy{DefaultCap: s.capPolicy.DefaultCap}, now)
		if err != nil {
			return err
		}
		result = ContractResult{Contract: released, SalaryCap: updatedCap}
		return nil
	})
	if err != nil {
		return ContractResult{}, err
	}

	s.logger.InfoContext(ctx, "contract released",
		"contract_id", contractID,
		"team_id", result.Contract.TeamID,
		"season", result.Contract.Season,
	)
	return result, nil
}

// AssignCaptaincy sets the leadership flags of a contract, clearing them from
// every other contract of the same team and season.
func (s *ContractService) AssignCaptaincy(ctx context.Context, contractID string, isCaptain, isViceCaptain bool) (contract.Contract, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.AssignCaptaincy")
	defer span.End()

	contractID = strings.TrimSpace(contractID)
	if contractID == "" {
		return contract.Contract{}, fmt.Errorf("%w: contract id is required", ErrInvalidInput)
	}
	if isCaptain && isViceCaptain {
		return contract.Contract{}, fmt.Errorf("%w: %v", ErrInvalidInput, contract.ErrConflictingLeadership)
	}

	var updated contract.Contract
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		current, err := s.lockContractTx(ctx, tx, contractID)
		if err != nil {
			return err
		}
		if current.Status != contract.StatusActive {
			return fmt.Errorf("%w: contract=%s status=%s", contract.ErrContractNotActive, current.ID, current.Status)
		}

		updated = current
		updated.IsCaptain = isCaptain
		updated.IsViceCaptain = isViceCaptain
		updated.UpdatedAt = s.clock.Now().UTC()

		if err := clearLeadershipTx(ctx, tx, updated); err != nil {
			return err
		}
		if err := tx.Contracts().Update(ctx, updated); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}
		return nil
	})
	if err != nil {
		return contract.Contract{}, err
	}

	s.logger.InfoContext(ctx, "captaincy assigned",
		"contract_id", contractID,
		"team_id", updated.TeamID,
		"season", updated.Season,
		"is_captain", isCaptain,
		"is_vice_captain", isViceCaptain,
	)
	return updated, nil
}

// ListBySeason returns every contract of a season with per-team summaries.
// A zero season means the current one.
func (s *ContractService) ListBySeason(ctx context.Context, filter SeasonContractsFilter) (SeasonContracts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.ListBySeason")
	defer span.End()

	seasonYear, err := s.resolveSeason(ctx, filter.Season)
	if err != nil {
		return SeasonContracts{}, err
	}
	domainFilter, err := buildContractFilter(seasonYear, filter)
	if err != nil {
		return SeasonContracts{}, err
	}

	items, err := s.store.Contracts().List(ctx, domainFilter)
	if err != nil {
		return SeasonContracts{}, fmt.Errorf("list contracts: %w", err)
	}
	views, err := s.enrich(ctx, items)
	if err != nil {
		return SeasonContracts{}, err
	}

	return SeasonContracts{
		Season:  seasonYear,
		Items:   views,
		Summary: summarizeContracts(items),
		Teams:   summarizeTeams(views),
	}, nil
}

// TeamSeason returns a team's contracts for a season together with its cap
// status and nationality breakdown.
func (s *ContractService) TeamSeason(ctx context.Context, teamID int64, seasonYear int) (TeamSeasonContracts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.TeamSeason", teamSeasonAttrs(teamID, seasonYear)...)
	defer span.End()

	if seasonYear <= 0 {
		return TeamSeasonContracts{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}
	t, err := requireTeam(ctx, s.teams, teamID)
	if err != nil {
		return TeamSeasonContracts{}, err
	}

	var (
		items     []contract.Contract
		capStatus SalaryCapStatus
	)
	loaders := pool.New().WithContext(ctx)
	loaders.Go(func(ctx context.Context) error {
		var err error
		items, err = s.store.Contracts().List(ctx, contract.Filter{Season: seasonYear, TeamID: teamID})
		if err != nil {
			return fmt.Errorf("list team contracts: %w", err)
		}
		return nil
	})
	loaders.Go(func(ctx context.Context) error {
		var err error
		capStatus, err = readCapStatus(ctx, s.store, teamID, seasonYear)
		return err
	})
	if err := loaders.Wait(); err != nil {
		return TeamSeasonContracts{}, err
	}

	views, err := s.enrich(ctx, items)
	if err != nil {
		return TeamSeasonContracts{}, err
	}

	return TeamSeasonContracts{
		Team:          t,
		Season:        seasonYear,
		Items:         views,
		Summary:       summarizeContracts(items),
		SalaryCap:     capStatus,
		Nationalities: nationalityBreakdown(views),
	}, nil
}

func (s *ContractService) PlayerContracts(ctx context.Context, playerID int64) (PlayerContracts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.PlayerContracts")
	defer span.End()

	if playerID <= 0 {
		return PlayerContracts{}, fmt.Errorf("%w: player id must be > 0", ErrInvalidInput)
	}
	p, err := requirePlayer(ctx, s.players, playerID)
	if err != nil {
		return PlayerContracts{}, err
	}

	items, err := s.store.Contracts().List(ctx, contract.Filter{PlayerID: playerID})
	if err != nil {
		return PlayerContracts{}, fmt.Errorf("list player contracts: %w", err)
	}
	views, err := s.enrich(ctx, items)
	if err != nil {
		return PlayerContracts{}, err
	}

	summary := PlayerContractSummary{TotalContracts: len(items), TotalEarnings: decimal.Zero}
	teams := make(map[int64]struct{})
	for _, item := range items {
		summary.TotalEarnings = summary.TotalEarnings.Add(item.Value)
		teams[item.TeamID] = struct{}{}
		if item.IsCaptain {
			summary.CaptaincySeasons++
		}
	}
	summary.DistinctTeams = len(teams)

	return PlayerContracts{Player: p, Items: views, Summary: summary}, nil
}

// lockContractTx takes the team-season lock of a contract and returns the
// contract as read after the lock is held. The first read only locates the key.
func (s *ContractService) lockContractTx(ctx context.Context, tx ledger.Tx, contractID string) (contract.Contract, error) {
	located, err := s.getContractTx(ctx, tx, contractID)
	if err != nil {
		return contract.Contract{}, err
	}
	if err := tx.Lock(ctx, contract.TeamSeasonKey(located.TeamID, located.Season)); err != nil {
		return contract.Contract{}, err
	}
	return s.getContractTx(ctx, tx, contractID)
}

func (s *ContractService) getContractTx(ctx context.Context, tx ledger.Tx, contractID string) (contract.Contract, error) {
	current, exists, err := tx.Contracts().GetByID(ctx, contractID)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("get contract: %w", err)
	}
	if !exists {
		return contract.Contract{}, fmt.Errorf("%w: contract=%s", ErrContractNotFound, contractID)
	}
	return current, nil
}

func (s *ContractService) resolveSeason(ctx context.Context, seasonYear int) (int, error) {
	if seasonYear < 0 {
		return 0, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}
	if seasonYear > 0 {
		return seasonYear, nil
	}
	return s.seasons.Current(ctx)
}

func (s *ContractService) enrich(ctx context.Context, items []contract.Contract) ([]ContractView, error) {
	playerIDs := make([]int64, 0, len(items))
	teamIDs := make([]int64, 0, len(items))
	for _, item := range items {
		playerIDs = append(playerIDs, item.PlayerID)
		teamIDs = append(teamIDs, item.TeamID)
	}
	players, teams, err := lookupRoster(ctx, s.players, s.teams, playerIDs, teamIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ContractView, 0, len(items))
	for _, item := range items {
		p := players[item.PlayerID]
		t := teams[item.TeamID]
		out = append(out, ContractView{
			Contract:    item,
			PlayerName:  p.Name,
			PlayerRole:  p.Role,
			Nationality: p.Nationality,
			IsOverseas:  p.IsOverseas,
			TeamName:    t.Name,
			TeamShort:   t.Short,
		})
	}
	return out, nil
}

func buildContractFilter(seasonYear int, filter SeasonContractsFilter) (contract.Filter, error) {
	if filter.TeamID < 0 {
		return contract.Filter{}, fmt.Errorf("%w: team_id must be > 0", ErrInvalidInput)
	}
	out := contract.Filter{Season: seasonYear, TeamID: filter.TeamID}
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		status, err := contract.ParseStatus(raw)
		if err != nil {
			return contract.Filter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		out.Status = status
	}
	if raw := strings.TrimSpace(filter.Category); raw != "" {
		category, err := contract.ParseCategory(raw)
		if err != nil {
			return contract.Filter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		out.Category = category
	}
	return out, nil
}

// readCapStatus reports the stored cap, or the live used amount with unknown
// compliance when no cap is configured.
func readCapStatus(ctx context.Context, repos ledger.Repositories, teamID int64, seasonYear int) (SalaryCapStatus, error) {
	stored, exists, err := repos.SalaryCaps().Get(ctx, teamID, seasonYear)
	if err != nil {
		return SalaryCapStatus{}, fmt.Errorf("get salary cap: %w", err)
	}
	if exists {
		return capStatus(stored), nil
	}

	used, err := repos.Contracts().SumActiveValue(ctx, teamID, seasonYear)
	if err != nil {
		return SalaryCapStatus{}, fmt.Errorf("sum active contract value: %w", err)
	}
	return unknownCapStatus(teamID, seasonYear, used), nil
}

func summarizeContracts(items []contract.Contract) ContractSummary {
	summary := ContractSummary{
		TotalContracts: len(items),
		TotalValue:     decimal.Zero,
		AverageValue:   decimal.Zero,
		HighestValue:   decimal.Zero,
	}
	for _, item := range items {
		if item.Status == contract.StatusActive {
			summary.ActiveContracts++
		}
		summary.TotalValue = summary.TotalValue.Add(item.Value)
		if item.Value.GreaterThan(summary.HighestValue) {
			summary.HighestValue = item.Value
		}
	}
	if len(items) > 0 {
		summary.AverageValue = summary.TotalValue.Div(decimal.NewFromInt(int64(len(items)))).Round(2)
	}
	return summary
}

func summarizeTeams(views []ContractView) []TeamContractSummary {
	byTeam := make(map[int64]*TeamContractSummary)
	for _, view := range views {
		row, ok := byTeam[view.TeamID]
		if !ok {
			row = &TeamContractSummary{TeamID: view.TeamID, TeamName: view.TeamName, TotalValue: decimal.Zero}
			byTeam[view.TeamID] = row
		}
		row.Contracts++
		row.TotalValue = row.TotalValue.Add(view.Value)
		if view.Category == contract.CategoryOverseas {
			row.OverseasPlayers++
		}
		if view.IsCaptain && view.Status == contract.StatusActive {
			playerID := view.PlayerID
			row.CaptainID = &playerID
		}
		if view.IsViceCaptain && view.Status == contract.StatusActive {
			playerID := view.PlayerID
			row.ViceCaptainID = &playerID
		}
	}

	out := make([]TeamContractSummary, 0, len(byTeam))
	for _, row := range byTeam {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

// nationalityBreakdown counts active contracts per nationality.
func nationalityBreakdown(views []ContractView) []NationalityCount {
	overseas := make(map[string]bool)
	counts := make(map[string]int)
	for _, view := range views {
		if view.Status != contract.StatusActive {
			continue
		}
		nationality := strings.TrimSpace(view.Nationality)
		if nationality == "" {
			nationality = "Unknown"
		}
		counts[nationality]++
		overseas[nationality] = overseas[nationality] || view.IsOverseas
	}

	out := make([]NationalityCount, 0, len(counts))
	for nationality, n := range counts {
		out = append(out, NationalityCount{
			Nationality: nationality,
			Players:     n,
			IsOverseas:  overseas[nationality],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Players != out[j].Players {
			return out[i].Players > out[j].Players
		}
		return out[i].Nationality < out[j].Nationality
	})
	return out
}
