package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
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

const (
	defaultAuctionPageLimit = 20
	maxAuctionPageLimit     = 100
)

type SubmitBidInput struct {
	AuctionYear int
	PlayerID    int64
	TeamID      int64
	Amount      decimal.Decimal
	BidType     string
	PlacedBy    string
}

type BidResult struct {
	Bid             auction.Bid
	PreviousHighest decimal.Decimal
	MinimumNextBid  decimal.Decimal
}

type BidView struct {
	auction.Bid
	PlayerName string
	TeamName   string
}

type ListAuctionInput struct {
	AuctionYear int
	TeamID      int64
	Status      string
	Page        int
	Limit       int
}

type AuctionedPlayer struct {
	Outcome     auction.Outcome
	PlayerName  string
	PlayerRole  player.Role
	Nationality string
	IsOverseas  bool
	TeamName    string
	TeamShort   string
}

type TopSale struct {
	PlayerID   int64
	PlayerName string
	TeamID     int64
	Price      decimal.Decimal
}

type AuctionSummary struct {
	TotalPlayers int
	Bidding      int
	Sold         int
	Unsold       int
	Retained     int
	RightToMatch int
	TotalSpend   decimal.Decimal
	TopSale      *TopSale
}

type AuctionPage struct {
	AuctionYear int
	Items       []AuctionedPlayer
	Total       int
	Page        int
	Limit       int
	Summary     AuctionSummary
}

type RecordAuctionInput struct {
	PlayerID      int64
	SeriesID      int64
	AuctionType   string
	BasePrice     decimal.Decimal
	TeamID        *int64
	SoldPrice     *decimal.Decimal
	AuctionDate   *time.Time
	Category      string
	IsCaptain     bool
	IsViceCaptain bool
}

type FinalizeInput struct {
	AuctionYear   int
	PlayerID      int64
	Status        string
	TeamID        *int64
	Price         *decimal.Decimal
	Override      bool
	Category      string
	IsCaptain     bool
	IsViceCaptain bool
}

type FinalizeResult struct {
	Outcome   auction.Outcome
	Contract  *contract.Contract
	SalaryCap *salarycap.SalaryCap
}

type AuctionHistoryEntry struct {
	Outcome  auction.Outcome
	TeamName string
	BidCount int
}

type AuctionHistorySummary struct {
	TimesAuctioned int
	TimesSold      int
	HighestPrice   decimal.Decimal
	TotalEarnings  decimal.Decimal
	DistinctTeams  int
}

type PlayerAuctionHistory struct {
	Player  player.Player
	Entries []AuctionHistoryEntry
	Summary AuctionHistorySummary
}

type AuctionService struct {
	store     ledger.Store
	players   player.Repository
	teams     team.Repository
	seasons   *SeasonResolver
	idGen     idgen.Generator
	capPolicy CapPolicy
	logger    *logging.Logger
	clock     clockwork.Clock
}

func NewAuctionService(
	store ledger.Store,
	players player.Repository,
	teams team.Repository,
	seasons *SeasonResolver,
	idGen idgen.Generator,
	capPolicy CapPolicy,
	logger *logging.Logger,
	clock clockwork.Clock,
) *AuctionService {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &AuctionService{
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

// SubmitBid validates a bid against the ledger highest for the current round
// and records it as the leading bid. Bids on one (player, year) are serialized.
func (s *AuctionService) SubmitBid(ctx context.Context, input SubmitBidInput) (BidResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.SubmitBid", auctionAttrs(input.PlayerID, input.AuctionYear)...)
	defer span.End()

	if err := s.validateAuctionYear(input.AuctionYear); err != nil {
		return BidResult{}, err
	}
	if input.PlayerID <= 0 || input.TeamID <= 0 {
		return BidResult{}, fmt.Errorf("%w: player_id and team_id must be > 0", ErrInvalidInput)
	}
	if !input.Amount.IsPositive() {
		return BidResult{}, fmt.Errorf("%w: bid_amount must be > 0", ErrInvalidInput)
	}
	if err := checkMoney("bid_amount", input.Amount); err != nil {
		return BidResult{}, err
	}
	bidType, err := auction.ParseBidType(strings.TrimSpace(input.BidType))
	if err != nil {
		return BidResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.activePlayer(ctx, input.PlayerID); err != nil {
		return BidResult{}, err
	}
	if _, err := s.requireTeam(ctx, input.TeamID); err != nil {
		return BidResult{}, err
	}

	var result BidResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := tx.Lock(ctx, auction.Key(input.PlayerID, input.AuctionYear)); err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		outcome, exists, err := tx.Outcomes().Get(ctx, input.PlayerID, input.AuctionYear)
		if err != nil {
			return fmt.Errorf("get auction outcome: %w", err)
		}
		if !exists {
			outcome = auction.NewOutcome(input.PlayerID, input.AuctionYear, decimal.Zero, auction.TypeMega, now)
		}
		if outcome.Status.IsTerminal() {
			return fmt.Errorf("%w: player=%d year=%d status=%s", auction.ErrAuctionClosed, input.PlayerID, input.AuctionYear, outcome.Status)
		}

		highest, err := tx.Bids().HighestAmount(ctx, input.PlayerID, input.AuctionYear, outcome.Round)
		if err != nil {
			return fmt.Errorf("get highest bid: %w", err)
		}
		if err := auction.CheckBid(input.Amount, highest, outcome.BasePrice); err != nil {
			return err
		}

		bidID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate bid id: %w", err)
		}
		bid := auction.Bid{
			ID:          bidID,
			PlayerID:    input.PlayerID,
			TeamID:      input.TeamID,
			AuctionYear: input.AuctionYear,
			Round:       outcome.Round,
			Amount:      input.Amount,
			Type:        bidType,
			PlacedBy:    strings.TrimSpace(input.PlacedBy),
			CreatedAt:   now,
		}
		if err := tx.Bids().Append(ctx, bid); err != nil {
			return fmt.Errorf("append bid: %w", err)
		}
		if err := tx.Outcomes().Upsert(ctx, outcome.Leader(bid, now)); err != nil {
			return fmt.Errorf("upsert auction outcome: %w", err)
		}

		result = BidResult{
			Bid:             bid,
			PreviousHighest: highest,
			MinimumNextBid:  auction.MinimumNextBid(bid.Amount, outcome.BasePrice),
		}
		return nil
	})
	if err != nil {
		return BidResult{}, err
	}

	s.logger.InfoContext(ctx, "bid accepted",
		"auction_year", input.AuctionYear,
		"player_id", input.PlayerID,
		"team_id", input.TeamID,
		"amount", result.Bid.Amount,
		"round", result.Bid.Round,
	)

	return result, nil
}

// ListBids returns the year's bids newest first, optionally for one player.
func (s *AuctionService) ListBids(ctx context.Context, year int, playerID int64) ([]BidView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ListBids")
	defer span.End()

	if err := s.validateAuctionYear(year); err != nil {
		return nil, err
	}
	if playerID < 0 {
		return nil, fmt.Errorf("%w: player_id must be > 0", ErrInvalidInput)
	}

	bids, err := s.store.Bids().ListByYear(ctx, year, playerID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}

	playerIDs := make([]int64, 0, len(bids))
	teamIDs := make([]int64, 0, len(bids))
	for _, bid := range bids {
		playerIDs = append(playerIDs, bid.PlayerID)
		teamIDs = append(teamIDs, bid.TeamID)
	}
	players, teams, err := s.lookupRoster(ctx, playerIDs, teamIDs)
	if err != nil {
		return nil, err
	}

	out := make([]BidView, 0, len(bids))
	for _, bid := range bids {
		out = append(out, BidView{
			Bid:        bid,
			PlayerName: players[bid.PlayerID].Name,
			TeamName:   teams[bid.TeamID].Name,
		})
	}
	return out, nil
}

// ListAuctionedPlayers pages through the year's outcomes. The summary covers
// every outcome matching the filter, not just the page.
func (s *AuctionService) ListAuctionedPlayers(ctx context.Context, input ListAuctionInput) (AuctionPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ListAuctionedPlayers")
	defer span.End()

	if err := s.validateAuctionYear(input.AuctionYear); err != nil {
		return AuctionPage{}, err
	}
	if input.TeamID < 0 {
		return AuctionPage{}, fmt.Errorf("%w: team_id must be > 0", ErrInvalidInput)
	}
	var status auction.Status
	if raw := strings.TrimSpace(input.Status); raw != "" {
		parsed, err := auction.ParseStatus(raw)
		if err != nil {
			return AuctionPage{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = parsed
	}
	page, limit := normalizePage(input.Page, input.Limit)

	outcomes, err := s.store.Outcomes().List(ctx, auction.OutcomeFilter{
		AuctionYear: input.AuctionYear,
		TeamID:      input.TeamID,
		Status:      status,
	})
	if err != nil {
		return AuctionPage{}, fmt.Errorf("list auction outcomes: %w", err)
	}

	playerIDs := make([]int64, 0, len(outcomes))
	teamIDs := make([]int64, 0, len(outcomes))
	for _, o := range outcomes {
		playerIDs = append(playerIDs, o.PlayerID)
		if o.TeamID != nil {
			teamIDs = append(teamIDs, *o.TeamID)
		}
	}
	players, teams, err := s.lookupRoster(ctx, playerIDs, teamIDs)
	if err != nil {
		return AuctionPage{}, err
	}

	result := AuctionPage{
		AuctionYear: input.AuctionYear,
		Total:       len(outcomes),
		Page:        page,
		Limit:       limit,
		Summary:     summarizeOutcomes(outcomes, players),
	}

	start, end := pageBounds(page, limit, len(outcomes))

	result.Items = make([]AuctionedPlayer, 0, end-start)
	for _, o := range outcomes[start:end] {
		p := players[o.PlayerID]
		item := AuctionedPlayer{
			Outcome:     o,
			PlayerName:  p.Name,
			PlayerRole:  p.Role,
			Nationality: p.Nationality,
			IsOverseas:  p.IsOverseas,
		}
		if o.TeamID != nil {
			t := teams[*o.TeamID]
			item.TeamName = t.Name
			item.TeamShort = t.Short
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// RecordAuction registers a player for the auction of the given series.
// When both team and sold price are supplied the sale is finalized in the
// same unit of work.
func (s *AuctionService) RecordAuction(ctx context.Context, input RecordAuctionInput) (FinalizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.RecordAuction")
	defer span.End()

	if input.PlayerID <= 0 {
		return FinalizeResult{}, fmt.Errorf("%w: player_id must be > 0", ErrInvalidInput)
	}
	auctionType, err := auction.ParseType(strings.TrimSpace(input.AuctionType))
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.BasePrice.IsNegative() {
		return FinalizeResult{}, fmt.Errorf("%w: base_price must be >= 0", ErrInvalidInput)
	}
	if err := checkMoney("base_price", input.BasePrice); err != nil {
		return FinalizeResult{}, err
	}
	if (input.TeamID == nil) != (input.SoldPrice == nil) {
		return FinalizeResult{}, fmt.Errorf("%w: team_id and sold_price must be provided together", ErrInvalidInput)
	}
	if input.SoldPrice != nil {
		if err := checkMoney("sold_price", *input.SoldPrice); err != nil {
			return FinalizeResult{}, err
		}
	}

	season, err := s.seasons.YearOf(ctx, input.SeriesID)
	if err != nil {
		return FinalizeResult{}, err
	}
	if err := s.validateAuctionYear(season.Year); err != nil {
		return FinalizeResult{}, err
	}

	p, err := s.activePlayer(ctx, input.PlayerID)
	if err != nil {
		return FinalizeResult{}, err
	}
	if input.TeamID != nil {
		if _, err := s.requireTeam(ctx, *input.TeamID); err != nil {
			return FinalizeResult{}, err
		}
	}

	var result FinalizeResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := tx.Lock(ctx, auction.Key(input.PlayerID, season.Year)); err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		outcome, exists, err := tx.Outcomes().Get(ctx, input.PlayerID, season.Year)
		if err != nil {
			return fmt.Errorf("get auction outcome: %w", err)
		}
		if !exists {
			outcome = auction.NewOutcome(input.PlayerID, season.Year, input.BasePrice, auctionType, now)
		}
		if outcome.Status.IsTerminal() {
			return fmt.Errorf("%w: player=%d year=%d status=%s", auction.ErrAuctionClosed, input.PlayerID, season.Year, outcome.Status)
		}
		outcome.BasePrice = input.BasePrice
		outcome.AuctionType = auctionType
		if input.AuctionDate != nil {
			date := input.AuctionDate.UTC()
			outcome.AuctionDate = &date
		}
		outcome.UpdatedAt = now

		if input.TeamID == nil {
			if err := tx.Outcomes().Upsert(ctx, outcome); err != nil {
				return fmt.Errorf("upsert auction outcome: %w", err)
			}
			result = FinalizeResult{Outcome: outcome}
			return nil
		}

		status := auction.StatusSold
		if auctionType == auction.TypeRetention {
			status = auction.StatusRetained
		}
		result, err = s.finalizeTx(ctx, tx, outcome, p, auction.Finalization{
			Status: status,
			TeamID: input.TeamID,
			Price:  input.SoldPrice,
		}, input.Category, input.IsCaptain, input.IsViceCaptain, now)
		return err
	})
	if err != nil {
		return FinalizeResult{}, err
	}

	s.logger.InfoContext(ctx, "auction recorded",
		"auction_year", season.Year,
		"player_id", input.PlayerID,
		"status", result.Outcome.Status,
		"auction_type", auctionType,
	)

	return result, nil
}

// Finalize closes the auction of a player with a terminal status. Sold and
// retained outcomes create the contract and recompute the salary cap in the
// same unit of work.
func (s *AuctionService) Finalize(ctx context.Context, input FinalizeInput) (FinalizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Finalize", auctionAttrs(input.PlayerID, input.AuctionYear)...)
	defer span.End()

	if err := s.validateAuctionYear(input.AuctionYear); err != nil {
		return FinalizeResult{}, err
	}
	if input.PlayerID <= 0 {
		return FinalizeResult{}, fmt.Errorf("%w: player_id must be > 0", ErrInvalidInput)
	}
	status, err := auction.ParseStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !status.IsTerminal() {
		return FinalizeResult{}, fmt.Errorf("%w: status must be terminal", ErrInvalidInput)
	}
	if input.Price != nil {
		if err := checkMoney("price", *input.Price); err != nil {
			return FinalizeResult{}, err
		}
	}

	p, err := s.requirePlayer(ctx, input.PlayerID)
	if err != nil {
		return FinalizeResult{}, err
	}
	if input.TeamID != nil {
		if _, err := s.requireTeam(ctx, *input.TeamID); err != nil {
			return FinalizeResult{}, err
		}
	}

	var result FinalizeResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := tx.Lock(ctx, auction.Key(input.PlayerID, input.AuctionYear)); err != nil {
			return err
		}

		outcome, exists, err := tx.Outcomes().Get(ctx, input.PlayerID, input.AuctionYear)
		if err != nil {
			return fmt.Errorf("get auction outcome: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%d year=%d", ErrAuctionNotFound, input.PlayerID, input.AuctionYear)
		}

		result, err = s.finalizeTx(ctx, tx, outcome, p, auction.Finalization{
			Status:   status,
			TeamID:   input.TeamID,
			Price:    input.Price,
			Override: input.Override,
		}, input.Category, input.IsCaptain, input.IsViceCaptain, s.clock.Now().UTC())
		return err
	})
	if err != nil {
		return FinalizeResult{}, err
	}

	s.logger.InfoContext(ctx, "auction finalized",
		"auction_year", input.AuctionYear,
		"player_id", input.PlayerID,
		"status", status,
		"override", input.Override,
	)

	return result, nil
}

func (s *AuctionService) finalizeTx(
	ctx context.Context,
	tx ledger.Tx,
	outcome auction.Outcome,
	p player.Player,
	req auction.Finalization,
	category string,
	isCaptain bool,
	isViceCaptain bool,
	now time.Time,
) (FinalizeResult, error) {
	highest, err := tx.Bids().HighestAmount(ctx, outcome.PlayerID, outcome.AuctionYear, outcome.Round)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("get highest bid: %w", err)
	}
	if err := auction.ValidateFinalization(outcome, highest, req); err != nil {
		return FinalizeResult{}, err
	}

	closed := outcome.Close(req, now)
	result := FinalizeResult{Outcome: closed}

	if req.Status.CreatesContract() {
		item, err := s.contractFromOutcome(closed, p, category, isCaptain, isViceCaptain, now)
		if err != nil {
			return FinalizeResult{}, err
		}
		updatedCap, err := createContractTx(ctx, tx, item, s.capPolicy, now)
		if err != nil {
			return FinalizeResult{}, &FinalizeFailedError{PlayerID: closed.PlayerID, AuctionYear: closed.AuctionYear, Cause: err}
		}
		result.Contract = &item
		result.SalaryCap = updatedCap
	}

	if err := tx.Outcomes().Upsert(ctx, closed); err != nil {
		return FinalizeResult{}, fmt.Errorf("upsert auction outcome: %w", err)
	}
	return result, nil
}

func (s *AuctionService) contractFromOutcome(o auction.Outcome, p player.Player, rawCategory string, isCaptain, isViceCaptain bool, now time.Time) (contract.Contract, error) {
	if isCaptain && isViceCaptain {
		return contract.Contract{}, fmt.Errorf("%w: %v", ErrInvalidInput, contract.ErrConflictingLeadership)
	}
	category, err := contract.ParseCategory(strings.TrimSpace(rawCategory))
	if err != nil {
		return contract.Contract{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(rawCategory) == "" && p.IsOverseas {
		category = contract.CategoryOverseas
	}

	contractType := contract.TypeAuction
	if o.Status == auction.StatusRetained {
		contractType = contract.TypeRetention
	}

	contractID, err := s.idGen.NewID()
	if err != nil {
		return contract.Contract{}, fmt.Errorf("generate contract id: %w", err)
	}

	return contract.Contract{
		ID:            contractID,
		PlayerID:      o.PlayerID,
		TeamID:        *o.TeamID,
		Season:        o.AuctionYear,
		Value:         *o.FinalPrice,
		BasePrice:     o.BasePrice,
		Category:      category,
		Type:          contractType,
		Status:        contract.StatusActive,
		IsCaptain:     isCaptain,
		IsViceCaptain: isViceCaptain,
		IsRetained:    o.Status == auction.StatusRetained,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Reopen starts a new bidding round for an unsold or right-to-match auction.
func (s *AuctionService) Reopen(ctx context.Context, year int, playerID int64) (auction.Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Reopen", auctionAttrs(playerID, year)...)
	defer span.End()

	if err := s.validateAuctionYear(year); err != nil {
		return auction.Outcome{}, err
	}
	if playerID <= 0 {
		return auction.Outcome{}, fmt.Errorf("%w: player_id must be > 0", ErrInvalidInput)
	}

	var reopened auction.Outcome
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := tx.Lock(ctx, auction.Key(playerID, year)); err != nil {
			return err
		}

		outcome, exists, err := tx.Outcomes().Get(ctx, playerID, year)
		if err != nil {
			return fmt.Errorf("get auction outcome: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%d year=%d", ErrAuctionNotFound, playerID, year)
		}

		reopened, err = outcome.Reopen(s.clock.Now().UTC())
		if err != nil {
			return err
		}
		if err := tx.Outcomes().Upsert(ctx, reopened); err != nil {
			return fmt.Errorf("upsert auction outcome: %w", err)
		}
		return nil
	})
	if err != nil {
		return auction.Outcome{}, err
	}

	s.logger.InfoContext(ctx, "auction reopened", "auction_year", year, "player_id", playerID, "round", reopened.Round)
	return reopened, nil
}

func (s *AuctionService) PlayerAuctionHistory(ctx context.Context, playerID int64) (PlayerAuctionHistory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.PlayerAuctionHistory")
	defer span.End()

	if playerID <= 0 {
		return PlayerAuctionHistory{}, fmt.Errorf("%w: player id must be > 0", ErrInvalidInput)
	}

	var (
		p        player.Player
		outcomes []auction.Outcome
		counts   map[int]int
	)
	loaders := pool.New().WithContext(ctx)
	loaders.Go(func(ctx context.Context) error {
		var err error
		p, err = s.requirePlayer(ctx, playerID)
		return err
	})
	loaders.Go(func(ctx context.Context) error {
		var err error
		outcomes, err = s.store.Outcomes().ListByPlayer(ctx, playerID)
		if err != nil {
			return fmt.Errorf("list player auction outcomes: %w", err)
		}
		return nil
	})
	loaders.Go(func(ctx context.Context) error {
		var err error
		counts, err = s.store.Bids().CountByPlayer(ctx, playerID)
		if err != nil {
			return fmt.Errorf("count player bids: %w", err)
		}
		return nil
	})
	if err := loaders.Wait(); err != nil {
		return PlayerAuctionHistory{}, err
	}

	teamIDs := make([]int64, 0, len(outcomes))
	for _, o := range outcomes {
		if o.TeamID != nil {
			teamIDs = append(teamIDs, *o.TeamID)
		}
	}
	_, teams, err := s.lookupRoster(ctx, nil, teamIDs)
	if err != nil {
		return PlayerAuctionHistory{}, err
	}

	history := PlayerAuctionHistory{
		Player:  p,
		Entries: make([]AuctionHistoryEntry, 0, len(outcomes)),
		Summary: AuctionHistorySummary{
			TimesAuctioned: len(outcomes),
			HighestPrice:   decimal.Zero,
			TotalEarnings:  decimal.Zero,
		},
	}
	distinctTeams := make(map[int64]struct{})
	for _, o := range outcomes {
		entry := AuctionHistoryEntry{Outcome: o, BidCount: counts[o.AuctionYear]}
		if o.TeamID != nil {
			entry.TeamName = teams[*o.TeamID].Name
		}
		history.Entries = append(history.Entries, entry)

		if !o.Status.CreatesContract() || o.FinalPrice == nil {
			continue
		}
		if o.Status == auction.StatusSold {
			history.Summary.TimesSold++
		}
		history.Summary.TotalEarnings = history.Summary.TotalEarnings.Add(*o.FinalPrice)
		if o.FinalPrice.GreaterThan(history.Summary.HighestPrice) {
			history.Summary.HighestPrice = *o.FinalPrice
		}
		if o.TeamID != nil {
			distinctTeams[*o.TeamID] = struct{}{}
		}
	}
	history.Summary.DistinctTeams = len(distinctTeams)

	return history, nil
}

func (s *AuctionService) validateAuctionYear(year int) error {
	maxYear := s.clock.Now().UTC().Year() + 1
	if year < auction.MinAuctionYear || year > maxYear {
		return fmt.Errorf("%w: year=%d allowed=[%d,%d]", ErrInvalidAuctionYear, year, auction.MinAuctionYear, maxYear)
	}
	return nil
}

func (s *AuctionService) requirePlayer(ctx context.Context, playerID int64) (player.Player, error) {
	return requirePlayer(ctx, s.players, playerID)
}

func (s *AuctionService) activePlayer(ctx context.Context, playerID int64) (player.Player, error) {
	p, err := s.requirePlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if !p.IsActive {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrPlayerInactive, playerID)
	}
	return p, nil
}

func (s *AuctionService) requireTeam(ctx context.Context, teamID int64) (team.Team, error) {
	return requireTeam(ctx, s.teams, teamID)
}

// lookupRoster resolves names for the given ids concurrently.
func (s *AuctionService) lookupRoster(ctx context.Context, playerIDs, teamIDs []int64) (map[int64]player.Player, map[int64]team.Team, error) {
	return lookupRoster(ctx, s.players, s.teams, playerIDs, teamIDs)
}

func requirePlayer(ctx context.Context, players player.Repository, playerID int64) (player.Player, error) {
	p, exists, err := players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrPlayerNotFound, playerID)
	}
	return p, nil
}

func requireTeam(ctx context.Context, teams team.Repository, teamID int64) (team.Team, error) {
	if teamID <= 0 {
		return team.Team{}, fmt.Errorf("%w: team_id must be > 0", ErrInvalidInput)
	}
	t, exists, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrTeamNotFound, teamID)
	}
	return t, nil
}

func lookupRoster(
	ctx context.Context,
	players player.Repository,
	teams team.Repository,
	playerIDs []int64,
	teamIDs []int64,
) (map[int64]player.Player, map[int64]team.Team, error) {
	playersByID := make(map[int64]player.Player)
	teamsByID := make(map[int64]team.Team)

	loaders := pool.New().WithContext(ctx)
	if ids := uniqueIDs(playerIDs); len(ids) > 0 {
		loaders.Go(func(ctx context.Context) error {
			items, err := players.ListByIDs(ctx, ids)
			if err != nil {
				return fmt.Errorf("list players by ids: %w", err)
			}
			for _, item := range items {
				playersByID[item.ID] = item
			}
			return nil
		})
	}
	if ids := uniqueIDs(teamIDs); len(ids) > 0 {
		loaders.Go(func(ctx context.Context) error {
			items, err := teams.ListByIDs(ctx, ids)
			if err != nil {
				return fmt.Errorf("list teams by ids: %w", err)
			}
			for _, item := range items {
				teamsByID[item.ID] = item
			}
			return nil
		})
	}
	if err := loaders.Wait(); err != nil {
		return nil, nil, err
	}

	return playersByID, teamsByID, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultAuctionPageLimit
	}
	if limit > maxAuctionPageLimit {
		limit = maxAuctionPageLimit
	}
	return page, limit
}

// pageBounds maps a 1-based page to slice bounds within total. Pages past the
// end yield an empty range without computing (page-1)*limit.
func pageBounds(page, limit, total int) (int, int) {
	if page-1 >= (total+limit-1)/limit {
		return total, total
	}
	start := (page - 1) * limit
	return start, min(start+limit, total)
}

func summarizeOutcomes(outcomes []auction.Outcome, players map[int64]player.Player) AuctionSummary {
	summary := AuctionSummary{TotalPlayers: len(outcomes), TotalSpend: decimal.Zero}
	for _, o := range outcomes {
		switch o.Status {
		case auction.StatusBidding:
			summary.Bidding++
		case auction.StatusSold:
			summary.Sold++
		case auction.StatusUnsold:
			summary.Unsold++
		case auction.StatusRetained:
			summary.Retained++
		case auction.StatusRightToMatch:
			summary.RightToMatch++
		}

		if !o.Status.IsTerminal() || o.FinalPrice == nil || o.TeamID == nil {
			continue
		}
		summary.TotalSpend = summary.TotalSpend.Add(*o.FinalPrice)
		if o.Status != auction.StatusSold {
			continue
		}
		if summary.TopSale == nil || o.FinalPrice.GreaterThan(summary.TopSale.Price) {
			summary.TopSale = &TopSale{
				PlayerID:   o.PlayerID,
				PlayerName: players[o.PlayerID].Name,
				TeamID:     *o.TeamID,
				Price:      *o.FinalPrice,
			}
		}
	}
	return summary
}
