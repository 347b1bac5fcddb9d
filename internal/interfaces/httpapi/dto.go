package httpapi

import (
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/player"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/riskibarqy/cricket-auction/internal/domain/team"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/shopspring/decimal"
)

// Amounts are rendered as fixed two-decimal strings.
func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func moneyPtr(v *decimal.Decimal) *string {
	if v == nil {
		return nil
	}
	s := v.StringFixed(2)
	return &s
}

func dateOnly(v *time.Time) *string {
	if v == nil {
		return nil
	}
	s := v.Format(time.DateOnly)
	return &s
}

type bidDTO struct {
	ID          string    `json:"id"`
	PlayerID    int64     `json:"playerId"`
	PlayerName  string    `json:"playerName,omitempty"`
	TeamID      int64     `json:"teamId"`
	TeamName    string    `json:"teamName,omitempty"`
	AuctionYear int       `json:"auctionYear"`
	Round       int       `json:"round"`
	Amount      string    `json:"amount"`
	BidType     string    `json:"bidType"`
	CreatedAt   time.Time `json:"createdAt"`
}

func bidToDTO(b auction.Bid) bidDTO {
	return bidDTO{
		ID:          b.ID,
		PlayerID:    b.PlayerID,
		TeamID:      b.TeamID,
		AuctionYear: b.AuctionYear,
		Round:       b.Round,
		Amount:      money(b.Amount),
		BidType:     string(b.Type),
		CreatedAt:   b.CreatedAt,
	}
}

func bidViewToDTO(v usecase.BidView) bidDTO {
	out := bidToDTO(v.Bid)
	out.PlayerName = v.PlayerName
	out.TeamName = v.TeamName
	return out
}

type bidResultDTO struct {
	Bid             bidDTO `json:"bid"`
	PreviousHighest string `json:"previousHighest"`
	MinimumNextBid  string `json:"minimumNextBid"`
}

type outcomeDTO struct {
	PlayerID    int64     `json:"playerId"`
	AuctionYear int       `json:"auctionYear"`
	Status      string    `json:"status"`
	TeamID      *int64    `json:"teamId,omitempty"`
	FinalPrice  *string   `json:"finalPrice,omitempty"`
	BasePrice   string    `json:"basePrice"`
	AuctionType string    `json:"auctionType"`
	Round       int       `json:"round"`
	AuctionDate *string   `json:"auctionDate,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func outcomeToDTO(o auction.Outcome) outcomeDTO {
	return outcomeDTO{
		PlayerID:    o.PlayerID,
		AuctionYear: o.AuctionYear,
		Status:      string(o.Status),
		TeamID:      o.TeamID,
		FinalPrice:  moneyPtr(o.FinalPrice),
		BasePrice:   money(o.BasePrice),
		AuctionType: string(o.AuctionType),
		Round:       o.Round,
		AuctionDate: dateOnly(o.AuctionDate),
		UpdatedAt:   o.UpdatedAt,
	}
}

type auctionedPlayerDTO struct {
	outcomeDTO
	PlayerName  string `json:"playerName"`
	PlayerRole  string `json:"playerRole"`
	Nationality string `json:"nationality"`
	IsOverseas  bool   `json:"isOverseas"`
	TeamName    string `json:"teamName,omitempty"`
	TeamShort   string `json:"teamShort,omitempty"`
}

type topSaleDTO struct {
	PlayerID   int64  `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamID     int64  `json:"teamId"`
	Price      string `json:"price"`
}

type auctionSummaryDTO struct {
	TotalPlayers int         `json:"totalPlayers"`
	Bidding      int         `json:"bidding"`
	Sold         int         `json:"sold"`
	Unsold       int         `json:"unsold"`
	Retained     int         `json:"retained"`
	RightToMatch int         `json:"rightToMatch"`
	TotalSpend   string      `json:"totalSpend"`
	TopSale      *topSaleDTO `json:"topSale,omitempty"`
}

type auctionPageDTO struct {
	AuctionYear int                  `json:"auctionYear"`
	Items       []auctionedPlayerDTO `json:"items"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	Summary     auctionSummaryDTO    `json:"summary"`
}

func auctionPageToDTO(p usecase.AuctionPage) auctionPageDTO {
	items := make([]auctionedPlayerDTO, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, auctionedPlayerDTO{
			outcomeDTO:  outcomeToDTO(item.Outcome),
			PlayerName:  item.PlayerName,
			PlayerRole:  string(item.PlayerRole),
			Nationality: item.Nationality,
			IsOverseas:  item.IsOverseas,
			TeamName:    item.TeamName,
			TeamShort:   item.TeamShort,
		})
	}

	summary := auctionSummaryDTO{
		TotalPlayers: p.Summary.TotalPlayers,
		Bidding:      p.Summary.Bidding,
		Sold:         p.Summary.Sold,
		Unsold:       p.Summary.Unsold,
		Retained:     p.Summary.Retained,
		RightToMatch: p.Summary.RightToMatch,
		TotalSpend:   money(p.Summary.TotalSpend),
	}
	if top := p.Summary.TopSale; top != nil {
		summary.TopSale = &topSaleDTO{
			PlayerID:   top.PlayerID,
			PlayerName: top.PlayerName,
			TeamID:     top.TeamID,
			Price:      money(top.Price),
		}
	}

	return auctionPageDTO{
		AuctionYear: p.AuctionYear,
		Items:       items,
		Total:       p.Total,
		Page:        p.Page,
		Limit:       p.Limit,
		Summary:     summary,
	}
}

type contractDTO struct {
	ID            string     `json:"id"`
	PlayerID      int64      `json:"playerId"`
	TeamID        int64      `json:"teamId"`
	Season        int        `json:"season"`
	Value         string     `json:"value"`
	BasePrice     string     `json:"basePrice"`
	Category      string     `json:"category"`
	ContractType  string     `json:"contractType"`
	Status        string     `json:"status"`
	IsCaptain     bool       `json:"isCaptain"`
	IsViceCaptain bool       `json:"isViceCaptain"`
	IsRetained    bool       `json:"isRetained"`
	StartDate     *string    `json:"startDate,omitempty"`
	EndDate       *string    `json:"endDate,omitempty"`
	ReleasedAt    *time.Time `json:"releasedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func contractToDTO(c contract.Contract) contractDTO {
	return contractDTO{
		ID:            c.ID,
		PlayerID:      c.PlayerID,
		TeamID:        c.TeamID,
		Season:        c.Season,
		Value:         money(c.Value),
		BasePrice:     money(c.BasePrice),
		Category:      string(c.Category),
		ContractType:  string(c.Type),
		Status:        string(c.Status),
		IsCaptain:     c.IsCaptain,
		IsViceCaptain: c.IsViceCaptain,
		IsRetained:    c.IsRetained,
		StartDate:     dateOnly(c.StartDate),
		EndDate:       dateOnly(c.EndDate),
		ReleasedAt:    c.ReleasedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type contractViewDTO struct {
	contractDTO
	PlayerName  string `json:"playerName"`
	PlayerRole  string `json:"playerRole,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	IsOverseas  bool   `json:"isOverseas"`
	TeamName    string `json:"teamName"`
	TeamShort   string `json:"teamShort,omitempty"`
}

func contractViewsToDTO(views []usecase.ContractView) []contractViewDTO {
	out := make([]contractViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, contractViewDTO{
			contractDTO: contractToDTO(v.Contract),
			PlayerName:  v.PlayerName,
			PlayerRole:  string(v.PlayerRole),
			Nationality: v.Nationality,
			IsOverseas:  v.IsOverseas,
			TeamName:    v.TeamName,
			TeamShort:   v.TeamShort,
		})
	}
	return out
}

type salaryCapDTO struct {
	TeamID      int64      `json:"teamId"`
	Season      int        `json:"season"`
	CapAmount   *string    `json:"capAmount"`
	UsedAmount  string     `json:"usedAmount"`
	Remaining   *string    `json:"remaining"`
	Compliance  string     `json:"compliance"`
	IsCompliant *bool      `json:"isCompliant"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func capStatusToDTO(s usecase.SalaryCapStatus) salaryCapDTO {
	var compliant *bool
	if s.Compliance != salarycap.ComplianceUnknown {
		v := s.Compliance == salarycap.ComplianceCompliant
		compliant = &v
	}
	return salaryCapDTO{
		TeamID:      s.TeamID,
		Season:      s.Season,
		CapAmount:   moneyPtr(s.CapAmount),
		UsedAmount:  money(s.UsedAmount),
		Remaining:   moneyPtr(s.Remaining),
		Compliance:  string(s.Compliance),
		IsCompliant: compliant,
		UpdatedAt:   s.UpdatedAt,
	}
}

func salaryCapToDTO(c *salarycap.SalaryCap) *salaryCapDTO {
	if c == nil {
		return nil
	}
	capAmount := c.CapAmount
	remaining := c.Remaining()
	updatedAt := c.UpdatedAt
	out := capStatusToDTO(usecase.SalaryCapStatus{
		TeamID:     c.TeamID,
		Season:     c.Season,
		CapAmount:  &capAmount,
		UsedAmount: c.UsedAmount,
		Remaining:  &remaining,
		Compliance: c.Compliance(),
		UpdatedAt:  &updatedAt,
	})
	return &out
}

type finalizeResultDTO struct {
	Outcome   outcomeDTO    `json:"outcome"`
	Contract  *contractDTO  `json:"contract,omitempty"`
	SalaryCap *salaryCapDTO `json:"salaryCap,omitempty"`
}

func finalizeResultToDTO(r usecase.FinalizeResult) finalizeResultDTO {
	out := finalizeResultDTO{
		Outcome:   outcomeToDTO(r.Outcome),
		SalaryCap: salaryCapToDTO(r.SalaryCap),
	}
	if r.Contract != nil {
		c := contractToDTO(*r.Contract)
		out.Contract = &c
	}
	return out
}

type contractResultDTO struct {
	Contract  contractDTO   `json:"contract"`
	SalaryCap *salaryCapDTO `json:"salaryCap,omitempty"`
}

type contractSummaryDTO struct {
	TotalContracts  int    `json:"totalContracts"`
	ActiveContracts int    `json:"activeContracts"`
	TotalValue      string `json:"totalValue"`
	AverageValue    string `json:"averageValue"`
	HighestValue    string `json:"highestValue"`
}

func contractSummaryToDTO(s usecase.ContractSummary) contractSummaryDTO {
	return contractSummaryDTO{
		TotalContracts:  s.TotalContracts,
		ActiveContracts: s.ActiveContracts,
		TotalValue:      money(s.TotalValue),
		AverageValue:    money(s.AverageValue),
		HighestValue:    money(s.HighestValue),
	}
}

type teamContractSummaryDTO struct {
	TeamID          int64  `json:"teamId"`
	TeamName        string `json:"teamName"`
	Contracts       int    `json:"contracts"`
	TotalValue      string `json:"totalValue"`
	CaptainID       *int64 `json:"captainId,omitempty"`
	ViceCaptainID   *int64 `json:"viceCaptainId,omitempty"`
	OverseasPlayers int    `json:"overseasPlayers"`
}

type seasonContractsDTO struct {
	Season  int                      `json:"season"`
	Items   []contractViewDTO        `json:"items"`
	Summary contractSummaryDTO       `json:"summary"`
	Teams   []teamContractSummaryDTO `json:"teams"`
}

func seasonContractsToDTO(s usecase.SeasonContracts) seasonContractsDTO {
	teams := make([]teamContractSummaryDTO, 0, len(s.Teams))
	for _, t := range s.Teams {
		teams = append(teams, teamContractSummaryDTO{
			TeamID:          t.TeamID,
			TeamName:        t.TeamName,
			Contracts:       t.Contracts,
			TotalValue:      money(t.TotalValue),
			CaptainID:       t.CaptainID,
			ViceCaptainID:   t.ViceCaptainID,
			OverseasPlayers: t.OverseasPlayers,
		})
	}
	return seasonContractsDTO{
		Season:  s.Season,
		Items:   contractViewsToDTO(s.Items),
		Summary: contractSummaryToDTO(s.Summary),
		Teams:   teams,
	}
}

type teamDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Short   string `json:"short"`
	LogoURL string `json:"logoUrl,omitempty"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{ID: t.ID, Name: t.Name, Short: t.Short, LogoURL: t.LogoURL}
}

type nationalityDTO struct {
	Nationality string `json:"nationality"`
	Players     int    `json:"players"`
	IsOverseas  bool   `json:"isOverseas"`
}

type teamSeasonContractsDTO struct {
	Team          teamDTO            `json:"team"`
	Season        int                `json:"season"`
	Items         []contractViewDTO  `json:"items"`
	Summary       contractSummaryDTO `json:"summary"`
	SalaryCap     salaryCapDTO       `json:"salaryCap"`
	Nationalities []nationalityDTO   `json:"nationalities"`
}

func teamSeasonContractsToDTO(v usecase.TeamSeasonContracts) teamSeasonContractsDTO {
	nationalities := make([]nationalityDTO, 0, len(v.Nationalities))
	for _, n := range v.Nationalities {
		nationalities = append(nationalities, nationalityDTO(n))
	}
	return teamSeasonContractsDTO{
		Team:          teamToDTO(v.Team),
		Season:        v.Season,
		Items:         contractViewsToDTO(v.Items),
		Summary:       contractSummaryToDTO(v.Summary),
		SalaryCap:     capStatusToDTO(v.SalaryCap),
		Nationalities: nationalities,
	}
}

type playerDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Nationality string `json:"nationality"`
	IsOverseas  bool   `json:"isOverseas"`
	IsActive    bool   `json:"isActive"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		Name:        p.Name,
		Role:        string(p.Role),
		Nationality: p.Nationality,
		IsOverseas:  p.IsOverseas,
		IsActive:    p.IsActive,
	}
}

type playerContractsDTO struct {
	Player  playerDTO         `json:"player"`
	Items   []contractViewDTO `json:"items"`
	Summary struct {
		TotalContracts   int    `json:"totalContracts"`
		TotalEarnings    string `json:"totalEarnings"`
		DistinctTeams    int    `json:"distinctTeams"`
		CaptaincySeasons int    `json:"captaincySeasons"`
	} `json:"summary"`
}

func playerContractsToDTO(v usecase.PlayerContracts) playerContractsDTO {
	out := playerContractsDTO{
		Player: playerToDTO(v.Player),
		Items:  contractViewsToDTO(v.Items),
	}
	out.Summary.TotalContracts = v.Summary.TotalContracts
	out.Summary.TotalEarnings = money(v.Summary.TotalEarnings)
	out.Summary.DistinctTeams = v.Summary.DistinctTeams
	out.Summary.CaptaincySeasons = v.Summary.CaptaincySeasons
	return out
}

type auctionHistoryEntryDTO struct {
	outcomeDTO
	TeamName string `json:"teamName,omitempty"`
	BidCount int    `json:"bidCount"`
}

type playerAuctionHistoryDTO struct {
	Player  playerDTO                `json:"player"`
	Entries []auctionHistoryEntryDTO `json:"entries"`
	Summary struct {
		TimesAuctioned int    `json:"timesAuctioned"`
		TimesSold      int    `json:"timesSold"`
		HighestPrice   string `json:"highestPrice"`
		TotalEarnings  string `json:"totalEarnings"`
		DistinctTeams  int    `json:"distinctTeams"`
	} `json:"summary"`
}

func playerAuctionHistoryToDTO(v usecase.PlayerAuctionHistory) playerAuctionHistoryDTO {
	out := playerAuctionHistoryDTO{
		Player:  playerToDTO(v.Player),
		Entries: make([]auctionHistoryEntryDTO, 0, len(v.Entries)),
	}
	for _, e := range v.Entries {
		out.Entries = append(out.Entries, auctionHistoryEntryDTO{
			outcomeDTO: outcomeToDTO(e.Outcome),
			TeamName:   e.TeamName,
			BidCount:   e.BidCount,
		})
	}
	out.Summary.TimesAuctioned = v.Summary.TimesAuctioned
	out.Summary.TimesSold = v.Summary.TimesSold
	out.Summary.HighestPrice = money(v.Summary.HighestPrice)
	out.Summary.TotalEarnings = money(v.Summary.TotalEarnings)
	out.Summary.DistinctTeams = v.Summary.DistinctTeams
	return out
}

type capRecomputeRowDTO struct {
	TeamID     int64         `json:"teamId"`
	Status     string        `json:"status"`
	Message    string        `json:"message,omitempty"`
	SalaryCap  *salaryCapDTO `json:"salaryCap,omitempty"`
	DurationMs int64         `json:"durationMs"`
}

type seasonCapRecomputeDTO struct {
	Season          int                  `json:"season"`
	Rows            []capRecomputeRowDTO `json:"rows"`
	RecomputedCount int                  `json:"recomputedCount"`
	SkippedCount    int                  `json:"skippedCount"`
	FailedCount     int                  `json:"failedCount"`
	NonCompliant    int                  `json:"nonCompliant"`
}

func seasonCapRecomputeToDTO(v usecase.SeasonCapRecompute) seasonCapRecomputeDTO {
	rows := make([]capRecomputeRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		item := capRecomputeRowDTO{
			TeamID:     row.TeamID,
			Status:     row.Status,
			Message:    row.Message,
			DurationMs: row.DurationMs,
		}
		if row.Cap != nil {
			c := capStatusToDTO(*row.Cap)
			item.SalaryCap = &c
		}
		rows = append(rows, item)
	}
	return seasonCapRecomputeDTO{
		Season:          v.Season,
		Rows:            rows,
		RecomputedCount: v.RecomputedCount,
		SkippedCount:    v.SkippedCount,
		FailedCount:     v.FailedCount,
		NonCompliant:    v.NonCompliant,
	}
}
