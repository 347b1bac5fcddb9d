package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/shopspring/decimal"
)

type createContractRequest struct {
	PlayerID      int64            `json:"player_id" validate:"required,gt=0"`
	TeamID        int64            `json:"team_id" validate:"required,gt=0"`
	SeriesID      int64            `json:"series_id" validate:"required,gt=0"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	ContractType  string           `json:"contract_type" validate:"omitempty,oneof=auction retention direct replacement"`
	Category      string           `json:"category" validate:"omitempty,oneof=standard marquee capped uncapped overseas"`
	IsCaptain     bool             `json:"is_captain"`
	IsViceCaptain bool             `json:"is_vice_captain"`
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
}

type releaseContractRequest struct {
	ReleaseDate *string `json:"release_date"`
}

type assignCaptaincyRequest struct {
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContract")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createContractRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.contractService.Create(ctx, usecase.CreateContractInput{
		PlayerID:      req.PlayerID,
		TeamID:        req.TeamID,
		SeriesID:      req.SeriesID,
		Price:         *req.Price,
		ContractType:  req.ContractType,
		Category:      req.Category,
		IsCaptain:     req.IsCaptain,
		IsViceCaptain: req.IsViceCaptain,
		StartDate:     startDate,
		EndDate:       endDate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create contract failed",
			"player_id", req.PlayerID,
			"team_id", req.TeamID,
			"series_id", req.SeriesID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, contractResultDTO{
		Contract:  contractToDTO(result.Contract),
		SalaryCap: salaryCapToDTO(result.SalaryCap),
	})
}

func (h *Handler) ListSeasonContracts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonContracts")
	defer span.End()

	season, err := queryInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := queryInt64(r, "team_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	result, err := h.contractService.ListBySeason(ctx, usecase.SeasonContractsFilter{
		Season:   season,
		TeamID:   teamID,
		Status:   strings.TrimSpace(query.Get("status")),
		Category: strings.TrimSpace(query.Get("category")),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list season contracts failed", "season", season, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonContractsToDTO(result))
}

func (h *Handler) GetTeamSeasonContracts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSeasonContracts")
	defer span.End()

	season, err := pathInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.contractService.TeamSeason(ctx, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get team season contracts failed", "season", season, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamSeasonContractsToDTO(result))
}

func (h *Handler) ReleaseContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReleaseContract")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	contractID := strings.TrimSpace(r.PathValue("contractID"))

	var req releaseContractRequest
	if err := h.decodeRequest(ctx, w, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	releaseDate, err := parseDate("release_date", req.ReleaseDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.contractService.Release(ctx, contractID, releaseDate)
	if err != nil {
		h.logger.WarnContext(ctx, "release contract failed", "contract_id", contractID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contractResultDTO{
		Contract:  contractToDTO(result.Contract),
		SalaryCap: salaryCapToDTO(result.SalaryCap),
	})
}

func (h *Handler) AssignCaptaincy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignCaptaincy")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	contractID := strings.TrimSpace(r.PathValue("contractID"))

	var req assignCaptaincyRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.contractService.AssignCaptaincy(ctx, contractID, req.IsCaptain, req.IsViceCaptain)
	if err != nil {
		h.logger.WarnContext(ctx, "assign captaincy failed", "contract_id", contractID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contractToDTO(updated))
}

func (h *Handler) ListPlayerContracts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerContracts")
	defer span.End()

	playerID, err := pathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.contractService.PlayerContracts(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list player contracts failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerContractsToDTO(result))
}
