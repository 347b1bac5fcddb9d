package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/shopspring/decimal"
)

type configureSalaryCapRequest struct {
	CapAmount *decimal.Decimal `json:"cap_amount" validate:"required"`
}

func (h *Handler) GetSalaryCap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSalaryCap")
	defer span.End()

	season, teamID, err := seasonTeamPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.salaryCapService.Get(ctx, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get salary cap failed", "season", season, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, capStatusToDTO(status))
}

func (h *Handler) ConfigureSalaryCap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfigureSalaryCap")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	season, teamID, err := seasonTeamPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req configureSalaryCapRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.salaryCapService.Configure(ctx, usecase.ConfigureSalaryCapInput{
		TeamID:    teamID,
		Season:    season,
		CapAmount: *req.CapAmount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "configure salary cap failed", "season", season, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, capStatusToDTO(status))
}

func (h *Handler) RecomputeSalaryCap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeSalaryCap")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	season, teamID, err := seasonTeamPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.salaryCapService.Recompute(ctx, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute salary cap failed", "season", season, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, capStatusToDTO(status))
}

func (h *Handler) RecomputeSeasonSalaryCaps(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeSeasonSalaryCaps")
	defer span.End()

	season, err := pathInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.salaryCapService.RecomputeSeason(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute season salary caps failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonCapRecomputeToDTO(result))
}

func seasonTeamPath(r *http.Request) (int, int64, error) {
	season, err := pathInt(r, "season")
	if err != nil {
		return 0, 0, err
	}
	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		return 0, 0, err
	}
	return season, teamID, nil
}
