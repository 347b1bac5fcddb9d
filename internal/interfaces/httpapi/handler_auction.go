package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/shopspring/decimal"
)

type submitBidRequest struct {
	PlayerID  int64            `json:"player_id" validate:"required,gt=0"`
	TeamID    int64            `json:"team_id" validate:"required,gt=0"`
	BidAmount *decimal.Decimal `json:"bid_amount" validate:"required"`
	BidType   string           `json:"bid_type" validate:"omitempty,oneof=standard jump"`
}

type recordAuctionRequest struct {
	PlayerID      int64            `json:"player_id" validate:"required,gt=0"`
	SeriesID      int64            `json:"series_id" validate:"required,gt=0"`
	AuctionType   string           `json:"auction_type" validate:"omitempty,oneof=mega mini retention"`
	BasePrice     *decimal.Decimal `json:"base_price" validate:"required"`
	TeamID        *int64           `json:"team_id" validate:"omitempty,gt=0"`
	SoldPrice     *decimal.Decimal `json:"sold_price"`
	AuctionDate   *string          `json:"auction_date"`
	Category      string           `json:"category" validate:"omitempty,max=32"`
	IsCaptain     bool             `json:"is_captain"`
	IsViceCaptain bool             `json:"is_vice_captain"`
}

type finalizeAuctionRequest struct {
	Status        string           `json:"status" validate:"required,oneof=sold unsold retained right_to_match"`
	TeamID        *int64           `json:"team_id" validate:"omitempty,gt=0"`
	Price         *decimal.Decimal `json:"price"`
	Override      bool             `json:"override"`
	Category      string           `json:"category" validate:"omitempty,max=32"`
	IsCaptain     bool             `json:"is_captain"`
	IsViceCaptain bool             `json:"is_vice_captain"`
}

func (h *Handler) SubmitBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitBid")
	defer span.End()

	userID, err := requirePrincipalID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitBidRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.SubmitBid(ctx, usecase.SubmitBidInput{
		AuctionYear: year,
		PlayerID:    req.PlayerID,
		TeamID:      req.TeamID,
		Amount:      *req.BidAmount,
		BidType:     req.BidType,
		PlacedBy:    userID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit bid rejected",
			"auction_year", year,
			"player_id", req.PlayerID,
			"team_id", req.TeamID,
			"amount", req.BidAmount.String(),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bidResultDTO{
		Bid:             bidToDTO(result.Bid),
		PreviousHighest: money(result.PreviousHighest),
		MinimumNextBid:  money(result.MinimumNextBid),
	})
}

func (h *Handler) ListBids(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBids")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := queryInt64(r, "player_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	bids, err := h.auctionService.ListBids(ctx, year, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list bids failed", "auction_year", year, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]bidDTO, 0, len(bids))
	for _, b := range bids {
		items = append(items, bidViewToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListAuctionedPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAuctionedPlayers")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := queryInt64(r, "team_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.ListAuctionedPlayers(ctx, usecase.ListAuctionInput{
		AuctionYear: year,
		TeamID:      teamID,
		Status:      r.URL.Query().Get("status"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list auctioned players failed", "auction_year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionPageToDTO(result))
}

func (h *Handler) RecordAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordAuction")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordAuctionRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	auctionDate, err := parseDate("auction_date", req.AuctionDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.RecordAuction(ctx, usecase.RecordAuctionInput{
		PlayerID:      req.PlayerID,
		SeriesID:      req.SeriesID,
		AuctionType:   req.AuctionType,
		BasePrice:     *req.BasePrice,
		TeamID:        req.TeamID,
		SoldPrice:     req.SoldPrice,
		AuctionDate:   auctionDate,
		Category:      req.Category,
		IsCaptain:     req.IsCaptain,
		IsViceCaptain: req.IsViceCaptain,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record auction failed", "player_id", req.PlayerID, "series_id", req.SeriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, finalizeResultToDTO(result))
}

func (h *Handler) FinalizeAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeAuction")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req finalizeAuctionRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.Finalize(ctx, usecase.FinalizeInput{
		AuctionYear:   year,
		PlayerID:      playerID,
		Status:        req.Status,
		TeamID:        req.TeamID,
		Price:         req.Price,
		Override:      req.Override,
		Category:      req.Category,
		IsCaptain:     req.IsCaptain,
		IsViceCaptain: req.IsViceCaptain,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "finalize auction failed",
			"auction_year", year,
			"player_id", playerID,
			"status", req.Status,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, finalizeResultToDTO(result))
}

func (h *Handler) ReopenAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReopenAuction")
	defer span.End()

	if _, err := requirePrincipalID(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.auctionService.Reopen(ctx, year, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "reopen auction failed", "auction_year", year, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeToDTO(outcome))
}

func (h *Handler) GetPlayerAuctionHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerAuctionHistory")
	defer span.End()

	playerID, err := pathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	history, err := h.auctionService.PlayerAuctionHistory(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player auction history failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerAuctionHistoryToDTO(history))
}
