package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/shopspring/decimal"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_BidTooLowCarriesAmounts(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("submit bid: %w", &auction.BidTooLowError{
		Amount:  decimal.NewFromInt(25),
		Highest: decimal.NewFromInt(20),
		Minimum: decimal.NewFromInt(30),
	})
	writeError(context.Background(), rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeErrorEnvelope(t, rec)
	item := body.Error.Errors[0]
	if item.Reason != "bidTooLow" || item.MinimumBid != "30.00" || item.HighestBid != "20.00" {
		t.Fatalf("unexpected error item: %+v", item)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "player not found", err: fmt.Errorf("%w: player=9", usecase.ErrPlayerNotFound), wantStatus: http.StatusNotFound, wantReason: "playerNotFound"},
		{name: "team not found", err: usecase.ErrTeamNotFound, wantStatus: http.StatusNotFound, wantReason: "teamNotFound"},
		{name: "contract not found", err: usecase.ErrContractNotFound, wantStatus: http.StatusNotFound, wantReason: "contractNotFound"},
		{name: "auction not found", err: usecase.ErrAuctionNotFound, wantStatus: http.StatusNotFound, wantReason: "auctionNotFound"},
		{name: "season not found", err: usecase.ErrSeasonNotFound, wantStatus: http.StatusNotFound, wantReason: "seasonNotFound"},
		{name: "duplicate contract", err: contract.ErrContractAlreadyExists, wantStatus: http.StatusConflict, wantReason: "contractAlreadyExists"},
		{name: "auction closed", err: auction.ErrAuctionClosed, wantStatus: http.StatusConflict, wantReason: "auctionClosed"},
		{name: "invalid transition", err: auction.ErrInvalidTransition, wantStatus: http.StatusConflict, wantReason: "invalidTransition"},
		{name: "contract not active", err: contract.ErrContractNotActive, wantStatus: http.StatusConflict, wantReason: "contractNotActive"},
		{name: "cap exceeded", err: salarycap.ErrCapExceeded, wantStatus: http.StatusUnprocessableEntity, wantReason: "salaryCapExceeded"},
		{name: "cap not configured", err: salarycap.ErrCapNotConfigured, wantStatus: http.StatusUnprocessableEntity, wantReason: "salaryCapNotConfigured"},
		{name: "inactive player", err: usecase.ErrPlayerInactive, wantStatus: http.StatusUnprocessableEntity, wantReason: "playerInactive"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantReason: "unauthorized"},
		{name: "dependency", err: usecase.ErrDependencyUnavailable, wantStatus: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable"},
		{
			name:       "finalize keeps cause status",
			err:        &usecase.FinalizeFailedError{PlayerID: 1, AuctionYear: 2025, Cause: contract.ErrContractAlreadyExists},
			wantStatus: http.StatusConflict,
			wantReason: "finalizeFailed",
		},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Reason != tt.wantReason {
				t.Fatalf("mapError(%v)=%+v want status=%d reason=%s", tt.err, got, tt.wantStatus, tt.wantReason)
			}
		})
	}
}

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()

	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error == nil || len(body.Error.Errors) == 0 {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	return body
}
