package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "cricket-auction"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain     string `json:"domain"`
	Reason     string `json:"reason"`
	Message    string `json:"message"`
	MinimumBid string `json:"minimumBid,omitempty"`
	HighestBid string `json:"highestBid,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	if requestID := requestIDFromContext(ctx); requestID != "" {
		w.Header().Set(requestIDHeader, requestID)
	}
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	item := googleErrorItem{
		Domain:  errorDomain,
		Reason:  mapped.Reason,
		Message: err.Error(),
	}

	var tooLow *auction.BidTooLowError
	if errors.As(err, &tooLow) {
		item.MinimumBid = tooLow.Minimum.StringFixed(2)
		item.HighestBid = tooLow.Highest.StringFixed(2)
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors:  []googleErrorItem{item},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	var finalizeErr *usecase.FinalizeFailedError
	if errors.As(err, &finalizeErr) {
		cause := mapError(ctx, finalizeErr.Cause)
		cause.Reason = "finalizeFailed"
		return cause
	}

	switch {
	case errors.Is(err, auction.ErrBidTooLow):
		return mappedError{http.StatusBadRequest, "bidTooLow", "FAILED_PRECONDITION"}
	case errors.Is(err, auction.ErrInvalidFinalization):
		return mappedError{http.StatusBadRequest, "invalidFinalization", "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrPlayerNotFound):
		return mappedError{http.StatusNotFound, "playerNotFound", "NOT_FOUND"}
	case errors.Is(err, usecase.ErrTeamNotFound):
		return mappedError{http.StatusNotFound, "teamNotFound", "NOT_FOUND"}
	case errors.Is(err, usecase.ErrSeasonNotFound):
		return mappedError{http.StatusNotFound, "seasonNotFound", "NOT_FOUND"}
	case errors.Is(err, usecase.ErrContractNotFound):
		return mappedError{http.StatusNotFound, "contractNotFound", "NOT_FOUND"}
	case errors.Is(err, usecase.ErrAuctionNotFound):
		return mappedError{http.StatusNotFound, "auctionNotFound", "NOT_FOUND"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}
	case errors.Is(err, contract.ErrContractAlreadyExists):
		return mappedError{http.StatusConflict, "contractAlreadyExists", "ALREADY_EXISTS"}
	case errors.Is(err, auction.ErrAuctionClosed):
		return mappedError{http.StatusConflict, "auctionClosed", "FAILED_PRECONDITION"}
	case errors.Is(err, auction.ErrInvalidTransition):
		return mappedError{http.StatusConflict, "invalidTransition", "FAILED_PRECONDITION"}
	case errors.Is(err, contract.ErrContractNotActive):
		return mappedError{http.StatusConflict, "contractNotActive", "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrPlayerInactive):
		return mappedError{http.StatusUnprocessableEntity, "playerInactive", "FAILED_PRECONDITION"}
	case errors.Is(err, salarycap.ErrCapNotConfigured):
		return mappedError{http.StatusUnprocessableEntity, "salaryCapNotConfigured", "FAILED_PRECONDITION"}
	case errors.Is(err, salarycap.ErrCapExceeded):
		return mappedError{http.StatusUnprocessableEntity, "salaryCapExceeded", "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}
	default:
		return mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}
	}
}
