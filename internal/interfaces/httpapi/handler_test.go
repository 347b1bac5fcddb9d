package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/domain/user"
	"github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/cricket-auction/internal/platform/id"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBearer   = "Bearer auctioneer-token"
	testJobToken = "job-secret"
)

type staticVerifier struct{}

func (staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != "auctioneer-token" {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: "auctioneer-1", Email: "desk@example.com"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	roster := memory.SeedRoster()
	players := memory.NewPlayerRepository(roster.Players)
	teams := memory.NewTeamRepository(roster.Teams)
	seasons := usecase.NewSeasonResolver(memory.NewSeasonRepository(roster.Seasons), 0)
	store := memory.NewLedgerStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	logger := logging.NewNop()
	ids := idgen.NewUUIDGenerator()

	handler := NewHandler(
		usecase.NewAuctionService(store, players, teams, seasons, ids, usecase.CapPolicy{}, logger, clock),
		usecase.NewContractService(store, players, teams, seasons, ids, usecase.CapPolicy{}, logger, clock),
		usecase.NewSalaryCapService(store, teams, usecase.CapPolicy{}, 2, logger, clock),
		logger,
	)
	return NewRouter(handler, staticVerifier{}, logger, RouterConfig{InternalJobToken: testJobToken})
}

type apiResponse struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Reason     string `json:"reason"`
			MinimumBid string `json:"minimumBid"`
			HighestBid string `json:"highestBid"`
		} `json:"errors"`
	} `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded apiResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func authHeaders() map[string]string {
	return map[string]string{"Authorization": testBearer}
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/healthz", "", map[string]string{requestIDHeader: "req-42"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Data["status"])
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
}

func TestRouter_AssignsRequestID(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	assert.True(t, idgen.IsValid(rec.Header().Get(requestIDHeader)))
}

func TestSubmitBid_RequiresBearer(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/auctions/2025/bid", `{"player_id":104,"team_id":2,"bid_amount":"20"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Status)
}

func TestSubmitBid_AcceptsThenRejectsLowBid(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/auctions/2025/bid", `{"player_id":104,"team_id":2,"bid_amount":"20"}`, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "0.00", body.Data["previousHighest"])
	assert.Equal(t, "30.00", body.Data["minimumNextBid"])
	bid, ok := body.Data["bid"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "20.00", bid["amount"])

	rec, body = doRequest(t, router, http.MethodPost, "/auctions/2025/bid", `{"player_id":104,"team_id":1,"bid_amount":25}`, authHeaders())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "bidTooLow", body.Error.Errors[0].Reason)
	assert.Equal(t, "30.00", body.Error.Errors[0].MinimumBid)
	assert.Equal(t, "20.00", body.Error.Errors[0].HighestBid)

	retry := `{"player_id":104,"team_id":1,"bid_amount":"` + body.Error.Errors[0].MinimumBid + `"}`
	rec, _ = doRequest(t, router, http.MethodPost, "/auctions/2025/bid", retry, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSubmitBid_ValidatesPayload(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "missing amount", path: "/auctions/2025/bid", body: `{"player_id":104,"team_id":2}`},
		{name: "unknown field", path: "/auctions/2025/bid", body: `{"player_id":104,"team_id":2,"bid_amount":"20","x":1}`},
		{name: "bad bid type", path: "/auctions/2025/bid", body: `{"player_id":104,"team_id":2,"bid_amount":"20","bid_type":"blind"}`},
		{name: "bad year", path: "/auctions/abc/bid", body: `{"player_id":104,"team_id":2,"bid_amount":"20"}`},
		{name: "sub-cent amount", path: "/auctions/2025/bid", body: `{"player_id":104,"team_id":2,"bid_amount":"20.004"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doRequest(t, router, http.MethodPost, tt.path, tt.body, authHeaders())
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "INVALID_ARGUMENT", body.Error.Status)
		})
	}
}

func TestFinalize_CreatesContractAndTeamView(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodPost, "/auctions/2025/bid", `{"player_id":104,"team_id":2,"bid_amount":"20"}`, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := doRequest(t, router, http.MethodPost, "/auctions/2025/players/104/finalize", `{"status":"sold","team_id":2,"price":"20"}`, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	outcome, ok := body.Data["outcome"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sold", outcome["status"])
	contractBody, ok := body.Data["contract"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "20.00", contractBody["value"])

	rec, body = doRequest(t, router, http.MethodGet, "/contracts/2025/team/2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items, ok := body.Data["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
	capBody, ok := body.Data["salaryCap"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "unknown", capBody["compliance"])
	assert.Equal(t, "20.00", capBody["usedAmount"])

	rec, body = doRequest(t, router, http.MethodPost, "/auctions/2025/bid", `{"player_id":104,"team_id":1,"bid_amount":"40"}`, authHeaders())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "auctionClosed", body.Error.Errors[0].Reason)
}

func TestCreateContract_DuplicateConflicts(t *testing.T) {
	router := newTestRouter(t)
	payload := `{"player_id":101,"team_id":1,"series_id":18,"price":"120","start_date":"2025-03-01"}`

	rec, body := doRequest(t, router, http.MethodPost, "/contracts", payload, authHeaders())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contractBody, ok := body.Data["contract"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-03-01", contractBody["startDate"])

	rec, body = doRequest(t, router, http.MethodPost, "/contracts", payload, authHeaders())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", body.Error.Status)
}

func TestReleaseContract_AcceptsEmptyBody(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/contracts", `{"player_id":105,"team_id":2,"series_id":18,"price":"80"}`, authHeaders())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contractID, _ := body.Data["contract"].(map[string]any)["id"].(string)
	require.NotEmpty(t, contractID)

	rec, body = doRequest(t, router, http.MethodPost, "/contracts/"+contractID+"/release", "", authHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "terminated", body.Data["contract"].(map[string]any)["status"])

	rec, body = doRequest(t, router, http.MethodPost, "/contracts/"+contractID+"/release", "", authHeaders())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "contractNotActive", body.Error.Errors[0].Reason)
}

func TestSalaryCap_ConfigureAndRead(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/salary-caps/2025/team/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "unknown", body.Data["compliance"])
	assert.Nil(t, body.Data["capAmount"])

	rec, body = doRequest(t, router, http.MethodPut, "/salary-caps/2025/team/1", `{"cap_amount":"900"}`, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "900.00", body.Data["capAmount"])
	assert.Equal(t, "compliant", body.Data["compliance"])
}

func TestRecomputeSeason_RequiresJobToken(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodPost, "/salary-caps/2025/recompute", "", authHeaders())
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := doRequest(t, router, http.MethodPost, "/salary-caps/2025/recompute", "", map[string]string{internalJobTokenHeader: testJobToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2025, body.Data["season"])
}

func TestPlayerRoutes_UnknownPlayer(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/players/999/contracts", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "playerNotFound", body.Error.Errors[0].Reason)

	rec, _ = doRequest(t, router, http.MethodGet, "/players/101/auction-history", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
