package roster

import (
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/player"
	"github.com/riskibarqy/cricket-auction/internal/platform/resilience"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newTestClient(t *testing.T, handler fasthttp.RequestHandler, cfg ClientConfig) *Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() {
		_ = server.Shutdown()
		_ = ln.Close()
	})

	cfg.BaseURL = "http://roster.test/v1"
	cfg.Dial = func(string) (net.Conn, error) { return ln.Dial() }
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Millisecond
	}
	return NewClient(cfg)
}

func TestPlayerDirectory_GetByID(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		gotAuth = string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
		switch string(ctx.Path()) {
		case "/v1/players/103":
			ctx.SetContentType("application/json")
			ctx.SetBodyString(`{"data":{"id":103,"name":"Devon Conway","role":"batter","nationality":"New Zealand","is_overseas":true,"is_active":true}}`)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}, ClientConfig{Token: "secret"})

	got, exists, err := client.Players().GetByID(t.Context(), 103)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, player.Player{
		ID: 103, Name: "Devon Conway", Role: player.RoleBatter, Nationality: "New Zealand", IsOverseas: true, IsActive: true,
	}, got)
	assert.Equal(t, "Bearer secret", gotAuth)

	_, exists, err = client.Players().GetByID(t.Context(), 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTeamDirectory_ListByIDsPostsLookupBody(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Method()) != fasthttp.MethodPost || string(ctx.Path()) != "/v1/teams/lookup" {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}
		gotBody = string(ctx.PostBody())
		ctx.SetBodyString(`{"data":[{"id":1,"name":"Chennai Super Kings","short_name":"CSK"},{"id":2,"name":"Mumbai Indians","short_name":"MI"}]}`)
	}, ClientConfig{})

	teams, err := client.Teams().ListByIDs(t.Context(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "MI", teams[1].Short)
	assert.JSONEq(t, `{"ids":[1,2]}`, gotBody)
}

func TestSeasonDirectory_GetByYearSendsQuery(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/v1/seasons/by-year" || string(ctx.QueryArgs().Peek("year")) != "2025" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetBodyString(`{"data":{"id":18,"year":2025,"name":"IPL 2025","is_current":true}}`)
	}, ClientConfig{})

	got, exists, err := client.Seasons().GetByYear(t.Context(), 2025)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, int64(18), got.ID)
	assert.True(t, got.IsCurrent)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if calls.Add(1) < 3 {
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			return
		}
		ctx.SetBodyString(`{"data":[{"id":1,"name":"Chennai Super Kings","short_name":"CSK"}]}`)
	}, ClientConfig{MaxRetries: 2})

	teams, err := client.Teams().List(t.Context())
	require.NoError(t, err)
	assert.Len(t, teams, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		ctx.SetBodyString(`{"error":"bad token"}`)
	}, ClientConfig{MaxRetries: 3})

	_, err := client.Teams().List(t.Context())
	require.Error(t, err)
	assert.False(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
	}, ClientConfig{CircuitBreaker: resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}})

	for i := 0; i < 2; i++ {
		_, err := client.Teams().List(t.Context())
		require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	}

	_, err := client.Teams().List(t.Context())
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open circuit must short-circuit the third call")
}
