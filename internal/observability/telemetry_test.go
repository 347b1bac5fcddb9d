package observability

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/riskibarqy/cricket-auction/internal/config"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_AllDisabled(t *testing.T) {
	cfg := config.Config{ServiceName: "cricket-auction-api", AppEnv: config.EnvDev}

	tel, err := Start(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Empty(t, tel.components)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestStart_EmptyDSNSkipsTracing(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: "  ", AppEnv: config.EnvStage}

	tel, err := Start(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, tel.components)
}

func TestStart_PprofServesAndStops(t *testing.T) {
	cfg := config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}

	stop, err := startPprof(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, stop)
	assert.NoError(t, stop(context.Background()))
}

func TestStart_PprofBadAddrFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Config{PprofEnabled: true, PprofAddr: ln.Addr().String()}
	tel, err := Start(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
	assert.Nil(t, tel)
}

func TestPprofMux_RoutesIndex(t *testing.T) {
	_, pattern := pprofMux().Handler(&http.Request{Method: http.MethodGet, URL: mustURL(t, "/debug/pprof/heap")})
	assert.Equal(t, "/debug/pprof/", pattern)
}

func TestTelemetry_ShutdownJoinsErrors(t *testing.T) {
	var order []string
	tel := &Telemetry{logger: logging.NewNop(), components: []component{
		{name: "first", stop: func(context.Context) error { order = append(order, "first"); return assert.AnError }},
		{name: "second", stop: func(context.Context) error { order = append(order, "second"); return nil }},
	}}

	err := tel.Shutdown(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "stop first")
	assert.Equal(t, []string{"second", "first"}, order)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestTelemetry_NilShutdown(t *testing.T) {
	var tel *Telemetry
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func mustURL(t *testing.T, path string) *url.URL {
	t.Helper()
	u, err := url.Parse(path)
	require.NoError(t, err)
	return u
}
