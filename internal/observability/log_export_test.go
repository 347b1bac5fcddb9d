package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
)

func TestIsHealthCheckAccessLog(t *testing.T) {
	tests := []struct {
		msg  string
		args []any
		want bool
	}{
		{"http request", []any{"method", "GET", "path", "/healthz"}, true},
		{"http request", []any{"path", "/readyz"}, true},
		{"http request", []any{"path", "/auctions/2025/bid"}, false},
		{"bid rejected", []any{"path", "/healthz"}, false},
		{"http request", []any{"path"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isHealthCheckAccessLog(tt.msg, tt.args), "%s %v", tt.msg, tt.args)
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"player_id", int64(101), 7, "x", "team_id"})
	require.Len(t, attrs, 3)

	assert.Equal(t, "player_id", attrs[0].Key)
	assert.Equal(t, int64(101), attrs[0].Value.AsInt64())
	assert.Equal(t, "arg_1", attrs[1].Key)
	assert.Equal(t, "team_id", attrs[2].Key)
	assert.Equal(t, otellog.KindEmpty, attrs[2].Value.Kind())
}

func TestLogValue(t *testing.T) {
	assert.Equal(t, "120.50", logValue(decimal.RequireFromString("120.5")).AsString())
	assert.Equal(t, otellog.KindEmpty, logValue((*decimal.Decimal)(nil)).Kind())
	assert.Equal(t, "bid too low", logValue(errors.New("bid too low")).AsString())
	assert.Equal(t, "1.5s", logValue(1500*time.Millisecond).AsString())
	assert.Equal(t, int64(2025), logValue(2025).AsInt64())

	ids := logValue([]int64{101, 102})
	require.Equal(t, otellog.KindSlice, ids.Kind())
	assert.Len(t, ids.AsSlice(), 2)

	counts := logValue(map[string]int{"sold": 4, "unsold": 1})
	require.Equal(t, otellog.KindMap, counts.Kind())
	assert.Len(t, counts.AsMap(), 2)
}
