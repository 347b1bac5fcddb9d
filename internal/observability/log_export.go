package observability

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/shopspring/decimal"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
)

const logExportScope = "cricket-auction/internal/platform/logging"

// healthCheckPaths are request paths whose access-log records are not exported.
var healthCheckPaths = map[string]struct{}{
	"/healthz": {},
	"/livez":   {},
	"/readyz":  {},
}

var severities = map[logging.Level]otellog.Severity{
	logging.LevelDebug: otellog.SeverityDebug,
	logging.LevelInfo:  otellog.SeverityInfo,
	logging.LevelWarn:  otellog.SeverityWarn,
	logging.LevelError: otellog.SeverityError,
}

type logExporter struct {
	logger otellog.Logger
	now    func() time.Time
}

func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	e := &logExporter{
		logger: otelglobal.Logger(logExportScope, otellog.WithInstrumentationVersion(serviceVersion)),
		now:    time.Now,
	}
	return e.export
}

func (e *logExporter) export(ctx context.Context, level logging.Level, msg string, args ...any) {
	if isHealthCheckAccessLog(msg, args) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sev, ok := severities[level]
	if !ok {
		sev = otellog.SeverityFatal
	}
	if !e.logger.Enabled(ctx, otellog.EnabledParameters{Severity: sev, EventName: msg}) {
		return
	}

	var rec otellog.Record
	ts := e.now().UTC()
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(ts)
	rec.SetSeverity(sev)
	rec.SetSeverityText(strings.ToUpper(level.String()))
	rec.SetEventName(msg)
	rec.SetBody(otellog.StringValue(msg))
	rec.AddAttributes(logAttributes(args)...)
	e.logger.Emit(ctx, rec)
}

// isHealthCheckAccessLog matches the AccessLog record for a health check.
func isHealthCheckAccessLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "path" {
			path, _ := args[i+1].(string)
			_, healthCheck := healthCheckPaths[path]
			return healthCheck
		}
	}
	return false
}

// logAttributes mirrors the key/value convention of logging.Logger: a
// dangling key becomes an empty attribute, a non-string key is named by its
// position.
func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if strings.TrimSpace(key) == "" {
			key = "arg_" + strconv.Itoa(i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1])})
	}
	return attrs
}

// logValue maps the shapes the services log (ids, counts, money, time,
// errors) and falls back to fmt for the rest.
func logValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case float64:
		return otellog.Float64Value(v)
	case decimal.Decimal:
		return otellog.StringValue(v.StringFixed(2))
	case *decimal.Decimal:
		if v == nil {
			return otellog.Value{}
		}
		return otellog.StringValue(v.StringFixed(2))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case []int64:
		out := make([]otellog.Value, len(v))
		for i, id := range v {
			out[i] = otellog.Int64Value(id)
		}
		return otellog.SliceValue(out...)
	case map[string]int:
		out := make([]otellog.KeyValue, 0, len(v))
		for k, n := range v {
			out = append(out, otellog.Int(k, n))
		}
		return otellog.MapValue(out...)
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
