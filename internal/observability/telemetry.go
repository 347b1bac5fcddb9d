package observability

import (
	"context"
	stderrors "errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-auction/internal/config"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
)

type stopFunc func(context.Context) error

type component struct {
	name string
	stop stopFunc
}

// Telemetry owns the tracing exporter and the profilers started for the
// process. Components are stopped in reverse start order.
type Telemetry struct {
	logger     *logging.Logger
	components []component
}

// Start brings up tracing, continuous profiling and the pprof listener as
// configured. On failure anything already started is stopped again.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	starters := []struct {
		name  string
		start func(config.Config, *logging.Logger) (stopFunc, error)
	}{
		{"uptrace", startTracing},
		{"pyroscope", startPyroscope},
		{"pprof", startPprof},
	}
	for _, s := range starters {
		stop, err := s.start(cfg, logger)
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, crerr.Wrapf(err, "start %s", s.name)
		}
		if stop != nil {
			t.components = append(t.components, component{name: s.name, stop: stop})
		}
	}
	return t, nil
}

// Shutdown stops every component and reports all failures.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	for i := len(t.components) - 1; i >= 0; i-- {
		c := t.components[i]
		if err := c.stop(ctx); err != nil {
			errs = append(errs, crerr.Wrapf(err, "stop %s", c.name))
			continue
		}
		t.logger.Debug("telemetry component stopped", "component", c.name)
	}
	t.components = nil
	return stderrors.Join(errs...)
}
