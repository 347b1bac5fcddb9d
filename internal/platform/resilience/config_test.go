package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerConfig_Validate(t *testing.T) {
	valid := CircuitBreakerConfig{Enabled: true, FailureThreshold: 3, OpenTimeout: time.Second, HalfOpenMaxReq: 1}
	assert.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*CircuitBreakerConfig){
		"threshold": func(c *CircuitBreakerConfig) { c.FailureThreshold = 0 },
		"timeout":   func(c *CircuitBreakerConfig) { c.OpenTimeout = 0 },
		"half-open": func(c *CircuitBreakerConfig) { c.HalfOpenMaxReq = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCircuitBreakerConfig_WithDefaults(t *testing.T) {
	cfg := CircuitBreakerConfig{Enabled: true, OpenTimeout: time.Minute}.withDefaults()
	assert.Equal(t, defaultFailureThreshold, cfg.FailureThreshold)
	assert.Equal(t, time.Minute, cfg.OpenTimeout)
	assert.Equal(t, defaultHalfOpenMaxReq, cfg.HalfOpenMaxReq)
}
