package resilience

import (
	"fmt"
	"time"
)

// BreakerConfig tunes the circuit in front of one upstream provider.
type BreakerConfig struct {
	Enabled bool
	// MaxFailures is the run of consecutive transient failures that opens
	// the circuit.
	MaxFailures int
	// Cooldown is how long an open circuit rejects calls.
	Cooldown time.Duration
	// TrialRequests caps the calls let through while half-open.
	TrialRequests int
}

// ProviderBreakerDefaults fit the CFBD and Odds API rate windows: trip after
// a short burst of upstream errors and stay open past a per-minute quota.
func ProviderBreakerDefaults() BreakerConfig {
	return BreakerConfig{
		Enabled:       true,
		MaxFailures:   3,
		Cooldown:      30 * time.Second,
		TrialRequests: 1,
	}
}

// Validate rejects settings that would leave the circuit unusable.
func (c BreakerConfig) Validate() error {
	switch {
	case c.MaxFailures < 1:
		return fmt.Errorf("breaker max failures must be >= 1, got %d", c.MaxFailures)
	case c.Cooldown <= 0:
		return fmt.Errorf("breaker cooldown must be > 0, got %s", c.Cooldown)
	case c.TrialRequests < 1:
		return fmt.Errorf("breaker trial requests must be >= 1, got %d", c.TrialRequests)
	}
	return nil
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	defaults := ProviderBreakerDefaults()
	if c.MaxFailures < 1 {
		c.MaxFailures = defaults.MaxFailures
	}
	if c.Cooldown <= 0 {
		c.Cooldown = defaults.Cooldown
	}
	if c.TrialRequests < 1 {
		c.TrialRequests = defaults.TrialRequests
	}
	return c
}
