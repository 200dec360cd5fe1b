package resilience

import "time"

// Config holds circuit breaker settings. Zero fields take the defaults below.
type Config struct {
	Name              string        // label in logs
	Threshold         int           // consecutive failures before opening
	ResetTimeout      time.Duration // cool-down before a trial call is let through
	HalfOpenSuccesses int           // trial successes needed to close again
}

const (
	defaultName              = "default"
	defaultThreshold         = 5
	defaultResetTimeout      = 30 * time.Second
	defaultHalfOpenSuccesses = 3
)

// FastConfig suits correlation backends, which are called for every frame:
// a broken backend trips after three frames and is tried again every ten seconds.
func FastConfig() Config {
	return Config{
		Threshold:         3,
		ResetTimeout:      10 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

func (c Config) normalized() Config {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Threshold < 1 {
		c.Threshold = defaultThreshold
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = defaultResetTimeout
	}
	if c.HalfOpenSuccesses < 1 {
		c.HalfOpenSuccesses = defaultHalfOpenSuccesses
	}
	return c
}
