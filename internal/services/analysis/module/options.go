package module

import (
	"time"

	"lectern/internal/platform/config"
)

// Options for the analysis module
type Options struct {
	PollInterval    time.Duration
	PollCeiling     time.Duration
	SweepInterval   time.Duration
	BatchSize       int
	ProviderRetries int
}

// FromConfig loads analysis options from the environment
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LECTERN_ANALYSIS_")
	return Options{
		PollInterval:    c.MayDuration("POLL_INTERVAL", 3*time.Second),
		PollCeiling:     c.MayDuration("POLL_CEILING", 400*time.Second),
		SweepInterval:   c.MayDuration("SWEEP_INTERVAL", 5*time.Second),
		BatchSize:       c.MayInt("BATCH_SIZE", 10),
		ProviderRetries: c.MayInt("PROVIDER_RETRIES", 3),
	}
}
