package scheduler

import (
	"time"
)

// Config controls the automatic bill run.
type Config struct {
	// JobTimeout bounds a single run across all customers.
	JobTimeout time.Duration
	// LockTTL is how long the cross-instance run lock is held at most.
	LockTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		JobTimeout: 30 * time.Minute,
		LockTTL:    time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}
