package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds search tuning parameters. Request fields override these
// per call; flags override both.
type Config struct {
	// Workers is the number of parallel search workers. 0 uses one per CPU.
	Workers int `env:"OPT_WORKERS"`
	// TopK is how many best builds to keep. 1 keeps only the winner.
	TopK int `env:"OPT_TOPK"`
	// Timeout bounds the whole search; 0 disables the bound. On expiry the
	// best builds found so far are returned and the result is marked partial.
	Timeout time.Duration `env:"OPT_TIMEOUT"`
	// CheckEvery is how many combinations a worker evaluates between
	// cancellation checks.
	CheckEvery int `env:"OPT_CHECK_EVERY"`
	// NoPrune disables dominance pruning and searches the raw candidate
	// sets. Slower; produces the same best score.
	NoPrune bool `env:"OPT_NO_PRUNE"`
}

// DefaultConfig returns the standard search parameters.
func DefaultConfig() Config {
	return Config{
		Workers:    0,
		TopK:       1,
		Timeout:    0,
		CheckEvery: 4096,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by OPT_* variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// Verbose controls whether detailed search progress is printed to stderr.
var Verbose bool
