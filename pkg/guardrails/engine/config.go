package engine

import (
	"fmt"
	"time"
)

// FailMode determines how the engine handles policy store errors.
type FailMode string

const (
	// FailOpen lets evaluation proceed on built-in check results alone
	// when the policy store is unavailable. Use this when blocking
	// legitimate traffic is worse than missing a custom policy.
	FailOpen FailMode = "fail-open"

	// FailClosed denies the request when the policy store is
	// unavailable. This is the default.
	FailClosed FailMode = "fail-closed"
)

// Config contains configuration for the decision engine.
type Config struct {
	// FailMode determines behavior when the policy store errors.
	// Default: FailClosed.
	FailMode FailMode

	// PolicyFetchTimeout bounds the policy store fetch per evaluation.
	// Default: 250ms.
	PolicyFetchTimeout time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		FailMode:           FailClosed,
		PolicyFetchTimeout: 250 * time.Millisecond,
	}
}

// Validate validates the engine configuration.
func (c *Config) Validate() error {
	switch c.FailMode {
	case FailOpen, FailClosed:
	default:
		return fmt.Errorf("invalid fail mode %q", c.FailMode)
	}

	if c.PolicyFetchTimeout <= 0 {
		return fmt.Errorf("policy fetch timeout must be positive")
	}

	return nil
}

// WithFailMode sets the fail mode.
func (c *Config) WithFailMode(mode FailMode) *Config {
	c.FailMode = mode
	return c
}
