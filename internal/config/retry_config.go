package config

import "time"

// RetryConfig defines configuration for capture backend retries
type RetryConfig struct {
	// Maximum number of retry attempts after the initial capture fails
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	// Base delay in milliseconds between attempts
	RetryDelayMs int `json:"retry_delay_ms,omitempty" yaml:"retry_delay_ms,omitempty" validate:"omitempty,min=0,max=60000"`
	// Multiplier applied to the delay after each failed attempt
	BackoffFactor float64 `json:"backoff_factor,omitempty" yaml:"backoff_factor,omitempty" validate:"omitempty,min=1,max=10"`
	// Enable jitter to randomize delays slightly
	EnableJitter bool `json:"enable_jitter" yaml:"enable_jitter"`
}

// NewDefaultRetryConfig creates default retry configuration
func NewDefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    DefaultRetryMaxRetries,
		RetryDelayMs:  DefaultRetryDelayMs,
		BackoffFactor: DefaultRetryBackoffFactor,
		EnableJitter:  true,
	}
}

// RetryDelay returns the base delay as a duration
func (rc RetryConfig) RetryDelay() time.Duration {
	return time.Duration(rc.RetryDelayMs) * time.Millisecond
}
