package model

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTickInterval is used when TimerConfig.TickInterval is zero.
const DefaultTickInterval = 100 * time.Millisecond

// ErrInvalidConfig indicates a timer configuration that cannot be run.
var ErrInvalidConfig = errors.New("invalid timer config")

// TimerConfig contains construction-time settings for a tick timer.
// It is captured once at machine creation and never mutated afterwards.
type TimerConfig struct {
	// Duration is the total span the timer covers.
	Duration time.Duration
	// Delay suppresses ticking for this long after start. It does not
	// consume any part of Duration.
	Delay time.Duration
	// PreElapsed seeds the timer as if this much had already passed.
	PreElapsed time.Duration
	// TickInterval is the advance applied per tick. Zero selects
	// DefaultTickInterval.
	TickInterval time.Duration
	// Countdown makes elapsed run from Duration toward zero instead of
	// from zero toward Duration.
	Countdown bool
	// Repeats restarts the cycle on exhaustion instead of finishing.
	Repeats bool
}

// DefaultTimerConfig returns a one-minute count-up timer.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Duration:     time.Minute,
		TickInterval: DefaultTickInterval,
	}
}

// Validate reports whether the configuration can be run at all.
// A negative duration or tick interval is rejected; out-of-range Delay
// and PreElapsed are clamped by Normalized instead.
func (config TimerConfig) Validate() error {
	if config.Duration < 0 {
		return fmt.Errorf("%w: duration %v is negative", ErrInvalidConfig, config.Duration)
	}
	if config.TickInterval < 0 {
		return fmt.Errorf("%w: tick interval %v is negative", ErrInvalidConfig, config.TickInterval)
	}
	return nil
}

// Normalized returns a copy with the documented clamping applied:
// a zero tick interval becomes DefaultTickInterval, a negative delay
// becomes zero, and PreElapsed is clamped into [0, Duration].
func (config TimerConfig) Normalized() TimerConfig {
	if config.TickInterval == 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.Delay < 0 {
		config.Delay = 0
	}
	if config.PreElapsed < 0 {
		config.PreElapsed = 0
	}
	if config.PreElapsed > config.Duration {
		config.PreElapsed = config.Duration
	}
	return config
}

// InitialElapsed returns the seeded elapsed value: PreElapsed when
// counting up, Duration-PreElapsed when counting down.
func (config TimerConfig) InitialElapsed() time.Duration {
	if config.Countdown {
		return config.Duration - config.PreElapsed
	}
	return config.PreElapsed
}
