package model

import "time"

// DurationFromSeconds converts a fractional second count to a Duration.
// Negative inputs clamp to zero.
func DurationFromSeconds(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// DurationFromMillis converts a fractional millisecond count to a Duration.
// Negative inputs clamp to zero.
func DurationFromMillis(millis float64) time.Duration {
	if millis <= 0 {
		return 0
	}
	return time.Duration(millis * float64(time.Millisecond))
}
