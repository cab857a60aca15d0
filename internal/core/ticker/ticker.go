// Package ticker provides the periodic signal sources that drive a timer.
package ticker

import "time"

// Ticker delivers a periodic tick signal.
type Ticker interface {
	// C returns the channel that receives a value per tick.
	C() <-chan time.Time

	// Stop stops tick delivery. The channel is not closed.
	Stop()
}

// Wall implements Ticker on top of the wall clock.
type Wall struct {
	ticker *time.Ticker
}

// NewWall creates a wall-clock ticker firing every interval.
// The interval must be positive.
func NewWall(interval time.Duration) *Wall {
	return &Wall{ticker: time.NewTicker(interval)}
}

// C returns the tick channel.
func (wall *Wall) C() <-chan time.Time {
	return wall.ticker.C
}

// Stop stops the underlying ticker.
func (wall *Wall) Stop() {
	wall.ticker.Stop()
}
