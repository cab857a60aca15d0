package ticker

import (
	"sync"
	"time"
)

// Mock is a Ticker fired manually from tests.
type Mock struct {
	mu      sync.Mutex
	c       chan time.Time
	stopped bool
}

// NewMock creates a new Mock.
func NewMock() *Mock {
	return &Mock{c: make(chan time.Time, 1)}
}

// C returns the tick channel.
func (mock *Mock) C() <-chan time.Time {
	return mock.c
}

// Stop marks the ticker stopped. Subsequent Fire calls are dropped.
func (mock *Mock) Stop() {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.stopped = true
}

// Fire delivers one tick. The send is non-blocking: if the previous
// tick has not been consumed yet, this one is dropped, matching how a
// real ticker coalesces missed ticks.
func (mock *Mock) Fire() {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.stopped {
		return
	}
	select {
	case mock.c <- time.Now():
	default:
	}
}

// IsStopped reports whether Stop has been called.
func (mock *Mock) IsStopped() bool {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.stopped
}
