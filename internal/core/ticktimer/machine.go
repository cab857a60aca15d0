// Package ticktimer implements the tick-driven timer state machine and
// the driver that feeds it gated ticks from a periodic source.
package ticktimer

import (
	"sync"
	"time"

	"sandglass/internal/core/model"
)

// OnTick receives each newly committed elapsed value. It is invoked
// synchronously as part of the commit, with the machine lock held, at
// tick-interval frequency: it must be cheap and must not call back
// into the machine.
type OnTick func(elapsed time.Duration)

// Machine converts a stream of tick signals into a bounded elapsed-time
// value with completion and repeat semantics.
type Machine struct {
	mu      sync.Mutex
	config  model.TimerConfig
	elapsed time.Duration
	done    bool
	onTick  OnTick
}

// New creates a Machine from the normalized configuration and seeds
// elapsed: PreElapsed when counting up, Duration-PreElapsed when
// counting down. The observer may be nil.
func New(config model.TimerConfig, onTick OnTick) (*Machine, error) {
	config = config.Normalized()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Machine{
		config:  config,
		elapsed: config.InitialElapsed(),
		onTick:  onTick,
	}, nil
}

// ProcessTick advances elapsed by one tick interval toward the active
// bound. The tick that would push elapsed outside [0, Duration] is the
// exhaustion tick: it resets the cycle when Repeats is set, otherwise
// it marks the machine done. The observer is never called for an
// exhaustion tick; every other processed tick commits the new elapsed
// value and reports it, including ticks landing exactly on a bound.
// Ticks arriving after done are no-ops.
func (machine *Machine) ProcessTick() {
	machine.mu.Lock()
	defer machine.mu.Unlock()

	if machine.done {
		return
	}

	var next time.Duration
	if machine.config.Countdown {
		if machine.elapsed <= 0 {
			machine.exhaustLocked(machine.config.Duration)
			return
		}
		next = machine.elapsed - machine.config.TickInterval
		if next < 0 {
			next = 0
		}
	} else {
		if machine.elapsed >= machine.config.Duration {
			machine.exhaustLocked(0)
			return
		}
		next = machine.elapsed + machine.config.TickInterval
		if next > machine.config.Duration {
			next = machine.config.Duration
		}
	}

	machine.elapsed = next
	if machine.onTick != nil {
		machine.onTick(next)
	}
}

func (machine *Machine) exhaustLocked(restart time.Duration) {
	if machine.config.Repeats {
		machine.elapsed = restart
		return
	}
	machine.done = true
}

// Elapsed returns the current elapsed value.
func (machine *Machine) Elapsed() time.Duration {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.elapsed
}

// Progress returns elapsed as a fraction of the total duration, in
// [0, 1]. A zero-length timer reports 1.
func (machine *Machine) Progress() float64 {
	machine.mu.Lock()
	defer machine.mu.Unlock()

	if machine.config.Duration <= 0 {
		return 1
	}
	return float64(machine.elapsed) / float64(machine.config.Duration)
}

// Done reports whether the machine has finished. It becomes true on
// natural exhaustion (Repeats unset) or after Cancel.
func (machine *Machine) Done() bool {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.done
}

// Cancel forces the done flag. Subsequent ticks are no-ops; the gating
// contract treats a cancelled machine the same as a completed one.
func (machine *Machine) Cancel() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.done = true
}

// Config returns the normalized configuration the machine runs with.
func (machine *Machine) Config() model.TimerConfig {
	return machine.config
}
