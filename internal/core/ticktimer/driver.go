package ticktimer

import (
	"sync"
	"time"

	"sandglass/internal/core/ticker"
)

// DriverOptions configures the tick delivery loop.
type DriverOptions struct {
	// Paused is evaluated at delivery time; a tick arriving while it
	// returns true is dropped, never queued. Optional.
	Paused func() bool

	// OnDone is called once, after the tick that flips the machine to
	// done has been processed, or on the first tick after an external
	// Cancel. Optional.
	OnDone func()

	// Source overrides the tick source; nil selects a wall-clock
	// ticker at the machine's tick interval. Tests inject a mock here.
	Source ticker.Ticker
}

// Driver feeds gated ticks from a periodic source into a Machine: it
// suppresses ticks until the configured start delay has elapsed, drops
// ticks while paused, and stops permanently once the machine is done.
// Delivery runs on a single goroutine, so tick processing never
// overlaps.
type Driver struct {
	mu       sync.Mutex
	machine  *Machine
	options  DriverOptions
	paused   bool
	stopCh   chan struct{}
	running  bool
	doneOnce sync.Once
}

// NewDriver creates a Driver for the machine.
func NewDriver(machine *Machine, options DriverOptions) *Driver {
	return &Driver{
		machine: machine,
		options: options,
		stopCh:  make(chan struct{}),
	}
}

// Start launches the delivery loop. The start delay is measured from
// here and does not consume any of the timer's duration.
func (driver *Driver) Start() {
	driver.mu.Lock()
	if driver.running {
		driver.mu.Unlock()
		return
	}
	driver.running = true
	source := driver.options.Source
	driver.mu.Unlock()

	if source == nil {
		source = ticker.NewWall(driver.machine.Config().TickInterval)
	}
	go driver.run(source)
}

// Stop tears down the delivery loop. No ticks are delivered afterwards;
// the machine needs no further shutdown. Stop is idempotent and the
// driver cannot be restarted.
func (driver *Driver) Stop() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	if !driver.running {
		return
	}
	driver.running = false
	close(driver.stopCh)
}

// Pause drops subsequent ticks until Resume.
func (driver *Driver) Pause() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.paused = true
}

// Resume re-enables tick delivery from the last committed elapsed
// value. Ticks dropped while paused are not made up.
func (driver *Driver) Resume() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.paused = false
}

// Paused reports whether the pause gate is closed, either via Pause or
// via the configured predicate.
func (driver *Driver) Paused() bool {
	driver.mu.Lock()
	paused := driver.paused
	predicate := driver.options.Paused
	driver.mu.Unlock()

	if paused {
		return true
	}
	return predicate != nil && predicate()
}

func (driver *Driver) run(source ticker.Ticker) {
	defer source.Stop()

	if delay := driver.machine.Config().Delay; delay > 0 {
		wait := time.NewTimer(delay)
		select {
		case <-driver.stopCh:
			wait.Stop()
			return
		case <-wait.C:
		}
		// A tick that fired during the delay window is still sitting
		// in the source buffer; the delay gate discards it.
		select {
		case <-source.C():
		default:
		}
	}

	for {
		select {
		case <-driver.stopCh:
			return
		case <-source.C():
			if !driver.deliver() {
				driver.Stop()
				return
			}
		}
	}
}

// deliver applies the gating contract to one received tick and reports
// whether delivery should continue.
func (driver *Driver) deliver() bool {
	if driver.machine.Done() {
		driver.notifyDone()
		return false
	}
	if driver.Paused() {
		return true
	}

	driver.machine.ProcessTick()

	if driver.machine.Done() {
		driver.notifyDone()
		return false
	}
	return true
}

func (driver *Driver) notifyDone() {
	driver.doneOnce.Do(func() {
		if driver.options.OnDone != nil {
			driver.options.OnDone()
		}
	})
}
