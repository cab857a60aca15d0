package ticktimer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandglass/internal/core/model"
	"sandglass/internal/core/ticker"
)

func TestDeliverDropsTicksWhilePaused(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Minute,
		TickInterval: time.Second,
	}, rec.onTick)
	driver := NewDriver(machine, DriverOptions{})

	driver.Pause()
	for i := 0; i < 3; i++ {
		require.True(t, driver.deliver())
	}
	assert.Equal(t, time.Duration(0), machine.Elapsed())
	assert.Empty(t, rec.values)

	// Resuming continues from the committed value; dropped ticks are
	// not made up.
	driver.Resume()
	require.True(t, driver.deliver())
	assert.Equal(t, time.Second, machine.Elapsed())
	assert.Equal(t, []time.Duration{time.Second}, rec.values)
}

func TestDeliverHonorsPausePredicate(t *testing.T) {
	t.Parallel()

	var paused atomic.Bool
	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Minute,
		TickInterval: time.Second,
	}, nil)
	driver := NewDriver(machine, DriverOptions{
		Paused: paused.Load,
	})

	paused.Store(true)
	require.True(t, driver.deliver())
	assert.Equal(t, time.Duration(0), machine.Elapsed())

	paused.Store(false)
	require.True(t, driver.deliver())
	assert.Equal(t, time.Second, machine.Elapsed())
}

func TestDeliverStopsOnceDone(t *testing.T) {
	t.Parallel()

	var doneCalls atomic.Int32
	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Second,
		TickInterval: time.Second,
	}, nil)
	driver := NewDriver(machine, DriverOptions{
		OnDone: func() { doneCalls.Add(1) },
	})

	require.True(t, driver.deliver())
	require.False(t, driver.deliver())
	assert.True(t, machine.Done())
	assert.Equal(t, int32(1), doneCalls.Load())

	// A straggler tick after done is refused without firing again.
	require.False(t, driver.deliver())
	assert.Equal(t, int32(1), doneCalls.Load())
}

func TestDeliverStopsAfterExternalCancel(t *testing.T) {
	t.Parallel()

	var doneCalls atomic.Int32
	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Minute,
		TickInterval: time.Second,
	}, nil)
	driver := NewDriver(machine, DriverOptions{
		OnDone: func() { doneCalls.Add(1) },
	})

	require.True(t, driver.deliver())
	machine.Cancel()

	require.False(t, driver.deliver())
	assert.Equal(t, time.Second, machine.Elapsed())
	assert.Equal(t, int32(1), doneCalls.Load())
}

func TestDriverRunsFromMockSource(t *testing.T) {
	t.Parallel()

	mock := ticker.NewMock()
	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Minute,
		TickInterval: time.Second,
	}, nil)
	driver := NewDriver(machine, DriverOptions{Source: mock})

	driver.Start()
	defer driver.Stop()

	mock.Fire()
	require.Eventually(t, func() bool {
		return machine.Elapsed() == time.Second
	}, time.Second, 5*time.Millisecond)

	driver.Pause()
	mock.Fire()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, time.Second, machine.Elapsed())

	driver.Resume()
	mock.Fire()
	require.Eventually(t, func() bool {
		return machine.Elapsed() == 2*time.Second
	}, time.Second, 5*time.Millisecond)
}

func TestDriverStopsSourceWhenDone(t *testing.T) {
	t.Parallel()

	mock := ticker.NewMock()
	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Second,
		TickInterval: time.Second,
	}, nil)

	doneCh := make(chan struct{})
	driver := NewDriver(machine, DriverOptions{
		Source: mock,
		OnDone: func() { close(doneCh) },
	})
	driver.Start()

	mock.Fire()
	require.Eventually(t, func() bool {
		return machine.Elapsed() == time.Second
	}, time.Second, 5*time.Millisecond)

	mock.Fire()
	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("driver never reported done")
	}

	require.Eventually(t, mock.IsStopped, time.Second, 5*time.Millisecond)
}

func TestDriverDelayGateDiscardsEarlyTicks(t *testing.T) {
	t.Parallel()

	mock := ticker.NewMock()
	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Minute,
		Delay:        100 * time.Millisecond,
		TickInterval: time.Second,
	}, nil)
	driver := NewDriver(machine, DriverOptions{Source: mock})

	driver.Start()
	defer driver.Stop()

	// Fired inside the delay window: must be discarded, not deferred.
	mock.Fire()
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, time.Duration(0), machine.Elapsed())

	mock.Fire()
	require.Eventually(t, func() bool {
		return machine.Elapsed() == time.Second
	}, time.Second, 5*time.Millisecond)
}

func TestDriverStopIsIdempotent(t *testing.T) {
	t.Parallel()

	machine := newMachine(t, model.TimerConfig{
		Duration:     time.Minute,
		TickInterval: time.Second,
	}, nil)
	driver := NewDriver(machine, DriverOptions{Source: ticker.NewMock()})

	driver.Start()
	driver.Start()
	driver.Stop()
	driver.Stop()
}

func TestDriverWallClockEndToEnd(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	machine := newMachine(t, model.TimerConfig{
		Duration:     60 * time.Millisecond,
		TickInterval: 20 * time.Millisecond,
	}, rec.onTick)

	doneCh := make(chan struct{})
	driver := NewDriver(machine, DriverOptions{
		OnDone: func() { close(doneCh) },
	})
	driver.Start()

	select {
	case <-doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never completed")
	}

	assert.True(t, machine.Done())
	assert.Equal(t, 60*time.Millisecond, machine.Elapsed())
	assert.Equal(t, float64(1), machine.Progress())
}
