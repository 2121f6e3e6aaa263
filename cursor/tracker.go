// Package cursor runs the global cursor-polling loop. Exactly one
// tracker exists per core lifetime; it starts at core construction and
// stops only at core teardown, not per tool session.
package cursor

import (
	"image"
	"sync"
	"time"

	"screen-measure/state"
)

// Sampler returns the current system-wide cursor position in virtual
// screen coordinates. The default is the OS query; tests inject fakes.
type Sampler func() image.Point

// Tracker samples the cursor at a fixed cadence and publishes each
// sample into CommonState via atomic exchange.
type Tracker struct {
	common   *state.CommonState
	sample   Sampler
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a tracker publishing into common. A nil sampler uses the
// OS cursor query.
func New(common *state.CommonState, sample Sampler) *Tracker {
	if sample == nil {
		sample = systemCursorPos
	}
	return &Tracker{
		common:   common,
		sample:   sample,
		interval: state.TargetFrameDuration,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop.
func (t *Tracker) Start() {
	go t.run()
}

func (t *Tracker) run() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		t.common.SetCursorPos(t.sample())
		select {
		case <-t.stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop sets the manual-reset stop signal. Idempotent; the signal is
// set exactly once no matter how often Stop is called.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Join blocks until the polling loop has exited. Shutdown latency is
// bounded by one frame interval.
func (t *Tracker) Join() {
	<-t.done
}
