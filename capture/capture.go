// Package capture runs the per-monitor screen capture loops. One
// capturer exists per active monitor in Measure mode; the session
// controller starts them and joins them at reset. Each capturer
// publishes frames into its monitor's single-slot frame cell, where
// the overlay renderer picks them up last-write-wins.
package capture

import (
	"image"
	"log"
	"sync"
	"time"

	"screen-measure/monitor"
	"screen-measure/state"
)

// Grabber snapshots a monitor's current pixel content. The default
// implementation queries the OS; tests inject fakes.
type Grabber interface {
	Grab(bounds image.Rectangle) (*image.RGBA, error)
}

// Capturer is one monitor's capture loop.
type Capturer struct {
	mon        monitor.Descriptor
	grabber    Grabber
	cell       *state.FrameCell
	gpu        *state.GPULock
	continuous bool
	interval   time.Duration

	request  chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Start launches a capture loop for mon, publishing into cell. With
// continuous capture disabled the loop captures once and then pauses
// until RequestCapture.
func Start(mon monitor.Descriptor, grabber Grabber, cell *state.FrameCell, gpu *state.GPULock, continuous bool) *Capturer {
	c := &Capturer{
		mon:        mon,
		grabber:    grabber,
		cell:       cell,
		gpu:        gpu,
		continuous: continuous,
		interval:   state.TargetFrameDuration,
		request:    make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Capturer) run() {
	defer close(c.done)

	// First frame regardless of mode, so the renderer has a background.
	c.captureOnce()

	if c.continuous {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.captureOnce()
			}
		}
	}

	for {
		select {
		case <-c.stop:
			return
		case <-c.request:
			c.captureOnce()
		}
	}
}

// captureOnce grabs one frame under the GPU lock and publishes it.
// Transient failures are logged and the loop continues; a stop
// observed mid-flight discards the frame rather than touching state
// that may be tearing down.
func (c *Capturer) captureOnce() {
	c.gpu.Lock()
	frame, err := c.grabber.Grab(c.mon.Bounds)
	c.gpu.Unlock()
	if err != nil {
		log.Printf("capture: monitor %d frame grab failed: %v", c.mon.ID, err)
		return
	}
	select {
	case <-c.stop:
		return
	default:
	}
	c.cell.Publish(frame)
}

// RequestCapture asks a paused (non-continuous) capturer for a fresh
// frame, e.g. when the cursor re-enters the monitor. Non-blocking;
// coalesces with a pending request.
func (c *Capturer) RequestCapture() {
	select {
	case c.request <- struct{}{}:
	default:
	}
}

// Stop signals the loop to exit. Idempotent.
func (c *Capturer) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Join blocks until the loop has exited.
func (c *Capturer) Join() {
	<-c.done
}
