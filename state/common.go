package state

import (
	"image"
	"sync"
	"sync/atomic"
)

// LineColor is the measurement line color as RGB floats in [0,1].
type LineColor struct {
	R, G, B float32
}

// CommonState is shared by every overlay and the cursor tracker for
// the lifetime of the core. Scalar hot fields are atomic; the rest is
// guarded by a mutex and only mutated between sessions or from the UI
// thread.
type CommonState struct {
	cursorPos            atomic.Int64 // packed x|y, written by the tracker only
	closeOnOtherMonitors atomic.Bool

	mu              sync.Mutex
	lineColor       LineColor
	toolbarBox      image.Rectangle
	completion      func()
	completionFired bool
}

// SetCursorPos publishes the latest sampled cursor position. Called
// from the cursor tracker only.
func (c *CommonState) SetCursorPos(p image.Point) {
	c.cursorPos.Store(packPoint(p))
}

// CursorPos returns the most recently published cursor position in
// system (virtual-screen) coordinates. Never returns a torn pair.
func (c *CommonState) CursorPos() image.Point {
	return unpackPoint(c.cursorPos.Load())
}

// SetCloseOnOtherMonitors flags that the remaining overlays should
// tear down when one overlay closes.
func (c *CommonState) SetCloseOnOtherMonitors(v bool) { c.closeOnOtherMonitors.Store(v) }

// CloseOnOtherMonitors reports whether a single overlay close tears
// down the whole session.
func (c *CommonState) CloseOnOtherMonitors() bool { return c.closeOnOtherMonitors.Load() }

// SetLineColor stores the configured line color. Applied at reset,
// before any renderer starts.
func (c *CommonState) SetLineColor(color LineColor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lineColor = color
}

// GetLineColor returns the configured measurement line color.
func (c *CommonState) GetLineColor() LineColor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lineColor
}

// SetToolbarBoundingBox reserves a screen-space rectangle for UI
// controls; input inside it is excluded from measurement handling.
func (c *CommonState) SetToolbarBoundingBox(box image.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toolbarBox = box
}

// ToolbarBoundingBox returns the reserved toolbar rectangle.
func (c *CommonState) ToolbarBoundingBox() image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toolbarBox
}

// SetSessionCompletedCallback installs the completion callback for the
// next session.
func (c *CommonState) SetSessionCompletedCallback(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completion = f
}

// RearmSessionCompleted makes the callback eligible to fire again for
// a new session.
func (c *CommonState) RearmSessionCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completionFired = false
}

// FireSessionCompleted invokes the completion callback if one is set
// and it has not fired for the current session. Safe to call from any
// teardown path; at most one call per session reaches the callback.
func (c *CommonState) FireSessionCompleted() {
	c.mu.Lock()
	if c.completionFired || c.completion == nil {
		c.mu.Unlock()
		return
	}
	c.completionFired = true
	f := c.completion
	c.mu.Unlock()
	f()
}

func packPoint(p image.Point) int64 {
	return int64(uint64(uint32(int32(p.X))) | uint64(uint32(int32(p.Y)))<<32)
}

func unpackPoint(v int64) image.Point {
	return image.Point{
		X: int(int32(uint32(uint64(v)))),
		Y: int(int32(uint32(uint64(v) >> 32))),
	}
}
