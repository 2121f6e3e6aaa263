// Package session orchestrates tool sessions: it owns the shared
// state records and the GPU lock, spawns and joins the per-monitor
// capture and overlay threads, and applies configuration snapshots at
// every reset.
package session

import (
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"

	"screen-measure/capture"
	"screen-measure/config"
	"screen-measure/cursor"
	"screen-measure/monitor"
	"screen-measure/overlay"
	"screen-measure/state"
	"screen-measure/trace"
)

// Phase is the controller state: Idle, or one tool active. Starting a
// tool while another is active resets first; no two sessions overlap.
type Phase int

const (
	Idle Phase = iota
	BoundsActive
	MeasureActive
)

// Options injects the core's collaborators. Zero-value fields use the
// OS-backed defaults.
type Options struct {
	Enumerator    monitor.Enumerator
	Grabber       capture.Grabber
	WindowFactory overlay.WindowFactory
	LoadSettings  func() config.Settings
	CursorSampler cursor.Sampler
}

// Core is the measurement engine's session controller. Construct with
// New, drive with the Start/Reset operations, release with Close.
type Core struct {
	mu    sync.Mutex
	phase Phase

	common   state.CommonState
	bounds   state.Serialized[state.BoundsToolState]
	mstate   state.Serialized[state.MeasureToolState]
	gpu      state.GPULock
	settings config.Settings

	enumerator    monitor.Enumerator
	grabber       capture.Grabber
	windowFactory overlay.WindowFactory
	loadSettings  func() config.Settings

	tracker   *cursor.Tracker
	renderers []*overlay.Renderer
	capturers []*capture.Capturer
}

// New constructs the core and starts the single cursor tracker. The
// tracker runs until Close; it is not restarted per tool session.
func New(opts Options) *Core {
	c := &Core{
		enumerator:    opts.Enumerator,
		grabber:       opts.Grabber,
		windowFactory: opts.WindowFactory,
		loadSettings:  opts.LoadSettings,
	}
	if c.enumerator == nil {
		c.enumerator = monitor.NewEnumerator()
	}
	if c.grabber == nil {
		c.grabber = capture.NewGrabber()
	}
	if c.windowFactory == nil {
		c.windowFactory = overlay.NewWindow
	}
	if c.loadSettings == nil {
		c.loadSettings = config.Load
	}
	c.settings = c.loadSettings()

	c.tracker = cursor.New(&c.common, opts.CursorSampler)
	c.tracker.Start()
	return c
}

// Phase returns the current controller state.
func (c *Core) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// SetToolCompletionEvent installs the session-completion callback. It
// fires at most once per session, after every overlay window of that
// session has closed, on a dedicated goroutine so the handler may call
// back into the core.
func (c *Core) SetToolCompletionEvent(f func()) {
	c.common.SetSessionCompletedCallback(f)
}

// SetToolbarBoundingBox reserves a screen-space rectangle for the host
// toolbar; overlay input inside it is ignored.
func (c *Core) SetToolbarBoundingBox(fromX, fromY, toX, toY int) {
	c.common.SetToolbarBoundingBox(image.Rect(fromX, fromY, toX, toY))
}

// DPIScaleForWindow returns the DPI scale factor for a native window
// handle.
func (c *Core) DPIScaleForWindow(handle uintptr) float32 {
	return monitor.ScaleForWindow(handle)
}

// MeasureMode reports the active measure-tool mode; meaningful while a
// measure session is active.
func (c *Core) MeasureMode() state.Mode {
	var mode state.Mode
	c.mstate.Read(func(ms *state.MeasureToolState) { mode = ms.Global.Mode })
	return mode
}

// StartBoundsTool begins a drag-to-select session with one overlay per
// monitor.
func (c *Core) StartBoundsTool() error {
	c.ResetState()
	c.mu.Lock()
	defer c.mu.Unlock()

	monitors, err := c.sessionMonitors()
	if err != nil {
		return err
	}

	run := c.beginRun()
	for _, mon := range monitors {
		win, scale, err := c.createWindow(mon)
		if err != nil {
			if c.settings.PrimaryOnly {
				c.resetLocked()
				return fmt.Errorf("overlay init failed on primary monitor: %v", err)
			}
			log.Printf("session: skipping monitor %d: %v", mon.ID, err)
			continue
		}
		tool := overlay.NewBoundsTool(mon, &c.common, &c.bounds, scale)
		run.add(win)
		c.renderers = append(c.renderers, overlay.NewRenderer(mon, win, &c.common, &c.gpu, tool, scale, run.rendererClosed))
	}
	if err := c.startRenderersLocked(run); err != nil {
		return err
	}
	c.phase = BoundsActive
	trace.BoundsToolActivated()
	return nil
}

// StartMeasureTool begins an edge-measurement session. The two flags
// map to the scan mode: both true selects Cross, horizontal alone
// selects Horizontal, anything else Vertical.
func (c *Core) StartMeasureTool(horizontal, vertical bool) error {
	c.ResetState()
	c.mu.Lock()
	defer c.mu.Unlock()

	monitors, err := c.sessionMonitors()
	if err != nil {
		return err
	}

	mode := state.ModeVertical
	if horizontal {
		mode = state.ModeHorizontal
		if vertical {
			mode = state.ModeCross
		}
	}
	c.mstate.Access(func(ms *state.MeasureToolState) {
		ms.Global = state.MeasureGlobal{
			PixelTolerance:               c.settings.PixelTolerance,
			ContinuousCapture:            c.settings.ContinuousCapture,
			DrawFeetOnCross:              c.settings.DrawFeetOnCross,
			PerColorChannelEdgeDetection: c.settings.PerColorChannelEdgeDetection,
			Mode:                         mode,
		}
	})

	run := c.beginRun()
	for _, mon := range monitors {
		win, scale, err := c.createWindow(mon)
		if err != nil {
			if c.settings.PrimaryOnly {
				c.resetLocked()
				return fmt.Errorf("overlay init failed on primary monitor: %v", err)
			}
			log.Printf("session: skipping monitor %d: %v", mon.ID, err)
			continue
		}

		var cell *state.FrameCell
		c.mstate.Access(func(ms *state.MeasureToolState) {
			cell = ms.Screen(mon.ID).Frames
		})
		capt := capture.Start(mon, c.grabber, cell, &c.gpu, c.settings.ContinuousCapture)
		c.capturers = append(c.capturers, capt)

		tool := overlay.NewMeasureTool(mon, &c.common, &c.mstate, capt.RequestCapture, scale)
		run.add(win)
		c.renderers = append(c.renderers, overlay.NewRenderer(mon, win, &c.common, &c.gpu, tool, scale, run.rendererClosed))
	}
	if err := c.startRenderersLocked(run); err != nil {
		return err
	}
	c.phase = MeasureActive
	trace.MeasureToolActivated()
	return nil
}

// ResetState tears the active session down and returns to Idle:
// overlays close, capturer threads join, per-monitor records clear,
// settings reload, common state re-arms. Idempotent.
func (c *Core) ResetState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Close releases the core: the cursor tracker's stop signal is set
// exactly once, the tracker joins, and any active session resets.
func (c *Core) Close() {
	c.tracker.Stop()
	c.tracker.Join()
	c.ResetState()
}

func (c *Core) resetLocked() {
	// One overlay closing cascades to the rest during teardown.
	c.common.SetCloseOnOtherMonitors(true)
	for _, r := range c.renderers {
		r.CloseWindow()
	}
	for _, r := range c.renderers {
		r.Join()
	}
	c.renderers = nil

	for _, capt := range c.capturers {
		capt.Stop()
	}
	for _, capt := range c.capturers {
		capt.Join()
	}
	c.capturers = nil

	c.bounds.Reset()
	c.mstate.Reset()

	c.settings = c.loadSettings()
	c.common.SetLineColor(state.LineColor{
		R: float32(c.settings.LineColor[0]) / 255,
		G: float32(c.settings.LineColor[1]) / 255,
		B: float32(c.settings.LineColor[2]) / 255,
	})
	c.common.SetCloseOnOtherMonitors(false)
	c.phase = Idle
}

func (c *Core) sessionMonitors() ([]monitor.Descriptor, error) {
	monitors, err := c.enumerator.Monitors()
	if err != nil {
		return nil, fmt.Errorf("monitor enumeration failed: %v", err)
	}
	if c.settings.PrimaryOnly {
		primary, err := monitor.Primary(monitors)
		if err != nil {
			return nil, err
		}
		monitors = []monitor.Descriptor{primary}
	}
	return monitors, nil
}

func (c *Core) beginRun() *sessionRun {
	c.common.RearmSessionCompleted()
	c.common.SetCloseOnOtherMonitors(true)
	return &sessionRun{common: &c.common}
}

func (c *Core) createWindow(mon monitor.Descriptor) (overlay.Window, float32, error) {
	win, err := c.windowFactory(mon)
	if err != nil {
		return nil, 0, err
	}
	scale := mon.Scale
	if win.Handle() != 0 {
		// The DPI helper is authoritative once a real window exists.
		scale = monitor.ScaleForWindow(win.Handle())
	}
	return win, scale, nil
}

func (c *Core) startRenderersLocked(run *sessionRun) error {
	if len(c.renderers) == 0 {
		c.resetLocked()
		return fmt.Errorf("no overlay could be created on any monitor")
	}
	run.remaining.Store(int32(len(c.renderers)))
	for _, r := range c.renderers {
		r.Start()
	}
	return nil
}

// sessionRun tracks one session's overlay windows so that any single
// close can cascade to the rest and the completion callback fires
// after the last one is gone.
type sessionRun struct {
	common    *state.CommonState
	mu        sync.Mutex
	windows   []overlay.Window
	remaining atomic.Int32
}

func (s *sessionRun) add(w overlay.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, w)
}

// rendererClosed runs on each renderer's exit path, whatever caused
// it. The completion callback fires on its own goroutine so handlers
// may call ResetState without deadlocking against the join.
func (s *sessionRun) rendererClosed() {
	if s.common.CloseOnOtherMonitors() {
		s.mu.Lock()
		windows := append([]overlay.Window(nil), s.windows...)
		s.mu.Unlock()
		for _, w := range windows {
			w.Close()
		}
	}
	if s.remaining.Add(-1) == 0 {
		go s.common.FireSessionCompleted()
	}
}
