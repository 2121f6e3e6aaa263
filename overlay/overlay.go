// Package overlay owns the per-monitor measurement windows: one
// always-on-top surface per monitor, a redraw loop composing the
// captured background, crosshair, measured edges and labels, and the
// monitor-local input handling for both tools.
package overlay

import (
	"image"
	"log"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"screen-measure/monitor"
	"screen-measure/state"
)

// EventKind discriminates window input events.
type EventKind int

const (
	EventPointerMove EventKind = iota
	EventPointerDown
	EventPointerUp
	EventKey
	EventWheel
)

// Key identifies the keys the tools react to.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyUp
	KeyDown
)

// Event is one monitor-local input event. Pos is in monitor-local
// pixels.
type Event struct {
	Kind       EventKind
	Pos        image.Point
	Key        Key
	WheelSteps int // positive away from the user
}

// Window is the platform surface for one monitor's overlay.
type Window interface {
	// Handle returns the native window handle (0 when headless).
	Handle() uintptr
	// Present displays a composed frame.
	Present(img *image.RGBA)
	// Events delivers monitor-local input.
	Events() <-chan Event
	// Closed is closed once the window is gone, whatever the path.
	Closed() <-chan struct{}
	// Close tears the window down programmatically. Idempotent.
	Close()
}

// WindowFactory creates the overlay window for a monitor. The session
// controller injects it; tests substitute fakes.
type WindowFactory func(mon monitor.Descriptor) (Window, error)

// Tool draws one mode's content and consumes its input. HandleEvent
// reports whether the tool wants the session to end.
type Tool interface {
	HandleEvent(ev Event) (closeRequested bool)
	Draw(dc *gg.Context, cursor image.Point, cursorOnMonitor bool)
}

// Renderer drives one monitor's overlay: it reads the shared state on
// its own redraw cadence, invokes the tool's draw routine, and
// presents the result. All drawing runs under the GPU lock.
type Renderer struct {
	mon    monitor.Descriptor
	win    Window
	common *state.CommonState
	gpu    *state.GPULock
	tool   Tool
	scale  float32

	onClose func()
	done    chan struct{}
	once    sync.Once
}

// NewRenderer wires a renderer for one monitor. The scale is the DPI
// factor queried once per window; onClose runs exactly once after the
// window is gone and the loop exited, on every exit path.
func NewRenderer(mon monitor.Descriptor, win Window, common *state.CommonState, gpu *state.GPULock, tool Tool, scale float32, onClose func()) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{
		mon:     mon,
		win:     win,
		common:  common,
		gpu:     gpu,
		tool:    tool,
		scale:   scale,
		onClose: onClose,
		done:    make(chan struct{}),
	}
}

// Scale returns the DPI scale factor applied to drawn geometry.
func (r *Renderer) Scale() float32 { return r.scale }

// Start launches the redraw loop.
func (r *Renderer) Start() {
	go r.run()
}

func (r *Renderer) run() {
	defer close(r.done)
	defer r.fireClose()

	dc := gg.NewContext(r.mon.Width(), r.mon.Height())
	defer dc.Close()
	loadLabelFont(dc, r.scale)

	ticker := time.NewTicker(state.TargetFrameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-r.win.Closed():
			return
		case ev := <-r.win.Events():
			if r.handleEvent(ev) {
				r.win.Close()
			}
		case <-ticker.C:
			r.redraw(dc)
		}
	}
}

func (r *Renderer) handleEvent(ev Event) (closeRequested bool) {
	if ev.Kind == EventKey && ev.Key == KeyEscape {
		return true
	}
	// Input on the reserved toolbar area belongs to the host UI.
	if ev.Kind == EventPointerDown || ev.Kind == EventPointerUp {
		global := ev.Pos.Add(r.mon.Bounds.Min)
		if global.In(r.common.ToolbarBoundingBox()) {
			return false
		}
	}
	return r.tool.HandleEvent(ev)
}

// redraw composes one frame. The GPU lock serializes this with every
// capturer and with the other renderers.
func (r *Renderer) redraw(dc *gg.Context) {
	cursor := r.common.CursorPos()
	local := cursor.Sub(r.mon.Bounds.Min)
	onMonitor := cursor.In(r.mon.Bounds)

	r.gpu.Lock()
	defer r.gpu.Unlock()

	select {
	case <-r.win.Closed():
		// Do not touch a surface that is tearing down.
		return
	default:
	}

	dc.Clear()
	r.tool.Draw(dc, local, onMonitor)

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		log.Printf("overlay: monitor %d produced non-RGBA pixmap", r.mon.ID)
		return
	}
	r.win.Present(img)
}

// CloseWindow closes this renderer's window, which ends the loop.
func (r *Renderer) CloseWindow() { r.win.Close() }

// Join blocks until the redraw loop has exited.
func (r *Renderer) Join() { <-r.done }

func (r *Renderer) fireClose() {
	r.once.Do(func() {
		if r.onClose != nil {
			r.onClose()
		}
	})
}
