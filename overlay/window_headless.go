package overlay

import (
	"image"
	"sync"
)

// HeadlessWindow is a surface with no OS window behind it. It backs
// non-Windows builds and tests: input is injected, presented frames
// are inspectable.
type HeadlessWindow struct {
	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	frame *image.RGBA
}

// NewHeadlessWindow creates a headless overlay surface.
func NewHeadlessWindow() *HeadlessWindow {
	return &HeadlessWindow{
		events: make(chan Event, 16),
		closed: make(chan struct{}),
	}
}

func (w *HeadlessWindow) Handle() uintptr { return 0 }

func (w *HeadlessWindow) Present(img *image.RGBA) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame = img
}

// LastFrame returns the most recently presented frame, or nil.
func (w *HeadlessWindow) LastFrame() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame
}

func (w *HeadlessWindow) Events() <-chan Event { return w.events }

// Inject queues an input event, dropping it if the window is closed.
func (w *HeadlessWindow) Inject(ev Event) {
	select {
	case w.events <- ev:
	case <-w.closed:
	}
}

func (w *HeadlessWindow) Closed() <-chan struct{} { return w.closed }

func (w *HeadlessWindow) Close() {
	w.closeOnce.Do(func() { close(w.closed) })
}
