package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"screen-measure/monitor"
	"screen-measure/state"
)

func newTestContext(w, h int) *gg.Context { return gg.NewContext(w, h) }

func testMonitor() monitor.Descriptor {
	return monitor.Descriptor{ID: 0, Bounds: image.Rect(0, 0, 80, 80), Scale: 1, Primary: true}
}

func newCommon() *state.CommonState {
	var cs state.CommonState
	cs.SetLineColor(state.LineColor{R: 1, G: 0.27, B: 0})
	return &cs
}

func waitPresented(t *testing.T, win *HeadlessWindow) *image.RGBA {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if f := win.LastFrame(); f != nil {
			return f
		}
		select {
		case <-deadline:
			t.Fatal("renderer never presented a frame")
		case <-time.After(time.Millisecond):
		}
	}
}

func hasInk(frame *image.RGBA) bool {
	for i := 3; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != 0 {
			return true
		}
	}
	return false
}

func TestRendererPresentsCrosshairFrame(t *testing.T) {
	mon := testMonitor()
	common := newCommon()
	common.SetCursorPos(image.Point{X: 40, Y: 40})
	win := NewHeadlessWindow()
	var bounds state.Serialized[state.BoundsToolState]
	tool := NewBoundsTool(mon, common, &bounds, 1)

	r := NewRenderer(mon, win, common, &state.GPULock{}, tool, 1, nil)
	r.Start()
	defer func() { r.CloseWindow(); r.Join() }()

	frame := waitPresented(t, win)
	if frame.Bounds().Dx() != 80 || frame.Bounds().Dy() != 80 {
		t.Fatalf("frame bounds %v", frame.Bounds())
	}
	if !hasInk(frame) {
		t.Fatal("expected crosshair ink in presented frame")
	}
}

func TestRendererOnCloseFiresOnceOnAnyPath(t *testing.T) {
	mon := testMonitor()
	common := newCommon()
	win := NewHeadlessWindow()
	var bounds state.Serialized[state.BoundsToolState]
	tool := NewBoundsTool(mon, common, &bounds, 1)

	var closes atomic.Int32
	r := NewRenderer(mon, win, common, &state.GPULock{}, tool, 1, func() { closes.Add(1) })
	r.Start()

	// Escape closes the window; the close callback must still fire
	// exactly once even when CloseWindow races with it.
	win.Inject(Event{Kind: EventKey, Key: KeyEscape})
	r.CloseWindow()
	r.Join()
	if n := closes.Load(); n != 1 {
		t.Fatalf("onClose fired %d times, want 1", n)
	}
}

func TestBoundsToolDragCommitsRectangle(t *testing.T) {
	mon := testMonitor()
	var bounds state.Serialized[state.BoundsToolState]
	tool := NewBoundsTool(mon, newCommon(), &bounds, 1)

	tool.HandleEvent(Event{Kind: EventPointerDown, Pos: image.Point{X: 50, Y: 60}})
	tool.HandleEvent(Event{Kind: EventPointerUp, Pos: image.Point{X: 10, Y: 20}})

	bounds.Read(func(b *state.BoundsToolState) {
		ps := b.Screen(mon.ID)
		if len(ps.Measurements) != 1 {
			t.Fatalf("measurements = %d, want 1", len(ps.Measurements))
		}
		// Inverted drags are normalized.
		if ps.Measurements[0] != image.Rect(10, 20, 50, 60) {
			t.Errorf("rect = %v", ps.Measurements[0])
		}
		if ps.CurrentRegionStart != nil {
			t.Error("drag anchor not cleared after commit")
		}
	})
}

func TestBoundsToolIgnoresEmptyDrag(t *testing.T) {
	mon := testMonitor()
	var bounds state.Serialized[state.BoundsToolState]
	tool := NewBoundsTool(mon, newCommon(), &bounds, 1)

	tool.HandleEvent(Event{Kind: EventPointerDown, Pos: image.Point{X: 5, Y: 5}})
	tool.HandleEvent(Event{Kind: EventPointerUp, Pos: image.Point{X: 5, Y: 5}})

	bounds.Read(func(b *state.BoundsToolState) {
		if n := len(b.Screen(mon.ID).Measurements); n != 0 {
			t.Fatalf("measurements = %d, want 0", n)
		}
	})
}

func TestMeasureToolToleranceAdjustment(t *testing.T) {
	mon := testMonitor()
	var ms state.Serialized[state.MeasureToolState]
	ms.Access(func(s *state.MeasureToolState) { s.Global.PixelTolerance = 30 })
	tool := NewMeasureTool(mon, newCommon(), &ms, nil, 1)

	tool.HandleEvent(Event{Kind: EventWheel, WheelSteps: 3})
	tool.HandleEvent(Event{Kind: EventKey, Key: KeyDown})
	ms.Read(func(s *state.MeasureToolState) {
		if s.Global.PixelTolerance != 32 {
			t.Fatalf("tolerance = %d, want 32", s.Global.PixelTolerance)
		}
	})

	// Clamped at both ends.
	tool.HandleEvent(Event{Kind: EventWheel, WheelSteps: -1000})
	ms.Read(func(s *state.MeasureToolState) {
		if s.Global.PixelTolerance != 0 {
			t.Fatalf("tolerance = %d, want 0", s.Global.PixelTolerance)
		}
	})
	tool.HandleEvent(Event{Kind: EventWheel, WheelSteps: 1000})
	ms.Read(func(s *state.MeasureToolState) {
		if s.Global.PixelTolerance != 255 {
			t.Fatalf("tolerance = %d, want 255", s.Global.PixelTolerance)
		}
	})
}

func TestMeasureToolClickRequestsClose(t *testing.T) {
	mon := testMonitor()
	var ms state.Serialized[state.MeasureToolState]
	tool := NewMeasureTool(mon, newCommon(), &ms, nil, 1)
	if !tool.HandleEvent(Event{Kind: EventPointerDown, Pos: image.Point{X: 1, Y: 1}}) {
		t.Fatal("click should request session end")
	}
}

func TestMeasureToolAnalyzesPublishedFrame(t *testing.T) {
	mon := testMonitor()
	common := newCommon()
	var ms state.Serialized[state.MeasureToolState]
	ms.Access(func(s *state.MeasureToolState) {
		s.Global = state.MeasureGlobal{PixelTolerance: 30, Mode: state.ModeCross, ContinuousCapture: true}
	})

	// White box on black, cursor inside the box.
	frame := image.NewRGBA(image.Rect(0, 0, 80, 80))
	box := image.Rect(20, 20, 50, 40)
	draw.Draw(frame, box, &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	ms.Access(func(s *state.MeasureToolState) { s.Screen(mon.ID).Frames.Publish(frame) })

	tool := NewMeasureTool(mon, common, &ms, nil, 1)
	dc := newTestContext(80, 80)
	defer dc.Close()
	tool.Draw(dc, image.Point{X: 30, Y: 30}, true)

	ms.Read(func(s *state.MeasureToolState) {
		ps := s.Screen(mon.ID)
		if !ps.HasEdges {
			t.Fatal("expected measured edges")
		}
		if ps.MeasuredEdges != box {
			t.Errorf("edges = %v, want %v", ps.MeasuredEdges, box)
		}
		if !ps.CursorInLeftHalf || !ps.CursorInTopHalf {
			t.Errorf("half flags = (%v,%v), want (true,true)", ps.CursorInLeftHalf, ps.CursorInTopHalf)
		}
		if ps.Bitmap == nil {
			t.Error("captured frame was not converted to a bitmap")
		}
	})
}

func TestMeasureToolRequestsCaptureOnMonitorEnter(t *testing.T) {
	mon := testMonitor()
	var ms state.Serialized[state.MeasureToolState]
	var requests atomic.Int32
	tool := NewMeasureTool(mon, newCommon(), &ms, func() { requests.Add(1) }, 1)

	dc := newTestContext(80, 80)
	defer dc.Close()
	tool.Draw(dc, image.Point{X: -5, Y: -5}, false) // off-monitor
	tool.Draw(dc, image.Point{X: 10, Y: 10}, true)  // enters
	tool.Draw(dc, image.Point{X: 11, Y: 10}, true)  // stays

	if n := requests.Load(); n != 1 {
		t.Fatalf("capture requests = %d, want 1 (on enter only)", n)
	}
}
