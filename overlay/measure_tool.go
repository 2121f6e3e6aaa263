package overlay

import (
	"image"
	"log"

	"github.com/gogpu/gg"

	"screen-measure/measure"
	"screen-measure/monitor"
	"screen-measure/state"
)

// MeasureTool implements automatic edge measurement on one monitor:
// it consumes the capturer's frames, runs the analyzer under the
// cursor, and draws edges, feet and the distance label.
type MeasureTool struct {
	mon            monitor.Descriptor
	common         *state.CommonState
	mstate         *state.Serialized[state.MeasureToolState]
	requestCapture func()
	scale          float32

	// lastFrame is the renderer-local copy used for analysis; the
	// converted bitmap lives in the shared record.
	lastFrame    *image.RGBA
	wasOnMonitor bool
}

// NewMeasureTool creates the measure-mode tool for one monitor.
// requestCapture wakes a paused capturer and may be nil in continuous
// mode.
func NewMeasureTool(mon monitor.Descriptor, common *state.CommonState, mstate *state.Serialized[state.MeasureToolState], requestCapture func(), scale float32) *MeasureTool {
	if scale <= 0 {
		scale = 1
	}
	return &MeasureTool{
		mon:            mon,
		common:         common,
		mstate:         mstate,
		requestCapture: requestCapture,
		scale:          scale,
	}
}

// HandleEvent commits the current measurement on click (which ends the
// session) and adjusts the pixel tolerance on wheel or arrow keys.
func (t *MeasureTool) HandleEvent(ev Event) bool {
	switch ev.Kind {
	case EventPointerDown:
		t.commit()
		return true
	case EventWheel:
		t.adjustTolerance(ev.WheelSteps)
	case EventKey:
		switch ev.Key {
		case KeyUp:
			t.adjustTolerance(1)
		case KeyDown:
			t.adjustTolerance(-1)
		}
	}
	return false
}

func (t *MeasureTool) commit() {
	t.mstate.Read(func(ms *state.MeasureToolState) {
		ps := ms.Screen(t.mon.ID)
		if !ps.HasEdges {
			return
		}
		edges := edgesFromRect(ps.MeasuredEdges)
		log.Printf("measure: committed %s on monitor %d", measurementText(edges, ms.Global.Mode), t.mon.ID)
	})
}

func (t *MeasureTool) adjustTolerance(delta int) {
	t.mstate.Access(func(ms *state.MeasureToolState) {
		v := int(ms.Global.PixelTolerance) + delta
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		ms.Global.PixelTolerance = uint8(v)
	})
}

// Draw composes the captured background, measured edge lines, feet and
// label. Runs under the GPU lock held by the renderer.
func (t *MeasureTool) Draw(dc *gg.Context, cursor image.Point, cursorOnMonitor bool) {
	if cursorOnMonitor && !t.wasOnMonitor && t.requestCapture != nil {
		t.requestCapture()
	}
	t.wasOnMonitor = cursorOnMonitor

	var (
		global  state.MeasureGlobal
		bitmap  *gg.ImageBuf
		edges   measure.Edges
		hasEdge bool
	)

	t.mstate.Access(func(ms *state.MeasureToolState) {
		global = ms.Global
		ps := ms.Screen(t.mon.ID)
		// Frame handoff: take the newest captured frame and convert it
		// once; the cached bitmap serves until a newer frame arrives.
		if frame := ps.Frames.Take(); frame != nil {
			t.lastFrame = frame
			ps.Bitmap = gg.ImageBufFromImage(frame)
		}
		bitmap = ps.Bitmap

		if cursorOnMonitor && t.lastFrame != nil {
			if e, ok := measure.Analyze(t.lastFrame, cursor, global); ok {
				ps.MeasuredEdges = e.Rect()
				ps.HasEdges = true
				localBounds := image.Rect(0, 0, t.mon.Width(), t.mon.Height())
				ps.CursorInLeftHalf, ps.CursorInTopHalf = measure.HalfFlags(localBounds, cursor)
			}
		}
		if ps.HasEdges {
			edges = edgesFromRect(ps.MeasuredEdges)
			hasEdge = true
		}
	})

	if bitmap != nil {
		dc.DrawImage(bitmap, 0, 0)
	}

	color := t.common.GetLineColor()
	if !cursorOnMonitor {
		return
	}
	if !hasEdge {
		drawCrosshair(dc, color, cursor, t.scale)
		return
	}

	drawMeasureLines(dc, color, edges, cursor, global, t.scale)
	leftHalf, topHalf := measure.HalfFlags(image.Rect(0, 0, t.mon.Width(), t.mon.Height()), cursor)
	drawLabel(dc, measurementText(edges, global.Mode), cursor, leftHalf, topHalf, t.scale)
}

// edgesFromRect restores boundary offsets from the stored interior
// rectangle.
func edgesFromRect(r image.Rectangle) measure.Edges {
	return measure.Edges{
		Left:   r.Min.X - 1,
		Top:    r.Min.Y - 1,
		Right:  r.Max.X,
		Bottom: r.Max.Y,
	}
}
