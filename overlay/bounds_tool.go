package overlay

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"screen-measure/monitor"
	"screen-measure/state"
)

// BoundsTool implements drag-to-select rectangle measurement on one
// monitor.
type BoundsTool struct {
	mon    monitor.Descriptor
	common *state.CommonState
	bounds *state.Serialized[state.BoundsToolState]
	scale  float32
}

// NewBoundsTool creates the bounds-mode tool for one monitor.
func NewBoundsTool(mon monitor.Descriptor, common *state.CommonState, bounds *state.Serialized[state.BoundsToolState], scale float32) *BoundsTool {
	if scale <= 0 {
		scale = 1
	}
	return &BoundsTool{mon: mon, common: common, bounds: bounds, scale: scale}
}

// HandleEvent tracks drags: press anchors a region, release commits
// it. The tool never ends the session itself.
func (t *BoundsTool) HandleEvent(ev Event) bool {
	switch ev.Kind {
	case EventPointerDown:
		t.bounds.Access(func(b *state.BoundsToolState) {
			start := ev.Pos
			b.Screen(t.mon.ID).CurrentRegionStart = &start
		})
	case EventPointerUp:
		t.bounds.Access(func(b *state.BoundsToolState) {
			ps := b.Screen(t.mon.ID)
			if ps.CurrentRegionStart == nil {
				return
			}
			rect := image.Rectangle{Min: *ps.CurrentRegionStart, Max: ev.Pos}.Canon()
			ps.CurrentRegionStart = nil
			if rect.Empty() {
				return
			}
			ps.Measurements = append(ps.Measurements, rect)
		})
	}
	return false
}

// Draw renders committed rectangles, the in-progress drag, and the
// crosshair.
func (t *BoundsTool) Draw(dc *gg.Context, cursor image.Point, cursorOnMonitor bool) {
	color := t.common.GetLineColor()

	var committed []image.Rectangle
	var dragStart *image.Point
	t.bounds.Read(func(b *state.BoundsToolState) {
		ps := b.Screen(t.mon.ID)
		committed = append(committed[:0], ps.Measurements...)
		if ps.CurrentRegionStart != nil {
			start := *ps.CurrentRegionStart
			dragStart = &start
		}
	})

	for _, rect := range committed {
		t.drawRect(dc, color, rect, cursor)
	}
	if dragStart != nil {
		rect := image.Rectangle{Min: *dragStart, Max: cursor}.Canon()
		t.drawRect(dc, color, rect, cursor)
	}
	if cursorOnMonitor && dragStart == nil {
		drawCrosshair(dc, color, cursor, t.scale)
	}
}

func (t *BoundsTool) drawRect(dc *gg.Context, color state.LineColor, rect image.Rectangle, cursor image.Point) {
	setLineColor(dc, color)
	dc.SetLineWidth(baseLineWidth * float64(t.scale))
	dc.DrawRectangle(float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()))
	dc.Stroke()

	label := fmt.Sprintf("%d × %d", rect.Dx(), rect.Dy())
	localBounds := image.Rect(0, 0, t.mon.Width(), t.mon.Height())
	leftHalf := rect.Min.X < localBounds.Dx()/2
	topHalf := rect.Min.Y < localBounds.Dy()/2
	drawLabel(dc, label, rect.Min, leftHalf, topHalf, t.scale)
}
