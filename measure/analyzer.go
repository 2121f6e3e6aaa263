// Package measure computes measured edges from a captured frame and a
// cursor position. Starting at the cursor pixel it scans outward along
// the axes required by the current mode, comparing each pixel against
// the anchor pixel color; the first pixel whose difference exceeds the
// configured tolerance terminates the scan and becomes that edge's
// boundary.
package measure

import (
	"image"

	"screen-measure/state"
)

// Edges holds the boundary offsets in monitor-local coordinates. Each
// field is the coordinate of the first differing pixel in that
// direction (or one past the frame edge when the scan ran off-frame).
type Edges struct {
	Left, Top, Right, Bottom int
}

// WidthPixels is the horizontal extent of the similar run between the
// left and right boundaries.
func (e Edges) WidthPixels() int { return e.Right - e.Left - 1 }

// HeightPixels is the vertical extent of the similar run between the
// top and bottom boundaries.
func (e Edges) HeightPixels() int { return e.Bottom - e.Top - 1 }

// Rect returns the interior (similar-color) region as a half-open
// rectangle.
func (e Edges) Rect() image.Rectangle {
	return image.Rect(e.Left+1, e.Top+1, e.Right, e.Bottom)
}

// Analyze scans outward from cursor (monitor-local) over frame. The
// mode selects the axes: all four directions for Cross, two for
// Horizontal or Vertical; the unused axis collapses onto the cursor
// line. Returns ok=false when the cursor lies outside the frame.
func Analyze(frame *image.RGBA, cursor image.Point, g state.MeasureGlobal) (Edges, bool) {
	bounds := frame.Bounds()
	if !cursor.In(bounds) {
		return Edges{}, false
	}

	e := Edges{Left: cursor.X, Right: cursor.X, Top: cursor.Y, Bottom: cursor.Y}
	tol := int(g.PixelTolerance)
	perChannel := g.PerColorChannelEdgeDetection

	if g.Mode == state.ModeHorizontal || g.Mode == state.ModeCross {
		e.Left = scan(frame, cursor, image.Point{X: -1}, tol, perChannel).X
		e.Right = scan(frame, cursor, image.Point{X: 1}, tol, perChannel).X
	}
	if g.Mode == state.ModeVertical || g.Mode == state.ModeCross {
		e.Top = scan(frame, cursor, image.Point{Y: -1}, tol, perChannel).Y
		e.Bottom = scan(frame, cursor, image.Point{Y: 1}, tol, perChannel).Y
	}
	return e, true
}

// HalfFlags reports which half of the monitor the cursor occupies, so
// labels and feet render on the side that will not clip at the monitor
// edge.
func HalfFlags(monBounds image.Rectangle, cursor image.Point) (left, top bool) {
	left = cursor.X < monBounds.Min.X+monBounds.Dx()/2
	top = cursor.Y < monBounds.Min.Y+monBounds.Dy()/2
	return left, top
}

// scan walks from the anchor along dir until the first pixel differing
// from the anchor color beyond tol, returning that pixel's position.
// Running off the frame returns the first out-of-frame coordinate.
func scan(frame *image.RGBA, anchor image.Point, dir image.Point, tol int, perChannel bool) image.Point {
	bounds := frame.Bounds()
	ar, ag, ab := pixelAt(frame, anchor.X, anchor.Y)
	p := anchor
	for {
		p = p.Add(dir)
		if !p.In(bounds) {
			return p
		}
		r, g, b := pixelAt(frame, p.X, p.Y)
		if pixelsDiffer(ar, ag, ab, r, g, b, tol, perChannel) {
			return p
		}
	}
}

func pixelAt(frame *image.RGBA, x, y int) (r, g, b int) {
	i := frame.PixOffset(x, y)
	return int(frame.Pix[i]), int(frame.Pix[i+1]), int(frame.Pix[i+2])
}

// pixelsDiffer applies the tolerance test. Per-channel mode flags a
// difference when any single channel deviates beyond tol; aggregate
// mode compares the summed absolute channel deviation against tol.
func pixelsDiffer(ar, ag, ab, r, g, b, tol int, perChannel bool) bool {
	dr, dg, db := abs(ar-r), abs(ag-g), abs(ab-b)
	if perChannel {
		return dr > tol || dg > tol || db > tol
	}
	return dr+dg+db > tol
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
