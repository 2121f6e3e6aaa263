package measure

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"screen-measure/state"
)

func uniformFrame(w, h int, c color.RGBA) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return frame
}

func crossGlobal(tol uint8) state.MeasureGlobal {
	return state.MeasureGlobal{PixelTolerance: tol, Mode: state.ModeCross}
}

func TestEdgeAtKnownOffset(t *testing.T) {
	// Anchor white, single differing pixel at x=30 on the cursor row.
	frame := uniformFrame(100, 100, color.RGBA{255, 255, 255, 255})
	frame.SetRGBA(30, 50, color.RGBA{0, 0, 0, 255})

	edges, ok := Analyze(frame, image.Point{X: 20, Y: 50}, crossGlobal(30))
	if !ok {
		t.Fatal("expected measurement")
	}
	if edges.Right != 30 {
		t.Errorf("right edge = %d, want 30", edges.Right)
	}
	if edges.Left != -1 {
		t.Errorf("left edge = %d, want -1 (frame bound)", edges.Left)
	}
	if edges.Top != -1 || edges.Bottom != 100 {
		t.Errorf("vertical edges = %d,%d, want frame bounds", edges.Top, edges.Bottom)
	}
}

func TestToleranceBoundary(t *testing.T) {
	// Difference exactly equal to tolerance is still "same"; one above
	// terminates the scan.
	for _, tc := range []struct {
		tol      uint8
		delta    uint8
		wantEdge bool
	}{
		{30, 30, false},
		{30, 31, true},
		{0, 1, true},
		{255, 255, false},
	} {
		frame := uniformFrame(20, 1, color.RGBA{0, 0, 0, 255})
		frame.SetRGBA(10, 0, color.RGBA{tc.delta, 0, 0, 255})

		g := crossGlobal(tc.tol)
		g.Mode = state.ModeHorizontal
		edges, ok := Analyze(frame, image.Point{X: 5, Y: 0}, g)
		if !ok {
			t.Fatalf("tol=%d: expected measurement", tc.tol)
		}
		if tc.wantEdge && edges.Right != 10 {
			t.Errorf("tol=%d delta=%d: right=%d, want 10", tc.tol, tc.delta, edges.Right)
		}
		if !tc.wantEdge && edges.Right != 20 {
			t.Errorf("tol=%d delta=%d: right=%d, want frame bound 20", tc.tol, tc.delta, edges.Right)
		}
	}
}

func TestIntermediatePixelsWithinTolerance(t *testing.T) {
	// Pixels within tolerance along the way must not terminate the scan.
	frame := uniformFrame(50, 1, color.RGBA{100, 100, 100, 255})
	for x := 6; x < 40; x++ {
		frame.SetRGBA(x, 0, color.RGBA{110, 100, 100, 255}) // within tol
	}
	frame.SetRGBA(40, 0, color.RGBA{200, 100, 100, 255}) // beyond tol

	g := crossGlobal(30)
	g.Mode = state.ModeHorizontal
	edges, _ := Analyze(frame, image.Point{X: 5, Y: 0}, g)
	if edges.Right != 40 {
		t.Errorf("right=%d, want 40", edges.Right)
	}
}

func TestPerChannelVersusAggregate(t *testing.T) {
	// A (+20,+20,+20) shift at tolerance 30: aggregate sums to 60 and
	// is an edge; per-channel stays within tolerance on every channel.
	frame := uniformFrame(20, 1, color.RGBA{50, 50, 50, 255})
	frame.SetRGBA(10, 0, color.RGBA{70, 70, 70, 255})

	g := state.MeasureGlobal{PixelTolerance: 30, Mode: state.ModeHorizontal}
	edges, _ := Analyze(frame, image.Point{X: 5, Y: 0}, g)
	if edges.Right != 10 {
		t.Errorf("aggregate: right=%d, want 10", edges.Right)
	}

	g.PerColorChannelEdgeDetection = true
	edges, _ = Analyze(frame, image.Point{X: 5, Y: 0}, g)
	if edges.Right != 20 {
		t.Errorf("per-channel: right=%d, want frame bound 20", edges.Right)
	}
}

func TestModeSelectsAxes(t *testing.T) {
	frame := uniformFrame(40, 40, color.RGBA{255, 255, 255, 255})
	cursor := image.Point{X: 20, Y: 20}

	g := crossGlobal(30)
	g.Mode = state.ModeHorizontal
	edges, _ := Analyze(frame, cursor, g)
	if edges.Top != cursor.Y || edges.Bottom != cursor.Y {
		t.Errorf("horizontal mode scanned vertically: %+v", edges)
	}

	g.Mode = state.ModeVertical
	edges, _ = Analyze(frame, cursor, g)
	if edges.Left != cursor.X || edges.Right != cursor.X {
		t.Errorf("vertical mode scanned horizontally: %+v", edges)
	}
}

func TestCursorOutsideFrame(t *testing.T) {
	frame := uniformFrame(10, 10, color.RGBA{255, 255, 255, 255})
	if _, ok := Analyze(frame, image.Point{X: 50, Y: 5}, crossGlobal(30)); ok {
		t.Fatal("expected no measurement for cursor outside frame")
	}
}

func TestMeasuredRectDimensions(t *testing.T) {
	// A 10x6 white box on black: measuring from inside reports the box.
	frame := uniformFrame(40, 40, color.RGBA{0, 0, 0, 255})
	box := image.Rect(10, 12, 20, 18)
	draw.Draw(frame, box, &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	edges, _ := Analyze(frame, image.Point{X: 14, Y: 15}, crossGlobal(30))
	if edges.WidthPixels() != box.Dx() {
		t.Errorf("width = %d, want %d", edges.WidthPixels(), box.Dx())
	}
	if edges.HeightPixels() != box.Dy() {
		t.Errorf("height = %d, want %d", edges.HeightPixels(), box.Dy())
	}
	if edges.Rect() != box {
		t.Errorf("rect = %v, want %v", edges.Rect(), box)
	}
}

func TestHalfFlags(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	for _, tc := range []struct {
		cursor    image.Point
		left, top bool
	}{
		{image.Point{X: 10, Y: 10}, true, true},
		{image.Point{X: 90, Y: 10}, false, true},
		{image.Point{X: 10, Y: 90}, true, false},
		{image.Point{X: 90, Y: 90}, false, false},
	} {
		left, top := HalfFlags(bounds, tc.cursor)
		if left != tc.left || top != tc.top {
			t.Errorf("cursor %v: got (%v,%v), want (%v,%v)", tc.cursor, left, top, tc.left, tc.top)
		}
	}
}
