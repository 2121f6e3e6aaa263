package overlay

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gogpu/gg"

	"screen-measure/measure"
	"screen-measure/state"
)

// Base geometry in device-independent pixels; multiplied by the
// window's DPI scale before drawing.
const (
	baseLineWidth   = 1.0
	baseCrossRadius = 14.0
	baseFeetLength  = 6.0
	baseLabelPad    = 4.0
	baseLabelOffset = 18.0
	baseFontPoints  = 13.0
)

func setLineColor(dc *gg.Context, c state.LineColor) {
	dc.SetRGB(float64(c.R), float64(c.G), float64(c.B))
}

// loadLabelFont tries the usual system font locations. Labels are
// skipped silently when no face loads; everything else still draws.
func loadLabelFont(dc *gg.Context, scale float32) {
	points := baseFontPoints * float64(scale)
	for _, path := range fontCandidates() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := dc.LoadFontFace(path, points); err == nil {
			return
		}
	}
	log.Printf("overlay: no label font found, measurement labels disabled")
}

func fontCandidates() []string {
	if runtime.GOOS == "windows" {
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return []string{
			filepath.Join(windir, "Fonts", "segoeui.ttf"),
			filepath.Join(windir, "Fonts", "arial.ttf"),
		}
	}
	return []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
	}
}

func drawCrosshair(dc *gg.Context, c state.LineColor, p image.Point, scale float32) {
	r := baseCrossRadius * float64(scale)
	x, y := float64(p.X), float64(p.Y)
	setLineColor(dc, c)
	dc.SetLineWidth(baseLineWidth * float64(scale))
	dc.DrawLine(x-r, y, x+r, y)
	dc.DrawLine(x, y-r, x, y+r)
	dc.Stroke()
}

// drawMeasureLines draws the measured edge lines through the cursor
// for the current mode, with optional feet at the line ends.
func drawMeasureLines(dc *gg.Context, c state.LineColor, edges measure.Edges, cursor image.Point, g state.MeasureGlobal, scale float32) {
	setLineColor(dc, c)
	dc.SetLineWidth(baseLineWidth * float64(scale))
	feet := g.Mode == state.ModeCross && g.DrawFeetOnCross
	feetLen := baseFeetLength * float64(scale)

	if g.Mode == state.ModeHorizontal || g.Mode == state.ModeCross {
		x0, x1 := float64(edges.Left+1), float64(edges.Right-1)
		y := float64(cursor.Y)
		dc.DrawLine(x0, y, x1, y)
		if feet {
			dc.DrawLine(x0, y-feetLen, x0, y+feetLen)
			dc.DrawLine(x1, y-feetLen, x1, y+feetLen)
		}
	}
	if g.Mode == state.ModeVertical || g.Mode == state.ModeCross {
		y0, y1 := float64(edges.Top+1), float64(edges.Bottom-1)
		x := float64(cursor.X)
		dc.DrawLine(x, y0, x, y1)
		if feet {
			dc.DrawLine(x-feetLen, y0, x+feetLen, y0)
			dc.DrawLine(x-feetLen, y1, x+feetLen, y1)
		}
	}
	dc.Stroke()
}

// measurementText formats the distance label for the current mode.
func measurementText(edges measure.Edges, mode state.Mode) string {
	switch mode {
	case state.ModeHorizontal:
		return fmt.Sprintf("%d", edges.WidthPixels())
	case state.ModeVertical:
		return fmt.Sprintf("%d", edges.HeightPixels())
	default:
		return fmt.Sprintf("%d × %d", edges.WidthPixels(), edges.HeightPixels())
	}
}

// drawLabel places text near the anchor on the side selected by the
// half-screen flags, so it never clips at the monitor edge.
func drawLabel(dc *gg.Context, text string, anchor image.Point, leftHalf, topHalf bool, scale float32) {
	if dc.Font() == nil || text == "" {
		return
	}
	w, h := dc.MeasureString(text)
	pad := baseLabelPad * float64(scale)
	offset := baseLabelOffset * float64(scale)

	x := float64(anchor.X) + offset
	if !leftHalf {
		x = float64(anchor.X) - offset - w - 2*pad
	}
	y := float64(anchor.Y) + offset
	if !topHalf {
		y = float64(anchor.Y) - offset - h - 2*pad
	}

	dc.SetRGBA(0, 0, 0, 0.7)
	dc.DrawRectangle(x, y, w+2*pad, h+2*pad)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(text, x+pad, y+pad+h*0.8)
}
