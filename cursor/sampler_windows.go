//go:build windows

package cursor

import (
	"image"

	"github.com/lxn/win"
)

func systemCursorPos() image.Point {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return image.Point{}
	}
	return image.Point{X: int(pt.X), Y: int(pt.Y)}
}
