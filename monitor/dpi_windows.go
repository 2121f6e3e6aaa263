//go:build windows

package monitor

import (
	"unsafe"

	"github.com/kbinani/screenshot"
	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const defaultDPI = 96

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetDpiForWindow  = user32.NewProc("GetDpiForWindow")
	procMonitorFromPoint = user32.NewProc("MonitorFromPoint")

	shcore               = windows.NewLazySystemDLL("shcore.dll")
	procGetDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
)

// ScaleForWindow returns the DPI scale factor for a window handle,
// 1.0 on any failure. Queried once per overlay window.
func ScaleForWindow(handle uintptr) float32 {
	if procGetDpiForWindow.Find() == nil {
		if dpi, _, _ := procGetDpiForWindow.Call(handle); dpi != 0 {
			return float32(dpi) / defaultDPI
		}
	}
	hmon := win.MonitorFromWindow(win.HWND(handle), win.MONITOR_DEFAULTTONEAREST)
	if hmon == 0 {
		return 1.0
	}
	return scaleForMonitorHandle(uintptr(hmon))
}

func scaleForMonitorHandle(hmon uintptr) float32 {
	if procGetDpiForMonitor.Find() != nil {
		return 1.0
	}
	var dpiX, dpiY uint32
	// MDT_EFFECTIVE_DPI = 0
	ret, _, _ := procGetDpiForMonitor.Call(hmon, 0,
		uintptr(unsafe.Pointer(&dpiX)), uintptr(unsafe.Pointer(&dpiY)))
	if ret != 0 || dpiX == 0 {
		return 1.0
	}
	return float32(dpiX) / defaultDPI
}

func scaleForDisplay(index int) float32 {
	bounds := screenshot.GetDisplayBounds(index)
	cx := bounds.Min.X + bounds.Dx()/2
	cy := bounds.Min.Y + bounds.Dy()/2
	// POINT is passed by value; on amd64 it packs into one register arg.
	pt := uintptr(uint32(int32(cx))) | uintptr(uint32(int32(cy)))<<32
	hmon, _, _ := procMonitorFromPoint.Call(pt, win.MONITOR_DEFAULTTONEAREST)
	if hmon == 0 {
		return 1.0
	}
	return scaleForMonitorHandle(hmon)
}
