//go:build !windows

package monitor

// ScaleForWindow returns the DPI scale factor for a window handle.
// Non-Windows builds run headless at 1.0.
func ScaleForWindow(handle uintptr) float32 { return 1.0 }

func scaleForDisplay(index int) float32 { return 1.0 }
