//go:build !windows

package overlay

import "screen-measure/monitor"

// NewWindow returns the platform overlay window. Non-Windows builds
// run headless so the engine and its sessions stay fully exercisable.
func NewWindow(mon monitor.Descriptor) (Window, error) {
	return NewHeadlessWindow(), nil
}
