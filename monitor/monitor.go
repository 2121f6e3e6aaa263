// Package monitor enumerates physical displays and resolves DPI scale
// factors. Descriptors are immutable once enumerated; callers
// re-enumerate at every session reset rather than caching across
// sessions.
package monitor

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Descriptor identifies one physical display for the duration of a
// session.
type Descriptor struct {
	ID      int
	Bounds  image.Rectangle
	Scale   float32
	Primary bool
}

// Width returns the pixel width of the display.
func (d Descriptor) Width() int { return d.Bounds.Dx() }

// Height returns the pixel height of the display.
func (d Descriptor) Height() int { return d.Bounds.Dy() }

// Enumerator lists the active displays. The default implementation
// queries the OS; tests inject fakes.
type Enumerator interface {
	Monitors() ([]Descriptor, error)
}

// NewEnumerator returns the OS-backed enumerator.
func NewEnumerator() Enumerator { return displayEnumerator{} }

type displayEnumerator struct{}

// Monitors enumerates active displays. Enumeration runs twice and
// keeps the second result: a topology change between the two passes
// (monitor just plugged/unplugged) settles by the second pass.
func (displayEnumerator) Monitors() ([]Descriptor, error) {
	enumerate()
	monitors := enumerate()
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	return monitors, nil
}

func enumerate() []Descriptor {
	n := screenshot.NumActiveDisplays()
	monitors := make([]Descriptor, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, Descriptor{
			ID:      i,
			Bounds:  bounds,
			Scale:   scaleForDisplay(i),
			Primary: i == 0,
		})
	}
	return monitors
}

// Primary returns the primary display from a descriptor list, or the
// first one when none is flagged primary.
func Primary(monitors []Descriptor) (Descriptor, error) {
	if len(monitors) == 0 {
		return Descriptor{}, fmt.Errorf("no monitors")
	}
	for _, m := range monitors {
		if m.Primary {
			return m, nil
		}
	}
	return monitors[0], nil
}
