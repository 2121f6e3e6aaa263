package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

type screenGrabber struct{}

// NewGrabber returns the OS-backed screen grabber.
func NewGrabber() Grabber { return screenGrabber{} }

func (screenGrabber) Grab(bounds image.Rectangle) (*image.RGBA, error) {
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("invalid capture bounds %v", bounds)
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %v: %v", bounds, err)
	}
	return img, nil
}
