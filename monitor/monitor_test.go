package monitor

import (
	"image"
	"testing"
)

func TestPrimarySelection(t *testing.T) {
	monitors := []Descriptor{
		{ID: 0, Bounds: image.Rect(0, 0, 100, 100)},
		{ID: 1, Bounds: image.Rect(100, 0, 200, 100), Primary: true},
	}
	p, err := Primary(monitors)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 1 {
		t.Fatalf("primary ID = %d, want 1", p.ID)
	}

	// No flagged primary: first entry wins.
	monitors[1].Primary = false
	p, err = Primary(monitors)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 0 {
		t.Fatalf("fallback primary ID = %d, want 0", p.ID)
	}

	if _, err := Primary(nil); err == nil {
		t.Fatal("expected error for empty monitor list")
	}
}

func TestDescriptorDimensions(t *testing.T) {
	d := Descriptor{Bounds: image.Rect(-1920, 0, 0, 1080)}
	if d.Width() != 1920 || d.Height() != 1080 {
		t.Fatalf("dimensions = %dx%d", d.Width(), d.Height())
	}
}
