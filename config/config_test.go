package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measure.env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	s := LoadFrom(filepath.Join(t.TempDir(), "nope.env"))
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}
}

func TestLoadFromReadsAllFields(t *testing.T) {
	path := writeSettings(t, `
LINE_COLOR_R=10
LINE_COLOR_G=20
LINE_COLOR_B=30
CONTINUOUS_CAPTURE=false
DRAW_FEET_ON_CROSS=false
PIXEL_TOLERANCE=55
PER_COLOR_CHANNEL_EDGE_DETECTION=true
PRIMARY_MONITOR_ONLY=true
`)
	s := LoadFrom(path)
	if s.LineColor != [3]uint8{10, 20, 30} {
		t.Errorf("line color = %v", s.LineColor)
	}
	if s.ContinuousCapture || s.DrawFeetOnCross {
		t.Errorf("bool fields not read: %+v", s)
	}
	if s.PixelTolerance != 55 {
		t.Errorf("tolerance = %d, want 55", s.PixelTolerance)
	}
	if !s.PerColorChannelEdgeDetection || !s.PrimaryOnly {
		t.Errorf("flags not read: %+v", s)
	}
}

func TestMissingToleranceFallsBackToDefault(t *testing.T) {
	path := writeSettings(t, "LINE_COLOR_R=1\n")
	s := LoadFrom(path)
	if s.PixelTolerance != DefaultPixelTolerance {
		t.Fatalf("tolerance = %d, want default %d", s.PixelTolerance, DefaultPixelTolerance)
	}
}

func TestMalformedFieldsFallBack(t *testing.T) {
	path := writeSettings(t, `
PIXEL_TOLERANCE=abc
LINE_COLOR_R=-5
LINE_COLOR_G=999
CONTINUOUS_CAPTURE=maybe
`)
	s := LoadFrom(path)
	def := Defaults()
	if s.PixelTolerance != def.PixelTolerance {
		t.Errorf("tolerance = %d, want %d", s.PixelTolerance, def.PixelTolerance)
	}
	if s.LineColor != def.LineColor {
		t.Errorf("line color = %v, want %v", s.LineColor, def.LineColor)
	}
	if s.ContinuousCapture != def.ContinuousCapture {
		t.Errorf("continuous = %v, want %v", s.ContinuousCapture, def.ContinuousCapture)
	}
}
