package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings file keys. The file is a flat key=value record next to the
// executable (or pointed at by SCREEN_MEASURE_SETTINGS).
const (
	keyLineColorR       = "LINE_COLOR_R"
	keyLineColorG       = "LINE_COLOR_G"
	keyLineColorB       = "LINE_COLOR_B"
	keyContinuousCap    = "CONTINUOUS_CAPTURE"
	keyDrawFeet         = "DRAW_FEET_ON_CROSS"
	keyPixelTolerance   = "PIXEL_TOLERANCE"
	keyPerChannelEdges  = "PER_COLOR_CHANNEL_EDGE_DETECTION"
	keyPrimaryOnly      = "PRIMARY_MONITOR_ONLY"
	keyEnableFileLog    = "ENABLE_FILE_LOGGING"
	SettingsFileEnvVar  = "SCREEN_MEASURE_SETTINGS"
	settingsFileName    = "measure.env"
	DefaultPixelTolerance = 30
)

// Settings is the flat user-configurable record consumed at every
// session reset. Fields that are missing or unreadable keep defaults.
type Settings struct {
	LineColor                    [3]uint8
	ContinuousCapture            bool
	DrawFeetOnCross              bool
	PixelTolerance               uint8
	PerColorChannelEdgeDetection bool
	PrimaryOnly                  bool
	EnableFileLogging            bool
}

// Defaults returns the built-in settings: orange-red line, continuous
// capture on, tolerance 30, feet on, per-channel detection off.
func Defaults() Settings {
	return Settings{
		LineColor:                    [3]uint8{255, 69, 0},
		ContinuousCapture:            true,
		DrawFeetOnCross:              true,
		PixelTolerance:               DefaultPixelTolerance,
		PerColorChannelEdgeDetection: false,
		PrimaryOnly:                  false,
		EnableFileLogging:            false,
	}
}

// Load reads the settings file resolved from the executable directory
// or SCREEN_MEASURE_SETTINGS. A missing or unreadable file is never an
// error; defaults apply.
func Load() Settings {
	return LoadFrom(resolveSettingsPath())
}

// LoadFrom reads settings from an explicit path, falling back to
// defaults per field.
func LoadFrom(path string) Settings {
	s := Defaults()
	if path == "" {
		return s
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return s
	}

	s.LineColor[0] = readByte(values, keyLineColorR, s.LineColor[0])
	s.LineColor[1] = readByte(values, keyLineColorG, s.LineColor[1])
	s.LineColor[2] = readByte(values, keyLineColorB, s.LineColor[2])
	s.ContinuousCapture = readBool(values, keyContinuousCap, s.ContinuousCapture)
	s.DrawFeetOnCross = readBool(values, keyDrawFeet, s.DrawFeetOnCross)
	s.PixelTolerance = readByte(values, keyPixelTolerance, s.PixelTolerance)
	s.PerColorChannelEdgeDetection = readBool(values, keyPerChannelEdges, s.PerColorChannelEdgeDetection)
	s.PrimaryOnly = readBool(values, keyPrimaryOnly, s.PrimaryOnly)
	s.EnableFileLogging = readBool(values, keyEnableFileLog, s.EnableFileLogging)
	return s
}

func resolveSettingsPath() string {
	if alt := os.Getenv(SettingsFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), settingsFileName)
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}
	return ""
}

func readByte(values map[string]string, key string, fallback uint8) uint8 {
	v, ok := values[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > 255 {
		return fallback
	}
	return uint8(n)
}

func readBool(values map[string]string, key string, fallback bool) bool {
	v, ok := values[key]
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}
