package state

import (
	"image"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// Mode selects which axes the measure tool scans.
type Mode int

const (
	ModeHorizontal Mode = iota
	ModeVertical
	ModeCross
)

func (m Mode) String() string {
	switch m {
	case ModeHorizontal:
		return "horizontal"
	case ModeVertical:
		return "vertical"
	case ModeCross:
		return "cross"
	default:
		return "unknown"
	}
}

// MeasureGlobal is the read-mostly configuration shared by all
// monitors during a measure session.
type MeasureGlobal struct {
	PixelTolerance               uint8
	ContinuousCapture            bool
	DrawFeetOnCross              bool
	PerColorChannelEdgeDetection bool
	Mode                         Mode
}

// MeasurePerScreen is one monitor's transient measure state. The
// captured frame lives in the FrameCell; once the renderer takes it,
// the converted bitmap is cached here until a newer frame arrives.
type MeasurePerScreen struct {
	CursorInLeftHalf bool
	CursorInTopHalf  bool
	MeasuredEdges    image.Rectangle
	HasEdges         bool
	Frames           *FrameCell
	Bitmap           *gg.ImageBuf
}

// MeasureToolState is the full measure-mode record: global config plus
// per-monitor records keyed by monitor ID. Wrap in Serialized for
// cross-thread access.
type MeasureToolState struct {
	Global    MeasureGlobal
	PerScreen map[int]*MeasurePerScreen
}

// Screen returns the record for a monitor, creating it on first use.
func (m *MeasureToolState) Screen(id int) *MeasurePerScreen {
	if m.PerScreen == nil {
		m.PerScreen = make(map[int]*MeasurePerScreen)
	}
	ps, ok := m.PerScreen[id]
	if !ok {
		ps = &MeasurePerScreen{Frames: &FrameCell{}}
		m.PerScreen[id] = ps
	}
	return ps
}

// FrameCell is a single-slot, last-write-wins handoff cell between one
// capturer and one renderer. Publishing replaces rather than queues,
// so the renderer only ever sees the newest frame and stale frames are
// dropped immediately. Ownership of the frame transfers with each
// Publish/Take.
type FrameCell struct {
	p atomic.Pointer[image.RGBA]
}

// Publish stores the newest captured frame and returns the displaced
// unconsumed frame, if any, so the producer can count drops.
func (c *FrameCell) Publish(frame *image.RGBA) (dropped *image.RGBA) {
	return c.p.Swap(frame)
}

// Take removes and returns the newest published frame, or nil when
// nothing new arrived since the last Take. Callers keep their cached
// conversion when Take returns nil.
func (c *FrameCell) Take() *image.RGBA {
	return c.p.Swap(nil)
}
