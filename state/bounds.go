package state

import "image"

// BoundsPerScreen is one monitor's drag-selection state.
type BoundsPerScreen struct {
	// CurrentRegionStart anchors an in-progress drag; nil when idle.
	CurrentRegionStart *image.Point
	// Measurements holds committed rectangles in commit order.
	Measurements []image.Rectangle
}

// BoundsToolState is the per-monitor record map for Bounds mode,
// keyed by monitor ID. Populated at session start, cleared at reset.
// Wrap in Serialized for cross-thread access.
type BoundsToolState struct {
	PerScreen map[int]*BoundsPerScreen
}

// Screen returns the record for a monitor, creating it on first use.
func (b *BoundsToolState) Screen(id int) *BoundsPerScreen {
	if b.PerScreen == nil {
		b.PerScreen = make(map[int]*BoundsPerScreen)
	}
	ps, ok := b.PerScreen[id]
	if !ok {
		ps = &BoundsPerScreen{}
		b.PerScreen[id] = ps
	}
	return ps
}
