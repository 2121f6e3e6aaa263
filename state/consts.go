package state

import "time"

// TargetFrameRate is the shared cadence for cursor sampling, frame
// capture, and overlay redraw.
const TargetFrameRate = 60

// TargetFrameDuration is one frame interval at the target rate.
const TargetFrameDuration = time.Second / TargetFrameRate
