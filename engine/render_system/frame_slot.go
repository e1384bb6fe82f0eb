package render_system

// Stage ordinals within one frame's descriptor set table.
const (
	// StageRender is the draw pass set.
	StageRender uint32 = 0
	// StageCull is the compute cull pass set.
	StageCull uint32 = 1
	// StagesPerFrame is the number of sets each frame slot owns.
	StagesPerFrame uint32 = 2
)

// FrameSlotIndex maps a frame index and stage ordinal to a position in the
// combined per-frame set table. Pure function: the same inputs always give
// the same slot.
//
// Parameters:
//   - frame: frame index in [0, framesInFlight)
//   - stageOrdinal: stage within the frame, in [0, stagesPerFrame)
//   - stagesPerFrame: number of stages per frame
//
// Returns:
//   - uint32: the flat table index
func FrameSlotIndex(frame, stageOrdinal, stagesPerFrame uint32) uint32 {
	return frame*stagesPerFrame + stageOrdinal
}
