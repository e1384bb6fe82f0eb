// Package indirect builds the indexed-indirect draw command list from the
// scene: one command per referenced model, with contiguous instance-index
// regions laid out by FirstInstance. Commands are rebuilt only on structural
// change; the cull compute shader fills in InstanceCount each frame.
package indirect

import (
	"sort"

	"github.com/Carmen-Shannon/prism-go/engine/scene"
)

// CommandList is the product of one Build: the base commands with their
// full (un-culled) instance counts, plus the mapping the render system
// needs to stage per-object data and issue draws.
type CommandList struct {
	// Commands holds one draw command per referenced model, model-id
	// ascending. InstanceCount is the region capacity; each frame starts
	// from a zeroed copy that the cull shader fills.
	Commands []Command

	// ModelIDs holds the model drawn by each command, index-aligned with
	// Commands.
	ModelIDs []uint32

	// TotalInstances is the summed instance count across all commands.
	TotalInstances uint32

	// CommandIndexOf maps object id to the command that draws it.
	CommandIndexOf map[uint32]uint32

	// Generation is the scene generation these commands were built from.
	Generation uint64
}

// Build partitions the scene's live objects by model id and produces one
// indexed-indirect command per referenced model. Models with no objects get
// no command. Each command's FirstInstance is the running sum of prior
// commands' instance counts, so command k owns the contiguous
// instance-index region [FirstInstance, FirstInstance+InstanceCount).
// FirstIndex and VertexOffset are always zero: every model binds its own
// vertex and index buffers.
//
// Parameters:
//   - s: the scene to build from
//
// Returns:
//   - *CommandList: the built commands and object mapping
func Build(s scene.Scene) *CommandList {
	objects := s.Objects()

	instanceCounts := make(map[uint32]uint32)
	for _, obj := range objects {
		instanceCounts[obj.Info.ModelID]++
	}

	modelIDs := make([]uint32, 0, len(instanceCounts))
	for id := range instanceCounts {
		modelIDs = append(modelIDs, id)
	}
	sort.Slice(modelIDs, func(i, j int) bool { return modelIDs[i] < modelIDs[j] })

	list := &CommandList{
		Commands:       make([]Command, 0, len(modelIDs)),
		ModelIDs:       modelIDs,
		CommandIndexOf: make(map[uint32]uint32, len(objects)),
		Generation:     s.Generation(),
	}

	commandOf := make(map[uint32]uint32, len(modelIDs))
	firstInstance := uint32(0)
	for i, modelID := range modelIDs {
		count := instanceCounts[modelID]
		indexCount := uint32(0)
		if m := s.Model(modelID); m != nil {
			indexCount = m.IndexCount()
		}
		list.Commands = append(list.Commands, Command{
			IndexCount:    indexCount,
			InstanceCount: count,
			FirstIndex:    0,
			VertexOffset:  0,
			FirstInstance: firstInstance,
		})
		commandOf[modelID] = uint32(i)
		firstInstance += count
	}
	list.TotalInstances = firstInstance

	for _, obj := range objects {
		list.CommandIndexOf[obj.ID()] = commandOf[obj.Info.ModelID]
	}
	return list
}
