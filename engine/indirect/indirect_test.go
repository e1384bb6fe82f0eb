package indirect

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/prism-go/engine/model"
	"github.com/Carmen-Shannon/prism-go/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshWithIndices(n int) model.Mesh {
	mesh := model.Mesh{
		Vertices: []model.GPUVertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
	}
	for i := 0; i < n; i++ {
		mesh.Indices = append(mesh.Indices, uint32(i%3))
	}
	return mesh
}

func sceneWithModels(t *testing.T, indexCounts ...int) (scene.Scene, []uint32) {
	t.Helper()
	s := scene.NewScene()
	ids := make([]uint32, 0, len(indexCounts))
	for _, n := range indexCounts {
		m, err := s.RegisterModel(meshWithIndices(n))
		require.NoError(t, err)
		ids = append(ids, m.ID())
	}
	return s, ids
}

func addObject(s scene.Scene, modelID uint32) uint32 {
	obj := s.CreateObject()
	obj.Info.ModelID = modelID
	return obj.ID()
}

func TestCommandSizeMatchesStruct(t *testing.T) {
	var c Command
	assert.Equal(t, CommandSize, int(unsafe.Sizeof(c)))
}

func TestCommandMarshalFieldOrder(t *testing.T) {
	c := Command{
		IndexCount:    36,
		InstanceCount: 4,
		FirstIndex:    0,
		VertexOffset:  -1,
		FirstInstance: 7,
	}
	buf := c.Marshal()
	require.Len(t, buf, CommandSize)
	assert.Equal(t, uint32(36), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, int32(-1), int32(binary.LittleEndian.Uint32(buf[12:])))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[16:]))
}

func TestMarshalCommandsZeroedClearsInstanceCounts(t *testing.T) {
	commands := []Command{
		{IndexCount: 3, InstanceCount: 5, FirstInstance: 0},
		{IndexCount: 6, InstanceCount: 2, FirstInstance: 5},
	}
	buf := MarshalCommandsZeroed(commands)
	require.Len(t, buf, 2*CommandSize)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[CommandSize+4:]))
	// Originals untouched; other fields preserved.
	assert.Equal(t, uint32(5), commands[0].InstanceCount)
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(buf[CommandSize+16:]))
}

func TestBuildGroupsObjectsByModel(t *testing.T) {
	s, ids := sceneWithModels(t, 3, 6)
	a := addObject(s, ids[0])
	b := addObject(s, ids[0])
	c := addObject(s, ids[1])

	list := Build(s)
	require.Len(t, list.Commands, 2)
	assert.Equal(t, []uint32{ids[0], ids[1]}, list.ModelIDs)
	assert.Equal(t, uint32(3), list.TotalInstances)

	first := list.Commands[0]
	assert.Equal(t, uint32(3), first.IndexCount)
	assert.Equal(t, uint32(2), first.InstanceCount)
	assert.Equal(t, uint32(0), first.FirstInstance)

	second := list.Commands[1]
	assert.Equal(t, uint32(6), second.IndexCount)
	assert.Equal(t, uint32(1), second.InstanceCount)
	assert.Equal(t, uint32(2), second.FirstInstance)

	assert.Equal(t, uint32(0), list.CommandIndexOf[a])
	assert.Equal(t, uint32(0), list.CommandIndexOf[b])
	assert.Equal(t, uint32(1), list.CommandIndexOf[c])
}

func TestBuildSkipsUnreferencedModels(t *testing.T) {
	s, ids := sceneWithModels(t, 3, 3, 3)
	addObject(s, ids[1])

	list := Build(s)
	require.Len(t, list.Commands, 1)
	assert.Equal(t, []uint32{ids[1]}, list.ModelIDs)
}

func TestBuildAfterRemovalRepartitions(t *testing.T) {
	s, ids := sceneWithModels(t, 3, 3)
	a := addObject(s, ids[0])
	addObject(s, ids[0])
	addObject(s, ids[1])

	before := Build(s)
	require.Len(t, before.Commands, 2)
	assert.Equal(t, uint32(2), before.Commands[0].InstanceCount)

	s.RemoveObject(a)
	after := Build(s)
	require.Len(t, after.Commands, 2)
	assert.Equal(t, uint32(1), after.Commands[0].InstanceCount)
	assert.Equal(t, uint32(1), after.Commands[1].FirstInstance)
	assert.Greater(t, after.Generation, before.Generation)
}

func TestBuildIsStableWithoutStructuralChange(t *testing.T) {
	s, ids := sceneWithModels(t, 3)
	obj := s.Object(addObject(s, ids[0]))

	first := Build(s)
	// Transform edits are uniform-only; a rebuild yields identical commands.
	obj.Transform.Translation = [3]float32{4, 5, 6}
	second := Build(s)

	assert.Equal(t, first.Commands, second.Commands)
	assert.Equal(t, first.Generation, second.Generation)
}

func TestBuildEmptyScene(t *testing.T) {
	s := scene.NewScene()
	list := Build(s)
	assert.Empty(t, list.Commands)
	assert.Zero(t, list.TotalInstances)
}
