package render_system

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/object"
	"github.com/Carmen-Shannon/prism-go/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSlotIndex(t *testing.T) {
	tests := []struct {
		frame, stage, stages, want uint32
	}{
		{0, StageRender, StagesPerFrame, 0},
		{0, StageCull, StagesPerFrame, 1},
		{1, StageRender, StagesPerFrame, 2},
		{1, StageCull, StagesPerFrame, 3},
		{2, StageCull, StagesPerFrame, 5},
		{3, 0, 4, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FrameSlotIndex(tt.frame, tt.stage, tt.stages),
			"frame=%d stage=%d stages=%d", tt.frame, tt.stage, tt.stages)
	}
}

func TestResolveObjectStride(t *testing.T) {
	for _, align := range []uint64{16, 32, 64, 128, 256} {
		stride, err := resolveObjectStride(align)
		require.NoError(t, err, "alignment %d", align)
		assert.Equal(t, uint64(objectStride), stride)
	}
}

func TestResolveObjectStrideRejectsOversizedAlignment(t *testing.T) {
	_, err := resolveObjectStride(512)
	var cfgErr *common.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMarkSlotsVacant(t *testing.T) {
	staging := make([]byte, 3*objectStride)
	markSlotsVacant(staging)
	for slot := 0; slot < 3; slot++ {
		cmd := binary.LittleEndian.Uint32(staging[slot*objectStride+136:])
		assert.Equal(t, uint32(vacantSlotCommand), cmd, "slot %d", slot)
	}
}

func TestStageObjectRangeWritesAbsoluteSlots(t *testing.T) {
	a := object.New(0)
	a.Info.ModelID = 3
	c := object.New(2)
	c.Info.ModelID = 7
	c.Transform.Translation = [3]float32{1, 2, 3}

	staging := make([]byte, 3*objectStride)
	markSlotsVacant(staging)
	stageObjectRange(staging, []*object.Object{a, c}, map[uint32]uint32{0: 0, 2: 1})

	first := object.UnmarshalGPUObjectData(staging[0:])
	assert.Equal(t, uint32(3), first.ModelID)
	assert.Equal(t, uint32(0), first.CommandIndex)

	// Slot 1 has no object; the vacant sentinel survives.
	middle := object.UnmarshalGPUObjectData(staging[objectStride:])
	assert.Equal(t, uint32(vacantSlotCommand), middle.CommandIndex)

	third := object.UnmarshalGPUObjectData(staging[2*objectStride:])
	assert.Equal(t, uint32(7), third.ModelID)
	assert.Equal(t, uint32(1), third.CommandIndex)
	assert.Equal(t, float32(1), third.Model[12])
	assert.Equal(t, float32(2), third.Model[13])
	assert.Equal(t, float32(3), third.Model[14])
}

func TestReleaseStopsStagingPool(t *testing.T) {
	s := &renderSystemImpl{
		mu:          &sync.Mutex{},
		scn:         scene.NewScene(),
		stagingPool: worker.NewDynamicWorkerPool(1, 4, time.Second),
	}

	s.Release()
	assert.Nil(t, s.stagingPool)

	// Release is idempotent.
	s.Release()
}

func TestDrawShaderBindingsMatchRenderLayout(t *testing.T) {
	// Binding order is fixed by buildLayouts: uniform, objects, sampler,
	// texture array, instance indices.
	assert.Contains(t, drawSource, "@group(0) @binding(0) var<uniform> scene")
	assert.Contains(t, drawSource, "@group(0) @binding(1) var<storage, read> objects")
	assert.Contains(t, drawSource, "@group(0) @binding(2) var samp: sampler")
	assert.Contains(t, drawSource, "@group(0) @binding(3) var textures: texture_2d_array<f32>")
	assert.Contains(t, drawSource, "@group(0) @binding(4) var<storage, read> instance_indices")
}
