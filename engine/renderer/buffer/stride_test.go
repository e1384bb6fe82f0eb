package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadStride(t *testing.T) {
	tests := []struct {
		name  string
		size  uint64
		align uint64
		want  uint64
	}{
		{"already aligned", 256, 256, 256},
		{"rounds up", 160, 256, 256},
		{"small alignment", 160, 32, 160},
		{"one byte", 1, 64, 64},
		{"zero size", 0, 256, 0},
		{"zero align passthrough", 160, 0, 160},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PadStride(tt.size, tt.align))
		})
	}
}

func TestPadStrideProperties(t *testing.T) {
	aligns := []uint64{1, 2, 4, 16, 64, 256}
	for _, align := range aligns {
		for size := uint64(1); size <= 512; size += 37 {
			got := PadStride(size, align)
			assert.GreaterOrEqual(t, got, size)
			assert.Zero(t, got%align)
			assert.Less(t, got-size, align)
		}
	}
}

func TestElementInfoOffsets(t *testing.T) {
	// ElementInfo math is pure; exercise it without a device.
	b := &bufferImpl{label: "objects", size: 1024}

	info := b.ElementInfo(256, 3)
	assert.Equal(t, uint64(768), info.Offset)
	assert.Equal(t, uint64(256), info.Range)

	assert.Panics(t, func() { b.ElementInfo(256, 4) })
}

func TestDescriptorInfoWholeRange(t *testing.T) {
	b := &bufferImpl{label: "scene", size: 240}
	info := b.DescriptorInfo()
	assert.Equal(t, uint64(0), info.Offset)
	assert.Equal(t, uint64(240), info.Range)
}
