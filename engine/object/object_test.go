package object

import (
	"testing"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestGPUObjectDataSizeMatchesStruct(t *testing.T) {
	var g GPUObjectData
	assert.Equal(t, GPUObjectDataSize, int(unsafe.Sizeof(g)))
	assert.GreaterOrEqual(t, GPUObjectDataStride, GPUObjectDataSize)
	// The stride must satisfy any power-of-two storage alignment up to 256.
	assert.Zero(t, GPUObjectDataStride%256)
}

func TestGPUObjectDataMarshalRoundTrip(t *testing.T) {
	g := GPUObjectData{
		ModelID:        7,
		DiffuseID:      3,
		CommandIndex:   2,
		BoundingRadius: 1.5,
		BoundingCenter: [3]float32{0.5, -0.25, 2},
	}
	for i := range 16 {
		g.Model[i] = float32(i) * 0.5
		g.NormalMat[i] = float32(i) * -0.25
	}

	buf := g.Marshal()
	assert.Len(t, buf, GPUObjectDataSize)

	decoded := UnmarshalGPUObjectData(buf)
	assert.Equal(t, g, decoded)
}

func TestGPUObjectDataFieldOffsets(t *testing.T) {
	g := GPUObjectData{ModelID: 0xAABBCCDD}
	buf := g.Marshal()
	// ModelID sits at byte 128, little endian.
	assert.Equal(t, byte(0xDD), buf[128])
	assert.Equal(t, byte(0xAA), buf[131])
}

func TestObjectGPUDataScalesBoundingRadius(t *testing.T) {
	o := New(4)
	o.Info = Info{ModelID: 1, DiffuseID: 2, BoundingRadius: 2, BoundingCenter: [3]float32{1, 0, 0}}
	o.Transform.Scale = [3]float32{1, 3, 2}

	data := o.GPUData(5)
	assert.Equal(t, uint32(4), o.ID())
	assert.Equal(t, uint32(5), data.CommandIndex)
	assert.Equal(t, float32(6), data.BoundingRadius) // radius 2 * max scale 3
	assert.Equal(t, [3]float32{1, 0, 0}, data.BoundingCenter)
}

func TestObjectGPUDataModelMatrix(t *testing.T) {
	o := New(0)
	o.Transform.Translation = [3]float32{5, 6, 7}

	data := o.GPUData(0)
	assert.Equal(t, float32(5), data.Model[12])
	assert.Equal(t, float32(6), data.Model[13])
	assert.Equal(t, float32(7), data.Model[14])
	// Identity rotation and scale leave the upper 3x3 as identity.
	assert.InDelta(t, 1, data.Model[0], 1e-6)
	assert.InDelta(t, 1, data.Model[5], 1e-6)
	assert.InDelta(t, 1, data.Model[10], 1e-6)
}

func TestTransformMaxScale(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, float32(1), tr.MaxScale())

	tr.Scale = [3]float32{-4, 2, 1}
	assert.Equal(t, float32(4), tr.MaxScale())
}

func TestNewTransformIsIdentity(t *testing.T) {
	tr := NewTransform()
	var m [16]float32
	tr.Mat4(m[:])
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.InDelta(t, want, m[i], 1e-6, "element %d", i)
	}
}

func TestTransformRotationY(t *testing.T) {
	tr := NewTransform()
	tr.Rotation = [3]float32{0, math32.Pi / 2, 0}
	var m [16]float32
	tr.Mat4(m[:])

	// +X maps to -Z under a 90 degree yaw (first column of the matrix).
	assert.InDelta(t, 0, m[0], 1e-5)
	assert.InDelta(t, -1, m[2], 1e-5)
}
