package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSize is the packed size of one GPUVertex.
const GPUVertexSize = 48

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly.
// Size: 48 bytes (std430 aligned, no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Color    [4]float32 // offset 32: per-vertex RGBA color (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.TexCoord[1]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.Color[3]))
	return buf
}

// VertexBufferLayout returns the wgpu vertex buffer layout describing
// GPUVertex for render pipeline creation.
//
// Returns:
//   - wgpu.VertexBufferLayout: layout with position, normal, uv, color attributes
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3},
		},
	}
}

// MarshalVertices serializes a vertex slice into a contiguous upload buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*48 bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, 0, len(vertices)*GPUVertexSize)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// MarshalIndices serializes a uint32 index slice into an upload buffer.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: len(indices)*4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// ComputeBounds calculates the model-space bounding sphere of a vertex set:
// center is the midpoint of the axis-aligned extents, radius the maximum
// vertex distance from that center.
//
// Parameters:
//   - vertices: the mesh vertices
//
// Returns:
//   - center: the bounding sphere center
//   - radius: the bounding sphere radius
func ComputeBounds(vertices []GPUVertex) (center [3]float32, radius float32) {
	if len(vertices) == 0 {
		return center, 0
	}
	min := vertices[0].Position
	max := vertices[0].Position
	for i := range vertices {
		for a := 0; a < 3; a++ {
			min[a] = math32.Min(min[a], vertices[i].Position[a])
			max[a] = math32.Max(max[a], vertices[i].Position[a])
		}
	}
	for a := 0; a < 3; a++ {
		center[a] = (min[a] + max[a]) / 2
	}
	for i := range vertices {
		dx := vertices[i].Position[0] - center[0]
		dy := vertices[i].Position[1] - center[1]
		dz := vertices[i].Position[2] - center[2]
		radius = math32.Max(radius, math32.Sqrt(dx*dx+dy*dy+dz*dz))
	}
	return center, radius
}
