package scene

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUSceneUniformSize is the packed size of the per-frame scene uniform.
const GPUSceneUniformSize = 240

// GPUSceneUniform is the GPU-aligned per-frame camera and culling state
// shared by the cull compute shader and the draw shaders. Matches the WGSL
// SceneUniform struct layout exactly.
// Size: 240 bytes (std140 aligned).
type GPUSceneUniform struct {
	Projection  [16]float32 // offset   0: projection matrix (mat4x4<f32>)
	View        [16]float32 // offset  64: view matrix (mat4x4<f32>)
	InverseView [16]float32 // offset 128: inverse view matrix (mat4x4<f32>)

	BoundsMin [3]float32 // offset 192: frustum AABB min corner (vec3<f32>)
	_pad0     float32    // offset 204
	BoundsMax [3]float32 // offset 208: frustum AABB max corner (vec3<f32>)
	_pad1     float32    // offset 220

	FrustumCulling   uint32 // offset 224: 1 when the cull shader tests the frustum
	OcclusionCulling uint32 // offset 228: 1 when the cull shader tests occlusion
	InstanceCount    uint32 // offset 232: object slots dispatched this frame (vacant slots included)
	_pad2            uint32 // offset 236
}

// Size returns the size of the GPUSceneUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (240)
func (g *GPUSceneUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneUniform struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: 240-byte buffer ready for GPU upload
func (g *GPUSceneUniform) Marshal() []byte {
	buf := make([]byte, GPUSceneUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Projection[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.View[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.InverseView[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[192+i*4:], math.Float32bits(g.BoundsMin[i]))
		binary.LittleEndian.PutUint32(buf[208+i*4:], math.Float32bits(g.BoundsMax[i]))
	}
	binary.LittleEndian.PutUint32(buf[224:], g.FrustumCulling)
	binary.LittleEndian.PutUint32(buf[228:], g.OcclusionCulling)
	binary.LittleEndian.PutUint32(buf[232:], g.InstanceCount)
	return buf
}
