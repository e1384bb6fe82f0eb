package object

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUObjectDataSize is the packed size of one GPUObjectData record.
const GPUObjectDataSize = 160

// GPUObjectDataStride is the padded per-object slot stride in the object
// storage buffer. It matches the WGSL ObjectData stride (the struct plus a
// reserved array<vec4<f32>, 6> tail) and must be a multiple of the device's
// minimum storage buffer offset alignment.
const GPUObjectDataStride = 256

// GPUObjectData is the GPU-aligned per-object record consumed by both the
// cull compute shader and the draw vertex shader. Matches the WGSL
// ObjectData struct layout exactly.
// Size: 160 bytes packed, stored at a 256-byte stride.
type GPUObjectData struct {
	Model          [16]float32 // offset   0: model matrix (mat4x4<f32>)
	NormalMat      [16]float32 // offset  64: inverse-transpose model matrix (mat4x4<f32>)
	ModelID        uint32      // offset 128: mesh id
	DiffuseID      uint32      // offset 132: texture array layer
	CommandIndex   uint32      // offset 136: indirect draw command this object feeds
	BoundingRadius float32     // offset 140: world-space bounding sphere radius
	BoundingCenter [3]float32  // offset 144: model-space bounding sphere center (vec3<f32>)
	_pad           float32     // offset 156: padding to 160 bytes
}

// Size returns the packed size of the GPUObjectData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (160)
func (g *GPUObjectData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectData struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: 160-byte buffer ready for GPU upload
func (g *GPUObjectData) Marshal() []byte {
	buf := make([]byte, GPUObjectDataSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.NormalMat[i]))
	}
	binary.LittleEndian.PutUint32(buf[128:], g.ModelID)
	binary.LittleEndian.PutUint32(buf[132:], g.DiffuseID)
	binary.LittleEndian.PutUint32(buf[136:], g.CommandIndex)
	binary.LittleEndian.PutUint32(buf[140:], math.Float32bits(g.BoundingRadius))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[144+i*4:], math.Float32bits(g.BoundingCenter[i]))
	}
	binary.LittleEndian.PutUint32(buf[156:], 0) // _pad
	return buf
}

// UnmarshalGPUObjectData decodes a 160-byte GPU record. Used by tests and
// debug readback.
//
// Parameters:
//   - buf: at least GPUObjectDataSize bytes
//
// Returns:
//   - GPUObjectData: the decoded record
func UnmarshalGPUObjectData(buf []byte) GPUObjectData {
	var g GPUObjectData
	for i := range 16 {
		g.Model[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	for i := range 16 {
		g.NormalMat[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[64+i*4:]))
	}
	g.ModelID = binary.LittleEndian.Uint32(buf[128:])
	g.DiffuseID = binary.LittleEndian.Uint32(buf[132:])
	g.CommandIndex = binary.LittleEndian.Uint32(buf[136:])
	g.BoundingRadius = math.Float32frombits(binary.LittleEndian.Uint32(buf[140:]))
	for i := range 3 {
		g.BoundingCenter[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[144+i*4:]))
	}
	return g
}
