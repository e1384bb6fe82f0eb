package render_system

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/object"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/buffer"
)

// vacantSlotCommand marks an object slot with no live object. The cull
// shader skips these; mirrored in cull.wgsl.
const vacantSlotCommand = 0xFFFFFFFF

// objectStride is the fixed per-object slot stride. The WGSL ObjectData
// struct carries a reserved tail that pads it to exactly this size, so the
// CPU-side stride cannot vary with the device.
const objectStride = object.GPUObjectDataStride

// resolveObjectStride checks the fixed object slot stride against the
// device's minimum storage buffer offset alignment.
//
// Parameters:
//   - minStorageAlignment: the device's MinStorageBufferOffsetAlignment
//
// Returns:
//   - uint64: the slot stride (always 256)
//   - error: ConfigurationError when the device alignment does not divide the stride
func resolveObjectStride(minStorageAlignment uint64) (uint64, error) {
	padded := buffer.PadStride(object.GPUObjectDataSize, minStorageAlignment)
	if padded > objectStride {
		return 0, common.NewConfigurationError("render system",
			"storage alignment %d pads object data to %d bytes, past the %d byte shader stride",
			minStorageAlignment, padded, objectStride)
	}
	if buffer.PadStride(objectStride, minStorageAlignment) != objectStride {
		return 0, common.NewConfigurationError("render system",
			"storage alignment %d does not divide the %d byte shader stride",
			minStorageAlignment, objectStride)
	}
	return objectStride, nil
}

// markSlotsVacant stamps every slot of the staging image with the vacant
// command sentinel. Live objects overwrite their own slots afterwards.
//
// Parameters:
//   - staging: the full object staging image, slotCount*objectStride bytes
func markSlotsVacant(staging []byte) {
	for off := 136; off < len(staging); off += objectStride {
		binary.LittleEndian.PutUint32(staging[off:], vacantSlotCommand)
	}
}

// stageObjectRange serializes a run of objects into their slots of the
// staging image. Each object owns the disjoint byte range
// [id*objectStride, id*objectStride+GPUObjectDataSize), so ranges can be
// staged concurrently.
//
// Parameters:
//   - staging: the full object staging image
//   - objects: the objects to stage
//   - commandIndexOf: object id to draw command index
func stageObjectRange(staging []byte, objects []*object.Object, commandIndexOf map[uint32]uint32) {
	for _, obj := range objects {
		data := obj.GPUData(commandIndexOf[obj.ID()])
		copy(staging[uint64(obj.ID())*objectStride:], data.Marshal())
	}
}
