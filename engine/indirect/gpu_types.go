package indirect

import (
	"encoding/binary"
	"unsafe"
)

// CommandSize is the packed size of one indexed-indirect draw command.
const CommandSize = 20

// Command is the standard indexed-indirect draw command layout consumed by
// DrawIndexedIndirect. Field order and sizes are fixed by the GPU API.
// Size: 20 bytes.
type Command struct {
	IndexCount    uint32 // offset  0: indices drawn per instance
	InstanceCount uint32 // offset  4: instances drawn; written by the cull shader each frame
	FirstIndex    uint32 // offset  8: always 0, each model binds its own index buffer
	VertexOffset  int32  // offset 12: always 0, each model binds its own vertex buffer
	FirstInstance uint32 // offset 16: start of this command's instance-index region
}

// Size returns the size of the Command struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (20)
func (c *Command) Size() int {
	return int(unsafe.Sizeof(*c))
}

// Marshal serializes the Command struct into a byte buffer suitable for GPU
// upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload
func (c *Command) Marshal() []byte {
	buf := make([]byte, CommandSize)
	binary.LittleEndian.PutUint32(buf[0:], c.IndexCount)
	binary.LittleEndian.PutUint32(buf[4:], c.InstanceCount)
	binary.LittleEndian.PutUint32(buf[8:], c.FirstIndex)
	binary.LittleEndian.PutUint32(buf[12:], uint32(c.VertexOffset))
	binary.LittleEndian.PutUint32(buf[16:], c.FirstInstance)
	return buf
}

// MarshalCommands serializes a command slice into a contiguous upload
// buffer.
//
// Parameters:
//   - commands: the commands to serialize
//
// Returns:
//   - []byte: len(commands)*20 bytes
func MarshalCommands(commands []Command) []byte {
	buf := make([]byte, 0, len(commands)*CommandSize)
	for i := range commands {
		buf = append(buf, commands[i].Marshal()...)
	}
	return buf
}

// MarshalCommandsZeroed serializes a command slice with every
// InstanceCount forced to zero. Uploaded at the start of each frame so the
// cull shader's atomic increments start from a clean slate.
//
// Parameters:
//   - commands: the base commands
//
// Returns:
//   - []byte: len(commands)*20 bytes with zeroed instance counts
func MarshalCommandsZeroed(commands []Command) []byte {
	buf := make([]byte, 0, len(commands)*CommandSize)
	for i := range commands {
		c := commands[i]
		c.InstanceCount = 0
		buf = append(buf, c.Marshal()...)
	}
	return buf
}
