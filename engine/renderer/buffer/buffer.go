// Package buffer wraps wgpu buffers with the upload paths and descriptor
// range accounting the rest of the renderer builds on.
package buffer

import (
	"fmt"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Descriptor describes a buffer to create.
type Descriptor struct {
	// Label shows up in device errors and captures.
	Label string
	// Size in bytes.
	Size uint64
	// Usage flags. CopyDst is added automatically so the queue write path
	// always works.
	Usage wgpu.BufferUsage
	// HostVisible selects the per-frame queue-write upload path. Buffers
	// that are not host visible only accept the one-shot staging upload.
	HostVisible bool
}

// Info identifies a range of a buffer for a descriptor write.
type Info struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Range  uint64
}

// Buffer is a GPU buffer with explicit upload semantics.
type Buffer interface {
	// Handle returns the underlying wgpu buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the raw handle
	Handle() *wgpu.Buffer

	// Size returns the buffer size in bytes.
	//
	// Returns:
	//   - uint64: size in bytes
	Size() uint64

	// HostVisible reports whether the buffer accepts per-frame writes.
	//
	// Returns:
	//   - bool: true for host-visible buffers
	HostVisible() bool

	// WriteHostVisible copies data into the buffer at the given offset via
	// the queue. Only valid on host-visible buffers. Writing outside
	// [0, Size) is a contract violation and panics.
	//
	// Parameters:
	//   - data: bytes to copy
	//   - offset: destination offset in bytes
	//
	// Returns:
	//   - error: if the buffer is not host visible or the queue write fails
	WriteHostVisible(data []byte, offset uint64) error

	// WriteDeviceLocal uploads data through a temporary staging buffer and a
	// one-shot copy submission, then blocks until the copy completes. Meant
	// for build-time uploads (meshes, textures), not the per-frame path.
	//
	// Parameters:
	//   - data: bytes to upload, must fit the buffer
	//
	// Returns:
	//   - error: allocation or submission failure
	WriteDeviceLocal(data []byte) error

	// Flush makes pending host writes visible to the GPU. Queue writes are
	// coherent at submission, so this is a no-op kept for the write/flush
	// pairing contract.
	Flush()

	// DescriptorInfo returns the binding range covering the whole buffer.
	//
	// Returns:
	//   - Info: buffer, offset 0, full size
	DescriptorInfo() Info

	// ElementInfo returns the binding range of exactly one padded element,
	// for descriptors addressed per object.
	//
	// Parameters:
	//   - elementStride: padded element stride in bytes
	//   - index: element index
	//
	// Returns:
	//   - Info: buffer, offset index*elementStride, range of one stride
	ElementInfo(elementStride, index uint64) Info

	// Release frees the underlying buffer.
	Release()
}

type bufferImpl struct {
	handle      *wgpu.Buffer
	queue       *wgpu.Queue
	device      *wgpu.Device
	label       string
	size        uint64
	hostVisible bool
}

var _ Buffer = &bufferImpl{}

// New creates a GPU buffer.
//
// Parameters:
//   - device: the wgpu device
//   - queue: the queue used for uploads
//   - desc: buffer description
//
// Returns:
//   - Buffer: the created buffer
//   - error: AllocationError on device failure
func New(device *wgpu.Device, queue *wgpu.Queue, desc Descriptor) (Buffer, error) {
	if desc.Size == 0 {
		return nil, common.NewConfigurationError(desc.Label, "buffer size must be non-zero")
	}
	handle, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, common.NewAllocationError(desc.Label, err)
	}
	return &bufferImpl{
		handle:      handle,
		queue:       queue,
		device:      device,
		label:       desc.Label,
		size:        desc.Size,
		hostVisible: desc.HostVisible,
	}, nil
}

func (b *bufferImpl) Handle() *wgpu.Buffer { return b.handle }
func (b *bufferImpl) Size() uint64         { return b.size }
func (b *bufferImpl) HostVisible() bool    { return b.hostVisible }

func (b *bufferImpl) WriteHostVisible(data []byte, offset uint64) error {
	if !b.hostVisible {
		return common.NewConfigurationError(b.label, "per-frame write to device-local buffer")
	}
	if offset+uint64(len(data)) > b.size {
		panic(fmt.Sprintf("buffer %s: write of %d bytes at offset %d exceeds size %d",
			b.label, len(data), offset, b.size))
	}
	if len(data) == 0 {
		return nil
	}
	return b.queue.WriteBuffer(b.handle, offset, data)
}

func (b *bufferImpl) WriteDeviceLocal(data []byte) error {
	if b.hostVisible {
		return common.NewConfigurationError(b.label, "staging upload to host-visible buffer")
	}
	if uint64(len(data)) > b.size {
		panic(fmt.Sprintf("buffer %s: upload of %d bytes exceeds size %d", b.label, len(data), b.size))
	}
	if len(data) == 0 {
		return nil
	}

	staging, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            b.label + "-staging",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageCopySrc | wgpu.BufferUsageMapWrite,
		MappedAtCreation: true,
	})
	if err != nil {
		return common.NewAllocationError(b.label+"-staging", err)
	}
	defer staging.Release()

	mapped := staging.GetMappedRange(0, uint(len(data)))
	copy(mapped, data)
	if err := staging.Unmap(); err != nil {
		return common.NewDeviceOperationError("unmap staging buffer", err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return common.NewDeviceOperationError("create upload encoder", err)
	}
	defer encoder.Release()
	if err := encoder.CopyBufferToBuffer(staging, 0, b.handle, 0, uint64(len(data))); err != nil {
		return common.NewDeviceOperationError("record buffer copy", err)
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return common.NewDeviceOperationError("finish upload encoder", err)
	}
	defer cmd.Release()
	b.queue.Submit(cmd)

	// Build-time path only: wait for the copy so the staging buffer can go.
	b.device.Poll(true, nil)
	return nil
}

func (b *bufferImpl) Flush() {
	// Queue writes are coherent once submitted; nothing to do.
}

func (b *bufferImpl) DescriptorInfo() Info {
	return Info{Buffer: b.handle, Offset: 0, Range: b.size}
}

func (b *bufferImpl) ElementInfo(elementStride, index uint64) Info {
	offset := elementStride * index
	if offset+elementStride > b.size {
		panic(fmt.Sprintf("buffer %s: element %d with stride %d exceeds size %d",
			b.label, index, elementStride, b.size))
	}
	return Info{Buffer: b.handle, Offset: offset, Range: elementStride}
}

func (b *bufferImpl) Release() {
	if b.handle != nil {
		b.handle.Release()
		b.handle = nil
	}
}
