// Package model holds mesh geometry and its device-local GPU buffers. Each
// model owns its own vertex and index buffer, so every indirect draw command
// starts at index zero with no vertex offset.
package model

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/buffer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is CPU-side geometry waiting to be registered with a scene.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint32
}

// Valid reports whether the mesh can be drawn: non-empty, and indices in
// range.
func (m *Mesh) Valid() bool {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return false
	}
	for _, idx := range m.Indices {
		if idx >= uint32(len(m.Vertices)) {
			return false
		}
	}
	return true
}

// Model is registered mesh geometry with a scene-assigned id. GPU buffers
// are created once at render system setup via UploadMesh.
type Model struct {
	id   uint32
	mesh Mesh

	bounds struct {
		center [3]float32
		radius float32
	}

	vertexBuffer buffer.Buffer
	indexBuffer  buffer.Buffer
}

// New creates a model from a mesh, computing its bounding sphere.
//
// Parameters:
//   - id: the scene-assigned model id
//   - mesh: the geometry
//
// Returns:
//   - *Model: the new model
func New(id uint32, mesh Mesh) *Model {
	m := &Model{id: id, mesh: mesh}
	m.bounds.center, m.bounds.radius = ComputeBounds(mesh.Vertices)
	return m
}

// ID returns the scene-assigned model id.
func (m *Model) ID() uint32 {
	return m.id
}

// IndexCount returns the number of indices drawn per instance.
func (m *Model) IndexCount() uint32 {
	return uint32(len(m.mesh.Indices))
}

// VertexCount returns the number of vertices in the mesh.
func (m *Model) VertexCount() uint32 {
	return uint32(len(m.mesh.Vertices))
}

// BoundingCenter returns the model-space bounding sphere center.
func (m *Model) BoundingCenter() [3]float32 {
	return m.bounds.center
}

// BoundingRadius returns the model-space bounding sphere radius.
func (m *Model) BoundingRadius() float32 {
	return m.bounds.radius
}

// UploadMesh creates the device-local vertex and index buffers and uploads
// the mesh through the staging path. Called once during render system setup.
//
// Parameters:
//   - device: the wgpu device
//   - queue: the upload queue
//
// Returns:
//   - error: ConfigurationError for an invalid mesh, AllocationError on device failure
func (m *Model) UploadMesh(device *wgpu.Device, queue *wgpu.Queue) error {
	if !m.mesh.Valid() {
		return common.NewConfigurationError("model", "model %d has an invalid mesh", m.id)
	}
	if m.vertexBuffer != nil {
		return nil // already uploaded
	}

	vertexData := MarshalVertices(m.mesh.Vertices)
	vb, err := buffer.New(device, queue, buffer.Descriptor{
		Label: "model-vertex",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex,
	})
	if err != nil {
		return err
	}
	if err := vb.WriteDeviceLocal(vertexData); err != nil {
		vb.Release()
		return err
	}

	indexData := MarshalIndices(m.mesh.Indices)
	ib, err := buffer.New(device, queue, buffer.Descriptor{
		Label: "model-index",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex,
	})
	if err != nil {
		vb.Release()
		return err
	}
	if err := ib.WriteDeviceLocal(indexData); err != nil {
		vb.Release()
		ib.Release()
		return err
	}

	m.vertexBuffer = vb
	m.indexBuffer = ib
	return nil
}

// VertexBuffer returns the device-local vertex buffer, nil before UploadMesh.
func (m *Model) VertexBuffer() *wgpu.Buffer {
	if m.vertexBuffer == nil {
		return nil
	}
	return m.vertexBuffer.Handle()
}

// IndexBuffer returns the device-local index buffer, nil before UploadMesh.
func (m *Model) IndexBuffer() *wgpu.Buffer {
	if m.indexBuffer == nil {
		return nil
	}
	return m.indexBuffer.Handle()
}

// Release frees the GPU buffers.
func (m *Model) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}
