// Package object defines scene objects: an identity, a transform, and the
// resource references plus bounding volume used for culling.
package object

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/chewxy/math32"
)

// Transform holds position, Euler rotation and per-axis scale.
type Transform struct {
	Translation [3]float32
	Rotation    [3]float32 // radians, applied Y * X * Z
	Scale       [3]float32
}

// NewTransform returns an identity transform (unit scale).
func NewTransform() Transform {
	return Transform{Scale: [3]float32{1, 1, 1}}
}

// Mat4 writes the column-major model matrix into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
func (t *Transform) Mat4(out []float32) {
	common.BuildModelMatrix(out,
		t.Translation[0], t.Translation[1], t.Translation[2],
		t.Rotation[0], t.Rotation[1], t.Rotation[2],
		t.Scale[0], t.Scale[1], t.Scale[2])
}

// MaxScale returns the largest axis scale magnitude, used to grow the
// bounding sphere conservatively under non-uniform scaling.
//
// Returns:
//   - float32: max(|sx|, |sy|, |sz|)
func (t *Transform) MaxScale() float32 {
	return math32.Max(math32.Abs(t.Scale[0]),
		math32.Max(math32.Abs(t.Scale[1]), math32.Abs(t.Scale[2])))
}

// Info references the resources an object draws with and its bounding sphere
// in model space.
type Info struct {
	ModelID        uint32
	DiffuseID      uint32
	BoundingRadius float32
	BoundingCenter [3]float32
}

// Object is one drawable instance in the scene. Identity is assigned by the
// scene; transform and info are caller-owned.
type Object struct {
	id        uint32
	Transform Transform
	Info      Info
}

// New creates an object with the given scene-assigned id and an identity
// transform.
//
// Parameters:
//   - id: the scene-assigned object id
//
// Returns:
//   - *Object: the new object
func New(id uint32) *Object {
	return &Object{
		id:        id,
		Transform: NewTransform(),
	}
}

// ID returns the scene-assigned object id.
func (o *Object) ID() uint32 {
	return o.id
}

// GPUData builds the per-object GPU record: model and normal matrices from
// the current transform, resource ids, the draw command this object feeds,
// and the bounding sphere with radius pre-scaled by the transform so the
// cull shader needs no matrix decomposition.
//
// Parameters:
//   - commandIndex: index of the object's indirect draw command
//
// Returns:
//   - GPUObjectData: the GPU record ready to Marshal
func (o *Object) GPUData(commandIndex uint32) GPUObjectData {
	var data GPUObjectData
	o.Transform.Mat4(data.Model[:])
	common.NormalMatrix(data.NormalMat[:], data.Model[:])
	data.ModelID = o.Info.ModelID
	data.DiffuseID = o.Info.DiffuseID
	data.CommandIndex = commandIndex
	data.BoundingRadius = o.Info.BoundingRadius * o.Transform.MaxScale()
	data.BoundingCenter = o.Info.BoundingCenter
	return data
}
