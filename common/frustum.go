package common

import (
	"github.com/chewxy/math32"
)

// Bounds is an axis-aligned bounding box in world space. It is the camera
// frustum's bounding volume uploaded in the scene uniform and consumed by the
// cull compute shader for sphere-vs-box visibility tests.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// ndcCorners are the eight corners of WebGPU clip space: x,y in [-1,1],
// z in [0,1].
var ndcCorners = [8][3]float32{
	{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}, {1, 1, 0},
	{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
}

// FrustumBounds computes the world-space axis-aligned bounding box of a view
// frustum by unprojecting the eight clip-space corners through the inverse of
// the combined view-projection matrix.
//
// Parameters:
//   - viewProj: the combined Projection * View matrix (16 floats, column-major)
//
// Returns:
//   - Bounds: the world-space bounding box of the frustum
//   - bool: false if viewProj is singular and no bounds could be computed
func FrustumBounds(viewProj []float32) (Bounds, bool) {
	var inv [16]float32
	if !Invert4(inv[:], viewProj) {
		return Bounds{}, false
	}

	b := Bounds{
		Min: [3]float32{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: [3]float32{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for _, c := range ndcCorners {
		x, y, z := TransformPoint(inv[:], c[0], c[1], c[2])
		b.Min[0] = math32.Min(b.Min[0], x)
		b.Min[1] = math32.Min(b.Min[1], y)
		b.Min[2] = math32.Min(b.Min[2], z)
		b.Max[0] = math32.Max(b.Max[0], x)
		b.Max[1] = math32.Max(b.Max[1], y)
		b.Max[2] = math32.Max(b.Max[2], z)
	}
	return b, true
}

// Contains reports whether a sphere intersects the bounds. This mirrors the
// cull shader's test and exists so the visibility logic can be verified on
// the CPU.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: true if the sphere touches or overlaps the box
func (b Bounds) Contains(center [3]float32, radius float32) bool {
	var distSq float32
	for i := 0; i < 3; i++ {
		v := center[i]
		if v < b.Min[i] {
			d := b.Min[i] - v
			distSq += d * d
		} else if v > b.Max[i] {
			d := v - b.Max[i]
			distSq += d * d
		}
	}
	return distSq <= radius*radius
}
