package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-4

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	x, y, z := c.Position()
	assert.Equal(t, [3]float32{x, y, z}, [3]float32{0, 0, 5})
	assert.InDelta(t, 45.0*(math.Pi/180.0), c.Fov(), epsilon)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.True(t, c.FrustumCullingEnabled())
	assert.False(t, c.OcclusionCullingEnabled())
}

func TestCameraBuilderOptions(t *testing.T) {
	c := NewCamera(
		WithPosition(1, 2, 3),
		WithTarget(1, 2, 0),
		WithAspect(16.0/9.0),
		WithNear(0.5),
		WithFar(200),
		WithFrustumCulling(false),
		WithOcclusionCulling(true),
	)
	x, y, z := c.Position()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{x, y, z})
	assert.InDelta(t, 16.0/9.0, c.Aspect(), epsilon)
	assert.False(t, c.FrustumCullingEnabled())
	assert.True(t, c.OcclusionCullingEnabled())
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 5), WithTarget(0, 0, 0))
	view := c.ViewMatrix()

	// The camera sits on +Z looking at the origin; the view transform moves
	// the eye to the origin, so the eye position maps to (0,0,0).
	ex := view[0]*0 + view[4]*0 + view[8]*5 + view[12]
	ey := view[1]*0 + view[5]*0 + view[9]*5 + view[13]
	ez := view[2]*0 + view[6]*0 + view[10]*5 + view[14]
	assert.InDelta(t, 0, ex, epsilon)
	assert.InDelta(t, 0, ey, epsilon)
	assert.InDelta(t, 0, ez, epsilon)
}

func TestInverseViewRecoversCameraPosition(t *testing.T) {
	c := NewCamera(WithPosition(3, 4, 5), WithTarget(0, 0, 0))
	inv := c.InverseViewMatrix()

	// The inverse view's translation column is the camera's world position.
	assert.InDelta(t, 3, inv[12], epsilon)
	assert.InDelta(t, 4, inv[13], epsilon)
	assert.InDelta(t, 5, inv[14], epsilon)
}

func TestSettersRecomputeMatrices(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()

	c.SetPosition(10, 0, 10)
	after := c.ViewProjectionMatrix()
	assert.NotEqual(t, before, after)

	c.SetFov(60.0 * (math.Pi / 180.0))
	assert.NotEqual(t, after, c.ViewProjectionMatrix())
}

func TestFrustumBoundsContainTarget(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10), WithTarget(0, 0, 0))
	bounds, ok := c.FrustumBounds()
	assert.True(t, ok)
	assert.True(t, bounds.Contains([3]float32{0, 0, 0}, 0.1))
	// A point far behind the camera is outside the frustum box.
	assert.False(t, bounds.Contains([3]float32{0, 0, 500}, 0.1))
}

func TestCullingToggles(t *testing.T) {
	c := NewCamera()
	c.EnableFrustumCulling(false)
	c.EnableOcclusionCulling(true)
	assert.False(t, c.FrustumCullingEnabled())
	assert.True(t, c.OcclusionCullingEnabled())
}
