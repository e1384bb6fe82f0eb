// Package camera computes the per-frame view, projection, and culling state
// consumed by the scene uniform.
package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/prism-go/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32
	up       [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	frustumCulling   bool
	occlusionCulling bool

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
	inverseViewMatrix    [16]float32
}

// Camera defines the interface for the camera system. The camera holds
// perspective settings and a position/target pair, and recomputes its
// matrices whenever either changes.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Target returns the world-space point the camera looks at.
	//
	// Returns:
	//   - x, y, z: target components
	Target() (x, y, z float32)

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// FrustumCullingEnabled reports whether the cull pass should test
	// objects against the view frustum.
	//
	// Returns:
	//   - bool: true when frustum culling is on
	FrustumCullingEnabled() bool

	// OcclusionCullingEnabled reports whether the cull pass should test
	// objects against the previous frame's depth. Reserved; the cull
	// shader currently ignores it.
	//
	// Returns:
	//   - bool: true when occlusion culling is on
	OcclusionCullingEnabled() bool

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseViewMatrix returns the inverse of the current view matrix as
	// 16 floats (column-major). The cull shader uses it to recover the
	// camera's world position.
	//
	// Returns:
	//   - [16]float32: the inverse view matrix
	InverseViewMatrix() [16]float32

	// FrustumBounds returns the world-space axis-aligned box enclosing the
	// current view frustum.
	//
	// Returns:
	//   - common.Bounds: the frustum bounds
	//   - bool: false if the view-projection matrix is singular
	FrustumBounds() (common.Bounds, bool)

	// SetPosition moves the camera and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetTarget repoints the camera and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: target components
	SetTarget(x, y, z float32)

	// SetUp sets the camera's up vector and recomputes matrices.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// EnableFrustumCulling toggles the cull pass frustum test.
	//
	// Parameters:
	//   - enabled: true to cull against the frustum
	EnableFrustumCulling(enabled bool)

	// EnableOcclusionCulling toggles the cull pass occlusion test.
	//
	// Parameters:
	//   - enabled: true to cull against depth
	EnableOcclusionCulling(enabled bool)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings: 45
// degree vertical field of view, looking down -Z from the origin, frustum
// culling enabled.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		position:       [3]float32{0, 0, 5},
		target:         [3]float32{0, 0, 0},
		up:             [3]float32{0, 1, 0},
		fov:            45.0 * (math.Pi / 180.0), // radians
		aspect:         1.0,
		near:           0.1,
		far:            100.0,
		frustumCulling: true,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target[0], c.target[1], c.target[2]
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) FrustumCullingEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustumCulling
}

func (c *cameraImpl) OcclusionCullingEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.occlusionCulling
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewMatrix
}

func (c *cameraImpl) FrustumBounds() (common.Bounds, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.FrustumBounds(c.viewProjectionMatrix[:])
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) EnableFrustumCulling(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frustumCulling = enabled
}

func (c *cameraImpl) EnableOcclusionCulling(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.occlusionCulling = enabled
}

// updateMatrices recalculates the view, projection, view-projection, and
// inverse view matrices. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	if !common.Invert4(c.inverseViewMatrix[:], c.viewMatrix[:]) {
		common.Identity(c.inverseViewMatrix[:])
	}
}
