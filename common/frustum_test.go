package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrustumBoundsIdentity(t *testing.T) {
	// With an identity view-projection the frustum is the clip-space box
	// itself: [-1,1] on x/y and [0,1] on z.
	var vp [16]float32
	Identity(vp[:])

	b, ok := FrustumBounds(vp[:])
	require.True(t, ok)
	assert.InDelta(t, -1, b.Min[0], epsilon)
	assert.InDelta(t, -1, b.Min[1], epsilon)
	assert.InDelta(t, 0, b.Min[2], epsilon)
	assert.InDelta(t, 1, b.Max[0], epsilon)
	assert.InDelta(t, 1, b.Max[1], epsilon)
	assert.InDelta(t, 1, b.Max[2], epsilon)
}

func TestFrustumBoundsSingular(t *testing.T) {
	var vp [16]float32
	_, ok := FrustumBounds(vp[:])
	assert.False(t, ok)
}

func TestFrustumBoundsPerspectiveCamera(t *testing.T) {
	// Camera at origin looking down -Z: everything between the near and far
	// planes along the view axis is inside the bounds, points behind the
	// camera are not.
	var proj, view, vp [16]float32
	Perspective(proj[:], math32.Pi/2, 1, 0.1, 100)
	LookAt(view[:], 0, 0, 0, 0, 0, -1, 0, 1, 0)
	Mul4(vp[:], proj[:], view[:])

	b, ok := FrustumBounds(vp[:])
	require.True(t, ok)

	assert.True(t, b.Contains([3]float32{0, 0, -50}, 0.01))
	assert.True(t, b.Contains([3]float32{0, 0, -0.2}, 0.01))
	assert.False(t, b.Contains([3]float32{0, 0, 50}, 0.01))
}

func TestBoundsContainsSphere(t *testing.T) {
	b := Bounds{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}

	tests := []struct {
		name   string
		center [3]float32
		radius float32
		want   bool
	}{
		{"inside", [3]float32{0, 0, 0}, 0.5, true},
		{"touching face", [3]float32{2, 0, 0}, 1, true},
		{"outside face", [3]float32{3, 0, 0}, 1, false},
		{"overlapping corner", [3]float32{1.5, 1.5, 1.5}, 1, true},
		{"outside corner", [3]float32{2, 2, 2}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Contains(tt.center, tt.radius))
		})
	}
}
