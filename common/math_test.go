package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-4

func assertMat4Near(t *testing.T, expected, actual []float32) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, expected[i], actual[i], epsilon, "element %d", i)
	}
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], 1, 2, 3, 0.5, 0.25, 0.75, 2, 2, 2)

	Mul4(out[:], id[:], m[:])
	assertMat4Near(t, m[:], out[:])

	Mul4(out[:], m[:], id[:])
	assertMat4Near(t, m[:], out[:])
}

func TestMul4Aliasing(t *testing.T) {
	var a, b, want [16]float32
	BuildModelMatrix(a[:], 1, 0, 0, 0, 0, 0, 1, 1, 1)
	BuildModelMatrix(b[:], 0, 2, 0, 0, 0, 0, 1, 1, 1)
	Mul4(want[:], a[:], b[:])

	// out aliasing a must still produce the correct product.
	aCopy := a
	Mul4(aCopy[:], aCopy[:], b[:])
	assertMat4Near(t, want[:], aCopy[:])
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, prod, id [16]float32
	BuildModelMatrix(m[:], 4, -2, 7, 0.3, 1.1, -0.6, 1.5, 0.5, 3)
	Identity(id[:])

	assert.True(t, Invert4(inv[:], m[:]))
	Mul4(prod[:], m[:], inv[:])
	assertMat4Near(t, id[:], prod[:])
}

func TestInvert4Singular(t *testing.T) {
	var m, out [16]float32 // all-zero matrix has no inverse
	assert.False(t, Invert4(out[:], m[:]))
}

func TestTranspose4(t *testing.T) {
	var m, tr [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	Transpose4(tr[:], m[:])
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			assert.Equal(t, m[c*4+r], tr[r*4+c])
		}
	}

	// Transposing twice restores the original, including when aliased.
	Transpose4(tr[:], tr[:])
	assertMat4Near(t, m[:], tr[:])
}

func TestNormalMatrixClearsTranslation(t *testing.T) {
	var m, n [16]float32
	BuildModelMatrix(m[:], 10, 20, 30, 0, 0, 0, 1, 1, 1)
	NormalMatrix(n[:], m[:])

	assert.Zero(t, n[12])
	assert.Zero(t, n[13])
	assert.Zero(t, n[14])
	assert.Equal(t, float32(1), n[15])
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	// For a pure scale S the normal matrix is diag(1/sx, 1/sy, 1/sz).
	var m, n [16]float32
	BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, 2, 4, 8)
	NormalMatrix(n[:], m[:])

	assert.InDelta(t, 0.5, n[0], epsilon)
	assert.InDelta(t, 0.25, n[5], epsilon)
	assert.InDelta(t, 0.125, n[10], epsilon)
}

func TestBuildModelMatrixTranslationOnly(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 5, -3, 9, 0, 0, 0, 1, 1, 1)

	x, y, z := TransformPoint(m[:], 0, 0, 0)
	assert.InDelta(t, 5, x, epsilon)
	assert.InDelta(t, -3, y, epsilon)
	assert.InDelta(t, 9, z, epsilon)
}

func TestBuildModelMatrixRotationY(t *testing.T) {
	// 90 degrees around Y maps +X to -Z.
	var m [16]float32
	BuildModelMatrix(m[:], 0, 0, 0, 0, math32.Pi/2, 0, 1, 1, 1)

	x, y, z := TransformPoint(m[:], 1, 0, 0)
	assert.InDelta(t, 0, x, epsilon)
	assert.InDelta(t, 0, y, epsilon)
	assert.InDelta(t, -1, z, epsilon)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], math32.Pi/3, 16.0/9.0, 0.1, 100)

	// Points on the near plane map to z=0, far plane to z=1 (WebGPU clip space).
	_, _, zn := TransformPoint(proj[:], 0, 0, -0.1)
	_, _, zf := TransformPoint(proj[:], 0, 0, -100)
	assert.InDelta(t, 0, zn, epsilon)
	assert.InDelta(t, 1, zf, epsilon)
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 3, 4, 5, 0, 0, 0, 0, 1, 0)

	x, y, z := TransformPoint(view[:], 3, 4, 5)
	assert.InDelta(t, 0, x, epsilon)
	assert.InDelta(t, 0, y, epsilon)
	assert.InDelta(t, 0, z, epsilon)

	// The target lies in front of the camera (negative view-space Z).
	_, _, tz := TransformPoint(view[:], 0, 0, 0)
	assert.Less(t, tz, float32(0))
}

func TestSliceToBytes(t *testing.T) {
	data := []float32{1, 2}
	b := SliceToBytes(data)
	assert.Len(t, b, 8)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, b[:4])

	assert.Nil(t, SliceToBytes([]float32(nil)))
}
