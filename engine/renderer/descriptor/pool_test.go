package descriptor

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderLayoutFixture() Layout {
	return NewLayout("render").
		AddBinding(KindUniformBuffer, 1, wgpu.ShaderStageVertex).
		AddBinding(KindReadOnlyStorageBuffer, 1, wgpu.ShaderStageVertex).
		AddBinding(KindSampler, 1, wgpu.ShaderStageFragment).
		AddBinding(KindSampledImage, 1, wgpu.ShaderStageFragment)
}

func TestPoolAllocatesUpToCapacity(t *testing.T) {
	// Sized for exactly two render sets.
	p := NewPool(nil, "test").
		AddPoolSize(KindUniformBuffer, 2).
		AddPoolSize(KindReadOnlyStorageBuffer, 2).
		AddPoolSize(KindSampler, 2).
		AddPoolSize(KindSampledImage, 2)
	require.NoError(t, p.BuildPool(2))

	layout := renderLayoutFixture()
	i0, err := p.AllocateSet(layout)
	require.NoError(t, err)
	i1, err := p.AllocateSet(layout)
	require.NoError(t, err)
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)

	_, err = p.AllocateSet(layout)
	var exhausted *common.PoolExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, "set", exhausted.Kind)
}

func TestPoolPerKindExhaustion(t *testing.T) {
	// Plenty of sets, but only one sampler descriptor.
	p := NewPool(nil, "test").
		AddPoolSize(KindUniformBuffer, 8).
		AddPoolSize(KindReadOnlyStorageBuffer, 8).
		AddPoolSize(KindSampler, 1).
		AddPoolSize(KindSampledImage, 8)
	require.NoError(t, p.BuildPool(8))

	layout := renderLayoutFixture()
	_, err := p.AllocateSet(layout)
	require.NoError(t, err)

	_, err = p.AllocateSet(layout)
	var exhausted *common.PoolExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, "sampler", exhausted.Kind)
	assert.Equal(t, uint32(0), exhausted.Remaining)
}

func TestPoolFailedAllocationConsumesNothing(t *testing.T) {
	p := NewPool(nil, "test").
		AddPoolSize(KindUniformBuffer, 4).
		AddPoolSize(KindReadOnlyStorageBuffer, 4).
		AddPoolSize(KindSampledImage, 4)
	// No sampler capacity at all.
	require.NoError(t, p.BuildPool(4))

	full := renderLayoutFixture()
	_, err := p.AllocateSet(full)
	require.Error(t, err)

	// A layout without samplers still fits: the failed allocation above must
	// not have burned buffer capacity.
	noSampler := NewLayout("cull").
		AddBinding(KindUniformBuffer, 1, wgpu.ShaderStageCompute).
		AddBinding(KindReadOnlyStorageBuffer, 1, wgpu.ShaderStageCompute)
	for i := 0; i < 4; i++ {
		_, err := p.AllocateSet(noSampler)
		require.NoError(t, err, "allocation %d", i)
	}
}

func TestPoolExhaustionIsDeterministic(t *testing.T) {
	build := func() Pool {
		p := NewPool(nil, "test").
			AddPoolSize(KindUniformBuffer, 3)
		_ = p.BuildPool(8)
		return p
	}
	layout := NewLayout("uniform-only").
		AddBinding(KindUniformBuffer, 1, wgpu.ShaderStageVertex)

	for run := 0; run < 3; run++ {
		p := build()
		var failedAt int
		for i := 0; ; i++ {
			if _, err := p.AllocateSet(layout); err != nil {
				failedAt = i
				break
			}
		}
		assert.Equal(t, 3, failedAt, "run %d", run)
	}
}

func TestPoolAllocateBeforeBuildFails(t *testing.T) {
	p := NewPool(nil, "test").AddPoolSize(KindUniformBuffer, 1)
	_, err := p.AllocateSet(renderLayoutFixture())
	var cfgErr *common.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestUpdateSetRejectsBadWrites(t *testing.T) {
	p := NewPool(nil, "test").
		AddPoolSize(KindUniformBuffer, 1)
	require.NoError(t, p.BuildPool(1))

	layout := NewLayout("uniform-only").
		AddBinding(KindUniformBuffer, 1, wgpu.ShaderStageVertex)
	idx, err := p.AllocateSet(layout)
	require.NoError(t, err)

	// Wrong write count.
	err = p.UpdateSet(idx, nil)
	var cfgErr *common.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	// Write with no resource attached.
	err = p.UpdateSet(idx, []Write{{Binding: 0}})
	assert.True(t, errors.As(err, &cfgErr))

	// Out-of-range set index.
	err = p.UpdateSet(5, []Write{{Binding: 0}})
	assert.True(t, errors.As(err, &cfgErr))
}
