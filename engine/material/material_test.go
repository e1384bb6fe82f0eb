package material

import (
	"testing"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewTextureValidatesStaging(t *testing.T) {
	staging := common.TextureStagingData{
		Pixels: make([]byte, 2*2*4),
		Width:  2,
		Height: 2,
	}
	tex, err := NewTexture(3, 1, staging)
	assert.NoError(t, err)
	assert.Equal(t, uint32(3), tex.ID())
	assert.Equal(t, uint32(1), tex.SamplerID())
	assert.Equal(t, uint64(16), tex.Staging().ByteSize())

	short := common.TextureStagingData{Pixels: make([]byte, 3), Width: 2, Height: 2}
	_, err = NewTexture(4, 1, short)
	var cfgErr *common.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestReleaseStagingDropsPixels(t *testing.T) {
	staging := common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	tex, err := NewTexture(0, 0, staging)
	assert.NoError(t, err)

	tex.ReleaseStaging()
	assert.Nil(t, tex.Staging().Pixels)
}

func TestSamplerConfigDescriptorDefaults(t *testing.T) {
	desc := SamplerConfig{}.Descriptor()
	assert.Equal(t, wgpu.FilterModeLinear, desc.MagFilter)
	assert.Equal(t, wgpu.FilterModeLinear, desc.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeLinear, desc.MipmapFilter)
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeU)
	assert.Equal(t, uint16(1), desc.MaxAnisotropy)
	assert.Equal(t, wgpu.CompareFunctionUndefined, desc.Compare)
	assert.Equal(t, float32(32), desc.LodMaxClamp)
}

func TestSamplerConfigDescriptorAnisotropy(t *testing.T) {
	desc := SamplerConfig{AnisotropyEnabled: true}.Descriptor()
	assert.Equal(t, uint16(16), desc.MaxAnisotropy)

	desc = SamplerConfig{AnisotropyEnabled: true, MaxAnisotropy: 4}.Descriptor()
	assert.Equal(t, uint16(4), desc.MaxAnisotropy)
}

func TestSamplerConfigDescriptorExplicitModes(t *testing.T) {
	cfg := SamplerConfig{
		AddressMode: wgpu.AddressModeClampToEdge,
		MaxLod:      8,
	}
	desc := cfg.Descriptor()
	assert.Equal(t, wgpu.AddressModeClampToEdge, desc.AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, desc.AddressModeW)
	assert.Equal(t, float32(8), desc.LodMaxClamp)
}

func TestNewSamplerHoldsConfig(t *testing.T) {
	s := NewSampler(2, SamplerConfig{MaxLod: 4})
	assert.Equal(t, uint32(2), s.ID())
	assert.Equal(t, float32(4), s.Config().MaxLod)
	assert.Nil(t, s.Handle())
}
