// Package material holds the texture and sampler resources referenced by
// scene objects. Textures are layers of the render system's shared texture
// array; samplers are created per registered configuration.
package material

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// SamplerConfig describes how a sampler filters and wraps. The zero value
// yields a linear, repeat-wrapped sampler without anisotropy.
type SamplerConfig struct {
	MagFilter         wgpu.FilterMode
	MinFilter         wgpu.FilterMode
	MipmapFilter      wgpu.MipmapFilterMode
	AddressMode       wgpu.AddressMode
	AnisotropyEnabled bool
	MaxAnisotropy     uint16
	MaxLod            float32
	CompareEnabled    bool
	Compare           wgpu.CompareFunction
}

// Sampler is a registered sampler configuration with a scene-assigned id.
// The wgpu handle is created at render system setup.
type Sampler struct {
	id     uint32
	config SamplerConfig

	handle *wgpu.Sampler
}

// NewSampler creates a sampler resource from a configuration.
//
// Parameters:
//   - id: the scene-assigned sampler id
//   - config: filtering and wrapping settings
//
// Returns:
//   - *Sampler: the new sampler resource
func NewSampler(id uint32, config SamplerConfig) *Sampler {
	return &Sampler{id: id, config: config}
}

// ID returns the scene-assigned sampler id.
func (s *Sampler) ID() uint32 {
	return s.id
}

// Config returns the sampler configuration.
func (s *Sampler) Config() SamplerConfig {
	return s.config
}

// Handle returns the wgpu sampler, nil before CreateHandle.
func (s *Sampler) Handle() *wgpu.Sampler {
	return s.handle
}

// CreateHandle builds the wgpu sampler for this configuration. Called once
// during render system setup.
//
// Parameters:
//   - device: the wgpu device
//
// Returns:
//   - error: AllocationError on device failure
func (s *Sampler) CreateHandle(device *wgpu.Device) error {
	if s.handle != nil {
		return nil
	}
	desc := s.config.Descriptor()
	handle, err := device.CreateSampler(&desc)
	if err != nil {
		return common.NewAllocationError("sampler", err)
	}
	s.handle = handle
	return nil
}

// Release frees the wgpu sampler.
func (s *Sampler) Release() {
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
}

// Descriptor translates the configuration into a wgpu sampler descriptor,
// filling unset fields with sensible defaults.
//
// Returns:
//   - wgpu.SamplerDescriptor: the descriptor ready for CreateSampler
func (c SamplerConfig) Descriptor() wgpu.SamplerDescriptor {
	maxAnisotropy := uint16(1)
	if c.AnisotropyEnabled {
		maxAnisotropy = common.Coalesce(c.MaxAnisotropy, 16)
	}
	compare := wgpu.CompareFunctionUndefined
	if c.CompareEnabled {
		compare = common.Coalesce(c.Compare, wgpu.CompareFunctionLessEqual)
	}
	return wgpu.SamplerDescriptor{
		Label:         "scene-sampler",
		AddressModeU:  common.Coalesce(c.AddressMode, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(c.AddressMode, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(c.AddressMode, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(c.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(c.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(c.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   0,
		LodMaxClamp:   common.Coalesce(c.MaxLod, 32),
		Compare:       compare,
		MaxAnisotropy: maxAnisotropy,
	}
}
