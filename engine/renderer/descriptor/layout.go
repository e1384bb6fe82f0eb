// Package descriptor manages bind group layouts, capacity-accounted pools
// and bind group (set) allocation for the render and cull pipelines.
package descriptor

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Kind classifies a binding for layout construction and pool accounting.
type Kind int

const (
	// KindUniformBuffer is a read-only uniform binding.
	KindUniformBuffer Kind = iota
	// KindStorageBuffer is a read-write storage binding.
	KindStorageBuffer
	// KindReadOnlyStorageBuffer is a storage binding the shader never writes.
	KindReadOnlyStorageBuffer
	// KindDynamicUniformBuffer is a uniform binding bound with a dynamic
	// offset at draw time.
	KindDynamicUniformBuffer
	// KindSampler is a filtering sampler binding.
	KindSampler
	// KindSampledImage is a 2D array texture binding.
	KindSampledImage
)

// String returns the kind name used in pool exhaustion errors.
func (k Kind) String() string {
	switch k {
	case KindUniformBuffer:
		return "uniform-buffer"
	case KindStorageBuffer:
		return "storage-buffer"
	case KindReadOnlyStorageBuffer:
		return "read-only-storage-buffer"
	case KindDynamicUniformBuffer:
		return "dynamic-uniform-buffer"
	case KindSampler:
		return "sampler"
	case KindSampledImage:
		return "sampled-image"
	default:
		return "unknown"
	}
}

// Binding is one entry of a layout. Its index is its position in the
// declaration order.
type Binding struct {
	Kind       Kind
	Count      uint32
	Visibility wgpu.ShaderStage
}

// Layout builds a wgpu bind group layout from an ordered list of bindings.
type Layout interface {
	// AddBinding appends a binding; the binding index is the call order.
	//
	// Parameters:
	//   - kind: binding classification
	//   - count: descriptor count for pool accounting (usually 1)
	//   - visibility: shader stages that can access the binding
	//
	// Returns:
	//   - Layout: the layout, for chaining
	AddBinding(kind Kind, count uint32, visibility wgpu.ShaderStage) Layout

	// Bindings returns the declared bindings in index order.
	//
	// Returns:
	//   - []Binding: the bindings
	Bindings() []Binding

	// Build creates the wgpu layout. Must be called exactly once, after all
	// bindings are declared.
	//
	// Parameters:
	//   - device: the wgpu device
	//
	// Returns:
	//   - error: AllocationError on device failure
	Build(device *wgpu.Device) error

	// Handle returns the built wgpu layout, or nil before Build.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the raw handle
	Handle() *wgpu.BindGroupLayout

	// Release frees the wgpu layout.
	Release()
}

type layoutImpl struct {
	label    string
	bindings []Binding
	handle   *wgpu.BindGroupLayout
}

var _ Layout = &layoutImpl{}

// NewLayout creates an empty layout.
//
// Parameters:
//   - label: debug label for the wgpu object
//
// Returns:
//   - Layout: the new layout
func NewLayout(label string) Layout {
	return &layoutImpl{label: label}
}

func (l *layoutImpl) AddBinding(kind Kind, count uint32, visibility wgpu.ShaderStage) Layout {
	l.bindings = append(l.bindings, Binding{Kind: kind, Count: count, Visibility: visibility})
	return l
}

func (l *layoutImpl) Bindings() []Binding {
	out := make([]Binding, len(l.bindings))
	copy(out, l.bindings)
	return out
}

// entries translates the declared bindings into wgpu layout entries. Split
// from Build so the translation can be verified without a device.
func (l *layoutImpl) entries() []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, len(l.bindings))
	for i, b := range l.bindings {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: b.Visibility,
		}
		switch b.Kind {
		case KindUniformBuffer:
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case KindStorageBuffer:
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		case KindReadOnlyStorageBuffer:
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		case KindDynamicUniformBuffer:
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
			entry.Buffer.HasDynamicOffset = true
		case KindSampler:
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		case KindSampledImage:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
			entry.Texture.ViewDimension = wgpu.TextureViewDimension2DArray
		}
		entries[i] = entry
	}
	return entries
}

func (l *layoutImpl) Build(device *wgpu.Device) error {
	if l.handle != nil {
		return common.NewConfigurationError(l.label, "layout already built")
	}
	handle, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   l.label,
		Entries: l.entries(),
	})
	if err != nil {
		return common.NewAllocationError(l.label, err)
	}
	l.handle = handle
	return nil
}

func (l *layoutImpl) Handle() *wgpu.BindGroupLayout { return l.handle }

func (l *layoutImpl) Release() {
	if l.handle != nil {
		l.handle.Release()
		l.handle = nil
	}
}
