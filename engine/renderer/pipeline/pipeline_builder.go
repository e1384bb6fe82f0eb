package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// Option mutates a pipeline under construction.
type Option func(*pipelineImpl)

// NewRenderPipeline describes a render pipeline from a WGSL module containing
// both vertex and fragment entry points.
//
// Parameters:
//   - key: unique cache key
//   - source: WGSL source with vertex and fragment entry points
//   - layouts: bind group layouts ordered by group index
//   - opts: optional configuration
//
// Returns:
//   - Pipeline: the pipeline description, ready for registration
func NewRenderPipeline(key, source string, layouts []*wgpu.BindGroupLayout, opts ...Option) Pipeline {
	p := &pipelineImpl{
		key:           key,
		pipelineType:  TypeRender,
		source:        source,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
		layouts:       layouts,
		topology:      wgpu.PrimitiveTopologyTriangleList,
		cullMode:      wgpu.CullModeBack,
		frontFace:     wgpu.FrontFaceCCW,
		depthTest:     true,
		depthWrite:    true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewComputePipeline describes a compute pipeline.
//
// Parameters:
//   - key: unique cache key
//   - source: WGSL source with a compute entry point
//   - layouts: bind group layouts ordered by group index
//   - opts: optional configuration
//
// Returns:
//   - Pipeline: the pipeline description, ready for registration
func NewComputePipeline(key, source string, layouts []*wgpu.BindGroupLayout, opts ...Option) Pipeline {
	p := &pipelineImpl{
		key:          key,
		pipelineType: TypeCompute,
		source:       source,
		computeEntry: "main",
		layouts:      layouts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithVertexLayouts sets the vertex buffer layouts.
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) Option {
	return func(p *pipelineImpl) {
		p.vertexLayouts = layouts
	}
}

// WithEntryPoints overrides the default entry point names.
func WithEntryPoints(vertex, fragment string) Option {
	return func(p *pipelineImpl) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithComputeEntry overrides the default compute entry point name.
func WithComputeEntry(entry string) Option {
	return func(p *pipelineImpl) {
		p.computeEntry = entry
	}
}

// WithCullMode sets the face cull mode.
func WithCullMode(mode wgpu.CullMode) Option {
	return func(p *pipelineImpl) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology.
func WithTopology(topology wgpu.PrimitiveTopology) Option {
	return func(p *pipelineImpl) {
		p.topology = topology
	}
}

// WithDepth configures depth testing and writing.
func WithDepth(test, write bool) Option {
	return func(p *pipelineImpl) {
		p.depthTest = test
		p.depthWrite = write
	}
}
