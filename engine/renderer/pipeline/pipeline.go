// Package pipeline describes render and compute pipelines from embedded WGSL
// sources and explicit bind group layouts, and caches the created wgpu
// objects.
package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Type distinguishes render from compute pipelines.
type Type int

const (
	// TypeRender is a vertex+fragment pipeline.
	TypeRender Type = iota
	// TypeCompute is a compute pipeline.
	TypeCompute
)

// Pipeline carries everything the renderer needs to create and later bind a
// pipeline. The wgpu object is attached by the renderer at registration.
type Pipeline interface {
	// Key returns the cache key the renderer stores the pipeline under.
	//
	// Returns:
	//   - string: the unique pipeline key
	Key() string

	// Type returns the pipeline type.
	//
	// Returns:
	//   - Type: TypeRender or TypeCompute
	Type() Type

	// Source returns the WGSL source for the given stage entry point. Render
	// pipelines share one module for vertex and fragment stages.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// VertexEntry returns the vertex entry point name (render pipelines).
	VertexEntry() string

	// FragmentEntry returns the fragment entry point name (render pipelines).
	FragmentEntry() string

	// ComputeEntry returns the compute entry point name (compute pipelines).
	ComputeEntry() string

	// BindGroupLayouts returns the explicit layouts, ordered by group index.
	//
	// Returns:
	//   - []*wgpu.BindGroupLayout: the layouts
	BindGroupLayouts() []*wgpu.BindGroupLayout

	// VertexLayouts returns the vertex buffer layouts (render pipelines).
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, one per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// CullMode returns the face cull mode.
	CullMode() wgpu.CullMode

	// FrontFace returns the front face winding.
	FrontFace() wgpu.FrontFace

	// DepthTestEnabled reports whether depth testing is on.
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether depth writes are on.
	DepthWriteEnabled() bool

	// Pipeline returns the created wgpu pipeline object, either
	// *wgpu.RenderPipeline or *wgpu.ComputePipeline.
	//
	// Returns:
	//   - any: the wgpu pipeline, or nil before registration
	Pipeline() any

	// SetRenderPipeline attaches the created render pipeline.
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// SetComputePipeline attaches the created compute pipeline.
	SetComputePipeline(p *wgpu.ComputePipeline)
}

type pipelineImpl struct {
	key           string
	pipelineType  Type
	source        string
	vertexEntry   string
	fragmentEntry string
	computeEntry  string
	layouts       []*wgpu.BindGroupLayout
	vertexLayouts []wgpu.VertexBufferLayout
	topology      wgpu.PrimitiveTopology
	cullMode      wgpu.CullMode
	frontFace     wgpu.FrontFace
	depthTest     bool
	depthWrite    bool

	renderPipeline  *wgpu.RenderPipeline
	computePipeline *wgpu.ComputePipeline
}

var _ Pipeline = &pipelineImpl{}

func (p *pipelineImpl) Key() string                               { return p.key }
func (p *pipelineImpl) Type() Type                                { return p.pipelineType }
func (p *pipelineImpl) Source() string                            { return p.source }
func (p *pipelineImpl) VertexEntry() string                       { return p.vertexEntry }
func (p *pipelineImpl) FragmentEntry() string                     { return p.fragmentEntry }
func (p *pipelineImpl) ComputeEntry() string                      { return p.computeEntry }
func (p *pipelineImpl) BindGroupLayouts() []*wgpu.BindGroupLayout { return p.layouts }
func (p *pipelineImpl) VertexLayouts() []wgpu.VertexBufferLayout  { return p.vertexLayouts }
func (p *pipelineImpl) Topology() wgpu.PrimitiveTopology          { return p.topology }
func (p *pipelineImpl) CullMode() wgpu.CullMode                   { return p.cullMode }
func (p *pipelineImpl) FrontFace() wgpu.FrontFace                 { return p.frontFace }
func (p *pipelineImpl) DepthTestEnabled() bool                    { return p.depthTest }
func (p *pipelineImpl) DepthWriteEnabled() bool                   { return p.depthWrite }

func (p *pipelineImpl) Pipeline() any {
	if p.pipelineType == TypeCompute {
		if p.computePipeline == nil {
			return nil
		}
		return p.computePipeline
	}
	if p.renderPipeline == nil {
		return nil
	}
	return p.renderPipeline
}

func (p *pipelineImpl) SetRenderPipeline(rp *wgpu.RenderPipeline)   { p.renderPipeline = rp }
func (p *pipelineImpl) SetComputePipeline(cp *wgpu.ComputePipeline) { p.computePipeline = cp }
