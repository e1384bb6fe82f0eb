package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/prism-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer drives the GPU: it owns the device, the surface, the pipeline
// cache, and the per-frame compute and render encoding. The per-frame flow is
// BeginComputeFrame / DispatchCompute / EndComputeFrame, then BeginFrame /
// DrawIndexedIndirect / EndFrame / Present. Compute work is submitted before
// the render pass, so indirect buffers written by a dispatch are complete by
// the time a draw reads them.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the
	// corresponding GPU pipeline objects (render or compute) via the backend,
	// then caching them by Key. Pipelines whose keys are already registered
	// are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Device returns the wgpu device for resource creation.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the wgpu queue for buffer and texture uploads.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// MinUniformAlignment returns the device's minimum uniform buffer offset
	// alignment.
	//
	// Returns:
	//   - uint64: the alignment in bytes
	MinUniformAlignment() uint64

	// MinStorageAlignment returns the device's minimum storage buffer offset
	// alignment.
	//
	// Returns:
	//   - uint64: the alignment in bytes
	MinStorageAlignment() uint64

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next
	// Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginComputeFrame creates a command encoder for batching all compute
	// dispatches of a frame into one submission. Must be paired with
	// EndComputeFrame.
	//
	// Returns:
	//   - error: an error if the command encoder could not be created
	BeginComputeFrame() error

	// DispatchCompute encodes a compute pass within the current compute
	// frame.
	//
	// Parameters:
	//   - pipelineKey: key of the registered compute pipeline
	//   - bindGroup: the bind group for group 0
	//   - workGroupCount: workgroup counts in x, y, z
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	DispatchCompute(pipelineKey string, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error

	// EndComputeFrame finishes and submits the batched compute encoder.
	EndComputeFrame()

	// BeginFrame acquires the next swapchain texture, creates a command
	// encoder, and begins the main render pass. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawIndexedIndirect encodes one indexed indirect draw in the current
	// render pass. The draw parameters, including the instance count the
	// cull pass wrote, are read from indirectBuffer at indirectOffset.
	//
	// Parameters:
	//   - pipelineKey: key of the registered render pipeline
	//   - vertexBuffer: the mesh vertex buffer for slot 0
	//   - indexBuffer: the mesh uint32 index buffer
	//   - indirectBuffer: buffer holding the 20-byte draw arguments
	//   - indirectOffset: byte offset of the draw arguments
	//   - bindGroups: bind groups set in index order starting at group 0
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	DrawIndexedIndirect(pipelineKey string, vertexBuffer, indexBuffer, indirectBuffer *wgpu.Buffer, indirectOffset uint64, bindGroups []*wgpu.BindGroup) error

	// EndFrame ends the render pass and submits the command buffer. Call
	// Present afterwards to display the frame.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Release frees the device and surface resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given window surface.
//
// Parameters:
//   - backendType: the rendering backend to use (currently only WGPU)
//   - window: the window providing the surface descriptor and size
//   - options: variadic RendererBuilderOption configuration
//
// Returns:
//   - Renderer: the configured renderer with its surface ready
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAAOff
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		if _, exists := r.pipelineCache[p.Key()]; exists {
			continue
		}
		var err error
		switch p.Type() {
		case pipeline.TypeCompute:
			err = r.backend.RegisterComputePipeline(p)
		default:
			err = r.backend.RegisterRenderPipeline(p)
		}
		if err != nil {
			return fmt.Errorf("registering pipeline %s: %w", p.Key(), err)
		}
		r.pipelineCache[p.Key()] = p
	}
	return nil
}

func (r *renderer) Device() *wgpu.Device        { return r.backend.Device() }
func (r *renderer) Queue() *wgpu.Queue          { return r.backend.Queue() }
func (r *renderer) MinUniformAlignment() uint64 { return r.backend.MinUniformAlignment() }
func (r *renderer) MinStorageAlignment() uint64 { return r.backend.MinStorageAlignment() }

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginComputeFrame() error {
	return r.backend.BeginComputeFrame()
}

func (r *renderer) DispatchCompute(pipelineKey string, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("compute pipeline %s not registered", pipelineKey)
	}
	r.backend.DispatchCompute(p, bindGroup, workGroupCount)
	return nil
}

func (r *renderer) EndComputeFrame() {
	r.backend.EndComputeFrame()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawIndexedIndirect(pipelineKey string, vertexBuffer, indexBuffer, indirectBuffer *wgpu.Buffer, indirectOffset uint64, bindGroups []*wgpu.BindGroup) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("render pipeline %s not registered", pipelineKey)
	}
	r.backend.DrawIndexedIndirect(p, vertexBuffer, indexBuffer, indirectBuffer, indirectOffset, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
