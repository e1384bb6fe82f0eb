// Package render_system wires the scene, the indirect command builder, and
// the GPU cull pass into per-frame buffered resources and drives the frame:
// stage object data, dispatch the cull, issue the indirect draws.
package render_system

import (
	_ "embed"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/camera"
	"github.com/Carmen-Shannon/prism-go/engine/cull"
	"github.com/Carmen-Shannon/prism-go/engine/indirect"
	"github.com/Carmen-Shannon/prism-go/engine/material"
	"github.com/Carmen-Shannon/prism-go/engine/model"
	"github.com/Carmen-Shannon/prism-go/engine/renderer"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/buffer"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/descriptor"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/prism-go/engine/scene"
	"github.com/Carmen-Shannon/prism-go/internal/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// drawSource is the WGSL module holding the draw pass vertex and fragment
// entry points. Its SceneUniform and ObjectData structs mirror the cull
// shader's.
//
//go:embed assets/draw.wgsl
var drawSource string

// DrawPipelineKey identifies the draw render pipeline in the renderer's
// pipeline cache.
const DrawPipelineKey = "draw_scene"

// stagingChunk is the number of objects one worker task serializes.
const stagingChunk = 64

// Config sizes the render system at construction.
type Config struct {
	// FramesInFlight is the number of buffered frame slots, usually 2 or 3.
	FramesInFlight uint32
	// MaxTextures is the layer capacity of the shared texture array.
	// Registering more textures than this requires a new render system.
	MaxTextures uint32
	// Workers is the worker pool size for parallel object staging.
	// Zero means NumCPU-1.
	Workers int
}

// frameResources are the GPU buffers owned by one frame slot.
type frameResources struct {
	sceneUniform    buffer.Buffer
	objectData      buffer.Buffer
	instanceIndices buffer.Buffer
	indirectDraws   buffer.Buffer
}

// RenderSystem owns the GPU state derived from a scene and drives the
// per-frame update, cull, and draw passes. Frame slots are independent:
// frame f's buffers are only touched by UpdateScene/CullScene/DrawScene
// calls carrying that index.
type RenderSystem interface {
	// UpdateScene writes frame f's scene uniform from the camera, stages
	// every object slot, and resets the frame's indirect commands to their
	// zero-instance baseline.
	//
	// Parameters:
	//   - cam: the camera providing matrices, frustum bounds and cull flags
	//   - frame: frame index in [0, FramesInFlight)
	//
	// Returns:
	//   - error: ConfigurationError on a bad frame index or when the scene changed structurally since the last RebuildCommands
	UpdateScene(cam camera.Camera, frame uint32) error

	// CullScene records and submits the compute cull dispatch for frame f.
	// Must run after UpdateScene and before DrawScene for the same index.
	//
	// Parameters:
	//   - frame: frame index in [0, FramesInFlight)
	//
	// Returns:
	//   - error: encoder or dispatch failure
	CullScene(frame uint32) error

	// DrawScene encodes one indexed-indirect draw per command inside the
	// renderer's current render pass.
	//
	// Parameters:
	//   - frame: frame index in [0, FramesInFlight)
	//
	// Returns:
	//   - error: ConfigurationError on a bad frame index, draw encoding failure otherwise
	DrawScene(frame uint32) error

	// RebuildCommands re-derives the indirect command list and per-frame
	// buffers after a structural scene change (objects added or removed,
	// models or textures registered).
	//
	// Returns:
	//   - error: validation or allocation failure
	RebuildCommands() error

	// Commands returns the current command list.
	//
	// Returns:
	//   - *indirect.CommandList: the commands the draws are issued from
	Commands() *indirect.CommandList

	// FramesInFlight returns the number of buffered frame slots.
	FramesInFlight() uint32

	// Release frees all GPU resources owned by the render system.
	Release()
}

type renderSystemImpl struct {
	mu *sync.Mutex

	r   renderer.Renderer
	scn scene.Scene
	cfg Config

	stride    uint64
	slotCount uint32
	commands  *indirect.CommandList

	frames         []frameResources
	staging        []byte
	zeroedCommands []byte

	renderLayout descriptor.Layout
	cullLayout   descriptor.Layout
	renderPool   descriptor.Pool
	cullPool     descriptor.Pool

	// setTable maps FrameSlotIndex(frame, stage, StagesPerFrame) to the set
	// index within that stage's pool.
	setTable []int

	textureArray   *wgpu.Texture
	textureView    *wgpu.TextureView
	textureWidth   uint32
	textureHeight  uint32
	activeSampler  *wgpu.Sampler
	defaultSampler *wgpu.Sampler

	stagingPool worker.DynamicWorkerPool
	taskID      int
}

var _ RenderSystem = &renderSystemImpl{}

// New builds the full GPU state for a scene: mesh uploads, the texture
// array, per-frame buffers, descriptor layouts/pools/sets, and the cull and
// draw pipelines. Any failure aborts construction; there is no partial
// recovery.
//
// Parameters:
//   - r: the renderer owning the device
//   - scn: the validated scene to render
//   - cfg: frame, texture and worker sizing
//
// Returns:
//   - RenderSystem: the ready render system
//   - error: ConfigurationError, AllocationError or DeviceOperationError
func New(r renderer.Renderer, scn scene.Scene, cfg Config) (RenderSystem, error) {
	if cfg.FramesInFlight == 0 {
		return nil, common.NewConfigurationError("render system", "frames in flight must be at least 1")
	}
	if cfg.MaxTextures == 0 {
		return nil, common.NewConfigurationError("render system", "texture capacity must be at least 1")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = max(runtime.NumCPU()-1, 1)
	}

	if err := scn.Validate(); err != nil {
		return nil, err
	}

	stride, err := resolveObjectStride(r.MinStorageAlignment())
	if err != nil {
		return nil, err
	}

	s := &renderSystemImpl{
		mu:     &sync.Mutex{},
		r:      r,
		scn:    scn,
		cfg:    cfg,
		stride: stride,
	}

	if err := s.uploadMeshes(); err != nil {
		return nil, err
	}
	if err := s.uploadTextures(); err != nil {
		return nil, err
	}
	if err := s.createSamplers(); err != nil {
		return nil, err
	}
	if err := s.buildLayouts(); err != nil {
		return nil, err
	}
	if err := s.buildPools(); err != nil {
		return nil, err
	}
	if err := s.buildFrameResources(); err != nil {
		return nil, err
	}
	if err := s.registerPipelines(); err != nil {
		return nil, err
	}

	s.stagingPool = worker.NewDynamicWorkerPool(cfg.Workers, 256, 1*time.Second)

	logger.Info("render system ready",
		zap.Uint32("framesInFlight", cfg.FramesInFlight),
		zap.Uint32("objectSlots", s.slotCount),
		zap.Int("commands", len(s.commands.Commands)),
		zap.Uint32("maxTextures", cfg.MaxTextures),
		zap.Int("stagingWorkers", cfg.Workers),
	)
	return s, nil
}

func (s *renderSystemImpl) UpdateScene(cam camera.Camera, frame uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame >= s.cfg.FramesInFlight {
		return common.NewConfigurationError("render system",
			"frame %d out of range, %d in flight", frame, s.cfg.FramesInFlight)
	}
	if s.scn.Generation() != s.commands.Generation {
		return common.NewConfigurationError("render system",
			"scene changed structurally; call RebuildCommands before the next frame")
	}

	uniform := scene.GPUSceneUniform{
		Projection:    cam.ProjectionMatrix(),
		View:          cam.ViewMatrix(),
		InverseView:   cam.InverseViewMatrix(),
		InstanceCount: s.slotCount,
	}
	bounds, ok := cam.FrustumBounds()
	if ok {
		uniform.BoundsMin = bounds.Min
		uniform.BoundsMax = bounds.Max
		if cam.FrustumCullingEnabled() {
			uniform.FrustumCulling = 1
		}
	} else {
		logger.Warn("view-projection not invertible, frustum culling off this frame")
	}
	if cam.OcclusionCullingEnabled() {
		uniform.OcclusionCulling = 1
	}

	res := &s.frames[frame]
	if err := res.sceneUniform.WriteHostVisible(uniform.Marshal(), 0); err != nil {
		return err
	}

	s.stageObjects()
	if err := res.objectData.WriteHostVisible(s.staging, 0); err != nil {
		return err
	}
	res.objectData.Flush()

	// Cull shader atomics start each frame from zeroed instance counts.
	return res.indirectDraws.WriteHostVisible(s.zeroedCommands, 0)
}

func (s *renderSystemImpl) CullScene(frame uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame >= s.cfg.FramesInFlight {
		return common.NewConfigurationError("render system",
			"frame %d out of range, %d in flight", frame, s.cfg.FramesInFlight)
	}
	if s.slotCount == 0 {
		return nil
	}

	if err := s.r.BeginComputeFrame(); err != nil {
		return err
	}
	set := s.cullPool.Set(s.setTable[FrameSlotIndex(frame, StageCull, StagesPerFrame)])
	err := s.r.DispatchCompute(cull.PipelineKey, set, [3]uint32{cull.WorkgroupCount(s.slotCount), 1, 1})
	s.r.EndComputeFrame()
	return err
}

func (s *renderSystemImpl) DrawScene(frame uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame >= s.cfg.FramesInFlight {
		return common.NewConfigurationError("render system",
			"frame %d out of range, %d in flight", frame, s.cfg.FramesInFlight)
	}

	res := &s.frames[frame]
	set := s.renderPool.Set(s.setTable[FrameSlotIndex(frame, StageRender, StagesPerFrame)])
	for i, modelID := range s.commands.ModelIDs {
		m := s.scn.Model(modelID)
		if m == nil {
			continue
		}
		err := s.r.DrawIndexedIndirect(
			DrawPipelineKey,
			m.VertexBuffer(),
			m.IndexBuffer(),
			res.indirectDraws.Handle(),
			uint64(i)*indirect.CommandSize,
			[]*wgpu.BindGroup{set},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *renderSystemImpl) RebuildCommands() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scn.Validate(); err != nil {
		return err
	}
	if err := s.uploadMeshes(); err != nil {
		return err
	}
	if err := s.uploadTextures(); err != nil {
		return err
	}

	for i := range s.frames {
		s.releaseFrameBuffers(&s.frames[i])
	}
	if err := s.buildFrameResources(); err != nil {
		return err
	}
	logger.Debug("indirect commands rebuilt",
		zap.Uint32("objectSlots", s.slotCount),
		zap.Int("commands", len(s.commands.Commands)),
	)
	return nil
}

func (s *renderSystemImpl) Commands() *indirect.CommandList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands
}

func (s *renderSystemImpl) FramesInFlight() uint32 {
	return s.cfg.FramesInFlight
}

func (s *renderSystemImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stagingPool != nil {
		s.stagingPool.Stop()
		s.stagingPool = nil
	}
	for i := range s.frames {
		s.releaseFrameBuffers(&s.frames[i])
	}
	if s.renderPool != nil {
		s.renderPool.Release()
	}
	if s.cullPool != nil {
		s.cullPool.Release()
	}
	if s.renderLayout != nil {
		s.renderLayout.Release()
	}
	if s.cullLayout != nil {
		s.cullLayout.Release()
	}
	if s.textureView != nil {
		s.textureView.Release()
		s.textureView = nil
	}
	if s.textureArray != nil {
		s.textureArray.Release()
		s.textureArray = nil
	}
	if s.defaultSampler != nil {
		s.defaultSampler.Release()
		s.defaultSampler = nil
	}
	for _, smp := range s.scn.Samplers() {
		smp.Release()
	}
	for _, m := range s.scn.Models() {
		m.Release()
	}
}

// uploadMeshes creates device-local vertex and index buffers for every
// registered model. Already-uploaded models are skipped.
func (s *renderSystemImpl) uploadMeshes() error {
	for _, m := range s.scn.Models() {
		if err := m.UploadMesh(s.r.Device(), s.r.Queue()); err != nil {
			return err
		}
	}
	return nil
}

// uploadTextures creates the shared texture array on first call and copies
// every texture that still holds staged pixels into its layer. All layers
// share the dimensions of the first registered texture.
func (s *renderSystemImpl) uploadTextures() error {
	textures := s.scn.Textures()
	if uint32(len(textures)) > s.cfg.MaxTextures {
		return common.NewConfigurationError("render system",
			"%d textures registered, capacity is %d", len(textures), s.cfg.MaxTextures)
	}

	if s.textureArray == nil {
		s.textureWidth, s.textureHeight = 1, 1
		if len(textures) > 0 {
			first := textures[0].Staging()
			s.textureWidth, s.textureHeight = first.Width, first.Height
		}
		tex, err := s.r.Device().CreateTexture(&wgpu.TextureDescriptor{
			Label:     "scene-texture-array",
			Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Dimension: wgpu.TextureDimension2D,
			Size: wgpu.Extent3D{
				Width:              s.textureWidth,
				Height:             s.textureHeight,
				DepthOrArrayLayers: s.cfg.MaxTextures,
			},
			Format:        wgpu.TextureFormatRGBA8UnormSrgb,
			MipLevelCount: 1,
			SampleCount:   1,
		})
		if err != nil {
			return common.NewAllocationError("scene-texture-array", err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return common.NewAllocationError("scene-texture-array-view", err)
		}
		s.textureArray = tex
		s.textureView = view
	}

	for _, t := range textures {
		staging := t.Staging()
		if staging.Pixels == nil {
			continue // already uploaded
		}
		if t.ID() >= s.cfg.MaxTextures {
			return common.NewConfigurationError("render system",
				"texture %d exceeds the %d layer capacity", t.ID(), s.cfg.MaxTextures)
		}
		if staging.Width != s.textureWidth || staging.Height != s.textureHeight {
			return common.NewConfigurationError("render system",
				"texture %d is %dx%d, array layers are %dx%d",
				t.ID(), staging.Width, staging.Height, s.textureWidth, s.textureHeight)
		}
		s.r.Queue().WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  s.textureArray,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{Z: t.ID()},
				Aspect:   wgpu.TextureAspectAll,
			},
			staging.Pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  staging.Width * 4,
				RowsPerImage: staging.Height,
			},
			&wgpu.Extent3D{
				Width:              staging.Width,
				Height:             staging.Height,
				DepthOrArrayLayers: 1,
			},
		)
		t.ReleaseStaging()
	}
	return nil
}

// createSamplers builds the wgpu sampler for every registered config. The
// draw pass binds the lowest-id sampler; when the scene has none, a default
// linear sampler fills the binding.
func (s *renderSystemImpl) createSamplers() error {
	samplers := s.scn.Samplers()
	for _, smp := range samplers {
		if err := smp.CreateHandle(s.r.Device()); err != nil {
			return err
		}
	}
	if len(samplers) > 0 {
		s.activeSampler = samplers[0].Handle()
		return nil
	}

	desc := material.SamplerConfig{}.Descriptor()
	handle, err := s.r.Device().CreateSampler(&desc)
	if err != nil {
		return common.NewAllocationError("default-sampler", err)
	}
	s.defaultSampler = handle
	s.activeSampler = handle
	return nil
}

func (s *renderSystemImpl) buildLayouts() error {
	s.renderLayout = descriptor.NewLayout("render-set").
		AddBinding(descriptor.KindUniformBuffer, 1, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment).
		AddBinding(descriptor.KindReadOnlyStorageBuffer, 1, wgpu.ShaderStageVertex).
		AddBinding(descriptor.KindSampler, 1, wgpu.ShaderStageFragment).
		AddBinding(descriptor.KindSampledImage, 1, wgpu.ShaderStageFragment).
		AddBinding(descriptor.KindReadOnlyStorageBuffer, 1, wgpu.ShaderStageVertex)
	if err := s.renderLayout.Build(s.r.Device()); err != nil {
		return err
	}

	s.cullLayout = descriptor.NewLayout("cull-set").
		AddBinding(descriptor.KindUniformBuffer, 1, wgpu.ShaderStageCompute).
		AddBinding(descriptor.KindReadOnlyStorageBuffer, 1, wgpu.ShaderStageCompute).
		AddBinding(descriptor.KindStorageBuffer, 1, wgpu.ShaderStageCompute).
		AddBinding(descriptor.KindStorageBuffer, 1, wgpu.ShaderStageCompute)
	return s.cullLayout.Build(s.r.Device())
}

func (s *renderSystemImpl) buildPools() error {
	n := s.cfg.FramesInFlight

	s.renderPool = descriptor.NewPool(s.r.Device(), "render-pool").
		AddPoolSize(descriptor.KindUniformBuffer, n).
		AddPoolSize(descriptor.KindReadOnlyStorageBuffer, 2*n).
		AddPoolSize(descriptor.KindSampler, n).
		AddPoolSize(descriptor.KindSampledImage, n)
	if err := s.renderPool.BuildPool(n); err != nil {
		return err
	}

	s.cullPool = descriptor.NewPool(s.r.Device(), "cull-pool").
		AddPoolSize(descriptor.KindUniformBuffer, n).
		AddPoolSize(descriptor.KindReadOnlyStorageBuffer, n).
		AddPoolSize(descriptor.KindStorageBuffer, 2*n)
	if err := s.cullPool.BuildPool(n); err != nil {
		return err
	}

	s.setTable = make([]int, n*StagesPerFrame)
	for frame := uint32(0); frame < n; frame++ {
		renderSet, err := s.renderPool.AllocateSet(s.renderLayout)
		if err != nil {
			return err
		}
		cullSet, err := s.cullPool.AllocateSet(s.cullLayout)
		if err != nil {
			return err
		}
		s.setTable[FrameSlotIndex(frame, StageRender, StagesPerFrame)] = renderSet
		s.setTable[FrameSlotIndex(frame, StageCull, StagesPerFrame)] = cullSet
	}
	return nil
}

// buildFrameResources derives the command list from the scene, sizes the
// per-frame buffers, and points every frame's sets at them. Called at
// construction and again on every RebuildCommands.
func (s *renderSystemImpl) buildFrameResources() error {
	s.commands = indirect.Build(s.scn)
	s.zeroedCommands = indirect.MarshalCommandsZeroed(s.commands.Commands)

	s.slotCount = 0
	for _, obj := range s.scn.Objects() {
		if obj.ID()+1 > s.slotCount {
			s.slotCount = obj.ID() + 1
		}
	}
	s.staging = make([]byte, uint64(max(s.slotCount, 1))*s.stride)

	device, queue := s.r.Device(), s.r.Queue()
	s.frames = make([]frameResources, s.cfg.FramesInFlight)
	for frame := range s.frames {
		res := &s.frames[frame]
		var err error
		res.sceneUniform, err = buffer.New(device, queue, buffer.Descriptor{
			Label:       "scene-uniform",
			Size:        scene.GPUSceneUniformSize,
			Usage:       wgpu.BufferUsageUniform,
			HostVisible: true,
		})
		if err != nil {
			return err
		}
		res.objectData, err = buffer.New(device, queue, buffer.Descriptor{
			Label:       "object-data",
			Size:        uint64(max(s.slotCount, 1)) * s.stride,
			Usage:       wgpu.BufferUsageStorage,
			HostVisible: true,
		})
		if err != nil {
			return err
		}
		res.instanceIndices, err = buffer.New(device, queue, buffer.Descriptor{
			Label: "instance-indices",
			Size:  4 * uint64(max(s.commands.TotalInstances, 1)),
			Usage: wgpu.BufferUsageStorage,
		})
		if err != nil {
			return err
		}
		res.indirectDraws, err = buffer.New(device, queue, buffer.Descriptor{
			Label:       "indirect-draws",
			Size:        indirect.CommandSize * uint64(max(len(s.commands.Commands), 1)),
			Usage:       wgpu.BufferUsageIndirect | wgpu.BufferUsageStorage,
			HostVisible: true,
		})
		if err != nil {
			return err
		}
		if err := s.updateFrameSets(uint32(frame)); err != nil {
			return err
		}
	}
	return nil
}

// updateFrameSets points one frame's render and cull sets at its buffers.
func (s *renderSystemImpl) updateFrameSets(frame uint32) error {
	res := &s.frames[frame]

	uniformInfo := res.sceneUniform.DescriptorInfo()
	objectInfo := res.objectData.DescriptorInfo()
	instanceInfo := res.instanceIndices.DescriptorInfo()
	indirectInfo := res.indirectDraws.DescriptorInfo()

	renderSet := s.setTable[FrameSlotIndex(frame, StageRender, StagesPerFrame)]
	err := s.renderPool.UpdateSet(renderSet, []descriptor.Write{
		{Binding: 0, Buffer: &uniformInfo},
		{Binding: 1, Buffer: &objectInfo},
		{Binding: 2, Sampler: s.activeSampler},
		{Binding: 3, TextureView: s.textureView},
		{Binding: 4, Buffer: &instanceInfo},
	})
	if err != nil {
		return err
	}

	cullSet := s.setTable[FrameSlotIndex(frame, StageCull, StagesPerFrame)]
	return s.cullPool.UpdateSet(cullSet, []descriptor.Write{
		{Binding: 0, Buffer: &uniformInfo},
		{Binding: 1, Buffer: &objectInfo},
		{Binding: 2, Buffer: &indirectInfo},
		{Binding: 3, Buffer: &instanceInfo},
	})
}

func (s *renderSystemImpl) registerPipelines() error {
	return s.r.RegisterPipelines(
		pipeline.NewComputePipeline(cull.PipelineKey, cull.Source,
			[]*wgpu.BindGroupLayout{s.cullLayout.Handle()}),
		pipeline.NewRenderPipeline(DrawPipelineKey, drawSource,
			[]*wgpu.BindGroupLayout{s.renderLayout.Handle()},
			pipeline.WithVertexLayouts(model.VertexBufferLayout()),
		),
	)
}

// stageObjects serializes every object slot into the staging image, fanning
// the work out across the worker pool. Each task owns a disjoint id range,
// so no two tasks touch the same bytes.
func (s *renderSystemImpl) stageObjects() {
	markSlotsVacant(s.staging)

	objects := s.scn.Objects()
	if len(objects) == 0 {
		return
	}
	if len(objects) <= stagingChunk || s.stagingPool == nil {
		stageObjectRange(s.staging, objects, s.commands.CommandIndexOf)
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < len(objects); start += stagingChunk {
		end := min(start+stagingChunk, len(objects))
		chunk := objects[start:end]

		wg.Add(1)
		s.taskID++
		s.stagingPool.SubmitTask(worker.Task{
			ID: s.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				stageObjectRange(s.staging, chunk, s.commands.CommandIndexOf)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *renderSystemImpl) releaseFrameBuffers(res *frameResources) {
	if res.sceneUniform != nil {
		res.sceneUniform.Release()
		res.sceneUniform = nil
	}
	if res.objectData != nil {
		res.objectData.Release()
		res.objectData = nil
	}
	if res.instanceIndices != nil {
		res.instanceIndices.Release()
		res.instanceIndices = nil
	}
	if res.indirectDraws != nil {
		res.indirectDraws.Release()
		res.indirectDraws = nil
	}
}
