// Package scene owns the resource model: objects, models, textures, and
// samplers, each addressed by a scene-assigned id. Ids are dense and
// deterministic so they can double as GPU indices (object slot, texture
// array layer).
package scene

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/material"
	"github.com/Carmen-Shannon/prism-go/engine/model"
	"github.com/Carmen-Shannon/prism-go/engine/object"
)

// Scene manages the renderable resource registry. Objects reference models
// and textures by id; Validate checks that every reference resolves before
// the render system builds GPU state. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// CreateObject allocates a new object with an identity transform.
	// The object's Info must be filled in before the scene validates.
	//
	// Returns:
	//   - *object.Object: the new object
	CreateObject() *object.Object

	// Object retrieves an object by id.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's id
	//
	// Returns:
	//   - *object.Object: the object or nil
	Object(id uint32) *object.Object

	// RemoveObject removes an object from the scene.
	//
	// Parameters:
	//   - id: the object's id
	//
	// Returns:
	//   - bool: true if the object existed
	RemoveObject(id uint32) bool

	// Objects returns the live objects in ascending id order.
	//
	// Returns:
	//   - []*object.Object: the objects, id-ascending
	Objects() []*object.Object

	// ObjectCount returns the number of live objects.
	ObjectCount() int

	// RegisterModel registers mesh geometry and assigns it a model id.
	//
	// Parameters:
	//   - mesh: the geometry to register
	//
	// Returns:
	//   - *model.Model: the registered model
	//   - error: ConfigurationError if the mesh is invalid
	RegisterModel(mesh model.Mesh) (*model.Model, error)

	// Model retrieves a model by id.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the model's id
	//
	// Returns:
	//   - *model.Model: the model or nil
	Model(id uint32) *model.Model

	// Models returns the registered models in ascending id order.
	//
	// Returns:
	//   - []*model.Model: the models, id-ascending
	Models() []*model.Model

	// RegisterTexture registers RGBA8 pixel data and assigns it a texture
	// id, which is also the texture's layer in the shared texture array.
	// The sampler must already be registered.
	//
	// Parameters:
	//   - pixels: decoded RGBA8 pixels, width*height*4 bytes
	//   - width: image width in pixels
	//   - height: image height in pixels
	//   - samplerID: the sampler to filter this texture with
	//
	// Returns:
	//   - *material.Texture: the registered texture
	//   - error: ConfigurationError if the sampler is unregistered or the pixel data is inconsistent
	RegisterTexture(pixels []byte, width, height, samplerID uint32) (*material.Texture, error)

	// Texture retrieves a texture by id.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the texture's id
	//
	// Returns:
	//   - *material.Texture: the texture or nil
	Texture(id uint32) *material.Texture

	// Textures returns the registered textures in ascending id order.
	//
	// Returns:
	//   - []*material.Texture: the textures, id-ascending
	Textures() []*material.Texture

	// CreateSampler registers a sampler configuration and assigns it an id.
	//
	// Parameters:
	//   - config: filtering and wrapping settings
	//
	// Returns:
	//   - *material.Sampler: the registered sampler
	CreateSampler(config material.SamplerConfig) *material.Sampler

	// Sampler retrieves a sampler by id.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the sampler's id
	//
	// Returns:
	//   - *material.Sampler: the sampler or nil
	Sampler(id uint32) *material.Sampler

	// Samplers returns the registered samplers in ascending id order.
	//
	// Returns:
	//   - []*material.Sampler: the samplers, id-ascending
	Samplers() []*material.Sampler

	// Generation returns a counter that increments on every structural
	// change: object creation/removal, model registration, and texture
	// registration. The render system compares it against the generation
	// its indirect commands were built from.
	//
	// Returns:
	//   - uint64: the structural generation
	Generation() uint64

	// Validate checks that every object's ModelID and DiffuseID resolve to
	// registered resources, and that every texture's sampler resolves.
	//
	// Returns:
	//   - error: ConfigurationError naming the first dangling reference
	Validate() error

	// Clear removes all resources and resets the id allocators, so the
	// next allocation of each class starts at id 0 again.
	// Does not release GPU resources.
	Clear()

	// Save persists the scene to a file. Not yet implemented; always
	// returns nil.
	//
	// Parameters:
	//   - path: destination file path
	//
	// Returns:
	//   - error: always nil
	Save(path string) error

	// Load restores the scene from a file. Not yet implemented; always
	// returns nil.
	//
	// Parameters:
	//   - path: source file path
	//
	// Returns:
	//   - error: always nil
	Load(path string) error
}

type sceneImpl struct {
	mu *sync.RWMutex

	name string

	objectIDs  idAllocator
	modelIDs   idAllocator
	textureIDs idAllocator
	samplerIDs idAllocator

	objects  map[uint32]*object.Object
	models   map[uint32]*model.Model
	textures map[uint32]*material.Texture
	samplers map[uint32]*material.Sampler

	generation uint64
}

var _ Scene = &sceneImpl{}

// NewScene creates an empty scene.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:       &sync.RWMutex{},
		name:     "scene",
		objects:  make(map[uint32]*object.Object),
		models:   make(map[uint32]*model.Model),
		textures: make(map[uint32]*material.Texture),
		samplers: make(map[uint32]*material.Sampler),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *sceneImpl) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *sceneImpl) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *sceneImpl) CreateObject() *object.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := object.New(s.objectIDs.Allocate())
	s.objects[obj.ID()] = obj
	s.generation++
	return obj
}

func (s *sceneImpl) Object(id uint32) *object.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[id]
}

func (s *sceneImpl) RemoveObject(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return false
	}
	delete(s.objects, id)
	s.generation++
	return true
}

func (s *sceneImpl) Objects() []*object.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*object.Object, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *sceneImpl) ObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *sceneImpl) RegisterModel(mesh model.Mesh) (*model.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !mesh.Valid() {
		return nil, common.NewConfigurationError("scene", "mesh has no geometry or out-of-range indices")
	}
	m := model.New(s.modelIDs.Allocate(), mesh)
	s.models[m.ID()] = m
	s.generation++
	return m, nil
}

func (s *sceneImpl) Model(id uint32) *model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models[id]
}

func (s *sceneImpl) Models() []*model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Model, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *sceneImpl) RegisterTexture(pixels []byte, width, height, samplerID uint32) (*material.Texture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.samplers[samplerID]; !ok {
		return nil, common.NewConfigurationError("scene", "texture references unregistered sampler %d", samplerID)
	}
	staging := common.TextureStagingData{Pixels: pixels, Width: width, Height: height}
	tex, err := material.NewTexture(s.textureIDs.Allocate(), samplerID, staging)
	if err != nil {
		return nil, err
	}
	s.textures[tex.ID()] = tex
	// A new texture needs its array layer uploaded, which happens on the
	// next command rebuild.
	s.generation++
	return tex, nil
}

func (s *sceneImpl) Texture(id uint32) *material.Texture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textures[id]
}

func (s *sceneImpl) Textures() []*material.Texture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*material.Texture, 0, len(s.textures))
	for _, tex := range s.textures {
		out = append(out, tex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *sceneImpl) CreateSampler(config material.SamplerConfig) *material.Sampler {
	s.mu.Lock()
	defer s.mu.Unlock()
	smp := material.NewSampler(s.samplerIDs.Allocate(), config)
	s.samplers[smp.ID()] = smp
	return smp
}

func (s *sceneImpl) Sampler(id uint32) *material.Sampler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.samplers[id]
}

func (s *sceneImpl) Samplers() []*material.Sampler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*material.Sampler, 0, len(s.samplers))
	for _, smp := range s.samplers {
		out = append(out, smp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *sceneImpl) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *sceneImpl) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		if _, ok := s.models[obj.Info.ModelID]; !ok {
			return common.NewConfigurationError("scene",
				"object %d references unregistered model %d", obj.ID(), obj.Info.ModelID)
		}
		if _, ok := s.textures[obj.Info.DiffuseID]; !ok {
			return common.NewConfigurationError("scene",
				"object %d references unregistered texture %d", obj.ID(), obj.Info.DiffuseID)
		}
	}
	for _, tex := range s.textures {
		if _, ok := s.samplers[tex.SamplerID()]; !ok {
			return common.NewConfigurationError("scene",
				"texture %d references unregistered sampler %d", tex.ID(), tex.SamplerID())
		}
	}
	return nil
}

func (s *sceneImpl) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[uint32]*object.Object)
	s.models = make(map[uint32]*model.Model)
	s.textures = make(map[uint32]*material.Texture)
	s.samplers = make(map[uint32]*material.Sampler)
	s.objectIDs.Reset()
	s.modelIDs.Reset()
	s.textureIDs.Reset()
	s.samplerIDs.Reset()
	s.generation++
}

// TODO: serialize the resource registry once the on-disk format is settled.
func (s *sceneImpl) Save(path string) error {
	return nil
}

func (s *sceneImpl) Load(path string) error {
	return nil
}
