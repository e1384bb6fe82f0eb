package descriptor

import (
	"sync"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/buffer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Write binds a resource to one binding of a set. Exactly one of Buffer,
// Sampler or TextureView must be set.
type Write struct {
	Binding     uint32
	Buffer      *buffer.Info
	Sampler     *wgpu.Sampler
	TextureView *wgpu.TextureView
}

// Pool allocates descriptor sets against fixed per-kind and set-count
// capacities declared up front. Exhaustion is deterministic: the same
// allocation sequence against the same sizing fails at the same point.
type Pool interface {
	// AddPoolSize declares capacity for a binding kind. Must be called
	// before BuildPool.
	//
	// Parameters:
	//   - kind: binding kind
	//   - count: number of descriptors of that kind the pool can serve
	//
	// Returns:
	//   - Pool: the pool, for chaining
	AddPoolSize(kind Kind, count uint32) Pool

	// BuildPool finalizes capacities.
	//
	// Parameters:
	//   - maxSets: total number of sets the pool can allocate
	//
	// Returns:
	//   - error: if the pool was already built
	BuildPool(maxSets uint32) error

	// AllocateSet reserves capacity for one set of the given layout.
	//
	// Parameters:
	//   - layout: the layout the set will be updated against
	//
	// Returns:
	//   - int: the set index within this pool
	//   - error: PoolExhaustedError when set or per-kind capacity runs out
	AllocateSet(layout Layout) (int, error)

	// UpdateSet points a set's bindings at concrete resources, replacing the
	// backing wgpu bind group atomically. Every binding of the set's layout
	// must be written.
	//
	// Parameters:
	//   - setIndex: index returned by AllocateSet
	//   - writes: one Write per binding
	//
	// Returns:
	//   - error: ConfigurationError for bad writes, AllocationError on device failure
	UpdateSet(setIndex int, writes []Write) error

	// Set returns the current bind group of a set, or nil before the first
	// UpdateSet.
	//
	// Parameters:
	//   - setIndex: index returned by AllocateSet
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group to bind at encode time
	Set(setIndex int) *wgpu.BindGroup

	// Release frees all bind groups held by the pool.
	Release()
}

type poolSet struct {
	layout Layout
	group  *wgpu.BindGroup
}

type poolImpl struct {
	mu        sync.Mutex
	device    *wgpu.Device
	label     string
	built     bool
	capacity  map[Kind]uint32
	remaining map[Kind]uint32
	maxSets   uint32
	sets      []poolSet
}

var _ Pool = &poolImpl{}

// NewPool creates an empty pool.
//
// Parameters:
//   - device: the wgpu device sets are created on
//   - label: debug label prefix for allocated bind groups
//
// Returns:
//   - Pool: the new pool
func NewPool(device *wgpu.Device, label string) Pool {
	return &poolImpl{
		device:    device,
		label:     label,
		capacity:  make(map[Kind]uint32),
		remaining: make(map[Kind]uint32),
	}
}

func (p *poolImpl) AddPoolSize(kind Kind, count uint32) Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.capacity[kind] += count
	p.remaining[kind] += count
	return p
}

func (p *poolImpl) BuildPool(maxSets uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.built {
		return common.NewConfigurationError(p.label, "pool already built")
	}
	p.maxSets = maxSets
	p.built = true
	return nil
}

func (p *poolImpl) AllocateSet(layout Layout) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.built {
		return 0, common.NewConfigurationError(p.label, "pool not built")
	}
	if uint32(len(p.sets)) >= p.maxSets {
		return 0, &common.PoolExhaustedError{Kind: "set", Requested: 1, Remaining: 0}
	}

	// Check all kinds before decrementing any, so a failed allocation does
	// not consume partial capacity.
	needed := make(map[Kind]uint32)
	for _, b := range layout.Bindings() {
		needed[b.Kind] += b.Count
	}
	for kind, n := range needed {
		if p.remaining[kind] < n {
			return 0, &common.PoolExhaustedError{
				Kind:      kind.String(),
				Requested: n,
				Remaining: p.remaining[kind],
			}
		}
	}
	for kind, n := range needed {
		p.remaining[kind] -= n
	}

	p.sets = append(p.sets, poolSet{layout: layout})
	return len(p.sets) - 1, nil
}

func (p *poolImpl) UpdateSet(setIndex int, writes []Write) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if setIndex < 0 || setIndex >= len(p.sets) {
		return common.NewConfigurationError(p.label, "set index %d out of range", setIndex)
	}
	set := &p.sets[setIndex]
	bindings := set.layout.Bindings()
	if len(writes) != len(bindings) {
		return common.NewConfigurationError(p.label,
			"set %d needs %d writes, got %d", setIndex, len(bindings), len(writes))
	}

	entries := make([]wgpu.BindGroupEntry, len(writes))
	for i, w := range writes {
		if int(w.Binding) >= len(bindings) {
			return common.NewConfigurationError(p.label,
				"write targets binding %d beyond layout", w.Binding)
		}
		entry := wgpu.BindGroupEntry{Binding: w.Binding}
		switch {
		case w.Buffer != nil:
			entry.Buffer = w.Buffer.Buffer
			entry.Offset = w.Buffer.Offset
			entry.Size = w.Buffer.Range
		case w.Sampler != nil:
			entry.Sampler = w.Sampler
		case w.TextureView != nil:
			entry.TextureView = w.TextureView
		default:
			return common.NewConfigurationError(p.label,
				"write for binding %d carries no resource", w.Binding)
		}
		entries[i] = entry
	}

	group, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.label,
		Layout:  set.layout.Handle(),
		Entries: entries,
	})
	if err != nil {
		return common.NewAllocationError(p.label, err)
	}
	if set.group != nil {
		set.group.Release()
	}
	set.group = group
	return nil
}

func (p *poolImpl) Set(setIndex int) *wgpu.BindGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	if setIndex < 0 || setIndex >= len(p.sets) {
		return nil
	}
	return p.sets[setIndex].group
}

func (p *poolImpl) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.sets {
		if p.sets[i].group != nil {
			p.sets[i].group.Release()
			p.sets[i].group = nil
		}
	}
	p.sets = nil
}
