package scene

// idAllocator hands out sequential uint32 ids for one resource class.
// Allocation order is deterministic: the first id after construction or
// Reset is always 0. Ids are never reused until Reset.
type idAllocator struct {
	next uint32
}

// Allocate returns the next id in sequence.
func (a *idAllocator) Allocate() uint32 {
	id := a.next
	a.next++
	return id
}

// Reset returns the allocator to its initial state.
func (a *idAllocator) Reset() {
	a.next = 0
}
