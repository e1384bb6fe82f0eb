package buffer

// PadStride rounds size up to the next multiple of align. align must be a
// power of two (wgpu alignment limits always are).
//
// Parameters:
//   - size: unpadded element size in bytes
//   - align: device minimum offset alignment
//
// Returns:
//   - uint64: the padded stride
func PadStride(size, align uint64) uint64 {
	if align == 0 {
		return size
	}
	return (size + align - 1) &^ (align - 1)
}
