package common

// TextureStagingData holds decoded RGBA8 pixel data waiting to be uploaded
// into a layer of the scene's texture array.
type TextureStagingData struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// ByteSize returns the expected upload size of the staged pixels.
func (t TextureStagingData) ByteSize() uint64 {
	return uint64(t.Width) * uint64(t.Height) * 4
}

// Valid reports whether the staged pixel data matches its declared
// dimensions.
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && uint64(len(t.Pixels)) == t.ByteSize()
}
