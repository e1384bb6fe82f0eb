package material

import (
	"github.com/Carmen-Shannon/prism-go/common"
)

// Texture is a registered image with a scene-assigned id. The id doubles as
// the layer index of the render system's shared texture array, so shaders
// address a texture by its id directly.
type Texture struct {
	id        uint32
	samplerID uint32
	staging   common.TextureStagingData
}

// NewTexture creates a texture resource from staged pixel data.
//
// Parameters:
//   - id: the scene-assigned texture id (also the texture array layer)
//   - samplerID: the sampler this texture is filtered with
//   - staging: decoded RGBA8 pixels
//
// Returns:
//   - *Texture: the new texture resource
//   - error: ConfigurationError if the staging data is inconsistent
func NewTexture(id, samplerID uint32, staging common.TextureStagingData) (*Texture, error) {
	if !staging.Valid() {
		return nil, common.NewConfigurationError("texture",
			"texture %d staging data is %dx%d but holds %d bytes", id, staging.Width, staging.Height, len(staging.Pixels))
	}
	return &Texture{id: id, samplerID: samplerID, staging: staging}, nil
}

// ID returns the scene-assigned texture id.
func (t *Texture) ID() uint32 {
	return t.id
}

// SamplerID returns the id of the sampler this texture uses.
func (t *Texture) SamplerID() uint32 {
	return t.samplerID
}

// Staging returns the staged pixel data awaiting upload.
func (t *Texture) Staging() common.TextureStagingData {
	return t.staging
}

// ReleaseStaging drops the CPU-side pixel copy after the texture array
// upload has completed.
func (t *Texture) ReleaseStaging() {
	t.staging.Pixels = nil
}
