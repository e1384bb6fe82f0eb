package scene

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/material"
	"github.com/Carmen-Shannon/prism-go/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleMesh() model.Mesh {
	return model.Mesh{
		Vertices: []model.GPUVertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func TestObjectIDsAreSequential(t *testing.T) {
	s := NewScene()
	a := s.CreateObject()
	b := s.CreateObject()
	c := s.CreateObject()
	assert.Equal(t, uint32(0), a.ID())
	assert.Equal(t, uint32(1), b.ID())
	assert.Equal(t, uint32(2), c.ID())
	assert.Equal(t, 3, s.ObjectCount())
}

func TestIDAllocatorsResetOnClear(t *testing.T) {
	s := NewScene()
	s.CreateObject()
	s.CreateObject()
	s.CreateSampler(material.SamplerConfig{})
	_, err := s.RegisterModel(triangleMesh())
	require.NoError(t, err)

	s.Clear()
	assert.Zero(t, s.ObjectCount())

	obj := s.CreateObject()
	assert.Equal(t, uint32(0), obj.ID())
	m, err := s.RegisterModel(triangleMesh())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), m.ID())
}

func TestRemovedObjectIDNotReused(t *testing.T) {
	s := NewScene()
	a := s.CreateObject()
	s.CreateObject()
	assert.True(t, s.RemoveObject(a.ID()))
	assert.False(t, s.RemoveObject(a.ID()))
	assert.Nil(t, s.Object(a.ID()))

	c := s.CreateObject()
	assert.Equal(t, uint32(2), c.ID())
}

func TestObjectsIterateAscending(t *testing.T) {
	s := NewScene()
	for range 8 {
		s.CreateObject()
	}
	s.RemoveObject(3)
	s.RemoveObject(5)

	objs := s.Objects()
	require.Len(t, objs, 6)
	for i := 1; i < len(objs); i++ {
		assert.Less(t, objs[i-1].ID(), objs[i].ID())
	}
}

func TestRegisterTextureRequiresSampler(t *testing.T) {
	s := NewScene()
	_, err := s.RegisterTexture(make([]byte, 4), 1, 1, 0)
	var cfgErr *common.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	smp := s.CreateSampler(material.SamplerConfig{})
	tex, err := s.RegisterTexture(make([]byte, 4), 1, 1, smp.ID())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), tex.ID())
	assert.Equal(t, smp.ID(), tex.SamplerID())
}

func TestRegisterTextureRejectsBadPixels(t *testing.T) {
	s := NewScene()
	smp := s.CreateSampler(material.SamplerConfig{})
	_, err := s.RegisterTexture(make([]byte, 3), 2, 2, smp.ID())
	var cfgErr *common.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRegisterModelRejectsInvalidMesh(t *testing.T) {
	s := NewScene()
	_, err := s.RegisterModel(model.Mesh{})
	var cfgErr *common.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateCatchesDanglingReferences(t *testing.T) {
	s := NewScene()
	smp := s.CreateSampler(material.SamplerConfig{})
	m, err := s.RegisterModel(triangleMesh())
	require.NoError(t, err)
	tex, err := s.RegisterTexture(make([]byte, 4), 1, 1, smp.ID())
	require.NoError(t, err)

	obj := s.CreateObject()
	obj.Info.ModelID = m.ID()
	obj.Info.DiffuseID = tex.ID()
	assert.NoError(t, s.Validate())

	obj.Info.ModelID = 99
	var cfgErr *common.ConfigurationError
	assert.ErrorAs(t, s.Validate(), &cfgErr)

	obj.Info.ModelID = m.ID()
	obj.Info.DiffuseID = 42
	assert.ErrorAs(t, s.Validate(), &cfgErr)
}

func TestGenerationTracksStructuralChanges(t *testing.T) {
	s := NewScene()
	gen := s.Generation()

	obj := s.CreateObject()
	assert.Greater(t, s.Generation(), gen)

	gen = s.Generation()
	obj.Transform.Translation = [3]float32{1, 2, 3}
	assert.Equal(t, gen, s.Generation(), "transform edits are not structural")

	s.RemoveObject(obj.ID())
	assert.Greater(t, s.Generation(), gen)

	gen = s.Generation()
	smp := s.CreateSampler(material.SamplerConfig{})
	assert.Equal(t, gen, s.Generation(), "sampler registration is not structural")

	_, err := s.RegisterTexture(make([]byte, 4), 1, 1, smp.ID())
	assert.NoError(t, err)
	assert.Greater(t, s.Generation(), gen, "a new texture forces a rebuild to upload its layer")
}

func TestSceneNameAndStubs(t *testing.T) {
	s := NewScene(WithName("level-1"))
	assert.Equal(t, "level-1", s.Name())
	s.SetName("level-2")
	assert.Equal(t, "level-2", s.Name())

	assert.NoError(t, s.Save("unused.scene"))
	assert.NoError(t, s.Load("unused.scene"))
}

func TestGPUSceneUniformLayout(t *testing.T) {
	var u GPUSceneUniform
	assert.Equal(t, GPUSceneUniformSize, int(unsafe.Sizeof(u)))

	u.Projection[0] = 2.5
	u.FrustumCulling = 1
	u.InstanceCount = 77
	buf := u.Marshal()
	require.Len(t, buf, GPUSceneUniformSize)
	assert.Equal(t, byte(1), buf[224])
	assert.Equal(t, byte(77), buf[232])
}
