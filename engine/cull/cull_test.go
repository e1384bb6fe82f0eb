package cull

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		objects uint32
		want    uint32
	}{
		{0, 0},
		{1, 1},
		{63, 1},
		{64, 1},
		{65, 2},
		{128, 2},
		{129, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkgroupCount(tt.objects), "objects=%d", tt.objects)
	}
}

func TestShaderMatchesWorkgroupSize(t *testing.T) {
	assert.Contains(t, Source, fmt.Sprintf("@workgroup_size(%d)", WorkgroupSize))
}

func TestShaderBindings(t *testing.T) {
	// Binding order is fixed by the render system's cull descriptor layout.
	assert.Contains(t, Source, "@group(0) @binding(0) var<uniform> scene")
	assert.Contains(t, Source, "@group(0) @binding(1) var<storage, read> objects")
	assert.Contains(t, Source, "@group(0) @binding(2) var<storage, read_write> commands")
	assert.Contains(t, Source, "@group(0) @binding(3) var<storage, read_write> instance_indices")
	assert.True(t, strings.Contains(Source, "atomicAdd"))
}
