// Package cull holds the GPU compute pass that tests every object against
// the view frustum and compacts the survivors into per-command instance
// index regions consumed by the indirect draws.
package cull

import (
	_ "embed"
)

// Source is the WGSL compute shader for the cull pass. Its SceneUniform,
// ObjectData, and DrawCommand structs mirror scene.GPUSceneUniform,
// object.GPUObjectData, and indirect.Command byte for byte.
//
//go:embed assets/cull.wgsl
var Source string

// WorkgroupSize is the dispatch granularity of the cull shader. Mirrors the
// @workgroup_size attribute in Source.
const WorkgroupSize = 64

// PipelineKey identifies the cull compute pipeline in the renderer's
// pipeline cache.
const PipelineKey = "cull_objects"

// WorkgroupCount returns the number of workgroups needed to cover every
// object.
//
// Parameters:
//   - totalObjects: the number of live objects
//
// Returns:
//   - uint32: ceil(totalObjects / WorkgroupSize)
func WorkgroupCount(totalObjects uint32) uint32 {
	return (totalObjects + WorkgroupSize - 1) / WorkgroupSize
}
