package voxel

import (
	"orrery/compose"
	"orrery/math"
)

// DrawFrame returns one cube draw per voxel with the cube technique.
func DrawFrame(w *WorldMap, viewM, proj math.Mat4) []compose.DrawCall {
	vp := viewM.Mul(proj)
	calls := make([]compose.DrawCall, len(w.Cubes))
	for i, c := range w.Cubes {
		calls[i] = compose.DrawCall{
			Name:      "cube",
			Technique: compose.TechniqueCube,
			Mesh:      compose.MeshCube,
			Uniforms: []compose.Uniform{
				{Name: "modelview_projection_matrix", Value: math.Mat4Translation(c.Position).Mul(vp)},
				{Name: "color", Value: c.Color.Vec4()},
			},
			State: compose.Opaque(),
		}
	}
	return calls
}
