package scene

import (
	"orrery/math"
)

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawLines                     // gl.LINES, pairs of indices form segments
	DrawLineStrip                 // gl.LINE_STRIP
)

// AABB is an axis-aligned box in mesh space.
type AABB struct {
	Min, Max math.Vec3
}

func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	DrawMode DrawMode

	Bounds AABB

	// GPUData is set by the renderer backend (an *opengl.GPUMesh).
	GPUData any
}

// CreateMeshFromData builds a Mesh and computes its bounds.
func CreateMeshFromData(name string, vertices []Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	m.Bounds = computeBounds(vertices)
	return m
}

func computeBounds(vertices []Vertex) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}
	lo := vertices[0].Position
	hi := vertices[0].Position
	for _, v := range vertices[1:] {
		p := v.Position
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return AABB{Min: lo, Max: hi}
}

// Normalize centers the mesh on its bounds and scales it so every vertex
// lies within the unit sphere. A model scaled by a body radius then has
// that radius.
func (m *Mesh) Normalize() {
	if len(m.Vertices) == 0 {
		return
	}
	c := m.Bounds.Center()
	var r float32
	for _, v := range m.Vertices {
		r = max(r, v.Position.Distance(c))
	}
	if r < math.Epsilon {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(c).Mul(1 / r)
	}
	m.Bounds = computeBounds(m.Vertices)
}

// Merge concatenates meshes of the same draw mode into one.
func Merge(name string, meshes ...*Mesh) *Mesh {
	var vertices []Vertex
	var indices []uint32
	for _, m := range meshes {
		base := uint32(len(vertices))
		vertices = append(vertices, m.Vertices...)
		for _, i := range m.Indices {
			indices = append(indices, base+i)
		}
	}
	return CreateMeshFromData(name, vertices, indices)
}

// TriangleCount counts indexed triangles.
func (m *Mesh) TriangleCount() int {
	if m.DrawMode != DrawTriangles {
		return 0
	}
	return len(m.Indices) / 3
}
