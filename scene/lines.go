package scene

import "orrery/math"

// CreatePolyline joins points in order as GL_LINES. closed adds the segment
// from the last point back to the first.
func CreatePolyline(name string, points []math.Vec3, closed bool, c Color) *Mesh {
	vertices := make([]Vertex, len(points))
	for i, p := range points {
		vertices[i] = Vertex{Position: p, Normal: math.Vec3Up, Color: c}
	}

	var indices []uint32
	n := len(points)
	for i := 0; i+1 < n; i++ {
		indices = append(indices, uint32(i), uint32(i+1))
	}
	if closed && n > 2 {
		indices = append(indices, uint32(n-1), 0)
	}

	m := CreateMeshFromData(name, vertices, indices)
	m.DrawMode = DrawLines
	return m
}

// CreateLineSegments draws each consecutive pair of points as one segment.
// A trailing unpaired point is ignored.
func CreateLineSegments(name string, points []math.Vec3, c Color) *Mesh {
	var vertices []Vertex
	var indices []uint32

	addLine := func(a, b math.Vec3) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			Vertex{Position: a, Normal: math.Vec3Up, Color: c},
			Vertex{Position: b, Normal: math.Vec3Up, Color: c},
		)
		indices = append(indices, base, base+1)
	}
	for i := 0; i+1 < len(points); i += 2 {
		addLine(points[i], points[i+1])
	}

	m := CreateMeshFromData(name, vertices, indices)
	m.DrawMode = DrawLines
	return m
}

// CreateAxis is the unit segment from the origin along +x. A model matrix
// whose first row is the wanted axis turns it into any direction.
func CreateAxis() *Mesh {
	return CreateLineSegments("Axis", []math.Vec3{math.Vec3Zero, math.Vec3Right}, ColorWhite)
}
