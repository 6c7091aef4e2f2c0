package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"orrery/math"
)

// LoadGLTF opens a .glb or .gltf file and flattens every mesh referenced
// by a node into one triangle mesh, with each node's own translation,
// rotation and scale applied. The first base-color texture found is
// returned alongside.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var parts []*Mesh
	var tex *Texture
	for ni, node := range doc.Nodes {
		if node.Mesh == nil || *node.Mesh >= len(doc.Meshes) {
			continue
		}
		transform := nodeTransform(node)
		gm := doc.Meshes[*node.Mesh]
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, err := loadGLTFPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf %q node %d primitive %d: %w", path, ni, pi, err)
			}
			for i := range m.Vertices {
				v := &m.Vertices[i]
				v.Position = transform.MulPoint(v.Position)
				v.Normal = transform.NormalMatrix().MulVec(v.Normal).Normalize()
			}
			parts = append(parts, m)

			if tex == nil && prim.Material != nil {
				tex = baseColorTexture(doc, *prim.Material, filepath.Dir(path))
			}
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangle geometry", path)
	}
	return &Model{Mesh: Merge(filepath.Base(path), parts...), Texture: tex}, nil
}

func nodeTransform(n *gltf.Node) math.Mat4 {
	t := n.TranslationOrDefault()
	s := n.ScaleOrDefault()
	r := n.RotationOrDefault() // [x, y, z, w]
	q := math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}

	rot := math.Mat4Identity()
	for i, axis := range []math.Vec3{math.Vec3Right, math.Vec3Up, math.Vec3Front} {
		a := q.RotateVector(axis)
		rot[i] = [4]float32{a.X, a.Y, a.Z, 0}
	}
	return math.Mat4Scale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}).
		Mul(rot).
		Mul(math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}))
}

// loadGLTFPrimitive converts one glTF mesh primitive into a scene.Mesh.
func loadGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	verts := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
			Color:    ColorWhite,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m := CreateMeshFromData("primitive", verts, indices)
	if len(normals) == 0 {
		generateSmoothNormals(m.Vertices, m.Indices)
	}
	return m, nil
}

// baseColorTexture decodes the material's base-color image, either from a
// GLB buffer view or from a file next to the document. Failures yield nil
// so the configured texture is used instead.
func baseColorTexture(doc *gltf.Document, material int, dir string) *Texture {
	if material >= len(doc.Materials) {
		return nil
	}
	pbr := doc.Materials[material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil || pbr.BaseColorTexture.Index >= len(doc.Textures) {
		return nil
	}
	gt := doc.Textures[pbr.BaseColorTexture.Index]
	if gt.Source == nil || *gt.Source >= len(doc.Images) {
		return nil
	}
	img := doc.Images[*gt.Source]

	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil
		}
		tex, err := decodeImageBytes(img.Name, raw)
		if err != nil {
			return nil
		}
		return tex
	case img.URI != "" && !img.IsEmbeddedResource():
		tex, err := LoadTexture(filepath.Join(dir, img.URI))
		if err != nil {
			return nil
		}
		return tex
	}
	return nil
}
