package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"orrery/math"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

// LoadOBJ parses a Wavefront .obj file into a single mesh. Groups, objects
// and materials are flattened; the vehicle is drawn with one texture.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	m, err := ReadOBJ(path, f)
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}
	return m, nil
}

func ReadOBJ(name string, r io.Reader) (*Mesh, error) {
	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2
	var faces []objFace

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v", "vn":
			if len(fields) < 4 {
				continue
			}
			vals, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fields[0], err)
			}
			v := math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}
			if fields[0] == "v" {
				positions = append(positions, v)
			} else {
				normals = append(normals, v)
			}

		case "vt":
			if len(fields) < 3 {
				continue
			}
			vals, err := parseFloats(fields[1:3])
			if err != nil {
				return nil, fmt.Errorf("vt: %w", err)
			}
			uvs = append(uvs, math.Vec2{X: vals[0], Y: vals[1]})

		case "f":
			if len(fields) < 4 {
				continue
			}
			fverts := make([]faceVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				faces = append(faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}

	return buildMeshFromOBJ(name, faces, positions, normals, uvs), nil
}

type faceVertex struct{ v, vt, vn int }

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn", "v/vt/vn".
// Returns 0-based indices (-1 if absent). OBJ is 1-based and negative
// indices count back from the latest element.
func parseFaceVertex(tok string, nv, nvt, nvn int) faceVertex {
	parseIdx := func(s string, count int) int {
		if s == "" {
			return -1
		}
		n, err := strconv.Atoi(s)
		switch {
		case err != nil:
			return -1
		case n > 0:
			return n - 1
		case n < 0:
			return count + n
		}
		return -1
	}
	parts := strings.Split(tok, "/")
	res := faceVertex{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0], nv)
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1], nvt)
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2], nvn)
	}
	return res
}

// buildMeshFromOBJ converts parsed face data into a deduplicated Mesh.
func buildMeshFromOBJ(name string, faces []objFace, positions, normals []math.Vec3, uvs []math.Vec2) *Mesh {
	vertMap := map[faceVertex]uint32{}
	var vertices []Vertex
	var indices []uint32

	at := func(s []math.Vec3, i int, def math.Vec3) math.Vec3 {
		if i >= 0 && i < len(s) {
			return s[i]
		}
		return def
	}

	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := faceVertex{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			idx, ok := vertMap[k]
			if !ok {
				v := Vertex{
					Position: at(positions, k.v, math.Vec3Zero),
					Normal:   at(normals, k.vn, math.Vec3Up),
					Color:    ColorWhite,
				}
				if k.vt >= 0 && k.vt < len(uvs) {
					v.UV = uvs[k.vt]
				}
				idx = uint32(len(vertices))
				vertices = append(vertices, v)
				vertMap[k] = idx
			}
			indices = append(indices, idx)
		}
	}

	if len(normals) == 0 {
		generateSmoothNormals(vertices, indices)
	}
	return CreateMeshFromData(name, vertices, indices)
}
