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

// LoadOFF parses an Object File Format mesh. The header keyword may carry
// the ST (texture coordinate) and N (normal) prefixes, in which case each
// vertex line holds x y z [nx ny nz] [s t]. Faces are fan-triangulated and
// trailing per-face colors are ignored.
func LoadOFF(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open off %q: %w", path, err)
	}
	defer f.Close()

	m, err := ReadOFF(path, f)
	if err != nil {
		return nil, fmt.Errorf("parse off %q: %w", path, err)
	}
	return m, nil
}

func ReadOFF(name string, r io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(r)
	next := func() ([]string, error) {
		for scanner.Scan() {
			line := scanner.Text()
			if i := strings.IndexByte(line, '#'); i >= 0 {
				line = line[:i]
			}
			if fields := strings.Fields(line); len(fields) > 0 {
				return fields, nil
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	fields, err := next()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	keyword := fields[0]
	if !strings.HasSuffix(keyword, "OFF") {
		return nil, fmt.Errorf("header: want OFF keyword, got %q", keyword)
	}
	prefix := strings.TrimSuffix(keyword, "OFF")
	hasUV := strings.Contains(prefix, "ST")
	hasNormals := strings.Contains(prefix, "N")

	// The counts may share the header line.
	counts := fields[1:]
	if len(counts) == 0 {
		if counts, err = next(); err != nil {
			return nil, fmt.Errorf("counts: %w", err)
		}
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("counts: want vertex and face counts, got %q", strings.Join(counts, " "))
	}
	nv, err := strconv.Atoi(counts[0])
	if err != nil || nv < 0 {
		return nil, fmt.Errorf("vertex count %q", counts[0])
	}
	nf, err := strconv.Atoi(counts[1])
	if err != nil || nf < 0 {
		return nil, fmt.Errorf("face count %q", counts[1])
	}

	want := 3
	if hasNormals {
		want += 3
	}
	if hasUV {
		want += 2
	}

	vertices := make([]Vertex, nv)
	for i := range vertices {
		fields, err := next()
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		if len(fields) < want {
			return nil, fmt.Errorf("vertex %d: want %d values, got %d", i, want, len(fields))
		}
		vals, err := parseFloats(fields[:want])
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}

		v := Vertex{
			Position: math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]},
			Color:    ColorWhite,
		}
		rest := vals[3:]
		if hasNormals {
			v.Normal = math.Vec3{X: rest[0], Y: rest[1], Z: rest[2]}
			rest = rest[3:]
		}
		if hasUV {
			v.UV = math.Vec2{X: rest[0], Y: rest[1]}
		}
		vertices[i] = v
	}

	var indices []uint32
	for i := 0; i < nf; i++ {
		fields, err := next()
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 3 || len(fields) < n+1 {
			return nil, fmt.Errorf("face %d: bad vertex list %q", i, strings.Join(fields, " "))
		}
		face := make([]uint32, n)
		for j := range face {
			idx, err := strconv.Atoi(fields[j+1])
			if err != nil || idx < 0 || idx >= nv {
				return nil, fmt.Errorf("face %d: vertex index %q out of range", i, fields[j+1])
			}
			face[j] = uint32(idx)
		}
		for j := 1; j+1 < n; j++ {
			indices = append(indices, face[0], face[j], face[j+1])
		}
	}

	if !hasNormals {
		generateSmoothNormals(vertices, indices)
	}
	return CreateMeshFromData(name, vertices, indices), nil
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// generateSmoothNormals computes area-weighted normals and writes them to the vertex slice.
func generateSmoothNormals(vertices []Vertex, indices []uint32) {
	accum := make([]math.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0 := vertices[i0].Position
		v1 := vertices[i1].Position
		v2 := vertices[i2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if n, ok := accum[i].TryNormalize(); ok {
			vertices[i].Normal = n
		} else {
			vertices[i].Normal = math.Vec3Up
		}
	}
}
