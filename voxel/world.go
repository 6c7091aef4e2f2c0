// Package voxel holds the block world shown by the world viewer and its
// first-person camera.
package voxel

import (
	"fmt"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"orrery/math"
	"orrery/scene"
)

// Kind is a block material.
type Kind int

const (
	Stone Kind = iota
	Dirt
	Grass
	Sand
	Snow
)

var kindColors = map[Kind]scene.Color{
	Stone: {R: 0.5, G: 0.5, B: 0.5, A: 1},
	Dirt:  {R: 0.45, G: 0.3, B: 0.15, A: 1},
	Grass: {R: 0.2, G: 0.65, B: 0.2, A: 1},
	Sand:  {R: 0.85, G: 0.8, B: 0.55, A: 1},
	Snow:  {R: 0.95, G: 0.95, B: 0.95, A: 1},
}

func (k Kind) Color() scene.Color {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return scene.ColorWhite
}

// Voxel is one unit block at integer grid coordinates.
type Voxel struct {
	X, Y, Z int
	Kind    Kind
}

// Cube is a voxel ready to draw: its world position and color.
type Cube struct {
	Position math.Vec3
	Color    scene.Color
}

// WorldMap is the static set of cubes.
type WorldMap struct {
	Cubes []Cube

	min, max [3]int
	occupied map[[3]int]bool
}

// NewWorldMap places one unit cube per voxel, centered on its grid cell.
// Duplicate coordinates keep the first voxel.
func NewWorldMap(voxels []Voxel) (*WorldMap, error) {
	if len(voxels) == 0 {
		return nil, fmt.Errorf("world map: no voxels")
	}
	w := &WorldMap{
		Cubes:    make([]Cube, 0, len(voxels)),
		occupied: make(map[[3]int]bool, len(voxels)),
	}
	w.min = [3]int{voxels[0].X, voxels[0].Y, voxels[0].Z}
	w.max = w.min
	for _, v := range voxels {
		key := [3]int{v.X, v.Y, v.Z}
		if w.occupied[key] {
			continue
		}
		w.occupied[key] = true
		for i := range key {
			w.min[i] = min(w.min[i], key[i])
			w.max[i] = max(w.max[i], key[i])
		}
		w.Cubes = append(w.Cubes, Cube{
			Position: math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)},
			Color:    v.Kind.Color(),
		})
	}
	return w, nil
}

// Occupied reports whether a voxel sits at x, y, z.
func (w *WorldMap) Occupied(x, y, z int) bool {
	return w.occupied[[3]int{x, y, z}]
}

// StartPosition is above the middle of the map, two cells over the
// tallest column.
func (w *WorldMap) StartPosition() math.Vec3 {
	return math.Vec3{
		X: float32(w.min[0]+w.max[0]) / 2,
		Y: float32(w.max[1] + 2),
		Z: float32(w.min[2]+w.max[2]) / 2,
	}
}

// Generate builds a size×size heightmap terrain at most maxHeight tall. The
// same seed gives the same world.
func Generate(seed int64, size, maxHeight int) ([]Voxel, error) {
	if size < 1 {
		return nil, fmt.Errorf("generate: size %d must be positive", size)
	}
	if maxHeight < 1 {
		return nil, fmt.Errorf("generate: max height %d must be positive", maxHeight)
	}
	heights := heightmap(seed, size, maxHeight)

	var voxels []Voxel
	for x := 0; x < size; x++ {
		for z := 0; z < size; z++ {
			top := heights[x][z]
			for y := 0; y < top; y++ {
				voxels = append(voxels, Voxel{X: x, Y: y, Z: z, Kind: kindAt(y, top, maxHeight)})
			}
		}
	}
	return voxels, nil
}

func kindAt(y, top, maxHeight int) Kind {
	switch {
	case y < top-3:
		return Stone
	case y < top-1:
		return Dirt
	case top >= maxHeight-1 && maxHeight > 3:
		return Snow
	case top <= 1:
		return Sand
	}
	return Grass
}

// layers are the fractal octaves summed into the heightmap. Cell is the
// feature size in blocks.
var layers = []struct {
	cell   float32
	weight float32
}{{8, 0.6}, {4, 0.3}, {2, 0.1}}

// heightmap sums one simplex noise field per layer, each seeded from the
// world seed.
func heightmap(seed int64, size, maxHeight int) [][]int {
	rng := rand.New(rand.NewSource(seed))
	fields := make([]opensimplex.Noise32, len(layers))
	for i := range layers {
		fields[i] = opensimplex.NewNormalized32(rng.Int63())
	}

	h := make([][]int, size)
	for x := range h {
		h[x] = make([]int, size)
		for z := range h[x] {
			var v float32
			for i, l := range layers {
				v += fields[i].Eval2(float32(x)/l.cell, float32(z)/l.cell) * l.weight
			}
			h[x][z] = 1 + int(v*float32(maxHeight-1)+0.5)
			h[x][z] = min(max(h[x][z], 1), maxHeight)
		}
	}
	return h
}
