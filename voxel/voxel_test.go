package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orrery/compose"
	"orrery/math"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(7, 16, 6)
	require.NoError(t, err)
	b, err := Generate(7, 16, 6)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Generate(8, 16, 6)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateBounds(t *testing.T) {
	voxels, err := Generate(1, 12, 5)
	require.NoError(t, err)

	columns := map[[2]int]int{}
	for _, v := range voxels {
		assert.GreaterOrEqual(t, v.X, 0)
		assert.Less(t, v.X, 12)
		assert.GreaterOrEqual(t, v.Z, 0)
		assert.Less(t, v.Z, 12)
		assert.GreaterOrEqual(t, v.Y, 0)
		assert.Less(t, v.Y, 5)
		columns[[2]int{v.X, v.Z}]++
	}
	// Every column has at least its ground block.
	assert.Len(t, columns, 12*12)
}

func TestGenerateIsNotFlat(t *testing.T) {
	voxels, err := Generate(3, 32, 16)
	require.NoError(t, err)

	tops := map[[2]int]int{}
	for _, v := range voxels {
		key := [2]int{v.X, v.Z}
		tops[key] = max(tops[key], v.Y+1)
	}
	heights := map[int]bool{}
	for _, h := range tops {
		heights[h] = true
	}
	assert.Greater(t, len(heights), 2)
}

func TestGenerateRejectsBadSizes(t *testing.T) {
	_, err := Generate(1, 0, 4)
	assert.Error(t, err)
	_, err = Generate(1, 4, 0)
	assert.Error(t, err)
}

func TestWorldMap(t *testing.T) {
	w, err := NewWorldMap([]Voxel{
		{X: 0, Y: 0, Z: 0, Kind: Stone},
		{X: 2, Y: 3, Z: 4, Kind: Grass},
		{X: 2, Y: 3, Z: 4, Kind: Snow},
	})
	require.NoError(t, err)
	require.Len(t, w.Cubes, 2)
	assert.Equal(t, Grass.Color(), w.Cubes[1].Color)
	assert.True(t, w.Occupied(2, 3, 4))
	assert.False(t, w.Occupied(1, 1, 1))
	assert.Equal(t, math.Vec3{X: 1, Y: 5, Z: 2}, w.StartPosition())

	_, err = NewWorldMap(nil)
	assert.Error(t, err)
}

func TestFlyCameraLooksAtPosition(t *testing.T) {
	c := NewFlyCamera(math.Vec3{X: 1, Y: 2, Z: 3})
	assert.True(t, c.Eye().ApproxEqual(math.Vec3{X: 1, Y: 2, Z: 4}, 1e-5))
	assert.True(t, c.View().MulPoint(c.Position).ApproxEqual(math.Vec3{Z: -1}, 1e-5))

	c.Turn(90)
	assert.True(t, c.Forward().ApproxEqual(math.Vec3{X: -1}, 1e-5))
	assert.True(t, c.Right().ApproxEqual(math.Vec3{Z: -1}, 1e-5))
}

func TestFlyCameraRightStaysLevel(t *testing.T) {
	c := NewFlyCamera(math.Vec3Zero)
	c.Turn(40)
	c.Tilt(60)
	assert.InDelta(t, 0, c.Right().Y, 1e-6)
	assert.InDelta(t, 0, c.Forward().Dot(c.Right()), 1e-5)
	assert.Greater(t, c.Forward().Y, float32(0))
}

func TestDrawFrame(t *testing.T) {
	w, err := NewWorldMap([]Voxel{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1, Kind: Snow}})
	require.NoError(t, err)

	calls := DrawFrame(w, math.Mat4Identity(), math.Mat4Identity())
	require.Len(t, calls, 2)
	for _, c := range calls {
		assert.Equal(t, compose.TechniqueCube, c.Technique)
		assert.Equal(t, compose.MeshCube, c.Mesh)
	}
	u, ok := calls[0].Uniform("modelview_projection_matrix")
	require.True(t, ok)
	assert.Equal(t, math.Mat4Translation(math.Vec3{X: 1}), u.Value)

	u, _ = calls[1].Uniform("color")
	assert.Equal(t, Snow.Color().Vec4(), u.Value)
}
