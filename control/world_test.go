package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"orrery/input"
	"orrery/math"
	"orrery/voxel"
)

func newWorld() *World {
	return &World{Camera: voxel.NewFlyCamera(math.Vec3Zero), MoveStep: 1, TurnStep: 10}
}

func TestWorldStrafeIsSymmetric(t *testing.T) {
	for _, yaw := range []float32{0, 30, 135} {
		w := newWorld()
		w.Camera.Yaw = yaw
		w.Handle(context.Background(), input.KeyD, input.Press)
		w.Handle(context.Background(), input.KeyA, input.Press)
		assert.True(t, w.Camera.Position.ApproxEqual(math.Vec3Zero, 1e-5), "yaw %v: %v", yaw, w.Camera.Position)
	}
}

func TestWorldMoveForwardAndBack(t *testing.T) {
	w := newWorld()
	w.Handle(context.Background(), input.KeyW, input.Press)
	assert.True(t, w.Camera.Position.ApproxEqual(math.Vec3{Z: -1}, 1e-5))
	w.Handle(context.Background(), input.KeyS, input.Repeat)
	assert.True(t, w.Camera.Position.ApproxEqual(math.Vec3Zero, 1e-5))
}

func TestWorldPitchClamp(t *testing.T) {
	w := newWorld()
	for range 20 {
		w.Handle(context.Background(), input.KeyUp, input.Repeat)
	}
	assert.Equal(t, float32(voxel.MaxPitch), w.Camera.Pitch)
	for range 40 {
		w.Handle(context.Background(), input.KeyDown, input.Repeat)
	}
	assert.Equal(t, float32(-voxel.MaxPitch), w.Camera.Pitch)
}

func TestWorldKeys(t *testing.T) {
	w := newWorld()
	w.Handle(context.Background(), input.KeyLeft, input.Press)
	assert.Equal(t, float32(10), w.Camera.Yaw)
	w.Handle(context.Background(), input.KeyRight, input.Release)
	assert.Equal(t, float32(10), w.Camera.Yaw)
	assert.Equal(t, CommandExit, w.Handle(context.Background(), input.KeyEscape, input.Press))
}
