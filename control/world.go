package control

import (
	"context"

	"orrery/input"
	"orrery/internal/logging"
	"orrery/voxel"
)

// World moves the voxel viewer's fly camera.
type World struct {
	Camera *voxel.FlyCamera
	// MoveStep is in cells, TurnStep in degrees.
	MoveStep float32
	TurnStep float32
	Log      logging.Logger
}

func (c *World) Handle(ctx context.Context, key input.Key, action input.Action) Command {
	if !action.Triggers() {
		return CommandNone
	}
	cam := c.Camera
	switch key {
	case input.KeyW:
		cam.Move(c.MoveStep)
	case input.KeyS:
		cam.Move(-c.MoveStep)
	case input.KeyA:
		cam.Strafe(-c.MoveStep)
	case input.KeyD:
		cam.Strafe(c.MoveStep)
	case input.KeyLeft:
		cam.Turn(c.TurnStep)
	case input.KeyRight:
		cam.Turn(-c.TurnStep)
	case input.KeyUp:
		cam.Tilt(c.TurnStep)
	case input.KeyDown:
		cam.Tilt(-c.TurnStep)
	case input.KeyEscape:
		return CommandExit
	default:
		return CommandNone
	}

	if c.Log != nil {
		c.Log.Debug(ctx, "camera moved",
			logging.Any("position", cam.Position),
			logging.Float("pitch", cam.Pitch),
			logging.Float("yaw", cam.Yaw),
		)
	}
	return CommandNone
}
