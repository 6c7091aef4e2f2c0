// Package control maps key events onto the viewers' state.
package control

import (
	"context"
	"math/rand"

	"orrery/input"
	"orrery/internal/logging"
	"orrery/sim"
	"orrery/view"
)

// Command tells the host what to do after a key was handled.
type Command int

const (
	CommandNone Command = iota
	CommandExit
)

// Steps holds the per-press increments.
type Steps struct {
	Distance     float32 // target radii
	Angle        float32 // degrees
	Acceleration float32 // per tick
	Turn         float32 // degrees
}

func DefaultSteps() Steps {
	return Steps{Distance: 0.1, Angle: 10, Acceleration: 0.001, Turn: 2}
}

// Solar applies viewer commands. It holds pointers to state owned by the
// host and mutates it only from Handle.
type Solar struct {
	State  *view.State
	Clock  *sim.Clock
	System *sim.System
	Steps  Steps
	Rand   *rand.Rand
	Log    logging.Logger

	// LastBillboard is reported when the clock is toggled.
	LastBillboard view.Billboard
}

func (c *Solar) logger() logging.Logger {
	if c.Log == nil {
		return logging.Noop()
	}
	return c.Log
}

// Handle applies one key event. Press and repeat both trigger.
func (c *Solar) Handle(ctx context.Context, key input.Key, action input.Action) Command {
	if !action.Triggers() {
		return CommandNone
	}
	st := c.State
	log := c.logger()

	if d, ok := key.IsDigit(); ok {
		switch {
		case d <= sim.NumBodies:
			st.Target = view.BodyTarget(d - 1)
			log.Debug(ctx, "target changed", logging.String("target", c.System.Bodies[d-1].Name))
		case d == 7:
			st.Target = view.VehicleTarget()
			log.Debug(ctx, "target changed", logging.String("target", "vehicle"))
		case d == 8:
			st.Zoom(-c.Steps.Distance)
		case d == 9:
			st.Zoom(c.Steps.Distance)
		}
		return CommandNone
	}

	switch key {
	case input.KeyR:
		if c.Rand != nil {
			days := c.System.Randomize(c.Rand, c.Clock)
			log.Info(ctx, "planets randomized", logging.Float("days", days))
		}
	case input.KeyG:
		st.Greyscale = !st.Greyscale
	case input.KeyC:
		st.Overlay = st.Overlay.Next()
		log.Info(ctx, "curve display", logging.String("mode", st.Overlay.String()))
	case input.KeyT:
		on := c.System.Frame.ToggleParallelTransport()
		log.Info(ctx, "parallel transport", logging.Bool("enabled", on))

	case input.KeyW, input.KeyS, input.KeyA, input.KeyD:
		if st.Target.IsVehicle() {
			c.steer(key)
		}

	case input.KeyLeft:
		st.AngleY -= c.Steps.Angle
	case input.KeyRight:
		st.AngleY += c.Steps.Angle
	case input.KeyDown:
		st.AngleX += c.Steps.Angle
	case input.KeyUp:
		st.AngleX -= c.Steps.Angle

	case input.KeySpace:
		active := c.Clock.Toggle()
		log.Info(ctx, "timer toggled",
			logging.Bool("active", active),
			logging.Float("pitch", st.AngleX),
			logging.Float("yaw", st.AngleY),
			logging.Float("billboard_pitch", c.LastBillboard.Pitch),
			logging.Float("billboard_yaw", c.LastBillboard.Yaw),
		)
	case input.KeyP, input.KeyKPAdd, input.KeyEqual:
		log.Info(ctx, "time step", logging.Float("days", c.Clock.Faster()))
	case input.KeyM, input.KeyKPSubtract, input.KeyMinus:
		log.Info(ctx, "time step", logging.Float("days", c.Clock.Slower()))

	case input.KeyEscape:
		return CommandExit
	}
	return CommandNone
}

func (c *Solar) steer(key input.Key) {
	v := &c.System.Vehicle
	switch key {
	case input.KeyW:
		v.Accelerate(c.Steps.Acceleration)
	case input.KeyS:
		v.Accelerate(-c.Steps.Acceleration)
	case input.KeyA:
		v.AccelerateAngular(c.Steps.Turn)
	case input.KeyD:
		v.AccelerateAngular(-c.Steps.Turn)
	}
}
