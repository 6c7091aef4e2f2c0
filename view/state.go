// Package view holds the camera-facing state of the solar viewer and the
// rig that turns it into an eye position each frame.
package view

import (
	"fmt"

	"orrery/math"
	"orrery/sim"
)

type TargetKind int

const (
	TargetBody TargetKind = iota
	TargetVehicle
)

// Target is exactly one of a body (by sim index) or the vehicle.
type Target struct {
	Kind TargetKind
	Body int
}

func BodyTarget(index int) Target { return Target{Kind: TargetBody, Body: index} }
func VehicleTarget() Target       { return Target{Kind: TargetVehicle} }

func (t Target) IsVehicle() bool { return t.Kind == TargetVehicle }

func (t Target) String() string {
	if t.IsVehicle() {
		return "vehicle"
	}
	return fmt.Sprintf("body %d", t.Body)
}

// OverlayMode selects the path debug overlays. Levels are cumulative: each
// mode also shows every overlay of the modes below it.
type OverlayMode int

const (
	OverlayNone OverlayMode = iota
	OverlayPath
	OverlayControlPolygon
	OverlayFrame
	numOverlayModes
)

func (m OverlayMode) Next() OverlayMode {
	return (m + 1) % numOverlayModes
}

func (m OverlayMode) ShowsPath() bool           { return m >= OverlayPath }
func (m OverlayMode) ShowsControlPolygon() bool { return m >= OverlayControlPolygon }
func (m OverlayMode) ShowsFrame() bool          { return m >= OverlayFrame }

func (m OverlayMode) String() string {
	switch m {
	case OverlayPath:
		return "path"
	case OverlayControlPolygon:
		return "path+control-polygon"
	case OverlayFrame:
		return "path+control-polygon+frame"
	default:
		return "none"
	}
}

// Distance bounds, in target radii.
const (
	MinDistance = float32(2.5)
	MaxDistance = float32(20.0)
)

// State is everything the keyboard changes about how the scene is viewed.
// Angles are in degrees.
type State struct {
	Target    Target
	AngleX    float32
	AngleY    float32
	Distance  float32
	Greyscale bool
	Overlay   OverlayMode
}

func DefaultState() State {
	return State{
		Target:   BodyTarget(sim.Earth),
		Distance: 4.5,
	}
}

// Zoom changes the distance by delta and clamps it to the allowed range.
func (s *State) Zoom(delta float32) float32 {
	s.Distance = math.Clamp(s.Distance+delta, MinDistance, MaxDistance)
	return s.Distance
}
