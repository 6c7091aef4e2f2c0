// Package compose turns the simulated solar system and the current view into
// an ordered list of draw calls. It never touches the GPU; the renderer
// package executes what it returns.
package compose

import (
	"orrery/math"
	"orrery/sim"
	"orrery/view"
)

// Technique names a shader program. The value is the basename of its
// .vert/.frag pair.
type Technique string

const (
	TechniqueColor      Technique = "color"
	TechniquePhong      Technique = "phong"
	TechniqueEarth      Technique = "earth"
	TechniqueSun        Technique = "sun"
	TechniqueSolidColor Technique = "solid_color"
	TechniqueCube       Technique = "cube"
)

// Mesh ids the renderer must provide.
const (
	MeshSphere         = "sphere"
	MeshQuad           = "quad"
	MeshVehicle        = "vehicle"
	MeshPath           = "path"
	MeshControlPolygon = "control_polygon"
	MeshAxis           = "axis"
	MeshCube           = "cube"
)

// Texture ids. Each one except the glow is loaded from <id>.png.
const (
	TextureSun     = "sun"
	TextureMercury = "mercury"
	TextureVenus   = "venus"
	TextureDay     = "day"
	TextureNight   = "night"
	TextureClouds  = "clouds"
	TextureGloss   = "gloss"
	TextureMoon    = "moon"
	TextureMars    = "mars"
	TextureStars   = "stars2"
	TextureShip    = "ship"
	TextureGlow    = "sunglow"
)

// Textures lists the ids backed by image files.
func Textures() []string {
	return []string{
		TextureSun, TextureMercury, TextureVenus,
		TextureDay, TextureNight, TextureClouds, TextureGloss,
		TextureMoon, TextureMars, TextureStars, TextureShip,
	}
}

// Techniques lists every program the solar viewer compiles.
func Techniques() []Technique {
	return []Technique{TechniqueColor, TechniquePhong, TechniqueEarth, TechniqueSun, TechniqueSolidColor}
}

type BlendMode int

const (
	BlendNone BlendMode = iota
	// BlendAlpha is SRC_ALPHA, ONE_MINUS_SRC_ALPHA.
	BlendAlpha
)

// RenderState is applied before a draw and reset after the frame.
type RenderState struct {
	DepthTest  bool
	DepthWrite bool
	Blend      BlendMode
	CullFace   bool
}

// Opaque is the state every draw uses unless it says otherwise.
func Opaque() RenderState {
	return RenderState{DepthTest: true, DepthWrite: true}
}

type TextureBinding struct {
	Unit    int
	Texture string
}

// Uniform values are float32, int32, bool, math.Vec3, math.Vec4, math.Mat3
// or math.Mat4. An optional uniform may be missing from the program.
type Uniform struct {
	Name     string
	Value    any
	Optional bool
}

type DrawCall struct {
	Name      string
	Technique Technique
	Mesh      string
	Textures  []TextureBinding
	Uniforms  []Uniform
	State     RenderState
}

// Uniform returns the named uniform and whether the call sets it.
func (d DrawCall) Uniform(name string) (Uniform, bool) {
	for _, u := range d.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// FrameInput is everything one paint depends on.
type FrameInput struct {
	View       math.Mat4
	Projection math.Mat4
	Camera     view.Camera
	State      view.State
	System     *sim.System
	Clock      sim.Clock
}

var (
	pathColor    = math.Vec4{X: 1, Y: 0, Z: 0, W: 1}
	polygonColor = math.Vec4{X: 0.8, Y: 0.8, Z: 0.8, W: 1}
	axisColors   = [3]math.Vec4{
		{X: 1, Y: 0, Z: 0, W: 1},
		{X: 0, Y: 1, Z: 0, W: 1},
		{X: 0, Y: 0, Z: 1, W: 1},
	}
)

// Composer builds the draw list for the solar viewer.
type Composer struct {
	// GlowScale sizes the billboard in star radii.
	GlowScale float32
	// AxisLength is the length of the moving frame axes.
	AxisLength float32
}

func NewComposer() *Composer {
	return &Composer{GlowScale: 3, AxisLength: 0.5}
}

// DrawFrame returns the frame's draw calls in submission order.
func (c *Composer) DrawFrame(in FrameInput) []DrawCall {
	sys := in.System
	vp := in.View.Mul(in.Projection)
	grey := in.State.Greyscale
	star := sys.Star()
	light := star.Position.ToVec4(1).MulMat(in.View)

	calls := make([]DrawCall, 0, 16)
	calls = append(calls, c.overlays(in.State.Overlay, sys, vp, grey)...)

	model := star.Model()
	calls = append(calls, DrawCall{
		Name:      star.Name,
		Technique: TechniqueSun,
		Mesh:      MeshSphere,
		Textures:  []TextureBinding{{Unit: 0, Texture: TextureSun}},
		Uniforms: []Uniform{
			{Name: "modelview_projection_matrix", Value: model.Mul(vp)},
			{Name: "t", Value: in.Clock.Animation, Optional: true},
			{Name: "tex", Value: int32(0)},
			{Name: "greyscale", Value: grey},
		},
		State: Opaque(),
	})

	planets := []struct {
		body    int
		texture string
	}{
		{sim.Mercury, TextureMercury},
		{sim.Venus, TextureVenus},
		{sim.Moon, TextureMoon},
		{sim.Mars, TextureMars},
	}
	for _, p := range planets {
		b := &sys.Bodies[p.body]
		calls = append(calls, DrawCall{
			Name:      b.Name,
			Technique: TechniquePhong,
			Mesh:      MeshSphere,
			Textures:  []TextureBinding{{Unit: 0, Texture: p.texture}},
			Uniforms: append(lit(b.Model(), in.View, in.Projection, light),
				Uniform{Name: "tex", Value: int32(0)},
				Uniform{Name: "greyscale", Value: grey},
			),
			State: Opaque(),
		})
	}

	earth := &sys.Bodies[sim.Earth]
	calls = append(calls, DrawCall{
		Name:      earth.Name,
		Technique: TechniqueEarth,
		Mesh:      MeshSphere,
		Textures: []TextureBinding{
			{Unit: 0, Texture: TextureDay},
			{Unit: 1, Texture: TextureNight},
			{Unit: 2, Texture: TextureClouds},
			{Unit: 3, Texture: TextureGloss},
		},
		Uniforms: append(lit(earth.Model(), in.View, in.Projection, light),
			Uniform{Name: "day_texture", Value: int32(0)},
			Uniform{Name: "night_texture", Value: int32(1)},
			Uniform{Name: "cloud_texture", Value: int32(2)},
			Uniform{Name: "gloss_texture", Value: int32(3)},
			Uniform{Name: "greyscale", Value: grey},
		),
		State: Opaque(),
	})

	calls = append(calls, DrawCall{
		Name:      "vehicle",
		Technique: TechniquePhong,
		Mesh:      MeshVehicle,
		Textures:  []TextureBinding{{Unit: 0, Texture: TextureShip}},
		Uniforms: append(lit(sys.Vehicle.Model(), in.View, in.Projection, light),
			Uniform{Name: "tex", Value: int32(0)},
			Uniform{Name: "greyscale", Value: grey},
		),
		State: Opaque(),
	})

	model = sys.Stars.Model()
	calls = append(calls, DrawCall{
		Name:      sys.Stars.Name,
		Technique: TechniqueColor,
		Mesh:      MeshSphere,
		Textures:  []TextureBinding{{Unit: 0, Texture: TextureStars}},
		Uniforms:  textured(model.Mul(vp), grey),
		State:     Opaque(),
	})

	model = in.Camera.Billboard.Model(star.Position, c.GlowScale*star.Radius)
	glow := Opaque()
	glow.Blend = BlendAlpha
	calls = append(calls, DrawCall{
		Name:      "glow",
		Technique: TechniqueColor,
		Mesh:      MeshQuad,
		Textures:  []TextureBinding{{Unit: 0, Texture: TextureGlow}},
		Uniforms:  textured(model.Mul(vp), grey),
		State:     glow,
	})

	return calls
}

// overlays returns the path debug draws. Each mode includes the ones below
// it, frame first.
func (c *Composer) overlays(mode view.OverlayMode, sys *sim.System, vp math.Mat4, grey bool) []DrawCall {
	var calls []DrawCall
	if mode.ShowsFrame() {
		origin := sys.PathPosition()
		axes := [3]math.Vec3{sys.Frame.Tangent, sys.Frame.Normal, sys.Frame.Binormal}
		names := [3]string{"frame.tangent", "frame.normal", "frame.binormal"}
		for i, axis := range axes {
			model := axisModel(axis.Mul(c.AxisLength), origin)
			calls = append(calls, solid(names[i], MeshAxis, model.Mul(vp), axisColors[i], grey))
		}
	}
	if mode.ShowsControlPolygon() {
		calls = append(calls, solid("control_polygon", MeshControlPolygon, vp, polygonColor, grey))
	}
	if mode.ShowsPath() {
		calls = append(calls, solid("path", MeshPath, vp, pathColor, grey))
	}
	return calls
}

// axisModel maps the unit +x segment onto origin + axis.
func axisModel(axis, origin math.Vec3) math.Mat4 {
	m := math.Mat4Identity()
	m[0] = [4]float32{axis.X, axis.Y, axis.Z, 0}
	m[3] = [4]float32{origin.X, origin.Y, origin.Z, 1}
	return m
}

func solid(name, mesh string, mvp math.Mat4, color math.Vec4, grey bool) DrawCall {
	return DrawCall{
		Name:      name,
		Technique: TechniqueSolidColor,
		Mesh:      mesh,
		Uniforms: []Uniform{
			{Name: "modelview_projection_matrix", Value: mvp},
			{Name: "color", Value: color},
			{Name: "greyscale", Value: grey},
		},
		State: Opaque(),
	}
}

func lit(model, viewM, proj math.Mat4, light math.Vec4) []Uniform {
	mv := model.Mul(viewM)
	return []Uniform{
		{Name: "modelview_projection_matrix", Value: mv.Mul(proj)},
		{Name: "modelview_matrix", Value: mv},
		{Name: "normal_matrix", Value: mv.NormalMatrix()},
		{Name: "light_position", Value: light},
	}
}

func textured(mvp math.Mat4, grey bool) []Uniform {
	return []Uniform{
		{Name: "modelview_projection_matrix", Value: mvp},
		{Name: "tex", Value: int32(0)},
		{Name: "greyscale", Value: grey},
	}
}
