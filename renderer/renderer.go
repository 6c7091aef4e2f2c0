// Package renderer executes composed draw lists on the OpenGL backend. It
// owns every program, texture and mesh, keyed by the ids the compose
// package uses.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"orrery/compose"
	"orrery/internal/logging"
	"orrery/internal/opengl"
	"orrery/internal/telemetry"
	"orrery/scene"
)

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl       *opengl.Renderer
	programs map[compose.Technique]*opengl.Program
	textures map[string]*opengl.Texture
	meshes   map[string]*scene.Mesh

	ClearColor scene.Color

	log     logging.Logger
	metrics *telemetry.Metrics

	// reported holds per-call problems already logged, so a broken
	// uniform does not flood the log every frame.
	reported map[string]bool

	lastDraws int
}

// NewRenderEngine initialises OpenGL on the current context. metrics may
// be nil.
func NewRenderEngine(log logging.Logger, metrics *telemetry.Metrics) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	if log == nil {
		log = logging.Noop()
	}

	re := &RenderEngine{
		gl:         glRenderer,
		programs:   make(map[compose.Technique]*opengl.Program),
		textures:   make(map[string]*opengl.Texture),
		meshes:     make(map[string]*scene.Mesh),
		ClearColor: scene.ColorBlack,
		log:        log,
		metrics:    metrics,
		reported:   make(map[string]bool),
	}

	debug := glRenderer.EnableDebugOutput(func(m opengl.DebugMessage) {
		if m.Type == gl.DEBUG_TYPE_ERROR {
			re.log.Warn(context.Background(), "gl debug", logging.Int("id", int(m.ID)), logging.String("message", m.Message))
			return
		}
		re.log.Debug(context.Background(), "gl debug", logging.Int("id", int(m.ID)), logging.String("message", m.Message))
	})
	log.Info(context.Background(), "render engine initialized",
		logging.String("gl_version", glRenderer.Version),
		logging.Bool("debug_output", debug),
	)
	return re, nil
}

// LoadPrograms compiles dir/<technique>.vert and .frag for each technique.
func (re *RenderEngine) LoadPrograms(dir string, techniques ...compose.Technique) error {
	for _, t := range techniques {
		base := filepath.Join(dir, string(t))
		p, err := opengl.LoadProgram(base+".vert", base+".frag")
		if err != nil {
			return fmt.Errorf("program %s: %w", t, err)
		}
		if old, ok := re.programs[t]; ok {
			old.Delete()
		}
		re.programs[t] = p
	}
	return nil
}

// LoadTextures uploads the image named id in dir for each id, trying the
// extensions in scene.TextureExtensions.
func (re *RenderEngine) LoadTextures(dir string, ids ...string) error {
	for _, id := range ids {
		path, err := scene.FindTexture(dir, id)
		if err != nil {
			return err
		}
		tex := opengl.NewTexture2D(0)
		if err := tex.LoadImage(path); err != nil {
			return fmt.Errorf("texture %s: %w", id, err)
		}
		re.replaceTexture(id, tex)
	}
	return nil
}

// AddTexture uploads a CPU texture under id, replacing any previous one.
func (re *RenderEngine) AddTexture(id string, img *scene.Texture) error {
	tex := opengl.NewTexture2D(0)
	if err := tex.Upload(img); err != nil {
		return fmt.Errorf("texture %s: %w", id, err)
	}
	re.replaceTexture(id, tex)
	return nil
}

func (re *RenderEngine) replaceTexture(id string, tex *opengl.Texture) {
	if old, ok := re.textures[id]; ok {
		old.Delete()
	}
	re.textures[id] = tex
}

// AddMeshes registers meshes; they upload on first draw.
func (re *RenderEngine) AddMeshes(meshes map[string]*scene.Mesh) {
	for id, m := range meshes {
		if old, ok := re.meshes[id]; ok && old != m {
			re.gl.ReleaseMesh(old)
		}
		re.meshes[id] = m
	}
}

func (re *RenderEngine) Resize(width, height int) {
	re.gl.SetViewport(width, height)
}

// Aspect is the viewport's width over height, 1 before the first resize.
func (re *RenderEngine) Aspect() float32 {
	w, h := re.gl.Viewport()
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// Render clears the frame, executes calls in order and drains the GL error
// queue. Per-call problems are logged and the call is skipped.
func (re *RenderEngine) Render(ctx context.Context, calls []compose.DrawCall) {
	start := time.Now()
	re.gl.Clear(re.ClearColor)

	re.lastDraws = 0
	for i := range calls {
		if err := re.execute(&calls[i]); err != nil {
			re.reportOnce(ctx, calls[i].Name, err)
			continue
		}
		re.lastDraws++
	}
	re.gl.ResetState()

	errs := re.gl.CheckErrors()
	for _, err := range errs {
		re.log.Error(ctx, "gl error", logging.Err(err))
	}
	re.metrics.AddGLErrors(len(errs))
	re.metrics.ObserveFrame(time.Since(start))
}

var (
	errNoProgram = errors.New("no program")
	errNoMesh    = errors.New("no mesh")
	errNoTexture = errors.New("no texture")
)

func (re *RenderEngine) execute(c *compose.DrawCall) error {
	prog, ok := re.programs[c.Technique]
	if !ok {
		return fmt.Errorf("%w for technique %s", errNoProgram, c.Technique)
	}
	mesh, ok := re.meshes[c.Mesh]
	if !ok {
		return fmt.Errorf("%w %q", errNoMesh, c.Mesh)
	}

	re.gl.ApplyState(c.State)
	prog.Use()
	for _, b := range c.Textures {
		tex, ok := re.textures[b.Texture]
		if !ok {
			return fmt.Errorf("%w %q", errNoTexture, b.Texture)
		}
		tex.BindTo(uint32(b.Unit))
	}

	var uniformErrs []error
	for _, u := range c.Uniforms {
		if err := prog.SetUniform(u.Name, u.Value, u.Optional); err != nil {
			uniformErrs = append(uniformErrs, err)
		}
	}
	re.gl.Draw(mesh)
	return errors.Join(uniformErrs...)
}

func (re *RenderEngine) reportOnce(ctx context.Context, call string, err error) {
	key := call + ": " + err.Error()
	if re.reported[key] {
		return
	}
	re.reported[key] = true
	re.log.Error(ctx, "draw failed", logging.String("call", call), logging.Err(err))
}

// LastDrawCount is the number of calls issued by the previous Render.
func (re *RenderEngine) LastDrawCount() int {
	return re.lastDraws
}

// ReloadShaders recompiles the programs whose sources are among changed,
// by file name. A program that fails to build keeps its previous binary.
func (re *RenderEngine) ReloadShaders(ctx context.Context, changed []string) {
	seen := map[compose.Technique]bool{}
	for _, file := range changed {
		t := compose.Technique(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		prog, ok := re.programs[t]
		if !ok || seen[t] {
			continue
		}
		seen[t] = true

		err := prog.Reload()
		re.metrics.ObserveShaderReload(err)
		if err != nil {
			re.log.Error(ctx, "shader reload failed", logging.String("technique", string(t)), logging.Err(err))
			continue
		}
		// Locations of the rebuilt program differ; forget earlier reports.
		clear(re.reported)
		re.log.Info(ctx, "shader reloaded", logging.String("technique", string(t)))
	}
}

// Destroy releases all GPU resources.
func (re *RenderEngine) Destroy() {
	for _, p := range re.programs {
		p.Delete()
	}
	for _, t := range re.textures {
		t.Delete()
	}
	re.gl.Destroy()
}
