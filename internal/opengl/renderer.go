package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"orrery/compose"
	"orrery/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// Error is one glGetError code.
type Error uint32

func (e Error) Error() string {
	switch e {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	}
	return fmt.Sprintf("GL error 0x%04x", uint32(e))
}

// DebugMessage is delivered by the KHR_debug callback.
type DebugMessage struct {
	Source   uint32
	Type     uint32
	ID       uint32
	Severity uint32
	Message  string
}

// Renderer is the OpenGL rendering backend: mesh upload, draw submission
// and fixed-function state.
type Renderer struct {
	Version string

	gpuMeshes map[*scene.Mesh]*GPUMesh
	state     compose.RenderState
	viewportW int32
	viewportH int32
	debug     func(DebugMessage)
}

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		Version:   gl.GoStr(gl.GetString(gl.VERSION)),
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
	}
	gl.DepthFunc(gl.LESS)
	r.forceState(compose.Opaque())
	return r, nil
}

// EnableDebugOutput installs fn as the KHR_debug message callback. It
// reports false when the context does not expose the extension.
func (r *Renderer) EnableDebugOutput(fn func(DebugMessage)) bool {
	if !r.hasExtension("GL_KHR_debug") {
		return false
	}
	r.debug = fn
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		if r.debug != nil {
			r.debug(DebugMessage{Source: source, Type: gltype, ID: id, Severity: severity, Message: message})
		}
	}, nil)
	return true
}

func (r *Renderer) hasExtension(name string) bool {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		if gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))) == name {
			return true
		}
	}
	return false
}

// ── Frame ─────────────────────────────────────────────────────────────────────

func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Viewport returns the last size passed to SetViewport.
func (r *Renderer) Viewport() (int, int) {
	return int(r.viewportW), int(r.viewportH)
}

func (r *Renderer) Clear(c scene.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ApplyState changes only what differs from the current state.
func (r *Renderer) ApplyState(s compose.RenderState) {
	if s.DepthTest != r.state.DepthTest {
		toggle(gl.DEPTH_TEST, s.DepthTest)
	}
	if s.DepthWrite != r.state.DepthWrite {
		gl.DepthMask(s.DepthWrite)
	}
	if s.CullFace != r.state.CullFace {
		toggle(gl.CULL_FACE, s.CullFace)
	}
	if s.Blend != r.state.Blend {
		switch s.Blend {
		case compose.BlendAlpha:
			gl.Enable(gl.BLEND)
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		default:
			gl.Disable(gl.BLEND)
		}
	}
	r.state = s
}

// ResetState returns to opaque defaults after a frame.
func (r *Renderer) ResetState() {
	r.ApplyState(compose.Opaque())
}

func (r *Renderer) forceState(s compose.RenderState) {
	toggle(gl.DEPTH_TEST, s.DepthTest)
	gl.DepthMask(s.DepthWrite)
	toggle(gl.CULL_FACE, s.CullFace)
	toggle(gl.BLEND, s.Blend != compose.BlendNone)
	if s.Blend == compose.BlendAlpha {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	r.state = s
}

func toggle(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// CheckErrors drains the GL error queue.
func (r *Renderer) CheckErrors() []error {
	var errs []error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		errs = append(errs, Error(code))
		if len(errs) >= 32 {
			break
		}
	}
	return errs
}

// ── Draw ──────────────────────────────────────────────────────────────────────

// Draw issues mesh with whatever program, uniforms and textures are bound.
// Returns false for an empty mesh.
func (r *Renderer) Draw(mesh *scene.Mesh) bool {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return false
	}

	// Resolve draw primitive from mesh.DrawMode
	primitive := uint32(gl.TRIANGLES)
	switch mesh.DrawMode {
	case scene.DrawLines:
		primitive = gl.LINES
	case scene.DrawLineStrip:
		primitive = gl.LINE_STRIP
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(primitive, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
	return true
}

// ── Resource management ───────────────────────────────────────────────────────

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(scene.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v scene.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)},
		{3, unsafe.Offsetof(v.Normal)},
		{2, unsafe.Offsetof(v.UV)},
		{4, unsafe.Offsetof(v.Color)},
	}
	for i, a := range attribs {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointer(uint32(i), a.size, gl.FLOAT, false, stride, gl.PtrOffset(int(a.offset)))
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}
