package opengl

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"orrery/math"
	"orrery/scene"
)

// ErrMissingUniform is returned by SetUniform for a required uniform the
// linked program does not expose.
var ErrMissingUniform = errors.New("opengl: uniform not found")

// Program is a linked vertex/fragment pair loaded from disk.
type Program struct {
	ID       uint32
	VertPath string
	FragPath string

	locations map[string]int32
}

// LoadProgram compiles and links the two shader files.
// Must be called with the GL context current.
func LoadProgram(vertPath, fragPath string) (*Program, error) {
	p := &Program{VertPath: vertPath, FragPath: fragPath}
	id, err := p.build()
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.locations = make(map[string]int32)
	return p, nil
}

func (p *Program) build() (uint32, error) {
	vertSrc, err := os.ReadFile(p.VertPath)
	if err != nil {
		return 0, fmt.Errorf("read shader: %w", err)
	}
	fragSrc, err := os.ReadFile(p.FragPath)
	if err != nil {
		return 0, fmt.Errorf("read shader: %w", err)
	}
	id, err := newProgram(string(vertSrc)+"\x00", string(fragSrc)+"\x00")
	if err != nil {
		return 0, fmt.Errorf("program %s + %s: %w", p.VertPath, p.FragPath, err)
	}
	return id, nil
}

// Reload recompiles from the same files. The old program stays in use if
// the new sources fail to build.
func (p *Program) Reload() error {
	id, err := p.build()
	if err != nil {
		return err
	}
	gl.DeleteProgram(p.ID)
	p.ID = id
	p.locations = make(map[string]int32)
	return nil
}

func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// SetUniform uploads value to the named uniform of the program in use.
// Optional uniforms may have been optimized out by the GLSL compiler.
func (p *Program) SetUniform(name string, value any, optional bool) error {
	loc := p.location(name)
	if loc < 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: %q in %s", ErrMissingUniform, name, p.FragPath)
	}

	switch v := value.(type) {
	case float32:
		gl.Uniform1f(loc, v)
	case int32:
		gl.Uniform1i(loc, v)
	case int:
		gl.Uniform1i(loc, int32(v))
	case bool:
		var b int32
		if v {
			b = 1
		}
		gl.Uniform1i(loc, b)
	case math.Vec3:
		gl.Uniform3f(loc, v.X, v.Y, v.Z)
	case math.Vec4:
		gl.Uniform4f(loc, v.X, v.Y, v.Z, v.W)
	case scene.Color:
		gl.Uniform4f(loc, v.R, v.G, v.B, v.A)
	case math.Mat3:
		gl.UniformMatrix3fv(loc, 1, false, (*float32)(unsafe.Pointer(&v[0][0])))
	case math.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, (*float32)(unsafe.Pointer(&v[0][0])))
	default:
		return fmt.Errorf("uniform %q: unsupported type %T", name, value)
	}
	return nil
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
