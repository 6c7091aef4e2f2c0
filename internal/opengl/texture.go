package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"orrery/scene"
)

// Texture is a GL texture object bound to a fixed texture unit.
type Texture struct {
	ID     uint32
	Unit   uint32
	Target uint32

	minFilter int32
	magFilter int32
	wrap      int32
}

// NewTexture describes a texture; storage is created by Upload.
func NewTexture(unit, target uint32, minFilter, magFilter, wrap int32) *Texture {
	return &Texture{
		Unit:      unit,
		Target:    target,
		minFilter: minFilter,
		magFilter: magFilter,
		wrap:      wrap,
	}
}

// NewTexture2D is the mipmapped, repeating sampler every planet map uses.
func NewTexture2D(unit uint32) *Texture {
	return NewTexture(unit, gl.TEXTURE_2D, gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR, gl.REPEAT)
}

func (t *Texture) LoadImage(path string) error {
	img, err := scene.LoadTexture(path)
	if err != nil {
		return err
	}
	return t.Upload(img)
}

// Upload replaces the texture's contents with tex and rebuilds mipmaps.
// Call this from the main goroutine (OpenGL context must be current).
func (t *Texture) Upload(tex *scene.Texture) error {
	if tex == nil {
		return fmt.Errorf("nil texture")
	}
	if len(tex.Pixels) == 0 {
		return fmt.Errorf("texture %q has no pixel data", tex.Name)
	}

	if t.ID == 0 {
		gl.GenTextures(1, &t.ID)
	}
	gl.ActiveTexture(gl.TEXTURE0 + t.Unit)
	gl.BindTexture(t.Target, t.ID)

	gl.TexParameteri(t.Target, gl.TEXTURE_WRAP_S, t.wrap)
	gl.TexParameteri(t.Target, gl.TEXTURE_WRAP_T, t.wrap)
	gl.TexParameteri(t.Target, gl.TEXTURE_MIN_FILTER, t.minFilter)
	gl.TexParameteri(t.Target, gl.TEXTURE_MAG_FILTER, t.magFilter)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		t.Target,
		0,
		gl.RGBA,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&tex.Pixels[0]),
	)
	if usesMipmaps(t.minFilter) {
		gl.GenerateMipmap(t.Target)
	}

	gl.BindTexture(t.Target, 0)
	return nil
}

func usesMipmaps(filter int32) bool {
	switch filter {
	case gl.NEAREST_MIPMAP_NEAREST, gl.LINEAR_MIPMAP_NEAREST,
		gl.NEAREST_MIPMAP_LINEAR, gl.LINEAR_MIPMAP_LINEAR:
		return true
	}
	return false
}

// Bind makes the texture current on its own unit.
func (t *Texture) Bind() {
	gl.ActiveTexture(gl.TEXTURE0 + t.Unit)
	gl.BindTexture(t.Target, t.ID)
}

// BindTo binds the texture to unit instead of its own.
func (t *Texture) BindTo(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(t.Target, t.ID)
}

// Delete frees the GPU texture and zeroes its ID.
func (t *Texture) Delete() {
	if t.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &t.ID)
	t.ID = 0
}
