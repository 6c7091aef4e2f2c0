package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureExtensions are tried in order by FindTexture.
var TextureExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff"}

// FindTexture returns the first existing dir/id<ext> over
// TextureExtensions.
func FindTexture(dir, id string) (string, error) {
	for _, ext := range TextureExtensions {
		p := filepath.Join(dir, id+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("texture %q not found in %s: %w", id, dir, os.ErrNotExist)
}

// Texture holds CPU-side pixel data for a 2D texture.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
}

// LoadTexture reads an image file from disk and returns a CPU-side Texture.
// The image is converted to RGBA8 automatically.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	tex, err := DecodeTexture(path, f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return tex, nil
}

// DecodeTexture decodes any registered image format into RGBA8.
func DecodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}

func decodeImageBytes(name string, data []byte) (*Texture, error) {
	return DecodeTexture(name, bytes.NewReader(data))
}

// At returns the RGBA bytes of pixel (x, y).
func (t *Texture) At(x, y int) [4]byte {
	i := (y*t.Width + x) * 4
	return [4]byte{t.Pixels[i], t.Pixels[i+1], t.Pixels[i+2], t.Pixels[i+3]}
}

// NewGlowTexture renders the star halo: a size x size square that is opaque
// inside the disc covered by the star itself and fades quadratically to fully
// transparent at the edge. core is the star's radius as a fraction of the
// half size.
func NewGlowTexture(size int, core float32) *Texture {
	tex := &Texture{
		Name:   "sunglow",
		Width:  size,
		Height: size,
		Pixels: make([]byte, size*size*4),
	}
	half := float32(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float32(x) + 0.5 - half) / half
			dy := (float32(y) + 0.5 - half) / half
			r := math32.Sqrt(dx*dx + dy*dy)

			var alpha float32
			switch {
			case r <= core:
				alpha = 1
			case r < 1:
				f := 1 - (r-core)/(1-core)
				alpha = f * f
			}

			i := (y*size + x) * 4
			tex.Pixels[i] = 255
			tex.Pixels[i+1] = byte(200 + 55*alpha)
			tex.Pixels[i+2] = byte(120 * alpha)
			tex.Pixels[i+3] = byte(255 * alpha)
		}
	}
	return tex
}
