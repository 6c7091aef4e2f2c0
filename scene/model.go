package scene

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Model is a loaded mesh plus the texture embedded in its file, if any.
type Model struct {
	Mesh    *Mesh
	Texture *Texture
}

// LoadModel picks a loader by file extension.
func LoadModel(path string) (*Model, error) {
	var (
		m   *Mesh
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".off":
		m, err = LoadOFF(path)
	case ".obj":
		m, err = LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("load model %q: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, err
	}
	return &Model{Mesh: m}, nil
}
