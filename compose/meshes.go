package compose

import (
	"fmt"

	"orrery/scene"
	"orrery/sim"
)

// MeshOptions controls the geometry built for the solar viewer.
type MeshOptions struct {
	SphereDetail int
	PathSamples  int
	// VehicleModel is an .off, .obj, .gltf or .glb file.
	VehicleModel     string
	NormalizeVehicle bool
}

// Assets is the CPU-side geometry keyed by the Mesh* ids.
type Assets struct {
	Meshes map[string]*scene.Mesh
	// VehicleTexture is the texture embedded in the vehicle model, or nil.
	VehicleTexture *scene.Texture
}

// BuildAssets creates every mesh DrawFrame refers to. The path meshes are
// built once from the system's curve, which does not change after startup.
func BuildAssets(sys *sim.System, opts MeshOptions) (Assets, error) {
	if opts.SphereDetail < 3 {
		return Assets{}, fmt.Errorf("sphere detail %d must be at least 3", opts.SphereDetail)
	}
	if opts.PathSamples < 4 {
		return Assets{}, fmt.Errorf("path samples %d must be at least 4", opts.PathSamples)
	}

	model, err := scene.LoadModel(opts.VehicleModel)
	if err != nil {
		return Assets{}, fmt.Errorf("vehicle: %w", err)
	}
	if opts.NormalizeVehicle {
		model.Mesh.Normalize()
	}
	model.Mesh.Name = MeshVehicle

	pathMesh := scene.CreatePolyline(MeshPath, sys.Path.Sample(opts.PathSamples), false, scene.ColorRed)
	polygon := scene.CreatePolyline(MeshControlPolygon, sys.Path.BezierControlPoints(), false, scene.ColorWhite)

	return Assets{
		Meshes: map[string]*scene.Mesh{
			MeshSphere:         scene.CreateSphere(1, opts.SphereDetail, opts.SphereDetail),
			MeshQuad:           scene.CreateQuad(1),
			MeshVehicle:        model.Mesh,
			MeshPath:           pathMesh,
			MeshControlPolygon: polygon,
			MeshAxis:           scene.CreateAxis(),
			MeshCube:           scene.CreateCube(1),
		},
		VehicleTexture: model.Texture,
	}, nil
}

// MissingMeshes lists the meshes referenced by calls that assets lacks.
func (a Assets) MissingMeshes(calls []DrawCall) []string {
	var missing []string
	seen := map[string]bool{}
	for _, c := range calls {
		if _, ok := a.Meshes[c.Mesh]; !ok && !seen[c.Mesh] {
			seen[c.Mesh] = true
			missing = append(missing, c.Mesh)
		}
	}
	return missing
}
