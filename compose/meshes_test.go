package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orrery/scene"
	"orrery/sim"
	"orrery/view"
)

const tetrahedronOFF = `OFF
4 4 0
0 0 0
4 0 0
0 4 0
0 0 4
3 0 2 1
3 0 1 3
3 0 3 2
3 1 2 3
`

func writeVehicle(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ship.off")
	require.NoError(t, os.WriteFile(p, []byte(tetrahedronOFF), 0o644))
	return p
}

func TestBuildAssetsCoversEveryDraw(t *testing.T) {
	sys, err := sim.NewSystem(sim.DefaultOptions())
	require.NoError(t, err)

	assets, err := BuildAssets(sys, MeshOptions{
		SphereDetail:     8,
		PathSamples:      16,
		VehicleModel:     writeVehicle(t),
		NormalizeVehicle: true,
	})
	require.NoError(t, err)
	assert.Nil(t, assets.VehicleTexture)

	st := view.DefaultState()
	st.Overlay = view.OverlayFrame
	assert.Empty(t, assets.MissingMeshes(NewComposer().DrawFrame(frameInput(t, st))))

	assert.Len(t, assets.Meshes[MeshPath].Vertices, 17)
	assert.Len(t, assets.Meshes[MeshControlPolygon].Vertices, 4*sys.Path.Segments())
	for _, v := range assets.Meshes[MeshVehicle].Vertices {
		assert.LessOrEqual(t, v.Position.Length(), float32(1.0001))
	}
}

func TestBuildAssetsErrors(t *testing.T) {
	sys, err := sim.NewSystem(sim.DefaultOptions())
	require.NoError(t, err)

	_, err = BuildAssets(sys, MeshOptions{SphereDetail: 2, PathSamples: 16, VehicleModel: writeVehicle(t)})
	assert.Error(t, err)

	_, err = BuildAssets(sys, MeshOptions{SphereDetail: 8, PathSamples: 16, VehicleModel: filepath.Join(t.TempDir(), "missing.off")})
	assert.ErrorContains(t, err, "vehicle")
}

func TestMissingMeshes(t *testing.T) {
	a := Assets{Meshes: map[string]*scene.Mesh{MeshSphere: scene.CreateSphere(1, 4, 4)}}
	calls := []DrawCall{{Mesh: MeshSphere}, {Mesh: MeshQuad}, {Mesh: MeshQuad}, {Mesh: MeshAxis}}
	assert.Equal(t, []string{MeshQuad, MeshAxis}, a.MissingMeshes(calls))
}
