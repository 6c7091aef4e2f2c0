package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"orrery/math"
)

func TestCreateSphere(t *testing.T) {
	m := CreateSphere(2, 16, 8)
	assert.Len(t, m.Vertices, 17*9)
	assert.Len(t, m.Indices, 16*8*6)
	for _, v := range m.Vertices {
		assert.InDelta(t, 2, v.Position.Length(), 1e-5)
		assert.InDelta(t, 1, v.Normal.Length(), 1e-5)
	}
	for _, i := range m.Indices {
		assert.Less(t, int(i), len(m.Vertices))
	}
	assert.InDelta(t, 2, m.Bounds.Max.Y, 1e-5)
	assert.InDelta(t, -2, m.Bounds.Min.Y, 1e-5)
}

func TestCreateQuadAndCube(t *testing.T) {
	q := CreateQuad(1)
	assert.Equal(t, math.Vec3{X: -1, Y: -1}, q.Bounds.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 1}, q.Bounds.Max)
	assert.Equal(t, 2, q.TriangleCount())

	c := CreateCube(1)
	assert.Len(t, c.Vertices, 24)
	assert.Equal(t, 12, c.TriangleCount())
	for i := 0; i < len(c.Indices); i += 3 {
		a, b, d := c.Vertices[c.Indices[i]], c.Vertices[c.Indices[i+1]], c.Vertices[c.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(d.Position.Sub(a.Position)).Normalize()
		assert.True(t, n.ApproxEqual(a.Normal, 1e-5), "face winding must match its normal")
	}
}

func TestCreatePolyline(t *testing.T) {
	pts := []math.Vec3{{X: 0}, {X: 1}, {X: 1, Z: 1}}
	open := CreatePolyline("open", pts, false, ColorRed)
	assert.Equal(t, []uint32{0, 1, 1, 2}, open.Indices)
	assert.Equal(t, DrawLines, open.DrawMode)

	closed := CreatePolyline("closed", pts, true, ColorRed)
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 0}, closed.Indices)
	assert.Equal(t, ColorRed, closed.Vertices[0].Color)
}

func TestCreateLineSegments(t *testing.T) {
	m := CreateLineSegments("segs", []math.Vec3{{}, {X: 1}, {Y: 1}, {Y: 2}, {Z: 5}}, ColorWhite)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 3}, m.Indices)

	axis := CreateAxis()
	assert.Equal(t, math.Vec3Right, axis.Vertices[1].Position)
}

const squareOFF = `OFF
# unit square split as one quad face
4 1 0
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

func TestReadOFF(t *testing.T) {
	m, err := ReadOFF("square", strings.NewReader(squareOFF))
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	for _, v := range m.Vertices {
		assert.True(t, v.Normal.ApproxEqual(math.Vec3{Z: 1}, 1e-5))
	}
}

func TestReadOFFWithTextureCoordinates(t *testing.T) {
	src := "STOFF 3 1 0\n0 0 0 0 0\n1 0 0 1 0\n0 1 0 0 1\n3 0 1 2 255 0 0\n"
	m, err := ReadOFF("tri", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, m.Vertices[1].UV)
	assert.Equal(t, math.Vec2{X: 0, Y: 1}, m.Vertices[2].UV)
}

func TestReadOFFErrors(t *testing.T) {
	tests := map[string]string{
		"missing header":  "PLY\n3 1 0\n",
		"truncated":       "OFF\n3 1 0\n0 0 0\n",
		"index too large": "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n",
		"bad float":       "OFF\n1 0 0\n0 x 0\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadOFF(name, strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

const quadOBJ = `# quad with uvs
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 -1/-1/-1
`

func TestReadOBJ(t *testing.T) {
	m, err := ReadOBJ("quad", strings.NewReader(quadOBJ))
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Indices, 6)
	assert.Equal(t, math.Vec2{X: 0, Y: 1}, m.Vertices[3].UV)
	assert.Equal(t, math.Vec3{Z: 1}, m.Vertices[0].Normal)

	_, err = ReadOBJ("empty", strings.NewReader("v 0 0 0\n"))
	assert.Error(t, err)
}

func TestNormalizeFitsUnitSphere(t *testing.T) {
	m := CreateCube(10)
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Add(math.Vec3{X: 7})
	}
	m.Bounds = computeBounds(m.Vertices)
	m.Normalize()

	var r float32
	for _, v := range m.Vertices {
		r = max(r, v.Position.Length())
	}
	assert.InDelta(t, 1, r, 1e-5)
	assert.True(t, m.Bounds.Center().ApproxEqual(math.Vec3Zero, 1e-5))
}

func TestMergeRebasesIndices(t *testing.T) {
	a := CreateQuad(1)
	b := CreateQuad(2)
	m := Merge("both", a, b)
	assert.Len(t, m.Vertices, 8)
	assert.Equal(t, uint32(4), m.Indices[6])
	assert.Equal(t, float32(2), m.Bounds.Max.X)
}

func TestGlowTexture(t *testing.T) {
	tex := NewGlowTexture(64, 1.0/3)
	assert.Len(t, tex.Pixels, 64*64*4)
	assert.Equal(t, byte(255), tex.At(32, 32)[3])
	assert.Equal(t, byte(0), tex.At(0, 0)[3])

	prev := byte(255)
	for x := 32; x < 64; x++ {
		a := tex.At(x, 32)[3]
		assert.LessOrEqual(t, a, prev)
		prev = a
	}
}

func TestDecodeTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex, err := DecodeTexture("px", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, [4]byte{10, 20, 30, 255}, tex.At(1, 0))
}

func TestFindTexturePrefersPNGAndDecodesBMP(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mars.bmp"), buf.Bytes(), 0o644))

	p, err := FindTexture(dir, "mars")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mars.bmp"), p)

	tex, err := LoadTexture(p)
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, [4]byte{200, 100, 50, 255}, tex.At(2, 1))

	buf.Reset()
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mars.png"), buf.Bytes(), 0o644))
	p, err = FindTexture(dir, "mars")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mars.png"), p)

	_, err = FindTexture(dir, "venus")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadModelDispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.off")
	require.NoError(t, os.WriteFile(path, []byte(squareOFF), 0o644))

	model, err := LoadModel(path)
	require.NoError(t, err)
	assert.Nil(t, model.Texture)
	assert.Equal(t, 2, model.Mesh.TriangleCount())

	_, err = LoadModel(filepath.Join(dir, "ship.fbx"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = LoadModel(filepath.Join(dir, "missing.obj"))
	assert.Error(t, err)
}
