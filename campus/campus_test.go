package campus

import (
	"bytes"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus3d/config"
	"campus3d/core"
	"campus3d/math"
	"campus3d/scene"
)

func testLayout(grass int) Layout {
	return DefaultLayout(config.CampusConfig{GrassCount: grass})
}

func TestGrassBladesStayInBounds(t *testing.T) {
	field := DefaultGrassField(20000)
	blades := field.Sample(rand.New(rand.NewSource(1)))
	require.Len(t, blades, 20000)

	for i, b := range blades {
		assert.GreaterOrEqual(t, b.Position.X, float32(-50), "blade %d", i)
		assert.Less(t, b.Position.X, float32(50), "blade %d", i)
		assert.GreaterOrEqual(t, b.Position.Z, float32(-50), "blade %d", i)
		assert.Less(t, b.Position.Z, float32(50), "blade %d", i)
		assert.Equal(t, float32(0.4), b.Position.Y, "blade %d", i)
		assert.GreaterOrEqual(t, b.Yaw, float32(0), "blade %d", i)
		assert.Less(t, b.Yaw, float32(math32.Pi), "blade %d", i)
		assert.GreaterOrEqual(t, b.Tilt, float32(-0.15), "blade %d", i)
		assert.Less(t, b.Tilt, float32(0.15), "blade %d", i)
		assert.GreaterOrEqual(t, b.Scale, float32(0.8), "blade %d", i)
		assert.Less(t, b.Scale, float32(1.2), "blade %d", i)
	}
}

func TestGrassIsDeterministicPerSeed(t *testing.T) {
	field := DefaultGrassField(100)
	a := field.Instances(rand.New(rand.NewSource(42)))
	b := field.Instances(rand.New(rand.NewSource(42)))
	c := field.Instances(rand.New(rand.NewSource(43)))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGrassMatrixComposesTRS(t *testing.T) {
	blade := GrassInstance{Position: math.NewVec3(3, 0.4, -7), Yaw: math32.Pi / 2, Scale: 1.1}
	m := blade.Matrix()
	assert.True(t, m.Translation().ApproxEqual(blade.Position, 1e-5))

	// The blade tip (0, 0.4) in local space is scaled but not moved sideways by yaw.
	tip := m.TransformPoint(math.NewVec3(0, 0.4, 0))
	assert.True(t, tip.ApproxEqual(math.NewVec3(3, 0.4+0.44, -7), 1e-5), "got %v", tip)

	// Yaw turns the blade's width axis from X towards -Z.
	side := m.TransformPoint(math.NewVec3(0.05, 0, 0))
	assert.True(t, side.ApproxEqual(math.NewVec3(3, 0.4, -7-0.055), 1e-5), "got %v", side)
}

func TestDefaultLayoutObjectCount(t *testing.T) {
	s := scene.NewScene()
	stats, err := Assemble(s, testLayout(20000), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// 1 ground + 1 grass batch + 2 roads + 4 buildings + 5 trees + 3 per lamp.
	assert.Equal(t, 31, stats.Objects)
	assert.Equal(t, 31, s.Count())
	assert.Equal(t, 31-len(LampPositions), s.ObjectCount(), "lamp lights are not drawn")
	assert.Equal(t, 20000, stats.Instances)
	assert.Equal(t, map[Category]int{
		CategoryGround:   1,
		CategoryGrass:    1,
		CategoryRoad:     2,
		CategoryBuilding: 4,
		CategoryTree:     5,
		CategoryLamp:     18,
	}, stats.ByCategory)
	assert.Equal(t, 3+len(LampPositions), stats.Lights)
	assert.Equal(t, core.ColorHex(0xbfd1e5), s.Background)

	require.Len(t, s.Instanced, 1)
	assert.True(t, s.Instanced[0].Frozen())
	assert.True(t, s.Instanced[0].Mesh.Material.DoubleSided)
}

func TestDefaultLayoutPlacesLiterals(t *testing.T) {
	s := scene.NewScene()
	_, err := Assemble(s, testLayout(10), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ground := s.Root.Find("ground")
	require.NotNil(t, ground)
	normal := ground.Transform.Rotation.RotateVector(ground.Mesh.Vertices[0].Normal)
	assert.True(t, normal.ApproxEqual(math.Vec3Up, 1e-5), "ground faces %v", normal)

	road := s.Root.Find("road 1")
	require.NotNil(t, road)
	assert.Equal(t, math.NewVec3(0, 0.5, 0), road.Transform.Position)
	// A quarter yaw turns the 100-long road onto the X axis.
	end := road.GetWorldMatrix().TransformPoint(math.NewVec3(0, 0, 50))
	assert.True(t, end.ApproxEqual(math.NewVec3(50, 0.5, 0), 1e-4), "got %v", end)
	assert.Equal(t, scene.MaterialBasic, road.Mesh.Material.Kind)

	library := s.Root.Find("library")
	require.NotNil(t, library)
	assert.Equal(t, scene.MaterialPhong, library.Mesh.Material.Kind)
	assert.Equal(t, math.NewVec3(-29, 4, -26), library.Transform.Position)

	head := s.Root.Find("lamp head 0")
	require.NotNil(t, head)
	assert.Equal(t, math.NewVec3(-8, 6.5, -40), head.Transform.Position)
	emissive := head.Mesh.Material.EmissiveRadiance()
	assert.InDelta(t, 0.5, emissive.R, 1e-5)

	var lampLights int
	for _, l := range s.Lights {
		if l.Type == scene.LightPoint && l.Distance == 15 {
			lampLights++
			assert.Equal(t, float32(6.5), l.Position.Y)
		}
	}
	assert.Equal(t, 6, lampLights)
}

func TestAssembleTwiceDuplicates(t *testing.T) {
	s := scene.NewScene()
	rng := rand.New(rand.NewSource(1))
	first, err := Assemble(s, testLayout(50), rng)
	require.NoError(t, err)
	second, err := Assemble(s, testLayout(50), rng)
	require.NoError(t, err)

	assert.Equal(t, first.Objects, second.Objects)
	assert.Equal(t, 62, 2*first.Objects)
	assert.Equal(t, 2*first.Objects, s.Count())
	assert.Len(t, s.Lights, 2*first.Lights)
	assert.Len(t, s.Instanced, 2)
}

func TestDuplicateLampIsKeptAndReported(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	s := scene.NewScene()
	stats, err := Assemble(s, testLayout(1), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 18, stats.ByCategory[CategoryLamp])

	layout := testLayout(1)
	for _, p := range layout.Placements {
		dups := DuplicatePositions(p.Transforms)
		if p.Category == CategoryLamp {
			require.Len(t, dups, 1, p.Name)
			assert.Equal(t, float32(-8), dups[0].X)
			assert.Equal(t, float32(-40), dups[0].Z)
		} else {
			assert.Empty(t, dups, p.Name)
		}
	}

	assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"), buf.String())
}

func TestPlaceRejectsUnknownKinds(t *testing.T) {
	s := scene.NewScene()
	rng := rand.New(rand.NewSource(1))

	_, err := Place(s, Placement{Name: "blob", Geometry: GeometrySpec{Kind: "torus"}, Material: MaterialSpec{Kind: "basic"}}, rng)
	assert.ErrorIs(t, err, ErrUnknownGeometry)

	_, err = Place(s, Placement{Name: "blob", Geometry: Box(1, 1, 1), Material: MaterialSpec{Kind: "toon"}}, rng)
	assert.ErrorIs(t, err, ErrUnknownMaterial)

	assert.Zero(t, s.ObjectCount())
}

func TestPlaceNamesSingleAndMultiple(t *testing.T) {
	s := scene.NewScene()
	rng := rand.New(rand.NewSource(1))

	n, err := Place(s, Placement{Name: "kiosk", Geometry: Box(1, 1, 1), Material: MaterialSpec{Kind: "lambert"}, Transforms: []core.Transform{At(1, 0, 1)}}, rng)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotNil(t, s.Root.Find("kiosk"))

	n, err = Place(s, Placement{Name: "bench", Geometry: Box(1, 1, 1), Material: MaterialSpec{Kind: "lambert"}, Transforms: []core.Transform{At(0, 0, 0), At(2, 0, 0)}}, rng)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotNil(t, s.Root.Find("bench 0"))
	assert.NotNil(t, s.Root.Find("bench 1"))
}

func TestPlaceAddsOneLightPerTransform(t *testing.T) {
	s := scene.NewScene()
	rng := rand.New(rand.NewSource(1))
	bulb := scene.NewPointLight(core.ColorWhite, 2, math.NewVec3(0, 1, 0), 5)

	n, err := Place(s, Placement{
		Name:       "post",
		Geometry:   Box(1, 1, 1),
		Material:   MaterialSpec{Kind: "basic"},
		Transforms: []core.Transform{At(1, 0, 1), At(4, 0, 4)},
		Light:      bulb,
	}, rng)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 2, s.ObjectCount())
	assert.Equal(t, 4, s.Count())

	require.Len(t, s.Lights, 2)
	assert.Equal(t, math.NewVec3(1, 1, 1), s.Lights[0].Position)
	assert.Equal(t, math.NewVec3(4, 1, 4), s.Lights[1].Position)
	assert.Equal(t, float32(5), s.Lights[1].Distance)
	assert.Equal(t, math.NewVec3(0, 1, 0), bulb.Position, "template is copied")
}

func TestLoadModelsPlacesExportedCampus(t *testing.T) {
	src := scene.NewScene()
	_, err := Assemble(src, testLayout(20), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "campus.glb")
	require.NoError(t, scene.ExportGLTF(src, path))

	dst := scene.NewScene()
	n, err := LoadModels(dst, []config.ModelConfig{{Path: path, Position: [3]float32{100, 0, 0}}})
	require.NoError(t, err)
	assert.Equal(t, src.ObjectCount(), n)
	assert.Equal(t, src.ObjectCount(), dst.ObjectCount())

	library := dst.Root.Find("library")
	require.NotNil(t, library)
	orig := src.Root.Find("library").GetWorldMatrix().Translation()
	moved := library.GetWorldMatrix().Translation()
	assert.True(t, moved.ApproxEqual(orig.Add(math.NewVec3(100, 0, 0)), 1e-4), "got %v", moved)

	require.Len(t, dst.Instanced, 1)
	assert.True(t, dst.Instanced[0].Frozen())
	first, err := dst.Instanced[0].MatrixAt(0)
	require.NoError(t, err)
	want, err := src.Instanced[0].MatrixAt(0)
	require.NoError(t, err)
	assert.InDelta(t, want.Translation().X+100, first.Translation().X, 1e-3)
}

func TestLoadModelsMissingFile(t *testing.T) {
	_, err := LoadModels(scene.NewScene(), []config.ModelConfig{{Path: filepath.Join(t.TempDir(), "nope.glb")}})
	assert.Error(t, err)
}
