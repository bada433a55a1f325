package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus3d/core"
	"campus3d/math"
	"campus3d/scene"
)

type fakeBackend struct {
	viewport  [2]int
	frames    int
	ambient   core.Color
	bg        core.Color
	meshes    []*scene.Mesh
	batches   []*scene.InstancedMesh
	destroyed bool
}

func (f *fakeBackend) SetViewport(width, height int) { f.viewport = [2]int{width, height} }

func (f *fakeBackend) BeginFrame(background, ambient core.Color, lights []*scene.Light, camPos math.Vec3, viewProj math.Mat4) {
	f.frames++
	f.bg = background
	f.ambient = ambient
}

func (f *fakeBackend) DrawMesh(mesh *scene.Mesh, model math.Mat4) {
	f.meshes = append(f.meshes, mesh)
}

func (f *fakeBackend) DrawInstanced(batch *scene.InstancedMesh) {
	f.batches = append(f.batches, batch)
}

func (f *fakeBackend) Destroy() { f.destroyed = true }

func testScene() (*scene.Scene, *scene.Node, *scene.InstancedMesh) {
	s := scene.NewScene()
	s.Background = core.ColorHex(0x87ceeb)
	s.AddLight(scene.NewAmbientLight(core.ColorWhite, 0.5))

	box := scene.CreateBox(1, 1, 1)
	parent := scene.NewMeshNode("parent", box, core.NewTransform())
	child := scene.NewMeshNode("child", box, core.NewTransform())
	parent.AddChild(child)
	s.AddNode(parent)

	batch := scene.NewInstancedMesh("grass", scene.CreatePlane(1, 1), 10)
	batch.Freeze()
	s.AddInstanced(batch)
	return s, parent, batch
}

func TestRenderDrawsNodesAndBatches(t *testing.T) {
	be := &fakeBackend{}
	re := NewWithBackend(be)
	s, _, batch := testScene()
	cam := scene.NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.SetPosition(math.NewVec3(0, 0, 5))
	cam.LookAt(math.Vec3Zero)

	require.NoError(t, re.Render(s, cam))
	assert.Equal(t, 1, be.frames)
	assert.Len(t, be.meshes, 2)
	assert.Equal(t, []*scene.InstancedMesh{batch}, be.batches)
	assert.Equal(t, s.Background, be.bg)
	assert.InDelta(t, 0.5, be.ambient.R, 1e-6)

	objects, instances, triangles, culled := re.DrawStats()
	assert.Equal(t, 3, objects)
	assert.Equal(t, 12, instances)
	assert.Equal(t, 2*12+10*2, triangles)
	assert.Zero(t, culled)
}

func TestRenderCullsNodesOutsideTheView(t *testing.T) {
	be := &fakeBackend{}
	re := NewWithBackend(be)
	s, _, _ := testScene()
	behind := scene.NewMeshNode("behind", scene.CreateBox(1, 1, 1), core.NewTransform())
	behind.SetPosition(math.NewVec3(0, 0, 20))
	s.AddNode(behind)

	cam := scene.NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.SetPosition(math.NewVec3(0, 0, 5))
	cam.LookAt(math.Vec3Zero)

	require.NoError(t, re.Render(s, cam))
	assert.Len(t, be.meshes, 2)
	_, _, _, culled := re.DrawStats()
	assert.Equal(t, 1, culled)

	re.FrustumCulling = false
	be.meshes = nil
	require.NoError(t, re.Render(s, cam))
	assert.Len(t, be.meshes, 3)
}

func TestRenderSkipsHiddenSubtreesAndBatches(t *testing.T) {
	be := &fakeBackend{}
	re := NewWithBackend(be)
	s, parent, batch := testScene()
	parent.Visible = false
	batch.Visible = false

	require.NoError(t, re.Render(s, scene.NewPerspectiveCamera(60, 1, 0.1, 100)))
	assert.Empty(t, be.meshes)
	assert.Empty(t, be.batches)

	objects, _, _, _ := re.DrawStats()
	assert.Zero(t, objects)
}

func TestRenderWithoutCamera(t *testing.T) {
	be := &fakeBackend{}
	re := NewWithBackend(be)
	s, _, _ := testScene()

	assert.ErrorIs(t, re.Render(s, nil), ErrNoCamera)
	assert.ErrorIs(t, re.Render(nil, scene.NewPerspectiveCamera(60, 1, 0.1, 100)), ErrNoCamera)
	assert.Zero(t, be.frames)
}

func TestSetSizeIgnoresEmptySurface(t *testing.T) {
	be := &fakeBackend{}
	re := NewWithBackend(be)

	re.SetSize(640, 480)
	re.SetSize(0, 480)
	assert.Equal(t, [2]int{640, 480}, be.viewport)

	re.Destroy()
	assert.True(t, be.destroyed)
}
