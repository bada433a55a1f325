package controls

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus3d/core"
	"campus3d/math"
	"campus3d/scene"
)

const eps = 1e-4

func newTestOrbit(damping bool) *Orbit {
	cam := scene.NewPerspectiveCamera(60, 800.0/600.0, 0.1, 1000)
	cam.SetPosition(math.NewVec3(0, 0, 10))
	cam.LookAt(math.Vec3Zero)

	o := NewOrbit(cam)
	o.EnableDamping = damping
	o.SetViewport(800, 600)
	return o
}

// yaw returns the camera's azimuth around the target.
func yaw(o *Orbit) float32 {
	offset := o.Camera.Position.Sub(o.Target)
	return math32.Atan2(offset.X, offset.Z)
}

func TestUpdateWithoutInputKeepsCamera(t *testing.T) {
	o := newTestOrbit(true)
	assert.False(t, o.Update())
	assert.True(t, o.Camera.Position.ApproxEqual(math.NewVec3(0, 0, 10), eps))
	assert.Equal(t, math.Vec3Zero, o.Camera.Target)
}

func TestLeftDragOrbits(t *testing.T) {
	o := newTestOrbit(false)

	// A drag of half the viewport height is a quarter turn.
	o.PointerDown(core.MouseButtonLeft, 400, 300)
	o.PointerMove(550, 300)
	o.PointerUp()

	assert.True(t, o.Update())
	assert.True(t, o.Camera.Position.ApproxEqual(math.NewVec3(-10, 0, 0), eps), "got %v", o.Camera.Position)
	assert.InDelta(t, 10, o.Camera.Position.Length(), eps)

	// Without damping nothing is left over.
	assert.False(t, o.Update())
}

func TestDampingEasesOut(t *testing.T) {
	o := newTestOrbit(true)

	o.PointerDown(core.MouseButtonLeft, 0, 0)
	o.PointerMove(float64(600/(2*math32.Pi)), 0) // thetaDelta = -1 rad
	o.PointerUp()

	require.True(t, o.Update())
	assert.InDelta(t, -0.05, yaw(o), eps)

	// The pending delta decays by (1 - DampingFactor), so motion continues after release.
	require.True(t, o.Update())
	assert.InDelta(t, -0.05-0.05*0.95, yaw(o), eps)

	for i := 0; i < 500; i++ {
		o.Update()
	}
	assert.InDelta(t, -1, yaw(o), 1e-3)
	assert.False(t, o.Update())
}

func TestScrollDollies(t *testing.T) {
	o := newTestOrbit(false)

	o.Scroll(1)
	o.Update()
	assert.InDelta(t, 9.5, o.Camera.Position.Length(), eps)

	o.Scroll(-1)
	o.Update()
	assert.InDelta(t, 10, o.Camera.Position.Length(), eps)

	o.MaxDistance = 20
	for i := 0; i < 100; i++ {
		o.Scroll(-1)
		o.Update()
	}
	assert.InDelta(t, 20, o.Camera.Position.Length(), eps)
}

func TestPolarAngleIsClamped(t *testing.T) {
	o := newTestOrbit(false)

	o.PointerDown(core.MouseButtonLeft, 0, 0)
	o.PointerMove(0, 5000)
	o.Update()

	pos := o.Camera.Position
	assert.InDelta(t, 10, pos.Length(), eps)
	assert.Less(t, pos.Y, float32(10), "camera flipped over the pole")
	assert.Greater(t, pos.Y, float32(9.99))
}

func TestRightDragPansTarget(t *testing.T) {
	o := newTestOrbit(false)

	o.PointerDown(core.MouseButtonRight, 100, 100)
	o.PointerMove(200, 100)
	o.PointerUp()
	o.Update()

	assert.Less(t, o.Target.X, float32(0), "dragging right moves the scene with the pointer")
	assert.InDelta(t, 0, o.Target.Y, eps)
	assert.InDelta(t, 0, o.Target.Z, eps)

	// Camera and target move together.
	offset := o.Camera.Position.Sub(o.Target)
	assert.True(t, offset.ApproxEqual(math.NewVec3(0, 0, 10), eps), "got %v", offset)
}

func TestMoveWithoutButtonIsIgnored(t *testing.T) {
	o := newTestOrbit(false)
	o.PointerMove(300, 300)
	o.PointerMove(500, 100)
	assert.False(t, o.Update())
}

type fakeInput struct {
	button core.MouseButtonCallback
	cursor core.CursorPosCallback
	scroll core.ScrollCallback
}

func (f *fakeInput) SetMouseButtonCallback(cb core.MouseButtonCallback) { f.button = cb }
func (f *fakeInput) SetCursorPosCallback(cb core.CursorPosCallback)     { f.cursor = cb }
func (f *fakeInput) SetScrollCallback(cb core.ScrollCallback)           { f.scroll = cb }

func TestBindForwardsInput(t *testing.T) {
	o := newTestOrbit(false)
	in := &fakeInput{}
	Bind(in, o)
	require.NotNil(t, in.button)
	require.NotNil(t, in.cursor)
	require.NotNil(t, in.scroll)

	in.button(core.MouseButtonLeft, true, 400, 300)
	in.cursor(550, 300)
	in.button(core.MouseButtonLeft, false, 550, 300)
	in.cursor(900, 300) // released, ignored
	o.Update()
	assert.True(t, o.Camera.Position.ApproxEqual(math.NewVec3(-10, 0, 0), eps), "got %v", o.Camera.Position)

	in.scroll(0, 1)
	o.Update()
	assert.InDelta(t, 9.5, o.Camera.Position.Length(), eps)
}
