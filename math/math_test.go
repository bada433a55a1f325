package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertMat4Equal(t *testing.T, want [16]float32, got Mat4) {
	t.Helper()
	flat := got.Flatten()
	for i := range want {
		assert.InDelta(t, want[i], flat[i], eps, "element %d", i)
	}
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2))
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up))
	assert.InDelta(t, 1, NewVec3(3, 0, 4).Normalize().Length(), eps)
	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
	assert.Equal(t, NewVec3(1, 2, 3), v1.Min(v2).Min(v1))
	assert.Equal(t, NewVec3(4, 5, 6), v1.Max(v2))
	assert.Equal(t, NewVec3(-8, 6.5, -40), Vec2{X: -8, Y: -40}.XZ(6.5))
}

func TestMat4PerspectiveMatchesMathgl(t *testing.T) {
	fov := DegToRad(60)
	m := Mat4Perspective(fov, 1024.0/768.0, 0.1, 1000)
	assertMat4Equal(t, mgl32.Perspective(fov, 1024.0/768.0, 0.1, 1000), m)
}

func TestMat4LookAtMatchesMathgl(t *testing.T) {
	eye := NewVec3(35, 25, 35)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)
	want := mgl32.LookAtV(mgl32.Vec3{35, 25, 35}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assertMat4Equal(t, want, m)

	assert.True(t, m.TransformPoint(eye).ApproxEqual(Vec3Zero, 1e-4))
}

func TestMat4TranslationRow(t *testing.T) {
	m := Mat4Translation(NewVec3(1, 2, 3))
	assert.Equal(t, NewVec3(1, 2, 3), m.Translation())
	assert.Equal(t, NewVec3(1, 2, 3), m.TransformPoint(Vec3Zero))
}

func TestMat4ComposeOrder(t *testing.T) {
	// Scale first, then a quarter turn about Y, then translate.
	rot := QuaternionFromAxisAngle(Vec3Up, math32.Pi/2)
	m := Mat4Compose(NewVec3(10, 0, 0), rot, Splat(2))

	got := m.TransformPoint(Vec3Right)
	assert.True(t, got.ApproxEqual(NewVec3(10, 0, -2), eps), "got %v", got)
}

func TestQuaternionRotation(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, math32.Pi/2)
	result := q.RotateVector(Vec3Right)
	assert.True(t, result.ApproxEqual(NewVec3(0, 0, -1), 1e-3), "got %v", result)

	viaMatrix := q.ToMat4().TransformPoint(Vec3Right)
	assert.True(t, viaMatrix.ApproxEqual(result, eps))
}

func TestQuaternionFromEuler(t *testing.T) {
	// A plane facing +Z laid flat faces +Y.
	q := QuaternionFromEuler(NewVec3(-math32.Pi/2, 0, 0))
	assert.True(t, q.RotateVector(Vec3Front).ApproxEqual(Vec3Up, eps))

	// XYZ order matches mathgl's quaternion product qx*qy*qz.
	x, y, z := float32(0.3), float32(1.1), float32(-0.12)
	want := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0}).
		Mul(mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})).
		Mul(mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1}))
	got := QuaternionFromEuler(NewVec3(x, y, z))
	assert.InDelta(t, want.W, got.W, eps)
	assert.InDelta(t, want.V[0], got.X, eps)
	assert.InDelta(t, want.V[1], got.Y, eps)
	assert.InDelta(t, want.V[2], got.Z, eps)
}

func TestMat4Decompose(t *testing.T) {
	for _, euler := range []Vec3{
		NewVec3(0, 0, 0),
		NewVec3(0, 2.8, 0.1),
		NewVec3(-math32.Pi/2, 0, 0),
		NewVec3(0.4, -1.2, 3.0),
	} {
		rot := QuaternionFromEuler(euler)
		m := Mat4Compose(NewVec3(-3, 0.4, 12), rot, Splat(1.1))

		pos, gotRot, scale := m.Decompose()
		assert.True(t, pos.ApproxEqual(NewVec3(-3, 0.4, 12), eps), "euler %v", euler)
		assert.True(t, scale.ApproxEqual(Splat(1.1), eps), "euler %v", euler)
		v := NewVec3(0.3, -0.7, 0.9)
		assert.True(t, gotRot.RotateVector(v).ApproxEqual(rot.RotateVector(v), 1e-4), "euler %v", euler)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := QuaternionFromAxisAngle(Vec3Up, 0.5).ToMat4()
	m2 := Mat4Translation(NewVec3(1, 2, 3))

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
