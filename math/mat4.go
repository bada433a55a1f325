package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in row-vector convention: points transform as v * M and
// transforms compose left to right (model * view * proj). The translation lives
// in row 3. Flattened row by row, a Mat4 is exactly the column-major float
// array OpenGL expects.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

// TransformPoint applies m to p with w=1 and divides by the resulting w.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return p.ToVec4(1).MulMat(m).ToVec3DivW()
}

// Translation returns the translation part of m.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[3][0], Y: m[3][1], Z: m[3][2]}
}

// Flatten returns the sixteen elements row by row.
func (m Mat4) Flatten() [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = m[i][j]
		}
	}
	return out
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

// Mat4Compose builds scale, then rotation, then translation.
func Mat4Compose(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	return Mat4Scale(scale).Mul(rotation.ToMat4()).Mul(Mat4Translation(translation))
}

// Mat4Perspective returns an OpenGL clip-space projection. fovY is in radians.
func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := math32.Tan(fovY / 2)

	var m Mat4
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -1
	m[3][2] = -(2 * far * near) / (far - near)
	return m
}

func Mat4LookAt(eye, target, up Vec3) Mat4 {
	zAxis := eye.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		{xAxis.X, yAxis.X, zAxis.X, 0},
		{xAxis.Y, yAxis.Y, zAxis.Y, 0},
		{xAxis.Z, yAxis.Z, zAxis.Z, 0},
		{-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1},
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Decompose splits an affine matrix built by Mat4Compose back into
// translation, rotation and scale. Scale is assumed positive.
func (m Mat4) Decompose() (Vec3, Quaternion, Vec3) {
	translation := m.Translation()
	x := Vec3{X: m[0][0], Y: m[0][1], Z: m[0][2]}
	y := Vec3{X: m[1][0], Y: m[1][1], Z: m[1][2]}
	z := Vec3{X: m[2][0], Y: m[2][1], Z: m[2][2]}
	scale := Vec3{X: x.Length(), Y: y.Length(), Z: z.Length()}
	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return translation, QuaternionIdentity(), scale
	}
	x, y, z = x.Mul(1/scale.X), y.Mul(1/scale.Y), z.Mul(1/scale.Z)

	var q Quaternion
	trace := x.X + y.Y + z.Z
	switch {
	case trace > 0:
		s := 2 * math32.Sqrt(trace+1)
		q.W = 0.25 * s
		q.X = (y.Z - z.Y) / s
		q.Y = (z.X - x.Z) / s
		q.Z = (x.Y - y.X) / s
	case x.X > y.Y && x.X > z.Z:
		s := 2 * math32.Sqrt(1+x.X-y.Y-z.Z)
		q.W = (y.Z - z.Y) / s
		q.X = 0.25 * s
		q.Y = (y.X + x.Y) / s
		q.Z = (z.X + x.Z) / s
	case y.Y > z.Z:
		s := 2 * math32.Sqrt(1+y.Y-x.X-z.Z)
		q.W = (z.X - x.Z) / s
		q.X = (y.X + x.Y) / s
		q.Y = 0.25 * s
		q.Z = (z.Y + y.Z) / s
	default:
		s := 2 * math32.Sqrt(1+z.Z-x.X-y.Y)
		q.W = (x.Y - y.X) / s
		q.X = (z.X + x.Z) / s
		q.Y = (z.Y + y.Z) / s
		q.Z = 0.25 * s
	}
	return translation, q.Normalize(), scale
}
