package scene

import (
	"campus3d/math"
)

// Camera is a perspective view camera. FOV is the vertical field of view in
// degrees. After changing FOV, AspectRatio or the clip planes call
// UpdateProjectionMatrix; the view matrix follows Position, Target and Up.
type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	projectionMatrix math.Mat4
}

func NewPerspectiveCamera(fovDeg, aspectRatio, nearPlane, farPlane float32) *Camera {
	c := &Camera{
		Up:          math.Vec3Up,
		Target:      math.Vec3Zero,
		FOV:         fovDeg,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
	c.UpdateProjectionMatrix()
	return c
}

// SetAspect stores width/height as the aspect ratio. Non-positive heights are
// ignored. The projection is not rebuilt until UpdateProjectionMatrix.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) UpdateProjectionMatrix() {
	c.projectionMatrix = math.Mat4Perspective(math.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	return c.projectionMatrix
}

func (c *Camera) GetViewProjectionMatrix() math.Mat4 {
	return c.GetViewMatrix().Mul(c.projectionMatrix)
}
