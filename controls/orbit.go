// Package controls moves a camera around a target from pointer input.
package controls

import (
	"github.com/chewxy/math32"

	"campus3d/core"
	"campus3d/math"
	"campus3d/scene"
)

const (
	epsilon = 1e-6
	// Keeps the camera off the poles, where the view basis degenerates.
	polarMargin = 1e-3
)

type dragState int

const (
	dragNone dragState = iota
	dragRotate
	dragPan
)

// Orbit keeps a camera on a sphere around Target. Left drag orbits, right or
// middle drag pans, scrolling dollies. Input only accumulates deltas; Update
// applies them and must run once per frame before rendering.
type Orbit struct {
	Camera *scene.Camera
	Target math.Vec3

	// With damping each Update applies DampingFactor of the pending motion and
	// keeps the rest, so motion eases out after the pointer is released.
	EnableDamping bool
	DampingFactor float32

	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32 // radians from +Y
	MaxPolarAngle float32

	viewportWidth  float32
	viewportHeight float32

	state        dragState
	lastX, lastY float64

	thetaDelta float32
	phiDelta   float32
	scale      float32
	panOffset  math.Vec3
}

// NewOrbit creates a controller around the origin for camera.
func NewOrbit(camera *scene.Camera) *Orbit {
	return &Orbit{
		Camera:         camera,
		Target:         math.Vec3Zero,
		EnableDamping:  true,
		DampingFactor:  0.05,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		PanSpeed:       1,
		MinDistance:    0,
		MaxDistance:    math32.Inf(1),
		MinPolarAngle:  0,
		MaxPolarAngle:  math32.Pi,
		viewportWidth:  1,
		viewportHeight: 1,
		scale:          1,
	}
}

// SetViewport records the drawing surface size used to turn pixel drags into
// angles and distances.
func (o *Orbit) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.viewportWidth = float32(width)
	o.viewportHeight = float32(height)
}

func (o *Orbit) PointerDown(button int, x, y float64) {
	switch button {
	case core.MouseButtonLeft:
		o.state = dragRotate
	case core.MouseButtonRight, core.MouseButtonMiddle:
		o.state = dragPan
	default:
		return
	}
	o.lastX, o.lastY = x, y
}

func (o *Orbit) PointerMove(x, y float64) {
	if o.state == dragNone {
		return
	}
	dx := float32(x - o.lastX)
	dy := float32(y - o.lastY)
	o.lastX, o.lastY = x, y

	switch o.state {
	case dragRotate:
		o.thetaDelta -= 2 * math32.Pi * dx / o.viewportHeight * o.RotateSpeed
		o.phiDelta -= 2 * math32.Pi * dy / o.viewportHeight * o.RotateSpeed
	case dragPan:
		o.pan(dx, dy)
	}
}

func (o *Orbit) PointerUp() {
	o.state = dragNone
}

// Scroll dollies towards the target for positive dy and away for negative.
func (o *Orbit) Scroll(dy float64) {
	if dy == 0 {
		return
	}
	zoom := math32.Pow(0.95, o.ZoomSpeed)
	if dy > 0 {
		o.scale *= zoom
	} else {
		o.scale /= zoom
	}
}

// pan moves the target in the camera's view plane so the point under the
// pointer follows it.
func (o *Orbit) pan(dx, dy float32) {
	offset := o.Camera.Position.Sub(o.Target)
	distance := offset.Length() * math32.Tan(math.DegToRad(o.Camera.FOV)/2)

	view := o.Camera.GetViewMatrix()
	right := math.Vec3{X: view[0][0], Y: view[1][0], Z: view[2][0]}
	up := math.Vec3{X: view[0][1], Y: view[1][1], Z: view[2][1]}

	left := right.Mul(-2 * dx * distance / o.viewportHeight * o.PanSpeed)
	upward := up.Mul(2 * dy * distance / o.viewportHeight * o.PanSpeed)
	o.panOffset = o.panOffset.Add(left).Add(upward)
}

// Update applies pending motion to the camera and reports whether it moved.
func (o *Orbit) Update() bool {
	offset := o.Camera.Position.Sub(o.Target)
	radius := offset.Length()
	theta := math32.Atan2(offset.X, offset.Z)
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(clamp(offset.Y/radius, -1, 1))
	}

	pan := o.panOffset
	if o.EnableDamping {
		theta += o.thetaDelta * o.DampingFactor
		phi += o.phiDelta * o.DampingFactor
		pan = pan.Mul(o.DampingFactor)
	} else {
		theta += o.thetaDelta
		phi += o.phiDelta
	}

	phi = clamp(phi, o.MinPolarAngle, o.MaxPolarAngle)
	phi = clamp(phi, polarMargin, math32.Pi-polarMargin)
	radius = clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	o.Target = o.Target.Add(pan)
	sinPhi, cosPhi := math32.Sincos(phi)
	sinTheta, cosTheta := math32.Sincos(theta)
	offset = math.Vec3{
		X: radius * sinPhi * sinTheta,
		Y: radius * cosPhi,
		Z: radius * sinPhi * cosTheta,
	}

	previous := o.Camera.Position
	o.Camera.SetPosition(o.Target.Add(offset))
	o.Camera.LookAt(o.Target)

	if o.EnableDamping {
		decay := 1 - o.DampingFactor
		o.thetaDelta *= decay
		o.phiDelta *= decay
		o.panOffset = o.panOffset.Mul(decay)
	} else {
		o.thetaDelta = 0
		o.phiDelta = 0
		o.panOffset = math.Vec3Zero
	}
	o.scale = 1

	return previous.Sub(o.Camera.Position).LengthSqr() > epsilon
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
