package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus3d/math"
)

func TestColorHex(t *testing.T) {
	c := ColorHex(0x4682B4)
	assert.InDelta(t, 0x46/255.0, c.R, 1e-6)
	assert.InDelta(t, 0x82/255.0, c.G, 1e-6)
	assert.InDelta(t, 0xB4/255.0, c.B, 1e-6)
	assert.Equal(t, float32(1), c.A)

	assert.Equal(t, ColorWhite, ColorHex(0xffffff))
	assert.Equal(t, ColorBlack, ColorHex(0x000000))
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, math.Mat4Identity(), tr.GetMatrix())

	tr.Position = math.NewVec3(-15, 0.5, 0)
	tr.Scale = math.Splat(2)
	got := tr.GetMatrix().TransformPoint(math.NewVec3(1, 1, 1))
	assert.True(t, got.ApproxEqual(math.NewVec3(-13, 2.5, 2), 1e-5), "got %v", got)
}
