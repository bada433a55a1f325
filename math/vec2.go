package math

// Vec2 is a 2D vector, used for texture coordinates and for footprints on
// the ground plane, where Y holds the world Z coordinate.
type Vec2 struct {
	X, Y float32
}

// XZ lifts a ground footprint to a 3D point at height y.
func (v Vec2) XZ(y float32) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Y}
}
