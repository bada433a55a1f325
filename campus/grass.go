package campus

import (
	"math/rand"

	"github.com/chewxy/math32"

	"campus3d/math"
)

// GrassInstance is one sampled blade.
type GrassInstance struct {
	Position math.Vec3
	Yaw      float32 // rotation about Y, [0, Pi)
	Tilt     float32 // rotation about Z, [-MaxTilt/2, MaxTilt/2)
	Scale    float32 // uniform, [MinScale, MinScale+ScaleRange)
}

// Matrix returns translate * rotate(XYZ Euler 0, Yaw, Tilt) * scale.
func (g GrassInstance) Matrix() math.Mat4 {
	rot := math.QuaternionFromEuler(math.NewVec3(0, g.Yaw, g.Tilt))
	return math.Mat4Compose(g.Position, rot, math.Splat(g.Scale))
}

// GrassField scatters blades uniformly over a square centred on the origin.
type GrassField struct {
	Count      int
	Extent     float32 // side length of the square
	Height     float32 // blade centre height
	MaxTilt    float32
	MinScale   float32
	ScaleRange float32
}

// DefaultGrassField covers the 100x100 ground with blades standing at 0.4.
func DefaultGrassField(count int) GrassField {
	return GrassField{
		Count:      count,
		Extent:     100,
		Height:     0.4,
		MaxTilt:    0.3,
		MinScale:   0.8,
		ScaleRange: 0.4,
	}
}

// Sample draws Count blades from rng, consuming five values per blade in the
// order x, z, yaw, tilt, scale.
func (f GrassField) Sample(rng *rand.Rand) []GrassInstance {
	blades := make([]GrassInstance, f.Count)
	half := f.Extent / 2
	for i := range blades {
		x := rng.Float32()*f.Extent - half
		z := rng.Float32()*f.Extent - half
		blades[i] = GrassInstance{
			Position: math.NewVec3(x, f.Height, z),
			Yaw:      rng.Float32() * math32.Pi,
			Tilt:     (rng.Float32() - 0.5) * f.MaxTilt,
			Scale:    f.MinScale + rng.Float32()*f.ScaleRange,
		}
	}
	return blades
}

func (f GrassField) Instances(rng *rand.Rand) []math.Mat4 {
	blades := f.Sample(rng)
	matrices := make([]math.Mat4, len(blades))
	for i, b := range blades {
		matrices[i] = b.Matrix()
	}
	return matrices
}
