package scene

import (
	"github.com/chewxy/math32"

	"campus3d/core"
	"campus3d/math"
)

// CreatePlane generates a width x height quad in the XY plane facing +Z.
// Rotate it by -Pi/2 about X to lay it on the ground.
func CreatePlane(width, height float32) *Mesh {
	w, h := width/2, height/2
	n := math.Vec3Front
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -w, Y: -h}, Normal: n, UV: math.Vec2{X: 0, Y: 0}, Color: core.ColorWhite},
		{Position: math.Vec3{X: w, Y: -h}, Normal: n, UV: math.Vec2{X: 1, Y: 0}, Color: core.ColorWhite},
		{Position: math.Vec3{X: w, Y: h}, Normal: n, UV: math.Vec2{X: 1, Y: 1}, Color: core.ColorWhite},
		{Position: math.Vec3{X: -w, Y: h}, Normal: n, UV: math.Vec2{X: 0, Y: 1}, Color: core.ColorWhite},
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}
	return CreateMeshFromData("Plane", vertices, indices)
}

// CreateBox generates an axis-aligned box centred on the origin.
func CreateBox(width, height, depth float32) *Mesh {
	x, y, z := width/2, height/2, depth/2

	type face struct {
		normal  math.Vec3
		corners [4]math.Vec3 // counter-clockwise seen from outside
	}
	faces := []face{
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: -z}, {X: -x, Y: y, Z: -z}, {X: x, Y: y, Z: -z}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -x, Y: y, Z: z}, {X: x, Y: y, Z: z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: -y, Z: z}, {X: -x, Y: -y, Z: z}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: x, Y: -y, Z: z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: x, Y: y, Z: z}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: z}, {X: -x, Y: y, Z: z}, {X: -x, Y: y, Z: -z}}},
	}
	uvs := [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, p := range f.corners {
			vertices = append(vertices, core.Vertex{Position: p, Normal: f.normal, UV: uvs[i], Color: core.ColorWhite})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return CreateMeshFromData("Box", vertices, indices)
}

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= heightSegments; ring++ {
		sinPhi, cosPhi := math32.Sincos(float32(ring) * math32.Pi / float32(heightSegments))

		for seg := 0; seg <= widthSegments; seg++ {
			sinTheta, cosTheta := math32.Sincos(float32(seg) * 2 * math32.Pi / float32(widthSegments))

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(widthSegments), Y: float32(ring) / float32(heightSegments)},
				Color:    core.ColorWhite,
			})
		}
	}

	for ring := 0; ring < heightSegments; ring++ {
		for seg := 0; seg < widthSegments; seg++ {
			current := uint32(ring*(widthSegments+1) + seg)
			next := current + uint32(widthSegments+1)

			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateCylinder generates a capped, possibly tapered cylinder of the given
// height centred on the origin. A zero top radius produces a cone.
func CreateCylinder(radiusTop, radiusBottom, height float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}

	var vertices []core.Vertex
	var indices []uint32
	halfHeight := height / 2

	// Side normals lean outward by the taper slope.
	slope := (radiusBottom - radiusTop) / height

	for i := 0; i <= segments; i++ {
		sinT, cosT := math32.Sincos(float32(i) * 2 * math32.Pi / float32(segments))
		normal := math.Vec3{X: cosT, Y: slope, Z: sinT}.Normalize()
		u := float32(i) / float32(segments)

		vertices = append(vertices,
			core.Vertex{
				Position: math.Vec3{X: cosT * radiusBottom, Y: -halfHeight, Z: sinT * radiusBottom},
				Normal:   normal,
				UV:       math.Vec2{X: u, Y: 0},
				Color:    core.ColorWhite,
			},
			core.Vertex{
				Position: math.Vec3{X: cosT * radiusTop, Y: halfHeight, Z: sinT * radiusTop},
				Normal:   normal,
				UV:       math.Vec2{X: u, Y: 1},
				Color:    core.ColorWhite,
			},
		)
	}

	for i := 0; i < segments; i++ {
		base := uint32(i * 2)
		indices = append(indices, base, base+1, base+2)
		indices = append(indices, base+2, base+1, base+3)
	}

	if radiusTop > 0 {
		vertices, indices = appendCap(vertices, indices, radiusTop, halfHeight, segments, math.Vec3Up)
	}
	if radiusBottom > 0 {
		vertices, indices = appendCap(vertices, indices, radiusBottom, -halfHeight, segments, math.Vec3Down)
	}

	return CreateMeshFromData("Cylinder", vertices, indices)
}

// CreateCone generates a cone with its apex at +height/2.
func CreateCone(radius, height float32, segments int) *Mesh {
	m := CreateCylinder(0, radius, height, segments)
	m.Name = "Cone"
	return m
}

// appendCap adds a triangle fan disc at height y facing normal.
func appendCap(vertices []core.Vertex, indices []uint32, radius, y float32, segments int, normal math.Vec3) ([]core.Vertex, []uint32) {
	center := uint32(len(vertices))
	vertices = append(vertices, core.Vertex{
		Position: math.Vec3{Y: y},
		Normal:   normal,
		UV:       math.Vec2{X: 0.5, Y: 0.5},
		Color:    core.ColorWhite,
	})

	for i := 0; i <= segments; i++ {
		sinT, cosT := math32.Sincos(float32(i) * 2 * math32.Pi / float32(segments))
		vertices = append(vertices, core.Vertex{
			Position: math.Vec3{X: cosT * radius, Y: y, Z: sinT * radius},
			Normal:   normal,
			UV:       math.Vec2{X: cosT*0.5 + 0.5, Y: sinT*0.5 + 0.5},
			Color:    core.ColorWhite,
		})
	}

	for i := uint32(0); i < uint32(segments); i++ {
		a, b := center+1+i, center+2+i
		if normal.Y > 0 {
			indices = append(indices, center, b, a)
		} else {
			indices = append(indices, center, a, b)
		}
	}
	return vertices, indices
}
