// Package campus builds the campus scene from declarative placement records.
package campus

import (
	"errors"
	"fmt"
	"math/rand"

	"campus3d/core"
	"campus3d/math"
	"campus3d/scene"
)

var (
	ErrUnknownGeometry = errors.New("unknown geometry kind")
	ErrUnknownMaterial = errors.New("unknown material kind")
)

// Category groups placements for reporting.
type Category string

const (
	CategoryGround   Category = "ground"
	CategoryGrass    Category = "grass"
	CategoryRoad     Category = "road"
	CategoryBuilding Category = "building"
	CategoryTree     Category = "tree"
	CategoryLamp     Category = "lamp"
)

// GeometrySpec names a primitive and its dimensions. Only the fields the
// primitive uses are read.
type GeometrySpec struct {
	Kind           string // plane, box, cone, cylinder, sphere
	Width          float32
	Height         float32
	Depth          float32
	Radius         float32
	RadiusTop      float32
	RadiusBottom   float32
	Segments       int
	HeightSegments int
}

func Plane(width, height float32) GeometrySpec {
	return GeometrySpec{Kind: "plane", Width: width, Height: height}
}

func Box(width, height, depth float32) GeometrySpec {
	return GeometrySpec{Kind: "box", Width: width, Height: height, Depth: depth}
}

func Cone(radius, height float32, segments int) GeometrySpec {
	return GeometrySpec{Kind: "cone", Radius: radius, Height: height, Segments: segments}
}

func Cylinder(radiusTop, radiusBottom, height float32, segments int) GeometrySpec {
	return GeometrySpec{Kind: "cylinder", RadiusTop: radiusTop, RadiusBottom: radiusBottom, Height: height, Segments: segments}
}

func Sphere(radius float32, widthSegments, heightSegments int) GeometrySpec {
	return GeometrySpec{Kind: "sphere", Radius: radius, Segments: widthSegments, HeightSegments: heightSegments}
}

// Build generates the mesh g describes.
func (g GeometrySpec) Build() (*scene.Mesh, error) {
	switch g.Kind {
	case "plane":
		return scene.CreatePlane(g.Width, g.Height), nil
	case "box":
		return scene.CreateBox(g.Width, g.Height, g.Depth), nil
	case "cone":
		return scene.CreateCone(g.Radius, g.Height, g.Segments), nil
	case "cylinder":
		return scene.CreateCylinder(g.RadiusTop, g.RadiusBottom, g.Height, g.Segments), nil
	case "sphere":
		return scene.CreateSphere(g.Radius, g.Segments, g.HeightSegments), nil
	}
	return nil, fmt.Errorf("%q: %w", g.Kind, ErrUnknownGeometry)
}

// MaterialSpec describes a material with 0xRRGGBB colours.
type MaterialSpec struct {
	Kind              string // basic, lambert, phong, standard
	Color             uint32
	Emissive          uint32
	EmissiveIntensity float32
	DoubleSided       bool
}

func (m MaterialSpec) Build(name string) (*scene.Material, error) {
	kind, ok := scene.ParseMaterialKind(m.Kind)
	if !ok {
		return nil, fmt.Errorf("%q: %w", m.Kind, ErrUnknownMaterial)
	}
	mat := scene.NewMaterial(name, kind, core.ColorHex(m.Color))
	mat.Emissive = core.ColorHex(m.Emissive)
	if m.EmissiveIntensity != 0 {
		mat.EmissiveIntensity = m.EmissiveIntensity
	}
	mat.DoubleSided = m.DoubleSided
	return mat, nil
}

// Generator produces instance matrices for a batch drawn with one mesh.
type Generator interface {
	Instances(rng *rand.Rand) []math.Mat4
}

// Placement is one kind of object in the layout: a geometry and material
// shared by every copy, placed either at fixed transforms or by a generator.
// When Generator is set the copies become a single instanced batch.
//
// Light, if set, is copied once per transform and positioned at the
// transform's position plus Light.Position. Each copy counts as an object.
// Generated batches ignore it.
type Placement struct {
	Category   Category
	Name       string
	Geometry   GeometrySpec
	Material   MaterialSpec
	Transforms []core.Transform
	Generator  Generator
	Light      *scene.Light
}

// At returns a transform at (x, y, z) with no rotation and unit scale.
func At(x, y, z float32) core.Transform {
	t := core.NewTransform()
	t.Position = math.NewVec3(x, y, z)
	return t
}

// Rotated returns t with rotation set from Euler angles in XYZ order.
func Rotated(t core.Transform, x, y, z float32) core.Transform {
	t.Rotation = math.QuaternionFromEuler(math.NewVec3(x, y, z))
	return t
}

// Place adds the objects of one placement to s and returns how many drawable
// objects it added. A generated batch counts as one object.
func Place(s *scene.Scene, p Placement, rng *rand.Rand) (int, error) {
	mesh, err := p.Geometry.Build()
	if err != nil {
		return 0, fmt.Errorf("place %s: %w", p.Name, err)
	}
	mesh.Name = p.Name
	mesh.Material, err = p.Material.Build(p.Name)
	if err != nil {
		return 0, fmt.Errorf("place %s: %w", p.Name, err)
	}

	if p.Generator != nil {
		matrices := p.Generator.Instances(rng)
		batch := scene.NewInstancedMesh(p.Name, mesh, len(matrices))
		for i, m := range matrices {
			if err := batch.SetMatrixAt(i, m); err != nil {
				return 0, fmt.Errorf("place %s: %w", p.Name, err)
			}
		}
		batch.Freeze()
		s.AddInstanced(batch)
		return 1, nil
	}

	for i, t := range p.Transforms {
		name := p.Name
		if len(p.Transforms) > 1 {
			name = fmt.Sprintf("%s %d", p.Name, i)
		}
		s.AddNode(scene.NewMeshNode(name, mesh, t))
	}
	if p.Light == nil {
		return len(p.Transforms), nil
	}
	for _, t := range p.Transforms {
		light := *p.Light
		light.Position = t.Position.Add(p.Light.Position)
		s.AddObjectLight(&light)
	}
	return 2 * len(p.Transforms), nil
}
