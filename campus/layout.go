package campus

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/chewxy/math32"

	"campus3d/config"
	"campus3d/core"
	"campus3d/math"
	"campus3d/scene"
)

// Layout is everything the assembler places into a scene.
type Layout struct {
	Background core.Color
	Lights     []scene.Light
	Placements []Placement
}

// LampPositions are the street lamp footprints on the ground plane (x, z).
// The first coordinate is listed twice on purpose; both lamps are kept.
var LampPositions = []math.Vec2{
	{X: -8, Y: -40},
	{X: -8, Y: -10},
	{X: -8, Y: 20},
	{X: -8, Y: -40},
	{X: 30, Y: -10},
	{X: 5, Y: 20},
}

const (
	lampPoleY  = 3.3
	lampHeadY  = 6.5
	lampRange  = 15
	groundSize = 100
)

// DefaultLayout describes the campus: ground, grass, two crossing roads, four
// buildings, five trees and the street lamps.
func DefaultLayout(cfg config.CampusConfig) Layout {
	layout := Layout{
		Background: core.ColorHex(0xbfd1e5),
		Lights: []scene.Light{
			*scene.NewAmbientLight(core.ColorHex(0xffffff), 0.5),
			*scene.NewDirectionalLight(core.ColorHex(0xffffff), 1, math.NewVec3(30, 50, 20)),
			*scene.NewPointLight(core.ColorHex(0xfff4cc), 0.7, math.NewVec3(10, 10, -10), 0),
		},
	}

	layout.Placements = append(layout.Placements,
		Placement{
			Category:   CategoryGround,
			Name:       "ground",
			Geometry:   Plane(groundSize, groundSize),
			Material:   MaterialSpec{Kind: "lambert", Color: 0x6fbf73},
			Transforms: []core.Transform{Rotated(At(0, 0, 0), -math32.Pi/2, 0, 0)},
		},
		Placement{
			Category:  CategoryGrass,
			Name:      "grass",
			Geometry:  Plane(0.1, 0.8),
			Material:  MaterialSpec{Kind: "lambert", Color: 0x6fbf73, DoubleSided: true},
			Generator: DefaultGrassField(cfg.GrassCount),
		},
		Placement{
			Category: CategoryRoad,
			Name:     "road",
			Geometry: Box(10, 1, 100),
			Material: MaterialSpec{Kind: "basic", Color: 0x555555},
			Transforms: []core.Transform{
				At(-15, 0.5, 0),
				Rotated(At(0, 0.5, 0), 0, math32.Pi/2, 0),
			},
		},
		Placement{
			Category:   CategoryBuilding,
			Name:       "library",
			Geometry:   Box(12, 14, 18),
			Material:   MaterialSpec{Kind: "phong", Color: 0x4682b4},
			Transforms: []core.Transform{At(-29, 4, -26)},
		},
		Placement{
			Category:   CategoryBuilding,
			Name:       "tower",
			Geometry:   Box(14, 23, 18),
			Material:   MaterialSpec{Kind: "standard", Color: 0x4682b4},
			Transforms: []core.Transform{At(-29, 4, 20)},
		},
		Placement{
			Category:   CategoryBuilding,
			Name:       "hall",
			Geometry:   Box(29, 8, 20),
			Material:   MaterialSpec{Kind: "lambert", Color: 0xc0c0c0},
			Transforms: []core.Transform{At(10, 4, 25)},
		},
		Placement{
			Category:   CategoryBuilding,
			Name:       "annex",
			Geometry:   Box(29, 8, 20),
			Material:   MaterialSpec{Kind: "standard", Color: 0x4682b4},
			Transforms: []core.Transform{At(10, 4, -20)},
		},
		Placement{
			Category: CategoryTree,
			Name:     "tree",
			Geometry: Cone(1.5, 4, 8),
			Material: MaterialSpec{Kind: "lambert", Color: 0x2e7d32},
			Transforms: []core.Transform{
				At(-5, 2, -45),
				At(-25, 2, -10),
				At(-4, 2, 10),
				At(20, 2, 10),
				At(30, 2, -15),
			},
		},
	)

	poles := make([]core.Transform, len(LampPositions))
	heads := make([]core.Transform, len(LampPositions))
	for i, p := range LampPositions {
		poles[i] = At(p.X, lampPoleY, p.Y)
		heads[i] = core.NewTransform()
		heads[i].Position = p.XZ(lampHeadY)
	}
	layout.Placements = append(layout.Placements,
		Placement{
			Category:   CategoryLamp,
			Name:       "lamp pole",
			Geometry:   Cylinder(0.2, 0.2, 6, 8),
			Material:   MaterialSpec{Kind: "standard", Color: 0x333333},
			Transforms: poles,
		},
		Placement{
			Category: CategoryLamp,
			Name:     "lamp head",
			Geometry: Sphere(0.5, 12, 12),
			Material: MaterialSpec{
				Kind:              "standard",
				Color:             0xffffcc,
				Emissive:          0xffff99,
				EmissiveIntensity: 0.5,
			},
			Transforms: heads,
			Light:      scene.NewPointLight(core.ColorHex(0xffeeaa), 1, math.Vec3Zero, lampRange),
		},
	)
	return layout
}

// Stats summarises what Assemble added.
type Stats struct {
	Objects    int
	ByCategory map[Category]int
	Instances  int
	Lights     int
}

// Assemble places every record of layout into s and adds its lights. It is
// not idempotent: assembling twice adds a second full set.
func Assemble(s *scene.Scene, layout Layout, rng *rand.Rand) (Stats, error) {
	stats := Stats{ByCategory: make(map[Category]int)}
	s.Background = layout.Background
	lightsBefore := len(s.Lights)

	var dups []math.Vec3
	for _, p := range layout.Placements {
		n, err := Place(s, p, rng)
		if err != nil {
			return stats, fmt.Errorf("assemble: %w", err)
		}
		stats.Objects += n
		stats.ByCategory[p.Category] += n
		if p.Generator != nil {
			stats.Instances += s.Instanced[len(s.Instanced)-1].Count()
		}
		dups = append(dups, DuplicatePositions(p.Transforms)...)
	}

	for _, l := range layout.Lights {
		light := l
		s.AddLight(&light)
	}
	stats.Lights = len(s.Lights) - lightsBefore

	if len(dups) > 0 {
		slog.Warn("layout places objects at the same position", "positions", dups)
	}
	slog.Debug("campus assembled",
		"objects", stats.Objects,
		"instances", stats.Instances,
		"lights", stats.Lights)
	return stats, nil
}

// DuplicatePositions returns each position that appears more than once in
// transforms, in order of first repeat.
func DuplicatePositions(transforms []core.Transform) []math.Vec3 {
	seen := make(map[math.Vec3]int, len(transforms))
	var dups []math.Vec3
	for _, t := range transforms {
		seen[t.Position]++
		if seen[t.Position] == 2 {
			dups = append(dups, t.Position)
		}
	}
	return dups
}
