package scene

import (
	"github.com/chewxy/math32"

	"campus3d/core"
	"campus3d/math"
)

// Scene owns the node graph, instanced batches and lights of one world.
type Scene struct {
	Root       *Node
	Instanced  []*InstancedMesh
	Lights     []*Light
	Background core.Color

	// lights added as part of a placed object, such as a lamp's bulb
	objectLights int
}

// LightType distinguishes the light sources a scene can hold.
type LightType int

const (
	LightAmbient LightType = iota
	LightDirectional
	LightPoint
)

// Light represents a light source
type Light struct {
	Type      LightType
	Position  math.Vec3 // directional lights shine from Position towards the origin
	Color     core.Color
	Intensity float32
	Distance  float32 // point lights only; 0 means unlimited reach
	Decay     float32 // point lights only; exponent of the distance falloff
}

func NewAmbientLight(color core.Color, intensity float32) *Light {
	return &Light{Type: LightAmbient, Color: color, Intensity: intensity}
}

func NewDirectionalLight(color core.Color, intensity float32, position math.Vec3) *Light {
	return &Light{Type: LightDirectional, Color: color, Intensity: intensity, Position: position}
}

// DefaultDecay is the physically based inverse-square falloff.
const DefaultDecay = 2

func NewPointLight(color core.Color, intensity float32, position math.Vec3, distance float32) *Light {
	return &Light{
		Type:      LightPoint,
		Color:     color,
		Intensity: intensity,
		Position:  position,
		Distance:  distance,
		Decay:     DefaultDecay,
	}
}

// Attenuation scales a point light's intensity at dist from it:
// 1/max(dist^Decay, 0.01), faded smoothly to zero at Distance when one is set.
// The fragment shader computes the same curve.
func (l *Light) Attenuation(dist float32) float32 {
	atten := 1 / math32.Max(math32.Pow(dist, l.Decay), 0.01)
	if l.Distance > 0 {
		r := dist / l.Distance
		window := math32.Max(0, 1-r*r*r*r)
		atten *= window * window
	}
	return atten
}

// Direction returns the normalised direction a directional light travels.
func (l *Light) Direction() math.Vec3 {
	return l.Position.Negate().Normalize()
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Lights:     make([]*Light, 0),
		Background: core.ColorBlack,
	}
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddInstanced(batch *InstancedMesh) {
	s.Instanced = append(s.Instanced, batch)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// AddObjectLight adds a light that belongs to a placed object. It lights the
// scene like any other and also counts as an object in Count.
func (s *Scene) AddObjectLight(light *Light) {
	s.AddLight(light)
	s.objectLights++
}

// GetVisibleNodes returns all nodes with meshes that are visible. Hiding a
// node hides its whole subtree.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if !node.Visible {
			return
		}
		if node.Mesh != nil {
			visible = append(visible, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(s.Root)
	return visible
}

// ObjectCount counts drawable objects: every node with a mesh plus every
// instanced batch, which counts once regardless of its instance count.
func (s *Scene) ObjectCount() int {
	count := len(s.Instanced)
	s.Root.Traverse(func(node *Node) {
		if node.Mesh != nil {
			count++
		}
	})
	return count
}

// Count is ObjectCount plus the lights added with AddObjectLight.
func (s *Scene) Count() int {
	return s.ObjectCount() + s.objectLights
}

// AmbientColor sums the ambient lights into one radiance value.
func (s *Scene) AmbientColor() core.Color {
	ambient := core.Color{A: 1}
	for _, l := range s.Lights {
		if l.Type != LightAmbient {
			continue
		}
		c := l.Color.Scale(l.Intensity)
		ambient.R += c.R
		ambient.G += c.G
		ambient.B += c.B
	}
	return ambient
}
