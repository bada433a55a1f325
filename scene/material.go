package scene

import (
	"fmt"

	"campus3d/core"
)

// MaterialKind selects the shading model a material is lit with.
type MaterialKind int

const (
	// MaterialBasic ignores lights and outputs the flat colour.
	MaterialBasic MaterialKind = iota
	// MaterialLambert is diffuse only.
	MaterialLambert
	// MaterialPhong adds a specular highlight to the diffuse term.
	MaterialPhong
	// MaterialStandard is metallic-roughness PBR.
	MaterialStandard
)

var materialKindNames = map[MaterialKind]string{
	MaterialBasic:    "basic",
	MaterialLambert:  "lambert",
	MaterialPhong:    "phong",
	MaterialStandard: "standard",
}

func (k MaterialKind) String() string {
	if name, ok := materialKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

// ParseMaterialKind maps a lower-case kind name back to its MaterialKind.
func ParseMaterialKind(name string) (MaterialKind, bool) {
	for kind, n := range materialKindNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Material describes surface appearance properties for a mesh.
type Material struct {
	Name  string
	Kind  MaterialKind
	Color core.Color

	Specular  core.Color // Phong highlight colour
	Shininess float32    // Phong exponent

	Metallic  float32 // Standard only
	Roughness float32 // Standard only

	Emissive          core.Color
	EmissiveIntensity float32

	// DoubleSided lights back faces with the flipped normal.
	DoubleSided bool
}

// NewMaterial creates a material of the given kind with the defaults each
// shading model starts from.
func NewMaterial(name string, kind MaterialKind, color core.Color) *Material {
	m := &Material{
		Name:              name,
		Kind:              kind,
		Color:             color,
		Emissive:          core.ColorBlack,
		EmissiveIntensity: 1,
	}
	switch kind {
	case MaterialPhong:
		m.Specular = core.ColorHex(0x111111)
		m.Shininess = 30
	case MaterialStandard:
		m.Roughness = 1
	}
	return m
}

// DefaultMaterial returns a plain white Lambert material.
func DefaultMaterial() *Material {
	return NewMaterial("Default", MaterialLambert, core.ColorWhite)
}

// EmissiveRadiance is the emitted colour scaled by its intensity.
func (m *Material) EmissiveRadiance() core.Color {
	return m.Emissive.Scale(m.EmissiveIntensity)
}
