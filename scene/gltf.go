package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"campus3d/core"
	"campus3d/math"
)

const (
	extUnlit      = "KHR_materials_unlit"
	extInstancing = "EXT_mesh_gpu_instancing"
)

// materialExtras round-trips the shading model, which glTF has no field for.
type materialExtras struct {
	Kind      string  `json:"kind"`
	Shininess float32 `json:"shininess,omitempty"`
}

// ErrAccessor is returned for accessors that are missing or hold data of a
// type the loader does not read.
var ErrAccessor = errors.New("unsupported gltf accessor")

type instancingExtension struct {
	Attributes map[string]int `json:"attributes"`
}

// ExportGLTF writes the scene as a binary glTF (.glb) file. Instanced batches
// use EXT_mesh_gpu_instancing so the file stays small.
func ExportGLTF(s *Scene, path string) error {
	doc, err := BuildGLTF(s)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("gltf save %q: %w", path, err)
	}
	return nil
}

// BuildGLTF converts the scene graph into an in-memory glTF document.
func BuildGLTF(s *Scene) (*gltf.Document, error) {
	w := &gltfWriter{
		doc:       gltf.NewDocument(),
		meshes:    make(map[*Mesh]int),
		materials: make(map[*Material]int),
		used:      make(map[string]bool),
	}

	root := w.doc.Scenes[0]
	for _, child := range s.Root.Children {
		idx, err := w.writeNode(child)
		if err != nil {
			return nil, err
		}
		root.Nodes = append(root.Nodes, idx)
	}
	for _, batch := range s.Instanced {
		idx, err := w.writeInstanced(batch)
		if err != nil {
			return nil, err
		}
		root.Nodes = append(root.Nodes, idx)
	}
	w.doc.ExtensionsUsed = slices.Sorted(maps.Keys(w.used))
	return w.doc, nil
}

type gltfWriter struct {
	doc       *gltf.Document
	meshes    map[*Mesh]int
	materials map[*Material]int
	used      map[string]bool
}

func (w *gltfWriter) writeNode(n *Node) (int, error) {
	t := n.Transform
	gn := &gltf.Node{
		Name:        n.Name,
		Translation: [3]float64{float64(t.Position.X), float64(t.Position.Y), float64(t.Position.Z)},
		Rotation:    [4]float64{float64(t.Rotation.X), float64(t.Rotation.Y), float64(t.Rotation.Z), float64(t.Rotation.W)},
		Scale:       [3]float64{float64(t.Scale.X), float64(t.Scale.Y), float64(t.Scale.Z)},
	}
	if n.Mesh != nil {
		mi, err := w.writeMesh(n.Mesh)
		if err != nil {
			return 0, fmt.Errorf("node %q: %w", n.Name, err)
		}
		gn.Mesh = gltf.Index(mi)
	}
	idx := len(w.doc.Nodes)
	w.doc.Nodes = append(w.doc.Nodes, gn)

	for _, child := range n.Children {
		ci, err := w.writeNode(child)
		if err != nil {
			return 0, err
		}
		gn.Children = append(gn.Children, ci)
	}
	return idx, nil
}

func (w *gltfWriter) writeInstanced(batch *InstancedMesh) (int, error) {
	mi, err := w.writeMesh(batch.Mesh)
	if err != nil {
		return 0, fmt.Errorf("instanced %q: %w", batch.Name, err)
	}

	count := batch.Count()
	translations := make([][3]float32, count)
	rotations := make([][4]float32, count)
	scales := make([][3]float32, count)
	for i, m := range batch.Matrices() {
		pos, rot, scale := m.Decompose()
		translations[i] = [3]float32{pos.X, pos.Y, pos.Z}
		rotations[i] = [4]float32{rot.X, rot.Y, rot.Z, rot.W}
		scales[i] = [3]float32{scale.X, scale.Y, scale.Z}
	}

	ext := instancingExtension{Attributes: map[string]int{
		"TRANSLATION": modeler.WriteAccessor(w.doc, gltf.TargetNone, translations),
		"ROTATION":    modeler.WriteAccessor(w.doc, gltf.TargetNone, rotations),
		"SCALE":       modeler.WriteAccessor(w.doc, gltf.TargetNone, scales),
	}}
	w.used[extInstancing] = true

	idx := len(w.doc.Nodes)
	w.doc.Nodes = append(w.doc.Nodes, &gltf.Node{
		Name:       batch.Name,
		Mesh:       gltf.Index(mi),
		Rotation:   [4]float64{0, 0, 0, 1},
		Scale:      [3]float64{1, 1, 1},
		Extensions: gltf.Extensions{extInstancing: ext},
	})
	return idx, nil
}

func (w *gltfWriter) writeMesh(m *Mesh) (int, error) {
	if idx, ok := w.meshes[m]; ok {
		return idx, nil
	}
	if len(m.Vertices) == 0 {
		return 0, fmt.Errorf("mesh %q has no vertices", m.Name)
	}

	positions := make([][3]float32, len(m.Vertices))
	normals := make([][3]float32, len(m.Vertices))
	uvs := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{v.Position.X, v.Position.Y, v.Position.Z}
		normals[i] = [3]float32{v.Normal.X, v.Normal.Y, v.Normal.Z}
		uvs[i] = [2]float32{v.UV.X, v.UV.Y}
	}

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			"POSITION":   modeler.WritePosition(w.doc, positions),
			"NORMAL":     modeler.WriteNormal(w.doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(w.doc, uvs),
		},
	}
	if len(m.Indices) > 0 {
		prim.Indices = gltf.Index(modeler.WriteIndices(w.doc, m.Indices))
	}
	mat := m.Material
	if mat == nil {
		mat = DefaultMaterial()
	}
	prim.Material = gltf.Index(w.writeMaterial(mat))

	idx := len(w.doc.Meshes)
	w.doc.Meshes = append(w.doc.Meshes, &gltf.Mesh{Name: m.Name, Primitives: []*gltf.Primitive{prim}})
	w.meshes[m] = idx
	return idx, nil
}

func (w *gltfWriter) writeMaterial(m *Material) int {
	if idx, ok := w.materials[m]; ok {
		return idx
	}

	metallic, roughness := float64(m.Metallic), float64(m.Roughness)
	if m.Kind != MaterialStandard {
		metallic, roughness = 0, 1
	}
	emissive := m.EmissiveRadiance()
	gm := &gltf.Material{
		Name:        m.Name,
		DoubleSided: m.DoubleSided,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{float64(m.Color.R), float64(m.Color.G), float64(m.Color.B), float64(m.Color.A)},
			MetallicFactor:  gltf.Float(metallic),
			RoughnessFactor: gltf.Float(roughness),
		},
		EmissiveFactor: [3]float64{clamp01(emissive.R), clamp01(emissive.G), clamp01(emissive.B)},
		Extras:         materialExtras{Kind: m.Kind.String(), Shininess: m.Shininess},
	}
	if m.Kind == MaterialBasic {
		gm.Extensions = gltf.Extensions{extUnlit: map[string]any{}}
		w.used[extUnlit] = true
	}

	idx := len(w.doc.Materials)
	w.doc.Materials = append(w.doc.Materials, gm)
	w.materials[m] = idx
	return idx
}

func clamp01(v float32) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return float64(v)
}

// GLTFResult holds the nodes and instanced batches loaded from a .glb / .gltf file.
type GLTFResult struct {
	Roots     []*Node // top-level nodes; add each with scene.AddNode(n)
	Instanced []*InstancedMesh
}

// LoadGLTF opens a .glb or .gltf file and returns a ready-to-use scene graph.
// Files written by ExportGLTF load back with their shading models intact;
// other files get Standard materials, or Basic for KHR_materials_unlit.
func LoadGLTF(path string) (*GLTFResult, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	result := &GLTFResult{}

	matCache := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		matCache[i] = loadGLTFMaterial(gm)
	}

	meshCache := make([]*Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		if len(gm.Primitives) == 0 {
			continue
		}
		// Only the first primitive is used; the exporter writes one per mesh.
		prim := gm.Primitives[0]
		m, err := loadGLTFPrimitive(doc, gm.Name, *prim)
		if err != nil {
			return nil, fmt.Errorf("gltf mesh %d: %w", mi, err)
		}
		if prim.Material != nil && *prim.Material < len(matCache) {
			m.Material = matCache[*prim.Material]
		}
		meshCache[mi] = m
	}

	nodes := make([]*Node, len(doc.Nodes))
	isInstanced := make([]bool, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}

		var mesh *Mesh
		if gn.Mesh != nil && *gn.Mesh < len(meshCache) {
			mesh = meshCache[*gn.Mesh]
		}

		if raw, ok := gn.Extensions[extInstancing]; ok && mesh != nil {
			batch, err := loadInstanced(doc, name, mesh, raw)
			if err != nil {
				return nil, fmt.Errorf("gltf node %q: %w", name, err)
			}
			result.Instanced = append(result.Instanced, batch)
			isInstanced[i] = true
			continue
		}

		n := NewNode(name)
		t := gn.TranslationOrDefault()
		n.SetPosition(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])})

		sc := gn.ScaleOrDefault()
		n.SetScale(math.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])})

		r := gn.RotationOrDefault() // [x, y, z, w]
		n.SetRotation(math.Quaternion{
			X: float32(r[0]), Y: float32(r[1]),
			Z: float32(r[2]), W: float32(r[3]),
		})
		n.Mesh = mesh
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, childIdx := range gn.Children {
			if childIdx < len(nodes) && nodes[childIdx] != nil && nodes[i] != nil {
				nodes[i].AddChild(nodes[childIdx])
				hasParent[childIdx] = true
			}
		}
	}

	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if rootIdx < len(nodes) && nodes[rootIdx] != nil {
				result.Roots = append(result.Roots, nodes[rootIdx])
			}
		}
	} else {
		for i, n := range nodes {
			if n != nil && !hasParent[i] && !isInstanced[i] {
				result.Roots = append(result.Roots, n)
			}
		}
	}

	return result, nil
}

func loadGLTFMaterial(gm *gltf.Material) *Material {
	mat := NewMaterial(gm.Name, MaterialStandard, core.ColorWhite)

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat.Color = core.Color{
			R: float32(cf[0]), G: float32(cf[1]),
			B: float32(cf[2]), A: float32(cf[3]),
		}
		mat.Metallic = float32(pbr.MetallicFactorOrDefault())
		mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
	}
	mat.Emissive = core.Color{
		R: float32(gm.EmissiveFactor[0]), G: float32(gm.EmissiveFactor[1]),
		B: float32(gm.EmissiveFactor[2]), A: 1,
	}
	mat.DoubleSided = gm.DoubleSided

	if _, ok := gm.Extensions[extUnlit]; ok {
		mat.Kind = MaterialBasic
	}

	var extras materialExtras
	if gm.Extras != nil && decodeJSON(gm.Extras, &extras) == nil {
		if kind, ok := ParseMaterialKind(extras.Kind); ok {
			mat.Kind = kind
			if kind == MaterialPhong {
				mat.Specular = core.ColorHex(0x111111)
				mat.Shininess = extras.Shininess
			}
		}
	}
	return mat
}

func loadInstanced(doc *gltf.Document, name string, mesh *Mesh, raw any) (*InstancedMesh, error) {
	var ext instancingExtension
	if err := decodeJSON(raw, &ext); err != nil {
		return nil, fmt.Errorf("%s: %w", extInstancing, err)
	}

	translations, err := readVec3Accessor(doc, ext.Attributes, "TRANSLATION")
	if err != nil {
		return nil, err
	}
	scales, err := readVec3Accessor(doc, ext.Attributes, "SCALE")
	if err != nil {
		return nil, err
	}
	rotations, err := readRotationAccessor(doc, ext.Attributes)
	if err != nil {
		return nil, err
	}

	count := max(len(translations), len(rotations), len(scales))
	batch := NewInstancedMesh(name, mesh, count)
	for i := 0; i < count; i++ {
		pos, rot, scale := math.Vec3Zero, math.QuaternionIdentity(), math.Vec3One
		if i < len(translations) {
			pos = math.Vec3{X: translations[i][0], Y: translations[i][1], Z: translations[i][2]}
		}
		if i < len(rotations) {
			r := rotations[i]
			rot = math.Quaternion{X: r[0], Y: r[1], Z: r[2], W: r[3]}
		}
		if i < len(scales) {
			scale = math.Vec3{X: scales[i][0], Y: scales[i][1], Z: scales[i][2]}
		}
		if err := batch.SetMatrixAt(i, math.Mat4Compose(pos, rot, scale)); err != nil {
			return nil, err
		}
	}
	batch.Freeze()
	return batch, nil
}

// accessor returns doc.Accessors[idx], or an error for an index the file
// does not define.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d of %d: %w", idx, len(doc.Accessors), ErrAccessor)
	}
	return doc.Accessors[idx], nil
}

func readAttribute(doc *gltf.Document, attrs map[string]int, name string) (any, error) {
	idx, ok := attrs[name]
	if !ok {
		return nil, nil
	}
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

func readVec3Accessor(doc *gltf.Document, attrs map[string]int, name string) ([][3]float32, error) {
	data, err := readAttribute(doc, attrs, name)
	if err != nil || data == nil {
		return nil, err
	}
	values, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("%s: %T: %w", name, data, ErrAccessor)
	}
	return values, nil
}

// readRotationAccessor reads quaternions stored as floats or as normalized
// signed bytes or shorts.
func readRotationAccessor(doc *gltf.Document, attrs map[string]int) ([][4]float32, error) {
	data, err := readAttribute(doc, attrs, "ROTATION")
	if err != nil || data == nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][4]float32:
		return v, nil
	case [][4]int16:
		return denormalize(v, 32767), nil
	case [][4]int8:
		return denormalize(v, 127), nil
	}
	return nil, fmt.Errorf("ROTATION: %T: %w", data, ErrAccessor)
}

func denormalize[T int8 | int16](values [][4]T, scale float32) [][4]float32 {
	out := make([][4]float32, len(values))
	for i, q := range values {
		for j, c := range q {
			out[i][j] = max(float32(c)/scale, -1)
		}
	}
	return out
}

// decodeJSON re-decodes an extension or extras value, which the gltf package
// hands back as raw JSON for extensions it does not know.
func decodeJSON(v any, out any) error {
	var data []byte
	switch raw := v.(type) {
	case json.RawMessage:
		data = raw
	case []byte:
		data = raw
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return err
		}
	}
	return json.Unmarshal(data, out)
}

// loadGLTFPrimitive converts one glTF mesh primitive into a scene.Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, prim gltf.Primitive) (*Mesh, error) {
	name := meshName
	if name == "" {
		name = "prim"
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	posAcc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32

	// Unreadable normals and UVs fall back to defaults.
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if acc, err := accessor(doc, idx); err == nil {
			normals, _ = modeler.ReadNormal(doc, acc, nil)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if acc, err := accessor(doc, idx); err == nil {
			uvs, _ = modeler.ReadTextureCoord(doc, acc, nil)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		idxAcc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(doc, idxAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return CreateMeshFromData(name, verts, indices), nil
}
