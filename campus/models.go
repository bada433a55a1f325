package campus

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"campus3d/config"
	"campus3d/math"
	"campus3d/scene"
)

// LoadModels loads each configured glTF file and places it in s under a
// parent node at the configured position. Instanced batches in the file are
// moved by the same offset. It returns how many drawable objects were added.
func LoadModels(s *scene.Scene, models []config.ModelConfig) (int, error) {
	added := 0
	for _, m := range models {
		res, err := scene.LoadGLTF(m.Path)
		if err != nil {
			return added, fmt.Errorf("model %s: %w", m.Path, err)
		}

		offset := math.NewVec3(m.Position[0], m.Position[1], m.Position[2])
		root := scene.NewNode(filepath.Base(m.Path))
		root.SetPosition(offset)
		for _, n := range res.Roots {
			root.AddChild(n)
		}
		s.AddNode(root)

		objects := 0
		root.Traverse(func(n *scene.Node) {
			if n.Mesh != nil {
				objects++
			}
		})

		shift := math.Mat4Translation(offset)
		for _, b := range res.Instanced {
			moved := scene.NewInstancedMesh(b.Name, b.Mesh, b.Count())
			for i, im := range b.Matrices() {
				if err := moved.SetMatrixAt(i, im.Mul(shift)); err != nil {
					return added, fmt.Errorf("model %s: %w", m.Path, err)
				}
			}
			moved.Visible = b.Visible
			moved.Freeze()
			s.AddInstanced(moved)
			objects++
		}

		slog.Info("model loaded", "path", m.Path, "objects", objects, "position", offset)
		added += objects
	}
	return added, nil
}
