package scene

import (
	"errors"
	"fmt"

	"campus3d/math"
)

var (
	// ErrFrozen is returned when writing instance data after Freeze.
	ErrFrozen = errors.New("instanced mesh is frozen")
	// ErrInstanceIndex is returned for an index outside [0, Count).
	ErrInstanceIndex = errors.New("instance index out of range")
)

// InstancedMesh draws one mesh many times with per-instance model matrices.
type InstancedMesh struct {
	Name     string
	Mesh     *Mesh
	Visible  bool
	matrices []math.Mat4
	frozen   bool

	// GPUData is set by the renderer backend for the instance buffer.
	GPUData interface{}
}

// NewInstancedMesh allocates count identity instances of mesh.
func NewInstancedMesh(name string, mesh *Mesh, count int) *InstancedMesh {
	matrices := make([]math.Mat4, count)
	for i := range matrices {
		matrices[i] = math.Mat4Identity()
	}
	return &InstancedMesh{Name: name, Mesh: mesh, Visible: true, matrices: matrices}
}

func (im *InstancedMesh) Count() int {
	return len(im.matrices)
}

func (im *InstancedMesh) SetMatrixAt(i int, m math.Mat4) error {
	if im.frozen {
		return ErrFrozen
	}
	if i < 0 || i >= len(im.matrices) {
		return fmt.Errorf("set matrix %d of %d: %w", i, len(im.matrices), ErrInstanceIndex)
	}
	im.matrices[i] = m
	return nil
}

func (im *InstancedMesh) MatrixAt(i int) (math.Mat4, error) {
	if i < 0 || i >= len(im.matrices) {
		return math.Mat4{}, fmt.Errorf("matrix %d of %d: %w", i, len(im.matrices), ErrInstanceIndex)
	}
	return im.matrices[i], nil
}

// Matrices returns the instance matrices. Callers must not modify the slice.
func (im *InstancedMesh) Matrices() []math.Mat4 {
	return im.matrices
}

// Freeze marks the instance data final; the renderer uploads it once.
func (im *InstancedMesh) Freeze() {
	im.frozen = true
}

func (im *InstancedMesh) Frozen() bool {
	return im.frozen
}
