// Package renderer walks a scene graph and issues draws to a GPU backend.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"campus3d/core"
	"campus3d/internal/opengl"
	"campus3d/math"
	"campus3d/scene"
)

var ErrNoCamera = errors.New("renderer: no scene or camera")

// Backend is the GPU API the engine drives. *opengl.Renderer implements it.
type Backend interface {
	SetViewport(width, height int)
	BeginFrame(background, ambient core.Color, lights []*scene.Light, camPos math.Vec3, viewProj math.Mat4)
	DrawMesh(mesh *scene.Mesh, model math.Mat4)
	DrawInstanced(batch *scene.InstancedMesh)
	Destroy()
}

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	backend Backend

	// FrustumCulling skips mesh nodes whose world bounds lie outside the view.
	// Instanced batches are always drawn.
	FrustumCulling bool

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastInstances int
	lastTriangles int
	lastCulled    int
}

// NewRenderEngine creates the OpenGL backend on the current context and sizes
// it to width x height.
func NewRenderEngine(width, height int) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	re := NewWithBackend(glRenderer)
	re.SetSize(width, height)
	slog.Info("render engine initialized", "backend", "opengl", "width", width, "height", height)
	return re, nil
}

// NewWithBackend wraps an existing backend.
func NewWithBackend(backend Backend) *RenderEngine {
	return &RenderEngine{backend: backend, FrustumCulling: true}
}

// SetSize resizes the drawing surface.
func (re *RenderEngine) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	re.backend.SetViewport(width, height)
}

// Render clears to the scene background and draws every visible mesh node
// and visible instanced batch as seen from cam.
func (re *RenderEngine) Render(s *scene.Scene, cam *scene.Camera) error {
	if s == nil || cam == nil {
		return ErrNoCamera
	}

	viewProj := cam.GetViewProjectionMatrix()
	re.backend.BeginFrame(s.Background, s.AmbientColor(), s.Lights, cam.Position, viewProj)
	frustum := scene.FrustumFromViewProjection(viewProj)

	objects, instances, triangles, culled := 0, 0, 0, 0

	for _, node := range s.GetVisibleNodes() {
		model := node.GetWorldMatrix()
		if re.FrustumCulling && !scene.WorldBounds(node.Mesh, model).IntersectsFrustum(&frustum) {
			culled++
			continue
		}
		re.backend.DrawMesh(node.Mesh, model)
		objects++
		instances++
		triangles += len(node.Mesh.Indices) / 3
	}

	for _, batch := range s.Instanced {
		if batch == nil || !batch.Visible || batch.Mesh == nil || batch.Count() == 0 {
			continue
		}
		re.backend.DrawInstanced(batch)
		objects++
		instances += batch.Count()
		triangles += batch.Count() * len(batch.Mesh.Indices) / 3
	}

	re.lastObjects = objects
	re.lastInstances = instances
	re.lastTriangles = triangles
	re.lastCulled = culled
	return nil
}

// DrawStats returns stats from the most recent Render call. objects counts
// draw calls; instances counts drawn copies of meshes.
func (re *RenderEngine) DrawStats() (objects, instances, triangles, culled int) {
	return re.lastObjects, re.lastInstances, re.lastTriangles, re.lastCulled
}

func (re *RenderEngine) Destroy() {
	re.backend.Destroy()
}
