package scene

import (
	"slices"

	"campus3d/core"
	"campus3d/math"
)

// Node is one entry of the scene graph. Its world matrix is its local
// transform followed by its parent's world matrix. A hidden node hides its
// whole subtree.
type Node struct {
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Visible   bool

	world      math.Mat4
	worldStale bool
}

func NewNode(name string) *Node {
	return &Node{
		Name:       name,
		Transform:  core.NewTransform(),
		Visible:    true,
		worldStale: true,
	}
}

// NewMeshNode creates a node drawing mesh with the given local transform.
func NewMeshNode(name string, mesh *Mesh, transform core.Transform) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Transform = transform
	return n
}

// AddChild reparents child under n.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.invalidate()
}

func (n *Node) RemoveChild(child *Node) {
	i := slices.Index(n.Children, child)
	if i < 0 {
		return
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	child.Parent = nil
	child.invalidate()
}

// GetWorldMatrix returns local * parent world, cached until a transform in
// the ancestry changes.
func (n *Node) GetWorldMatrix() math.Mat4 {
	if !n.worldStale {
		return n.world
	}
	n.world = n.Transform.GetMatrix()
	if n.Parent != nil {
		n.world = n.world.Mul(n.Parent.GetWorldMatrix())
	}
	n.worldStale = false
	return n.world
}

func (n *Node) invalidate() {
	n.Traverse(func(d *Node) { d.worldStale = true })
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.Transform.Position = pos
	n.invalidate()
}

func (n *Node) SetRotation(rot math.Quaternion) {
	n.Transform.Rotation = rot
	n.invalidate()
}

func (n *Node) SetScale(scale math.Vec3) {
	n.Transform.Scale = scale
	n.invalidate()
}

// Traverse calls visit for n and every descendant, parents first.
func (n *Node) Traverse(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Traverse(visit)
	}
}

// Find returns the first node named name in depth-first order, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}
