package render

import (
	"fmt"

	"github.com/Faultbox/axion/internal/engine/buffer"
	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/layout"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/engine/shader"
)

// meshResources is a mesh uploaded for one shader program.
type meshResources struct {
	va     *buffer.VertexArray
	ranges []mesh.MaterialRange
}

// drawable converts quads to triangles; other meshes are drawn as they are.
func drawable(m *mesh.Mesh) (*mesh.Mesh, error) {
	if m.FaceCount() == 0 {
		if m.PrimitiveType != mesh.Quad {
			return m, nil
		}
		m = m.Clone()
		m.CreateFacesAndIndices(mesh.Quad)
	}
	for _, f := range m.Faces() {
		if f.Type() == mesh.Quad {
			return m.ToPrimitive(mesh.Triangle, -1)
		}
	}
	return m, nil
}

func primitiveOf(m *mesh.Mesh) gpu.Primitive {
	t := m.PrimitiveType
	if m.FaceCount() > 0 {
		t = m.Face(0).Type()
	}
	switch t {
	case mesh.Point:
		return gpu.Points
	case mesh.Line:
		return gpu.Lines
	default:
		return gpu.Triangles
	}
}

func uploadMesh(dev gpu.Device, prog *shader.Program, m *mesh.Mesh) (*meshResources, error) {
	if err := m.CheckComponents(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	dm, err := drawable(m)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	format, ok := mesh.FormatOf(dm)
	if !ok {
		return nil, fmt.Errorf("mesh %q: no vertex format for components %v", m.Name, dm.Kinds())
	}
	data, err := dm.Interleave(format)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}

	binding := layout.ForFormat(format).BindToShader(prog)
	r := &meshResources{
		va: buffer.NewVertexArray(dev, binding, primitiveOf(dm), gpu.StaticDraw),
	}
	if dm.FaceCount() == 0 {
		r.va.SetData(data, nil)
		return r, nil
	}
	indices, ranges := dm.Partition()
	r.va.SetData(data, indices)
	r.ranges = ranges
	return r, nil
}

// resourcesFor returns the object's mesh uploaded for prog, building it on
// first use and after MarkDirty.
func (o *Object) resourcesFor(dev gpu.Device, prog *shader.Program) (*meshResources, error) {
	if o.dirty {
		o.freeResources()
		o.dirty = false
	}
	if r, ok := o.resources[prog.Handle()]; ok {
		return r, nil
	}
	r, err := uploadMesh(dev, prog, o.Mesh.Mesh)
	if err != nil {
		return nil, err
	}
	if o.resources == nil {
		o.resources = make(map[gpu.Program]*meshResources)
	}
	o.resources[prog.Handle()] = r
	return r, nil
}

// draw draws the mesh with prog, which must be current. apply is called
// before each material range and may skip it by returning false; nil
// draws everything.
func (o *Object) draw(dev gpu.Device, prog *shader.Program, apply func(*Material) bool) error {
	r, err := o.resourcesFor(dev, prog)
	if err != nil {
		return err
	}
	if len(r.ranges) == 0 {
		if apply == nil || apply(o.Mesh.Material(0)) {
			r.va.Draw()
		}
		return nil
	}
	for _, rg := range r.ranges {
		if apply != nil && !apply(o.Mesh.Material(rg.MaterialID)) {
			continue
		}
		r.va.DrawRange(rg.Start, rg.Count)
	}
	return nil
}

func (o *Object) freeResources() {
	for _, r := range o.resources {
		r.va.Free()
	}
	o.resources = nil
}
