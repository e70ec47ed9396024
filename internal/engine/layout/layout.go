// Package layout describes interleaved vertex layouts and binds them to
// shader attribute locations.
package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/gpu"
	"github.com/Faultbox/axion/internal/engine/mesh"
	"github.com/Faultbox/axion/internal/logger"
)

// Attribute is one named entry of a layout.
type Attribute struct {
	Name       string
	Count      int
	Type       gpu.DataType
	Normalized bool
	Offset     int
	// Stride always holds the stride of the whole definition, updated on
	// every AddAttribute.
	Stride int
}

// Definition is an ordered list of attributes with a running byte offset.
type Definition struct {
	attributes []*Attribute
	stride     int
}

// AddAttribute appends an attribute at the current end of the vertex and
// returns it. Every attribute's Stride is updated to the new total.
func (d *Definition) AddAttribute(name string, count int, typ gpu.DataType, normalized bool) *Attribute {
	a := &Attribute{
		Name:       name,
		Count:      count,
		Type:       typ,
		Normalized: normalized,
		Offset:     d.stride,
	}
	d.stride += count * typ.Size()
	d.attributes = append(d.attributes, a)
	for _, attr := range d.attributes {
		attr.Stride = d.stride
	}
	return a
}

// Stride returns the size of one vertex in bytes.
func (d *Definition) Stride() int { return d.stride }

// Attributes returns the attributes in declaration order.
func (d *Definition) Attributes() []*Attribute { return d.attributes }

// ForFormat builds the float layout of a mesh vertex format, using the
// shader input names of its component kinds.
func ForFormat(f mesh.VertexFormat) *Definition {
	d := &Definition{}
	for _, k := range f.Kinds() {
		d.AddAttribute(k.Attribute(), k.Floats(), gpu.Float, false)
	}
	return d
}

// AttribLocator resolves attribute names to locations. Unknown names
// resolve to gpu.UnusedLocation.
type AttribLocator interface {
	AttribLocation(name string) int32
}

// BoundAttribute is an attribute resolved against a shader.
type BoundAttribute struct {
	Attribute
	Location int32
}

// Binding is a definition resolved against one shader program.
type Binding struct {
	Attributes []BoundAttribute
	Stride     int
}

// BindToShader resolves every attribute name against the shader. Names the
// shader does not expose get gpu.UnusedLocation.
func (d *Definition) BindToShader(shader AttribLocator) *Binding {
	b := &Binding{Stride: d.stride, Attributes: make([]BoundAttribute, len(d.attributes))}
	for i, a := range d.attributes {
		b.Attributes[i] = BoundAttribute{Attribute: *a, Location: shader.AttribLocation(a.Name)}
	}
	return b
}

// Configure enables and describes each located attribute on the bound
// vertex array and array buffer. Unused attributes are skipped.
func (b *Binding) Configure(dev gpu.Device) {
	for _, a := range b.Attributes {
		if a.Location < 0 {
			logger.Debug("vertex attribute not used by shader",
				zap.String("attribute", a.Name),
			)
			continue
		}
		loc := uint32(a.Location)
		dev.EnableVertexAttrib(loc)
		dev.VertexAttribPointer(loc, a.Count, a.Type, a.Normalized, b.Stride, a.Offset)
	}
}

// String dumps the definition, one attribute per line.
func (d *Definition) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "layout stride=%d\n", d.stride)
	for _, a := range d.attributes {
		fmt.Fprintf(&sb, "  %-12s count=%d type=%s normalized=%t offset=%d\n",
			a.Name, a.Count, a.Type, a.Normalized, a.Offset)
	}
	return sb.String()
}

// String dumps the binding, one attribute per line.
func (b *Binding) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "binding stride=%d\n", b.Stride)
	for _, a := range b.Attributes {
		fmt.Fprintf(&sb, "  %-12s location=%d count=%d type=%s offset=%d\n",
			a.Name, a.Location, a.Count, a.Type, a.Offset)
	}
	return sb.String()
}
