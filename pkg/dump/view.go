package dump

import (
	"fmt"

	"github.com/daimatz/jclass/pkg/descriptor"
	"github.com/daimatz/jclass/pkg/resolve"
)

// View is the serializable summary of a resolved class used by the JSON and
// YAML formats.
type View struct {
	Name       string          `json:"name" yaml:"name"`
	Version    string          `json:"version" yaml:"version"`
	Access     []string        `json:"access" yaml:"access"`
	SuperClass string          `json:"super_class,omitempty" yaml:"super_class,omitempty"`
	Interfaces []string        `json:"interfaces" yaml:"interfaces"`
	Fields     []MemberView    `json:"fields" yaml:"fields"`
	Methods    []MemberView    `json:"methods" yaml:"methods"`
	Attributes []AttributeView `json:"attributes" yaml:"attributes"`
}

// MemberView describes a field or a method.
type MemberView struct {
	Name       string          `json:"name" yaml:"name"`
	Descriptor string          `json:"descriptor" yaml:"descriptor"`
	Type       string          `json:"type" yaml:"type"`
	Access     []string        `json:"access" yaml:"access"`
	Attributes []AttributeView `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// AttributeView names an attribute and the size of its payload.
type AttributeView struct {
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"`
}

// NewView builds the View of c.
func NewView(c *resolve.Class) View {
	v := View{
		Name:       c.ThisClass,
		Version:    fmt.Sprintf("%d.%d", c.MajorVersion, c.MinorVersion),
		Access:     ClassFlags(c.AccessFlags),
		SuperClass: c.SuperClass,
		Interfaces: append([]string{}, c.Interfaces...),
		Fields:     make([]MemberView, 0, len(c.Fields)),
		Methods:    make([]MemberView, 0, len(c.Methods)),
		Attributes: attributeViews(c.Attributes),
	}
	for _, f := range c.Fields {
		v.Fields = append(v.Fields, MemberView{
			Name:       f.Name,
			Descriptor: f.Descriptor,
			Type:       f.Type.String(),
			Access:     FieldFlags(f.AccessFlags),
			Attributes: attributeViews(f.Attributes),
		})
	}
	for _, m := range c.Methods {
		v.Methods = append(v.Methods, MemberView{
			Name:       m.Name,
			Descriptor: m.Descriptor,
			Type:       signature(m.Name, m.Type),
			Access:     MethodFlags(m.AccessFlags),
			Attributes: attributeViews(m.Attributes),
		})
	}
	return v
}

func attributeViews(attrs []resolve.Attribute) []AttributeView {
	out := make([]AttributeView, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, AttributeView{Name: a.Name, Length: len(a.Data)})
	}
	return out
}

// signature renders a method as "<ret> <name>(<args>)".
func signature(name string, mt descriptor.MethodType) string {
	s := descriptor.ReturnString(mt.Return) + " " + name + "("
	for i, a := range mt.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}
