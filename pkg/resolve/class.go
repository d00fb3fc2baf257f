package resolve

import "github.com/daimatz/jclass/pkg/descriptor"

// Class is the resolved, immutable form of a class file.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	ThisClass    string
	SuperClass   string // "" when the class has no superclass
	Interfaces   []string
	Fields       []Field
	Methods      []Method
	Attributes   []Attribute

	hasSuper bool
}

// HasSuperClass reports whether super_class was non-zero.
func (c *Class) HasSuperClass() bool { return c.hasSuper }

// Field is a resolved field_info.
type Field struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Type        *descriptor.Type
	Attributes  []Attribute
}

// Method is a resolved method_info.
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Type        descriptor.MethodType
	Attributes  []Attribute
}

// Attribute is a named, uninterpreted attribute payload.
type Attribute struct {
	Name string
	Data []byte
}

// FindMethod finds a method by name and descriptor.
func (c *Class) FindMethod(name, desc string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name && c.Methods[i].Descriptor == desc {
			return &c.Methods[i]
		}
	}
	return nil
}

// FindMethodByName finds a method by name only (first match).
func (c *Class) FindMethodByName(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// FindField finds a field by name.
func (c *Class) FindField(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// FindAttribute returns the first attribute with the given name.
func FindAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}
