// Package resolve turns a decoded class file into a Class with every
// constant pool reference replaced by the value it names.
package resolve

import (
	"fmt"

	"github.com/daimatz/jclass/pkg/classfile"
	"github.com/daimatz/jclass/pkg/descriptor"
	cferrors "github.com/daimatz/jclass/pkg/errors"
)

// Option configures resolution.
type Option func(*resolver)

// WithMaxArrayDepth bounds array nesting in field and method descriptors.
func WithMaxArrayDepth(n int) Option {
	return func(r *resolver) {
		r.desc.MaxArrayDepth = n
	}
}

type resolver struct {
	pool classfile.ConstantPool
	desc descriptor.Parser
}

// Decode parses and resolves a class file held in memory.
func Decode(data []byte, opts ...Option) (*Class, error) {
	cf, err := classfile.Parse(data)
	if err != nil {
		return nil, err
	}
	return Resolve(cf, opts...)
}

// Resolve validates every constant pool reference in cf and builds the
// resolved Class. It stops at the first invalid reference.
func Resolve(cf *classfile.ClassFile, opts ...Option) (*Class, error) {
	r := &resolver{pool: cf.ConstantPool}
	for _, opt := range opts {
		opt(r)
	}

	c := &Class{
		MinorVersion: cf.MinorVersion,
		MajorVersion: cf.MajorVersion,
		AccessFlags:  cf.AccessFlags,
	}

	var err error
	if c.ThisClass, err = r.pool.ClassName(cf.ThisClass); err != nil {
		return nil, cferrors.WithPath(err, "this_class")
	}

	if cf.SuperClass != 0 {
		if c.SuperClass, err = r.pool.ClassName(cf.SuperClass); err != nil {
			return nil, cferrors.WithPath(err, "super_class")
		}
		c.hasSuper = true
	}

	c.Interfaces = make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		if c.Interfaces[i], err = r.pool.ClassName(idx); err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("interface[%d]", i))
		}
	}

	c.Fields = make([]Field, len(cf.Fields))
	for i := range cf.Fields {
		if c.Fields[i], err = r.field(&cf.Fields[i]); err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("field[%d]", i))
		}
	}

	c.Methods = make([]Method, len(cf.Methods))
	for i := range cf.Methods {
		if c.Methods[i], err = r.method(&cf.Methods[i]); err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("method[%d]", i))
		}
	}

	if c.Attributes, err = r.attributes(cf.Attributes); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *resolver) field(fi *classfile.MemberInfo) (Field, error) {
	f := Field{AccessFlags: fi.AccessFlags}
	var err error
	if f.Name, err = r.pool.Utf8(fi.NameIndex); err != nil {
		return f, cferrors.WithPath(err, "name")
	}
	if f.Descriptor, err = r.pool.Utf8(fi.DescriptorIndex); err != nil {
		return f, cferrors.WithPath(err, "descriptor")
	}
	if f.Type, err = r.desc.ParseField(f.Descriptor); err != nil {
		return f, cferrors.WithPath(err, "descriptor")
	}
	if f.Attributes, err = r.attributes(fi.Attributes); err != nil {
		return f, err
	}
	return f, nil
}

func (r *resolver) method(mi *classfile.MemberInfo) (Method, error) {
	m := Method{AccessFlags: mi.AccessFlags}
	var err error
	if m.Name, err = r.pool.Utf8(mi.NameIndex); err != nil {
		return m, cferrors.WithPath(err, "name")
	}
	if m.Descriptor, err = r.pool.Utf8(mi.DescriptorIndex); err != nil {
		return m, cferrors.WithPath(err, "descriptor")
	}
	if m.Type, err = r.desc.ParseMethod(m.Descriptor); err != nil {
		return m, cferrors.WithPath(err, "descriptor")
	}
	if m.Attributes, err = r.attributes(mi.Attributes); err != nil {
		return m, err
	}
	return m, nil
}

func (r *resolver) attributes(infos []classfile.AttributeInfo) ([]Attribute, error) {
	attrs := make([]Attribute, len(infos))
	for i, ai := range infos {
		name, err := r.pool.Utf8(ai.NameIndex)
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("attribute[%d]", i), "name")
		}
		data := make([]byte, len(ai.Data))
		copy(data, ai.Data)
		attrs[i] = Attribute{Name: name, Data: data}
	}
	return attrs, nil
}
