// Package classtest assembles synthetic class files for tests.
package classtest

import (
	"encoding/binary"
	"math"
)

// Attribute is an attribute_info to emit.
type Attribute struct {
	NameIndex uint16
	Data      []byte
}

type member struct {
	flags      uint16
	name, desc uint16
	attrs      []Attribute
}

// Builder accumulates constant pool entries and class structure and emits
// the binary encoding. Index-returning methods hand back the pool index of
// the entry they added.
type Builder struct {
	Minor, Major uint16
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16

	pool       []byte
	next       uint16
	interfaces []uint16
	fields     []member
	methods    []member
	attrs      []Attribute
}

// New returns a Builder for a Java 8 class file with an empty pool.
func New() *Builder {
	return &Builder{Major: 52, AccessFlags: 0x0021, next: 1}
}

func (b *Builder) add(tag byte, body ...byte) uint16 {
	idx := b.next
	b.pool = append(b.pool, tag)
	b.pool = append(b.pool, body...)
	b.next++
	return idx
}

func u2(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func u4(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

// Utf8 adds a Utf8 entry holding s verbatim.
func (b *Builder) Utf8(s string) uint16 {
	return b.add(1, append(u2(uint16(len(s))), s...)...)
}

// Integer adds an Integer entry.
func (b *Builder) Integer(v int32) uint16 { return b.add(3, u4(uint32(v))...) }

// Float adds a Float entry.
func (b *Builder) Float(v float32) uint16 { return b.add(4, u4(math.Float32bits(v))...) }

// Long adds a Long entry, which occupies two slots.
func (b *Builder) Long(v int64) uint16 {
	idx := b.add(5, binary.BigEndian.AppendUint64(nil, uint64(v))...)
	b.next++
	return idx
}

// Double adds a Double entry, which occupies two slots.
func (b *Builder) Double(v float64) uint16 {
	idx := b.add(6, binary.BigEndian.AppendUint64(nil, math.Float64bits(v))...)
	b.next++
	return idx
}

// Class adds a Class entry pointing at nameIndex.
func (b *Builder) Class(nameIndex uint16) uint16 { return b.add(7, u2(nameIndex)...) }

// ClassNamed adds a Utf8 name and a Class entry for it.
func (b *Builder) ClassNamed(name string) uint16 { return b.Class(b.Utf8(name)) }

// StringConst adds a String entry.
func (b *Builder) StringConst(utf8Index uint16) uint16 { return b.add(8, u2(utf8Index)...) }

// NameAndType adds a NameAndType entry.
func (b *Builder) NameAndType(name, desc uint16) uint16 {
	return b.add(12, append(u2(name), u2(desc)...)...)
}

// Fieldref adds a Fieldref entry.
func (b *Builder) Fieldref(class, nat uint16) uint16 {
	return b.add(9, append(u2(class), u2(nat)...)...)
}

// Methodref adds a Methodref entry.
func (b *Builder) Methodref(class, nat uint16) uint16 {
	return b.add(10, append(u2(class), u2(nat)...)...)
}

// InterfaceMethodref adds an InterfaceMethodref entry.
func (b *Builder) InterfaceMethodref(class, nat uint16) uint16 {
	return b.add(11, append(u2(class), u2(nat)...)...)
}

// MethodHandle adds a MethodHandle entry.
func (b *Builder) MethodHandle(kind uint8, ref uint16) uint16 {
	return b.add(15, append([]byte{kind}, u2(ref)...)...)
}

// MethodType adds a MethodType entry.
func (b *Builder) MethodType(desc uint16) uint16 { return b.add(16, u2(desc)...) }

// Dynamic adds a Dynamic entry.
func (b *Builder) Dynamic(bsm, nat uint16) uint16 {
	return b.add(17, append(u2(bsm), u2(nat)...)...)
}

// InvokeDynamic adds an InvokeDynamic entry.
func (b *Builder) InvokeDynamic(bsm, nat uint16) uint16 {
	return b.add(18, append(u2(bsm), u2(nat)...)...)
}

// Module adds a Module entry.
func (b *Builder) Module(name uint16) uint16 { return b.add(19, u2(name)...) }

// Package adds a Package entry.
func (b *Builder) Package(name uint16) uint16 { return b.add(20, u2(name)...) }

// Raw adds an entry with an arbitrary tag and body, one slot wide.
func (b *Builder) Raw(tag byte, body ...byte) uint16 { return b.add(tag, body...) }

// Interface appends an interface index.
func (b *Builder) Interface(classIndex uint16) *Builder {
	b.interfaces = append(b.interfaces, classIndex)
	return b
}

// Field appends a field_info.
func (b *Builder) Field(flags, name, desc uint16, attrs ...Attribute) *Builder {
	b.fields = append(b.fields, member{flags, name, desc, attrs})
	return b
}

// Method appends a method_info.
func (b *Builder) Method(flags, name, desc uint16, attrs ...Attribute) *Builder {
	b.methods = append(b.methods, member{flags, name, desc, attrs})
	return b
}

// Attribute appends a class-level attribute.
func (b *Builder) Attribute(name uint16, data []byte) *Builder {
	b.attrs = append(b.attrs, Attribute{NameIndex: name, Data: data})
	return b
}

// PoolCount returns the constant_pool_count that Bytes will emit.
func (b *Builder) PoolCount() uint16 { return b.next }

// Bytes emits the class file.
func (b *Builder) Bytes() []byte {
	out := u4(0xCAFEBABE)
	out = append(out, u2(b.Minor)...)
	out = append(out, u2(b.Major)...)
	out = append(out, u2(b.next)...)
	out = append(out, b.pool...)
	out = append(out, u2(b.AccessFlags)...)
	out = append(out, u2(b.ThisClass)...)
	out = append(out, u2(b.SuperClass)...)
	out = append(out, u2(uint16(len(b.interfaces)))...)
	for _, i := range b.interfaces {
		out = append(out, u2(i)...)
	}
	out = appendMembers(out, b.fields)
	out = appendMembers(out, b.methods)
	out = appendAttributes(out, b.attrs)
	return out
}

func appendMembers(out []byte, ms []member) []byte {
	out = append(out, u2(uint16(len(ms)))...)
	for _, m := range ms {
		out = append(out, u2(m.flags)...)
		out = append(out, u2(m.name)...)
		out = append(out, u2(m.desc)...)
		out = appendAttributes(out, m.attrs)
	}
	return out
}

func appendAttributes(out []byte, attrs []Attribute) []byte {
	out = append(out, u2(uint16(len(attrs)))...)
	for _, a := range attrs {
		out = append(out, u2(a.NameIndex)...)
		out = append(out, u4(uint32(len(a.Data)))...)
		out = append(out, a.Data...)
	}
	return out
}

// Minimal returns the smallest resolvable class: a pool of Utf8 "Foo" and a
// Class entry for it, this_class set, no superclass.
func Minimal() []byte {
	b := New()
	b.ThisClass = b.ClassNamed("Foo")
	return b.Bytes()
}
