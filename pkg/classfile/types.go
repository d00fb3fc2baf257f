package classfile

import "math"

// Access flags
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSuper        = 0x0020 // classes; AccSynchronized on methods
	AccVolatile     = 0x0040 // fields; AccBridge on methods
	AccTransient    = 0x0080 // fields; AccVarargs on methods
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
	AccModule       = 0x8000
	AccSynchronized = AccSuper
	AccBridge       = AccVolatile
	AccVarargs      = AccTransient
)

// ClassFile represents a decoded .class file. Every cross-reference is
// still a constant pool index.
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []MemberInfo
	Methods      []MemberInfo
	Attributes   []AttributeInfo
}

// MemberInfo is a field_info or method_info record.
type MemberInfo struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

// AttributeInfo represents a raw attribute.
type AttributeInfo struct {
	NameIndex uint16
	Data      []byte
}

// ConstantPoolEntry is implemented by the constant pool variants declared in
// this package and by no other type.
type ConstantPoolEntry interface {
	Tag() ConstantTag
	isConstant()
}

type ConstantUtf8 struct {
	Bytes []byte // modified UTF-8, stored verbatim
}

func (c *ConstantUtf8) Tag() ConstantTag { return TagUtf8 }

// String returns the raw bytes as a Go string without re-encoding.
func (c *ConstantUtf8) String() string { return string(c.Bytes) }

type ConstantInteger struct {
	Bytes uint32
}

func (c *ConstantInteger) Tag() ConstantTag { return TagInteger }
func (c *ConstantInteger) Int32() int32     { return int32(c.Bytes) }

type ConstantFloat struct {
	Bytes uint32
}

func (c *ConstantFloat) Tag() ConstantTag  { return TagFloat }
func (c *ConstantFloat) Float32() float32 { return math.Float32frombits(c.Bytes) }

type ConstantLong struct {
	HighBytes uint32
	LowBytes  uint32
}

func (c *ConstantLong) Tag() ConstantTag { return TagLong }
func (c *ConstantLong) Int64() int64 {
	return int64(uint64(c.HighBytes)<<32 | uint64(c.LowBytes))
}

type ConstantDouble struct {
	HighBytes uint32
	LowBytes  uint32
}

func (c *ConstantDouble) Tag() ConstantTag { return TagDouble }
func (c *ConstantDouble) Float64() float64 {
	return math.Float64frombits(uint64(c.HighBytes)<<32 | uint64(c.LowBytes))
}

type ConstantClass struct {
	NameIndex uint16
}

func (c *ConstantClass) Tag() ConstantTag { return TagClass }

type ConstantString struct {
	StringIndex uint16
}

func (c *ConstantString) Tag() ConstantTag { return TagString }

type ConstantFieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldref) Tag() ConstantTag { return TagFieldref }

type ConstantMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodref) Tag() ConstantTag { return TagMethodref }

type ConstantInterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodref) Tag() ConstantTag { return TagInterfaceMethodref }

type ConstantNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndType) Tag() ConstantTag { return TagNameAndType }

type ConstantMethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (c *ConstantMethodHandle) Tag() ConstantTag { return TagMethodHandle }

type ConstantMethodType struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodType) Tag() ConstantTag { return TagMethodType }

type ConstantDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantDynamic) Tag() ConstantTag { return TagDynamic }

type ConstantInvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamic) Tag() ConstantTag { return TagInvokeDynamic }

type ConstantModule struct {
	NameIndex uint16
}

func (c *ConstantModule) Tag() ConstantTag { return TagModule }

type ConstantPackage struct {
	NameIndex uint16
}

func (c *ConstantPackage) Tag() ConstantTag { return TagPackage }

func (*ConstantUtf8) isConstant()               {}
func (*ConstantInteger) isConstant()            {}
func (*ConstantFloat) isConstant()              {}
func (*ConstantLong) isConstant()               {}
func (*ConstantDouble) isConstant()             {}
func (*ConstantClass) isConstant()              {}
func (*ConstantString) isConstant()             {}
func (*ConstantFieldref) isConstant()           {}
func (*ConstantMethodref) isConstant()          {}
func (*ConstantInterfaceMethodref) isConstant() {}
func (*ConstantNameAndType) isConstant()        {}
func (*ConstantMethodHandle) isConstant()       {}
func (*ConstantMethodType) isConstant()         {}
func (*ConstantDynamic) isConstant()            {}
func (*ConstantInvokeDynamic) isConstant()      {}
func (*ConstantModule) isConstant()             {}
func (*ConstantPackage) isConstant()            {}
