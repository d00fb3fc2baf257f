package classfile

import (
	"strconv"

	cferrors "github.com/daimatz/jclass/pkg/errors"
)

// ConstantTag identifies a constant pool entry's variant.
type ConstantTag uint8

// Constant pool tags
const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

var tagNames = map[ConstantTag]string{
	TagUtf8:               "Utf8",
	TagInteger:            "Integer",
	TagFloat:              "Float",
	TagLong:               "Long",
	TagDouble:             "Double",
	TagClass:              "Class",
	TagString:             "String",
	TagFieldref:           "Fieldref",
	TagMethodref:          "Methodref",
	TagInterfaceMethodref: "InterfaceMethodref",
	TagNameAndType:        "NameAndType",
	TagMethodHandle:       "MethodHandle",
	TagMethodType:         "MethodType",
	TagDynamic:            "Dynamic",
	TagInvokeDynamic:      "InvokeDynamic",
	TagModule:             "Module",
	TagPackage:            "Package",
}

func (t ConstantTag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// ConstantPool is the 1-indexed constant pool. Index 0 and the slot after
// each Long or Double entry are nil.
type ConstantPool []ConstantPoolEntry

// parseConstantPool reads constant_pool_count-1 entries from the reader.
func parseConstantPool(r *Reader, count uint16) (ConstantPool, error) {
	pool := make(ConstantPool, count)

	for i := 1; i < int(count); i++ {
		off := r.Position()
		tag, err := r.ReadU1()
		if err != nil {
			return nil, err
		}

		entry, err := parseConstant(r, ConstantTag(tag))
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, cferrors.UnknownTag(off, i, tag)
		}
		pool[i] = entry

		if t := entry.Tag(); t == TagLong || t == TagDouble {
			i++ // long and double take 2 slots
		}
	}

	return pool, nil
}

// parseConstant reads the body of one entry. It returns a nil entry and nil
// error for an unknown tag.
func parseConstant(r *Reader, tag ConstantTag) (ConstantPoolEntry, error) {
	switch tag {
	case TagUtf8:
		length, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		return &ConstantUtf8{Bytes: b}, nil

	case TagInteger:
		v, err := r.ReadU4()
		if err != nil {
			return nil, err
		}
		return &ConstantInteger{Bytes: v}, nil

	case TagFloat:
		v, err := r.ReadU4()
		if err != nil {
			return nil, err
		}
		return &ConstantFloat{Bytes: v}, nil

	case TagLong:
		hi, lo, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return &ConstantLong{HighBytes: hi, LowBytes: lo}, nil

	case TagDouble:
		hi, lo, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return &ConstantDouble{HighBytes: hi, LowBytes: lo}, nil

	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		idx, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		switch tag {
		case TagClass:
			return &ConstantClass{NameIndex: idx}, nil
		case TagString:
			return &ConstantString{StringIndex: idx}, nil
		case TagMethodType:
			return &ConstantMethodType{DescriptorIndex: idx}, nil
		case TagModule:
			return &ConstantModule{NameIndex: idx}, nil
		default:
			return &ConstantPackage{NameIndex: idx}, nil
		}

	case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
		a, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		switch tag {
		case TagFieldref:
			return &ConstantFieldref{ClassIndex: a, NameAndTypeIndex: b}, nil
		case TagMethodref:
			return &ConstantMethodref{ClassIndex: a, NameAndTypeIndex: b}, nil
		case TagInterfaceMethodref:
			return &ConstantInterfaceMethodref{ClassIndex: a, NameAndTypeIndex: b}, nil
		case TagNameAndType:
			return &ConstantNameAndType{NameIndex: a, DescriptorIndex: b}, nil
		case TagDynamic:
			return &ConstantDynamic{BootstrapMethodAttrIndex: a, NameAndTypeIndex: b}, nil
		default:
			return &ConstantInvokeDynamic{BootstrapMethodAttrIndex: a, NameAndTypeIndex: b}, nil
		}

	case TagMethodHandle:
		kind, err := r.ReadU1()
		if err != nil {
			return nil, err
		}
		idx, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodHandle{ReferenceKind: kind, ReferenceIndex: idx}, nil
	}

	return nil, nil
}

// Entry returns the live entry at index. Index 0, out-of-range indices and
// the unused half of a Long or Double are invalid references.
func (p ConstantPool) Entry(index uint16) (ConstantPoolEntry, error) {
	if index == 0 || int(index) >= len(p) {
		return nil, cferrors.InvalidReference(int(index), "index out of range (pool size %d)", len(p))
	}
	if p[index] == nil {
		return nil, cferrors.InvalidReference(int(index), "unusable slot")
	}
	return p[index], nil
}

// expect returns the entry at index if it has the wanted tag.
func (p ConstantPool) expect(index uint16, want ConstantTag) (ConstantPoolEntry, error) {
	e, err := p.Entry(index)
	if err != nil {
		return nil, err
	}
	if e.Tag() != want {
		return nil, cferrors.InvalidReference(int(index), "expected %s, found %s", want, e.Tag())
	}
	return e, nil
}

// Utf8 returns the string at index, which must reference a Utf8 entry.
func (p ConstantPool) Utf8(index uint16) (string, error) {
	e, err := p.expect(index, TagUtf8)
	if err != nil {
		return "", err
	}
	return e.(*ConstantUtf8).String(), nil
}

// name follows the second hop from a Class, NameAndType, String, Module or
// Package entry into the Utf8 table.
func (p ConstantPool) name(from, index uint16) (string, error) {
	if int(index) >= len(p) || index == 0 {
		return "", cferrors.Unresolved(int(index), "name of #%d is out of range", from)
	}
	u, ok := p[index].(*ConstantUtf8)
	if !ok {
		return "", cferrors.Unresolved(int(index), "name of #%d is not a Utf8 entry", from)
	}
	return u.String(), nil
}

// ClassName returns the class name referenced by a CONSTANT_Class entry.
func (p ConstantPool) ClassName(classIndex uint16) (string, error) {
	e, err := p.expect(classIndex, TagClass)
	if err != nil {
		return "", err
	}
	return p.name(classIndex, e.(*ConstantClass).NameIndex)
}

// StringValue returns the literal referenced by a CONSTANT_String entry.
func (p ConstantPool) StringValue(index uint16) (string, error) {
	e, err := p.expect(index, TagString)
	if err != nil {
		return "", err
	}
	return p.name(index, e.(*ConstantString).StringIndex)
}

// NameAndType returns the name and descriptor of a CONSTANT_NameAndType entry.
func (p ConstantPool) NameAndType(index uint16) (name, descriptor string, err error) {
	e, err := p.expect(index, TagNameAndType)
	if err != nil {
		return "", "", err
	}
	nat := e.(*ConstantNameAndType)
	if name, err = p.name(index, nat.NameIndex); err != nil {
		return "", "", err
	}
	if descriptor, err = p.name(index, nat.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// ClassNames returns the names of every Class entry in pool order.
func (p ConstantPool) ClassNames() ([]string, error) {
	var names []string
	for i, e := range p {
		if c, ok := e.(*ConstantClass); ok {
			n, err := p.name(uint16(i), c.NameIndex)
			if err != nil {
				return nil, err
			}
			names = append(names, n)
		}
	}
	return names, nil
}

// MemberRef holds resolved field or method reference info.
type MemberRef struct {
	ClassName  string
	Name       string
	Descriptor string
}

// ResolveFieldref resolves a CONSTANT_Fieldref entry.
func (p ConstantPool) ResolveFieldref(index uint16) (*MemberRef, error) {
	e, err := p.expect(index, TagFieldref)
	if err != nil {
		return nil, err
	}
	ref := e.(*ConstantFieldref)
	return p.memberRef(ref.ClassIndex, ref.NameAndTypeIndex)
}

// ResolveMethodref resolves a CONSTANT_Methodref entry.
func (p ConstantPool) ResolveMethodref(index uint16) (*MemberRef, error) {
	e, err := p.expect(index, TagMethodref)
	if err != nil {
		return nil, err
	}
	ref := e.(*ConstantMethodref)
	return p.memberRef(ref.ClassIndex, ref.NameAndTypeIndex)
}

// ResolveInterfaceMethodref resolves a CONSTANT_InterfaceMethodref entry.
func (p ConstantPool) ResolveInterfaceMethodref(index uint16) (*MemberRef, error) {
	e, err := p.expect(index, TagInterfaceMethodref)
	if err != nil {
		return nil, err
	}
	ref := e.(*ConstantInterfaceMethodref)
	return p.memberRef(ref.ClassIndex, ref.NameAndTypeIndex)
}

func (p ConstantPool) memberRef(classIndex, natIndex uint16) (*MemberRef, error) {
	className, err := p.ClassName(classIndex)
	if err != nil {
		return nil, err
	}
	name, desc, err := p.NameAndType(natIndex)
	if err != nil {
		return nil, err
	}
	return &MemberRef{
		ClassName:  className,
		Name:       name,
		Descriptor: desc,
	}, nil
}
