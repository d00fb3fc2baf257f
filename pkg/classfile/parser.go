package classfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	cferrors "github.com/daimatz/jclass/pkg/errors"
)

// Magic is the fixed first word of every class file.
const Magic = 0xCAFEBABE

var magicBytes = []byte{0xCA, 0xFE, 0xBA, 0xBE}

// ParseFile reads and parses a .class file from the given path.
func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ParseReader loads r fully and parses the result.
func ParseReader(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading class file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a class file held in memory. Only structure and bounds are
// checked; constant pool cross-references are left to the resolver.
func Parse(data []byte) (*ClassFile, error) {
	r := NewReader(data)
	cf := &ClassFile{}

	magic, err := r.ReadU4()
	if err != nil {
		// A short buffer is only truncated if what is there matches the magic.
		if len(data) == 0 || !bytes.HasPrefix(magicBytes, data) {
			return nil, cferrors.New(cferrors.PhaseDecode, cferrors.KindMalformedHeader).
				Offset(0).
				Detail("%d bytes is too short for a magic number", len(data)).
				Build()
		}
		return nil, cferrors.WithPath(err, "magic")
	}
	if magic != Magic {
		return nil, cferrors.BadMagic(magic)
	}
	cf.Magic = magic

	if cf.MinorVersion, err = r.ReadU2(); err != nil {
		return nil, cferrors.WithPath(err, "minor_version")
	}
	if cf.MajorVersion, err = r.ReadU2(); err != nil {
		return nil, cferrors.WithPath(err, "major_version")
	}

	cpCount, err := r.ReadU2()
	if err != nil {
		return nil, cferrors.WithPath(err, "constant_pool_count")
	}
	if cf.ConstantPool, err = parseConstantPool(r, cpCount); err != nil {
		return nil, cferrors.WithPath(err, "constant_pool")
	}

	if cf.AccessFlags, err = r.ReadU2(); err != nil {
		return nil, cferrors.WithPath(err, "access_flags")
	}
	if cf.ThisClass, err = r.ReadU2(); err != nil {
		return nil, cferrors.WithPath(err, "this_class")
	}
	if cf.SuperClass, err = r.ReadU2(); err != nil {
		return nil, cferrors.WithPath(err, "super_class")
	}

	if cf.Interfaces, err = parseInterfaces(r); err != nil {
		return nil, cferrors.WithPath(err, "interfaces")
	}
	if cf.Fields, err = parseMembers(r, "field"); err != nil {
		return nil, err
	}
	if cf.Methods, err = parseMembers(r, "method"); err != nil {
		return nil, err
	}
	if cf.Attributes, err = parseAttributeInfos(r); err != nil {
		return nil, cferrors.WithPath(err, "attributes")
	}

	return cf, nil
}

func parseInterfaces(r *Reader) ([]uint16, error) {
	count, err := r.ReadU2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]uint16, count)
	for i := range interfaces {
		if interfaces[i], err = r.ReadU2(); err != nil {
			return nil, err
		}
	}
	return interfaces, nil
}

// parseMembers reads a count-prefixed field_info or method_info table.
func parseMembers(r *Reader, what string) ([]MemberInfo, error) {
	count, err := r.ReadU2()
	if err != nil {
		return nil, cferrors.WithPath(err, what+"s_count")
	}
	members := make([]MemberInfo, count)
	for i := range members {
		m, err := parseMember(r)
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("%s[%d]", what, i))
		}
		members[i] = m
	}
	return members, nil
}

func parseMember(r *Reader) (MemberInfo, error) {
	var m MemberInfo
	var err error
	if m.AccessFlags, err = r.ReadU2(); err != nil {
		return m, err
	}
	if m.NameIndex, err = r.ReadU2(); err != nil {
		return m, err
	}
	if m.DescriptorIndex, err = r.ReadU2(); err != nil {
		return m, err
	}
	if m.Attributes, err = parseAttributeInfos(r); err != nil {
		return m, err
	}
	return m, nil
}

func parseAttributeInfos(r *Reader) ([]AttributeInfo, error) {
	count, err := r.ReadU2()
	if err != nil {
		return nil, err
	}
	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		nameIndex, err := r.ReadU2()
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("attribute[%d]", i))
		}
		length, err := r.ReadU4()
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("attribute[%d]", i))
		}
		data, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("attribute[%d]", i))
		}
		attrs[i] = AttributeInfo{NameIndex: nameIndex, Data: data}
	}
	return attrs, nil
}
