package resolve

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/daimatz/jclass/pkg/classfile"
	"github.com/daimatz/jclass/pkg/classfile/classtest"
	"github.com/daimatz/jclass/pkg/descriptor"
	cferrors "github.com/daimatz/jclass/pkg/errors"
)

func TestDecodeMinimal(t *testing.T) {
	c, err := Decode(classtest.Minimal())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.ThisClass != "Foo" {
		t.Errorf("ThisClass: got %q, want %q", c.ThisClass, "Foo")
	}
	if c.HasSuperClass() || c.SuperClass != "" {
		t.Errorf("expected no superclass, got %q", c.SuperClass)
	}
	if len(c.Interfaces) != 0 || len(c.Fields) != 0 || len(c.Methods) != 0 || len(c.Attributes) != 0 {
		t.Errorf("expected empty tables, got %+v", c)
	}
}

func fullClass() []byte {
	b := classtest.New()
	b.Minor = 3
	b.ThisClass = b.ClassNamed("com/example/Greeter")
	b.SuperClass = b.ClassNamed("java/lang/Object")
	b.Interface(b.ClassNamed("java/lang/Runnable"))
	b.Interface(b.ClassNamed("java/io/Serializable"))
	b.Long(99) // shifts every later index by two

	code := b.Utf8("Code")
	constValue := b.Utf8("ConstantValue")
	b.Field(classfile.AccPrivate|classfile.AccFinal, b.Utf8("names"), b.Utf8("[Ljava/lang/String;"),
		classtest.Attribute{NameIndex: constValue, Data: []byte{0, 7}})
	b.Field(classfile.AccStatic, b.Utf8("count"), b.Utf8("J"))
	b.Method(classfile.AccPublic, b.Utf8("<init>"), b.Utf8("()V"),
		classtest.Attribute{NameIndex: code, Data: []byte{0xB1}})
	b.Method(classfile.AccPublic|classfile.AccStatic, b.Utf8("greet"), b.Utf8("(ILjava/lang/String;)[[I"))
	b.Attribute(b.Utf8("SourceFile"), []byte{0, 9})
	return b.Bytes()
}

func TestDecodeFullClass(t *testing.T) {
	c, err := Decode(fullClass())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if c.MajorVersion != 52 || c.MinorVersion != 3 {
		t.Errorf("version: got %d.%d", c.MajorVersion, c.MinorVersion)
	}
	if c.ThisClass != "com/example/Greeter" || c.SuperClass != "java/lang/Object" || !c.HasSuperClass() {
		t.Errorf("this/super: got %q/%q", c.ThisClass, c.SuperClass)
	}
	if want := []string{"java/lang/Runnable", "java/io/Serializable"}; !reflect.DeepEqual(c.Interfaces, want) {
		t.Errorf("interfaces: got %v, want %v", c.Interfaces, want)
	}

	names := c.FindField("names")
	if names == nil {
		t.Fatal("field names not found")
	}
	if !names.Type.Equal(descriptor.ArrayOf(descriptor.ClassRef("java/lang/String"))) {
		t.Errorf("names type: got %s", names.Type)
	}
	if len(names.Attributes) != 1 || names.Attributes[0].Name != "ConstantValue" {
		t.Errorf("names attributes: got %+v", names.Attributes)
	}
	if f := c.FindField("count"); f == nil || f.Type != descriptor.LongType {
		t.Errorf("count field: got %+v", f)
	}

	greet := c.FindMethod("greet", "(ILjava/lang/String;)[[I")
	if greet == nil {
		t.Fatal("greet method not found")
	}
	want := descriptor.MethodType{
		Return: descriptor.ArrayOf(descriptor.ArrayOf(descriptor.IntType)),
		Args:   []*descriptor.Type{descriptor.IntType, descriptor.ClassRef("java/lang/String")},
	}
	if !greet.Type.Equal(want) {
		t.Errorf("greet type: got %s, want %s", greet.Type, want)
	}

	ctor := c.FindMethodByName("<init>")
	if ctor == nil || !ctor.Type.IsVoid() || len(ctor.Type.Args) != 0 {
		t.Fatalf("<init>: got %+v", ctor)
	}
	if code := FindAttribute(ctor.Attributes, "Code"); code == nil || !bytes.Equal(code.Data, []byte{0xB1}) {
		t.Errorf("Code attribute: got %+v", code)
	}

	if len(c.Attributes) != 1 || c.Attributes[0].Name != "SourceFile" {
		t.Errorf("class attributes: got %+v", c.Attributes)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	data := fullClass()
	a, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two decodes of the same buffer differ")
	}
}

func TestResolveCopiesAttributeData(t *testing.T) {
	cf, err := classfile.Parse(fullClass())
	if err != nil {
		t.Fatal(err)
	}
	c, err := Resolve(cf)
	if err != nil {
		t.Fatal(err)
	}
	cf.Attributes[0].Data[0] = 0xFF
	if c.Attributes[0].Data[0] != 0 {
		t.Error("resolved attribute aliases the raw payload")
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *classtest.Builder)
		want  error
		path  string
	}{
		{
			name: "this_class zero",
			build: func(b *classtest.Builder) {
				b.Utf8("Foo")
				b.ThisClass = 0
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "this_class",
		},
		{
			name: "this_class not a Class",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.Utf8("Foo")
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "this_class",
		},
		{
			name: "this_class out of range",
			build: func(b *classtest.Builder) {
				b.ClassNamed("Foo")
				b.ThisClass = 40
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "this_class",
		},
		{
			name: "this_class on second half of a Long",
			build: func(b *classtest.Builder) {
				b.ClassNamed("Foo")
				b.ThisClass = b.Long(1) + 1
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "this_class",
		},
		{
			name: "class name is not Utf8",
			build: func(b *classtest.Builder) {
				i := b.Integer(1)
				b.ThisClass = b.Class(i)
			},
			want: cferrors.ErrUnresolvedString,
			path: "this_class",
		},
		{
			name: "class name index zero",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.Class(0)
			},
			want: cferrors.ErrUnresolvedString,
			path: "this_class",
		},
		{
			name: "super_class wrong tag",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.SuperClass = b.Utf8("Bar")
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "super_class",
		},
		{
			name: "interface zero",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Interface(0)
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "interface[0]",
		},
		{
			name: "field name zero",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Field(0, 0, b.Utf8("I"))
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "field[0].name",
		},
		{
			name: "field descriptor not Utf8",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Field(0, b.Utf8("x"), b.ThisClass)
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "field[0].descriptor",
		},
		{
			name: "field descriptor invalid",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Field(0, b.Utf8("x"), b.Utf8("II"))
			},
			want: cferrors.ErrInvalidTypeDescriptor,
			path: "field[0].descriptor",
		},
		{
			name: "method descriptor invalid",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Method(0, b.Utf8("m"), b.Utf8("(I"))
			},
			want: cferrors.ErrInvalidTypeDescriptor,
			path: "method[0].descriptor",
		},
		{
			name: "method given a field descriptor",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Method(0, b.Utf8("m"), b.Utf8("I"))
			},
			want: cferrors.ErrInvalidTypeDescriptor,
			path: "method[0].descriptor",
		},
		{
			name: "method attribute name zero",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Method(0, b.Utf8("m"), b.Utf8("()V"), classtest.Attribute{NameIndex: 0})
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "method[0].attribute[0].name",
		},
		{
			name: "class attribute name wrong tag",
			build: func(b *classtest.Builder) {
				b.ThisClass = b.ClassNamed("Foo")
				b.Attribute(b.ThisClass, nil)
			},
			want: cferrors.ErrInvalidConstantPoolReference,
			path: "attribute[0].name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := classtest.New()
			tt.build(b)

			c, err := Decode(b.Bytes())
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if c != nil {
				t.Error("partial result returned with error")
			}
			var e *cferrors.Error
			if errors.As(err, &e) {
				if got := strings.Join(e.Path, "."); got != tt.path {
					t.Errorf("path: got %q, want %q", got, tt.path)
				}
			}
		})
	}
}

func TestResolveMaxArrayDepth(t *testing.T) {
	b := classtest.New()
	b.ThisClass = b.ClassNamed("Foo")
	b.Field(0, b.Utf8("grid"), b.Utf8("[[[I"))
	data := b.Bytes()

	if _, err := Decode(data); err != nil {
		t.Fatalf("default bound: %v", err)
	}
	if _, err := Decode(data, WithMaxArrayDepth(2)); !errors.Is(err, cferrors.ErrInvalidTypeDescriptor) {
		t.Errorf("bound 2: got %v, want InvalidTypeDescriptor", err)
	}
}

func TestDecodePropagatesDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte{0xDE, 0xAD, 0xBE, 0xEF}); !errors.Is(err, cferrors.ErrMalformedHeader) {
		t.Errorf("bad magic: got %v", err)
	}
	data := classtest.Minimal()
	if _, err := Decode(data[:len(data)-1]); !errors.Is(err, cferrors.ErrTruncatedInput) {
		t.Errorf("truncated: got %v", err)
	}
}
