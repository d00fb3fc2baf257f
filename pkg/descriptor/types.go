package descriptor

import "strings"

// Kind identifies the shape of a Type.
type Kind uint8

const (
	Boolean Kind = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Array
	Class
)

var kindNames = [...]string{
	Boolean: "boolean",
	Byte:    "byte",
	Char:    "char",
	Short:   "short",
	Int:     "int",
	Long:    "long",
	Float:   "float",
	Double:  "double",
	Array:   "array",
	Class:   "class",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// IsPrimitive reports whether k is one of the eight primitive kinds.
func (k Kind) IsPrimitive() bool { return k <= Double }

// Type is a decoded field type. Primitive types are the shared values
// below; Array and Class types are built by ArrayOf and ClassRef. A Type is
// never modified after construction.
type Type struct {
	elem *Type
	name string
	kind Kind
}

// Primitive singletons.
var (
	BooleanType = &Type{kind: Boolean}
	ByteType    = &Type{kind: Byte}
	CharType    = &Type{kind: Char}
	ShortType   = &Type{kind: Short}
	IntType     = &Type{kind: Int}
	LongType    = &Type{kind: Long}
	FloatType   = &Type{kind: Float}
	DoubleType  = &Type{kind: Double}
)

var primitiveCodes = map[byte]*Type{
	'Z': BooleanType,
	'B': ByteType,
	'C': CharType,
	'S': ShortType,
	'I': IntType,
	'J': LongType,
	'F': FloatType,
	'D': DoubleType,
}

var primitiveLetters = [...]byte{
	Boolean: 'Z', Byte: 'B', Char: 'C', Short: 'S',
	Int: 'I', Long: 'J', Float: 'F', Double: 'D',
}

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem *Type) *Type {
	return &Type{kind: Array, elem: elem}
}

// ClassRef returns a class type. name is the internal, slash-separated name.
func ClassRef(name string) *Type {
	return &Type{kind: Class, name: name}
}

// Kind returns the type's kind.
func (t *Type) Kind() Kind { return t.kind }

// Elem returns the element type of an array, or nil.
func (t *Type) Elem() *Type { return t.elem }

// ClassName returns the internal name of a class type, or "".
func (t *Type) ClassName() string { return t.name }

// Dimensions returns the array nesting depth (0 for non-arrays).
func (t *Type) Dimensions() int {
	n := 0
	for ; t.kind == Array; t = t.elem {
		n++
	}
	return n
}

// Equal reports structural equality.
func (t *Type) Equal(o *Type) bool {
	for {
		if t == o {
			return true
		}
		if t == nil || o == nil || t.kind != o.kind {
			return false
		}
		switch t.kind {
		case Array:
			t, o = t.elem, o.elem
		case Class:
			return t.name == o.name
		default:
			return true
		}
	}
}

// String renders the type in Java source form, e.g. "int[]" or
// "java/lang/String". Class names are not demangled.
func (t *Type) String() string {
	var b strings.Builder
	t.writeJava(&b)
	return b.String()
}

func (t *Type) writeJava(b *strings.Builder) {
	switch t.kind {
	case Array:
		t.elem.writeJava(b)
		b.WriteString("[]")
	case Class:
		b.WriteString(t.name)
	default:
		b.WriteString(t.kind.String())
	}
}

// Descriptor renders the type back to descriptor syntax.
func (t *Type) Descriptor() string {
	var b strings.Builder
	t.writeDescriptor(&b)
	return b.String()
}

func (t *Type) writeDescriptor(b *strings.Builder) {
	switch t.kind {
	case Array:
		b.WriteByte('[')
		t.elem.writeDescriptor(b)
	case Class:
		b.WriteByte('L')
		b.WriteString(t.name)
		b.WriteByte(';')
	default:
		b.WriteByte(primitiveLetters[t.kind])
	}
}

// MethodType is a decoded method descriptor. Return is nil for void.
type MethodType struct {
	Return *Type
	Args   []*Type
}

// IsVoid reports whether the method returns nothing.
func (m MethodType) IsVoid() bool { return m.Return == nil }

// Equal reports structural equality.
func (m MethodType) Equal(o MethodType) bool {
	if len(m.Args) != len(o.Args) {
		return false
	}
	if (m.Return == nil) != (o.Return == nil) {
		return false
	}
	if m.Return != nil && !m.Return.Equal(o.Return) {
		return false
	}
	for i := range m.Args {
		if !m.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String renders e.g. "(int, java/lang/String) -> void".
func (m MethodType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range m.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.writeJava(&b)
	}
	b.WriteString(") -> ")
	b.WriteString(ReturnString(m.Return))
	return b.String()
}

// Descriptor renders the method type back to descriptor syntax.
func (m MethodType) Descriptor() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, a := range m.Args {
		a.writeDescriptor(&b)
	}
	b.WriteByte(')')
	if m.Return == nil {
		b.WriteByte('V')
	} else {
		m.Return.writeDescriptor(&b)
	}
	return b.String()
}

// ReturnString renders an optional return type, "void" when nil.
func ReturnString(t *Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}
