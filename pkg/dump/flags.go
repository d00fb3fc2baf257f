package dump

import "github.com/daimatz/jclass/pkg/classfile"

type flagName struct {
	bit  uint16
	name string
}

var classFlagNames = []flagName{
	{classfile.AccPublic, "public"},
	{classfile.AccFinal, "final"},
	{classfile.AccSuper, "super"},
	{classfile.AccInterface, "interface"},
	{classfile.AccAbstract, "abstract"},
	{classfile.AccSynthetic, "synthetic"},
	{classfile.AccAnnotation, "annotation"},
	{classfile.AccEnum, "enum"},
	{classfile.AccModule, "module"},
}

var fieldFlagNames = []flagName{
	{classfile.AccPublic, "public"},
	{classfile.AccPrivate, "private"},
	{classfile.AccProtected, "protected"},
	{classfile.AccStatic, "static"},
	{classfile.AccFinal, "final"},
	{classfile.AccVolatile, "volatile"},
	{classfile.AccTransient, "transient"},
	{classfile.AccSynthetic, "synthetic"},
	{classfile.AccEnum, "enum"},
}

var methodFlagNames = []flagName{
	{classfile.AccPublic, "public"},
	{classfile.AccPrivate, "private"},
	{classfile.AccProtected, "protected"},
	{classfile.AccStatic, "static"},
	{classfile.AccFinal, "final"},
	{classfile.AccSynchronized, "synchronized"},
	{classfile.AccBridge, "bridge"},
	{classfile.AccVarargs, "varargs"},
	{classfile.AccNative, "native"},
	{classfile.AccAbstract, "abstract"},
	{classfile.AccStrict, "strict"},
	{classfile.AccSynthetic, "synthetic"},
}

// ClassFlags names the class access flags set in f.
func ClassFlags(f uint16) []string { return flagNames(f, classFlagNames) }

// FieldFlags names the field access flags set in f.
func FieldFlags(f uint16) []string { return flagNames(f, fieldFlagNames) }

// MethodFlags names the method access flags set in f.
func MethodFlags(f uint16) []string { return flagNames(f, methodFlagNames) }

func flagNames(f uint16, table []flagName) []string {
	names := []string{}
	for _, fn := range table {
		if f&fn.bit != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}
