// Package errors defines the single error type produced while decoding
// and resolving class files.
package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which stage of the pipeline failed.
type Phase string

const (
	PhaseDecode     Phase = "decode"     // binary structure
	PhaseResolve    Phase = "resolve"    // constant pool cross-references
	PhaseDescriptor Phase = "descriptor" // type signature grammar
	PhaseLoad       Phase = "load"       // reading class bytes from a source
)

// Kind categorizes the error.
type Kind string

const (
	KindMalformedHeader              Kind = "malformed_header"
	KindTruncatedInput               Kind = "truncated_input"
	KindUnknownConstantTag           Kind = "unknown_constant_tag"
	KindInvalidConstantPoolReference Kind = "invalid_constant_pool_reference"
	KindUnresolvedString             Kind = "unresolved_string"
	KindInvalidTypeDescriptor        Kind = "invalid_type_descriptor"
	KindNotFound                     Kind = "not_found"
)

// Sentinels for use with errors.Is. They match any *Error of the same kind.
var (
	ErrMalformedHeader              = &Error{Kind: KindMalformedHeader}
	ErrTruncatedInput               = &Error{Kind: KindTruncatedInput}
	ErrUnknownConstantTag           = &Error{Kind: KindUnknownConstantTag}
	ErrInvalidConstantPoolReference = &Error{Kind: KindInvalidConstantPoolReference}
	ErrUnresolvedString             = &Error{Kind: KindUnresolvedString}
	ErrInvalidTypeDescriptor        = &Error{Kind: KindInvalidTypeDescriptor}
	ErrNotFound                     = &Error{Kind: KindNotFound}
)

// Error is the structured error used by every package in this module.
// Offset is a byte offset into the class file (or into the descriptor for
// descriptor errors); Offset and Index are -1 when not applicable.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Fragment string
	Detail   string
	Path     []string
	Offset   int
	Index    int
	Tag      int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Offset >= 0 && e.Phase != "" {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}
	if e.Index >= 0 && e.Phase != "" {
		b.WriteString(" #")
		b.WriteString(strconv.Itoa(e.Index))
	}
	if e.Fragment != "" {
		b.WriteString(" in ")
		b.WriteString(strconv.Quote(e.Fragment))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind. A target with a
// phase set must also match the phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
			Index:  -1,
		},
	}
}

// Offset sets the byte offset.
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Index sets the offending constant pool index.
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Tag sets the offending constant pool tag.
func (b *Builder) Tag(tag int) *Builder {
	b.err.Tag = tag
	return b
}

// Fragment sets the offending input fragment.
func (b *Builder) Fragment(s string) *Builder {
	b.err.Fragment = s
	return b
}

// Path sets the location inside the class structure.
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// WithPath returns err with path prepended to its location when err is an
// *Error; other errors are returned unchanged.
func WithPath(err error, path ...string) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Path = append(append([]string{}, path...), e.Path...)
	return &cp
}

// Truncated creates a truncated-input error for a read of want bytes at off.
func Truncated(off, want, remaining int) *Error {
	return New(PhaseDecode, KindTruncatedInput).
		Offset(off).
		Detail("need %d bytes, %d remaining", want, remaining).
		Build()
}

// BadMagic creates a malformed-header error.
func BadMagic(got uint32) *Error {
	return New(PhaseDecode, KindMalformedHeader).
		Offset(0).
		Detail("invalid magic number 0x%08X (expected 0xCAFEBABE)", got).
		Build()
}

// UnknownTag creates an unknown-constant-tag error.
func UnknownTag(off, index int, tag uint8) *Error {
	return New(PhaseDecode, KindUnknownConstantTag).
		Offset(off).
		Index(index).
		Tag(int(tag)).
		Detail("unknown constant pool tag %d", tag).
		Build()
}

// InvalidReference creates an invalid constant pool reference error.
func InvalidReference(index int, detail string, args ...any) *Error {
	return New(PhaseResolve, KindInvalidConstantPoolReference).
		Index(index).
		Detail(detail, args...).
		Build()
}

// Unresolved creates an unresolved-string error for a name index that does
// not reach a Utf8 entry.
func Unresolved(index int, detail string, args ...any) *Error {
	return New(PhaseResolve, KindUnresolvedString).
		Index(index).
		Detail(detail, args...).
		Build()
}

// InvalidDescriptor creates an invalid-type-descriptor error.
func InvalidDescriptor(desc string, off int, detail string, args ...any) *Error {
	return New(PhaseDescriptor, KindInvalidTypeDescriptor).
		Fragment(desc).
		Offset(off).
		Detail(detail, args...).
		Build()
}

// NotFound creates a not-found error for a class that no source provides.
func NotFound(what, name string) *Error {
	return New(PhaseLoad, KindNotFound).
		Detail("%s %q not found", what, name).
		Build()
}
