// Package descriptor parses field and method descriptors:
//
//	FieldDescriptor  ::= 'Z'|'B'|'C'|'S'|'I'|'J'|'F'|'D' | '[' FieldDescriptor | 'L' ClassName ';'
//	MethodDescriptor ::= '(' FieldDescriptor* ')' ('V' | FieldDescriptor)
//
// Parsing is LL(1) and rejects trailing input.
package descriptor

import (
	"strings"

	cferrors "github.com/daimatz/jclass/pkg/errors"
)

// DefaultMaxArrayDepth is the largest number of array dimensions the JVM
// allows in a descriptor.
const DefaultMaxArrayDepth = 255

// Parser parses descriptors with a bound on array nesting.
// The zero value uses DefaultMaxArrayDepth.
type Parser struct {
	MaxArrayDepth int
}

func (p Parser) maxDepth() int {
	if p.MaxArrayDepth <= 0 {
		return DefaultMaxArrayDepth
	}
	return p.MaxArrayDepth
}

// ParseField parses a field descriptor with the default depth bound.
func ParseField(s string) (*Type, error) {
	return Parser{}.ParseField(s)
}

// ParseMethod parses a method descriptor with the default depth bound.
func ParseMethod(s string) (MethodType, error) {
	return Parser{}.ParseMethod(s)
}

// ParseField parses s as exactly one field descriptor.
func (p Parser) ParseField(s string) (*Type, error) {
	c := cursor{s: s, max: p.maxDepth()}
	t, err := c.fieldType()
	if err != nil {
		return nil, err
	}
	if !c.done() {
		return nil, c.fail("trailing characters %q", s[c.pos:])
	}
	return t, nil
}

// ParseMethod parses s as exactly one method descriptor.
func (p Parser) ParseMethod(s string) (MethodType, error) {
	c := cursor{s: s, max: p.maxDepth()}
	var m MethodType

	if c.done() || c.peek() != '(' {
		return MethodType{}, c.fail("expected '('")
	}
	c.pos++

	for {
		if c.done() {
			return MethodType{}, c.fail("unterminated parameter list")
		}
		if c.peek() == ')' {
			c.pos++
			break
		}
		t, err := c.fieldType()
		if err != nil {
			return MethodType{}, err
		}
		m.Args = append(m.Args, t)
	}

	if c.done() {
		return MethodType{}, c.fail("missing return type")
	}
	if c.peek() == 'V' {
		c.pos++
	} else {
		t, err := c.fieldType()
		if err != nil {
			return MethodType{}, err
		}
		m.Return = t
	}

	if !c.done() {
		return MethodType{}, c.fail("trailing characters %q", s[c.pos:])
	}
	return m, nil
}

// cursor walks a descriptor one byte at a time.
type cursor struct {
	s   string
	pos int
	max int
}

func (c *cursor) done() bool { return c.pos >= len(c.s) }
func (c *cursor) peek() byte { return c.s[c.pos] }

func (c *cursor) fail(detail string, args ...any) error {
	return cferrors.InvalidDescriptor(c.s, c.pos, detail, args...)
}

// fieldType parses one FieldDescriptor. Array prefixes are consumed
// iteratively.
func (c *cursor) fieldType() (*Type, error) {
	dims := 0
	for !c.done() && c.peek() == '[' {
		dims++
		if dims > c.max {
			return nil, c.fail("array nesting exceeds %d", c.max)
		}
		c.pos++
	}

	if c.done() {
		return nil, c.fail("unexpected end of descriptor")
	}

	var t *Type
	ch := c.peek()
	switch {
	case primitiveCodes[ch] != nil:
		t = primitiveCodes[ch]
		c.pos++
	case ch == 'L':
		end := strings.IndexByte(c.s[c.pos+1:], ';')
		if end < 0 {
			return nil, c.fail("missing ';' after class name")
		}
		t = ClassRef(c.s[c.pos+1 : c.pos+1+end])
		c.pos += end + 2
	default:
		return nil, c.fail("unexpected character %q", ch)
	}

	for ; dims > 0; dims-- {
		t = ArrayOf(t)
	}
	return t, nil
}
