// Package refgraph builds the class reference graph of a set of class files.
package refgraph

import (
	"fmt"
	"io"
	"strings"

	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"github.com/daimatz/jclass/pkg/classfile"
	"github.com/daimatz/jclass/pkg/descriptor"
	cferrors "github.com/daimatz/jclass/pkg/errors"
)

// Build constructs a lattice.Graph from class files.
// Each class becomes a node. Each class it references becomes an edge.
func Build(files []*classfile.ClassFile) (*lattice.Graph, error) {
	g := &lattice.Graph{}
	for i, cf := range files {
		name, err := cf.ConstantPool.ClassName(cf.ThisClass)
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("class[%d]", i), "this_class")
		}
		refs, err := References(cf)
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("class[%d]", i))
		}
		g.Nodes = append(g.Nodes, name)
		for _, r := range refs {
			g.Edges = append(g.Edges, lattice.Edge{Caller: name, Callee: r})
		}
	}
	g.Dedup()
	return g, nil
}

// References lists the classes cf refers to in first-seen order: the
// superclass, the interfaces, then every Class entry of the constant pool.
// Array classes contribute their element class. Primitive arrays and the
// class itself are skipped.
func References(cf *classfile.ClassFile) ([]string, error) {
	self, err := cf.ConstantPool.ClassName(cf.ThisClass)
	if err != nil {
		return nil, cferrors.WithPath(err, "this_class")
	}

	seen := map[string]bool{self: true}
	var refs []string
	add := func(name string) error {
		name, err := elementClass(name)
		if err != nil {
			return err
		}
		if name != "" && !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
		return nil
	}

	if cf.SuperClass != 0 {
		name, err := cf.ConstantPool.ClassName(cf.SuperClass)
		if err != nil {
			return nil, cferrors.WithPath(err, "super_class")
		}
		if err := add(name); err != nil {
			return nil, cferrors.WithPath(err, "super_class")
		}
	}
	for i, idx := range cf.Interfaces {
		name, err := cf.ConstantPool.ClassName(idx)
		if err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("interface[%d]", i))
		}
		if err := add(name); err != nil {
			return nil, cferrors.WithPath(err, fmt.Sprintf("interface[%d]", i))
		}
	}

	names, err := cf.ConstantPool.ClassNames()
	if err != nil {
		return nil, cferrors.WithPath(err, "constant_pool")
	}
	for _, n := range names {
		if err := add(n); err != nil {
			return nil, cferrors.WithPath(err, "constant_pool")
		}
	}
	return refs, nil
}

// elementClass maps an array class name such as "[[Ljava/lang/String;" to
// its element class, "" for primitive arrays.
func elementClass(name string) (string, error) {
	if !strings.HasPrefix(name, "[") {
		return name, nil
	}
	t, err := descriptor.ParseField(name)
	if err != nil {
		return "", err
	}
	for t.Kind() == descriptor.Array {
		t = t.Elem()
	}
	if t.Kind() != descriptor.Class {
		return "", nil
	}
	return t.ClassName(), nil
}

// WriteDOT renders g in Graphviz DOT syntax.
func WriteDOT(w io.Writer, g *lattice.Graph, title string) error {
	_, err := io.WriteString(w, render.DOT(g, title))
	return err
}
