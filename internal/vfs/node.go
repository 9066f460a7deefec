package vfs

import (
	"bytes"
	"sort"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns the snapshot type tag for the kind.
func (k Kind) String() string {
	if k == KindDirectory {
		return typeDirectory
	}
	return typeFile
}

// Node is a single entry in the tree. It is implemented only by *File and *Dir.
type Node interface {
	Name() string
	Kind() Kind
	node()
}

// File is a leaf holding an opaque payload.
type File struct {
	name    string
	content []byte
}

// NewFile returns a file node. The content slice is copied.
func NewFile(name string, content []byte) *File {
	return &File{name: name, content: append([]byte{}, content...)}
}

func (f *File) Name() string { return f.name }
func (f *File) Kind() Kind   { return KindFile }
func (f *File) node()        {}

// Content returns the raw file bytes. Callers must not modify the result.
func (f *File) Content() []byte { return f.content }

// Size returns the content length in bytes.
func (f *File) Size() int { return len(f.content) }

// Dir holds named children. Each child's name equals its key.
type Dir struct {
	name     string
	children map[string]Node
}

// NewDir returns a directory containing the given children.
func NewDir(name string, children ...Node) *Dir {
	d := &Dir{name: name, children: make(map[string]Node, len(children))}
	for _, c := range children {
		d.add(c)
	}
	return d
}

func (d *Dir) Name() string { return d.name }
func (d *Dir) Kind() Kind   { return KindDirectory }
func (d *Dir) node()        {}

func (d *Dir) add(child Node) {
	d.children[child.Name()] = child
}

// Child returns the named child, if present.
func (d *Dir) Child(name string) (Node, bool) {
	c, ok := d.children[name]
	return c, ok
}

// Len returns the number of children.
func (d *Dir) Len() int { return len(d.children) }

// Names returns child names in ascending byte order.
func (d *Dir) Names() []string {
	names := make([]string, 0, len(d.children))
	for name := range d.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk calls fn for n and every node below it, depth first, children in
// name order. The path passed to fn is absolute, with n at "/".
func Walk(n Node, fn func(path string, n Node) error) error {
	return walk("/", n, fn)
}

func walk(path string, n Node, fn func(string, Node) error) error {
	if err := fn(path, n); err != nil {
		return err
	}
	d, ok := n.(*Dir)
	if !ok {
		return nil
	}
	for _, name := range d.Names() {
		child := d.children[name]
		if err := walk(joinPath(path, name), child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two trees have the same structure, names, kinds
// and file contents.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Name() != b.Name() || a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *File:
		return bytes.Equal(x.content, b.(*File).content)
	case *Dir:
		y := b.(*Dir)
		if len(x.children) != len(y.children) {
			return false
		}
		for name, c := range x.children {
			other, ok := y.children[name]
			if !ok || !Equal(c, other) {
				return false
			}
		}
		return true
	}
	return false
}
