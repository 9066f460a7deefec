package vfs

import (
	"strings"
)

// RootSentinel is the first component of every resolved Path.
const RootSentinel = "/"

// Path is a resolved absolute path as a sequence of components. The first
// component is always RootSentinel.
type Path []string

// RootPath returns the path of the tree root.
func RootPath() Path {
	return Path{RootSentinel}
}

// String renders the path as "/" or "/a/b".
func (p Path) String() string {
	if len(p) <= 1 {
		return "/"
	}
	return "/" + strings.Join(p[1:], "/")
}

// IsRoot returns true if the path is the tree root
func (p Path) IsRoot() bool {
	return len(p) <= 1
}

// Child returns a new path with name appended. p is not modified.
func (p Path) Child(name string) Path {
	child := make(Path, 0, len(p)+1)
	return append(append(child, p...), name)
}

// Parent returns the path one level up. The root is its own parent.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return RootPath()
	}
	return append(Path{}, p[:len(p)-1]...)
}

// Equal reports whether two paths have the same components.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Resolve normalizes path against cursor. It is purely syntactic: "." is
// dropped, ".." pops a component but never past the root, empty segments
// are ignored, and every other segment is appended verbatim. An empty path
// yields a copy of cursor.
func Resolve(cursor Path, path string) Path {
	if path == "" {
		return append(Path{}, cursor...)
	}

	resolved := RootPath()
	if !strings.HasPrefix(path, "/") && len(cursor) > 0 {
		resolved = append(Path{}, cursor...)
	}

	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			resolved = resolved.Parent()
		default:
			resolved = append(resolved, seg)
		}
	}
	return resolved
}
