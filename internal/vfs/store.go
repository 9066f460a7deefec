package vfs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// Store owns a tree and the current directory cursor.
//
// A Store is not safe for concurrent use. It belongs to exactly one session
// and is driven from one goroutine; the tree itself is never mutated after
// it is built, so read-only views of Root may be shared.
type Store struct {
	fs     afero.Fs
	root   *Dir
	cursor Path
}

// NewStore creates a store with an empty root directory. Snapshots are read
// from fsys; a nil fsys means the host filesystem.
func NewStore(fsys afero.Fs) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{
		fs:     fsys,
		root:   NewDir(RootSentinel),
		cursor: RootPath(),
	}
}

// LoadFromSnapshot replaces the tree with the one described by the JSON
// snapshot at source and resets the cursor to the root. On error the store
// is left untouched.
func (s *Store) LoadFromSnapshot(source string) error {
	f, err := s.fs.Open(source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(OpLoad, source, ErrNotFound)
		}
		return newError(OpLoad, source, fmt.Errorf("%w: %v", ErrLoad, err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return newError(OpLoad, source, fmt.Errorf("%w: %v", ErrLoad, err))
	}

	root, err := ParseSnapshot(data)
	if err != nil {
		return newError(OpLoad, source, err)
	}

	s.root = root
	s.cursor = RootPath()
	return nil
}

// CreateDefaultTree installs the built-in minimal tree and resets the
// cursor to the root.
func (s *Store) CreateDefaultTree() {
	s.root = DefaultTree()
	s.cursor = RootPath()
}

// DefaultTree returns a fresh copy of the built-in tree.
func DefaultTree() *Dir {
	return NewDir(RootSentinel,
		NewDir("home",
			NewDir("user",
				NewFile("hello.txt", []byte("Hello, VFS!")),
			),
		),
		NewDir("bin",
			NewFile("echo", []byte("#!/bin/bash\necho \"This is a VFS echo!\"")),
		),
	)
}

// ListDirectory returns the sorted child names of the directory at path,
// or of the current directory when path is empty.
func (s *Store) ListDirectory(path string) ([]string, error) {
	resolved := Resolve(s.cursor, path)
	dir, err := s.dirAt(OpList, resolved)
	if err != nil {
		return nil, err
	}
	return dir.Names(), nil
}

// ChangeDirectory moves the cursor to path. The cursor only changes when
// path resolves to an existing directory.
func (s *Store) ChangeDirectory(path string) error {
	resolved := Resolve(s.cursor, path)
	if _, err := s.dirAt(OpChdir, resolved); err != nil {
		return err
	}
	s.cursor = resolved
	return nil
}

// CurrentAbsolutePath renders the cursor, "/" at the root.
func (s *Store) CurrentAbsolutePath() string {
	return s.cursor.String()
}

// Cursor returns a copy of the current directory path.
func (s *Store) Cursor() Path {
	return append(Path{}, s.cursor...)
}

// Root returns the tree root.
func (s *Store) Root() *Dir {
	return s.root
}

// Lookup resolves path against the cursor and returns the node it names.
func (s *Store) Lookup(path string) (Node, error) {
	resolved := Resolve(s.cursor, path)
	n, ok := s.walk(resolved)
	if !ok {
		return nil, newError(OpLookup, resolved.String(), ErrNotFound)
	}
	return n, nil
}

// Snapshot encodes the whole tree.
func (s *Store) Snapshot() *Document {
	return Encode(s.root)
}

func (s *Store) dirAt(op string, p Path) (*Dir, error) {
	n, ok := s.walk(p)
	if !ok {
		return nil, newError(op, p.String(), ErrNotFound)
	}
	dir, ok := n.(*Dir)
	if !ok {
		return nil, newError(op, p.String(), ErrNotADirectory)
	}
	return dir, nil
}

// walk follows p from the root. The root sentinel is skipped; every other
// component must name an existing child of a directory.
func (s *Store) walk(p Path) (Node, bool) {
	var current Node = s.root
	for i, part := range p {
		if i == 0 && part == RootSentinel {
			continue
		}
		dir, ok := current.(*Dir)
		if !ok {
			return nil, false
		}
		child, ok := dir.Child(part)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}
