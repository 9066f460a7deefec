package fs

import (
	"context"
	"os"

	"vfsshell/internal/logging"
	"vfsshell/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	dirLogger = logging.GetLogger().WithPrefix("dir")
)

// Dir represents a directory of the served tree.
type Dir struct {
	fs   *TreeFS
	node *vfs.Dir
	path vfs.Path
}

// Attr implements the Node interface, returning directory attributes.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	dirLogger.Trace("Getting attributes for directory: %q", d.path.String())
	a.Mode = os.ModeDir | 0555
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid
	a.Mtime = d.fs.mtime
	a.Atime = d.fs.mtime
	a.Ctime = d.fs.mtime
	return nil
}

// Lookup implements the NodeStringLookuper interface, finding a child node.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	childPath := d.path.Child(name)
	dirLogger.Debug("Looking up %q in directory %q", name, d.path.String())

	child, ok := d.node.Child(name)
	if !ok {
		dirLogger.Debug("Path not found: %q", childPath.String())
		return nil, ToFuseError(notFound(childPath.String()))
	}

	switch c := child.(type) {
	case *vfs.Dir:
		return &Dir{fs: d.fs, node: c, path: childPath}, nil
	case *vfs.File:
		return &File{fs: d.fs, node: c, path: childPath}, nil
	}
	return nil, ToFuseError(notFound(childPath.String()))
}

// ReadDirAll implements the HandleReadDirAller interface, listing directory
// contents in name order.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	dirLogger.Debug("Reading directory contents: %q", d.path.String())

	names := d.node.Names()
	entries := make([]fuse.Dirent, 0, len(names))
	for _, name := range names {
		child, _ := d.node.Child(name)
		entryType := fuse.DT_File
		if child.Kind() == vfs.KindDirectory {
			entryType = fuse.DT_Dir
		}
		entries = append(entries, fuse.Dirent{Name: name, Type: entryType})
	}

	dirLogger.Debug("Directory %q contains %d entries", d.path.String(), len(entries))
	return entries, nil
}
