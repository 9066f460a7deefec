package fs

import (
	fusefs "bazil.org/fuse/fs"
)

// Directory is what a read-only directory node serves
type Directory interface {
	fusefs.Node
	fusefs.NodeStringLookuper
	fusefs.HandleReadDirAller
}

// FileInterface is what a read-only file node serves
type FileInterface interface {
	fusefs.Node
	fusefs.NodeOpener
}

// FileHandleInterface represents an open file handle
type FileHandleInterface interface {
	fusefs.Handle
	fusefs.HandleReader
	fusefs.HandleReleaser
}

var (
	_ fusefs.FS           = (*TreeFS)(nil)
	_ Directory           = (*Dir)(nil)
	_ FileInterface       = (*File)(nil)
	_ FileHandleInterface = (*FileHandle)(nil)
)
