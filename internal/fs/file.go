package fs

import (
	"context"
	"syscall"

	"vfsshell/internal/logging"
	"vfsshell/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	fileLogger = logging.GetLogger().WithPrefix("file")
)

// File represents a file of the served tree.
type File struct {
	fs   *TreeFS
	node *vfs.File
	path vfs.Path
}

// Attr implements the Node interface, returning the file's attributes.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	size := safeInt64ToUint64(int64(f.node.Size()))

	a.Mode = 0444
	a.Size = size
	a.Mtime = f.fs.mtime
	a.Atime = f.fs.mtime
	a.Ctime = f.fs.mtime
	a.Uid = f.fs.uid
	a.Gid = f.fs.gid
	a.BlockSize = 4096
	a.Blocks = (size + 511) / 512

	fileLogger.Trace("File attributes for %q: size=%d", f.path.String(), a.Size)
	return nil
}

// Open implements the NodeOpener interface. Only read access is allowed.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, _ *fuse.OpenResponse) (fusefs.Handle, error) {
	fileLogger.Debug("Opening file %q with flags %v", f.path.String(), req.Flags)

	if !req.Flags.IsReadOnly() {
		fileLogger.Warn("Attempted write access to read-only file: %q", f.path.String())
		return nil, syscall.EROFS
	}

	return &FileHandle{data: f.node.Content(), path: f.path.String()}, nil
}

// FileHandle is an open read-only view of a file's content.
type FileHandle struct {
	data []byte
	path string // For logging purposes
}

// Read implements the HandleReader interface, reading data at an offset.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fileLogger.Trace("Reading %d bytes from file %q at offset %d", req.Size, fh.path, req.Offset)

	if req.Offset < 0 {
		return syscall.EINVAL
	}
	if req.Offset >= int64(len(fh.data)) {
		resp.Data = nil
		return nil
	}

	end := req.Offset + int64(req.Size)
	if end > int64(len(fh.data)) {
		end = int64(len(fh.data))
	}
	resp.Data = fh.data[req.Offset:end]
	return nil
}

// Release implements the HandleReleaser interface.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fileLogger.Debug("Closing file %q", fh.path)
	return nil
}
