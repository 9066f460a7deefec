// Package fs serves a virtual filesystem tree read-only over FUSE.
//
// This file contains error translation utilities.
package fs

import (
	"errors"
	"os"
	"syscall"

	"vfsshell/internal/logging"
	"vfsshell/internal/vfs"
)

var (
	errLogger = logging.GetLogger().WithPrefix("error")
)

// ToFuseError converts a VFS error to the errno FUSE expects.
func ToFuseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, vfs.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return syscall.ENOENT
	case errors.Is(err, vfs.ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, os.ErrPermission):
		return syscall.EACCES
	default:
		errLogger.Debug("Unknown error type, returning EIO: %v", err)
		return syscall.EIO
	}
}

// notFound builds the lookup error for a missing child.
func notFound(path string) error {
	return &vfs.Error{Op: vfs.OpLookup, Path: path, Err: vfs.ErrNotFound}
}
