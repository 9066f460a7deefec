package fs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"vfsshell/internal/logging"
	"vfsshell/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	vfsLogger = logging.GetLogger().WithPrefix("fuse")
)

// TreeFS exposes an immutable VFS tree as a read-only FUSE filesystem.
type TreeFS struct {
	root    *vfs.Dir
	mtime   time.Time
	conn    *fuse.Conn
	uid     uint32 // User ID reported for every node
	gid     uint32 // Group ID reported for every node
	mounted string
}

// NewTreeFS wraps root. Ownership defaults to the current process and can
// be overridden with PUID/PGID.
func NewTreeFS(root *vfs.Dir) *TreeFS {
	uid := safeIntToUint32(os.Getuid())
	gid := safeIntToUint32(os.Getgid())

	if puidStr := os.Getenv("PUID"); puidStr != "" {
		if puid, err := strconv.ParseUint(puidStr, 10, 32); err == nil {
			uid = uint32(puid)
			vfsLogger.Debug("Using PUID from environment: %d", uid)
		}
	}
	if pgidStr := os.Getenv("PGID"); pgidStr != "" {
		if pgid, err := strconv.ParseUint(pgidStr, 10, 32); err == nil {
			gid = uint32(pgid)
			vfsLogger.Debug("Using PGID from environment: %d", gid)
		}
	}

	return &TreeFS{
		root:  root,
		mtime: time.Now(),
		uid:   uid,
		gid:   gid,
	}
}

// Root implements the fusefs.FS interface, returning the root directory node.
func (t *TreeFS) Root() (fusefs.Node, error) {
	return &Dir{fs: t, node: t.root, path: vfs.RootPath()}, nil
}

// Mount mounts the tree read-only at mountPoint and serves it until ctx is
// done or the filesystem is unmounted externally.
func (t *TreeFS) Mount(ctx context.Context, mountPoint string) error {
	vfsLogger.Info("Mounting VFS at %s", mountPoint)

	c, err := fuse.Mount(mountPoint,
		fuse.FSName("vfsshell"),
		fuse.Subtype("vfsshell"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	t.conn = c
	t.mounted = mountPoint
	defer c.Close()

	go func() {
		<-ctx.Done()
		if err := t.Unmount(); err != nil {
			vfsLogger.Error("Unmount error: %v", err)
		}
	}()

	vfsLogger.Debug("Serving filesystem...")
	if err := fusefs.Serve(c, t); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	vfsLogger.Info("FUSE server stopped")
	return nil
}

// Unmount cleanly unmounts the filesystem.
func (t *TreeFS) Unmount() error {
	if t.conn == nil || t.mounted == "" {
		return nil
	}
	vfsLogger.Info("Unmounting filesystem from: %s", t.mounted)
	return fuse.Unmount(t.mounted)
}
