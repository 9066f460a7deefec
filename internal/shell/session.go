// Package shell drives an emulated shell session over the virtual filesystem.
package shell

import (
	"errors"
	"fmt"
	"path/filepath"

	"vfsshell/internal/logging"
	"vfsshell/internal/metrics"
	"vfsshell/internal/vfs"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	sessionLogger = logging.GetLogger().WithPrefix("session")
)

// Display names used when the built-in tree is in use.
const (
	DefaultVFSName        = "Default VFS"
	defaultNameNotFound   = DefaultVFSName + " (file not found)"
	defaultNameBadFormat  = DefaultVFSName + " (invalid format)"
	defaultNameLoadFailed = DefaultVFSName + " (unknown error)"
)

// Options configures a new Session.
type Options struct {
	// SnapshotPath is loaded when set; otherwise the built-in tree is used
	SnapshotPath string
	User         string
	Hostname     string
	// Fs is where snapshots are read from; nil means the host filesystem
	Fs afero.Fs
}

// Session owns one store and the identity shown in the prompt.
type Session struct {
	ID      string
	Store   *vfs.Store
	VFSName string
	User    string
	Host    string

	logger *logging.Logger
}

// NewSession builds the session tree. Any snapshot load failure is logged
// and replaced by the built-in tree, so NewSession always succeeds.
func NewSession(opts Options) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:     id,
		Store:  vfs.NewStore(opts.Fs),
		User:   opts.User,
		Host:   opts.Hostname,
		logger: sessionLogger.With("session", id),
	}
	if s.User == "" {
		s.User = "user"
	}
	if s.Host == "" {
		s.Host = "localhost"
	}

	s.initTree(opts.SnapshotPath)

	nodes := 0
	_ = vfs.Walk(s.Store.Root(), func(string, vfs.Node) error {
		nodes++
		return nil
	})
	metrics.SetTreeNodes(nodes)
	s.logger.Debug("Session tree ready: %s (%d nodes)", s.VFSName, nodes)
	return s
}

func (s *Session) initTree(snapshotPath string) {
	if snapshotPath == "" {
		s.Store.CreateDefaultTree()
		s.VFSName = DefaultVFSName
		metrics.RecordSnapshotLoad(metrics.LoadDefaultTree)
		return
	}

	err := s.Store.LoadFromSnapshot(snapshotPath)
	if err == nil {
		s.VFSName = filepath.Base(snapshotPath)
		s.logger.Info("Loaded VFS snapshot %s", snapshotPath)
		metrics.RecordSnapshotLoad(metrics.LoadOK)
		return
	}

	switch {
	case errors.Is(err, vfs.ErrNotFound):
		s.VFSName = defaultNameNotFound
		metrics.RecordSnapshotLoad(metrics.LoadNotFound)
	case errors.Is(err, vfs.ErrFormat):
		s.VFSName = defaultNameBadFormat
		metrics.RecordSnapshotLoad(metrics.LoadBadFormat)
	default:
		s.VFSName = defaultNameLoadFailed
		metrics.RecordSnapshotLoad(metrics.LoadError)
	}
	s.logger.Error("Failed to load VFS: %v", err)
	s.Store.CreateDefaultTree()
}

// Prompt renders the input prompt, including the current directory.
func (s *Session) Prompt() string {
	return fmt.Sprintf("[%s@%s:%s]$ ", s.User, s.Host, s.Store.CurrentAbsolutePath())
}

// Title is the one-line session banner.
func (s *Session) Title() string {
	return fmt.Sprintf("Emulator - [%s@%s] - VFS: %s", s.User, s.Host, s.VFSName)
}
