// Package state writes snapshots of the virtual filesystem to disk.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"vfsshell/internal/logging"
	"vfsshell/internal/vfs"

	"github.com/spf13/afero"
)

var (
	logger = logging.GetLogger().WithPrefix("state")
)

const (
	backupDirName = ".vfs-backups"
	backupPrefix  = "snapshot-"
)

// Manager handles saving snapshots with rotating backups.
type Manager struct {
	fs          afero.Fs
	statePath   string
	backupDir   string
	backupCount int
	mu          sync.Mutex
}

// NewManager creates a new snapshot manager for the given target path.
// It ensures the target directory exists and is writable.
func NewManager(fsys afero.Fs, statePath string) (*Manager, error) {
	logger.Debug("Creating new state manager with path: %s", statePath)
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	absPath := statePath
	if !filepath.IsAbs(statePath) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		absPath = filepath.Join(cwd, statePath)
	}
	logger.Debug("Resolved state path: %s", absPath)

	stateDir := filepath.Dir(absPath)
	if err := fsys.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", stateDir, err)
	}

	// Verify we can write the target before anything else touches it
	f, err := fsys.OpenFile(absPath, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create state file %s: %w", absPath, err)
	}
	f.Close()

	backupDir := filepath.Join(stateDir, backupDirName)
	if err := fsys.MkdirAll(backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", backupDir, err)
	}

	return &Manager{
		fs:          fsys,
		statePath:   absPath,
		backupDir:   backupDir,
		backupCount: 5,
	}, nil
}

// Path returns the absolute snapshot path.
func (sm *Manager) Path() string {
	return sm.statePath
}

// Save writes the tree rooted at root as a snapshot. The previous file, if
// any, is kept as a backup first.
func (sm *Manager) Save(root vfs.Node) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	logger.Debug("Saving snapshot to: %s", sm.statePath)

	if err := sm.createBackup(); err != nil {
		logger.Warn("Failed to create backup: %v", err)
		// Continue with save even if backup fails
	}

	data, err := vfs.MarshalSnapshot(root)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("refusing to write empty snapshot data")
	}

	logger.Trace("Writing %d bytes of snapshot data", len(data))
	if err := afero.WriteFile(sm.fs, sm.statePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	written, err := afero.ReadFile(sm.fs, sm.statePath)
	if err != nil {
		return fmt.Errorf("failed to verify written snapshot: %w", err)
	}
	if _, err := vfs.ParseSnapshot(written); err != nil {
		return fmt.Errorf("written snapshot does not parse: %w", err)
	}

	logger.Info("Snapshot saved to %s", sm.statePath)
	return nil
}

// Backups lists kept backups, newest first.
func (sm *Manager) Backups() ([]Backup, error) {
	infos, err := afero.ReadDir(sm.fs, sm.backupDir)
	if err != nil {
		return nil, err
	}

	backups := make([]Backup, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasPrefix(info.Name(), backupPrefix) || filepath.Ext(info.Name()) != ".json" {
			continue
		}
		backups = append(backups, Backup{
			Path:    filepath.Join(sm.backupDir, info.Name()),
			ModTime: info.ModTime(),
		})
	}

	// Names embed the timestamp, so reverse name order is newest first
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

// createBackup copies the current snapshot file aside
func (sm *Manager) createBackup() error {
	data, err := afero.ReadFile(sm.fs, sm.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	timestamp := time.Now().UTC().Format("20060102-150405.000000000")
	backupPath := filepath.Join(sm.backupDir, fmt.Sprintf("%s%s.json", backupPrefix, timestamp))

	logger.Debug("Creating backup: %s", backupPath)
	if err := afero.WriteFile(sm.fs, backupPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return sm.cleanupOldBackups()
}

// cleanupOldBackups removes old backup files, keeping only the most recent ones
func (sm *Manager) cleanupOldBackups() error {
	backups, err := sm.Backups()
	if err != nil {
		return err
	}

	for i := sm.backupCount; i < len(backups); i++ {
		logger.Debug("Removing old backup: %s", backups[i].Path)
		if err := sm.fs.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}

	return nil
}
