package state

import (
	"testing"

	"vfsshell/internal/vfs"

	"github.com/spf13/afero"
)

func setupTestManager(t *testing.T) (*Manager, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	sm, err := NewManager(fsys, "/out/snapshot.json")
	if err != nil {
		t.Fatalf("Failed to create state manager: %v", err)
	}
	return sm, fsys
}

func TestSaveWritesLoadableSnapshot(t *testing.T) {
	sm, fsys := setupTestManager(t)

	if err := sm.Save(vfs.DefaultTree()); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	store := vfs.NewStore(fsys)
	if err := store.LoadFromSnapshot(sm.Path()); err != nil {
		t.Fatalf("Failed to load saved snapshot: %v", err)
	}
	if !vfs.Equal(store.Root(), vfs.DefaultTree()) {
		t.Error("Expected saved tree to round-trip through the store")
	}

	backups, err := sm.Backups()
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected no backup of an empty target, got %d", len(backups))
	}
}

func TestSaveRotatesBackups(t *testing.T) {
	sm, _ := setupTestManager(t)

	for i := 0; i < sm.backupCount+3; i++ {
		if err := sm.Save(vfs.DefaultTree()); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	backups, err := sm.Backups()
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) > sm.backupCount {
		t.Errorf("Expected at most %d backups, got %d", sm.backupCount, len(backups))
	}
	if len(backups) == 0 {
		t.Error("Expected backups after repeated saves")
	}
}
