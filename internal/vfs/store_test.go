package vfs

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(afero.NewMemMapFs())
	s.CreateDefaultTree()
	return s
}

func writeSnapshot(t *testing.T, fsys afero.Fs, name, body string) {
	t.Helper()
	if err := afero.WriteFile(fsys, name, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}
}

func TestListDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeSnapshot(t, fsys, "/snap.json", `{
		"name": "/", "type": "directory", "children": {
			"b": {"name": "b", "type": "directory", "children": {}},
			"a": {"name": "a", "type": "file", "content": ""},
			"c": {"name": "c", "type": "directory", "children": {}},
			"B": {"name": "B", "type": "file", "content": ""}
		}
	}`)

	s := NewStore(fsys)
	if err := s.LoadFromSnapshot("/snap.json"); err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	names, err := s.ListDirectory("")
	if err != nil {
		t.Fatalf("Failed to list root: %v", err)
	}
	expected := []string{"B", "a", "b", "c"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected %v, got %v", expected, names)
	}

	names, err = s.ListDirectory("/c")
	if err != nil {
		t.Fatalf("Failed to list empty directory: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected no entries, got %v", names)
	}
}

func TestListDirectoryErrors(t *testing.T) {
	s := setupTestStore(t)

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "file target", path: "/home/user/hello.txt", want: ErrNotADirectory},
		{name: "missing target", path: "/nope", want: ErrNotFound},
		{name: "through a file", path: "/home/user/hello.txt/x", want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ListDirectory(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			var vErr *Error
			if !errors.As(err, &vErr) || vErr.Op != OpList {
				t.Errorf("Expected *Error with op %q, got %v", OpList, err)
			}
		})
	}
}

func TestChangeDirectory(t *testing.T) {
	s := setupTestStore(t)

	t.Run("FileTarget", func(t *testing.T) {
		err := s.ChangeDirectory("/home/user/hello.txt")
		if !errors.Is(err, ErrNotADirectory) {
			t.Errorf("Expected ErrNotADirectory, got %v", err)
		}
		if s.CurrentAbsolutePath() != "/" {
			t.Errorf("Expected cursor to stay at /, got %q", s.CurrentAbsolutePath())
		}
	})

	t.Run("MissingTarget", func(t *testing.T) {
		if err := s.ChangeDirectory("home"); err != nil {
			t.Fatalf("Failed to cd home: %v", err)
		}
		err := s.ChangeDirectory("/nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if s.CurrentAbsolutePath() != "/home" {
			t.Errorf("Expected cursor unchanged at /home, got %q", s.CurrentAbsolutePath())
		}
	})

	t.Run("ParentOfRoot", func(t *testing.T) {
		if err := s.ChangeDirectory("/"); err != nil {
			t.Fatalf("Failed to cd /: %v", err)
		}
		for i := 0; i < 5; i++ {
			if err := s.ChangeDirectory(".."); err != nil {
				t.Fatalf("cd .. at root failed: %v", err)
			}
		}
		if s.CurrentAbsolutePath() != "/" {
			t.Errorf("Expected /, got %q", s.CurrentAbsolutePath())
		}
	})

	t.Run("UpAndAcross", func(t *testing.T) {
		if err := s.ChangeDirectory("/home/user"); err != nil {
			t.Fatalf("Failed to cd: %v", err)
		}
		if err := s.ChangeDirectory("../../bin"); err != nil {
			t.Fatalf("Failed to cd ../../bin: %v", err)
		}
		if s.CurrentAbsolutePath() != "/bin" {
			t.Errorf("Expected /bin, got %q", s.CurrentAbsolutePath())
		}
	})

	t.Run("NormalizedPath", func(t *testing.T) {
		if err := s.ChangeDirectory("//home/./user/"); err != nil {
			t.Fatalf("Failed to cd: %v", err)
		}
		if s.CurrentAbsolutePath() != "/home/user" {
			t.Errorf("Expected /home/user, got %q", s.CurrentAbsolutePath())
		}
	})
}

func TestLoadFromSnapshotErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeSnapshot(t, fsys, "/broken.json", `{not json`)
	writeSnapshot(t, fsys, "/badtype.json", `{"name": "/", "type": "socket"}`)

	tests := []struct {
		name   string
		source string
		want   error
	}{
		{name: "missing source", source: "/missing.json", want: ErrNotFound},
		{name: "malformed document", source: "/broken.json", want: ErrFormat},
		{name: "bad node type", source: "/badtype.json", want: ErrFormat},
		{name: "unreadable source", source: "/locked.json", want: ErrLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(deniedFs{Fs: fsys, denied: "/locked.json"})
			s.CreateDefaultTree()
			if err := s.ChangeDirectory("/home"); err != nil {
				t.Fatalf("Failed to cd: %v", err)
			}
			before := s.Root()

			err := s.LoadFromSnapshot(tt.source)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if s.Root() != before {
				t.Error("Expected root to be untouched after failed load")
			}
			if s.CurrentAbsolutePath() != "/home" {
				t.Errorf("Expected cursor untouched, got %q", s.CurrentAbsolutePath())
			}
		})
	}
}

// deniedFs fails every Open of one name with a permission error.
type deniedFs struct {
	afero.Fs
	denied string
}

func (d deniedFs) Open(name string) (afero.File, error) {
	if name == d.denied {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return d.Fs.Open(name)
}

func TestLoadResetsCursor(t *testing.T) {
	fsys := afero.NewMemMapFs()
	data, err := MarshalSnapshot(DefaultTree())
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	writeSnapshot(t, fsys, "/snap.json", string(data))

	s := setupTestStore(t)
	s.fs = fsys
	if err := s.ChangeDirectory("/home/user"); err != nil {
		t.Fatalf("Failed to cd: %v", err)
	}
	if err := s.LoadFromSnapshot("/snap.json"); err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if s.CurrentAbsolutePath() != "/" {
		t.Errorf("Expected cursor reset to /, got %q", s.CurrentAbsolutePath())
	}
	if !Equal(s.Root(), DefaultTree()) {
		t.Error("Expected loaded tree to equal the default tree")
	}
}

func TestFallbackToDefaultTree(t *testing.T) {
	s := NewStore(afero.NewMemMapFs())
	if err := s.LoadFromSnapshot("/does/not/exist.json"); err == nil {
		t.Fatal("Expected load error")
	}
	s.CreateDefaultTree()

	n, err := s.Lookup("/home/user/hello.txt")
	if err != nil {
		t.Fatalf("Failed to look up hello.txt: %v", err)
	}
	f, ok := n.(*File)
	if !ok {
		t.Fatalf("Expected *File, got %T", n)
	}
	if string(f.Content()) != "Hello, VFS!" {
		t.Errorf("Expected %q, got %q", "Hello, VFS!", f.Content())
	}
}

func TestEndToEnd(t *testing.T) {
	s := setupTestStore(t)

	names, err := s.ListDirectory("")
	if err != nil {
		t.Fatalf("Failed to list root: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"bin", "home"}) {
		t.Errorf("Expected [bin home], got %v", names)
	}

	if err := s.ChangeDirectory("home/user"); err != nil {
		t.Fatalf("Failed to cd home/user: %v", err)
	}

	names, err = s.ListDirectory("")
	if err != nil {
		t.Fatalf("Failed to list home/user: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"hello.txt"}) {
		t.Errorf("Expected [hello.txt], got %v", names)
	}

	if s.CurrentAbsolutePath() != "/home/user" {
		t.Errorf("Expected /home/user, got %q", s.CurrentAbsolutePath())
	}
	if !s.Cursor().Equal(Path{RootSentinel, "home", "user"}) {
		t.Errorf("Unexpected cursor %v", s.Cursor())
	}
}

func TestSnapshotRoundTripFromStore(t *testing.T) {
	s := setupTestStore(t)
	decoded, err := Decode(s.Snapshot())
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !Equal(s.Root(), decoded) {
		t.Error("Expected store snapshot to round-trip")
	}
}
