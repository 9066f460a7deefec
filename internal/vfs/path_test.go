package vfs

import (
	"testing"
)

func TestResolve(t *testing.T) {
	homeUser := Path{RootSentinel, "home", "user"}

	tests := []struct {
		name     string
		cursor   Path
		input    string
		expected string
	}{
		{
			name:     "empty path keeps cursor",
			cursor:   homeUser,
			input:    "",
			expected: "/home/user",
		},
		{
			name:     "absolute path",
			cursor:   homeUser,
			input:    "/bin",
			expected: "/bin",
		},
		{
			name:     "relative path",
			cursor:   RootPath(),
			input:    "home/user",
			expected: "/home/user",
		},
		{
			name:     "repeated separators collapse",
			cursor:   RootPath(),
			input:    "a//b/./c",
			expected: "/a/b/c",
		},
		{
			name:     "trailing slash ignored",
			cursor:   RootPath(),
			input:    "home/",
			expected: "/home",
		},
		{
			name:     "dot dot climbs",
			cursor:   homeUser,
			input:    "..",
			expected: "/home",
		},
		{
			name:     "dot dot stops at root",
			cursor:   homeUser,
			input:    "../../x",
			expected: "/x",
		},
		{
			name:     "dot dot at root is a no-op",
			cursor:   RootPath(),
			input:    "../../..",
			expected: "/",
		},
		{
			name:     "root only",
			cursor:   homeUser,
			input:    "/",
			expected: "/",
		},
		{
			name:     "many slashes",
			cursor:   homeUser,
			input:    "///",
			expected: "/",
		},
		{
			name:     "segments kept verbatim",
			cursor:   RootPath(),
			input:    "...",
			expected: "/...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.cursor, tt.input)
			if got.String() != tt.expected {
				t.Errorf("Expected path %q, got %q", tt.expected, got.String())
			}
			if len(got) == 0 || got[0] != RootSentinel {
				t.Errorf("Expected resolved path to start with root sentinel, got %v", got)
			}
		})
	}
}

func TestResolveDoesNotAliasCursor(t *testing.T) {
	cursor := Path{RootSentinel, "home"}
	got := Resolve(cursor, "")
	got[1] = "changed"
	if cursor[1] != "home" {
		t.Errorf("Expected cursor to be untouched, got %v", cursor)
	}

	got = Resolve(cursor, "user")
	if cursor.String() != "/home" {
		t.Errorf("Expected cursor to be untouched, got %q", cursor.String())
	}
	if got.String() != "/home/user" {
		t.Errorf("Expected /home/user, got %q", got.String())
	}
}

func TestResolveParentAtRootAnyDepth(t *testing.T) {
	p := RootPath()
	for i := 0; i < 50; i++ {
		p = Resolve(p, "..")
		if !p.IsRoot() {
			t.Fatalf("Expected root after %d steps, got %q", i+1, p.String())
		}
	}
}

func TestPathHelpers(t *testing.T) {
	p := Path{RootSentinel, "home", "user"}
	child := p.Child("docs")
	if child.String() != "/home/user/docs" {
		t.Errorf("Expected child %q, got %q", "/home/user/docs", child.String())
	}
	if p.String() != "/home/user" {
		t.Errorf("Expected receiver to be untouched, got %q", p.String())
	}
	if p.Parent().String() != "/home" {
		t.Errorf("Expected parent %q, got %q", "/home", p.Parent().String())
	}
	if !RootPath().Parent().IsRoot() {
		t.Error("Root should be its own parent")
	}
	if RootPath().Child("bin").String() != "/bin" {
		t.Errorf("Expected %q, got %q", "/bin", RootPath().Child("bin").String())
	}
	if !Resolve(RootPath(), "a//b/./c").Equal(Resolve(RootPath(), "a/b/c")) {
		t.Error("Expected a//b/./c and a/b/c to resolve identically")
	}
}
