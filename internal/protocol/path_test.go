package protocol

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeJoinStripsDirectoryComponents(t *testing.T) {
	cases := map[string]string{
		"plain.txt":            "plain.txt",
		"../../../etc/passwd":  "passwd",
		"/abs/path/file.bin":   "file.bin",
		"nested/dir/notes.md":  "notes.md",
		"..\\..\\windows\\cmd": "cmd",
	}
	for name, want := range cases {
		got, err := SafeJoin("/tmp/out", name)
		if err != nil {
			t.Fatalf("SafeJoin(%q): %v", name, err)
		}
		if got != filepath.Join("/tmp/out", want) {
			t.Fatalf("SafeJoin(%q) = %q, want basename %q", name, got, want)
		}
		rel, err := filepath.Rel("/tmp/out", got)
		if err != nil || strings.HasPrefix(rel, "..") {
			t.Fatalf("SafeJoin(%q) escaped destination: %q", name, got)
		}
	}
}

func TestSafeJoinRejectsDegenerateNames(t *testing.T) {
	for _, name := range []string{"", ".", "..", "/", "//", "a/.."} {
		if _, err := SafeJoin("/tmp/out", name); !errors.Is(err, ErrUnsafeName) {
			t.Fatalf("SafeJoin(%q): expected ErrUnsafeName, got %v", name, err)
		}
	}
}
