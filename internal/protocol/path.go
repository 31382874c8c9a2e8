package protocol

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// SafeJoin resolves a wire filename to a destination path strictly inside
// dir. Directory components in the name are discarded so a hostile header
// cannot escape the target directory. Names that reduce to nothing are
// rejected rather than guessed at.
func SafeJoin(dir, name string) (string, error) {
	// Senders on Windows may frame backslash-separated names.
	cleaned := strings.ReplaceAll(name, "\\", "/")
	base := path.Base(cleaned)
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return filepath.Join(dir, base), nil
}
