package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves $VAR and leading-tilde references in a path from
// the command line, so -c and @TEMPLATE values behave as they would in
// a shell. The ~user form is not supported and passes through as-is.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}
