package extract

import (
	"os"
	"path/filepath"
)

// writeTemp writes data into a file inside a fresh temporary directory and
// returns the file path together with a cleanup func that removes the whole
// directory. Every strategy that needs disk-backed input goes through this;
// callers must defer cleanup so the directory is released on every exit path,
// including panics and context cancellation.
func writeTemp(data []byte, ext string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "finsight-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, "upload"+ext)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
