package ipc

import (
	"fmt"
	"os"
	"path/filepath"
)

const runtimeDirName = "sercha-search-provider"

// runtimeDir is $XDG_RUNTIME_DIR/sercha-search-provider, falling back to
// a per-user directory under the system temp dir.
func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, runtimeDirName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", runtimeDirName, os.Getuid()))
}

// DefaultSocketPath returns the Unix socket path used when none is configured.
func DefaultSocketPath() string {
	return filepath.Join(runtimeDir(), "provider.sock")
}

// DefaultPIDPath returns the PID lock file path used when none is configured.
func DefaultPIDPath() string {
	return filepath.Join(runtimeDir(), "provider.pid")
}
