// Package paths resolves the per-user directories envtree reads and writes.
//
// Resolution order:
// 1. ENVTREE_HOME (portable root) → $ENVTREE_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/envtree
// 3. Platform defaults → ~/.config/envtree, ~/.local/state/envtree, ~/.cache/envtree
package paths

import (
	"os"
	"path/filepath"
)

const appName = "envtree"

// base resolves one directory kind. homeSub is the portable-root subdirectory,
// xdgVar the XDG override and fallback the path below the user's home.
func base(homeSub, xdgVar string, fallback ...string) string {
	if root := os.Getenv("ENVTREE_HOME"); root != "" {
		return filepath.Join(root, homeSub)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
}

// ConfigDir holds the user-wide envtree.yml.
func ConfigDir() string {
	return base("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir holds logs.
func StateDir() string {
	return base("state", "XDG_STATE_HOME", ".local", "state")
}

// CacheDir holds regenerable data such as profiles.
func CacheDir() string {
	return base("cache", "XDG_CACHE_HOME", ".cache")
}

// GlobalConfigFile is the config used when no project envtree.yml is found.
func GlobalConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "envtree.yml")
}

// LogFile is the default destination of the file log sink.
func LogFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "logs", "envtree.log")
}

// EnsureDirs creates the envtree directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), CacheDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
