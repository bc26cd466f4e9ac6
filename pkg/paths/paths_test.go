package paths

import (
	"path/filepath"
	"testing"
)

func TestPortableRoot(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ENVTREE_HOME", root)
	t.Setenv("XDG_CONFIG_HOME", "/ignored")

	if got, want := ConfigDir(), filepath.Join(root, "config"); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
	if got, want := LogFile(), filepath.Join(root, "state", "logs", "envtree.log"); got != want {
		t.Errorf("LogFile() = %q, want %q", got, want)
	}
	if got, want := GlobalConfigFile(), filepath.Join(root, "config", "envtree.yml"); got != want {
		t.Errorf("GlobalConfigFile() = %q, want %q", got, want)
	}

	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() failed: %v", err)
	}
}

func TestXDGOverrides(t *testing.T) {
	t.Setenv("ENVTREE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", ConfigDir(), "/xdg/config/envtree"},
		{"state", StateDir(), "/xdg/state/envtree"},
		{"cache", CacheDir(), "/xdg/cache/envtree"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s dir = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
