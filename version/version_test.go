package version

import (
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version != "dev" {
		t.Errorf("expected dev version, got %q", info.Version)
	}
	if info.IsRelease() {
		t.Error("dev builds are not releases")
	}
	if !strings.Contains(info.String(), "Platform:") {
		t.Errorf("String() missing platform line: %q", info.String())
	}
}

func TestIsRelease(t *testing.T) {
	info := Info{Version: "v1.2.0", Commit: "abc123"}
	if !info.IsRelease() {
		t.Error("tagged builds with a commit are releases")
	}
}
