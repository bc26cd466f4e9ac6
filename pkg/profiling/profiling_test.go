package profiling

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestTimerDisabledIsNoop(t *testing.T) {
	timer := &Timer{}
	timer.Start("ignored").Stop()

	var buf bytes.Buffer
	timer.Summarize(&buf)
	if buf.Len() != 0 {
		t.Errorf("expected no output from a disabled timer, got %q", buf.String())
	}
}

func TestTimerNestsSpans(t *testing.T) {
	timer := &Timer{}
	timer.Enable()

	outer := timer.Start("load source")
	inner := timer.Start("parse")
	inner.Stop()
	inner.Stop()
	outer.Stop()
	timer.Start("build tree").Stop()

	var buf bytes.Buffer
	timer.Summarize(&buf)
	out := buf.String()

	for _, want := range []string{"  - load source", "    - parse", "  - build tree"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCobraProfilerFlags(t *testing.T) {
	p := NewCobraProfiler()
	cmd := &cobra.Command{Use: "test"}
	p.AddFlags(cmd)

	memPath := filepath.Join(t.TempDir(), "mem.prof")
	if err := cmd.ParseFlags([]string{"--mem-profile", memPath}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	var errOut bytes.Buffer
	cmd.SetErr(&errOut)
	if err := p.PreRun(cmd, nil); err != nil {
		t.Fatalf("PreRun failed: %v", err)
	}
	if err := p.PostRun(cmd, nil); err != nil {
		t.Fatalf("PostRun failed: %v", err)
	}
	if !strings.Contains(errOut.String(), "Memory profile written") {
		t.Errorf("expected memory profile message, got %q", errOut.String())
	}
}
