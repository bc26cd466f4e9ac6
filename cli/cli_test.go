package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/envtree/config"
	"github.com/grovetools/envtree/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindEnv(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("debounce-ms", 100, "")
	flags.String("scope", "workspace", "")
	flags.Bool("json", false, "")

	t.Setenv("ENVTREE_DEBOUNCE_MS", "250")
	t.Setenv("ENVTREE_SCOPE", "collection")
	t.Setenv("ENVTREE_JSON", "true")

	require.NoError(t, flags.Parse([]string{"--scope", "workspace"}))
	require.NoError(t, BindEnv(flags))

	debounce, _ := flags.GetInt("debounce-ms")
	scope, _ := flags.GetString("scope")
	jsonOut, _ := flags.GetBool("json")
	assert.Equal(t, 250, debounce)
	assert.Equal(t, "workspace", scope, "explicit flags win over the environment")
	assert.True(t, jsonOut)
}

func TestBindEnvInvalidValue(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("debounce-ms", 100, "")
	t.Setenv("ENVTREE_DEBOUNCE_MS", "soon")

	assert.Error(t, BindEnv(flags))
}

func TestStandardCommandFlags(t *testing.T) {
	cmd := NewStandardCommand("envtree", "test")
	require.NoError(t, cmd.ParseFlags([]string{"-v", "--json", "-c", "custom.yml"}))

	opts := GetOptions(cmd)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.JSONOutput)
	assert.Equal(t, "custom.yml", opts.ConfigFile)
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENVTREE_HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig(CommandOptions{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultScope, cfg.Provider.Scope)
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := LoadConfig(CommandOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yml")})
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "config not found", err: errors.ConfigNotFound("envtree.yml"), want: "Configuration not found"},
		{name: "source missing", err: errors.SourceNotFound("envs.yml"), want: "Source document 'envs.yml' not found"},
		{name: "node missing", err: errors.NodeNotFound("e1"), want: "Node 'e1' does not exist"},
		{name: "generic", err: assert.AnError, want: "Error: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestErrorHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}
	_ = h.Handle(errors.NodeNotFound("e1"))
	assert.Contains(t, buf.String(), `"code": "NOT_FOUND"`)
}
