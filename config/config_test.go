package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/envtree/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, DefaultScope, cfg.Provider.Scope)
	assert.Equal(t, DefaultSourcePath, cfg.Source.Path)
	assert.Equal(t, DefaultDebounceMs, cfg.Watch.DebounceMs)
	assert.False(t, cfg.Provider.StrictChildren)
}

// TestExtensions verifies that the logging section is captured and decoded
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
provider:
  scope: collection
  strict_children: true

logging:
  level: debug
  report_caller: true
  format:
    preset: simple
`)

	cfg, err := LoadFromBytes(yamlContent)
	require.NoError(t, err)
	assert.Equal(t, "collection", cfg.Provider.Scope)
	assert.True(t, cfg.Provider.StrictChildren)

	type logConfig struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
		Format       struct {
			Preset string `yaml:"preset"`
		} `yaml:"format"`
	}
	var logCfg logConfig
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)
	assert.Equal(t, "simple", logCfg.Format.Preset)

	var unknown struct {
		Field string `yaml:"field"`
	}
	require.NoError(t, cfg.UnmarshalExtension("unknown", &unknown))
	assert.Empty(t, unknown.Field)
}

func TestLoadFromBytesEnvExpansion(t *testing.T) {
	t.Setenv("ENVTREE_TEST_SCOPE", "collection")
	cfg, err := LoadFromBytes([]byte(`
provider:
  scope: ${ENVTREE_TEST_SCOPE}
source:
  path: ${ENVTREE_TEST_MISSING:-fallback.yml}
`))
	require.NoError(t, err)
	assert.Equal(t, "collection", cfg.Provider.Scope)
	assert.Equal(t, "fallback.yml", cfg.Source.Path)
}

func TestLoadFromBytesSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown scope", yaml: "provider:\n  scope: folders\n"},
		{name: "wrong type", yaml: "watch:\n  debounce_ms: soon\n"},
		{name: "negative debounce", yaml: "watch:\n  debounce_ms: -5\n"},
		{name: "exclude not a list", yaml: "source:\n  exclude: dev\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid), "got %v", err)
		})
	}
}

func TestLoadFromBytesInvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("provider: [unterminated"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestValidateExcludePatterns(t *testing.T) {
	cfg := &Config{Source: SourceConfig{Exclude: []string{"["}}}
	err := cfg.Validate()
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation), "got %v", err)

	cfg = &Config{Source: SourceConfig{Exclude: []string{"tmp-*", "!tmp-keep"}}}
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "envtree.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = "1.0"

[provider]
scope = "collection"

[source]
path = "data/envs.toml"
exclude = ["scratch-*"]

[logging]
level = "warn"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "collection", cfg.Provider.Scope)
	assert.Equal(t, filepath.Join(dir, "data", "envs.toml"), cfg.Source.Path)
	assert.Equal(t, []string{"scratch-*"}, cfg.Source.Exclude)

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "warn", logCfg.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "envtree.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "envtree.yml"), []byte("version: \"1.0\"\n"), 0644))

	path, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "envtree.yml"), path)
}

func TestFindConfigFileFallsBackToUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ENVTREE_HOME", home)

	_, err := FindConfigFile(t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))

	global := filepath.Join(home, "config", "envtree.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0755))
	require.NoError(t, os.WriteFile(global, []byte("version: \"1.0\"\n"), 0644))

	path, err := FindConfigFile(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, global, path)
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "envtree.yml"), []byte(`
version: "1.0"
provider:
  scope: workspace
source:
  path: envs.yml
  exclude: ["tmp-*"]
logging:
  level: info
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "envtree.override.yml"), []byte(`
provider:
  scope: collection
  validate: true
source:
  exclude: ["scratch"]
watch:
  debounce_ms: 250
logging:
  level: debug
`), 0644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "collection", cfg.Provider.Scope)
	assert.True(t, cfg.Provider.Validate)
	assert.Equal(t, filepath.Join(dir, "envs.yml"), cfg.Source.Path)
	assert.Equal(t, []string{"tmp-*", "scratch"}, cfg.Source.Exclude)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok, "schema should have properties")
	for _, key := range []string{"version", "provider", "source", "watch"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, props, "Extensions")
}
