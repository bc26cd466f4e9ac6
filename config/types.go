package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config represents the envtree.yml configuration file.
type Config struct {
	Version  string         `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Provider ProviderConfig `yaml:"provider,omitempty" toml:"provider,omitempty" jsonschema:"description=Tree provider behavior"`
	Source   SourceConfig   `yaml:"source,omitempty" toml:"source,omitempty" jsonschema:"description=Domain document the tree is built from"`
	Watch    WatchConfig    `yaml:"watch,omitempty" toml:"watch,omitempty" jsonschema:"description=Source file watching"`

	// Extensions captures all other top-level keys for extensibility.
	// The logging package reads its section from here.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// ProviderConfig controls how the tree provider is built and how strictly it
// checks mutations.
type ProviderConfig struct {
	// Scope selects the tree shape: "workspace" or "collection".
	Scope string `yaml:"scope,omitempty" toml:"scope,omitempty" jsonschema:"enum=workspace,enum=collection,description=Tree shape"`

	// StrictChildren rejects SetChildren calls whose list references unknown
	// or duplicate identifiers.
	StrictChildren bool `yaml:"strict_children,omitempty" toml:"strict_children,omitempty" jsonschema:"description=Reject children lists with dangling or duplicate ids"`

	// Validate checks every committed snapshot against the tree invariants and
	// logs violations.
	Validate bool `yaml:"validate,omitempty" toml:"validate,omitempty" jsonschema:"description=Check invariants after every mutation"`
}

// SourceConfig locates the domain document.
type SourceConfig struct {
	// Path is resolved relative to the config file when not absolute.
	Path string `yaml:"path,omitempty" toml:"path,omitempty" jsonschema:"description=Path to the domain document (yaml, json or toml)"`

	// Exclude lists patterns matched against environment names.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" jsonschema:"description=Environment name patterns to leave out of the tree"`
}

// WatchConfig controls source file watching.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty" jsonschema:"minimum=0,description=Milliseconds to wait before reloading after a change"`
}

const (
	DefaultVersion    = "1.0"
	DefaultScope      = "workspace"
	DefaultSourcePath = "environments.yml"
	DefaultDebounceMs = 100
)

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Provider.Scope == "" {
		c.Provider.Scope = DefaultScope
	}
	if c.Source.Path == "" {
		c.Source.Path = DefaultSourcePath
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded envtree.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
