package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/envtree/errors"
	"gopkg.in/yaml.v3"
)

// LoadWithOverrides loads baseFile and merges envtree.override.yml (or .yaml)
// from the same directory over it.
func LoadWithOverrides(baseFile string) (*Config, error) {
	config, err := Load(baseFile)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(baseFile)
	for _, overrideFile := range OverrideFiles(baseFile) {
		data, err := os.ReadFile(overrideFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read override file").
				WithDetail("path", overrideFile)
		}

		var override Config
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &override); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse override file").
				WithDetail("path", overrideFile)
		}
		if override.Source.Path != "" && !filepath.IsAbs(override.Source.Path) {
			override.Source.Path = filepath.Join(dir, override.Source.Path)
		}

		config = mergeConfigs(config, &override)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// OverrideFiles returns the override files present next to baseFile, in
// the order they are applied.
func OverrideFiles(baseFile string) []string {
	dir := filepath.Dir(baseFile)
	var found []string
	for _, name := range []string{"envtree.override.yml", "envtree.override.yaml"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			found = append(found, path)
		}
	}
	return found
}

// mergeConfigs merges override configuration into base. Scalars replace,
// exclude patterns append, extensions merge key by key.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	if override.Provider.Scope != "" {
		result.Provider.Scope = strings.ToLower(override.Provider.Scope)
	}
	result.Provider.StrictChildren = base.Provider.StrictChildren || override.Provider.StrictChildren
	result.Provider.Validate = base.Provider.Validate || override.Provider.Validate

	if override.Source.Path != "" {
		result.Source.Path = override.Source.Path
	}
	if len(override.Source.Exclude) > 0 {
		result.Source.Exclude = append(append([]string(nil), base.Source.Exclude...), override.Source.Exclude...)
	}

	if override.Watch.DebounceMs != 0 {
		result.Watch.DebounceMs = override.Watch.DebounceMs
	}

	if len(override.Extensions) > 0 {
		merged := make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			merged[k] = v
		}
		for k, v := range override.Extensions {
			merged[k] = v
		}
		result.Extensions = merged
	}

	return &result
}
