package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched in order in every directory.
var configNames = []string{
	"envtree.yml",
	"envtree.yaml",
	"envtree.toml",
	".envtree.yml",
	".envtree.yaml",
}

// Load reads and parses a configuration file. The format is chosen by extension.
// Relative source paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = LoadFromTOMLBytes(data)
	} else {
		cfg, err = LoadFromBytes(data)
	}
	if err != nil {
		if treeErr, ok := err.(*errors.TreeError); ok {
			treeErr.WithDetail("path", path)
		}
		return nil, err
	}

	if !filepath.IsAbs(cfg.Source.Path) {
		cfg.Source.Path = filepath.Join(filepath.Dir(path), cfg.Source.Path)
	}
	return cfg, nil
}

// LoadDefault finds and loads the configuration starting from the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom finds the nearest config file at or above startDir and loads it
// together with any override file next to it.
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger is LoadFrom with debug logging of the files involved.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	logger.WithField("path", path).Debug("Loading envtree configuration")
	return LoadWithOverrides(path)
}

// LoadFromBytes parses YAML configuration, validates it and applies defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var raw interface{}
	if err := yaml.Unmarshal(expanded, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	var config Config
	if err := yaml.Unmarshal(expanded, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	return finish(&config, raw)
}

// LoadFromTOMLBytes parses TOML configuration, validates it and applies defaults.
// Unknown top-level tables become extensions, as they do for YAML.
func LoadFromTOMLBytes(data []byte) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var raw map[string]interface{}
	if err := toml.Unmarshal(expanded, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
	}

	var config Config
	if err := toml.Unmarshal(expanded, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
	}

	for key, value := range raw {
		if isKnownKey(key) {
			continue
		}
		if config.Extensions == nil {
			config.Extensions = make(map[string]interface{})
		}
		config.Extensions[key] = value
	}

	return finish(&config, raw)
}

func finish(config *Config, raw interface{}) (*Config, error) {
	if raw != nil {
		validator, err := NewSchemaValidator()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
		}
		if err := validator.Validate(raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
		}
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func isKnownKey(key string) bool {
	switch key {
	case "version", "provider", "source", "watch":
		return true
	}
	return false
}

// FindConfigFile searches for an envtree configuration file from startDir up
// to the filesystem root, then falls back to the user-wide envtree.yml.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if global := paths.GlobalConfigFile(); global != "" {
		if info, err := os.Stat(global); err == nil && !info.IsDir() {
			return global, nil
		}
	}

	return "", errors.ConfigNotFound(filepath.Join(startDir, configNames[0]))
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} references.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
