package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Config is the `logging` section of envtree.yml.
type Config struct {
	// Level is overridden by ENVTREE_LOG_LEVEL.
	Level        string         `yaml:"level"`
	ReportCaller bool           `yaml:"report_caller"`
	File         FileSinkConfig `yaml:"file"`
	Format       FormatConfig   `yaml:"format"`
}

// FileSinkConfig enables appending to a log file. An empty Path means the
// default file under the state directory.
type FileSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// FormatConfig selects the line format.
type FormatConfig struct {
	Preset             string `yaml:"preset"` // default, simple or json
	DisableTimestamp   bool   `yaml:"disable_timestamp"`
	DisableComponent   bool   `yaml:"disable_component"`
	StructuredToStderr string `yaml:"structured_to_stderr"` // auto, always or never
}

// level resolves the effective level. Unparseable values fall back to info.
func (c Config) level() logrus.Level {
	name := os.Getenv("ENVTREE_LOG_LEVEL")
	if name == "" {
		name = c.Level
	}
	if name == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func (c Config) reportCaller() bool {
	return c.ReportCaller || os.Getenv("ENVTREE_LOG_CALLER") == "true"
}

func (c Config) formatter() logrus.Formatter {
	switch c.Format.Preset {
	case "json":
		return &logrus.JSONFormatter{}
	case "simple":
		return &TextFormatter{Config: FormatConfig{DisableTimestamp: true, DisableComponent: true}}
	default:
		return &TextFormatter{Config: c.Format}
	}
}
