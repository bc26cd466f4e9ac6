package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/envtree/errors"
	"github.com/moby/patternmatcher"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider.Scope) {
	case "", "workspace", "collection":
	default:
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("provider.scope must be 'workspace' or 'collection', got '%s'", c.Provider.Scope)).
			WithDetail("scope", c.Provider.Scope)
	}

	if c.Watch.DebounceMs < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "watch.debounce_ms cannot be negative").
			WithDetail("debounceMs", c.Watch.DebounceMs)
	}

	if len(c.Source.Exclude) > 0 {
		if _, err := patternmatcher.New(c.Source.Exclude); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid source.exclude pattern").
				WithDetail("exclude", c.Source.Exclude)
		}
	}

	return nil
}
