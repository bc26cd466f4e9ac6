package source

import (
	"os"
	"path/filepath"

	"github.com/grovetools/envtree/errors"
	"github.com/grovetools/envtree/logging"
	"github.com/grovetools/envtree/pkg/models"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// Loader reads one source document and filters its environments.
type Loader struct {
	path    string
	format  Format
	matcher *patternmatcher.PatternMatcher
	logger  *logrus.Entry
}

// NewLoader creates a loader for path. exclude holds patterns matched against
// environment names; a leading "!" re-includes names an earlier pattern
// excluded.
func NewLoader(path string, exclude []string) (*Loader, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to resolve source path").
			WithDetail("path", path)
	}

	l := &Loader{
		path:   abs,
		format: format,
		logger: logging.NewLogger("envtree-source"),
	}
	if len(exclude) > 0 {
		pm, err := patternmatcher.New(exclude)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid exclude pattern").
				WithDetail("patterns", exclude)
		}
		l.matcher = pm
	}
	return l, nil
}

// Path returns the absolute document path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, validates and filters the document.
func (l *Loader) Load() (*Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceNotFound(l.path)
		}
		return nil, errors.SourceInvalid(l.path, err)
	}

	doc, err := Parse(data, l.format)
	if err != nil {
		return nil, errors.SourceInvalid(l.path, err)
	}

	doc.Environments, err = l.filter(doc.Environments)
	if err != nil {
		return nil, errors.SourceInvalid(l.path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"path":         l.path,
		"collections":  len(doc.Collections),
		"environments": len(doc.Environments),
	}).Debug("Source document loaded")
	return doc, nil
}

func (l *Loader) filter(envs []models.Environment) ([]models.Environment, error) {
	if l.matcher == nil {
		return envs, nil
	}
	kept := make([]models.Environment, 0, len(envs))
	for _, env := range envs {
		excluded, err := l.matcher.MatchesOrParentMatches(env.Name)
		if err != nil {
			return nil, err
		}
		if excluded {
			l.logger.WithField("name", env.Name).Debug("Environment excluded by pattern")
			continue
		}
		kept = append(kept, env)
	}
	return kept, nil
}
