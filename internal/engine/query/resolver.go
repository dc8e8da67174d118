package query

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Placeholder is submitted when neither an override nor a query file exists.
const Placeholder = "SELECT 1"

// Resolver picks the SQL to submit: explicit override, then the query file,
// then Placeholder.
type Resolver struct {
	Override   string
	SourceFile string
}

func NewResolver(override, sourceFile string) *Resolver {
	return &Resolver{Override: override, SourceFile: sourceFile}
}

func (r *Resolver) Resolve() (string, error) {
	if q := strings.TrimSpace(r.Override); q != "" {
		return q, nil
	}

	if r.SourceFile != "" {
		data, err := os.ReadFile(r.SourceFile)
		switch {
		case err == nil:
			return strings.TrimSpace(string(data)), nil
		case !errors.Is(err, os.ErrNotExist):
			return "", errors.Wrapf(err, "failed to read query file %s", r.SourceFile)
		}
	}

	return Placeholder, nil
}

// Persist writes query to path as UTF-8 text, creating parent directories,
// and returns the absolute path written.
func Persist(path, query string) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	if err := os.WriteFile(path, []byte(query), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
