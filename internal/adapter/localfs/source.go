// Package localfs implements the pipeline's file source over a local
// directory of station files.
package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Source reads station files matching a glob pattern inside one directory.
type Source struct {
	dir     string
	pattern string
}

// New creates a Source for dir. pattern is a filepath.Match glob applied to
// base names; empty means "*".
func New(dir, pattern string) *Source {
	if pattern == "" {
		pattern = "*"
	}
	return &Source{dir: dir, pattern: pattern}
}

// List returns the matching file names (base names, sorted) in the directory.
func (s *Source) List(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, s.pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", s.pattern, err)
	}

	var names []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the raw bytes of one listed file.
func (s *Source) Read(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
}
