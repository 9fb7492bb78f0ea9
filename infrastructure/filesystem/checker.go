package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"obs-clipper/domain/clip"
)

// Checker implements clip.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the path exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListFiles returns the names of regular files in dir with the given
// extension (without the dot), sorted lexically. The recording naming
// convention makes lexical order chronological.
func (c *Checker) ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), "."+ext) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// NewestFile returns the lexically last matching filename in dir, which for
// timestamp-named recordings is the most recent one.
func (c *Checker) NewestFile(dir, ext string) (string, error) {
	names, err := c.ListFiles(dir, ext)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no .%s files in %s", ext, dir)
	}
	return names[len(names)-1], nil
}

// Ensure Checker implements clip.FileChecker
var _ clip.FileChecker = (*Checker)(nil)
