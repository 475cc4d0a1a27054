package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct {
	root string
}

// NewDefaultPathManager creates a new path manager rooted at root, "results" when empty
func NewDefaultPathManager(root string) *DefaultPathManager {
	if root == "" {
		root = "results"
	}
	return &DefaultPathManager{root: root}
}

// GetDefaultOutputDir returns the output directory for a target and operator pair
func (p *DefaultPathManager) GetDefaultOutputDir(target string, crossover, mutation string) string {
	slug := slugify(target)
	if slug == "" {
		slug = "unknown"
	}
	c := strings.ToLower(strings.TrimSpace(crossover))
	m := strings.ToLower(strings.TrimSpace(mutation))
	if c == "" {
		c = "unknown"
	}
	if m == "" {
		m = "unknown"
	}

	return filepath.Join(p.root, fmt.Sprintf("%s_%s_%s", slug, c, m))
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Package-level convenience function
func DefaultOutputDir(root, target, crossover, mutation string) string {
	return NewDefaultPathManager(root).GetDefaultOutputDir(target, crossover, mutation)
}
