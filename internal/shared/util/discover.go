package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher filters discovered files against exclusion patterns.
type Matcher struct {
	dirs  []glob.Glob
	files []glob.Glob
}

// NewMatcher compiles the directory and file exclusion patterns.
func NewMatcher(dirPatterns, filePatterns []string) (*Matcher, error) {
	compile := func(patterns []string) ([]glob.Glob, error) {
		out := make([]glob.Glob, 0, len(patterns))
		for _, p := range patterns {
			g, err := glob.Compile(NormalizePatternPath(p), '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
			out = append(out, g)
		}
		return out, nil
	}
	dirs, err := compile(dirPatterns)
	if err != nil {
		return nil, err
	}
	files, err := compile(filePatterns)
	if err != nil {
		return nil, err
	}
	return &Matcher{dirs: dirs, files: files}, nil
}

func (m *Matcher) ExcludeDir(path string) bool  { return match(m.dirs, path) }
func (m *Matcher) ExcludeFile(path string) bool { return match(m.files, path) }

func match(globs []glob.Glob, path string) bool {
	path = NormalizePatternPath(path)
	for _, g := range globs {
		if g.Match(path) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

// DiscoverPython walks the given roots and returns all Python files not
// covered by the matcher, sorted and deduplicated.
func DiscoverPython(roots []string, m *Matcher) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.ToSlash(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", root, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(root, ".py") && !m.ExcludeFile(root) {
				add(root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if m.ExcludeDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".py") && !m.ExcludeFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
