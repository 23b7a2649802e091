// Package discover finds the two inputs the pipeline needs: Python source
// files to index and Markdown documents to scan. Results are relative to the
// analysis root and sorted, so downstream stages are deterministic regardless
// of filesystem iteration order.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	"vendor":        {},
	"venv":          {},
	"build":         {},
	"dist":          {},
	"egg-info":      {},
	".tox":          {},
	".mypy_cache":   {},
	".pytest_cache": {},
}

// SourceFiles walks the given subdirectories of root (or root itself for ".")
// and returns every Python file, honoring .gitignore when present and
// skipping hidden and build/vendor directories.
func SourceFiles(root string, dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	gi := loadGitignore(root)

	seen := make(map[string]struct{})
	var results []string
	for _, dir := range dirs {
		start := filepath.Join(root, dir)
		info, err := os.Stat(start)
		if err != nil || !info.IsDir() {
			continue // missing source dir is not fatal
		}
		err = filepath.WalkDir(start, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped, never fatal
			}
			name := d.Name()
			if d.IsDir() {
				if path == start {
					return nil
				}
				if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(name, ".py") || strings.HasPrefix(name, ".") {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if gi != nil && gi.MatchesPath(rel) {
				return nil
			}
			if _, dup := seen[rel]; !dup {
				seen[rel] = struct{}{}
				results = append(results, rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover: walk %s: %w", start, err)
		}
	}

	sort.Strings(results)
	return results, nil
}

// DocFiles resolves doc patterns against root. A pattern naming a directory
// recurses to every .md file beneath it; a pattern naming a file takes the
// file as-is; otherwise the pattern is treated as a glob. Patterns that match
// nothing are silently dropped.
func DocFiles(root string, patterns []string) ([]string, error) {
	gi := loadGitignore(root)

	seen := make(map[string]struct{})
	var results []string
	add := func(rel string) {
		rel = filepath.ToSlash(rel)
		if gi != nil && gi.MatchesPath(rel) {
			return
		}
		if _, dup := seen[rel]; !dup {
			seen[rel] = struct{}{}
			results = append(results, rel)
		}
	}

	for _, pat := range patterns {
		full := filepath.Join(root, pat)
		if info, err := os.Stat(full); err == nil {
			if info.IsDir() {
				if err := walkDocs(root, full, add); err != nil {
					return nil, err
				}
			} else {
				add(pat)
			}
			continue
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("discover: bad doc pattern %q: %w", pat, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				continue
			}
			rel, relErr := filepath.Rel(root, m)
			if relErr != nil {
				continue
			}
			if info.IsDir() {
				if err := walkDocs(root, m, add); err != nil {
					return nil, err
				}
			} else {
				add(rel)
			}
		}
	}

	sort.Strings(results)
	return results, nil
}

func walkDocs(root, dir string, add func(string)) error {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".md") {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			add(rel)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("discover: walk docs %s: %w", dir, err)
	}
	return nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
