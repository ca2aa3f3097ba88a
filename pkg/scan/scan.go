package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Options configures Scan.
type Options struct {
	// MaxDepth limits recursion below the root; -1 means unlimited,
	// 0 means no recursion.
	MaxDepth int

	// Extensions lists the file extensions considered convertible.
	// Matching is case-insensitive.
	Extensions []string
}

// DefaultOptions returns the source formats the converter understands.
func DefaultOptions() Options {
	return Options{
		MaxDepth:   -1,
		Extensions: []string{".png", ".jpg", ".jpeg"},
	}
}

// Scan walks fsys below root and returns the slash-separated paths, relative
// to root and sorted, of all convertible image files.
func Scan(fsys fs.FS, root string, opts Options) ([]string, error) {
	if opts.MaxDepth < -1 {
		return nil, fs.ErrInvalid
	}

	exts := normalizeExts(opts.Extensions)

	var matches []string

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if opts.MaxDepth >= 0 && depth(rel) > opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if opts.MaxDepth >= 0 && depth(rel) > opts.MaxDepth {
			return nil
		}

		if !exts[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}

		matches = append(matches, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

func normalizeExts(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		e := strings.TrimSpace(strings.ToLower(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return m
}

func depth(rel string) int {
	rel = filepath.Clean(rel)
	if rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/")
}
