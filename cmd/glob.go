// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// scriptExt is the extension of files found by "dir/..." patterns.
const scriptExt = ".dta"

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .dta files found recursively under the given directory. Non-pattern
// arguments pass through unchanged.  Paths matching any of excludes are
// dropped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok || arg == "..." {
			if dir == "" || arg == "..." {
				dir = "."
			}
			files, err := findScriptFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findScriptFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), scriptExt) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes removes paths matching any of the exclude patterns.
func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, path := range paths {
		if !matchesAny(path, excludes) {
			out = append(out, path)
		}
	}
	return out
}

// matchesAny reports whether path matches a pattern as a whole, by its base
// name, or by any of its directory components.
func matchesAny(path string, patterns []string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	components := splitPath(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pattern, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the slash separated components of path.
func splitPath(path string) []string {
	var out []string
	for _, c := range strings.Split(filepath.ToSlash(path), "/") {
		if c != "" && c != "." {
			out = append(out, c)
		}
	}
	return out
}
