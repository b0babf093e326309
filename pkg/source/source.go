// Package source finds configuration files to format.
package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
)

// DefaultExtensions are matched when none are configured.
var DefaultExtensions = []string{".kbd"}

// Collect expands paths into a list of files.
// Supports:
//   - Direct file paths, kept whatever their extension: "keyboard.kbd"
//   - Directory paths, walked recursively: "./configs"
//   - Recursive pattern: "./..." (same as ".")
//
// Inside directories only files with one of exts are collected, and hidden
// directories are skipped. Each file appears once, in walk order.
func Collect(paths []string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		if err := errs.ValidatePath(path); err != nil {
			return nil, err
		}
		if root, ok := strings.CutSuffix(path, "..."); ok {
			path = strings.TrimSuffix(root, "/")
			if path == "" {
				path = "."
			}
		}

		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "%s", path)
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "stat %s", path)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		root := path
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && hasExt(p, exts) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "walking %s", root)
		}
	}
	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
