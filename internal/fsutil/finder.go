// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoExtensions is returned when FindFilesByExtension is called without
// any extension to match.
var ErrNoExtensions = errors.New("no extensions given")

// FindFilesByExtension recursively searches rootPath for files whose name
// ends with one of extensions, compared case-insensitively. The paths are
// returned in lexical order.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		return nil, ErrNoExtensions
	}
	lower := make([]string, len(extensions))
	for i, ext := range extensions {
		lower[i] = strings.ToLower(ext)
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if slices.ContainsFunc(lower, func(ext string) bool { return strings.HasSuffix(name, ext) }) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}
