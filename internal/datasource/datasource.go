// Package datasource loads source items from files. Every loader produces
// generic items: maps from field name to plain Go values (strings, int64 or
// float64 numbers, bools, []any and nested maps).
package datasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/gridview/internal/ctxlog"
	"github.com/specialistvlad/gridview/internal/fsutil"
)

// Item is one source record.
type Item = map[string]any

// ErrUnsupportedFormat is returned for files whose extension no loader
// understands.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// Options tune loaders that need more than a path.
type Options struct {
	// Sheet selects the spreadsheet sheet. The first sheet is used when empty.
	Sheet string
}

// Extensions lists the file extensions a loader exists for.
var Extensions = []string{".json", ".yaml", ".yml", ".xlsx", ".hcl"}

// Loader reads items from one file format.
type Loader interface {
	Load(ctx context.Context, path string) ([]Item, error)
}

// LoaderFor returns the loader matching the extension of path.
func LoaderFor(path string, opts Options) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonLoader{}, nil
	case ".yaml", ".yml":
		return yamlLoader{}, nil
	case ".xlsx":
		return xlsxLoader{sheet: opts.Sheet}, nil
	case ".hcl":
		return hclLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads the items stored at path. When path is a directory, every file
// below it with a known extension is loaded in lexical path order and the
// items are concatenated.
func Load(ctx context.Context, path string, opts Options) ([]Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loadDir(ctx, path, opts)
	}
	return loadFile(ctx, path, opts)
}

func loadDir(ctx context.Context, dir string, opts Options) ([]Item, error) {
	files, err := fsutil.FindFilesByExtension(dir, Extensions...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no data files found in %s", ErrUnsupportedFormat, dir)
	}
	var items []Item
	for _, file := range files {
		loaded, err := loadFile(ctx, file, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, loaded...)
	}
	return items, nil
}

func loadFile(ctx context.Context, path string, opts Options) ([]Item, error) {
	loader, err := LoaderFor(path, opts)
	if err != nil {
		return nil, err
	}
	items, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Data loaded.", "path", path, "items", len(items))
	return items, nil
}

// itemsOf converts a decoded document into items. The document must be a
// list of objects.
func itemsOf(doc any, path string) ([]Item, error) {
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list of objects, got %T", path, doc)
	}
	items := make([]Item, len(list))
	for i, el := range list {
		item, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: element %d: expected an object, got %T", path, i, el)
		}
		items[i] = item
	}
	return items, nil
}
