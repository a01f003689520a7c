package tabledef

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/gridview/internal/ctxlog"
)

// ErrUnsupportedFormat is returned for files whose extension no loader
// understands.
var ErrUnsupportedFormat = errors.New("unsupported definition format")

// Loader is the interface for a format-specific definition loader.
type Loader interface {
	// Load reads the definition at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}

// LoaderFor returns the loader matching the extension of path.
func LoaderFor(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return NewHCLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates the definition at path.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	loader, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	m, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Table definition loaded.", "path", path, "columns", len(m.Columns))
	return m, nil
}
