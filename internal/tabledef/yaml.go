package tabledef

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/gridview/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads .yaml and .yml definitions.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML definition loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load implements Loader. Unknown keys are errors.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*Model, error) {
	ctxlog.FromContext(ctx).Debug("YAML loader started.", "path", path)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	return decodeYAML(src, path)
}

func decodeYAML(src []byte, filename string) (*Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}
	return &m, nil
}
