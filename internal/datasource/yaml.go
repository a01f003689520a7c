package datasource

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlLoader struct{}

func (yamlLoader) Load(_ context.Context, path string) ([]Item, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data %s: %w", path, err)
	}
	var doc any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	return itemsOf(doc, path)
}
