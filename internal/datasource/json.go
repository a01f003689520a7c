package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"
)

type jsonLoader struct{}

func (jsonLoader) Load(_ context.Context, path string) ([]Item, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data %s: %w", path, err)
	}
	doc, err := oj.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON file %s: %w", path, err)
	}
	return itemsOf(doc, path)
}
