package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridview/internal/value"
)

// hclLoader reads "item" blocks. Every attribute of a block is a field:
//
//	item {
//	  name = "Adam"
//	  tags = ["core"]
//	}
type hclLoader struct{}

var itemsSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "item"}},
}

func (hclLoader) Load(_ context.Context, path string) ([]Item, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data %s: %w", path, err)
	}
	file, diags := hclparse.NewParser().ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	content, diags := file.Body.Content(itemsSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	items := make([]Item, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode item in %s: %w", path, diags)
		}
		item := make(Item, len(attrs))
		for name, attr := range attrs {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate %s in %s: %w", name, path, diags)
			}
			conv, err := value.FromCty(v)
			if err != nil {
				return nil, fmt.Errorf("%s: field %s: %w", path, name, err)
			}
			item[name] = conv
		}
		items = append(items, item)
	}
	return items, nil
}
