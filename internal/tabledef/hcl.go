package tabledef

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridview/internal/ctxlog"
	"github.com/specialistvlad/gridview/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// HCLLoader reads .hcl definitions.
//
// Columns are declared with "column", "display" and nested "group" blocks,
// in display order. Plugins are enabled by their blocks:
//
//	column "name" { header = "Name" }
//	group "Info" {
//	  column "age" { aggregate = "sum" }
//	}
//	sort { by = "name desc" }
//	paginate { size = 20 }
type HCLLoader struct{}

// NewHCLLoader creates a new HCL definition loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

// hclColumn is the body of a "column" block.
type hclColumn struct {
	Header       string    `hcl:"header,optional"`
	Footer       string    `hcl:"footer,optional"`
	Accessor     string    `hcl:"accessor,optional"`
	Type         string    `hcl:"type,optional"`
	Filter       string    `hcl:"filter,optional"`
	FilterValue  cty.Value `hcl:"filter_value,optional"`
	Aggregate    string    `hcl:"aggregate,optional"`
	DisableSort  bool      `hcl:"disable_sort,optional"`
	DisableGroup bool      `hcl:"disable_group,optional"`
	Searchable   *bool     `hcl:"searchable,optional"`
}

// hclDisplay is the body of a "display" block.
type hclDisplay struct {
	Header string `hcl:"header,optional"`
	Footer string `hcl:"footer,optional"`
}

// hclSort and the other plugin bodies mirror their model counterparts.
type hclSort struct {
	By     string `hcl:"by,optional"`
	Locale string `hcl:"locale,optional"`
}

type hclFilter struct {
	Expression string `hcl:"expression,optional"`
}

type hclSearch struct {
	Value         string `hcl:"value,optional"`
	IncludeHidden bool   `hcl:"include_hidden,optional"`
}

type hclGroupBy struct {
	By           []string `hcl:"by,optional"`
	DisableMulti bool     `hcl:"disable_multi,optional"`
}

type hclSubRows struct {
	Key       string   `hcl:"key"`
	Expanded  []string `hcl:"expanded,optional"`
	ExpandAll bool     `hcl:"expand_all,optional"`
}

type hclOrder struct {
	Columns         []string `hcl:"columns"`
	HideUnspecified bool     `hcl:"hide_unspecified,optional"`
}

type hclPaginate struct {
	Size  int `hcl:"size,optional"`
	Index int `hcl:"index,optional"`
}

type hclSelect struct {
	DataIDs         []string `hcl:"data_ids,optional"`
	LinkDataSubRows bool     `hcl:"link_data_sub_rows,optional"`
}

var columnBlocks = []hcl.BlockHeaderSchema{
	{Type: "column", LabelNames: []string{"id"}},
	{Type: "display", LabelNames: []string{"id"}},
	{Type: "group", LabelNames: []string{"header"}},
}

var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "row_id"},
		{Name: "hide"},
	},
	Blocks: append(append([]hcl.BlockHeaderSchema{}, columnBlocks...),
		hcl.BlockHeaderSchema{Type: "sort"},
		hcl.BlockHeaderSchema{Type: "filter"},
		hcl.BlockHeaderSchema{Type: "search"},
		hcl.BlockHeaderSchema{Type: "group_by"},
		hcl.BlockHeaderSchema{Type: "sub_rows"},
		hcl.BlockHeaderSchema{Type: "order"},
		hcl.BlockHeaderSchema{Type: "paginate"},
		hcl.BlockHeaderSchema{Type: "select"},
	),
}

var groupSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: "footer"}},
	Blocks:     columnBlocks,
}

// Load implements Loader.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Model, error) {
	ctxlog.FromContext(ctx).Debug("HCL loader started.", "path", path)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	return decodeHCL(ctx, src, path)
}

func decodeHCL(ctx context.Context, src []byte, filename string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	m := &Model{}
	if attr, ok := content.Attributes["row_id"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &m.RowID)...)
	}
	if attr, ok := content.Attributes["hide"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &m.Hide)...)
	}

	cols, colDiags := translateColumns(content.Blocks)
	diags = append(diags, colDiags...)
	m.Columns = cols

	var sort hclSort
	if decodeUnique(content.Blocks, "sort", &sort, &diags) {
		m.Sort = &SortDef{By: sort.By, Locale: sort.Locale}
	}
	var filter hclFilter
	if decodeUnique(content.Blocks, "filter", &filter, &diags) {
		m.Filter = &FilterDef{Expression: filter.Expression}
	}
	var search hclSearch
	if decodeUnique(content.Blocks, "search", &search, &diags) {
		m.Search = &SearchDef{Value: search.Value, IncludeHidden: search.IncludeHidden}
	}
	var group hclGroupBy
	if decodeUnique(content.Blocks, "group_by", &group, &diags) {
		m.Group = &GroupDef{By: group.By, DisableMulti: group.DisableMulti}
	}
	var sub hclSubRows
	if decodeUnique(content.Blocks, "sub_rows", &sub, &diags) {
		m.SubRows = &SubRowsDef{Key: sub.Key, Expanded: sub.Expanded, ExpandAll: sub.ExpandAll}
	}
	var order hclOrder
	if decodeUnique(content.Blocks, "order", &order, &diags) {
		m.Order = &OrderDef{Columns: order.Columns, HideUnspecified: order.HideUnspecified}
	}
	var page hclPaginate
	if decodeUnique(content.Blocks, "paginate", &page, &diags) {
		m.Paginate = &PaginateDef{Size: page.Size, Index: page.Index}
	}
	var sel hclSelect
	if decodeUnique(content.Blocks, "select", &sel, &diags) {
		m.Select = &SelectDef{DataIDs: sel.DataIDs, LinkDataSubRows: sel.LinkDataSubRows}
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	logger.Debug("HCL definition translated.", "columns", len(m.Columns))
	return m, nil
}

// translateColumns converts column, display and group blocks into columns,
// keeping their source order. Other blocks are skipped.
func translateColumns(blocks hcl.Blocks) ([]*Column, hcl.Diagnostics) {
	var out []*Column
	var diags hcl.Diagnostics
	for _, block := range blocks {
		switch block.Type {
		case "column":
			var body hclColumn
			if ds := gohcl.DecodeBody(block.Body, nil, &body); ds.HasErrors() {
				diags = append(diags, ds...)
				continue
			}
			filterValue, err := value.FromCty(body.FilterValue)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid filter_value",
					Detail:   err.Error(),
					Subject:  &block.DefRange,
				})
			}
			out = append(out, &Column{
				ID:           block.Labels[0],
				Header:       body.Header,
				Footer:       body.Footer,
				Accessor:     body.Accessor,
				Type:         body.Type,
				Filter:       body.Filter,
				FilterValue:  filterValue,
				Aggregate:    body.Aggregate,
				DisableSort:  body.DisableSort,
				DisableGroup: body.DisableGroup,
				Searchable:   body.Searchable,
			})
		case "display":
			var body hclDisplay
			diags = append(diags, gohcl.DecodeBody(block.Body, nil, &body)...)
			out = append(out, &Column{ID: block.Labels[0], Header: body.Header, Footer: body.Footer, Display: true})
		case "group":
			content, ds := block.Body.Content(groupSchema)
			diags = append(diags, ds...)
			if ds.HasErrors() {
				continue
			}
			group := &Column{Header: block.Labels[0]}
			if attr, ok := content.Attributes["footer"]; ok {
				diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &group.Footer)...)
			}
			children, ds := translateColumns(content.Blocks)
			diags = append(diags, ds...)
			if len(children) == 0 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Empty group",
					Detail:   fmt.Sprintf("Group %q declares no columns.", block.Labels[0]),
					Subject:  &block.DefRange,
				})
			}
			group.Columns = children
			out = append(out, group)
		}
	}
	return out, diags
}

// decodeUnique decodes the only block of the given type into target and
// reports whether one was found.
func decodeUnique(blocks hcl.Blocks, name string, target any, diags *hcl.Diagnostics) bool {
	block, ds := findUniqueBlock(blocks, name)
	*diags = append(*diags, ds...)
	if block == nil {
		return false
	}
	*diags = append(*diags, gohcl.DecodeBody(block.Body, nil, target)...)
	return true
}

// findUniqueBlock returns the block of the given type, with an error
// diagnostic when there is more than one. It returns nil when there is none.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics
	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed.",
				Subject:  &block.DefRange,
			})
		}
		found = block
	}
	return found, diags
}
