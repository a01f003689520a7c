package app

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/gridview/internal/datasource"
	"github.com/specialistvlad/gridview/internal/filterexpr"
	"github.com/specialistvlad/gridview/internal/keypath"
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/tabledef"
	"github.com/specialistvlad/gridview/internal/value"
	"github.com/specialistvlad/gridview/plugins/colfilter"
	"github.com/specialistvlad/gridview/plugins/colorder"
	"github.com/specialistvlad/gridview/plugins/expand"
	"github.com/specialistvlad/gridview/plugins/exprfilter"
	"github.com/specialistvlad/gridview/plugins/groupby"
	"github.com/specialistvlad/gridview/plugins/hidecols"
	"github.com/specialistvlad/gridview/plugins/paginate"
	"github.com/specialistvlad/gridview/plugins/selection"
	"github.com/specialistvlad/gridview/plugins/sortby"
	"github.com/specialistvlad/gridview/plugins/subrows"
	"github.com/specialistvlad/gridview/plugins/tablefilter"
)

// Item is the item type of every table the app builds.
type Item = datasource.Item

// Plugin names. Column option bags are keyed by the same names.
const (
	PluginHide      = "hide"
	PluginOrder     = "order"
	PluginSubRows   = "subRows"
	PluginColFilter = "colFilter"
	PluginFilter    = "filter"
	PluginSearch    = "search"
	PluginGroup     = "group"
	PluginSort      = "sort"
	PluginExpand    = "expand"
	PluginSelect    = "select"
	PluginPage      = "page"
)

// Build translates def into columns and table options. Overrides from cfg
// replace what def declares. Plugins are registered in pipeline order:
// column transforms, sub rows, filters, grouping, sorting, expansion,
// selection and pagination last.
func Build(def *tabledef.Model, cfg *Config) ([]model.Column[Item], []table.Option[Item], error) {
	columns, err := buildColumns(def.Columns)
	if err != nil {
		return nil, nil, err
	}

	var opts []table.Option[Item]
	if def.RowID != "" {
		path, err := keypath.Parse(def.RowID)
		if err != nil {
			return nil, nil, fmt.Errorf("row_id: %w", err)
		}
		opts = append(opts, table.WithRowDataID(func(item Item, index int) string {
			if v := path.Get(item); v != nil {
				return value.String(v)
			}
			return strconv.Itoa(index)
		}))
	}

	if len(def.Hide) > 0 {
		opts = append(opts, table.WithPlugin(PluginHide, hidecols.New[Item](hidecols.Config{InitialHiddenColumnIDs: def.Hide})))
	}
	if def.Order != nil {
		opts = append(opts, table.WithPlugin(PluginOrder, colorder.New[Item](colorder.Config{
			InitialColumnIDOrder:   def.Order.Columns,
			HideUnspecifiedColumns: def.Order.HideUnspecified,
		})))
	}
	if def.SubRows != nil {
		opts = append(opts, table.WithPlugin(PluginSubRows, subrows.New(subrows.Config[Item]{ChildrenKey: def.SubRows.Key})))
	}

	opts = append(opts, table.WithPlugin(PluginColFilter, colfilter.New[Item](colfilter.Config{})))

	expression := cfg.Filter
	if expression == "" && def.Filter != nil {
		expression = def.Filter.Expression
	}
	opts = append(opts, table.WithPlugin(PluginFilter, exprfilter.New[Item](exprfilter.Config{InitialExpression: expression})))

	search := tablefilter.Config{InitialFilterValue: cfg.Search}
	if def.Search != nil {
		search.IncludeHiddenColumns = def.Search.IncludeHidden
		if search.InitialFilterValue == "" {
			search.InitialFilterValue = def.Search.Value
		}
	}
	if search.InitialFilterValue != "" {
		opts = append(opts, table.WithPlugin(PluginSearch, tablefilter.New[Item](search)))
	}

	group := groupby.Config{InitialGroupByIDs: cfg.Group}
	if def.Group != nil {
		group.DisableMultiGroup = def.Group.DisableMulti
		if len(group.InitialGroupByIDs) == 0 {
			group.InitialGroupByIDs = def.Group.By
		}
	}
	opts = append(opts, table.WithPlugin(PluginGroup, groupby.New[Item](group)))

	sort := sortby.Config{}
	orderBy := cfg.Sort
	if def.Sort != nil {
		sort.Locale = def.Sort.Locale
		if orderBy == "" {
			orderBy = def.Sort.By
		}
	}
	if orderBy != "" {
		keys, err := sortby.ParseSortKeys(orderBy)
		if err != nil {
			return nil, nil, err
		}
		sort.InitialSortKeys = keys
	}
	opts = append(opts, table.WithPlugin(PluginSort, sortby.New[Item](sort)))

	if def.SubRows != nil {
		opts = append(opts, table.WithPlugin(PluginExpand, expand.New[Item](expand.Config{InitialExpandedIDs: def.SubRows.Expanded})))
	}

	sel := selection.Config{}
	if def.Select != nil {
		sel.InitialSelectedDataIDs = def.Select.DataIDs
		sel.LinkDataSubRows = def.Select.LinkDataSubRows
	}
	opts = append(opts, table.WithPlugin(PluginSelect, selection.New[Item](sel)))

	if page, ok := pageConfig(def.Paginate, cfg); ok {
		opts = append(opts, table.WithPlugin(PluginPage, paginate.New[Item](page)))
	}
	return columns, opts, nil
}

// pageConfig reports whether pagination is enabled, by the definition or
// by an override.
func pageConfig(def *tabledef.PaginateDef, cfg *Config) (paginate.Config, bool) {
	var page paginate.Config
	enabled := def != nil || cfg.Page != nil || cfg.PageSize != nil
	if def != nil {
		page.InitialPageSize = def.Size
		page.InitialPageIndex = def.Index
	}
	if cfg.PageSize != nil {
		page.InitialPageSize = *cfg.PageSize
	}
	if cfg.Page != nil {
		page.InitialPageIndex = *cfg.Page
	}
	return page, enabled
}

func buildColumns(defs []*tabledef.Column) ([]model.Column[Item], error) {
	out := make([]model.Column[Item], 0, len(defs))
	for _, def := range defs {
		switch {
		case def.IsGroup():
			children, err := buildColumns(def.Columns)
			if err != nil {
				return nil, err
			}
			out = append(out, &model.GroupColumn[Item]{Header: def.Header, Footer: def.Footer, Columns: children})
		case def.Display:
			out = append(out, &model.DisplayColumn[Item]{ID: def.ID, Header: def.Header, Footer: def.Footer})
		default:
			col, err := buildDataColumn(def)
			if err != nil {
				return nil, err
			}
			out = append(out, col)
		}
	}
	return out, nil
}

func buildDataColumn(def *tabledef.Column) (*model.DataColumn[Item], error) {
	accessor := def.Accessor
	if accessor == "" {
		accessor = def.ID
	}
	aggregate, err := aggregateFunc(def.Aggregate)
	if err != nil {
		return nil, fmt.Errorf("column '%s': %w", def.LeafID(), err)
	}

	plugins := map[string]any{
		PluginSort:   sortby.ColumnOptions{Disable: def.DisableSort},
		PluginFilter: exprfilter.ColumnOptions{Type: filterexpr.Type(def.Type)},
		PluginGroup:  groupby.ColumnOptions[Item]{Disable: def.DisableGroup, GetAggregateValue: aggregate},
		PluginSearch: tablefilter.ColumnOptions{Exclude: def.Searchable != nil && !*def.Searchable},
	}
	if def.Filter != "" {
		opts, err := colFilterOptions(def)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", def.LeafID(), err)
		}
		plugins[PluginColFilter] = opts
	}

	return &model.DataColumn[Item]{
		ID:       def.ID,
		Header:   def.Header,
		Footer:   def.Footer,
		Accessor: accessor,
		Plugins:  plugins,
	}, nil
}

func colFilterOptions(def *tabledef.Column) (colfilter.ColumnOptions, error) {
	switch def.Filter {
	case "contains":
		return colfilter.ColumnOptions{Fn: colfilter.Contains, InitialFilterValue: def.FilterValue}, nil
	case "equal":
		return colfilter.ColumnOptions{Fn: colfilter.Equal, InitialFilterValue: def.FilterValue}, nil
	case "range":
		r, err := rangeOf(def.FilterValue)
		if err != nil {
			return colfilter.ColumnOptions{}, err
		}
		return colfilter.ColumnOptions{Fn: colfilter.NumberRange, InitialFilterValue: r}, nil
	default:
		return colfilter.ColumnOptions{}, fmt.Errorf("unknown filter '%s'", def.Filter)
	}
}

// rangeOf reads a {min, max} object. Missing bounds are open.
func rangeOf(v any) (colfilter.Range, error) {
	var r colfilter.Range
	if v == nil {
		return r, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return r, fmt.Errorf("range filter value must be an object with min and max, got %T", v)
	}
	for key, bound := range map[string]**float64{"min": &r.Min, "max": &r.Max} {
		raw, present := obj[key]
		if !present {
			continue
		}
		f, ok := value.Float(raw)
		if !ok {
			return r, fmt.Errorf("range %s must be a number, got %T", key, raw)
		}
		*bound = &f
	}
	return r, nil
}
