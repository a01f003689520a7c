package tabledef

// Model is the format-agnostic representation of a table definition: the
// column tree and the initial state of every plugin it enables.
type Model struct {
	Columns []*Column `yaml:"columns"`
	// RowID is a key path read from every item as its data id.
	RowID    string       `yaml:"row_id"`
	Sort     *SortDef     `yaml:"sort"`
	Filter   *FilterDef   `yaml:"filter"`
	Search   *SearchDef   `yaml:"search"`
	Group    *GroupDef    `yaml:"group"`
	SubRows  *SubRowsDef  `yaml:"sub_rows"`
	Hide     []string     `yaml:"hide"`
	Order    *OrderDef    `yaml:"order"`
	Paginate *PaginateDef `yaml:"paginate"`
	Select   *SelectDef   `yaml:"select"`
}

// Column is one node of the column tree. A column with children is a group
// column; a column with Display set is a display column; any other column
// is a data column reading Accessor, or its ID when Accessor is empty.
type Column struct {
	ID       string    `yaml:"id"`
	Header   string    `yaml:"header"`
	Footer   string    `yaml:"footer"`
	Accessor string    `yaml:"accessor"`
	Display  bool      `yaml:"display"`
	Columns  []*Column `yaml:"columns"`

	// Type is the filter expression type: string, int, float, bool or
	// timestamp.
	Type string `yaml:"type"`
	// Filter names the column filter function: contains, equal or range.
	Filter      string `yaml:"filter"`
	FilterValue any    `yaml:"filter_value"`
	// Aggregate names the group aggregate: count, sum, min, max or first.
	Aggregate    string `yaml:"aggregate"`
	DisableSort  bool   `yaml:"disable_sort"`
	DisableGroup bool   `yaml:"disable_group"`
	// Searchable set to false excludes the column from the table search.
	Searchable *bool `yaml:"searchable"`
}

// IsGroup reports whether c has child columns.
func (c *Column) IsGroup() bool { return len(c.Columns) > 0 }

// SortDef holds the initial sort keys in order-by syntax, e.g. "name desc, age".
type SortDef struct {
	By     string `yaml:"by"`
	Locale string `yaml:"locale"`
}

// FilterDef holds the initial filter expression.
type FilterDef struct {
	Expression string `yaml:"expression"`
}

// SearchDef configures the table search.
type SearchDef struct {
	Value         string `yaml:"value"`
	IncludeHidden bool   `yaml:"include_hidden"`
}

// GroupDef holds the initial grouping.
type GroupDef struct {
	By           []string `yaml:"by"`
	DisableMulti bool     `yaml:"disable_multi"`
}

// SubRowsDef names the key path holding child items.
type SubRowsDef struct {
	Key       string   `yaml:"key"`
	Expanded  []string `yaml:"expanded"`
	ExpandAll bool     `yaml:"expand_all"`
}

// OrderDef holds the initial leaf column order.
type OrderDef struct {
	Columns         []string `yaml:"columns"`
	HideUnspecified bool     `yaml:"hide_unspecified"`
}

// PaginateDef holds the initial page.
type PaginateDef struct {
	Size  int `yaml:"size"`
	Index int `yaml:"index"`
}

// SelectDef holds the initially selected data ids.
type SelectDef struct {
	DataIDs         []string `yaml:"data_ids"`
	LinkDataSubRows bool     `yaml:"link_data_sub_rows"`
}
