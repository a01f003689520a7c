// Package tablefilter filters rows by one filter value matched against every
// data cell of a row.
package tablefilter

import (
	"slices"
	"strings"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/value"
)

// FilterInput is what a filter function receives for one cell.
type FilterInput struct {
	FilterValue string
	Value       string
}

// FilterFunc reports whether a cell's text matches the filter value.
type FilterFunc func(in FilterInput) bool

// Contains is the default FilterFunc: a case-insensitive substring match. An
// empty filter value matches everything.
func Contains(in FilterInput) bool {
	if in.FilterValue == "" {
		return true
	}
	return strings.Contains(strings.ToLower(in.Value), strings.ToLower(in.FilterValue))
}

// Config configures the plugin.
type Config struct {
	Fn                 FilterFunc
	InitialFilterValue string
	// IncludeHiddenColumns matches cells of hidden columns too.
	IncludeHiddenColumns bool
	// ServerSide leaves rows untouched; only the filter value is tracked.
	ServerSide bool
}

// ColumnOptions configures one column.
type ColumnOptions struct {
	// Exclude keeps the column out of matching.
	Exclude bool
	// GetFilterValue maps a cell value to the text matched. Defaults to the
	// value's string form.
	GetFilterValue func(value any) string
}

// State is exposed under the plugin's name.
type State[Item any] struct {
	FilterValue     *store.Writable[string]
	PreFilteredRows store.Readable[[]*model.BodyRow[Item]]
}

// BodyCellProps are the props of a body cell.
type BodyCellProps struct {
	// Matches reports whether this cell made its row survive a non-empty
	// filter.
	Matches bool
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		options, err := table.ColumnOptionsOf[ColumnOptions](init)
		if err != nil {
			return nil, err
		}
		fn := cfg.Fn
		if fn == nil {
			fn = Contains
		}

		preFiltered := store.NewRef[[]*model.BodyRow[Item]]()
		state := &State[Item]{
			FilterValue:     store.NewWritable(cfg.InitialFilterValue),
			PreFilteredRows: preFiltered,
		}
		// matches holds the cell ids that matched during the last filter run.
		matches := store.NewWritable(map[string]bool{})
		f := &filter[Item]{fn: fn, options: options, includeHidden: cfg.IncludeHiddenColumns}

		return &table.Instance[Item]{
			State: state,
			DeriveRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				preFiltered.Bind(in)
				if cfg.ServerSide {
					return in
				}
				return store.Derive2(in, state.FilterValue, func(rows []*model.BodyRow[Item], filterValue string) ([]*model.BodyRow[Item], error) {
					hits := make(map[string]bool)
					out := f.rows(rows, filterValue, hits)
					matches.Set(hits)
					return out, nil
				})
			},
			Hooks: model.Hooks[Item]{
				BodyCell: func(cell *model.BodyCell[Item]) model.ElementHook {
					key := matchKey(cell.Row.DataID, cell.ColumnID())
					return model.ElementHook{
						Props: store.Derive2(state.FilterValue, matches, func(filterValue string, hits map[string]bool) (any, error) {
							return BodyCellProps{Matches: filterValue != "" && hits[key]}, nil
						}),
					}
				},
			},
		}, nil
	}
}

func matchKey(dataID, columnID string) string {
	return dataID + ":" + columnID
}

type filter[Item any] struct {
	fn            FilterFunc
	options       map[string]ColumnOptions
	includeHidden bool
}

func (f *filter[Item]) rows(in []*model.BodyRow[Item], filterValue string, hits map[string]bool) []*model.BodyRow[Item] {
	out := make([]*model.BodyRow[Item], 0, len(in))
	for _, row := range in {
		if len(row.SubRows) > 0 {
			subRows := f.rows(row.SubRows, filterValue, hits)
			if len(subRows) > 0 {
				out = append(out, row.WithSubRows(subRows))
				continue
			}
		}
		if f.match(row, filterValue, hits) {
			out = append(out, row)
		}
	}
	return out
}

// match checks every candidate cell so that hits records all matching cells,
// not only the first.
func (f *filter[Item]) match(row *model.BodyRow[Item], filterValue string, hits map[string]bool) bool {
	matched := false
	for _, cell := range f.candidates(row) {
		if !cell.IsData() {
			continue
		}
		opts := f.options[cell.ColumnID()]
		if opts.Exclude {
			continue
		}
		text := value.String(cell.Value)
		if opts.GetFilterValue != nil {
			text = opts.GetFilterValue(cell.Value)
		}
		if f.fn(FilterInput{FilterValue: filterValue, Value: text}) {
			hits[matchKey(row.DataID, cell.ColumnID())] = true
			matched = true
		}
	}
	return matched
}

// candidates returns the visible cells of row, followed by the hidden ones
// in column id order when hidden columns are included.
func (f *filter[Item]) candidates(row *model.BodyRow[Item]) []*model.BodyCell[Item] {
	if !f.includeHidden {
		return row.Cells
	}
	visible := make(map[string]bool, len(row.Cells))
	for _, cell := range row.Cells {
		visible[cell.ColumnID()] = true
	}
	var hidden []string
	for id := range row.CellForID {
		if !visible[id] {
			hidden = append(hidden, id)
		}
	}
	slices.Sort(hidden)

	out := slices.Clone(row.Cells)
	for _, id := range hidden {
		out = append(out, row.CellForID[id])
	}
	return out
}
