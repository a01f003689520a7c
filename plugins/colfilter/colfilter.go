// Package colfilter filters rows by per-column filter values.
//
// Every column with a filter function and a filter value must match for a
// row to survive. Sub rows are filtered first; a row whose filtered sub rows
// are not empty always survives.
package colfilter

import (
	"maps"
	"strings"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/value"
)

// FilterInput is what a filter function receives for one cell.
type FilterInput struct {
	Value       any
	FilterValue any
}

// FilterFunc reports whether a cell matches its column's filter value.
type FilterFunc func(in FilterInput) bool

// Config configures the plugin.
type Config struct {
	// ServerSide leaves rows untouched; only the filter values are tracked.
	ServerSide bool
}

// ColumnOptions configures one column. Columns without Fn are not filterable.
type ColumnOptions struct {
	Fn                 FilterFunc
	InitialFilterValue any
}

// State is exposed under the plugin's name.
type State[Item any] struct {
	// FilterValues maps column ids to filter values. A nil value disables
	// the column's filter.
	FilterValues    *store.Writable[map[string]any]
	PreFilteredRows store.Readable[[]*model.BodyRow[Item]]
}

// SetFilterValue sets the filter value of one column.
func (s *State[Item]) SetFilterValue(id string, v any) {
	s.FilterValues.Update(func(values map[string]any) map[string]any {
		out := maps.Clone(values)
		if out == nil {
			out = make(map[string]any)
		}
		if v == nil {
			delete(out, id)
		} else {
			out[id] = v
		}
		return out
	})
}

// HeaderCellProps are the props of a filterable header cell.
type HeaderCellProps struct {
	FilterValue       any
	SetFilterValue    func(v any)
	PreFilteredValues []any
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		options, err := table.ColumnOptionsOf[ColumnOptions](init)
		if err != nil {
			return nil, err
		}

		initial := make(map[string]any)
		for id, opts := range options {
			if opts.InitialFilterValue != nil {
				initial[id] = opts.InitialFilterValue
			}
		}
		preFiltered := store.NewRef[[]*model.BodyRow[Item]]()
		state := &State[Item]{
			FilterValues:    store.NewWritable(initial),
			PreFilteredRows: preFiltered,
		}

		return &table.Instance[Item]{
			State: state,
			DeriveRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				preFiltered.Bind(in)
				if cfg.ServerSide {
					return in
				}
				return store.Derive2(in, state.FilterValues, func(rows []*model.BodyRow[Item], values map[string]any) ([]*model.BodyRow[Item], error) {
					return filterRows(rows, values, options), nil
				})
			},
			Hooks: model.Hooks[Item]{
				HeaderCell: func(cell *model.HeaderCell[Item]) model.ElementHook {
					id := cell.ID()
					opts, ok := options[id]
					if cell.Kind != model.DataHeaderCell || !ok || opts.Fn == nil {
						return model.ElementHook{}
					}
					return model.ElementHook{
						Props: store.Derive2(state.FilterValues, preFiltered,
							func(values map[string]any, pre []*model.BodyRow[Item]) (any, error) {
								return HeaderCellProps{
									FilterValue:       values[id],
									SetFilterValue:    func(v any) { state.SetFilterValue(id, v) },
									PreFilteredValues: columnValues(pre, id),
								}, nil
							}),
					}
				},
			},
		}, nil
	}
}

func filterRows[Item any](in []*model.BodyRow[Item], values map[string]any, options map[string]ColumnOptions) []*model.BodyRow[Item] {
	out := make([]*model.BodyRow[Item], 0, len(in))
	for _, row := range in {
		if len(row.SubRows) > 0 {
			subRows := filterRows(row.SubRows, values, options)
			if len(subRows) > 0 {
				out = append(out, row.WithSubRows(subRows))
				continue
			}
		}
		if matches(row, values, options) {
			out = append(out, row)
		}
	}
	return out
}

func matches[Item any](row *model.BodyRow[Item], values map[string]any, options map[string]ColumnOptions) bool {
	for id, filterValue := range values {
		if filterValue == nil {
			continue
		}
		fn := options[id].Fn
		cell, ok := row.CellForID[id]
		if fn == nil || !ok || !cell.IsData() {
			continue
		}
		if !fn(FilterInput{Value: cell.Value, FilterValue: filterValue}) {
			return false
		}
	}
	return true
}

func columnValues[Item any](in []*model.BodyRow[Item], id string) []any {
	out := make([]any, 0, len(in))
	for _, row := range in {
		if cell, ok := row.CellForID[id]; ok && cell.IsData() {
			out = append(out, cell.Value)
		}
	}
	return out
}

// Contains matches when the cell's text contains the filter text, ignoring
// case. An empty filter text matches everything.
func Contains(in FilterInput) bool {
	needle := strings.ToLower(value.String(in.FilterValue))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value.String(in.Value)), needle)
}

// Equal matches when the cell value equals the filter value.
func Equal(in FilterInput) bool {
	cmp, ok := value.Compare(in.Value, in.FilterValue)
	return ok && cmp == 0
}

// Range is the filter value of NumberRange. A nil bound is open.
type Range struct {
	Min, Max *float64
}

// NumberRange matches numeric cells within an inclusive Range. Non-numeric
// cells never match a bounded range.
func NumberRange(in FilterInput) bool {
	r, ok := in.FilterValue.(Range)
	if !ok {
		if p, isPtr := in.FilterValue.(*Range); isPtr && p != nil {
			r = *p
		} else {
			return true
		}
	}
	if r.Min == nil && r.Max == nil {
		return true
	}
	f, ok := value.Float(in.Value)
	if !ok {
		return false
	}
	if r.Min != nil && f < *r.Min {
		return false
	}
	if r.Max != nil && f > *r.Max {
		return false
	}
	return true
}
