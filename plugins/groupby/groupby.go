// Package groupby partitions rows into synthetic group rows by the values of
// one or more columns.
//
// Each distinct key produces one display row holding the member rows as sub
// rows. Group rows are numbered from zero at their own level; member ids are
// prefixed with their group row id and their depth grows by one, so cell ids
// of member rows change whenever grouping changes.
package groupby

import (
	"math"
	"slices"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/rows"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/value"
)

// Config configures the plugin.
type Config struct {
	InitialGroupByIDs []string
	// DisableMultiGroup makes every toggle replace the grouping.
	DisableMultiGroup bool
}

// ColumnOptions configures one column.
type ColumnOptions[Item any] struct {
	Disable bool
	// GetGroupOn maps a cell value to its group key. Columns holding
	// composite values must set it.
	GetGroupOn func(value any) any
	// GetAggregateValue reduces the member values of a column to the value
	// of the group row's cell. Without it the cell is blank.
	GetAggregateValue func(values []any) any
	// Cell renders the cells of group rows.
	Cell model.CellLabelFunc[Item]
}

// GroupByIDs is the ordered list of grouped column ids.
type GroupByIDs struct {
	*store.Writable[[]string]
	disableMulti bool
}

// Grouped reports whether id is grouped.
func (g *GroupByIDs) Grouped(id string) bool {
	return slices.Contains(g.Value(), id)
}

// Toggle groups or ungroups id. Without multi, or with multi grouping
// disabled, the result holds at most id.
func (g *GroupByIDs) Toggle(id string, multi bool) {
	g.Update(func(ids []string) []string {
		grouped := slices.Contains(ids, id)
		if !multi || g.disableMulti {
			if grouped {
				return []string{}
			}
			return []string{id}
		}
		if grouped {
			return slices.DeleteFunc(slices.Clone(ids), func(x string) bool { return x == id })
		}
		return append(slices.Clone(ids), id)
	})
}

// Clear ungroups id.
func (g *GroupByIDs) Clear(id string) {
	g.Update(func(ids []string) []string {
		return slices.DeleteFunc(slices.Clone(ids), func(x string) bool { return x == id })
	})
}

// State is exposed under the plugin's name.
type State[Item any] struct {
	GroupByIDs       *GroupByIDs
	PreGroupedRows   store.Readable[[]*model.BodyRow[Item]]
	GroupedCellIDs   store.Readable[map[string]bool]
	AggregateCellIDs store.Readable[map[string]bool]
	RepeatCellIDs    store.Readable[map[string]bool]
}

// HeaderCellProps are the props of a header cell.
type HeaderCellProps struct {
	Grouped  bool
	Disabled bool
	Toggle   func(multi bool)
	Clear    func()
}

// BodyCellProps are the props of a body cell.
type BodyCellProps struct {
	// Grouped marks the key cell of a group row.
	Grouped bool
	// Aggregated marks the other data cells of a group row.
	Aggregated bool
	// Repeated marks member cells of a grouped column, whose value repeats
	// the key of their group.
	Repeated bool
}

type cellSets struct {
	grouped, aggregated, repeated map[string]bool
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		options, err := table.ColumnOptionsOf[ColumnOptions[Item]](init)
		if err != nil {
			return nil, err
		}
		flat := store.MustGet(init.State.FlatColumns)

		groupByIDs := &GroupByIDs{
			Writable:     store.NewWritable(slices.Clone(cfg.InitialGroupByIDs)),
			disableMulti: cfg.DisableMultiGroup,
		}
		preGrouped := store.NewRef[[]*model.BodyRow[Item]]()
		sets := store.NewWritable(cellSets{})
		state := &State[Item]{
			GroupByIDs:       groupByIDs,
			PreGroupedRows:   preGrouped,
			GroupedCellIDs:   store.Map(sets, func(s cellSets) map[string]bool { return s.grouped }),
			AggregateCellIDs: store.Map(sets, func(s cellSets) map[string]bool { return s.aggregated }),
			RepeatCellIDs:    store.Map(sets, func(s cellSets) map[string]bool { return s.repeated }),
		}
		g := &grouper[Item]{options: options}

		return &table.Instance[Item]{
			State: state,
			DeriveRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				preGrouped.Bind(in)
				return store.Derive2(in, groupByIDs.Writable, func(rs []*model.BodyRow[Item], ids []string) ([]*model.BodyRow[Item], error) {
					var usable []string
					for _, id := range ids {
						c, ok := model.FindColumn(flat, id)
						if !ok || c.Kind() != model.DataColumnKind {
							init.Logger.Warn("Ignoring group key that is not a data column.", "id", id)
							continue
						}
						usable = append(usable, id)
					}
					out, err := g.group(rs, usable)
					if err != nil {
						return nil, err
					}
					sets.Set(collectCellSets(out, usable))
					return out, nil
				})
			},
			Hooks: model.Hooks[Item]{
				HeaderCell: func(cell *model.HeaderCell[Item]) model.ElementHook {
					id := cell.ID()
					disabled := cell.Kind != model.DataHeaderCell || options[id].Disable
					return model.ElementHook{
						Props: store.Map(groupByIDs.Writable, func(ids []string) any {
							props := HeaderCellProps{
								Disabled: disabled,
								Toggle:   func(bool) {},
								Clear:    func() {},
							}
							if disabled {
								return props
							}
							props.Grouped = slices.Contains(ids, id)
							props.Toggle = func(multi bool) { groupByIDs.Toggle(id, multi) }
							props.Clear = func() { groupByIDs.Clear(id) }
							return props
						}),
					}
				},
				BodyCell: func(cell *model.BodyCell[Item]) model.ElementHook {
					id := cell.ID()
					return model.ElementHook{
						Props: store.Map(sets, func(s cellSets) any {
							return BodyCellProps{
								Grouped:    s.grouped[id],
								Aggregated: s.aggregated[id],
								Repeated:   s.repeated[id],
							}
						}),
					}
				},
			},
		}, nil
	}
}

// nanKey stands in for NaN group keys, which never equal themselves.
type nanKey struct{}

func memberKey(key any) any {
	switch v := key.(type) {
	case float64:
		if math.IsNaN(v) {
			return nanKey{}
		}
	case float32:
		if math.IsNaN(float64(v)) {
			return nanKey{}
		}
	}
	return key
}

type grouper[Item any] struct {
	options map[string]ColumnOptions[Item]
}

// group groups in by ids[0], then groups the members of every group by the
// remaining ids.
func (g *grouper[Item]) group(in []*model.BodyRow[Item], ids []string) ([]*model.BodyRow[Item], error) {
	if len(ids) == 0 || len(in) == 0 {
		return in, nil
	}
	id, rest := ids[0], ids[1:]
	opts := g.options[id]

	var keys []any
	members := make(map[any][]*model.BodyRow[Item])
	for _, row := range in {
		var key any
		if cell, ok := row.CellForID[id]; ok && cell.IsData() {
			key = cell.Value
		}
		if opts.GetGroupOn != nil {
			key = opts.GetGroupOn(key)
		}
		if !value.IsPrimitive(key) {
			return nil, model.ConfigErrorf("groupby", "%w: column %q, row %s holds %T; set GetGroupOn",
				model.ErrNonPrimitiveGroupKey, id, row.ID, key)
		}
		mk := memberKey(key)
		if _, seen := members[mk]; !seen {
			keys = append(keys, key)
		}
		members[mk] = append(members[mk], row)
	}

	out := make([]*model.BodyRow[Item], len(keys))
	for i, key := range keys {
		group := members[memberKey(key)]
		groupRow := g.groupRow(model.RootRowID(i), id, key, group)
		subRows, err := g.group(group, rest)
		if err != nil {
			return nil, err
		}
		children := make([]*model.BodyRow[Item], len(subRows))
		for j, sub := range subRows {
			children[j] = rebase(sub, groupRow.ID, groupRow)
		}
		groupRow.SubRows = children
		out[i] = groupRow
	}
	return out, nil
}

// groupRow builds the display row of one group. Its cells follow the
// layout of the first member: the grouped column holds the key, other data
// columns an aggregate of the member values, display columns a copy of the
// member's cell.
func (g *grouper[Item]) groupRow(id, groupID string, key any, members []*model.BodyRow[Item]) *model.BodyRow[Item] {
	first := members[0]
	row := &model.BodyRow[Item]{
		Kind:      model.DisplayRow,
		ID:        id,
		Depth:     first.Depth,
		Parent:    first.Parent,
		CellForID: make(map[string]*model.BodyCell[Item], len(first.CellForID)),
	}

	for columnID, memberCell := range first.CellForID {
		if !memberCell.IsData() {
			row.CellForID[columnID] = memberCell.Clone(row)
			continue
		}
		opts := g.options[columnID]
		cell := &model.BodyCell[Item]{Kind: model.DataCell, Row: row, Column: memberCell.Column, Label: opts.Cell}
		switch {
		case columnID == groupID:
			cell.Value = key
		case opts.GetAggregateValue != nil:
			values := make([]any, 0, len(members))
			for _, m := range members {
				if c, ok := m.CellForID[columnID]; ok {
					values = append(values, c.Value)
				}
			}
			cell.Value = opts.GetAggregateValue(values)
		default:
			cell.Value = ""
		}
		row.CellForID[columnID] = cell
	}

	row.Cells = make([]*model.BodyCell[Item], 0, len(first.Cells))
	for _, columnID := range rows.CellColumnIDs(first) {
		if cell, ok := row.CellForID[columnID]; ok {
			row.Cells = append(row.Cells, cell)
		}
	}
	return row
}

// rebase clones the subtree of row with every id prefixed and every depth
// incremented.
func rebase[Item any](row *model.BodyRow[Item], prefix string, parent *model.BodyRow[Item]) *model.BodyRow[Item] {
	clone := row.WithSubRows(nil)
	clone.ID = model.PrefixRowID(prefix, row.ID)
	clone.Depth = row.Depth + 1
	clone.Parent = parent
	if len(row.SubRows) > 0 {
		clone.SubRows = make([]*model.BodyRow[Item], len(row.SubRows))
		for i, sub := range row.SubRows {
			clone.SubRows[i] = rebase(sub, prefix, clone)
		}
	}
	return clone
}

// collectCellSets classifies the cells of a grouped tree by cell id.
func collectCellSets[Item any](in []*model.BodyRow[Item], ids []string) cellSets {
	sets := cellSets{
		grouped:    make(map[string]bool),
		aggregated: make(map[string]bool),
		repeated:   make(map[string]bool),
	}
	if len(ids) > 0 {
		collect(sets, in, ids, 0)
	}
	return sets
}

// collect walks in, where group rows group by ids[level].
func collect[Item any](sets cellSets, in []*model.BodyRow[Item], ids []string, level int) {
	for _, row := range in {
		if row.IsData() {
			for _, id := range ids {
				if cell, ok := row.CellForID[id]; ok && cell.IsData() {
					sets.repeated[cell.ID()] = true
				}
			}
			collect(sets, row.SubRows, ids, level)
			continue
		}
		for columnID, cell := range row.CellForID {
			if !cell.IsData() {
				continue
			}
			if level < len(ids) && columnID == ids[level] {
				sets.grouped[cell.ID()] = true
			} else {
				sets.aggregated[cell.ID()] = true
			}
		}
		collect(sets, row.SubRows, ids, level+1)
	}
}
