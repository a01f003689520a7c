// Package selection tracks selected rows by data id.
//
// Selection is keyed by data id, so it survives sorting, filtering,
// grouping and paging. Rows without a data id of their own, such as group
// rows, are selected when all of their sub rows are.
package selection

import (
	"maps"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
)

// Config configures the plugin.
type Config struct {
	InitialSelectedDataIDs []string
	// LinkDataSubRows makes data rows with sub rows follow their sub rows:
	// selecting the parent selects every sub row, and the parent reads as
	// selected when all of them are.
	LinkDataSubRows bool
}

// RowState describes the selection of one row.
type RowState struct {
	IsSelected            bool
	IsSomeSubRowsSelected bool
	IsAllSubRowsSelected  bool
}

// BodyRowProps are the props of a body row.
type BodyRowProps struct {
	Selected            bool
	SomeSubRowsSelected bool
	AllSubRowsSelected  bool
	SetSelected         func(selected bool)
}

// State is exposed under the plugin's name.
type State[Item any] struct {
	SelectedDataIDs *store.Writable[map[string]bool]
	// AllRowsSelected and SomeRowsSelected reason over every derived row,
	// not only the current page.
	AllRowsSelected      store.Readable[bool]
	SomeRowsSelected     store.Readable[bool]
	AllPageRowsSelected  store.Readable[bool]
	SomePageRowsSelected store.Readable[bool]

	link     bool
	rows     store.Readable[[]*model.BodyRow[Item]]
	pageRows store.Readable[[]*model.BodyRow[Item]]
}

// SetSelected selects or deselects row. Group rows and, with linked sub
// rows, data rows with sub rows pass the write on to their sub rows.
func (s *State[Item]) SetSelected(row *model.BodyRow[Item], selected bool) {
	s.SelectedDataIDs.Update(func(ids map[string]bool) map[string]bool {
		out := maps.Clone(ids)
		if out == nil {
			out = make(map[string]bool)
		}
		write(row, selected, out, s.link)
		return out
	})
}

// ToggleAllRows selects every derived row, or deselects them all when they
// are all selected already.
func (s *State[Item]) ToggleAllRows() error {
	return s.toggleAll(s.rows, s.AllRowsSelected)
}

// ToggleAllPageRows does what ToggleAllRows does for the current page.
func (s *State[Item]) ToggleAllPageRows() error {
	return s.toggleAll(s.pageRows, s.AllPageRowsSelected)
}

func (s *State[Item]) toggleAll(source store.Readable[[]*model.BodyRow[Item]], all store.Readable[bool]) error {
	rs, err := source.Get()
	if err != nil {
		return err
	}
	selected, err := all.Get()
	if err != nil {
		return err
	}
	s.SelectedDataIDs.Update(func(ids map[string]bool) map[string]bool {
		out := maps.Clone(ids)
		if out == nil {
			out = make(map[string]bool)
		}
		for _, row := range rs {
			write(row, !selected, out, s.link)
		}
		return out
	})
	return nil
}

// GetRowState returns the selection state of row.
func (s *State[Item]) GetRowState(row *model.BodyRow[Item]) store.Readable[RowState] {
	return store.Map(s.SelectedDataIDs, func(ids map[string]bool) RowState {
		return s.rowState(row, ids)
	})
}

func (s *State[Item]) rowState(row *model.BodyRow[Item], ids map[string]bool) RowState {
	st := RowState{IsSelected: allSelected(row, ids, s.link)}
	if len(row.SubRows) > 0 {
		st.IsSomeSubRowsSelected = someSelected(row, ids, true)
		st.IsAllSubRowsSelected = allSelected(row, ids, true)
	}
	return st
}

// allSelected reports whether row is selected. A row that is not decided by
// its own data id is selected when all of its sub rows are.
func allSelected[Item any](row *model.BodyRow[Item], ids map[string]bool, link bool) bool {
	if row.IsData() && (!link || len(row.SubRows) == 0) {
		return ids[row.DataID]
	}
	if len(row.SubRows) == 0 {
		return false
	}
	for _, sub := range row.SubRows {
		if !allSelected(sub, ids, link) {
			return false
		}
	}
	return true
}

func someSelected[Item any](row *model.BodyRow[Item], ids map[string]bool, link bool) bool {
	if row.IsData() && (!link || len(row.SubRows) == 0) {
		return ids[row.DataID]
	}
	for _, sub := range row.SubRows {
		if someSelected(sub, ids, link) {
			return true
		}
	}
	return false
}

func write[Item any](row *model.BodyRow[Item], selected bool, ids map[string]bool, link bool) {
	if row.IsData() {
		if selected {
			ids[row.DataID] = true
		} else {
			delete(ids, row.DataID)
		}
		if !link {
			return
		}
	}
	for _, sub := range row.SubRows {
		write(sub, selected, ids, link)
	}
}

func everySelected[Item any](rs []*model.BodyRow[Item], ids map[string]bool, link bool) bool {
	if len(rs) == 0 {
		return false
	}
	for _, row := range rs {
		if !allSelected(row, ids, link) {
			return false
		}
	}
	return true
}

func anySelected[Item any](rs []*model.BodyRow[Item], ids map[string]bool, link bool) bool {
	for _, row := range rs {
		if someSelected(row, ids, link) {
			return true
		}
	}
	return false
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		initial := make(map[string]bool, len(cfg.InitialSelectedDataIDs))
		for _, id := range cfg.InitialSelectedDataIDs {
			initial[id] = true
		}
		selected := store.NewWritable(initial)
		link := cfg.LinkDataSubRows
		rs, pageRows := init.State.Rows, init.State.PageRows

		state := &State[Item]{
			SelectedDataIDs: selected,
			AllRowsSelected: store.Derive2(rs, selected, func(in []*model.BodyRow[Item], ids map[string]bool) (bool, error) {
				return everySelected(in, ids, link), nil
			}),
			SomeRowsSelected: store.Derive2(rs, selected, func(in []*model.BodyRow[Item], ids map[string]bool) (bool, error) {
				return anySelected(in, ids, link), nil
			}),
			AllPageRowsSelected: store.Derive2(pageRows, selected, func(in []*model.BodyRow[Item], ids map[string]bool) (bool, error) {
				return everySelected(in, ids, link), nil
			}),
			SomePageRowsSelected: store.Derive2(pageRows, selected, func(in []*model.BodyRow[Item], ids map[string]bool) (bool, error) {
				return anySelected(in, ids, link), nil
			}),
			link:     link,
			rows:     rs,
			pageRows: pageRows,
		}

		return &table.Instance[Item]{
			State: state,
			Hooks: model.Hooks[Item]{
				BodyRow: func(row *model.BodyRow[Item]) model.ElementHook {
					return model.ElementHook{
						Props: store.Map(selected, func(ids map[string]bool) any {
							st := state.rowState(row, ids)
							return BodyRowProps{
								Selected:            st.IsSelected,
								SomeSubRowsSelected: st.IsSomeSubRowsSelected,
								AllSubRowsSelected:  st.IsAllSubRowsSelected,
								SetSelected:         func(v bool) { state.SetSelected(row, v) },
							}
						}),
					}
				},
			},
		}, nil
	}
}
