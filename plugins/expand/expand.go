// Package expand flattens the row tree into one sequence, descending only
// into rows marked as expanded.
package expand

import (
	"maps"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/rows"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
)

// Config configures the plugin.
type Config struct {
	// InitialExpandedIDs holds the ids of rows expanded at start.
	InitialExpandedIDs []string
}

// RowState describes the expansion of one row.
type RowState struct {
	IsExpanded bool
	// CanExpand reports whether the row has sub rows.
	CanExpand bool
	// IsAllSubRowsExpanded reports whether the row and every expandable row
	// below it are expanded.
	IsAllSubRowsExpanded bool
}

// BodyRowProps are the props of a body row.
type BodyRowProps struct {
	Expanded  bool
	CanExpand bool
	Toggle    func()
}

// State is exposed under the plugin's name.
type State[Item any] struct {
	// ExpandedIDs is keyed by row id.
	ExpandedIDs     *store.Writable[map[string]bool]
	PreExpandedRows store.Readable[[]*model.BodyRow[Item]]
}

// SetExpanded expands or collapses the row with the given id.
func (s *State[Item]) SetExpanded(id string, expanded bool) {
	s.ExpandedIDs.Update(func(ids map[string]bool) map[string]bool {
		out := maps.Clone(ids)
		if out == nil {
			out = make(map[string]bool)
		}
		if expanded {
			out[id] = true
		} else {
			delete(out, id)
		}
		return out
	})
}

// Toggle flips the expansion of the row with the given id.
func (s *State[Item]) Toggle(id string) {
	s.SetExpanded(id, !s.ExpandedIDs.Value()[id])
}

// ExpandAll expands every row that has sub rows.
func (s *State[Item]) ExpandAll() error {
	pre, err := s.PreExpandedRows.Get()
	if err != nil {
		return err
	}
	expanded := make(map[string]bool)
	rows.Walk(pre, func(row *model.BodyRow[Item]) bool {
		if len(row.SubRows) > 0 {
			expanded[row.ID] = true
		}
		return true
	})
	s.ExpandedIDs.Set(expanded)
	return nil
}

// CollapseAll collapses every row.
func (s *State[Item]) CollapseAll() {
	s.ExpandedIDs.Set(map[string]bool{})
}

// GetRowState returns the expansion state of row.
func (s *State[Item]) GetRowState(row *model.BodyRow[Item]) store.Readable[RowState] {
	return store.Map(s.ExpandedIDs, func(ids map[string]bool) RowState {
		return rowState(row, ids)
	})
}

func rowState[Item any](row *model.BodyRow[Item], ids map[string]bool) RowState {
	return RowState{
		IsExpanded:           ids[row.ID],
		CanExpand:            len(row.SubRows) > 0,
		IsAllSubRowsExpanded: allExpanded(row, ids),
	}
}

func allExpanded[Item any](row *model.BodyRow[Item], ids map[string]bool) bool {
	if len(row.SubRows) == 0 {
		return true
	}
	if !ids[row.ID] {
		return false
	}
	for _, sub := range row.SubRows {
		if !allExpanded(sub, ids) {
			return false
		}
	}
	return true
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(table.Init[Item]) (*table.Instance[Item], error) {
		initial := make(map[string]bool, len(cfg.InitialExpandedIDs))
		for _, id := range cfg.InitialExpandedIDs {
			initial[id] = true
		}
		preExpanded := store.NewRef[[]*model.BodyRow[Item]]()
		state := &State[Item]{
			ExpandedIDs:     store.NewWritable(initial),
			PreExpandedRows: preExpanded,
		}

		return &table.Instance[Item]{
			State: state,
			DeriveRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				preExpanded.Bind(in)
				return store.Derive2(in, state.ExpandedIDs, func(rs []*model.BodyRow[Item], ids map[string]bool) ([]*model.BodyRow[Item], error) {
					var out []*model.BodyRow[Item]
					rows.Walk(rs, func(row *model.BodyRow[Item]) bool {
						out = append(out, row)
						return ids[row.ID]
					})
					if out == nil {
						out = []*model.BodyRow[Item]{}
					}
					return out, nil
				})
			},
			Hooks: model.Hooks[Item]{
				BodyRow: func(row *model.BodyRow[Item]) model.ElementHook {
					id := row.ID
					return model.ElementHook{
						Props: store.Map(state.ExpandedIDs, func(ids map[string]bool) any {
							return BodyRowProps{
								Expanded:  ids[id],
								CanExpand: len(row.SubRows) > 0,
								Toggle:    func() { state.Toggle(id) },
							}
						}),
					}
				},
			},
		}, nil
	}
}
