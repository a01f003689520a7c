// Package hidecols hides leaf columns by id.
package hidecols

import (
	"slices"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
)

// Config configures the plugin.
type Config struct {
	InitialHiddenColumnIDs []string
}

// State is exposed under the plugin's name.
type State struct {
	HiddenColumnIDs *store.Writable[[]string]
}

// Toggle hides a visible column or shows a hidden one.
func (s *State) Toggle(id string) {
	s.HiddenColumnIDs.Update(func(ids []string) []string {
		if i := slices.Index(ids, id); i >= 0 {
			return slices.Delete(slices.Clone(ids), i, i+1)
		}
		return append(slices.Clone(ids), id)
	})
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(table.Init[Item]) (*table.Instance[Item], error) {
		state := &State{HiddenColumnIDs: store.NewWritable(slices.Clone(cfg.InitialHiddenColumnIDs))}
		return &table.Instance[Item]{
			State: state,
			DeriveFlatColumns: func(in store.Readable[[]model.Column[Item]]) store.Readable[[]model.Column[Item]] {
				return store.Derive2(in, state.HiddenColumnIDs, func(cols []model.Column[Item], hidden []string) ([]model.Column[Item], error) {
					return slices.DeleteFunc(slices.Clone(cols), func(c model.Column[Item]) bool {
						return slices.Contains(hidden, c.ColumnID())
					}), nil
				})
			},
		}, nil
	}
}
