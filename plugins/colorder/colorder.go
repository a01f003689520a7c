// Package colorder reorders leaf columns by id.
package colorder

import (
	"slices"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
)

// Config configures the plugin.
type Config struct {
	InitialColumnIDOrder []string
	// HideUnspecifiedColumns drops columns missing from the order instead of
	// appending them after the ordered ones.
	HideUnspecifiedColumns bool
}

// State is exposed under the plugin's name.
type State struct {
	ColumnIDOrder *store.Writable[[]string]
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(table.Init[Item]) (*table.Instance[Item], error) {
		state := &State{ColumnIDOrder: store.NewWritable(slices.Clone(cfg.InitialColumnIDOrder))}
		return &table.Instance[Item]{
			State: state,
			DeriveFlatColumns: func(in store.Readable[[]model.Column[Item]]) store.Readable[[]model.Column[Item]] {
				return store.Derive2(in, state.ColumnIDOrder, func(cols []model.Column[Item], order []string) ([]model.Column[Item], error) {
					return reorder(cols, order, cfg.HideUnspecifiedColumns), nil
				})
			},
		}, nil
	}
}

// reorder places the columns named in order first, in that order. Unknown
// and repeated ids are ignored.
func reorder[Item any](cols []model.Column[Item], order []string, hideRest bool) []model.Column[Item] {
	out := make([]model.Column[Item], 0, len(cols))
	placed := make(map[string]bool, len(order))
	for _, id := range order {
		if placed[id] {
			continue
		}
		if c, ok := model.FindColumn(cols, id); ok {
			out = append(out, c)
			placed[id] = true
		}
	}
	if hideRest {
		return out
	}
	for _, c := range cols {
		if !placed[c.ColumnID()] {
			out = append(out, c)
		}
	}
	return out
}
