// Package subrows attaches hierarchical child rows derived from each item.
package subrows

import (
	"fmt"

	"github.com/specialistvlad/gridview/internal/keypath"
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/rows"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
)

// Config configures the plugin. One of Children and ChildrenKey is required.
type Config[Item any] struct {
	// Children returns the child items of an item.
	Children func(item Item) []Item
	// ChildrenKey is a key path to a list of child items.
	ChildrenKey string
}

// New returns the plugin. It has no exposed state.
func New[Item any](cfg Config[Item]) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		children := cfg.Children
		if children == nil {
			if cfg.ChildrenKey == "" {
				return nil, fmt.Errorf("subrows: Children or ChildrenKey is required")
			}
			path, err := keypath.Parse(cfg.ChildrenKey)
			if err != nil {
				return nil, fmt.Errorf("subrows: %w", err)
			}
			children = func(item Item) []Item {
				return itemsAt[Item](path, item)
			}
		}
		flat := init.State.FlatColumns

		return &table.Instance[Item]{
			DeriveRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				return store.Derive2(in, flat, func(rs []*model.BodyRow[Item], cols []model.Column[Item]) ([]*model.BodyRow[Item], error) {
					return attach(rs, cols, children)
				})
			},
		}, nil
	}
}

// attach returns clones of in with child rows built recursively. Display
// rows are passed through.
func attach[Item any](in []*model.BodyRow[Item], cols []model.Column[Item], children func(Item) []Item) ([]*model.BodyRow[Item], error) {
	out := make([]*model.BodyRow[Item], len(in))
	for i, row := range in {
		if !row.IsData() {
			out[i] = row
			continue
		}
		items := children(row.Original)
		if len(items) == 0 {
			out[i] = row
			continue
		}
		parent := row.Clone()
		subs, err := rows.SubRows(items, parent, cols, nil)
		if err != nil {
			return nil, err
		}
		subs, err = attach(subs, cols, children)
		if err != nil {
			return nil, err
		}
		parent.Adopt(subs)
		out[i] = parent
	}
	return out, nil
}

// itemsAt reads a list at path. Elements that are not Items are dropped.
func itemsAt[Item any](path keypath.Path, item Item) []Item {
	raw := path.Get(item)
	switch list := raw.(type) {
	case []Item:
		return list
	case []any:
		out := make([]Item, 0, len(list))
		for _, el := range list {
			if it, ok := el.(Item); ok {
				out = append(out, it)
			}
		}
		return out
	default:
		return nil
	}
}
