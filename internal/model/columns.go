// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"slices"
	"strings"

	"github.com/specialistvlad/gridview/internal/keypath"
)

// ColumnKind discriminates the column variants.
type ColumnKind int

const (
	DataColumnKind ColumnKind = iota + 1
	DisplayColumnKind
	GroupColumnKind
)

func (k ColumnKind) String() string {
	switch k {
	case DataColumnKind:
		return "data"
	case DisplayColumnKind:
		return "display"
	case GroupColumnKind:
		return "group"
	default:
		return "unknown"
	}
}

// HeaderLabelFunc renders a header or footer label from the injected state.
type HeaderLabelFunc[Item any] func(cell *HeaderCell[Item], state *State[Item]) any

// CellLabelFunc renders a body cell from the injected state.
type CellLabelFunc[Item any] func(cell *BodyCell[Item], state *State[Item]) any

// Label is a static text, a dynamic label function, or both. When Func is
// set it wins.
type Label[Item any] struct {
	Text string
	Func HeaderLabelFunc[Item]
}

// IsZero reports whether the label has neither text nor a function.
func (l Label[Item]) IsZero() bool {
	return l.Text == "" && l.Func == nil
}

// Column is one node of a column definition tree. The set of implementations
// is closed: *DataColumn, *DisplayColumn and *GroupColumn.
type Column[Item any] interface {
	Kind() ColumnKind
	// ColumnID returns the leaf id. Group columns return "".
	ColumnID() string
	HeaderLabel() Label[Item]
	FooterLabel() Label[Item]
	isColumn()
}

// DataColumn reads one value from every item.
type DataColumn[Item any] struct {
	// ID overrides the id derived from Accessor. Required with AccessorFunc.
	ID         string
	Header     string
	HeaderFunc HeaderLabelFunc[Item]
	Footer     string
	FooterFunc HeaderLabelFunc[Item]
	// Accessor is a key path (see package keypath).
	Accessor string
	// AccessorFunc takes precedence over Accessor.
	AccessorFunc func(item Item) any
	// Cell renders the cell. Without it the cell renders its value.
	Cell CellLabelFunc[Item]
	// Plugins holds option bags keyed by plugin name.
	Plugins map[string]any

	path *keypath.Path
}

func (c *DataColumn[Item]) Kind() ColumnKind { return DataColumnKind }
func (c *DataColumn[Item]) isColumn()        {}

// ColumnID returns ID, or the string accessor when ID is empty.
func (c *DataColumn[Item]) ColumnID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Accessor
}

func (c *DataColumn[Item]) HeaderLabel() Label[Item] {
	return Label[Item]{Text: c.Header, Func: c.HeaderFunc}
}

func (c *DataColumn[Item]) FooterLabel() Label[Item] {
	return Label[Item]{Text: c.Footer, Func: c.FooterFunc}
}

// Value evaluates the accessor against item. A column without any accessor
// yields nil.
func (c *DataColumn[Item]) Value(item Item) any {
	if c.AccessorFunc != nil {
		return c.AccessorFunc(item)
	}
	if c.Accessor == "" {
		return nil
	}
	if c.path == nil {
		p, err := keypath.Parse(c.Accessor)
		if err != nil {
			return nil
		}
		c.path = &p
	}
	return c.path.Get(item)
}

// DisplayColumn renders cells without reading a value from the item.
type DisplayColumn[Item any] struct {
	ID         string
	Header     string
	HeaderFunc HeaderLabelFunc[Item]
	Footer     string
	FooterFunc HeaderLabelFunc[Item]
	Cell       CellLabelFunc[Item]
	Plugins    map[string]any
}

func (c *DisplayColumn[Item]) Kind() ColumnKind { return DisplayColumnKind }
func (c *DisplayColumn[Item]) ColumnID() string { return c.ID }
func (c *DisplayColumn[Item]) isColumn()        {}

func (c *DisplayColumn[Item]) HeaderLabel() Label[Item] {
	return Label[Item]{Text: c.Header, Func: c.HeaderFunc}
}

func (c *DisplayColumn[Item]) FooterLabel() Label[Item] {
	return Label[Item]{Text: c.Footer, Func: c.FooterFunc}
}

// GroupColumn nests child columns under a shared header.
type GroupColumn[Item any] struct {
	Header     string
	HeaderFunc HeaderLabelFunc[Item]
	Footer     string
	FooterFunc HeaderLabelFunc[Item]
	Columns    []Column[Item]
}

func (c *GroupColumn[Item]) Kind() ColumnKind { return GroupColumnKind }
func (c *GroupColumn[Item]) ColumnID() string { return "" }
func (c *GroupColumn[Item]) isColumn()        {}

func (c *GroupColumn[Item]) HeaderLabel() Label[Item] {
	return Label[Item]{Text: c.Header, Func: c.HeaderFunc}
}

func (c *GroupColumn[Item]) FooterLabel() Label[Item] {
	return Label[Item]{Text: c.Footer, Func: c.FooterFunc}
}

// PluginOptions returns the option bag a leaf column holds for plugin.
func PluginOptions[Item any](c Column[Item], plugin string) (any, bool) {
	var bags map[string]any
	switch col := c.(type) {
	case *DataColumn[Item]:
		bags = col.Plugins
	case *DisplayColumn[Item]:
		bags = col.Plugins
	}
	opts, ok := bags[plugin]
	return opts, ok
}

// ColumnHeight returns the nesting depth of c: 1 for leaves, one more than
// the tallest child for groups.
func ColumnHeight[Item any](c Column[Item]) int {
	g, ok := c.(*GroupColumn[Item])
	if !ok {
		return 1
	}
	tallest := 0
	for _, child := range g.Columns {
		tallest = max(tallest, ColumnHeight(child))
	}
	return tallest + 1
}

// LeafIDs returns the ids of every leaf under c in depth-first order.
func LeafIDs[Item any](c Column[Item]) []string {
	g, ok := c.(*GroupColumn[Item])
	if !ok {
		return []string{c.ColumnID()}
	}
	var ids []string
	for _, child := range g.Columns {
		ids = append(ids, LeafIDs(child)...)
	}
	return ids
}

// LeafCount returns the number of leaves under c.
func LeafCount[Item any](c Column[Item]) int {
	g, ok := c.(*GroupColumn[Item])
	if !ok {
		return 1
	}
	n := 0
	for _, child := range g.Columns {
		n += LeafCount(child)
	}
	return n
}

// FlattenColumns walks the column tree depth-first and returns its leaves in
// order. It validates leaf ids: every data column must have an explicit id or
// a string accessor, a function accessor requires an explicit id, display
// columns require an id, and no two leaves may share an id.
func FlattenColumns[Item any](columns []Column[Item]) ([]Column[Item], error) {
	const op = "model.FlattenColumns"

	var flat []Column[Item]
	var walk func(cols []Column[Item]) error
	walk = func(cols []Column[Item]) error {
		for _, c := range cols {
			if c == nil {
				return InternalErrorf(op, "%w: nil column", ErrUnknownColumnKind)
			}
			switch c.Kind() {
			case DataColumnKind:
				dc, ok := c.(*DataColumn[Item])
				if !ok {
					return InternalErrorf(op, "%w: %T reports kind data", ErrUnknownColumnKind, c)
				}
				if err := validateDataColumn(op, dc); err != nil {
					return err
				}
				flat = append(flat, c)
			case DisplayColumnKind:
				if c.ColumnID() == "" {
					return ConfigErrorf(op, "%w: display column %q requires an id", ErrMissingColumnID, c.HeaderLabel().Text)
				}
				flat = append(flat, c)
			case GroupColumnKind:
				gc, ok := c.(*GroupColumn[Item])
				if !ok {
					return InternalErrorf(op, "%w: %T reports kind group", ErrUnknownColumnKind, c)
				}
				if err := walk(gc.Columns); err != nil {
					return err
				}
			default:
				return InternalErrorf(op, "%w: %v", ErrUnknownColumnKind, c.Kind())
			}
		}
		return nil
	}
	if err := walk(columns); err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(flat))
	var dupes []string
	for _, c := range flat {
		id := c.ColumnID()
		seen[id]++
		if seen[id] == 2 {
			dupes = append(dupes, id)
		}
	}
	if len(dupes) > 0 {
		return nil, ConfigErrorf(op, "%w:\n- %s", ErrDuplicateColumnID, strings.Join(dupes, "\n- "))
	}
	return flat, nil
}

func validateDataColumn[Item any](op string, c *DataColumn[Item]) error {
	if c.AccessorFunc != nil && c.ID == "" {
		return ConfigErrorf(op, "%w: column %q uses a function accessor and requires an explicit id", ErrMissingColumnID, c.Header)
	}
	if c.ColumnID() == "" {
		return ConfigErrorf(op, "%w: column %q needs an id or a string accessor", ErrMissingColumnID, c.Header)
	}
	if c.AccessorFunc == nil && c.Accessor != "" {
		if _, err := keypath.Parse(c.Accessor); err != nil {
			return ConfigErrorf(op, "%w: column %q: %v", ErrInvalidAccessor, c.ColumnID(), err)
		}
	}
	return nil
}

// ColumnIDs returns the ids of columns in order.
func ColumnIDs[Item any](columns []Column[Item]) []string {
	ids := make([]string, len(columns))
	for i, c := range columns {
		ids[i] = c.ColumnID()
	}
	return ids
}

// FindColumn returns the leaf with the given id.
func FindColumn[Item any](columns []Column[Item], id string) (Column[Item], bool) {
	i := slices.IndexFunc(columns, func(c Column[Item]) bool { return c.ColumnID() == id })
	if i < 0 {
		return nil, false
	}
	return columns[i], true
}
