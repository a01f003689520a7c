// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"github.com/specialistvlad/gridview/internal/store"
)

// RowKind discriminates body row variants.
type RowKind int

const (
	// DataRow is backed by a source item.
	DataRow RowKind = iota + 1
	// DisplayRow has no source item. Synthetic group rows are display rows.
	DisplayRow
)

func (k RowKind) String() string {
	switch k {
	case DataRow:
		return "data"
	case DisplayRow:
		return "display"
	default:
		return "unknown"
	}
}

// BodyRow is one row snapshot at some pipeline stage.
type BodyRow[Item any] struct {
	Component[Item]

	Kind RowKind
	// ID is positional. See RootRowID and ChildRowID.
	ID string
	// DataID is content-stable. It equals ID unless a row data id function
	// overrides it. Display rows have no data id.
	DataID string
	// Original is the source item of a data row.
	Original Item
	Depth    int
	// Parent is a back-reference and is not owned.
	Parent  *BodyRow[Item]
	SubRows []*BodyRow[Item]
	// Cells holds the visible cells in display order.
	Cells []*BodyCell[Item]
	// CellForID holds a cell for every leaf column, hidden or not.
	CellForID map[string]*BodyCell[Item]
}

// IsData reports whether the row is backed by a source item.
func (r *BodyRow[Item]) IsData() bool {
	return r.Kind == DataRow
}

// Clone copies the scalar fields and rebuilds the owned cell collections with
// every cell pointing at the clone. Sub rows are cloned recursively and
// re-parented, so the clone shares no back-reference with r. Hooks are not
// copied.
func (r *BodyRow[Item]) Clone() *BodyRow[Item] {
	clone := r.clone()
	if r.SubRows != nil {
		clone.SubRows = make([]*BodyRow[Item], len(r.SubRows))
		for i, sub := range r.SubRows {
			child := sub.Clone()
			child.Parent = clone
			clone.SubRows[i] = child
		}
	}
	return clone
}

// clone copies r without its sub rows.
func (r *BodyRow[Item]) clone() *BodyRow[Item] {
	clone := &BodyRow[Item]{
		Kind:     r.Kind,
		ID:       r.ID,
		DataID:   r.DataID,
		Original: r.Original,
		Depth:    r.Depth,
		Parent:   r.Parent,
	}
	clone.state = r.state
	clone.CellForID = make(map[string]*BodyCell[Item], len(r.CellForID))
	for id, cell := range r.CellForID {
		clone.CellForID[id] = cell.Clone(clone)
	}
	clone.Cells = make([]*BodyCell[Item], 0, len(r.Cells))
	for _, cell := range r.Cells {
		if c, ok := clone.CellForID[cell.ColumnID()]; ok {
			clone.Cells = append(clone.Cells, c)
			continue
		}
		clone.Cells = append(clone.Cells, cell.Clone(clone))
	}
	return clone
}

// WithCells returns a clone without sub rows whose visible cells are the
// cells of the given column ids, in that order. Ids without a cell are
// skipped.
func (r *BodyRow[Item]) WithCells(columnIDs []string) *BodyRow[Item] {
	clone := r.clone()
	clone.Cells = clone.Cells[:0]
	for _, id := range columnIDs {
		if c, ok := clone.CellForID[id]; ok {
			clone.Cells = append(clone.Cells, c)
		}
	}
	return clone
}

// WithSubRows returns a clone holding subRows. Every sub row is itself cloned
// with its Parent pointing at the new row, so rows handed out by earlier
// stages are never re-parented. A nil subRows yields a row without sub rows.
func (r *BodyRow[Item]) WithSubRows(subRows []*BodyRow[Item]) *BodyRow[Item] {
	clone := r.clone()
	if subRows == nil {
		return clone
	}
	clone.SubRows = make([]*BodyRow[Item], len(subRows))
	for i, sub := range subRows {
		child := sub.Clone()
		child.Parent = clone
		clone.SubRows[i] = child
	}
	return clone
}

// Adopt sets children as the sub rows of r and points their Parent at r. Use
// it only on rows still under construction that no other stage holds.
func (r *BodyRow[Item]) Adopt(children []*BodyRow[Item]) {
	r.SubRows = children
	for _, child := range children {
		child.Parent = r
	}
}

// Attrs returns the element attributes merged with every plugin's attrs.
func (r *BodyRow[Item]) Attrs() store.Readable[map[string]any] {
	return r.attrsWith(map[string]any{"role": "row"})
}

// CellKind discriminates body cell variants.
type CellKind int

const (
	// DataCell holds a value extracted from the row's item.
	DataCell CellKind = iota + 1
	// DisplayCell only renders a label.
	DisplayCell
)

func (k CellKind) String() string {
	switch k {
	case DataCell:
		return "data"
	case DisplayCell:
		return "display"
	default:
		return "unknown"
	}
}

// BodyCell is one cell of a body row. It is owned by Row.
type BodyCell[Item any] struct {
	Component[Item]

	Kind   CellKind
	Row    *BodyRow[Item]
	Column Column[Item]
	Value  any
	Label  CellLabelFunc[Item]
}

// ColumnID returns the id of the cell's leaf column.
func (c *BodyCell[Item]) ColumnID() string {
	return c.Column.ColumnID()
}

// ID returns "{rowID}:{columnID}".
func (c *BodyCell[Item]) ID() string {
	return CellID(c.Row.ID, c.ColumnID())
}

// IsData reports whether the cell holds an extracted value.
func (c *BodyCell[Item]) IsData() bool {
	return c.Kind == DataCell
}

// Clone copies the cell onto row. Hooks are not copied.
func (c *BodyCell[Item]) Clone(row *BodyRow[Item]) *BodyCell[Item] {
	clone := &BodyCell[Item]{
		Kind:   c.Kind,
		Row:    row,
		Column: c.Column,
		Value:  c.Value,
		Label:  c.Label,
	}
	clone.state = c.state
	return clone
}

// Render returns the cell label, or the value of a data cell without one.
// Dynamic labels need injected state.
func (c *BodyCell[Item]) Render() (any, error) {
	if c.Label == nil {
		if c.Kind == DataCell {
			return c.Value, nil
		}
		return "", nil
	}
	if c.state == nil {
		return nil, UsageErrorf("model.BodyCell.Render", "%w: cell %s has a dynamic label", ErrMissingState, c.ID())
	}
	return c.Label(c, c.state), nil
}

// Attrs returns the element attributes merged with every plugin's attrs.
func (c *BodyCell[Item]) Attrs() store.Readable[map[string]any] {
	return c.attrsWith(map[string]any{"role": "cell"})
}
