// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"strings"

	"github.com/specialistvlad/gridview/internal/store"
)

// HeaderCellKind discriminates header cell variants.
type HeaderCellKind int

const (
	// DataHeaderCell heads a data column. Colspan is always 1.
	DataHeaderCell HeaderCellKind = iota + 1
	// DisplayHeaderCell heads a display column, or fills an empty slot of the
	// leaf row. Colspan is always 1.
	DisplayHeaderCell
	// GroupHeaderCell heads a group column, or fills an empty slot above the
	// leaf row on behalf of a single leaf.
	GroupHeaderCell
)

func (k HeaderCellKind) String() string {
	switch k {
	case DataHeaderCell:
		return "data"
	case DisplayHeaderCell:
		return "display"
	case GroupHeaderCell:
		return "group"
	default:
		return "unknown"
	}
}

// HeaderCell is one cell of the header layout.
type HeaderCell[Item any] struct {
	Component[Item]

	Kind     HeaderCellKind
	Label    Label[Item]
	Footer   Label[Item]
	Colspan  int
	Colstart int
	// Column is the leaf or group column the cell heads. It is nil for
	// placeholder cells.
	Column Column[Item]
	// LeafID is the column id of a leaf cell.
	LeafID string
	// IDs holds the visible leaf ids under a group cell.
	IDs []string
	// AllIDs holds every leaf id under a group cell, visible or not. It is
	// the key adjacent group cells are merged on.
	AllIDs []string
	// Placeholder marks cells that fill empty layout slots.
	Placeholder bool
}

// IsLeaf reports whether the cell is a data or display cell.
func (c *HeaderCell[Item]) IsLeaf() bool {
	return c.Kind == DataHeaderCell || c.Kind == DisplayHeaderCell
}

// IsGroup reports whether the cell is a group cell.
func (c *HeaderCell[Item]) IsGroup() bool {
	return c.Kind == GroupHeaderCell
}

// ID returns the leaf id for leaf cells and "[id,id,...]" over the visible
// leaf ids for group cells.
func (c *HeaderCell[Item]) ID() string {
	if c.IsGroup() {
		return "[" + strings.Join(c.IDs, ",") + "]"
	}
	return c.LeafID
}

// MembershipKey returns "[id,id,...]" over AllIDs.
func (c *HeaderCell[Item]) MembershipKey() string {
	return "[" + strings.Join(c.AllIDs, ",") + "]"
}

// PushID appends a visible leaf id to a group cell.
func (c *HeaderCell[Item]) PushID(id string) {
	c.IDs = append(c.IDs, id)
}

// Clone copies the cell with fresh id slices and no hooks.
func (c *HeaderCell[Item]) Clone() *HeaderCell[Item] {
	clone := &HeaderCell[Item]{
		Kind:        c.Kind,
		Label:       c.Label,
		Footer:      c.Footer,
		Colspan:     c.Colspan,
		Colstart:    c.Colstart,
		Column:      c.Column,
		LeafID:      c.LeafID,
		Placeholder: c.Placeholder,
	}
	if c.IDs != nil {
		clone.IDs = append([]string{}, c.IDs...)
	}
	if c.AllIDs != nil {
		clone.AllIDs = append([]string{}, c.AllIDs...)
	}
	clone.state = c.state
	return clone
}

// Render returns the header label. Dynamic labels need injected state.
func (c *HeaderCell[Item]) Render() (any, error) {
	return c.render(c.Label, "model.HeaderCell.Render")
}

// RenderFooter returns the footer label. Dynamic labels need injected state.
func (c *HeaderCell[Item]) RenderFooter() (any, error) {
	return c.render(c.Footer, "model.HeaderCell.RenderFooter")
}

func (c *HeaderCell[Item]) render(l Label[Item], op string) (any, error) {
	if l.Func == nil {
		return l.Text, nil
	}
	if c.state == nil {
		return nil, UsageErrorf(op, "%w: header cell %s has a dynamic label", ErrMissingState, c.ID())
	}
	return l.Func(c, c.state), nil
}

// Attrs returns the element attributes: role and colspan merged with every
// plugin's attrs.
func (c *HeaderCell[Item]) Attrs() store.Readable[map[string]any] {
	return c.attrsWith(map[string]any{
		"role":    "columnheader",
		"colspan": c.Colspan,
	})
}

// HeaderRow is one row of the header layout, outermost grouping first.
type HeaderRow[Item any] struct {
	Component[Item]

	ID    string
	Cells []*HeaderCell[Item]
}

// Attrs returns the element attributes merged with every plugin's attrs.
func (r *HeaderRow[Item]) Attrs() store.Readable[map[string]any] {
	return r.attrsWith(map[string]any{"role": "row"})
}
