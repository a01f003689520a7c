// Package header lays out the header rows of a table from its column tree.
//
// The layout is computed in matrix form. RowMatrix places every column of the
// tree into a rows × leaves grid, Transpose turns it into one vertical stack
// per leaf, OrderColumnMatrix filters and reorders those stacks by the visible
// leaf ids, PopulateGroupIDs records which visible leaves sit under each group
// slot, and MergeRow collapses adjacent slots of the same group into one cell
// spanning them. Rows chains the steps.
package header

import (
	"strconv"

	"github.com/specialistvlad/gridview/internal/model"
)

// Matrix is a grid of header cells, either row-major or column-major.
type Matrix[Item any] [][]*model.HeaderCell[Item]

// Rows returns the header rows for columns, outermost grouping first. An empty
// visibleIDs keeps every leaf in definition order.
func Rows[Item any](columns []model.Column[Item], visibleIDs []string) ([]*model.HeaderRow[Item], error) {
	rowMatrix, err := RowMatrix(columns)
	if err != nil {
		return nil, err
	}
	columnMatrix := OrderColumnMatrix(Transpose(rowMatrix), visibleIDs)
	if err := PopulateGroupIDs(columnMatrix); err != nil {
		return nil, err
	}

	merged := Transpose(columnMatrix)
	rows := make([]*model.HeaderRow[Item], len(merged))
	for i, cells := range merged {
		rows[i] = &model.HeaderRow[Item]{ID: strconv.Itoa(i), Cells: MergeRow(cells)}
	}
	return rows, nil
}

// FooterRows returns the footer rows for columns: the header layout read
// bottom up, keeping only rows where at least one cell has a footer label.
func FooterRows[Item any](columns []model.Column[Item], visibleIDs []string) ([]*model.HeaderRow[Item], error) {
	headerRows, err := Rows(columns, visibleIDs)
	if err != nil {
		return nil, err
	}

	var footers []*model.HeaderRow[Item]
	for i := len(headerRows) - 1; i >= 0; i-- {
		row := headerRows[i]
		hasFooter := false
		for _, cell := range row.Cells {
			if !cell.Footer.IsZero() {
				hasFooter = true
				break
			}
		}
		if !hasFooter {
			continue
		}
		row.ID = strconv.Itoa(len(footers))
		footers = append(footers, row)
	}
	return footers, nil
}

// RowMatrix places every column into a grid of ColumnHeight rows and one
// column per leaf. Leaves land in the last row. A group occupies one slot per
// leaf beneath it, at the row given by the height of its tree, and its
// children go one row lower. Empty slots are filled with placeholders: blank
// display cells in the last row and single-leaf group cells above it.
func RowMatrix[Item any](columns []model.Column[Item]) (Matrix[Item], error) {
	maxColspan := 0
	maxHeight := 0
	for _, c := range columns {
		maxColspan += model.LeafCount(c)
		maxHeight = max(maxHeight, model.ColumnHeight(c))
	}

	matrix := make(Matrix[Item], maxHeight)
	for i := range matrix {
		matrix[i] = make([]*model.HeaderCell[Item], maxColspan)
	}

	offset := 0
	for _, c := range columns {
		if err := load(matrix, c, maxHeight-model.ColumnHeight(c), offset); err != nil {
			return nil, err
		}
		offset += model.LeafCount(c)
	}

	last := maxHeight - 1
	for rowIdx, cells := range matrix {
		for colIdx, cell := range cells {
			if cell != nil {
				continue
			}
			if rowIdx == last {
				cells[colIdx] = &model.HeaderCell[Item]{
					Kind:        model.DisplayHeaderCell,
					LeafID:      strconv.Itoa(colIdx),
					Colspan:     1,
					Colstart:    colIdx,
					Placeholder: true,
				}
				continue
			}
			leafID := strconv.Itoa(colIdx)
			if leaf := matrix[last][colIdx]; leaf != nil {
				leafID = leaf.ID()
			}
			cells[colIdx] = &model.HeaderCell[Item]{
				Kind:        model.GroupHeaderCell,
				Colspan:     1,
				Colstart:    colIdx,
				AllIDs:      []string{leafID},
				Placeholder: true,
			}
		}
	}
	return matrix, nil
}

func load[Item any](matrix Matrix[Item], c model.Column[Item], rowOffset, cellOffset int) error {
	last := len(matrix) - 1
	switch c.Kind() {
	case model.DataColumnKind:
		matrix[last][cellOffset] = &model.HeaderCell[Item]{
			Kind:     model.DataHeaderCell,
			Label:    c.HeaderLabel(),
			Footer:   c.FooterLabel(),
			Colspan:  1,
			Colstart: cellOffset,
			Column:   c,
			LeafID:   c.ColumnID(),
		}
	case model.DisplayColumnKind:
		matrix[last][cellOffset] = &model.HeaderCell[Item]{
			Kind:     model.DisplayHeaderCell,
			Label:    c.HeaderLabel(),
			Footer:   c.FooterLabel(),
			Colspan:  1,
			Colstart: cellOffset,
			Column:   c,
			LeafID:   c.ColumnID(),
		}
	case model.GroupColumnKind:
		g, ok := c.(*model.GroupColumn[Item])
		if !ok {
			return model.InternalErrorf("header.RowMatrix", "%w: %T reports kind group", model.ErrUnknownColumnKind, c)
		}
		allIDs := model.LeafIDs(c)
		for i := range allIDs {
			matrix[rowOffset][cellOffset+i] = &model.HeaderCell[Item]{
				Kind:     model.GroupHeaderCell,
				Label:    c.HeaderLabel(),
				Footer:   c.FooterLabel(),
				Colspan:  1,
				Colstart: cellOffset,
				Column:   c,
				AllIDs:   allIDs,
			}
		}
		childOffset := 0
		for _, child := range g.Columns {
			if err := load(matrix, child, rowOffset+1, cellOffset+childOffset); err != nil {
				return err
			}
			childOffset += model.LeafCount(child)
		}
	default:
		return model.InternalErrorf("header.RowMatrix", "%w: %v", model.ErrUnknownColumnKind, c.Kind())
	}
	return nil
}

// Transpose swaps the rows and columns of m.
func Transpose[Item any](m Matrix[Item]) Matrix[Item] {
	if len(m) == 0 {
		return Matrix[Item]{}
	}
	out := make(Matrix[Item], len(m[0]))
	for colIdx := range out {
		out[colIdx] = make([]*model.HeaderCell[Item], len(m))
		for rowIdx := range m {
			out[colIdx][rowIdx] = m[rowIdx][colIdx]
		}
	}
	return out
}

// OrderColumnMatrix keeps the column stacks whose leaf id is in visibleIDs,
// in that order, cloning every cell and renumbering Colstart. An empty
// visibleIDs returns columnMatrix unchanged.
func OrderColumnMatrix[Item any](columnMatrix Matrix[Item], visibleIDs []string) Matrix[Item] {
	if len(visibleIDs) == 0 {
		return columnMatrix
	}

	byLeaf := make(map[string][]*model.HeaderCell[Item], len(columnMatrix))
	for _, stack := range columnMatrix {
		if len(stack) == 0 {
			continue
		}
		leafID := stack[len(stack)-1].ID()
		if _, exists := byLeaf[leafID]; !exists {
			byLeaf[leafID] = stack
		}
	}

	ordered := make(Matrix[Item], 0, len(visibleIDs))
	for _, id := range visibleIDs {
		stack, ok := byLeaf[id]
		if !ok {
			continue
		}
		colstart := len(ordered)
		cloned := make([]*model.HeaderCell[Item], len(stack))
		for i, cell := range stack {
			cloned[i] = cell.Clone()
			cloned[i].Colstart = colstart
		}
		ordered = append(ordered, cloned)
	}
	return ordered
}

// PopulateGroupIDs pushes the leaf id of every column stack into each group
// cell above it. Every stack must end in a leaf cell.
func PopulateGroupIDs[Item any](columnMatrix Matrix[Item]) error {
	for colIdx, stack := range columnMatrix {
		if len(stack) == 0 || !stack[len(stack)-1].IsLeaf() {
			return model.InternalErrorf("header.PopulateGroupIDs", "%w: column %d does not end in a leaf cell", model.ErrMalformedHeaderColumn, colIdx)
		}
		leafID := stack[len(stack)-1].ID()
		for _, cell := range stack {
			if cell.IsGroup() {
				cell.PushID(leafID)
			}
		}
	}
	return nil
}

// MergeRow clones cells and merges every run of adjacent group cells with the
// same membership into one cell spanning the run. The merged cell holds the
// visible ids of the run in order.
func MergeRow[Item any](cells []*model.HeaderCell[Item]) []*model.HeaderCell[Item] {
	merged := make([]*model.HeaderCell[Item], 0, len(cells))
	for start := 0; start < len(cells); {
		cell := cells[start].Clone()
		if !cell.IsGroup() {
			merged = append(merged, cell)
			start++
			continue
		}

		key := cell.MembershipKey()
		end := start + 1
		for end < len(cells) && cells[end].IsGroup() && cells[end].MembershipKey() == key {
			cell.IDs = append(cell.IDs, cells[end].IDs...)
			end++
		}
		cell.Colspan = end - start
		merged = append(merged, cell)
		start = end
	}
	return merged
}
