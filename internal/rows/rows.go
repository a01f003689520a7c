// Package rows builds body rows from source items and provides the
// structural operations pipeline stages share: column projection, sub row
// construction, tree walks, and state and hook injection.
//
// Every function here returns fresh rows. Rows passed in are never mutated,
// except by InjectState and ApplyHooks, which decorate the rows of a stage
// that has already completed.
package rows

import (
	"github.com/specialistvlad/gridview/internal/model"
)

// DataIDFunc derives the content-stable id of the item at index.
type DataIDFunc[Item any] func(item Item, index int) string

// Build creates one root row per item with a cell for every column in
// flatColumns. Row ids are positional. Data ids equal the row id unless
// dataID is set.
func Build[Item any](items []Item, flatColumns []model.Column[Item], dataID DataIDFunc[Item]) ([]*model.BodyRow[Item], error) {
	out := make([]*model.BodyRow[Item], len(items))
	for i, it := range items {
		row, err := newRow(it, i, model.RootRowID(i), flatColumns, dataID)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

// SubRows creates the child rows of parent from items. Child ids are
// "{parentID}>{index}", depth is one more than the parent's, and the visible
// cells follow the parent's visible column order.
func SubRows[Item any](items []Item, parent *model.BodyRow[Item], flatColumns []model.Column[Item], dataID DataIDFunc[Item]) ([]*model.BodyRow[Item], error) {
	visibleIDs := CellColumnIDs(parent)
	out := make([]*model.BodyRow[Item], len(items))
	for i, it := range items {
		row, err := newRow(it, i, model.ChildRowID(parent.ID, i), flatColumns, dataID)
		if err != nil {
			return nil, err
		}
		row = row.WithCells(visibleIDs)
		row.Depth = parent.Depth + 1
		row.Parent = parent
		out[i] = row
	}
	return out, nil
}

func newRow[Item any](it Item, index int, id string, flatColumns []model.Column[Item], dataID DataIDFunc[Item]) (*model.BodyRow[Item], error) {
	row := &model.BodyRow[Item]{
		Kind:      model.DataRow,
		ID:        id,
		DataID:    id,
		Original:  it,
		Cells:     make([]*model.BodyCell[Item], 0, len(flatColumns)),
		CellForID: make(map[string]*model.BodyCell[Item], len(flatColumns)),
	}
	if dataID != nil {
		row.DataID = dataID(it, index)
	}

	for _, c := range flatColumns {
		var cell *model.BodyCell[Item]
		switch col := c.(type) {
		case *model.DataColumn[Item]:
			cell = &model.BodyCell[Item]{Kind: model.DataCell, Row: row, Column: c, Value: col.Value(it), Label: col.Cell}
		case *model.DisplayColumn[Item]:
			cell = &model.BodyCell[Item]{Kind: model.DisplayCell, Row: row, Column: c, Label: col.Cell}
		default:
			return nil, model.InternalErrorf("rows.Build", "%w: %T is not a leaf column", model.ErrUnknownColumnKind, c)
		}
		row.Cells = append(row.Cells, cell)
		row.CellForID[c.ColumnID()] = cell
	}
	return row, nil
}

// Project returns clones of rows whose visible cells follow columnIDs. The
// complete CellForID map is kept. Sub rows are projected too.
func Project[Item any](in []*model.BodyRow[Item], columnIDs []string) []*model.BodyRow[Item] {
	out := make([]*model.BodyRow[Item], len(in))
	for i, row := range in {
		projected := row.WithCells(columnIDs)
		if len(row.SubRows) > 0 {
			projected.Adopt(Project(row.SubRows, columnIDs))
		}
		out[i] = projected
	}
	return out
}

// CellColumnIDs returns the column ids of row's visible cells, in order.
func CellColumnIDs[Item any](row *model.BodyRow[Item]) []string {
	ids := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		ids[i] = cell.ColumnID()
	}
	return ids
}

// Walk calls fn for every row of the tree in depth-first order. It stops
// descending below a row when fn returns false.
func Walk[Item any](in []*model.BodyRow[Item], fn func(row *model.BodyRow[Item]) bool) {
	for _, row := range in {
		if fn(row) {
			Walk(row.SubRows, fn)
		}
	}
}

// Flatten returns every row of the tree in depth-first order.
func Flatten[Item any](in []*model.BodyRow[Item]) []*model.BodyRow[Item] {
	var out []*model.BodyRow[Item]
	Walk(in, func(row *model.BodyRow[Item]) bool {
		out = append(out, row)
		return true
	})
	return out
}

// Leaves returns the rows of the tree that have no sub rows, in depth-first
// order.
func Leaves[Item any](in []*model.BodyRow[Item]) []*model.BodyRow[Item] {
	var out []*model.BodyRow[Item]
	Walk(in, func(row *model.BodyRow[Item]) bool {
		if len(row.SubRows) == 0 {
			out = append(out, row)
		}
		return true
	})
	return out
}
