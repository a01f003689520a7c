package testutil

import (
	"github.com/specialistvlad/gridview/internal/model"
)

// RowIDs returns the ids of rows in order.
func RowIDs[Item any](rows []*model.BodyRow[Item]) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids
}

// DataIDs returns the data ids of rows in order.
func DataIDs[Item any](rows []*model.BodyRow[Item]) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.DataID
	}
	return ids
}

// Values returns the value each row holds for columnID, hidden or not.
func Values[Item any](rows []*model.BodyRow[Item], columnID string) []any {
	values := make([]any, len(rows))
	for i, row := range rows {
		if cell, ok := row.CellForID[columnID]; ok {
			values[i] = cell.Value
		}
	}
	return values
}
