package rows

import (
	"github.com/specialistvlad/gridview/internal/model"
)

// InjectState attaches state to every row of the tree and to all of its
// cells, hidden ones included.
func InjectState[Item any](in []*model.BodyRow[Item], state *model.State[Item]) {
	Walk(in, func(row *model.BodyRow[Item]) bool {
		row.InjectState(state)
		for _, cell := range row.CellForID {
			cell.InjectState(state)
		}
		for _, cell := range row.Cells {
			cell.InjectState(state)
		}
		return true
	})
}

// ApplyHooks runs a plugin's body row and body cell hooks over rows and their
// visible cells. Sub rows are hooked once they appear in a sequence of their
// own, as they do after expansion.
func ApplyHooks[Item any](in []*model.BodyRow[Item], pluginName string, hooks model.Hooks[Item]) {
	if hooks.BodyRow == nil && hooks.BodyCell == nil {
		return
	}
	for _, row := range in {
		if hooks.BodyRow != nil {
			row.ApplyHook(pluginName, hooks.BodyRow(row))
		}
		if hooks.BodyCell != nil {
			for _, cell := range row.Cells {
				cell.ApplyHook(pluginName, hooks.BodyCell(cell))
			}
		}
	}
}
