package header

import (
	"github.com/specialistvlad/gridview/internal/model"
)

// InjectState attaches state to every header row and cell.
func InjectState[Item any](rows []*model.HeaderRow[Item], state *model.State[Item]) {
	for _, row := range rows {
		row.InjectState(state)
		for _, cell := range row.Cells {
			cell.InjectState(state)
		}
	}
}

// ApplyHooks runs a plugin's header row and header cell hooks.
func ApplyHooks[Item any](rows []*model.HeaderRow[Item], pluginName string, hooks model.Hooks[Item]) {
	if hooks.HeaderRow == nil && hooks.HeaderCell == nil {
		return
	}
	for _, row := range rows {
		if hooks.HeaderRow != nil {
			row.ApplyHook(pluginName, hooks.HeaderRow(row))
		}
		if hooks.HeaderCell != nil {
			for _, cell := range row.Cells {
				cell.ApplyHook(pluginName, hooks.HeaderCell(cell))
			}
		}
	}
}
