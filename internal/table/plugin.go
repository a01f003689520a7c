package table

import (
	"log/slog"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
)

// ColumnsTransform derives a new leaf column list from the previous one.
type ColumnsTransform[Item any] func(store.Readable[[]model.Column[Item]]) store.Readable[[]model.Column[Item]]

// RowsTransform derives a new row sequence from the previous one.
type RowsTransform[Item any] func(store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]]

// Init is what a plugin receives when the table registers it.
type Init[Item any] struct {
	// PluginName is the name the plugin was registered under. Column option
	// bags and hook contributions are keyed by it.
	PluginName string
	// ColumnOptions maps leaf column ids to the option bag each column holds
	// for this plugin. Columns without a bag are absent.
	ColumnOptions map[string]any
	// State is shared by every plugin. Its row stores resolve once the table
	// is wired, so plugins must only read them inside derived stores or hooks.
	State  *model.State[Item]
	Logger *slog.Logger
}

// Instance is what a plugin contributes to the table. Every field is
// optional.
type Instance[Item any] struct {
	// State is the plugin's public control surface, exposed through
	// Table.PluginStates under the plugin's name.
	State             any
	DeriveFlatColumns ColumnsTransform[Item]
	DeriveRows        RowsTransform[Item]
	DerivePageRows    RowsTransform[Item]
	Hooks             model.Hooks[Item]
}

// Plugin creates a plugin instance for one table.
type Plugin[Item any] func(init Init[Item]) (*Instance[Item], error)

// ColumnOptionsOf asserts every column option bag of init to O. Bags may hold
// O or *O.
func ColumnOptionsOf[O any, Item any](init Init[Item]) (map[string]O, error) {
	out := make(map[string]O, len(init.ColumnOptions))
	for id, raw := range init.ColumnOptions {
		switch v := raw.(type) {
		case O:
			out[id] = v
		case *O:
			if v != nil {
				out[id] = *v
			}
		default:
			var want O
			return nil, model.ConfigErrorf("table.ColumnOptionsOf", "%w: plugin %q, column %q: got %T, want %T",
				model.ErrColumnOptionType, init.PluginName, id, raw, want)
		}
	}
	return out, nil
}

type registration[Item any] struct {
	name   string
	plugin Plugin[Item]
}
