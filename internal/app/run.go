package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridview/internal/ctxlog"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/plugins/expand"
	"github.com/specialistvlad/gridview/plugins/exprfilter"
)

// Run builds the table and renders it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	tbl, err := a.Table(ctx)
	if err != nil {
		return err
	}
	if err := Render(a.outW, tbl); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Table builds the table of the loaded definition and data, with the
// configured overrides applied.
func (a *App) Table(ctx context.Context) (*table.Table[Item], error) {
	columns, opts, err := Build(a.def, a.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	tp := newTracerProvider(a.logger)
	opts = append(opts, table.WithTracerProvider[Item](tp))

	tbl, err := table.New(ctx, store.Static(a.items), columns, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	if filter, ok := table.PluginState[*exprfilter.State[Item]](tbl, PluginFilter); ok {
		if err := store.MustGet(filter.Err); err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
	}
	if ex, ok := table.PluginState[*expand.State[Item]](tbl, PluginExpand); ok && (a.config.ExpandAll || a.def.SubRows.ExpandAll) {
		if err := ex.ExpandAll(); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
