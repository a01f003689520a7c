package table

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/gridview/internal/ctxlog"
	"github.com/specialistvlad/gridview/internal/header"
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/rows"
	"github.com/specialistvlad/gridview/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/specialistvlad/gridview/internal/table"

// Option configures New.
type Option[Item any] func(*options[Item])

type options[Item any] struct {
	plugins        []registration[Item]
	dataID         rows.DataIDFunc[Item]
	tracerProvider trace.TracerProvider
}

// WithPlugin registers p under name. Plugins compose in registration order.
func WithPlugin[Item any](name string, p Plugin[Item]) Option[Item] {
	return func(o *options[Item]) {
		o.plugins = append(o.plugins, registration[Item]{name: name, plugin: p})
	}
}

// WithRowDataID derives the content-stable data id of every root row.
func WithRowDataID[Item any](fn rows.DataIDFunc[Item]) Option[Item] {
	return func(o *options[Item]) {
		o.dataID = fn
	}
}

// WithTracerProvider sets the provider stage spans are recorded with. The
// global provider is used by default.
func WithTracerProvider[Item any](tp trace.TracerProvider) Option[Item] {
	return func(o *options[Item]) {
		o.tracerProvider = tp
	}
}

// Table is the view model of one table.
type Table[Item any] struct {
	logger *slog.Logger
	tracer trace.Tracer
	dataID rows.DataIDFunc[Item]

	state     *model.State[Item]
	instances []namedInstance[Item]

	visibleColumns store.Readable[[]model.Column[Item]]
	headerRows     store.Readable[[]*model.HeaderRow[Item]]
	footerRows     store.Readable[[]*model.HeaderRow[Item]]
	originalRows   store.Readable[[]*model.BodyRow[Item]]
	rows           store.Readable[[]*model.BodyRow[Item]]
	pageRows       store.Readable[[]*model.BodyRow[Item]]
}

type namedInstance[Item any] struct {
	name     string
	instance *Instance[Item]
}

// New builds the view model of columns over data. ctx must carry a logger
// (see ctxlog). Column and plugin configuration errors are returned here;
// errors raised while deriving rows are returned by the stores.
func New[Item any](ctx context.Context, data store.Readable[[]Item], columns []model.Column[Item], opts ...Option[Item]) (*Table[Item], error) {
	const op = "table.New"

	var o options[Item]
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	logger := ctxlog.FromContext(ctx).With("component", "table")

	flat, err := model.FlattenColumns(columns)
	if err != nil {
		return nil, err
	}

	visibleRef := store.NewRef[[]model.Column[Item]]()
	headerRef := store.NewRef[[]*model.HeaderRow[Item]]()
	footerRef := store.NewRef[[]*model.HeaderRow[Item]]()
	originalRef := store.NewRef[[]*model.BodyRow[Item]]()
	rowsRef := store.NewRef[[]*model.BodyRow[Item]]()
	pageRowsRef := store.NewRef[[]*model.BodyRow[Item]]()

	t := &Table[Item]{
		logger: logger,
		tracer: o.tracerProvider.Tracer(instrumentationName),
		dataID: o.dataID,
		state: &model.State[Item]{
			Data:           store.ReadOnly(data),
			Columns:        columns,
			FlatColumns:    store.Static(flat),
			VisibleColumns: visibleRef,
			HeaderRows:     headerRef,
			FooterRows:     footerRef,
			OriginalRows:   originalRef,
			Rows:           rowsRef,
			PageRows:       pageRowsRef,
			PluginStates:   make(map[string]any, len(o.plugins)),
		},
		visibleColumns: visibleRef,
		headerRows:     headerRef,
		footerRows:     footerRef,
		originalRows:   originalRef,
		rows:           rowsRef,
		pageRows:       pageRowsRef,
	}

	for _, reg := range o.plugins {
		if _, exists := t.state.PluginStates[reg.name]; exists {
			return nil, model.ConfigErrorf(op, "%w: %q", model.ErrDuplicatePlugin, reg.name)
		}
		logger.Debug("Registering plugin.", "plugin", reg.name)

		columnOptions := make(map[string]any)
		for _, c := range flat {
			if bag, ok := model.PluginOptions(c, reg.name); ok {
				columnOptions[c.ColumnID()] = bag
			}
		}
		instance, err := reg.plugin(Init[Item]{
			PluginName:    reg.name,
			ColumnOptions: columnOptions,
			State:         t.state,
			Logger:        logger.With("plugin", reg.name),
		})
		if err != nil {
			return nil, model.ConfigErrorf(op, "plugin %q: %w", reg.name, err)
		}
		if instance == nil {
			instance = &Instance[Item]{}
		}
		t.state.PluginStates[reg.name] = instance.State
		t.instances = append(t.instances, namedInstance[Item]{name: reg.name, instance: instance})
	}

	t.wire(data, columns, flat, visibleRef, headerRef, footerRef, originalRef, rowsRef, pageRowsRef)
	logger.Debug("Table wired.", "columns", len(flat), "plugins", len(t.instances))
	return t, nil
}

func (t *Table[Item]) wire(
	data store.Readable[[]Item],
	columns []model.Column[Item],
	flat []model.Column[Item],
	visibleRef *store.Ref[[]model.Column[Item]],
	headerRef, footerRef *store.Ref[[]*model.HeaderRow[Item]],
	originalRef, rowsRef, pageRowsRef *store.Ref[[]*model.BodyRow[Item]],
) {
	var visible store.Readable[[]model.Column[Item]] = store.Static(flat)
	for _, ni := range t.instances {
		if ni.instance.DeriveFlatColumns != nil {
			visible = ni.instance.DeriveFlatColumns(visible)
		}
	}
	visibleRef.Bind(visible)

	headerRef.Bind(store.Derive1(visible, func(cols []model.Column[Item]) ([]*model.HeaderRow[Item], error) {
		var out []*model.HeaderRow[Item]
		err := t.stage("header_rows", func() (int, error) {
			var err error
			out, err = header.Rows(columns, model.ColumnIDs(cols))
			if err != nil {
				return 0, err
			}
			header.InjectState(out, t.state)
			for _, ni := range t.instances {
				header.ApplyHooks(out, ni.name, ni.instance.Hooks)
			}
			return len(out), nil
		})
		return out, err
	}))

	footerRef.Bind(store.Derive1(visible, func(cols []model.Column[Item]) ([]*model.HeaderRow[Item], error) {
		out, err := header.FooterRows(columns, model.ColumnIDs(cols))
		if err != nil {
			return nil, err
		}
		header.InjectState(out, t.state)
		return out, nil
	}))

	original := store.Derive1(data, func(items []Item) ([]*model.BodyRow[Item], error) {
		var out []*model.BodyRow[Item]
		err := t.stage("original_rows", func() (int, error) {
			var err error
			out, err = rows.Build(items, flat, t.dataID)
			return len(out), err
		})
		return out, err
	})
	originalRef.Bind(original)

	var derived store.Readable[[]*model.BodyRow[Item]] = store.Derive2(original, visible,
		func(in []*model.BodyRow[Item], cols []model.Column[Item]) ([]*model.BodyRow[Item], error) {
			var out []*model.BodyRow[Item]
			err := t.stage("columned_rows", func() (int, error) {
				out = rows.Project(in, model.ColumnIDs(cols))
				return len(out), nil
			})
			return out, err
		})
	for _, ni := range t.instances {
		if ni.instance.DeriveRows != nil {
			derived = ni.instance.DeriveRows(derived)
		}
	}
	injected := store.Derive1(derived, func(in []*model.BodyRow[Item]) ([]*model.BodyRow[Item], error) {
		err := t.stage("rows", func() (int, error) {
			t.decorate(in)
			return len(in), nil
		})
		return in, err
	})
	rowsRef.Bind(injected)

	var paged store.Readable[[]*model.BodyRow[Item]] = injected
	for _, ni := range t.instances {
		if ni.instance.DerivePageRows != nil {
			paged = ni.instance.DerivePageRows(paged)
		}
	}
	pageRowsRef.Bind(store.Derive1(paged, func(in []*model.BodyRow[Item]) ([]*model.BodyRow[Item], error) {
		err := t.stage("page_rows", func() (int, error) {
			t.decorate(in)
			return len(in), nil
		})
		return in, err
	}))
}

// decorate injects the shared state into rows and applies every plugin's
// body hooks, in registration order.
func (t *Table[Item]) decorate(in []*model.BodyRow[Item]) {
	rows.InjectState(in, t.state)
	for _, ni := range t.instances {
		rows.ApplyHooks(in, ni.name, ni.instance.Hooks)
	}
}

// State returns the shared state snapshot.
func (t *Table[Item]) State() *model.State[Item] { return t.state }

// Columns returns the column tree the table was built from.
func (t *Table[Item]) Columns() []model.Column[Item] { return t.state.Columns }

// FlatColumns returns every leaf column in definition order.
func (t *Table[Item]) FlatColumns() store.Readable[[]model.Column[Item]] { return t.state.FlatColumns }

// VisibleColumns returns the leaf columns after every plugin column transform.
func (t *Table[Item]) VisibleColumns() store.Readable[[]model.Column[Item]] {
	return t.visibleColumns
}

// HeaderRows returns the header layout of the visible columns.
func (t *Table[Item]) HeaderRows() store.Readable[[]*model.HeaderRow[Item]] { return t.headerRows }

// FooterRows returns the footer layout of the visible columns.
func (t *Table[Item]) FooterRows() store.Readable[[]*model.HeaderRow[Item]] { return t.footerRows }

// OriginalRows returns one row per data item, before projection and plugin
// transforms.
func (t *Table[Item]) OriginalRows() store.Readable[[]*model.BodyRow[Item]] { return t.originalRows }

// Rows returns the fully derived rows before pagination.
func (t *Table[Item]) Rows() store.Readable[[]*model.BodyRow[Item]] { return t.rows }

// PageRows returns the rows of the current page.
func (t *Table[Item]) PageRows() store.Readable[[]*model.BodyRow[Item]] { return t.pageRows }

// PluginStates returns the exposed state of every plugin keyed by name.
func (t *Table[Item]) PluginStates() map[string]any { return t.state.PluginStates }

// PluginState returns the exposed state of the named plugin asserted to S.
func PluginState[S any, Item any](t *Table[Item], name string) (S, bool) {
	return model.PluginStateOf[S](t.state, name)
}
