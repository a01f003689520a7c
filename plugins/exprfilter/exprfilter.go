// Package exprfilter filters rows with an AIP-160 filter expression such as
// `age > 30 AND team = "core"`.
//
// Every data column whose id is a valid identifier is declared to the
// expression checker. An expression that fails to compile leaves rows
// unfiltered and is reported through State.Err.
package exprfilter

import (
	"regexp"

	"github.com/specialistvlad/gridview/internal/filterexpr"
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config configures the plugin.
type Config struct {
	InitialExpression string
	// ServerSide leaves rows untouched; only the expression is tracked.
	ServerSide bool
}

// ColumnOptions configures one column.
type ColumnOptions struct {
	// Type declares the column's value type to the checker. Defaults to
	// filterexpr.String.
	Type filterexpr.Type
	// Exclude keeps the column out of the declared identifiers.
	Exclude bool
}

type compiled struct {
	program *filterexpr.Program
	err     error
}

// State is exposed under the plugin's name.
type State[Item any] struct {
	Expression *store.Writable[string]
	// Err holds the compile error of the current expression, or nil.
	Err             store.Readable[error]
	PreFilteredRows store.Readable[[]*model.BodyRow[Item]]
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		options, err := table.ColumnOptionsOf[ColumnOptions](init)
		if err != nil {
			return nil, err
		}

		idents := make(map[string]filterexpr.Type)
		for _, c := range store.MustGet(init.State.FlatColumns) {
			id := c.ColumnID()
			opts := options[id]
			if c.Kind() != model.DataColumnKind || opts.Exclude || !identPattern.MatchString(id) {
				continue
			}
			idents[id] = opts.Type
		}

		expression := store.NewWritable(cfg.InitialExpression)
		program := store.Map(expression, func(raw string) compiled {
			p, err := filterexpr.Compile(raw, idents)
			if err != nil {
				init.Logger.Debug("Filter expression rejected.", "expression", raw, "error", err)
			}
			return compiled{program: p, err: err}
		})

		preFiltered := store.NewRef[[]*model.BodyRow[Item]]()
		state := &State[Item]{
			Expression:      expression,
			Err:             store.Map(program, func(c compiled) error { return c.err }),
			PreFilteredRows: preFiltered,
		}

		return &table.Instance[Item]{
			State: state,
			DeriveRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				preFiltered.Bind(in)
				if cfg.ServerSide {
					return in
				}
				return store.Derive2(in, program, func(rows []*model.BodyRow[Item], c compiled) ([]*model.BodyRow[Item], error) {
					if c.err != nil {
						return rows, nil
					}
					return filterRows(rows, c.program)
				})
			},
		}, nil
	}
}

func filterRows[Item any](in []*model.BodyRow[Item], program *filterexpr.Program) ([]*model.BodyRow[Item], error) {
	out := make([]*model.BodyRow[Item], 0, len(in))
	for _, row := range in {
		if len(row.SubRows) > 0 {
			subRows, err := filterRows(row.SubRows, program)
			if err != nil {
				return nil, err
			}
			if len(subRows) > 0 {
				out = append(out, row.WithSubRows(subRows))
				continue
			}
		}
		ok, err := program.Match(lookup(row))
		if err != nil {
			return nil, model.UsageErrorf("exprfilter", "row %s: %w", row.ID, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func lookup[Item any](row *model.BodyRow[Item]) filterexpr.Lookup {
	return func(ident string) (any, bool) {
		cell, ok := row.CellForID[ident]
		if !ok || !cell.IsData() {
			return nil, false
		}
		return cell.Value, true
	}
}
