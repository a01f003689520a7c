package exprfilter

import (
	"testing"

	"github.com/specialistvlad/gridview/internal/filterexpr"
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/rows"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	Name   string
	Team   string
	Age    int
	Active bool
}

func members() []member {
	return []member{
		{"Adam", "core", 31, true},
		{"Becky", "web", 27, false},
		{"Cid", "core", 45, false},
	}
}

func columns() []model.Column[member] {
	return []model.Column[member]{
		&model.DataColumn[member]{ID: "name", AccessorFunc: func(m member) any { return m.Name }},
		&model.DataColumn[member]{ID: "team", AccessorFunc: func(m member) any { return m.Team }},
		&model.DataColumn[member]{ID: "age", AccessorFunc: func(m member) any { return m.Age },
			Plugins: map[string]any{"expr": ColumnOptions{Type: filterexpr.Int}}},
		&model.DataColumn[member]{ID: "active", AccessorFunc: func(m member) any { return m.Active },
			Plugins: map[string]any{"expr": ColumnOptions{Type: filterexpr.Bool}}},
		&model.DataColumn[member]{ID: "display-name", AccessorFunc: func(m member) any { return m.Name }},
		&model.DisplayColumn[member]{ID: "actions"},
	}
}

func newTable(t *testing.T, cfg Config) (*table.Table[member], *State[member]) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	tbl, err := table.New(ctx, store.Static(members()), columns(), table.WithPlugin("expr", New[member](cfg)))
	require.NoError(t, err)
	state, ok := table.PluginState[*State[member]](tbl, "expr")
	require.True(t, ok)
	return tbl, state
}

func TestFilter(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
		expected   []string
	}{
		{name: "empty", expression: "", expected: []string{"0", "1", "2"}},
		{name: "int comparison", expression: "age > 30", expected: []string{"0", "2"}},
		{name: "and", expression: `age > 30 AND team = "core" AND active = true`, expected: []string{"0"}},
		{name: "or", expression: `name = "Becky" OR age >= 45`, expected: []string{"1", "2"}},
		{name: "has", expression: `name:"ck"`, expected: []string{"1"}},
		{name: "not", expression: `NOT team = "core"`, expected: []string{"1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, state := newTable(t, Config{InitialExpression: tc.expression})
			require.NoError(t, store.MustGet(state.Err))
			assert.Equal(t, tc.expected, testutil.RowIDs(store.MustGet(tbl.Rows())))
		})
	}
}

func TestFilter_InvalidExpression(t *testing.T) {
	tbl, state := newTable(t, Config{})

	testCases := []struct {
		name       string
		expression string
	}{
		{name: "undeclared identifier", expression: "height > 2"},
		{name: "identifier that is not a valid name", expression: `display-name = "Adam"`},
		{name: "display column", expression: `actions = "x"`},
		{name: "wrong type", expression: `age = "old"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state.Expression.Set(tc.expression)
			assert.Error(t, store.MustGet(state.Err))
			assert.Len(t, store.MustGet(tbl.Rows()), 3, "rows pass through")
		})
	}

	state.Expression.Set("age < 30")
	assert.NoError(t, store.MustGet(state.Err))
	assert.Equal(t, []string{"1"}, testutil.RowIDs(store.MustGet(tbl.Rows())))
	assert.Len(t, store.MustGet(state.PreFilteredRows), 3)
}

func TestFilter_ServerSide(t *testing.T) {
	tbl, state := newTable(t, Config{InitialExpression: "age > 40", ServerSide: true})
	assert.Len(t, store.MustGet(tbl.Rows()), 3)
	assert.Equal(t, "age > 40", state.Expression.Value())
}

func TestFilterRows_SubRows(t *testing.T) {
	cols, err := model.FlattenColumns(columns())
	require.NoError(t, err)
	roots, err := rows.Build(members()[:1], cols, nil)
	require.NoError(t, err)
	children, err := rows.SubRows(members()[1:], roots[0], cols, nil)
	require.NoError(t, err)
	roots[0].Adopt(children)

	program, err := filterexpr.Compile("age > 40", map[string]filterexpr.Type{"age": filterexpr.Int})
	require.NoError(t, err)
	out, err := filterRows(roots, program)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"0>1"}, testutil.RowIDs(out[0].SubRows))
}
