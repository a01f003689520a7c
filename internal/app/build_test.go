package app

import (
	"testing"

	"github.com/specialistvlad/gridview/internal/tabledef"
	"github.com/specialistvlad/gridview/plugins/colfilter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateFunc(t *testing.T) {
	values := []any{int64(3), 1.5, nil, "x", int64(2)}
	testCases := []struct {
		name     string
		values   []any
		expected any
	}{
		{name: "count", values: values, expected: 5},
		{name: "sum", values: values, expected: 6.5},
		{name: "sum", values: []any{int64(3), 4}, expected: int64(7)},
		{name: "min", values: []any{int64(3), 1.5, nil, int64(2)}, expected: 1.5},
		{name: "max", values: []any{int64(3), 1.5, nil, int64(2)}, expected: int64(3)},
		{name: "first", values: values, expected: int64(3)},
		{name: "first", values: nil, expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fn, err := aggregateFunc(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, fn(tc.values))
		})
	}

	fn, err := aggregateFunc("")
	require.NoError(t, err)
	assert.Nil(t, fn)

	_, err = aggregateFunc("avg")
	assert.ErrorContains(t, err, "unknown aggregate 'avg'")
}

func TestRangeOf(t *testing.T) {
	lo, hi := 18.0, 65.0
	testCases := []struct {
		name     string
		value    any
		expected colfilter.Range
		contains string
	}{
		{name: "nil", value: nil},
		{name: "both bounds", value: map[string]any{"min": int64(18), "max": 65.0}, expected: colfilter.Range{Min: &lo, Max: &hi}},
		{name: "open max", value: map[string]any{"min": 18}, expected: colfilter.Range{Min: &lo}},
		{name: "not an object", value: "18-65", contains: "must be an object"},
		{name: "non numeric bound", value: map[string]any{"max": "many"}, contains: "range max must be a number"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := rangeOf(tc.value)
			if tc.contains != "" {
				assert.ErrorContains(t, err, tc.contains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r)
		})
	}
}

func TestBuild_Plugins(t *testing.T) {
	def := &tabledef.Model{
		Columns: []*tabledef.Column{
			{ID: "name", Filter: "contains", FilterValue: "a"},
			{ID: "age", Filter: "range", FilterValue: map[string]any{"min": 30}},
			{ID: "actions", Display: true},
		},
		Hide:     []string{"actions"},
		Order:    &tabledef.OrderDef{Columns: []string{"age"}},
		SubRows:  &tabledef.SubRowsDef{Key: "reports"},
		Search:   &tabledef.SearchDef{Value: "x"},
		Paginate: &tabledef.PaginateDef{Size: 5},
	}

	columns, opts, err := Build(def, &Config{})
	require.NoError(t, err)
	assert.Len(t, columns, 3)
	// row id aside, one option per plugin: hide, order, sub rows, column
	// filter, filter, search, group, sort, expand, select and page.
	assert.Len(t, opts, 11)

	_, opts, err = Build(&tabledef.Model{Columns: []*tabledef.Column{{ID: "name"}}}, &Config{})
	require.NoError(t, err)
	assert.Len(t, opts, 5, "column filter, filter, group, sort and select are always registered")

	_, opts, err = Build(&tabledef.Model{Columns: []*tabledef.Column{{ID: "name"}}}, &Config{PageSize: intPtr(3)})
	require.NoError(t, err)
	assert.Len(t, opts, 6, "a page size override enables pagination")

	_, _, err = Build(&tabledef.Model{Columns: []*tabledef.Column{{ID: "age", Filter: "range", FilterValue: "x"}}}, &Config{})
	assert.ErrorContains(t, err, "column 'age'")
}
