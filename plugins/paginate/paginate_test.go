package paginate

import (
	"fmt"
	"slices"
	"testing"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func columns() []model.Column[int] {
	return []model.Column[int]{
		&model.DataColumn[int]{ID: "n", AccessorFunc: func(i int) any { return i }},
	}
}

func newTable(t *testing.T, data store.Readable[[]int], cfg Config) (*table.Table[int], *State, *testutil.SafeBuffer) {
	t.Helper()
	ctx, logs := testutil.Context(t)
	tbl, err := table.New(ctx, data, columns(), table.WithPlugin("page", New[int](cfg)))
	require.NoError(t, err)
	state, ok := table.PluginState[*State](tbl, "page")
	require.True(t, ok)
	return tbl, state, logs
}

func TestPaginate(t *testing.T) {
	testCases := []struct {
		items, size, index int
		expected           []string
		count              int
	}{
		{items: 25, size: 10, index: 0, expected: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, count: 3},
		{items: 25, size: 10, index: 2, expected: []string{"20", "21", "22", "23", "24"}, count: 3},
		{items: 25, size: 10, index: 7, expected: []string{"20", "21", "22", "23", "24"}, count: 3},
		{items: 3, size: 0, index: 0, expected: []string{"0", "1", "2"}, count: 1},
		{items: 0, size: 5, index: 0, expected: []string{}, count: 1},
		{items: 4, size: 2, index: -3, expected: []string{"0", "1"}, count: 2},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d items, size %d, index %d", tc.items, tc.size, tc.index), func(t *testing.T) {
			tbl, state, _ := newTable(t, store.Static(numbers(tc.items)), Config{InitialPageSize: tc.size, InitialPageIndex: tc.index})
			assert.Equal(t, tc.expected, testutil.RowIDs(store.MustGet(tbl.PageRows())))
			assert.Equal(t, tc.count, store.MustGet(state.PageCount))
			assert.Len(t, store.MustGet(tbl.Rows()), tc.items, "rows stay unpaginated")
		})
	}
}

func TestPaginate_PagesReproduceRows(t *testing.T) {
	for _, size := range []int{1, 3, 7, 10, 11} {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			tbl, state, _ := newTable(t, store.Static(numbers(10)), Config{InitialPageSize: size})

			var all []string
			for i := range store.MustGet(state.PageCount) {
				state.PageIndex.Set(i)
				page := store.MustGet(tbl.PageRows())
				assert.LessOrEqual(t, len(page), size)
				all = append(all, testutil.RowIDs(page)...)
			}
			assert.Equal(t, testutil.RowIDs(store.MustGet(tbl.Rows())), all)
		})
	}
}

func TestPaginate_ClampsWhenRowsShrink(t *testing.T) {
	data := store.NewWritable(numbers(25))
	tbl, state, logs := newTable(t, data, Config{InitialPageSize: 10, InitialPageIndex: 2})
	assert.Len(t, store.MustGet(tbl.PageRows()), 5)

	data.Set(numbers(12))
	assert.Equal(t, 2, store.MustGet(state.PageCount))
	assert.Equal(t, 1, state.PageIndex.Value())
	assert.Equal(t, []string{"10", "11"}, testutil.RowIDs(store.MustGet(tbl.PageRows())))
	assert.Contains(t, logs.String(), "Clamping page index.")

	data.Set(numbers(3))
	assert.Equal(t, []string{"0", "1", "2"}, testutil.RowIDs(store.MustGet(tbl.PageRows())))
	assert.Equal(t, 0, state.PageIndex.Value())
	assert.False(t, store.MustGet(state.HasNextPage))
	assert.False(t, store.MustGet(state.HasPreviousPage))
}

func TestPaginate_Navigation(t *testing.T) {
	tbl, state, _ := newTable(t, store.Static(numbers(5)), Config{InitialPageSize: 2})

	var pages [][]string
	for {
		pages = append(pages, testutil.RowIDs(store.MustGet(tbl.PageRows())))
		if !store.MustGet(state.HasNextPage) {
			break
		}
		state.NextPage()
	}
	assert.Equal(t, [][]string{{"0", "1"}, {"2", "3"}, {"4"}}, pages)

	state.PreviousPage()
	assert.Equal(t, 1, state.PageIndex.Value())
	state.PreviousPage()
	state.PreviousPage()
	assert.Equal(t, 0, state.PageIndex.Value())

	state.PageSize.Set(5)
	assert.Equal(t, 1, store.MustGet(state.PageCount))
	assert.True(t, slices.Equal([]string{"0", "1", "2", "3", "4"}, testutil.RowIDs(store.MustGet(tbl.PageRows()))))

	state.PageSize.Set(0)
	assert.Len(t, store.MustGet(tbl.PageRows()), 1, "page size is at least one")
}

func TestPaginate_ServerSide(t *testing.T) {
	total := store.NewWritable(95)
	tbl, state, _ := newTable(t, store.Static(numbers(10)), Config{ServerSide: true, ServerItemCount: total, InitialPageSize: 10, InitialPageIndex: 9})

	assert.Len(t, store.MustGet(tbl.PageRows()), 10, "server side rows are the page")
	assert.Equal(t, 10, store.MustGet(state.PageCount))
	assert.False(t, store.MustGet(state.HasNextPage))

	total.Set(30)
	assert.Equal(t, 3, store.MustGet(state.PageCount))
	assert.Equal(t, 2, state.PageIndex.Value())

	ctx, _ := testutil.Context(t)
	_, err := table.New(ctx, store.Static(numbers(1)), columns(), table.WithPlugin("page", New[int](Config{ServerSide: true})))
	assert.Equal(t, model.KindConfig, model.KindOf(err))
}
