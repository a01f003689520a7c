package selection

import (
	"context"
	"testing"

	"github.com/specialistvlad/gridview/internal/ctxlog"
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/testutil"
	"github.com/specialistvlad/gridview/plugins/groupby"
	"github.com/specialistvlad/gridview/plugins/paginate"
	"github.com/specialistvlad/gridview/plugins/sortby"
	"github.com/specialistvlad/gridview/plugins/subrows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name    string
	Team    string
	Reports []person
}

func people() []person {
	return []person{
		{Name: "Adam", Team: "core"},
		{Name: "Becky", Team: "web"},
		{Name: "Cid", Team: "core"},
		{Name: "Dana", Team: "web"},
	}
}

func columns() []model.Column[person] {
	return []model.Column[person]{
		&model.DataColumn[person]{ID: "name", AccessorFunc: func(p person) any { return p.Name }},
		&model.DataColumn[person]{ID: "team", AccessorFunc: func(p person) any { return p.Team }},
	}
}

func byName(p person, _ int) string { return p.Name }

func newTable(t *testing.T, data []person, opts ...table.Option[person]) (*table.Table[person], *State[person]) {
	t.Helper()
	ctx := ctxlog.Discard(context.Background())
	tbl, err := table.New(ctx, store.Static(data), columns(), opts...)
	require.NoError(t, err)
	state, ok := table.PluginState[*State[person]](tbl, "select")
	require.True(t, ok)
	return tbl, state
}

func props(t *testing.T, row *model.BodyRow[person]) BodyRowProps {
	t.Helper()
	p, ok := store.MustGet(row.Props())["select"].(BodyRowProps)
	require.True(t, ok)
	return p
}

func TestSelection_Rows(t *testing.T) {
	tbl, state := newTable(t, people(),
		table.WithRowDataID(byName),
		table.WithPlugin("select", New[person](Config{InitialSelectedDataIDs: []string{"Cid"}})),
	)
	out := store.MustGet(tbl.Rows())

	assert.False(t, props(t, out[0]).Selected)
	assert.True(t, props(t, out[2]).Selected)
	assert.True(t, store.MustGet(state.SomeRowsSelected))
	assert.False(t, store.MustGet(state.AllRowsSelected))

	props(t, out[0]).SetSelected(true)
	assert.Equal(t, map[string]bool{"Adam": true, "Cid": true}, state.SelectedDataIDs.Value())
	assert.True(t, store.MustGet(state.GetRowState(out[0])).IsSelected)

	props(t, out[2]).SetSelected(false)
	assert.Equal(t, map[string]bool{"Adam": true}, state.SelectedDataIDs.Value())

	require.NoError(t, state.ToggleAllRows())
	assert.True(t, store.MustGet(state.AllRowsSelected))
	assert.Len(t, state.SelectedDataIDs.Value(), 4)

	require.NoError(t, state.ToggleAllRows())
	assert.Empty(t, state.SelectedDataIDs.Value())
	assert.False(t, store.MustGet(state.SomeRowsSelected))
}

func TestSelection_SurvivesSorting(t *testing.T) {
	tbl, state := newTable(t, people(),
		table.WithRowDataID(byName),
		table.WithPlugin("sort", sortby.New[person](sortby.Config{InitialSortKeys: []sortby.SortKey{{ID: "name", Order: sortby.Desc}}})),
		table.WithPlugin("select", New[person](Config{InitialSelectedDataIDs: []string{"Becky"}})),
	)
	out := store.MustGet(tbl.Rows())
	require.Equal(t, []string{"Dana", "Cid", "Becky", "Adam"}, testutil.DataIDs(out))

	assert.True(t, store.MustGet(state.GetRowState(out[2])).IsSelected)
	assert.False(t, store.MustGet(state.GetRowState(out[1])).IsSelected)
}

func TestSelection_PageRows(t *testing.T) {
	tbl, state := newTable(t, people(),
		table.WithRowDataID(byName),
		table.WithPlugin("select", New[person](Config{})),
		table.WithPlugin("page", paginate.New[person](paginate.Config{InitialPageSize: 2})),
	)
	page, ok := table.PluginState[*paginate.State](tbl, "page")
	require.True(t, ok)

	require.NoError(t, state.ToggleAllPageRows())
	assert.Equal(t, map[string]bool{"Adam": true, "Becky": true}, state.SelectedDataIDs.Value())
	assert.True(t, store.MustGet(state.AllPageRowsSelected))
	assert.False(t, store.MustGet(state.AllRowsSelected))
	assert.True(t, store.MustGet(state.SomeRowsSelected))

	page.PageIndex.Set(1)
	assert.False(t, store.MustGet(state.SomePageRowsSelected))
	assert.False(t, store.MustGet(state.AllPageRowsSelected))

	require.NoError(t, state.ToggleAllPageRows())
	assert.True(t, store.MustGet(state.AllRowsSelected))
	assert.Len(t, store.MustGet(tbl.PageRows()), 2)
}

func TestSelection_EmptyRows(t *testing.T) {
	_, state := newTable(t, nil, table.WithPlugin("select", New[person](Config{})))
	assert.False(t, store.MustGet(state.AllRowsSelected), "nothing to select is not all selected")
	assert.False(t, store.MustGet(state.SomeRowsSelected))
}

func TestSelection_GroupRows(t *testing.T) {
	tbl, state := newTable(t, people(),
		table.WithRowDataID(byName),
		table.WithPlugin("group", groupby.New[person](groupby.Config{InitialGroupByIDs: []string{"team"}})),
		table.WithPlugin("select", New[person](Config{InitialSelectedDataIDs: []string{"Adam"}})),
	)
	out := store.MustGet(tbl.Rows())
	require.Len(t, out, 2)
	core := out[0]
	require.False(t, core.IsData())

	assert.Equal(t, RowState{IsSomeSubRowsSelected: true}, store.MustGet(state.GetRowState(core)))
	assert.True(t, store.MustGet(state.SomeRowsSelected))

	props(t, core).SetSelected(true)
	assert.Equal(t, map[string]bool{"Adam": true, "Cid": true}, state.SelectedDataIDs.Value())
	assert.Equal(t, RowState{IsSelected: true, IsSomeSubRowsSelected: true, IsAllSubRowsSelected: true}, store.MustGet(state.GetRowState(core)))
	assert.False(t, store.MustGet(state.AllRowsSelected))

	props(t, core).SetSelected(false)
	assert.Empty(t, state.SelectedDataIDs.Value())
}

func TestSelection_LinkDataSubRows(t *testing.T) {
	data := []person{
		{Name: "Adam", Reports: []person{{Name: "Becky"}, {Name: "Cid"}}},
		{Name: "Dana"},
	}
	children := subrows.New(subrows.Config[person]{Children: func(p person) []person { return p.Reports }})

	testCases := []struct {
		name     string
		link     bool
		expected map[string]bool
		parent   RowState
	}{
		{
			name:     "linked",
			link:     true,
			expected: map[string]bool{"0": true, "0>0": true, "0>1": true},
			parent:   RowState{IsSelected: true, IsSomeSubRowsSelected: true, IsAllSubRowsSelected: true},
		},
		{
			name:     "unlinked",
			expected: map[string]bool{"0": true},
			parent:   RowState{IsSelected: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, state := newTable(t, data,
				table.WithPlugin("sub", children),
				table.WithPlugin("select", New[person](Config{LinkDataSubRows: tc.link})),
			)
			adam := store.MustGet(tbl.Rows())[0]
			require.Len(t, adam.SubRows, 2)

			state.SetSelected(adam, true)
			assert.Equal(t, tc.expected, state.SelectedDataIDs.Value())
			assert.Equal(t, tc.parent, store.MustGet(state.GetRowState(adam)))
		})
	}
}

func TestSelection_HookStoresDoNotAccumulate(t *testing.T) {
	data := make([]person, 20)
	for i := range data {
		data[i] = person{Name: string(rune('A' + i)), Team: "core"}
	}
	tbl, state := newTable(t, data,
		table.WithRowDataID(byName),
		table.WithPlugin("select", New[person](Config{})),
		table.WithPlugin("page", paginate.New[person](paginate.Config{InitialPageSize: 5})),
	)
	page, ok := table.PluginState[*paginate.State](tbl, "page")
	require.True(t, ok)

	read := func() {
		for _, row := range store.MustGet(tbl.PageRows()) {
			props(t, row)
		}
		store.MustGet(state.AllPageRowsSelected)
	}
	read()
	baseline := state.SelectedDataIDs.ListenerCount()

	for i := range 100 {
		page.PageIndex.Set(i % 4)
		read()
	}
	assert.Equal(t, baseline, state.SelectedDataIDs.ListenerCount())
	assert.Equal(t, 1, page.PageIndex.ListenerCount(), "only the page rows stage listens to the page index")

	out := store.MustGet(tbl.PageRows())
	props(t, out[0]).SetSelected(true)
	assert.True(t, props(t, out[0]).Selected)
}
