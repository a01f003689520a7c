package rows

import (
	"testing"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	FirstName string
	LastName  string
	Children  []user
}

func userColumns() []model.Column[user] {
	return []model.Column[user]{
		&model.DataColumn[user]{Header: "First Name", ID: "firstName", AccessorFunc: func(u user) any { return u.FirstName }},
		&model.DataColumn[user]{Header: "Last Name", ID: "lastName", AccessorFunc: func(u user) any { return u.LastName }},
		&model.DisplayColumn[user]{Header: "Actions", ID: "actions"},
	}
}

func cellValues(row *model.BodyRow[user]) []any {
	var out []any
	for _, c := range row.Cells {
		out = append(out, c.Value)
	}
	return out
}

func TestBuild_AdamAndBecky(t *testing.T) {
	columns := []model.Column[map[string]any]{
		&model.DataColumn[map[string]any]{Header: "First Name", Accessor: "firstName"},
		&model.DataColumn[map[string]any]{Header: "Last Name", Accessor: "lastName"},
	}
	data := []map[string]any{{"firstName": "Adam"}, {"firstName": "Becky"}}

	built, err := Build(data, columns, nil)
	require.NoError(t, err)
	require.Len(t, built, 2)

	for i, name := range []string{"Adam", "Becky"} {
		row := built[i]
		assert.Equal(t, model.DataRow, row.Kind)
		assert.Equal(t, model.RootRowID(i), row.ID)
		assert.Equal(t, row.ID, row.DataID)
		assert.Equal(t, 0, row.Depth)
		assert.Nil(t, row.Parent)
		require.Len(t, row.Cells, 2)
		assert.Equal(t, name, row.Cells[0].Value)
		assert.Nil(t, row.Cells[1].Value)
		assert.Equal(t, model.RootRowID(i)+":firstName", row.Cells[0].ID())
		assert.Same(t, row, row.Cells[0].Row)
	}
}

func TestBuild_DataID(t *testing.T) {
	data := []user{{FirstName: "Adam"}, {FirstName: "Becky"}}
	built, err := Build(data, userColumns(), func(u user, _ int) string { return u.FirstName })
	require.NoError(t, err)
	assert.Equal(t, "1", built[1].ID)
	assert.Equal(t, "Becky", built[1].DataID)
}

func TestBuild_CellForIDIsComplete(t *testing.T) {
	columns := userColumns()
	built, err := Build([]user{{FirstName: "Adam", LastName: "West"}}, columns, nil)
	require.NoError(t, err)
	row := built[0]
	assert.Len(t, row.CellForID, len(columns))
	assert.Equal(t, model.DisplayCell, row.CellForID["actions"].Kind)

	_, err = Build([]user{{}}, []model.Column[user]{&model.GroupColumn[user]{}}, nil)
	require.ErrorIs(t, err, model.ErrUnknownColumnKind)
}

func TestProject(t *testing.T) {
	data := []user{
		{FirstName: "Adam", LastName: "West", Children: []user{{FirstName: "Cid", LastName: "West"}}},
		{FirstName: "Becky", LastName: "Lynch"},
	}
	columns := userColumns()
	built, err := Build(data, columns, nil)
	require.NoError(t, err)
	children, err := SubRows(data[0].Children, built[0], columns, nil)
	require.NoError(t, err)
	built[0].Adopt(children)

	order := []string{"lastName", "firstName"}
	projected := Project(built, order)
	require.Len(t, projected, 2)
	for _, row := range Flatten(projected) {
		assert.Equal(t, order, CellColumnIDs(row))
		assert.Contains(t, row.CellForID, "actions", "hidden columns stay addressable")
		for _, cell := range row.Cells {
			assert.Same(t, row, cell.Row)
		}
	}
	assert.Equal(t, []any{"West", "Adam"}, cellValues(projected[0]))
	assert.Same(t, projected[0], projected[0].SubRows[0].Parent)

	assert.Len(t, built[0].Cells, 3, "projection does not mutate its input")
	assert.Same(t, built[0], built[0].SubRows[0].Parent)
}

func TestSubRows(t *testing.T) {
	columns := userColumns()
	built, err := Build([]user{{FirstName: "Adam"}}, columns, nil)
	require.NoError(t, err)
	parent := Project(built, []string{"lastName", "firstName"})[0]

	kids := []user{{FirstName: "Cid"}, {FirstName: "Dot"}}
	subRows, err := SubRows(kids, parent, columns, nil)
	require.NoError(t, err)
	require.Len(t, subRows, 2)

	assert.Equal(t, "0>1", subRows[1].ID)
	assert.Equal(t, "0>1", subRows[1].DataID)
	assert.Equal(t, 1, subRows[1].Depth)
	assert.Same(t, parent, subRows[1].Parent)
	assert.Equal(t, []string{"lastName", "firstName"}, CellColumnIDs(subRows[1]))
	assert.Equal(t, "0>1:firstName", subRows[1].CellForID["firstName"].ID())
}

func TestWalkFlattenLeaves(t *testing.T) {
	columns := userColumns()
	built, err := Build([]user{{}, {}}, columns, nil)
	require.NoError(t, err)
	kids, err := SubRows([]user{{}, {}}, built[0], columns, nil)
	require.NoError(t, err)
	built[0].Adopt(kids)

	var ids []string
	for _, row := range Flatten(built) {
		ids = append(ids, row.ID)
	}
	assert.Equal(t, []string{"0", "0>0", "0>1", "1"}, ids)

	ids = nil
	for _, row := range Leaves(built) {
		ids = append(ids, row.ID)
	}
	assert.Equal(t, []string{"0>0", "0>1", "1"}, ids)

	visited := 0
	Walk(built, func(*model.BodyRow[user]) bool {
		visited++
		return false
	})
	assert.Equal(t, 2, visited)
}

func TestInjectStateAndHooks(t *testing.T) {
	columns := userColumns()
	columns[2].(*model.DisplayColumn[user]).Cell = func(c *model.BodyCell[user], s *model.State[user]) any {
		return len(store.MustGet(s.Data))
	}
	data := []user{{FirstName: "Adam"}}
	built, err := Build(data, columns, nil)
	require.NoError(t, err)
	projected := Project(built, []string{"firstName", "actions"})

	_, err = projected[0].Cells[1].Render()
	require.ErrorIs(t, err, model.ErrMissingState)

	state := &model.State[user]{Data: store.Static(data)}
	InjectState(projected, state)
	got, err := projected[0].Cells[1].Render()
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Same(t, state, projected[0].CellForID["lastName"].State())

	hooks := model.Hooks[user]{
		BodyCell: func(c *model.BodyCell[user]) model.ElementHook {
			return model.ElementHook{Props: store.Static[any](c.ID())}
		},
	}
	ApplyHooks(projected, "echo", hooks)
	props := store.MustGet(projected[0].Cells[0].Props())
	assert.Equal(t, "0:firstName", props["echo"])
	_, ok := projected[0].Hook("echo")
	assert.False(t, ok, "rows get no hook without a body row hook")
}
