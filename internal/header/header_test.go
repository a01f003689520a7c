package header

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item = map[string]any

func data(id string) model.Column[item] {
	return &model.DataColumn[item]{Header: id, Accessor: id}
}

// nestedColumns returns
//
//	          | Info                     |
//	| Name    |     | More               |
//	| first | last | age | status | progress |
func nestedColumns() []model.Column[item] {
	return []model.Column[item]{
		&model.GroupColumn[item]{Header: "Name", Columns: []model.Column[item]{data("firstName"), data("lastName")}},
		&model.GroupColumn[item]{Header: "Info", Footer: "info", Columns: []model.Column[item]{
			data("age"),
			&model.GroupColumn[item]{Header: "More", Columns: []model.Column[item]{data("status"), data("progress")}},
		}},
	}
}

// describe renders rows as "label[ids]/colspan" for groups and the leaf id
// for leaves. Placeholders have no label.
func describe(rows []*model.HeaderRow[item]) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		for _, cell := range row.Cells {
			if cell.IsGroup() {
				out[i] = append(out[i], fmt.Sprintf("%s%s/%d", cell.Label.Text, cell.ID(), cell.Colspan))
				continue
			}
			out[i] = append(out[i], cell.ID())
		}
	}
	return out
}

func TestRows(t *testing.T) {
	testCases := []struct {
		name       string
		columns    []model.Column[item]
		visibleIDs []string
		expected   [][]string
	}{
		{
			name:     "flat",
			columns:  []model.Column[item]{data("firstName"), data("lastName")},
			expected: [][]string{{"firstName", "lastName"}},
		},
		{
			name:    "nested, all visible",
			columns: nestedColumns(),
			expected: [][]string{
				{"[firstName]/1", "[lastName]/1", "Info[age,status,progress]/3"},
				{"Name[firstName,lastName]/2", "[age]/1", "More[status,progress]/2"},
				{"firstName", "lastName", "age", "status", "progress"},
			},
		},
		{
			name:       "nested, partially hidden",
			columns:    nestedColumns(),
			visibleIDs: []string{"firstName", "age", "progress"},
			expected: [][]string{
				{"[firstName]/1", "Info[age,progress]/2"},
				{"Name[firstName]/1", "[age]/1", "More[progress]/1"},
				{"firstName", "age", "progress"},
			},
		},
		{
			name:       "nested, reordered splits groups",
			columns:    nestedColumns(),
			visibleIDs: []string{"status", "firstName", "age"},
			expected: [][]string{
				{"Info[status]/1", "[firstName]/1", "Info[age]/1"},
				{"More[status]/1", "Name[firstName]/1", "[age]/1"},
				{"status", "firstName", "age"},
			},
		},
		{
			name:       "unknown visible ids are dropped",
			columns:    []model.Column[item]{data("firstName"), data("lastName")},
			visibleIDs: []string{"missing", "lastName"},
			expected:   [][]string{{"lastName"}},
		},
		{
			name: "display column",
			columns: []model.Column[item]{
				&model.DisplayColumn[item]{ID: "actions"},
				&model.GroupColumn[item]{Header: "Name", Columns: []model.Column[item]{data("firstName")}},
			},
			expected: [][]string{
				{"[actions]/1", "Name[firstName]/1"},
				{"actions", "firstName"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := Rows(tc.columns, tc.visibleIDs)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, describe(rows)); diff != "" {
				t.Errorf("header layout mismatch (-want +got):\n%s", diff)
			}
			for i, row := range rows {
				assert.Equal(t, fmt.Sprint(i), row.ID)
			}
		})
	}
}

func TestRows_Pure(t *testing.T) {
	columns := nestedColumns()
	visible := []string{"progress", "lastName", "firstName"}

	first, err := Rows(columns, visible)
	require.NoError(t, err)
	second, err := Rows(columns, visible)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(describe(first), describe(second)))
}

func TestRows_ColspanMatchesVisibleLeaves(t *testing.T) {
	columns := nestedColumns()
	leaves := []string{"firstName", "lastName", "age", "status", "progress"}

	// Every subset of leaves, in definition order and reversed.
	for mask := 1; mask < 1<<len(leaves); mask++ {
		var subset []string
		for i, id := range leaves {
			if mask&(1<<i) != 0 {
				subset = append(subset, id)
			}
		}
		reversed := slices.Clone(subset)
		slices.Reverse(reversed)

		for _, visible := range [][]string{subset, reversed} {
			rows, err := Rows(columns, visible)
			require.NoError(t, err)
			for _, row := range rows {
				width := 0
				for _, cell := range row.Cells {
					width += cell.Colspan
					if cell.IsGroup() {
						assert.Len(t, cell.IDs, cell.Colspan, "visible %v, cell %s", visible, cell.ID())
						for _, id := range cell.IDs {
							assert.Contains(t, cell.AllIDs, id)
						}
					} else {
						assert.Equal(t, 1, cell.Colspan)
					}
				}
				assert.Equal(t, len(visible), width, "visible %v", visible)
			}
		}
	}
}

func TestOrderColumnMatrix_RenumbersColstart(t *testing.T) {
	matrix, err := RowMatrix(nestedColumns())
	require.NoError(t, err)
	columnMatrix := Transpose(matrix)

	ordered := OrderColumnMatrix(columnMatrix, []string{"progress", "firstName"})
	require.Len(t, ordered, 2)
	for colstart, stack := range ordered {
		for rowIdx, cell := range stack {
			assert.Equal(t, colstart, cell.Colstart)
			assert.NotSame(t, columnMatrix[0][rowIdx], cell)
		}
	}

	assert.Equal(t, columnMatrix, OrderColumnMatrix(columnMatrix, nil))
}

func TestRowMatrix_GroupSlotsShareColstart(t *testing.T) {
	matrix, err := RowMatrix(nestedColumns())
	require.NoError(t, err)
	require.Len(t, matrix, 3)
	require.Len(t, matrix[0], 5)

	for col := 2; col < 5; col++ {
		cell := matrix[0][col]
		assert.Equal(t, "Info", cell.Label.Text)
		assert.Equal(t, 2, cell.Colstart)
		assert.NotSame(t, matrix[0][2], matrix[0][3], "each slot owns its cell")
	}
	assert.True(t, matrix[0][0].Placeholder)
	assert.Equal(t, []string{"firstName"}, matrix[0][0].AllIDs)
}

func TestPopulateGroupIDs_MalformedColumn(t *testing.T) {
	group := &model.HeaderCell[item]{Kind: model.GroupHeaderCell, AllIDs: []string{"a"}, Colspan: 1}
	err := PopulateGroupIDs(Matrix[item]{{group, group}})
	require.ErrorIs(t, err, model.ErrMalformedHeaderColumn)
	assert.Equal(t, model.KindInternal, model.KindOf(err))
}

func TestMergeRow(t *testing.T) {
	mk := func(all []string, ids ...string) *model.HeaderCell[item] {
		return &model.HeaderCell[item]{Kind: model.GroupHeaderCell, Colspan: 1, AllIDs: all, IDs: ids}
	}
	leaf := &model.HeaderCell[item]{Kind: model.DataHeaderCell, LeafID: "x", Colspan: 1}
	ab := []string{"a", "b"}

	cells := []*model.HeaderCell[item]{mk(ab, "a"), mk(ab, "b"), leaf, mk(ab, "a"), mk([]string{"c"}, "c")}
	merged := MergeRow(cells)
	require.Len(t, merged, 4)
	assert.Equal(t, []string{"a", "b"}, merged[0].IDs)
	assert.Equal(t, 2, merged[0].Colspan)
	assert.Equal(t, "x", merged[1].ID())
	assert.Equal(t, 1, merged[2].Colspan, "runs are broken by other cells")
	assert.Equal(t, "[c]", merged[3].ID())
	assert.Equal(t, []string{"a"}, cells[0].IDs, "inputs are not mutated")

	assert.Empty(t, MergeRow[item](nil))
}

func TestFooterRows(t *testing.T) {
	columns := []model.Column[item]{
		&model.GroupColumn[item]{Header: "Name", Columns: []model.Column[item]{data("firstName"), data("lastName")}},
		&model.GroupColumn[item]{Header: "Info", Footer: "Totals", Columns: []model.Column[item]{
			&model.DataColumn[item]{Header: "Age", Accessor: "age", Footer: "avg"},
		}},
	}

	footers, err := FooterRows(columns, nil)
	require.NoError(t, err)
	require.Len(t, footers, 2)
	assert.Equal(t, "0", footers[0].ID)
	assert.Equal(t, "avg", footers[0].Cells[2].Footer.Text, "leaf footers come first")
	assert.Equal(t, "Totals", footers[1].Cells[1].Footer.Text)

	none, err := FooterRows([]model.Column[item]{data("firstName")}, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
