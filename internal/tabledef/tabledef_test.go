package tabledef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/gridview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleHCL = `
row_id = "id"
hide   = ["notes"]

display "select" {}

column "name" {
  header = "Name"
  filter = "contains"
  filter_value = "a"
}

group "Info" {
  footer = "Totals"

  column "age" {
    header    = "Age"
    type      = "int"
    aggregate = "sum"
  }

  group "More" {
    column "team" {
      accessor      = "org.team"
      disable_group = false
    }
    column "notes" {
      searchable = false
    }
  }
}

sort {
  by     = "name desc, age"
  locale = "de"
}

filter {
  expression = "age > 30"
}

search {
  value = "core"
}

group_by {
  by = ["team"]
}

sub_rows {
  key        = "reports"
  expand_all = true
}

order {
  columns = ["age", "name"]
}

paginate {
  size  = 2
  index = 1
}

select {
  data_ids = ["1"]
}
`

const peopleYAML = `
row_id: id
hide: [notes]
columns:
  - id: select
    display: true
  - id: name
    header: Name
    filter: contains
    filter_value: a
  - header: Info
    footer: Totals
    columns:
      - id: age
        header: Age
        type: int
        aggregate: sum
      - header: More
        columns:
          - id: team
            accessor: org.team
            disable_group: false
          - id: notes
            searchable: false
sort:
  by: name desc, age
  locale: de
filter:
  expression: age > 30
search:
  value: core
group:
  by: [team]
sub_rows:
  key: reports
  expand_all: true
order:
  columns: [age, name]
paginate:
  size: 2
  index: 1
select:
  data_ids: ["1"]
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Formats(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{name: "hcl", file: "people.hcl", content: peopleHCL},
		{name: "yaml", file: "people.yaml", content: peopleYAML},
		{name: "yml", file: "people.yml", content: peopleYAML},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			m, err := Load(ctx, write(t, tc.file, tc.content))
			require.NoError(t, err)

			f := false
			expectedColumns := []*Column{
				{ID: "select", Display: true},
				{ID: "name", Header: "Name", Filter: "contains", FilterValue: "a"},
				{Header: "Info", Footer: "Totals", Columns: []*Column{
					{ID: "age", Header: "Age", Type: "int", Aggregate: "sum"},
					{Header: "More", Columns: []*Column{
						{ID: "team", Accessor: "org.team"},
						{ID: "notes", Searchable: &f},
					}},
				}},
			}
			assert.Equal(t, expectedColumns, m.Columns)
			assert.Equal(t, "id", m.RowID)
			assert.Equal(t, []string{"notes"}, m.Hide)
			assert.Equal(t, &SortDef{By: "name desc, age", Locale: "de"}, m.Sort)
			assert.Equal(t, &FilterDef{Expression: "age > 30"}, m.Filter)
			assert.Equal(t, &SearchDef{Value: "core"}, m.Search)
			assert.Equal(t, &GroupDef{By: []string{"team"}}, m.Group)
			assert.Equal(t, &SubRowsDef{Key: "reports", ExpandAll: true}, m.SubRows)
			assert.Equal(t, &OrderDef{Columns: []string{"age", "name"}}, m.Order)
			assert.Equal(t, &PaginateDef{Size: 2, Index: 1}, m.Paginate)
			assert.Equal(t, &SelectDef{DataIDs: []string{"1"}}, m.Select)
		})
	}
}

func TestLoad_OptionalPlugins(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m, err := Load(ctx, write(t, "min.hcl", `column "name" {}`))
	require.NoError(t, err)
	assert.Equal(t, []*Column{{ID: "name"}}, m.Columns)
	assert.Nil(t, m.Sort)
	assert.Nil(t, m.Paginate)
	assert.Nil(t, m.SubRows)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{name: "unsupported extension", file: "table.json", content: "{}", contains: "unsupported definition format"},
		{name: "hcl syntax", file: "bad.hcl", content: `column "name" {`, contains: "failed to parse HCL file"},
		{name: "hcl unknown block", file: "bad.hcl", content: "column \"a\" {}\nwidget {}", contains: "failed to decode HCL file"},
		{name: "hcl duplicate block", file: "dup.hcl", content: "column \"a\" {}\nsort {}\nsort {}", contains: "Duplicate \"sort\" block"},
		{name: "hcl empty group", file: "group.hcl", content: `group "Info" {}`, contains: "Empty group"},
		{name: "yaml unknown key", file: "bad.yaml", content: "columns:\n  - id: a\nwidget: 1\n", contains: "failed to decode YAML file"},
		{name: "no columns", file: "empty.yaml", content: "row_id: id\n", contains: "no columns defined"},
		{name: "duplicate ids", file: "dup.yaml", content: "columns:\n  - id: a\n  - accessor: a\n", contains: "column 'a': duplicate id"},
		{name: "missing id", file: "id.yaml", content: "columns:\n  - header: A\n", contains: "id or accessor is required"},
		{name: "unknown aggregate", file: "agg.hcl", content: "column \"a\" {\n  aggregate = \"avg\"\n}", contains: "unknown aggregate 'avg'"},
		{name: "unknown filter and type", file: "f.yaml", content: "columns:\n  - id: a\n    filter: regex\n    type: date\n", contains: "unknown filter 'regex'"},
		{name: "negative page size", file: "p.hcl", content: "column \"a\" {}\npaginate {\n  size = -1\n}", contains: "size must not be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			_, err := Load(ctx, write(t, tc.file, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	m := &Model{Columns: []*Column{
		{ID: "a", Aggregate: "avg"},
		{ID: "a", Type: "date"},
		{Header: "G", Display: true, Columns: []*Column{{ID: "b"}}},
	}}
	err := m.Validate()
	require.ErrorIs(t, err, ErrInvalidDefinition)
	for _, s := range []string{
		"column 'a': unknown aggregate 'avg'",
		"column 'a': duplicate id",
		"column 'a': unknown type 'date'",
		"column columns[2]: a group column cannot be a display column",
	} {
		assert.Contains(t, err.Error(), "\n- "+s)
	}
}
