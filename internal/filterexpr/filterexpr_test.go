package filterexpr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idents = map[string]Type{
	"name":   String,
	"age":    Int,
	"score":  Float,
	"joined": Timestamp,
}

func lookupFor(row map[string]any) Lookup {
	return func(ident string) (any, bool) {
		v, ok := row[ident]
		return v, ok
	}
}

func TestProgram_Match(t *testing.T) {
	adam := map[string]any{
		"name":   "Adam",
		"age":    31,
		"score":  7.5,
		"joined": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	testCases := []struct {
		name   string
		filter string
		want   bool
	}{
		{name: "blank", filter: "  ", want: true},
		{name: "equals", filter: `name = "Adam"`, want: true},
		{name: "not equals", filter: `name != "Adam"`, want: false},
		{name: "greater than", filter: "age > 30", want: true},
		{name: "less equals", filter: "age <= 30", want: false},
		{name: "float", filter: "score >= 7.5", want: true},
		{name: "and", filter: `age > 30 AND name = "Becky"`, want: false},
		{name: "or", filter: `age > 40 OR name = "Adam"`, want: true},
		{name: "not", filter: "NOT age > 40", want: true},
		{name: "implicit and", filter: `age > 30 name = "Adam"`, want: true},
		{name: "timestamp", filter: `joined > timestamp("2024-01-01T00:00:00Z")`, want: true},
		{name: "timestamp string", filter: `joined < "2024-02-01T00:00:00Z"`, want: false},
		{name: "has", filter: `name:"da"`, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Compile(tc.filter, idents)
			require.NoError(t, err)
			got, err := p.Match(lookupFor(adam))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.filter == "  ", p.String() == "")
		})
	}
}

func TestProgram_MissingValue(t *testing.T) {
	p, err := Compile(`name = "Adam"`, idents)
	require.NoError(t, err)
	got, err := p.Match(lookupFor(map[string]any{}))
	require.NoError(t, err)
	assert.False(t, got)

	p, err = Compile(`name != "Adam"`, idents)
	require.NoError(t, err)
	got, err = p.Match(lookupFor(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, got, "a missing value differs from every constant")
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		filter string
		idents map[string]Type
	}{
		{name: "unknown identifier", filter: "height > 3", idents: idents},
		{name: "syntax", filter: "age >", idents: idents},
		{name: "type mismatch", filter: `age = "old"`, idents: idents},
		{name: "bad identifier type", filter: "x = 1", idents: map[string]Type{"x": "complex"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.filter, tc.idents)
			assert.Error(t, err)
		})
	}
}

func TestNilProgramMatches(t *testing.T) {
	var p *Program
	got, err := p.Match(nil)
	require.NoError(t, err)
	assert.True(t, got)
}
