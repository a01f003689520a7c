package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestIsPrimitive(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want bool
	}{
		{name: "nil", in: nil, want: true},
		{name: "string", in: "x", want: true},
		{name: "int", in: 3, want: true},
		{name: "uint8", in: uint8(3), want: true},
		{name: "float", in: 1.5, want: true},
		{name: "bool", in: true, want: true},
		{name: "map", in: map[string]any{"a": 1}, want: false},
		{name: "slice", in: []int{1}, want: false},
		{name: "struct", in: struct{ A int }{1}, want: false},
		{name: "func", in: func() {}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsPrimitive(tc.in))
		})
	}
}

func TestCompare(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	testCases := []struct {
		name   string
		a, b   any
		want   int
		wantOK bool
	}{
		{name: "ints", a: 75, b: 740, want: -1, wantOK: true},
		{name: "mixed int and float", a: 2, b: 1.5, want: 1, wantOK: true},
		{name: "uints", a: uint(3), b: uint(3), want: 0, wantOK: true},
		{name: "strings", a: "Adam", b: "Becky", want: -1, wantOK: true},
		{name: "bools", a: true, b: false, want: 1, wantOK: true},
		{name: "times", a: late, b: early, want: 1, wantOK: true},
		{name: "slices by element", a: []any{1, 2}, b: []any{1, 3}, want: -1, wantOK: true},
		{name: "slices by length", a: []int{1, 2}, b: []int{1}, want: 1, wantOK: true},
		{name: "both nil", a: nil, b: nil, want: 0, wantOK: true},
		{name: "nil and value", a: nil, b: 1, want: 0, wantOK: false},
		{name: "string and number", a: "1", b: 1, want: 0, wantOK: false},
		{name: "maps", a: map[string]int{}, b: map[string]int{}, want: 0, wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Compare(tc.a, tc.b)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "abc", String("abc"))
	assert.Equal(t, "42", String(42))
	assert.Equal(t, "1h0m0s", String(time.Hour))
}

func TestFromCty(t *testing.T) {
	in := cty.ObjectVal(map[string]cty.Value{
		"name":  cty.StringVal("Adam"),
		"age":   cty.NumberIntVal(31),
		"score": cty.NumberFloatVal(1.5),
		"admin": cty.True,
		"tags":  cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
		"note":  cty.NullVal(cty.String),
	})

	got, err := FromCty(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "Adam",
		"age":   int64(31),
		"score": 1.5,
		"admin": true,
		"tags":  []any{"a", "b"},
		"note":  nil,
	}, got)

	_, err = FromCty(cty.UnknownVal(cty.String))
	assert.Error(t, err)
}
