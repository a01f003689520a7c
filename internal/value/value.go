// Package value holds helpers for the dynamically typed values that data
// cells carry: primitive detection, ordering, stringification, and conversion
// from cty values produced by configuration files.
package value

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

type numberKind int

const (
	notNumber numberKind = iota
	signed
	unsigned
	floating
)

func numberOf(rv reflect.Value) numberKind {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signed
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsigned
	case reflect.Float32, reflect.Float64:
		return floating
	default:
		return notNumber
	}
}

// IsPrimitive reports whether v is nil, a bool, a string, or a number. Only
// primitives can be used directly as grouping keys or sort values.
func IsPrimitive(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String:
		return true
	default:
		return numberOf(rv) != notNumber
	}
}

// IsNumber reports whether v is any Go integer or float type.
func IsNumber(v any) bool {
	if v == nil {
		return false
	}
	return numberOf(reflect.ValueOf(v)) != notNumber
}

// Float converts any number to float64.
func Float(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch numberOf(rv) {
	case signed:
		return float64(rv.Int()), true
	case unsigned:
		return float64(rv.Uint()), true
	case floating:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// Compare orders a and b. The second result is false when the two values are
// not mutually comparable, in which case the order is 0.
//
// Numbers of any Go type compare numerically, strings bytewise, false sorts
// before true, times chronologically, and slices element by element with the
// shorter slice first on a common prefix.
func Compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, a == nil && b == nil
	}

	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	na, nb := numberOf(ra), numberOf(rb)
	switch {
	case na != notNumber && nb != notNumber:
		return compareNumbers(ra, na, rb, nb), true
	case na != notNumber || nb != notNumber:
		return 0, false
	}

	switch ra.Kind() {
	case reflect.String:
		if rb.Kind() != reflect.String {
			return 0, false
		}
		return strings.Compare(ra.String(), rb.String()), true
	case reflect.Bool:
		if rb.Kind() != reflect.Bool {
			return 0, false
		}
		return compareBools(ra.Bool(), rb.Bool()), true
	case reflect.Slice, reflect.Array:
		if rb.Kind() != reflect.Slice && rb.Kind() != reflect.Array {
			return 0, false
		}
		return compareSequences(ra, rb)
	default:
		return 0, false
	}
}

func compareNumbers(ra reflect.Value, na numberKind, rb reflect.Value, nb numberKind) int {
	switch {
	case na == signed && nb == signed:
		return cmp.Compare(ra.Int(), rb.Int())
	case na == unsigned && nb == unsigned:
		return cmp.Compare(ra.Uint(), rb.Uint())
	}
	fa, _ := Float(ra.Interface())
	fb, _ := Float(rb.Interface())
	return cmp.Compare(fa, fb)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareSequences(ra, rb reflect.Value) (int, bool) {
	n := min(ra.Len(), rb.Len())
	for i := range n {
		order, ok := Compare(ra.Index(i).Interface(), rb.Index(i).Interface())
		if !ok {
			return 0, false
		}
		if order != 0 {
			return order, true
		}
	}
	return cmp.Compare(ra.Len(), rb.Len()), true
}

// String renders v for text matching. nil renders as the empty string.
func String(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case fmt.Stringer:
		return tv.String()
	default:
		return fmt.Sprint(v)
	}
}
