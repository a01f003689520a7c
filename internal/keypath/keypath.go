// Package keypath resolves string accessors of data columns against source
// items.
//
// An accessor is either a dotted key path (`address.city`, `tags.0`) or, when
// it starts with `$`, a full JSONPath expression evaluated with ojg. Dotted
// segments made only of digits index into arrays. Items may be generic data
// (map[string]any, []any) or Go values, which ojg walks by reflection.
package keypath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Path is a compiled accessor.
type Path struct {
	raw  string
	expr jp.Expr
}

// Parse compiles raw into a Path.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("key path cannot be empty")
	}

	if strings.HasPrefix(raw, "$") {
		expr, err := jp.ParseString(raw)
		if err != nil {
			return Path{}, fmt.Errorf("invalid key path %q: %w", raw, err)
		}
		return Path{raw: raw, expr: expr}, nil
	}

	expr := jp.R()
	for _, segment := range strings.Split(raw, ".") {
		if segment == "" {
			return Path{}, fmt.Errorf("key path %q contains an empty segment", raw)
		}
		if idx, err := strconv.Atoi(segment); err == nil && idx >= 0 {
			expr = expr.N(idx)
			continue
		}
		expr = expr.C(segment)
	}
	return Path{raw: raw, expr: expr}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Get returns the first value the path selects in data, or nil.
func (p Path) Get(data any) any {
	if p.expr == nil {
		return nil
	}
	return p.expr.First(data)
}

// String returns the accessor as written.
func (p Path) String() string {
	return p.raw
}
