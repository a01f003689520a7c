package app

import (
	"fmt"

	"github.com/specialistvlad/gridview/internal/value"
)

// aggregateFunc returns the group aggregate with the given name. The empty
// name returns nil, which leaves group cells blank.
func aggregateFunc(name string) (func(values []any) any, error) {
	switch name {
	case "":
		return nil, nil
	case "count":
		return func(values []any) any { return len(values) }, nil
	case "sum":
		return sum, nil
	case "min":
		return func(values []any) any { return extreme(values, -1) }, nil
	case "max":
		return func(values []any) any { return extreme(values, 1) }, nil
	case "first":
		return func(values []any) any {
			if len(values) == 0 {
				return nil
			}
			return values[0]
		}, nil
	default:
		return nil, fmt.Errorf("unknown aggregate '%s'", name)
	}
}

// sum adds the numeric values. The result is an int64 when every addend is
// whole.
func sum(values []any) any {
	var total float64
	whole := true
	for _, v := range values {
		f, ok := value.Float(v)
		if !ok {
			continue
		}
		total += f
		if f != float64(int64(f)) {
			whole = false
		}
	}
	if whole {
		return int64(total)
	}
	return total
}

// extreme returns the smallest (sign -1) or largest (sign 1) comparable
// value.
func extreme(values []any, sign int) any {
	var best any
	for _, v := range values {
		if v == nil {
			continue
		}
		if best == nil {
			best = v
			continue
		}
		if cmp, ok := value.Compare(v, best); ok && cmp*sign > 0 {
			best = v
		}
	}
	return best
}
