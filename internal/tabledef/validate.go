package tabledef

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidDefinition wraps every validation failure.
var ErrInvalidDefinition = errors.New("invalid table definition")

var (
	types      = []string{"", "string", "int", "float", "bool", "timestamp"}
	filters    = []string{"", "contains", "equal", "range"}
	aggregates = []string{"", "count", "sum", "min", "max", "first"}
)

// Validate checks the column tree and plugin definitions. All problems are
// reported together.
func (m *Model) Validate() error {
	var errs []string
	if len(m.Columns) == 0 {
		errs = append(errs, "no columns defined")
	}
	seen := make(map[string]bool)
	var walk func(cols []*Column, path string)
	walk = func(cols []*Column, path string) {
		for i, c := range cols {
			at := fmt.Sprintf("%s[%d]", path, i)
			if c.IsGroup() {
				if c.Display {
					errs = append(errs, fmt.Sprintf("column %s: a group column cannot be a display column", at))
				}
				walk(c.Columns, at+".columns")
				continue
			}
			id := c.LeafID()
			if id == "" {
				errs = append(errs, fmt.Sprintf("column %s: id or accessor is required", at))
				continue
			}
			if seen[id] {
				errs = append(errs, fmt.Sprintf("column '%s': duplicate id", id))
			}
			seen[id] = true
			if !slices.Contains(types, c.Type) {
				errs = append(errs, fmt.Sprintf("column '%s': unknown type '%s'", id, c.Type))
			}
			if !slices.Contains(filters, c.Filter) {
				errs = append(errs, fmt.Sprintf("column '%s': unknown filter '%s'", id, c.Filter))
			}
			if !slices.Contains(aggregates, c.Aggregate) {
				errs = append(errs, fmt.Sprintf("column '%s': unknown aggregate '%s'", id, c.Aggregate))
			}
		}
	}
	walk(m.Columns, "columns")

	if m.Paginate != nil && m.Paginate.Size < 0 {
		errs = append(errs, "paginate: size must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalidDefinition, strings.Join(errs, "\n- "))
	}
	return nil
}

// LeafID returns the id of a leaf column: its ID, or its accessor when no
// ID is set.
func (c *Column) LeafID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Accessor
}
