// Package sortby sorts rows by an ordered list of column keys.
//
// Keys apply in list order and the first non-zero comparison wins. The sort
// is stable, recurses into sub rows, and ignores keys naming columns a row
// does not have.
package sortby

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/value"
	"go.einride.tech/aip/ordering"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order is the direction of a sort key. The empty Order means unsorted.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortKey sorts by one column.
type SortKey struct {
	ID    string
	Order Order
}

// DefaultToggleOrder is the cycle Toggle walks through.
var DefaultToggleOrder = []Order{Asc, Desc, ""}

// Config configures the plugin.
type Config struct {
	InitialSortKeys []SortKey
	// DisableMultiSort makes every toggle replace the key list.
	DisableMultiSort bool
	// ToggleOrder is the cycle Toggle walks through. Defaults to
	// DefaultToggleOrder.
	ToggleOrder []Order
	// ServerSide leaves rows untouched; only the key list is tracked.
	ServerSide bool
	// Locale is a BCP 47 tag. When set, string values are compared with the
	// locale's collation.
	Locale string
}

// ColumnOptions configures one column.
type ColumnOptions struct {
	Disable bool
	// Invert flips comparisons without changing the displayed order.
	Invert bool
	// GetSortValue maps a cell value to the value compared. Columns holding
	// composite values need it, or a CompareFunc, to sort at all.
	GetSortValue func(value any) any
	CompareFunc  func(a, b any) int
}

// SortKeys is the key list with toggle helpers.
type SortKeys struct {
	*store.Writable[[]SortKey]
	toggleOrder  []Order
	disableMulti bool
}

// Order returns the order of the key for id, or "".
func (k *SortKeys) Order(id string) Order {
	for _, key := range k.Value() {
		if key.ID == id {
			return key.Order
		}
	}
	return ""
}

// Toggle advances the key for id to the next order of the toggle cycle.
// Without multi, or with multi-sort disabled, the result is the only key.
func (k *SortKeys) Toggle(id string, multi bool) {
	k.Update(func(keys []SortKey) []SortKey {
		idx := slices.IndexFunc(keys, func(key SortKey) bool { return key.ID == id })
		var current Order
		if idx >= 0 {
			current = keys[idx].Order
		}
		next := k.toggleOrder[(slices.Index(k.toggleOrder, current)+1)%len(k.toggleOrder)]

		if !multi || k.disableMulti {
			if next == "" {
				return []SortKey{}
			}
			return []SortKey{{ID: id, Order: next}}
		}
		out := slices.Clone(keys)
		switch {
		case idx < 0 && next != "":
			return append(out, SortKey{ID: id, Order: next})
		case idx < 0:
			return out
		case next == "":
			return slices.Delete(out, idx, idx+1)
		default:
			out[idx].Order = next
			return out
		}
	})
}

// Clear removes the key for id.
func (k *SortKeys) Clear(id string) {
	k.Update(func(keys []SortKey) []SortKey {
		return slices.DeleteFunc(slices.Clone(keys), func(key SortKey) bool { return key.ID == id })
	})
}

// State is exposed under the plugin's name.
type State[Item any] struct {
	SortKeys      *SortKeys
	PreSortedRows store.Readable[[]*model.BodyRow[Item]]
}

// HeaderCellProps are the props of a header cell.
type HeaderCellProps struct {
	Order    Order
	Disabled bool
	Toggle   func(multi bool)
	Clear    func()
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		options, err := table.ColumnOptionsOf[ColumnOptions](init)
		if err != nil {
			return nil, err
		}

		toggleOrder := cfg.ToggleOrder
		if len(toggleOrder) == 0 {
			toggleOrder = DefaultToggleOrder
		}
		keys := &SortKeys{
			Writable:     store.NewWritable(slices.Clone(cfg.InitialSortKeys)),
			toggleOrder:  toggleOrder,
			disableMulti: cfg.DisableMultiSort,
		}

		s := &sorter[Item]{options: options}
		if cfg.Locale != "" {
			tag, err := language.Parse(cfg.Locale)
			if err != nil {
				return nil, fmt.Errorf("locale %q: %w", cfg.Locale, err)
			}
			s.collator = collate.New(tag)
		}

		known := make(map[string]bool)
		for _, c := range store.MustGet(init.State.FlatColumns) {
			known[c.ColumnID()] = true
		}

		preSorted := store.NewRef[[]*model.BodyRow[Item]]()
		state := &State[Item]{SortKeys: keys, PreSortedRows: preSorted}

		return &table.Instance[Item]{
			State: state,
			DeriveRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				preSorted.Bind(in)
				if cfg.ServerSide {
					return in
				}
				return store.Derive2(in, keys.Writable, func(rows []*model.BodyRow[Item], sortKeys []SortKey) ([]*model.BodyRow[Item], error) {
					for _, key := range sortKeys {
						if !known[key.ID] {
							init.Logger.Warn("Ignoring sort key for unknown column.", "id", key.ID)
						}
					}
					return s.sort(rows, sortKeys), nil
				})
			},
			Hooks: model.Hooks[Item]{
				HeaderCell: func(cell *model.HeaderCell[Item]) model.ElementHook {
					id := cell.ID()
					disabled := cell.Kind != model.DataHeaderCell || options[id].Disable
					return model.ElementHook{
						Props: store.Map(keys.Writable, func(sortKeys []SortKey) any {
							props := HeaderCellProps{
								Disabled: disabled,
								Toggle:   func(bool) {},
								Clear:    func() {},
							}
							if disabled {
								return props
							}
							if i := slices.IndexFunc(sortKeys, func(k SortKey) bool { return k.ID == id }); i >= 0 {
								props.Order = sortKeys[i].Order
							}
							props.Toggle = func(multi bool) { keys.Toggle(id, multi) }
							props.Clear = func() { keys.Clear(id) }
							return props
						}),
					}
				},
			},
		}, nil
	}
}

type sorter[Item any] struct {
	options  map[string]ColumnOptions
	collator *collate.Collator
}

func (s *sorter[Item]) sort(in []*model.BodyRow[Item], keys []SortKey) []*model.BodyRow[Item] {
	out := slices.Clone(in)
	if len(keys) > 0 {
		slices.SortStableFunc(out, func(a, b *model.BodyRow[Item]) int {
			return s.compareRows(a, b, keys)
		})
	}
	for i, row := range out {
		if len(row.SubRows) == 0 {
			continue
		}
		out[i] = row.WithSubRows(s.sort(row.SubRows, keys))
	}
	return out
}

func (s *sorter[Item]) compareRows(a, b *model.BodyRow[Item], keys []SortKey) int {
	for _, key := range keys {
		cellA, okA := a.CellForID[key.ID]
		cellB, okB := b.CellForID[key.ID]
		if !okA || !okB || !cellA.IsData() || !cellB.IsData() {
			continue
		}

		opts := s.options[key.ID]
		va, vb := cellA.Value, cellB.Value
		if opts.GetSortValue != nil {
			va, vb = opts.GetSortValue(va), opts.GetSortValue(vb)
		}

		var order int
		if opts.CompareFunc != nil {
			order = opts.CompareFunc(va, vb)
		} else {
			order = s.compareValues(va, vb)
		}
		if order == 0 {
			continue
		}
		if key.Order == Desc {
			order = -order
		}
		if opts.Invert {
			order = -order
		}
		return order
	}
	return 0
}

// compareValues compares two primitive or time values. Values of different
// or composite types compare equal.
func (s *sorter[Item]) compareValues(a, b any) int {
	if s.collator != nil {
		sa, okA := a.(string)
		sb, okB := b.(string)
		if okA && okB {
			return s.collator.CompareString(sa, sb)
		}
	}
	if !sortable(a) || !sortable(b) {
		return 0
	}
	order, _ := value.Compare(a, b)
	return order
}

func sortable(v any) bool {
	if _, ok := v.(time.Time); ok {
		return true
	}
	return value.IsPrimitive(v)
}

// ParseSortKeys parses an AIP-132 order_by string such as "name desc, age".
func ParseSortKeys(orderBy string) ([]SortKey, error) {
	if strings.TrimSpace(orderBy) == "" {
		return nil, nil
	}
	var parsed ordering.OrderBy
	if err := parsed.UnmarshalString(orderBy); err != nil {
		return nil, fmt.Errorf("parse order by %q: %w", orderBy, err)
	}
	keys := make([]SortKey, len(parsed.Fields))
	for i, field := range parsed.Fields {
		keys[i] = SortKey{ID: field.Path, Order: Asc}
		if field.Desc {
			keys[i].Order = Desc
		}
	}
	return keys, nil
}
