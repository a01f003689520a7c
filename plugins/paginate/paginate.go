// Package paginate slices the derived rows into pages. It must be the last
// plugin that transforms rows: it only contributes page rows.
package paginate

import (
	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/store"
	"github.com/specialistvlad/gridview/internal/table"
)

// DefaultPageSize is used when Config.InitialPageSize is not positive.
const DefaultPageSize = 10

// Config configures the plugin.
type Config struct {
	InitialPageIndex int
	InitialPageSize  int
	// ServerSide passes rows through untouched; the page count comes from
	// ServerItemCount.
	ServerSide      bool
	ServerItemCount store.Readable[int]
}

// State is exposed under the plugin's name.
type State struct {
	PageSize  *store.Writable[int]
	PageIndex *store.Writable[int]
	// PageCount is at least 1.
	PageCount       store.Readable[int]
	HasPreviousPage store.Readable[bool]
	HasNextPage     store.Readable[bool]
}

// NextPage advances the page index when a next page exists.
func (s *State) NextPage() {
	if store.MustGet(s.HasNextPage) {
		s.PageIndex.Update(func(i int) int { return i + 1 })
	}
}

// PreviousPage moves the page index back when a previous page exists.
func (s *State) PreviousPage() {
	if store.MustGet(s.HasPreviousPage) {
		s.PageIndex.Update(func(i int) int { return i - 1 })
	}
}

func pageCount(items, pageSize int) int {
	return max(1, (items+pageSize-1)/pageSize)
}

func clampSize(size int) int {
	return max(1, size)
}

// New returns the plugin.
func New[Item any](cfg Config) table.Plugin[Item] {
	return func(init table.Init[Item]) (*table.Instance[Item], error) {
		if cfg.ServerSide && cfg.ServerItemCount == nil {
			return nil, model.ConfigErrorf("paginate.New", "server side pagination requires ServerItemCount")
		}
		size := cfg.InitialPageSize
		if size <= 0 {
			size = DefaultPageSize
		}
		pageSize := store.NewWritable(size)
		pageIndex := store.NewWritable(max(0, cfg.InitialPageIndex))

		// clamp moves the page index into range. It writes only on change, so
		// a store reading pageIndex may call it while computing.
		clamp := func(count int) int {
			idx := pageIndex.Value()
			clamped := min(max(0, idx), count-1)
			if clamped != idx {
				init.Logger.Debug("Clamping page index.", "from", idx, "to", clamped, "pageCount", count)
				pageIndex.Set(clamped)
			}
			return clamped
		}

		itemCount := cfg.ServerItemCount
		if !cfg.ServerSide {
			itemCount = store.Map(init.State.Rows, func(rs []*model.BodyRow[Item]) int { return len(rs) })
		}
		count := store.Derive2(itemCount, pageSize, func(items, size int) (int, error) {
			n := pageCount(items, clampSize(size))
			clamp(n)
			return n, nil
		})

		state := &State{
			PageSize:  pageSize,
			PageIndex: pageIndex,
			PageCount: count,
			HasPreviousPage: store.Derive2(count, pageIndex, func(_, idx int) (bool, error) {
				return idx > 0, nil
			}),
			HasNextPage: store.Derive2(count, pageIndex, func(n, idx int) (bool, error) {
				return idx < n-1, nil
			}),
		}

		return &table.Instance[Item]{
			State: state,
			DerivePageRows: func(in store.Readable[[]*model.BodyRow[Item]]) store.Readable[[]*model.BodyRow[Item]] {
				if cfg.ServerSide {
					return in
				}
				return store.Derive3(in, pageSize, pageIndex, func(rs []*model.BodyRow[Item], size, _ int) ([]*model.BodyRow[Item], error) {
					size = clampSize(size)
					idx := clamp(pageCount(len(rs), size))
					start := min(idx*size, len(rs))
					end := min(start+size, len(rs))
					return rs[start:end:end], nil
				})
			},
		}, nil
	}
}
