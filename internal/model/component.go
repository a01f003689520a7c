// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"maps"

	"github.com/specialistvlad/gridview/internal/store"
)

// ComponentKind enumerates the table components plugins can hook into.
type ComponentKind int

const (
	HeaderRowComponent ComponentKind = iota + 1
	HeaderCellComponent
	BodyRowComponent
	BodyCellComponent
)

func (k ComponentKind) String() string {
	switch k {
	case HeaderRowComponent:
		return "thead.tr"
	case HeaderCellComponent:
		return "thead.tr.th"
	case BodyRowComponent:
		return "tbody.tr"
	case BodyCellComponent:
		return "tbody.tr.td"
	default:
		return "unknown"
	}
}

// ElementHook is what one plugin contributes to one component instance.
// Either store may be nil.
type ElementHook struct {
	Props store.Readable[any]
	Attrs store.Readable[map[string]any]
}

// Hooks holds a plugin's per-component-kind hook functions. A nil field
// means the plugin does not hook that kind.
type Hooks[Item any] struct {
	HeaderRow  func(row *HeaderRow[Item]) ElementHook
	HeaderCell func(cell *HeaderCell[Item]) ElementHook
	BodyRow    func(row *BodyRow[Item]) ElementHook
	BodyCell   func(cell *BodyCell[Item]) ElementHook
}

// Kinds returns the component kinds h hooks, in enumeration order.
func (h Hooks[Item]) Kinds() []ComponentKind {
	var kinds []ComponentKind
	if h.HeaderRow != nil {
		kinds = append(kinds, HeaderRowComponent)
	}
	if h.HeaderCell != nil {
		kinds = append(kinds, HeaderCellComponent)
	}
	if h.BodyRow != nil {
		kinds = append(kinds, BodyRowComponent)
	}
	if h.BodyCell != nil {
		kinds = append(kinds, BodyCellComponent)
	}
	return kinds
}

// Component is embedded by every rendered table element. It carries the
// injected state snapshot and the hooks applied to the element, keyed by
// plugin name in application order.
type Component[Item any] struct {
	state *State[Item]
	names []string
	hooks map[string]ElementHook
}

// InjectState attaches the shared state snapshot.
func (c *Component[Item]) InjectState(s *State[Item]) {
	c.state = s
}

// State returns the injected state, or nil.
func (c *Component[Item]) State() *State[Item] {
	return c.state
}

// ApplyHook records the hook contributed by pluginName. Applying a hook for
// the same plugin again replaces the previous one.
func (c *Component[Item]) ApplyHook(pluginName string, hook ElementHook) {
	if c.hooks == nil {
		c.hooks = make(map[string]ElementHook)
	}
	if _, exists := c.hooks[pluginName]; !exists {
		c.names = append(c.names, pluginName)
	}
	c.hooks[pluginName] = hook
}

// Hook returns the hook pluginName applied.
func (c *Component[Item]) Hook(pluginName string) (ElementHook, bool) {
	h, ok := c.hooks[pluginName]
	return h, ok
}

// Props returns a store of every plugin's props keyed by plugin name.
func (c *Component[Item]) Props() store.Readable[map[string]any] {
	names := append([]string(nil), c.names...)
	hooks := maps.Clone(c.hooks)

	var deps []store.Source
	for _, name := range names {
		if p := hooks[name].Props; p != nil {
			deps = append(deps, p)
		}
	}
	return store.Derive(func() (map[string]any, error) {
		out := make(map[string]any, len(names))
		for _, name := range names {
			p := hooks[name].Props
			if p == nil {
				continue
			}
			v, err := p.Get()
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
		return out, nil
	}, deps...)
}

// attrsWith returns a store merging base with every plugin's attrs. Later
// plugins override earlier keys.
func (c *Component[Item]) attrsWith(base map[string]any) store.Readable[map[string]any] {
	names := append([]string(nil), c.names...)
	hooks := maps.Clone(c.hooks)

	var deps []store.Source
	for _, name := range names {
		if a := hooks[name].Attrs; a != nil {
			deps = append(deps, a)
		}
	}
	return store.Derive(func() (map[string]any, error) {
		out := maps.Clone(base)
		if out == nil {
			out = make(map[string]any)
		}
		for _, name := range names {
			a := hooks[name].Attrs
			if a == nil {
				continue
			}
			v, err := a.Get()
			if err != nil {
				return nil, err
			}
			maps.Copy(out, v)
		}
		return out, nil
	}, deps...)
}
