// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"github.com/specialistvlad/gridview/internal/store"
)

// State is the read-only view of a table shared with plugins and labels.
// Every store is valid from the moment a plugin is initialized, although the
// stores fed by plugin transforms only resolve once the table is wired.
type State[Item any] struct {
	Data           store.Readable[[]Item]
	Columns        []Column[Item]
	FlatColumns    store.Readable[[]Column[Item]]
	VisibleColumns store.Readable[[]Column[Item]]
	HeaderRows     store.Readable[[]*HeaderRow[Item]]
	FooterRows     store.Readable[[]*HeaderRow[Item]]
	OriginalRows   store.Readable[[]*BodyRow[Item]]
	Rows           store.Readable[[]*BodyRow[Item]]
	PageRows       store.Readable[[]*BodyRow[Item]]
	// PluginStates maps plugin names to the State each plugin exposes. It is
	// filled while plugins are initialized, in registration order.
	PluginStates map[string]any
}

// PluginStateOf returns the state the named plugin exposes, asserted to S.
func PluginStateOf[S any, Item any](state *State[Item], name string) (S, bool) {
	var zero S
	if state == nil {
		return zero, false
	}
	raw, ok := state.PluginStates[name]
	if !ok {
		return zero, false
	}
	s, ok := raw.(S)
	return s, ok
}
