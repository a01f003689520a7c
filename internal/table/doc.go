// Package table wires the view model of a table.
//
// New flattens the column tree, registers plugins in order and builds a graph
// of derived stores:
//
//	flat columns -> plugin column transforms -> visible columns -> header rows
//	data -> original rows -> projected rows -> plugin row transforms -> rows
//	rows -> plugin page row transforms -> page rows
//
// After rows, page rows and header rows recompute, the shared state is
// injected into every row and cell and each plugin's hooks are applied.
// Nothing is computed until a store is read. Recomputation errors are cached
// by the failing store and returned by every store downstream of it.
//
// Registration order is part of the configuration: every transform category
// composes in the order plugins were passed to New.
package table
