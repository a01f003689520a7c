// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model defines the data model of the table view model: the column
// definition tree a caller writes, the header cells and body rows the engine
// derives from it, the component hook registry plugins attach presentation
// data through, and the shared state snapshot handed to plugins and labels.
//
// # Core Concepts
//
//   - Column: an immutable input node. DataColumn reads a value from each
//     item, DisplayColumn renders without a value, GroupColumn nests other
//     columns under a shared header. Variants are told apart by ColumnKind.
//
//   - HeaderRow / HeaderCell: one row of the header layout matrix. Leaf cells
//     have colspan 1; group cells span their visible leaf descendants.
//
//   - BodyRow / BodyCell: one snapshot of a row at some pipeline stage. A row
//     owns its cells; Cells holds the visible, ordered subset while CellForID
//     holds every leaf column, hidden or not.
//
//   - State: the read-only set of stores describing the whole table. It is
//     injected into rows and cells so dynamic labels can read it.
//
// Why a separate model package?
//
// The header layout engine, the row pipeline, the table wiring and every
// plugin all exchange these types. Keeping them in one leaf package lets each
// of those depend on the model without depending on each other.
//
// # Snapshots and cloning
//
// Rows and cells are immutable by convention once a pipeline stage has
// returned them. A stage that needs a structurally different row calls Clone
// or WithSubRows, which copy scalar fields, rebuild the owned cell collections
// and repoint every back-reference at the new instance.
package model
