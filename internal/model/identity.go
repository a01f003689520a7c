// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RowIDSeparator joins the positional segments of a row id.
const RowIDSeparator = ">"

// CellIDSeparator joins a row id and a column id into a cell id.
const CellIDSeparator = ":"

// RootRowID returns the id of the root row at index.
func RootRowID(index int) string {
	return strconv.Itoa(index)
}

// ChildRowID returns the id of the child at index under parentID.
func ChildRowID(parentID string, index int) string {
	return parentID + RowIDSeparator + strconv.Itoa(index)
}

// PrefixRowID rewrites id so that it lives under prefix.
func PrefixRowID(prefix, id string) string {
	return prefix + RowIDSeparator + id
}

// CellID returns the composite id of the cell at rowID and columnID.
func CellID(rowID, columnID string) string {
	return rowID + CellIDSeparator + columnID
}

// RowPath is the structured form of a positional row id, e.g. "0>3>1".
type RowPath []int

// ParseRowID parses a positional row id into its segments.
func ParseRowID(rawID string) (RowPath, error) {
	if rawID == "" {
		return nil, fmt.Errorf("row id cannot be empty")
	}

	segments := strings.Split(rawID, RowIDSeparator)
	path := make(RowPath, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("row id %q contains an empty segment", rawID)
		}
		index, err := strconv.Atoi(segment)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("invalid row id segment %q in %q", segment, rawID)
		}
		path = append(path, index)
	}
	return path, nil
}

// String serializes the path into its canonical id.
func (p RowPath) String() string {
	var sb strings.Builder
	for i, index := range p {
		if i > 0 {
			sb.WriteString(RowIDSeparator)
		}
		sb.WriteString(strconv.Itoa(index))
	}
	return sb.String()
}

// Depth returns the nesting depth, 0 for root rows.
func (p RowPath) Depth() int {
	return max(len(p)-1, 0)
}

// Parent returns the path of the parent row. The second result is false for
// root rows.
func (p RowPath) Parent() (RowPath, bool) {
	if len(p) <= 1 {
		return nil, false
	}
	return p[:len(p)-1], true
}

// Equal reports whether p and other address the same position.
func (p RowPath) Equal(other RowPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
