// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/gridview/internal/store"
)

// ErrorKind identifies the category of an error raised by the engine.
type ErrorKind int

const (
	// KindUnknown indicates an error not raised by the engine itself.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid column or plugin configuration.
	KindConfig
	// KindUsage indicates an API used out of order, such as rendering a
	// dynamic label before state injection.
	KindUsage
	// KindInternal indicates a broken internal invariant.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindUsage:
		return "usage"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

var (
	ErrDuplicateColumnID     = errors.New("duplicate column id")
	ErrMissingColumnID       = errors.New("missing column id")
	ErrInvalidAccessor       = errors.New("invalid column accessor")
	ErrUnknownColumnKind     = errors.New("unrecognized column kind")
	ErrUnknownCellKind       = errors.New("unrecognized cell kind")
	ErrMalformedHeaderColumn = errors.New("malformed header column")
	ErrNonPrimitiveGroupKey  = errors.New("non-primitive group key")
	ErrMissingState          = errors.New("state not injected")
	ErrDuplicatePlugin       = errors.New("duplicate plugin name")
	ErrColumnOptionType      = errors.New("column option type mismatch")
	ErrStoreUnbound          = store.ErrUnbound
)

// Error is a categorized engine error.
type Error struct {
	// Op is the operation that failed (e.g., "model.FlattenColumns").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error, usually wrapping one of the sentinels.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ConfigErrorf returns a KindConfig error for op.
func ConfigErrorf(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindConfig, Err: fmt.Errorf(format, args...)}
}

// UsageErrorf returns a KindUsage error for op.
func UsageErrorf(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindUsage, Err: fmt.Errorf(format, args...)}
}

// InternalErrorf returns a KindInternal error for op.
func InternalErrorf(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindInternal, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
