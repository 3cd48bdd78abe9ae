// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrEmptyTitle  = errors.New("empty title")
	ErrBadSnapshot = errors.New("bad snapshot")
)
