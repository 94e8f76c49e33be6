package kvcollection

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a search criterion matches no entry.
	ErrNotFound = errors.New("not found")

	// ErrKeyNotFound is returned when no entry carries the requested key.
	// It wraps ErrNotFound, so errors.Is(err, ErrNotFound) also holds.
	ErrKeyNotFound = fmt.Errorf("key %w", ErrNotFound)

	// ErrIndexOutOfRange is returned when a position or range falls outside the collection.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyContainer is returned by First and Last on an empty collection.
	ErrEmptyContainer = errors.New("empty container")

	// ErrInvalidArguments is returned when a Criterion carries neither a key nor a value.
	ErrInvalidArguments = errors.New("invalid arguments: neither key nor value supplied")

	// ErrLengthMismatch is returned when parallel key and value slices differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrParse is returned when external input (JSON, YAML) cannot be turned into a collection.
	ErrParse = errors.New("parse error")

	// ErrReentrantMutation is the panic value used when an event handler
	// tries to mutate the collection that is currently notifying it.
	ErrReentrantMutation = errors.New("kvcollection: mutation from within an event handler")
)

func indexError(index, size int) error {
	return fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, index, size)
}

func rangeError(start, end, size int) error {
	return fmt.Errorf("%w: range [%d, %d), count %d", ErrIndexOutOfRange, start, end, size)
}
