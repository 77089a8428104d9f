// Package collection implements the editor used by every repeatable portfolio
// section: an ordered list of entries keyed by immutable ids, edited through
// pure copy-on-write operations, plus the open/collapsed state of each entry.
//
// Nothing in this package performs I/O. Callers own the data and receive every
// next version of it through a change callback.
package collection

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
)

// Entry is one record of a collection.
type Entry interface {
	EntryID() string
}

// Factory builds a new entry with the given id and default field values.
type Factory[T Entry] func(id string) T

// Append returns a new sequence with e added at the end. The input is not modified.
func Append[T Entry](entries []T, e T) []T {
	next := make([]T, len(entries), len(entries)+1)
	copy(next, entries)
	return append(next, e)
}

// IndexOf returns the position of the entry with id, or -1.
func IndexOf[T Entry](entries []T, id string) int {
	for i, e := range entries {
		if e.EntryID() == id {
			return i
		}
	}
	return -1
}

// Find returns the entry with id.
func Find[T Entry](entries []T, id string) (T, bool) {
	if i := IndexOf(entries, id); i >= 0 {
		return entries[i], true
	}
	var zero T
	return zero, false
}

// UpdateField returns a new sequence where the entry with id has field set to
// value. Every other entry is copied unchanged and order is preserved.
//
// An unknown id is a no-op: the result is a value-equal copy and no error is
// returned. An undeclared field or a value of the wrong type returns an error
// together with the unchanged input.
func UpdateField[T Entry](entries []T, schema *Schema[T], id, field string, value any) ([]T, error) {
	f, ok := schema.Field(field)
	if !ok {
		return entries, fmt.Errorf("%w: %s.%s", ErrUnknownField, schema.Entity(), field)
	}

	i := IndexOf(entries, id)
	if i < 0 {
		return clone(entries), nil
	}

	updated, err := f.set(entries[i], value)
	if err != nil {
		return entries, err
	}

	next := clone(entries)
	next[i] = updated
	return next, nil
}

// Remove returns a new sequence without the entry with id. An unknown id
// returns a value-equal copy of the input.
func Remove[T Entry](entries []T, id string) []T {
	next := make([]T, 0, len(entries))
	for _, e := range entries {
		if e.EntryID() != id {
			next = append(next, e)
		}
	}
	return next
}

// IDs lists entry ids in collection order.
func IDs[T Entry](entries []T) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID()
	}
	return ids
}

func clone[T any](entries []T) []T {
	next := make([]T, len(entries))
	copy(next, entries)
	return next
}
