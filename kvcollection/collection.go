// Package kvcollection provides Collection, an ordered and mutable key-value container.
//
// A Collection keeps keys and values in two lock-step slices. Entries stay in insertion
// order and can be reached by key (first match wins, duplicates are allowed), by value,
// or by position. Structural changes are reported to optional single-slot handlers.
//
// Lookups are linear scans. A Collection is not safe for concurrent use; callers that
// share one between goroutines must guard every operation with a single mutex.
//
// Example:
//
//	c := kvcollection.New[string, int]()
//	c.OnDelete = func(key string, value int) {
//	    fmt.Printf("removed %s=%d\n", key, value)
//	}
//	c.Add("a", 1)
//	c.Add("b", 2)
//	_ = c.RemoveKey("a") // prints "removed a=1"
package kvcollection

import (
	"iter"
	"slices"

	"github.com/google/go-cmp/cmp"
)

// Entry is one key-value pair of a Collection.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Collection is an ordered key-value container. The zero value is an empty
// collection ready to use, comparing values with cmp.Equal.
type Collection[K comparable, V any] struct {
	keys      []K
	values    []V
	equal     func(a, b V) bool
	notifying bool

	// OnAdd is called after Add or Insert has stored a new entry.
	OnAdd func(key K, value V)

	// OnDelete is called after Remove or RemoveAt has dropped an entry,
	// with the pair that was removed.
	OnDelete func(key K, value V)

	// OnChange is called after Replace has swapped the value of an entry.
	OnChange func(key K, oldValue, newValue V)

	// OnClear is called after Clear, with a collection holding the entries
	// that were removed. The snapshot is owned by the handler.
	OnClear func(removed *Collection[K, V])
}

// Option customizes a Collection created by New.
type Option[V any] func(*options[V])

type options[V any] struct {
	equal    func(a, b V) bool
	capacity int
}

// WithEqual sets the function used to compare values in value searches and Equal.
// Use it for value types cmp.Equal cannot handle, such as structs with unexported fields.
func WithEqual[V any](equal func(a, b V) bool) Option[V] {
	return func(o *options[V]) {
		o.equal = equal
	}
}

// WithCapacity preallocates room for n entries.
func WithCapacity[V any](n int) Option[V] {
	return func(o *options[V]) {
		o.capacity = n
	}
}

// New creates an empty Collection.
func New[K comparable, V any](opts ...Option[V]) *Collection[K, V] {
	var o options[V]

	for _, opt := range opts {
		opt(&o)
	}

	c := &Collection[K, V]{equal: o.equal}

	if o.capacity > 0 {
		c.keys = make([]K, 0, o.capacity)
		c.values = make([]V, 0, o.capacity)
	}

	return c
}

func (c *Collection[K, V]) valuesEqual(a, b V) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}

	return cmp.Equal(a, b)
}

func (c *Collection[K, V]) checkMutable() {
	if c.notifying {
		panic(ErrReentrantMutation)
	}
}

func (c *Collection[K, V]) notify(fn func()) {
	c.notifying = true
	defer func() { c.notifying = false }()

	fn()
}

// Count returns the number of entries.
func (c *Collection[K, V]) Count() int {
	return len(c.keys)
}

// Get returns the value of the first entry whose key equals key.
func (c *Collection[K, V]) Get(key K) (V, error) {
	idx := c.indexOfKey(key)
	if idx < 0 {
		var zero V

		return zero, ErrKeyNotFound
	}

	return c.values[idx], nil
}

// GetAt returns the value stored at index.
func (c *Collection[K, V]) GetAt(index int) (V, error) {
	if index < 0 || index >= len(c.values) {
		var zero V

		return zero, indexError(index, len(c.values))
	}

	return c.values[index], nil
}

// KeyAt returns the key stored at index.
func (c *Collection[K, V]) KeyAt(index int) (K, error) {
	if index < 0 || index >= len(c.keys) {
		var zero K

		return zero, indexError(index, len(c.keys))
	}

	return c.keys[index], nil
}

// EntryAt returns the key-value pair stored at index.
func (c *Collection[K, V]) EntryAt(index int) (Entry[K, V], error) {
	if index < 0 || index >= len(c.keys) {
		return Entry[K, V]{}, indexError(index, len(c.keys))
	}

	return Entry[K, V]{Key: c.keys[index], Value: c.values[index]}, nil
}

// GetRange returns a copy of the values in the half-open range [start, end).
// Both bounds must lie within [0, Count()]. When start >= end the result is empty.
func (c *Collection[K, V]) GetRange(start, end int) ([]V, error) {
	size := len(c.values)

	if start < 0 || start > size || end < 0 || end > size {
		return nil, rangeError(start, end, size)
	}

	if start >= end {
		return []V{}, nil
	}

	return slices.Clone(c.values[start:end]), nil
}

// First returns the value of the first entry.
func (c *Collection[K, V]) First() (V, error) {
	if len(c.values) == 0 {
		var zero V

		return zero, ErrEmptyContainer
	}

	return c.values[0], nil
}

// Last returns the value of the last entry.
func (c *Collection[K, V]) Last() (V, error) {
	if len(c.values) == 0 {
		var zero V

		return zero, ErrEmptyContainer
	}

	return c.values[len(c.values)-1], nil
}

func (c *Collection[K, V]) indexOfKey(key K) int {
	return slices.Index(c.keys, key)
}

func (c *Collection[K, V]) indexOfValue(value V) int {
	return slices.IndexFunc(c.values, func(v V) bool {
		return c.valuesEqual(v, value)
	})
}

// IndexOf returns the position of the first entry matching criterion.
// It fails with ErrKeyNotFound or ErrNotFound when nothing matches, and with
// ErrInvalidArguments for the zero Criterion.
func (c *Collection[K, V]) IndexOf(criterion Criterion[K, V]) (int, error) {
	switch criterion.kind {
	case criterionKey:
		if idx := c.indexOfKey(criterion.key); idx >= 0 {
			return idx, nil
		}

		return -1, ErrKeyNotFound
	case criterionValue:
		if idx := c.indexOfValue(criterion.value); idx >= 0 {
			return idx, nil
		}

		return -1, ErrNotFound
	default:
		return -1, ErrInvalidArguments
	}
}

// IndexOfKey is IndexOf(ByKey(key)).
func (c *Collection[K, V]) IndexOfKey(key K) (int, error) {
	return c.IndexOf(ByKey[K, V](key))
}

// IndexOfValue is IndexOf(ByValue(value)).
func (c *Collection[K, V]) IndexOfValue(value V) (int, error) {
	return c.IndexOf(ByValue[K](value))
}

// Contains reports whether any entry matches criterion.
// The zero Criterion yields ErrInvalidArguments.
func (c *Collection[K, V]) Contains(criterion Criterion[K, V]) (bool, error) {
	switch criterion.kind {
	case criterionKey:
		return c.indexOfKey(criterion.key) >= 0, nil
	case criterionValue:
		return c.indexOfValue(criterion.value) >= 0, nil
	default:
		return false, ErrInvalidArguments
	}
}

// ContainsKey reports whether any entry has the given key.
func (c *Collection[K, V]) ContainsKey(key K) bool {
	return c.indexOfKey(key) >= 0
}

// ContainsValue reports whether any entry holds a value equal to value.
func (c *Collection[K, V]) ContainsValue(value V) bool {
	return c.indexOfValue(value) >= 0
}

// Add appends an entry and then calls OnAdd.
func (c *Collection[K, V]) Add(key K, value V) {
	c.checkMutable()

	c.keys = append(c.keys, key)
	c.values = append(c.values, value)

	if c.OnAdd != nil {
		c.notify(func() { c.OnAdd(key, value) })
	}
}

// Insert places an entry at index, shifting later entries up by one, and then calls OnAdd.
// index may equal Count(), which appends.
func (c *Collection[K, V]) Insert(index int, key K, value V) error {
	c.checkMutable()

	if index < 0 || index > len(c.keys) {
		return indexError(index, len(c.keys))
	}

	c.keys = slices.Insert(c.keys, index, key)
	c.values = slices.Insert(c.values, index, value)

	if c.OnAdd != nil {
		c.notify(func() { c.OnAdd(key, value) })
	}

	return nil
}

// Remove deletes the first entry matching criterion and then calls OnDelete with it.
func (c *Collection[K, V]) Remove(criterion Criterion[K, V]) error {
	c.checkMutable()

	idx, err := c.IndexOf(criterion)
	if err != nil {
		return err
	}

	c.removeAt(idx)

	return nil
}

// RemoveKey is Remove(ByKey(key)).
func (c *Collection[K, V]) RemoveKey(key K) error {
	return c.Remove(ByKey[K, V](key))
}

// RemoveValue is Remove(ByValue(value)).
func (c *Collection[K, V]) RemoveValue(value V) error {
	return c.Remove(ByValue[K](value))
}

// RemoveAt deletes the entry at index and then calls OnDelete with it.
func (c *Collection[K, V]) RemoveAt(index int) error {
	c.checkMutable()

	if index < 0 || index >= len(c.keys) {
		return indexError(index, len(c.keys))
	}

	c.removeAt(index)

	return nil
}

func (c *Collection[K, V]) removeAt(index int) {
	key := c.keys[index]
	value := c.values[index]

	c.keys = slices.Delete(c.keys, index, index+1)
	c.values = slices.Delete(c.values, index, index+1)

	if c.OnDelete != nil {
		c.notify(func() { c.OnDelete(key, value) })
	}
}

// Replace sets the value of the first entry with the given key and then calls OnChange.
// If no entry has the key, nothing changes, OnChange is not called, and ErrKeyNotFound
// is returned.
func (c *Collection[K, V]) Replace(key K, value V) error {
	c.checkMutable()

	idx := c.indexOfKey(key)
	if idx < 0 {
		return ErrKeyNotFound
	}

	old := c.values[idx]
	c.values[idx] = value

	if c.OnChange != nil {
		c.notify(func() { c.OnChange(key, old, value) })
	}

	return nil
}

// Clear removes every entry and then calls OnClear with the removed entries.
func (c *Collection[K, V]) Clear() {
	c.checkMutable()

	removed := &Collection[K, V]{
		keys:   c.keys,
		values: c.values,
		equal:  c.equal,
	}

	c.keys = nil
	c.values = nil

	if c.OnClear != nil {
		c.notify(func() { c.OnClear(removed) })
	}
}

// Clone returns a copy with its own key and value slices. Keys and values themselves
// are copied shallowly. Handlers are not carried over.
func (c *Collection[K, V]) Clone() *Collection[K, V] {
	return &Collection[K, V]{
		keys:   slices.Clone(c.keys),
		values: slices.Clone(c.values),
		equal:  c.equal,
	}
}

// Equal reports whether other holds the same keys and values in the same order.
func (c *Collection[K, V]) Equal(other *Collection[K, V]) bool {
	if other == nil {
		return false
	}

	if !slices.Equal(c.keys, other.keys) {
		return false
	}

	return slices.EqualFunc(c.values, other.values, c.valuesEqual)
}

// Keys returns a copy of the keys in slot order.
func (c *Collection[K, V]) Keys() []K {
	return slices.Clone(c.keys)
}

// Values returns a copy of the values in slot order.
func (c *Collection[K, V]) Values() []V {
	return slices.Clone(c.values)
}

// Entries returns every key-value pair in slot order.
func (c *Collection[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], len(c.keys))

	for i := range c.keys {
		entries[i] = Entry[K, V]{Key: c.keys[i], Value: c.values[i]}
	}

	return entries
}

// All returns an iterator over keys and values in slot order.
// Mutating the collection while ranging over it is not supported.
func (c *Collection[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range c.keys {
			if !yield(c.keys[i], c.values[i]) {
				return
			}
		}
	}
}

// Seq returns an iterator yielding each slot index together with its entry.
func (c *Collection[K, V]) Seq() iter.Seq2[int, Entry[K, V]] {
	return func(yield func(int, Entry[K, V]) bool) {
		for i := range c.keys {
			if !yield(i, Entry[K, V]{Key: c.keys[i], Value: c.values[i]}) {
				return
			}
		}
	}
}
