package kvcollection

type criterionKind uint8

const (
	criterionNone criterionKind = iota
	criterionKey
	criterionValue
)

// Criterion selects entries either by key or by value. It is a tagged variant:
// exactly one of the two is searched. Build one with ByKey or ByValue; the zero
// Criterion selects nothing and makes every search fail with ErrInvalidArguments.
//
// Zero-like keys and values (0, "", false) are legitimate search targets.
type Criterion[K comparable, V any] struct {
	kind  criterionKind
	key   K
	value V
}

// ByKey returns a Criterion matching entries whose key equals key.
func ByKey[K comparable, V any](key K) Criterion[K, V] {
	return Criterion[K, V]{kind: criterionKey, key: key}
}

// ByValue returns a Criterion matching entries whose value equals value,
// using the collection's value equality.
func ByValue[K comparable, V any](value V) Criterion[K, V] {
	return Criterion[K, V]{kind: criterionValue, value: value}
}

// IsKey reports whether the criterion searches by key.
func (c Criterion[K, V]) IsKey() bool {
	return c.kind == criterionKey
}

// IsValue reports whether the criterion searches by value.
func (c Criterion[K, V]) IsValue() bool {
	return c.kind == criterionValue
}

// Key returns the key being searched for and whether this is a key criterion.
func (c Criterion[K, V]) Key() (K, bool) {
	return c.key, c.kind == criterionKey
}

// Value returns the value being searched for and whether this is a value criterion.
func (c Criterion[K, V]) Value() (V, bool) {
	return c.value, c.kind == criterionValue
}
