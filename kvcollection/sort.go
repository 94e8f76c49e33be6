package kvcollection

import (
	"cmp"
	"slices"
)

// SortByKeyFunc reorders the entries by key using compare, in place.
// The sort is stable: entries with equal keys keep their relative order.
// No handler is called.
func (c *Collection[K, V]) SortByKeyFunc(compare func(a, b K) int) {
	c.checkMutable()

	c.permute(func(i, j int) int {
		return compare(c.keys[i], c.keys[j])
	})
}

// SortByValueFunc reorders the entries by value using compare, in place.
// The sort is stable. No handler is called.
func (c *Collection[K, V]) SortByValueFunc(compare func(a, b V) int) {
	c.checkMutable()

	c.permute(func(i, j int) int {
		return compare(c.values[i], c.values[j])
	})
}

// permute sorts slot indices with compare and then rearranges both slices
// according to the resulting order, keeping them in lock-step.
func (c *Collection[K, V]) permute(compare func(i, j int) int) {
	order := make([]int, len(c.keys))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, compare)

	keys := make([]K, len(order))
	values := make([]V, len(order))

	for to, from := range order {
		keys[to] = c.keys[from]
		values[to] = c.values[from]
	}

	c.keys = keys
	c.values = values
}

// Sort stably orders the entries of c by key when byKey is true, by value otherwise,
// using the natural ordering of K or V.
func Sort[K, V cmp.Ordered](c *Collection[K, V], byKey bool) {
	if byKey {
		c.SortByKeyFunc(cmp.Compare[K])
	} else {
		c.SortByValueFunc(cmp.Compare[V])
	}
}

// SortByKey stably orders the entries of c by key.
func SortByKey[K cmp.Ordered, V any](c *Collection[K, V]) {
	c.SortByKeyFunc(cmp.Compare[K])
}

// SortByValue stably orders the entries of c by value.
func SortByValue[K comparable, V cmp.Ordered](c *Collection[K, V]) {
	c.SortByValueFunc(cmp.Compare[V])
}
