// Package sortable provides comparison functions for ordering collection entries.
//
// Every comparator has the shape func(a, b T) int, returning a negative number when
// a sorts before b, zero when they tie, and a positive number otherwise. That is the
// shape slices.SortStableFunc and kvcollection's SortByKeyFunc/SortByValueFunc expect.
//
//	c := kvcollection.FromDelimitedString("img12.png,img10.png,img2.png", ",")
//	c.SortByKeyFunc(sortable.Natural) // img2.png, img10.png, img12.png
package sortable

import (
	"cmp"

	"facette.io/natsort"
)

// Sortable is implemented by types that know how to order themselves.
type Sortable[T any] interface {
	Equals(other T) bool
	LessThan(other T) bool
}

// Compare orders two Sortable values: Equals wins first, then LessThan.
func Compare[T Sortable[T]](a, b T) int {
	switch {
	case a.Equals(b):
		return 0
	case a.LessThan(b):
		return -1
	default:
		return 1
	}
}

// Ordered orders values of any cmp.Ordered type with <, == and >.
func Ordered[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}

// Natural orders strings so embedded numbers compare numerically,
// e.g. "file2" sorts before "file10".
func Natural(a, b string) int {
	less := natsort.Compare(a, b)
	greater := natsort.Compare(b, a)

	// natsort.Compare reports true for equal inputs, so both directions agreeing means a tie.
	switch {
	case less && !greater:
		return -1
	case greater && !less:
		return 1
	default:
		return 0
	}
}

// Reverse flips a comparator.
func Reverse[T any](compare func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		return compare(b, a)
	}
}
