package kvcollection_test

import (
	"testing"

	"github.com/amp-labs/kvcollection/kvcollection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newABC(t *testing.T) *kvcollection.Collection[string, int] {
	t.Helper()

	c := kvcollection.New[string, int]()
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	return c
}

func assertLockStep[K comparable, V any](t *testing.T, c *kvcollection.Collection[K, V]) {
	t.Helper()

	assert.Len(t, c.Keys(), c.Count())
	assert.Len(t, c.Values(), c.Count())
}

func TestZeroValueIsUsable(t *testing.T) {
	t.Parallel()

	var c kvcollection.Collection[string, []int]

	assert.Equal(t, 0, c.Count())

	c.Add("x", []int{1, 2})

	found, err := c.Contains(kvcollection.ByValue[string]([]int{1, 2}))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGet(t *testing.T) {
	t.Parallel()

	t.Run("returns the first match for a duplicated key", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)
		c.Add("a", 10)

		val, err := c.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 1, val)
	})

	t.Run("missing key is an error", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		val, err := c.Get("zzz")
		require.ErrorIs(t, err, kvcollection.ErrKeyNotFound)
		require.ErrorIs(t, err, kvcollection.ErrNotFound)
		assert.Equal(t, 0, val)
	})

	t.Run("empty string is a legitimate key", func(t *testing.T) {
		t.Parallel()

		c := kvcollection.New[string, int]()
		c.Add("", 7)

		val, err := c.Get("")
		require.NoError(t, err)
		assert.Equal(t, 7, val)
	})
}

func TestPositionalAccess(t *testing.T) {
	t.Parallel()

	t.Run("GetAt KeyAt and EntryAt read the same slot", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		val, err := c.GetAt(1)
		require.NoError(t, err)
		assert.Equal(t, 2, val)

		key, err := c.KeyAt(1)
		require.NoError(t, err)
		assert.Equal(t, "b", key)

		entry, err := c.EntryAt(2)
		require.NoError(t, err)
		assert.Equal(t, kvcollection.Entry[string, int]{Key: "c", Value: 3}, entry)
	})

	t.Run("GetAt past the end fails", func(t *testing.T) {
		t.Parallel()

		c := kvcollection.New[string, int]()
		c.Add("a", 1)
		c.Add("b", 2)

		_, err := c.GetAt(5)
		require.ErrorIs(t, err, kvcollection.ErrIndexOutOfRange)

		_, err = c.GetAt(-1)
		require.ErrorIs(t, err, kvcollection.ErrIndexOutOfRange)

		_, err = c.KeyAt(2)
		require.ErrorIs(t, err, kvcollection.ErrIndexOutOfRange)
	})

	t.Run("First and Last", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		first, err := c.First()
		require.NoError(t, err)
		assert.Equal(t, 1, first)

		last, err := c.Last()
		require.NoError(t, err)
		assert.Equal(t, 3, last)
	})

	t.Run("First and Last on an empty collection", func(t *testing.T) {
		t.Parallel()

		c := kvcollection.New[string, int]()

		_, err := c.First()
		require.ErrorIs(t, err, kvcollection.ErrEmptyContainer)

		_, err = c.Last()
		require.ErrorIs(t, err, kvcollection.ErrEmptyContainer)
	})
}

func TestGetRange(t *testing.T) {
	t.Parallel()

	c := newABC(t)

	tests := []struct {
		name       string
		start, end int
		want       []int
		wantErr    bool
	}{
		{name: "whole collection", start: 0, end: 3, want: []int{1, 2, 3}},
		{name: "middle", start: 1, end: 2, want: []int{2}},
		{name: "empty at end", start: 3, end: 3, want: []int{}},
		{name: "reversed bounds are empty", start: 2, end: 1, want: []int{}},
		{name: "end past count", start: 0, end: 4, wantErr: true},
		{name: "negative start", start: -1, end: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.GetRange(tt.start, tt.end)
			if tt.wantErr {
				require.ErrorIs(t, err, kvcollection.ErrIndexOutOfRange)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("result does not alias the collection", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		got, err := c.GetRange(0, 2)
		require.NoError(t, err)

		got[0] = 100

		val, err := c.GetAt(0)
		require.NoError(t, err)
		assert.Equal(t, 1, val)
	})
}

func TestIndexOfAndContains(t *testing.T) {
	t.Parallel()

	t.Run("by key and by value", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		idx, err := c.IndexOf(kvcollection.ByKey[string, int]("b"))
		require.NoError(t, err)
		assert.Equal(t, 1, idx)

		idx, err = c.IndexOfValue(3)
		require.NoError(t, err)
		assert.Equal(t, 2, idx)

		found, err := c.Contains(kvcollection.ByValue[string](2))
		require.NoError(t, err)
		assert.True(t, found)

		assert.True(t, c.ContainsKey("a"))
		assert.False(t, c.ContainsValue(42))
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		_, err := c.IndexOfKey("nope")
		require.ErrorIs(t, err, kvcollection.ErrKeyNotFound)

		_, err = c.IndexOfValue(99)
		require.ErrorIs(t, err, kvcollection.ErrNotFound)

		found, err := c.Contains(kvcollection.ByKey[string, int]("nope"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("zero criterion is invalid", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		_, err := c.IndexOf(kvcollection.Criterion[string, int]{})
		require.ErrorIs(t, err, kvcollection.ErrInvalidArguments)

		_, err = c.Contains(kvcollection.Criterion[string, int]{})
		require.ErrorIs(t, err, kvcollection.ErrInvalidArguments)

		err = c.Remove(kvcollection.Criterion[string, int]{})
		require.ErrorIs(t, err, kvcollection.ErrInvalidArguments)
	})

	t.Run("zero key is searched, not ignored", func(t *testing.T) {
		t.Parallel()

		c := kvcollection.New[int, string]()
		c.Add(5, "five")
		c.Add(0, "zero")

		idx, err := c.IndexOfKey(0)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("custom value equality", func(t *testing.T) {
		t.Parallel()

		type point struct{ x, y int }

		c := kvcollection.New[string, point](kvcollection.WithEqual(func(a, b point) bool {
			return a.x == b.x
		}))
		c.Add("p", point{x: 1, y: 2})

		assert.True(t, c.ContainsValue(point{x: 1, y: 99}))
	})
}

func TestAddAndInsert(t *testing.T) {
	t.Parallel()

	t.Run("Add appends and notifies", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		var gotKey string

		var gotValue int

		c.OnAdd = func(key string, value int) {
			gotKey, gotValue = key, value

			assert.Equal(t, 4, c.Count(), "handler runs after the entry is stored")
		}

		c.Add("d", 4)

		assert.Equal(t, "d", gotKey)
		assert.Equal(t, 4, gotValue)

		last, err := c.GetAt(c.Count() - 1)
		require.NoError(t, err)
		assert.Equal(t, 4, last)

		idx, err := c.IndexOfKey("a")
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		assertLockStep(t, c)
	})

	t.Run("Insert shifts later entries", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		calls := 0
		c.OnAdd = func(string, int) { calls++ }

		require.NoError(t, c.Insert(1, "x", 9))
		require.NoError(t, c.Insert(0, "first", 0))
		require.NoError(t, c.Insert(c.Count(), "tail", 100))

		assert.Equal(t, []string{"first", "a", "x", "b", "c", "tail"}, c.Keys())
		assert.Equal(t, []int{0, 1, 9, 2, 3, 100}, c.Values())
		assert.Equal(t, 3, calls)
	})

	t.Run("Insert out of range", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		called := false
		c.OnAdd = func(string, int) { called = true }

		require.ErrorIs(t, c.Insert(4, "x", 1), kvcollection.ErrIndexOutOfRange)
		require.ErrorIs(t, c.Insert(-1, "x", 1), kvcollection.ErrIndexOutOfRange)
		assert.False(t, called)
		assert.Equal(t, 3, c.Count())
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	t.Run("delete handler sees the removed pair after removal", func(t *testing.T) {
		t.Parallel()

		c := kvcollection.New[string, int]()
		c.Add("y", 1)
		c.Add("x", 5)

		type call struct {
			key   string
			value int
		}

		var calls []call

		c.OnDelete = func(key string, value int) {
			calls = append(calls, call{key, value})

			assert.False(t, c.ContainsKey("x"))
		}

		require.NoError(t, c.Remove(kvcollection.ByKey[string, int]("x")))

		assert.Equal(t, []call{{"x", 5}}, calls)

		found, err := c.Contains(kvcollection.ByKey[string, int]("x"))
		require.NoError(t, err)
		assert.False(t, found)
		assertLockStep(t, c)
	})

	t.Run("by value removes the first matching slot", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)
		c.Add("d", 2)

		require.NoError(t, c.RemoveValue(2))

		assert.Equal(t, []string{"a", "c", "d"}, c.Keys())
	})

	t.Run("no match leaves the collection untouched", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		called := false
		c.OnDelete = func(string, int) { called = true }

		require.ErrorIs(t, c.RemoveKey("nope"), kvcollection.ErrKeyNotFound)
		require.ErrorIs(t, c.RemoveValue(42), kvcollection.ErrNotFound)
		assert.False(t, called)
		assert.Equal(t, 3, c.Count())
	})

	t.Run("RemoveAt", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		var removedKey string

		c.OnDelete = func(key string, _ int) { removedKey = key }

		require.NoError(t, c.RemoveAt(2))
		assert.Equal(t, "c", removedKey)
		assert.Equal(t, []int{1, 2}, c.Values())

		require.ErrorIs(t, c.RemoveAt(2), kvcollection.ErrIndexOutOfRange)
		assertLockStep(t, c)
	})
}

func TestReplace(t *testing.T) {
	t.Parallel()

	t.Run("replaces the first match and notifies", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)
		c.Add("a", 11)

		var oldV, newV int

		c.OnChange = func(key string, oldValue, newValue int) {
			assert.Equal(t, "a", key)

			oldV, newV = oldValue, newValue
		}

		require.NoError(t, c.Replace("a", 100))

		assert.Equal(t, 1, oldV)
		assert.Equal(t, 100, newV)
		assert.Equal(t, []int{100, 2, 3, 11}, c.Values())
	})

	t.Run("missing key fails without notifying", func(t *testing.T) {
		t.Parallel()

		c := newABC(t)

		called := false
		c.OnChange = func(string, int, int) { called = true }

		require.ErrorIs(t, c.Replace("nope", 1), kvcollection.ErrKeyNotFound)
		assert.False(t, called)
		assert.Equal(t, []int{1, 2, 3}, c.Values())
	})
}

func TestClear(t *testing.T) {
	t.Parallel()

	c := newABC(t)

	var snapshot *kvcollection.Collection[string, int]

	c.OnClear = func(removed *kvcollection.Collection[string, int]) {
		snapshot = removed
	}

	c.Clear()

	assert.Equal(t, 0, c.Count())
	require.NotNil(t, snapshot)
	assert.Equal(t, []string{"a", "b", "c"}, snapshot.Keys())
	assert.Equal(t, []int{1, 2, 3}, snapshot.Values())

	c.Add("z", 26)
	assert.Equal(t, 3, snapshot.Count(), "snapshot is independent of the cleared collection")
}

func TestClone(t *testing.T) {
	t.Parallel()

	t.Run("structural changes on the clone leave the original alone", func(t *testing.T) {
		t.Parallel()

		original := newABC(t)
		clone := original.Clone()

		require.NoError(t, clone.RemoveAt(0))
		clone.Add("z", 26)
		require.NoError(t, clone.Replace("b", 20))

		assert.Equal(t, 3, original.Count())
		assert.Equal(t, []string{"a", "b", "c"}, original.Keys())
		assert.Equal(t, []int{1, 2, 3}, original.Values())
	})

	t.Run("handlers are not copied", func(t *testing.T) {
		t.Parallel()

		original := newABC(t)
		called := false
		original.OnAdd = func(string, int) { called = true }

		clone := original.Clone()
		clone.Add("d", 4)

		assert.False(t, called)
		assert.Nil(t, clone.OnAdd)
	})

	t.Run("clone is equal to the original", func(t *testing.T) {
		t.Parallel()

		original := newABC(t)
		assert.True(t, original.Equal(original.Clone()))
		assert.False(t, original.Equal(nil))
	})
}

func TestReentrantMutationPanics(t *testing.T) {
	t.Parallel()

	c := newABC(t)
	c.OnAdd = func(key string, _ int) {
		if key == "d" {
			c.Add("e", 5)
		}
	}

	assert.PanicsWithValue(t, kvcollection.ErrReentrantMutation, func() {
		c.Add("d", 4)
	})

	// The guard is released once the handler unwinds.
	c.OnAdd = nil
	c.Add("f", 6)
	assert.Equal(t, 5, c.Count())
}

func TestReadsInsideHandlersAreAllowed(t *testing.T) {
	t.Parallel()

	c := newABC(t)

	var seen []int

	c.OnDelete = func(string, int) {
		seen = c.Values()
	}

	require.NoError(t, c.RemoveKey("b"))
	assert.Equal(t, []int{1, 3}, seen)
}

func TestIterators(t *testing.T) {
	t.Parallel()

	c := newABC(t)

	var keys []string

	for key, value := range c.All() {
		keys = append(keys, key)

		if value == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a", "b"}, keys)

	var indexes []int

	for i, entry := range c.Seq() {
		indexes = append(indexes, i)

		assert.Equal(t, c.Entries()[i], entry)
	}

	assert.Equal(t, []int{0, 1, 2}, indexes)
}
