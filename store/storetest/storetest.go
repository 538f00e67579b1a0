/*
Package storetest checks that a CacheableKVStore implementation behaves like
the in memory reference: caches shadow their parent, Write and Discard
work at any depth, and iteration merges cached writes in key order.
*/
package storetest

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Constructor returns a fresh empty store and a function releasing it.
type Constructor func() (store.CacheableKVStore, func())

// Run runs every check against stores built by newStore.
func Run(t *testing.T, newStore Constructor) {
	t.Run("layers", func(t *testing.T) { layers(t, newStore) })
	t.Run("iteration", func(t *testing.T) { iteration(t, newStore) })
}

func layers(t *testing.T, newStore Constructor) {
	base, release := newStore()
	defer release()

	key := []byte("escrow:1")
	require.NoError(t, base.Set(key, []byte("created")))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set(key, []byte("deposited")))
	inner := outer.CacheWrap()
	require.NoError(t, inner.Delete(key))

	expect(t, inner, key, nil)
	expect(t, outer, key, []byte("deposited"))
	expect(t, base, key, []byte("created"))

	require.NoError(t, inner.Write())
	expect(t, outer, key, nil)
	expect(t, base, key, []byte("created"))

	// a discarded layer keeps its parent as it was
	discarded := outer.CacheWrap()
	require.NoError(t, discarded.Set(key, []byte("closed")))
	discarded.Discard()
	expect(t, outer, key, nil)

	require.NoError(t, outer.Write())
	expect(t, base, key, nil)
}

func expect(t *testing.T, kv store.ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, want != nil, has)
}

// iteration writes random keys to the base, then overwrites and deletes
// some of them in a cache. The cache must iterate like a sorted map holding
// the same data.
func iteration(t *testing.T, newStore Constructor) {
	base, release := newStore()
	defer release()

	r := rand.New(rand.NewSource(42))
	want := make(map[string][]byte)
	randKey := func() []byte {
		return []byte(fmt.Sprintf("k%03d", r.Intn(200)))
	}

	for i := 0; i < 60; i++ {
		k, v := randKey(), []byte(fmt.Sprintf("base%d", i))
		require.NoError(t, base.Set(k, v))
		want[string(k)] = v
	}

	cache := base.CacheWrap()
	for i := 0; i < 60; i++ {
		k := randKey()
		if r.Intn(3) == 0 {
			require.NoError(t, cache.Delete(k))
			delete(want, string(k))
			continue
		}
		v := []byte(fmt.Sprintf("cache%d", i))
		require.NoError(t, cache.Set(k, v))
		want[string(k)] = v
	}

	ranges := [][2][]byte{
		{nil, nil},
		{[]byte("k050"), nil},
		{nil, []byte("k120")},
		{[]byte("k030"), []byte("k031")},
		{[]byte("k070"), []byte("k160")},
	}
	for _, rg := range ranges {
		start, end := rg[0], rg[1]
		expected := sortedRange(want, start, end)

		it, err := cache.Iterator(start, end)
		require.NoError(t, err)
		assert.Equal(t, expected, drain(t, it), "ascending [%s, %s)", start, end)

		for i, j := 0, len(expected)-1; i < j; i, j = i+1, j-1 {
			expected[i], expected[j] = expected[j], expected[i]
		}
		it, err = cache.ReverseIterator(start, end)
		require.NoError(t, err)
		assert.Equal(t, expected, drain(t, it), "descending [%s, %s)", start, end)
	}

	// the base sees the merged data once the cache is written
	require.NoError(t, cache.Write())
	it, err := base.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, sortedRange(want, nil, nil), drain(t, it))
}

func sortedRange(data map[string][]byte, start, end []byte) []store.Model {
	res := []store.Model{}
	for k, v := range data {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		res = append(res, store.Model{Key: key, Value: v})
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func drain(t *testing.T, it store.Iterator) []store.Model {
	t.Helper()
	defer it.Release()
	res := []store.Model{}
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, store.Model{Key: key, Value: value})
	}
}
