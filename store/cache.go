package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree keeps the nodes small. A cache rarely holds more than the
// writes of a single block.
const btreeDegree = 4

// MemStore returns an empty store that lives in memory only. Every escrow
// and wallet test runs on top of one.
func MemStore() CacheableKVStore {
	return NewCache(emptyStore{}, NewJournal(emptyStore{}))
}

// Cache holds uncommitted writes on top of a parent store. Reads see the
// cached writes first and fall back to the parent for any key the cache
// has not touched. Every write is also recorded in out, so Write replays
// them on the parent in the order they happened.
type Cache struct {
	parent  ReadOnlyKVStore
	out     Batch
	entries *btree.BTree
}

var _ KVCacheWrap = (*Cache)(nil)

// NewCache returns an empty cache over parent. out must write to the same
// store that parent reads from.
func NewCache(parent ReadOnlyKVStore, out Batch) *Cache {
	return &Cache{
		parent:  parent,
		out:     out,
		entries: btree.New(btreeDegree),
	}
}

// entry is a cached write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

func (c *Cache) lookup(key []byte) (entry, bool) {
	item := c.entries.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Get returns the cached value, or the parent value if the key was not
// written.
func (c *Cache) Get(key []byte) ([]byte, error) {
	if e, ok := c.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

// Has reports whether Get would return a value.
func (c *Cache) Has(key []byte) (bool, error) {
	if e, ok := c.lookup(key); ok {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

// Set caches the value.
func (c *Cache) Set(key, value []byte) error {
	c.entries.ReplaceOrInsert(entry{key: key, value: value})
	return c.out.Set(key, value)
}

// Delete hides the key until the cache is discarded.
func (c *Cache) Delete(key []byte) error {
	c.entries.ReplaceOrInsert(entry{key: key, deleted: true})
	return c.out.Delete(key)
}

// NewBatch returns a journal that writes into this cache.
func (c *Cache) NewBatch() Batch {
	return NewJournal(c)
}

// CacheWrap stacks another cache on top of this one.
func (c *Cache) CacheWrap() KVCacheWrap {
	return NewCache(c, c.NewBatch())
}

// Write passes all cached writes down to the parent and empties the cache.
func (c *Cache) Write() error {
	err := c.out.Write()
	c.Discard()
	return err
}

// Discard drops all cached writes. Writes already passed on to out are not
// undone, so a discarded cache must not be written afterwards.
func (c *Cache) Discard() {
	c.entries.Clear(false)
}

// Iterator returns the keys in [start, end) in ascending order. A nil bound
// is open.
func (c *Cache) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return &mergeIterator{own: c.between(start, end), parent: parent}, nil
}

// ReverseIterator returns the keys in [start, end) in descending order.
func (c *Cache) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	own := c.between(start, end)
	for i, j := 0, len(own)-1; i < j; i, j = i+1, j-1 {
		own[i], own[j] = own[j], own[i]
	}
	return &mergeIterator{own: own, parent: parent, descending: true}, nil
}

// between copies the cached entries in [start, end) in ascending order.
func (c *Cache) between(start, end []byte) []entry {
	var res []entry
	visit := func(item btree.Item) bool {
		e := item.(entry)
		if end != nil && bytes.Compare(e.key, end) >= 0 {
			return false
		}
		res = append(res, e)
		return true
	}
	if start == nil {
		c.entries.Ascend(visit)
	} else {
		c.entries.AscendGreaterOrEqual(entry{key: start}, visit)
	}
	return res
}

// emptyStore is the bottom of a MemStore. It holds nothing and ignores
// writes.
type emptyStore struct{}

func (emptyStore) Get([]byte) ([]byte, error) { return nil, nil }
func (emptyStore) Has([]byte) (bool, error) { return false, nil }
func (emptyStore) Set(_, _ []byte) error { return nil }
func (emptyStore) Delete([]byte) error { return nil }
func (emptyStore) Iterator(_, _ []byte) (Iterator, error) { return NewSliceIterator(nil), nil }
func (emptyStore) ReverseIterator(_, _ []byte) (Iterator, error) { return NewSliceIterator(nil), nil }
func (e emptyStore) NewBatch() Batch { return NewJournal(e) }
