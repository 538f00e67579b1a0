package timelock

// ReadOnlyKVStore reads from an ordered key value store. Keys must not be
// nil.
type ReadOnlyKVStore interface {
	// Get returns nil when the key is not set.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending order. A nil bound leaves
	// that side open. The range must not be written while the iterator is
	// in use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks the same range in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half shared by stores and batches. Callers must
// not modify key or value after the call.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store handlers read and write.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	// NewBatch collects writes to apply together.
	NewBatch() Batch
}

// Batch applies its collected writes on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator yields entries in order until it returns ErrIteratorDone:
//
//   defer itr.Release()
//   for {
//     key, value, err := itr.Next()
//     if errors.ErrIteratorDone.Is(err) {
//       break
//     }
//     ...
//   }
//
// Returned slices must not be modified.
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can open a cache layer on top of itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap buffers writes over a parent store. Reads see the buffered
// writes. Write applies them to the parent, Discard drops them. A cache can
// be wrapped again, which is how savepoints nest.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent versioned tree at the root of the
// application state.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap

	// Commit saves a new version and returns its id.
	Commit() (CommitID, error)
	// LoadLatestVersion opens the newest complete version. After a crash
	// during commit this is the version before it.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
