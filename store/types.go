package store

import "github.com/iov-one/timelock"

// The storage interfaces are declared by the root package. They are
// aliased here so the implementations read naturally.
type (
	ReadOnlyKVStore  = timelock.ReadOnlyKVStore
	SetDeleter       = timelock.SetDeleter
	KVStore          = timelock.KVStore
	Batch            = timelock.Batch
	Iterator         = timelock.Iterator
	CacheableKVStore = timelock.CacheableKVStore
	KVCacheWrap      = timelock.KVCacheWrap
	CommitKVStore    = timelock.CommitKVStore
	CommitID         = timelock.CommitID
	Model            = timelock.Model
)
