package store_test

import (
	"testing"

	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/store/storetest"
)

func TestMemStoreConformance(t *testing.T) {
	storetest.Run(t, func() (store.CacheableKVStore, func()) {
		return store.MemStore(), func() {}
	})
}
