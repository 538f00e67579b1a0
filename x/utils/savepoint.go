package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Savepoint runs the rest of the stack on a cache layer and writes it back
// only when the stack succeeds, so a failed transaction leaves no partial
// state behind. It is off for both phases until enabled.
type Savepoint struct {
	check, deliver bool
}

var _ timelock.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (res *timelock.CheckResult, err error) {
	if !s.check {
		return next.Check(ctx, db, tx)
	}
	err = atomically(db, func(cache timelock.KVStore) error {
		res, err = next.Check(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (res *timelock.DeliverResult, err error) {
	if !s.deliver {
		return next.Deliver(ctx, db, tx)
	}
	err = atomically(db, func(cache timelock.KVStore) error {
		res, err = next.Deliver(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically applies the writes of fn only if it returns no error. A store
// without CacheWrap is passed to fn as is.
func atomically(db timelock.KVStore, fn func(timelock.KVStore) error) error {
	cacheable, ok := db.(timelock.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "savepoint")
}
