package orm

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// RegisterQuery exposes the raw store under "/", without any bucket
// prefix applied to the key.
func RegisterQuery(qr timelock.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

var _ timelock.QueryHandler = rawQuery{}

func (rawQuery) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		return getOne(db, data, data)
	case timelock.PrefixQueryMod:
		return queryPrefix(db, data)
	}
	return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
}

// getOne reads dbKey and reports it under key. A miss is an empty result.
func getOne(db timelock.ReadOnlyKVStore, key, dbKey []byte) ([]timelock.Model, error) {
	value, err := db.Get(dbKey)
	if err != nil || value == nil {
		return nil, err
	}
	return []timelock.Model{timelock.Pair(key, value)}, nil
}

// queryPrefix returns every entry whose key starts with prefix, ordered by
// key.
func queryPrefix(db timelock.ReadOnlyKVStore, prefix []byte) ([]timelock.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	defer itr.Release()

	var found []timelock.Model
	for {
		key, value, err := itr.Next()
		switch {
		case errors.ErrIteratorDone.Is(err):
			return found, nil
		case err != nil:
			return nil, err
		}
		found = append(found, timelock.Pair(key, value))
	}
}

// prefixRange returns the iterator bounds covering every key that starts
// with prefix. The end is the shortest key greater than all of them: the
// prefix with trailing 0xFF bytes dropped and the last remaining byte
// incremented. It is nil when the prefix is all 0xFF.
func prefixRange(prefix []byte) (start, end []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			end = append([]byte(nil), prefix[:i+1]...)
			end[i]++
			return prefix, end
		}
	}
	return prefix, nil
}
