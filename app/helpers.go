package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier answers ABCI queries. Both a local application and a remote
// client do.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore reads committed state through the "/" query path, so that
// buckets can be used on top of a node the same way as on a local store.
// Only whole range iteration is supported.
type ABCIStore struct {
	app Querier
}

var _ timelock.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

func (a *ABCIStore) query(path string, data []byte) ([]timelock.Model, error) {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "query keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "query values")
	}
	return JoinResults(&keys, &values)
}

// Get returns the value under key, or nil.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	}
	return nil, errors.Wrapf(errors.ErrDatabase, "%d results for a single key", len(models))
}

func (a *ABCIStore) Has(key []byte) (bool, error) {
	value, err := a.Get(key)
	return value != nil, err
}

// Iterator lists the whole store. Bounds are rejected.
func (a *ABCIStore) Iterator(start, end []byte) (timelock.Iterator, error) {
	models, err := a.all(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator lists the whole store from the last key.
func (a *ABCIStore) ReverseIterator(start, end []byte) (timelock.Iterator, error) {
	models, err := a.all(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) all(start, end []byte) ([]timelock.Model, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "only whole range iteration is supported")
	}
	return a.query("/?prefix", nil)
}
