package store

import (
	"bytes"

	"github.com/iov-one/timelock/errors"
)

type sliceIterator struct {
	models []Model
}

// NewSliceIterator iterates over already loaded models in the given order.
func NewSliceIterator(models []Model) Iterator {
	return &sliceIterator{models: models}
}

func (s *sliceIterator) Next() (key, value []byte, err error) {
	if len(s.models) == 0 {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice")
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *sliceIterator) Release() {
	s.models = nil
}

// mergeIterator walks the cached entries and the parent iterator side by
// side. On equal keys the cached entry wins and a deleted entry skips the
// parent value.
type mergeIterator struct {
	own        []entry
	parent     Iterator
	descending bool

	// one parent model read ahead, nil when the parent was not read yet
	ahead      *Model
	parentDone bool
}

func (it *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if it.ahead == nil && !it.parentDone {
			k, v, err := it.parent.Next()
			switch {
			case errors.ErrIteratorDone.Is(err):
				it.parentDone = true
			case err != nil:
				return nil, nil, err
			default:
				it.ahead = &Model{Key: k, Value: v}
			}
		}

		if len(it.own) == 0 {
			if it.ahead == nil {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache")
			}
			return it.takeParent()
		}

		e := it.own[0]
		if it.ahead != nil {
			order := bytes.Compare(e.key, it.ahead.Key)
			if it.descending {
				order = -order
			}
			if order > 0 {
				return it.takeParent()
			}
			if order == 0 {
				it.ahead = nil
			}
		}
		it.own = it.own[1:]
		if !e.deleted {
			return e.key, e.value, nil
		}
	}
}

func (it *mergeIterator) takeParent() ([]byte, []byte, error) {
	m := it.ahead
	it.ahead = nil
	return m.Key, m.Value, nil
}

func (it *mergeIterator) Release() {
	it.own = nil
	it.parent.Release()
}
