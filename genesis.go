package timelock

import (
	"encoding/json"

	"github.com/iov-one/timelock/errors"
)

// Options is the app_state of the genesis file, one raw json section per
// extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the section named key into obj. A missing section
// leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "%q options: %s", key, err)
	}
	return nil
}

// Initializer writes the initial state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs initializers in order and stops at the first
// error.
type ChainInitializers []Initializer

var _ Initializer = ChainInitializers{}

func (c ChainInitializers) FromGenesis(opts Options, db KVStore) error {
	for _, in := range c {
		if err := in.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
