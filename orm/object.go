package orm

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// SimpleObj is the Object every bucket in this module stores: a key and a
// value that can copy itself.
type SimpleObj struct {
	key   []byte
	value CloneableData
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj pairs a key with a value. The key may be nil for a template
// object passed to NewBucket.
func NewSimpleObj(key []byte, value CloneableData) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte { return o.key }
func (o SimpleObj) Value() timelock.Persistent { return o.value }
func (o *SimpleObj) SetKey(key []byte) { o.key = key }

// Validate requires a key and a value, then validates the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return o.value.Validate()
}

// Clone returns a deep copy. Changes to the clone never reach the original.
func (o *SimpleObj) Clone() Object {
	clone := &SimpleObj{value: o.value.Copy()}
	if len(o.key) != 0 {
		clone.key = append([]byte(nil), o.key...)
	}
	return clone
}
