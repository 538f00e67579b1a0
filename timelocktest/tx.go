package timelocktest

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Tx wraps a single message. It is never serialized.
type Tx struct {
	Msg timelock.Msg
	// Err is returned instead of the message.
	Err error
}

var _ timelock.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (timelock.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return nil, errors.Wrap(errors.ErrHuman, "test transactions are not serialized")
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "test transactions are not serialized")
}

// Msg is a message routed to RoutePath. Its encoding is whatever Serialized
// holds.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err fails Marshal and Unmarshal.
	Err error
	// ValidErr fails Validate.
	ValidErr error
}

var _ timelock.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

func (m *Msg) Validate() error {
	return m.ValidErr
}
