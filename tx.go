package timelock

import (
	"reflect"

	"github.com/iov-one/timelock/errors"
)

// Marshaller encodes a value. Non pointer types can satisfy it.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a value that can be stored and read back. Unmarshal
// usually needs a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is the action a transaction requests. It carries no authentication,
// that lives on the Tx around it.
type Msg interface {
	Persistent

	// Path selects the handler, for example "escrow/deposit". Several
	// message types may share a path.
	Path() string

	// Validate checks the message on its own, before any state is read.
	Validate() error
}

// Tx is what a client submits: one message plus whatever the decorators
// need, such as signatures.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(raw []byte) (Tx, error)

// GetPath returns the path of the message in tx, or "(missing)" when it has
// none. It is used for logs and metrics labels.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into dest, which must point to the
// message type, and validates it.
//
//   var msg DepositMsg
//   if err := timelock.LoadMsg(tx, &msg); err != nil {
//       return err
//   }
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	out := reflect.ValueOf(dest)
	if out.Kind() != reflect.Ptr || out.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	in := reflect.Indirect(reflect.ValueOf(msg))
	if !in.Type().AssignableTo(out.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "got %T, want %T", msg, dest)
	}
	out.Elem().Set(in)
	return errors.Wrap(msg.Validate(), "invalid message")
}
