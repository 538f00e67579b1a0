package errors

import (
	"fmt"
	"reflect"
)

// Codes 2 to 20 are shared by every extension. Code 1 is reserved for
// unregistered errors, which clients only ever see as "internal error".
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrMsg                = Register(4, "invalid message")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrImmutable          = Register(8, "cannot be modified")
	ErrEmpty              = Register(9, "value is empty")
	ErrState              = Register(10, "invalid state")
	ErrType               = Register(11, "invalid type")
	ErrAmount             = Register(12, "invalid amount")
	ErrInput              = Register(13, "invalid input")
	ErrOverflow           = Register(15, "an operation cannot be completed due to value overflow")
	ErrInsufficientAmount = Register(16, "insufficient amount")
	ErrDatabase           = Register(17, "database")
	ErrIteratorDone       = Register(18, "iterator done")
	ErrNetwork            = Register(19, "network")
	ErrTimeout            = Register(20, "timeout")

	// ErrPanic marks a recovered panic. Its message is never sent to
	// clients outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every code in use, to keep codes unique.
var registry = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: internalABCILog},
}

// Register declares a new kind of error. Registering a code twice panics,
// so call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, dup := registry[code]; dup {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a registered kind of error. Errors returned at runtime wrap one
// of them, so that the kind and its ABCI code survive any amount of
// context added on top.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }
func (e Error) ABCICode() uint32 { return e.code }

// New wraps the kind with a description. It is the same as
// Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a format string.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err is of this kind, looking through any wraps. An
// error rebuilt by ABCIError matches on its code. A nil kind matches only
// nil errors, including typed nil pointers.
func (e *Error) Is(err error) bool {
	if e == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	for err != nil {
		if err == e {
			return true
		}
		if r, ok := err.(*remoteError); ok {
			return r.code == e.code
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
