package errors

import "fmt"

const (
	// SuccessABCICode is the code of a successful response.
	SuccessABCICode uint32 = 0

	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

type coder interface {
	ABCICode() uint32
}

// ABCIInfo returns the code and log to put in an ABCI response. Errors
// without a registered kind become code 1 with a generic log, and a
// recovered panic only reports "panic". Debug mode keeps every message and
// adds the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	case ErrPanic.Is(err):
		return code, ErrPanic.desc
	}
	return code, err.Error()
}

// ABCIError rebuilds an error from a response code and log. The result
// matches its registered kind:
//   ErrUnauthorized.Is(ABCIError(2, "...")) == true
// Code 0 gives nil.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	desc := internalABCILog
	if kind, ok := registry[code]; ok {
		desc = kind.desc
	}
	return &remoteError{code: code, desc: desc, log: log}
}

type remoteError struct {
	code uint32
	desc string
	log  string
}

func (e *remoteError) Error() string {
	if e.log != "" {
		return e.log
	}
	return e.desc
}

func (e *remoteError) ABCICode() uint32 {
	return e.code
}

// abciCode returns the code of the first registered kind err wraps.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}
