package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors or only nil values are given, nil is returned.
// If only one non nil error is given, it is returned as is.
// Otherwise an error that carries all of them is returned. Its ABCI code and
// Is method follow the first error.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
		} else {
			flat = append(flat, e)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(m.errs), strings.Join(msgs, "; "))
}

// Cause returns the first error, consistent with a fail-fast ABCI code.
func (m *multiErr) Cause() error {
	return m.errs[0]
}

// Unpack implements unpacker interface.
func (m *multiErr) Unpack() []error {
	return m.errs
}

type unpacker interface {
	Unpack() []error
}
