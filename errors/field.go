package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a field name to err, so that validation failures can be
// told apart by the field they are about. A nil err gives nil. The
// description is formatted with args when any are given.
//
// Name fields the way the Go struct does, with dots for nesting, for
// example Arbiter or Parties.Depositor.
func Field(name string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds err, labeled with the field name, to the errors
// collected so far. Either argument may be nil.
func AppendField(collected error, name string, err error) error {
	return Append(collected, Field(name, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.field, e.parent)
}

func (e *fieldError) Cause() error  { return e.parent }
func (e *fieldError) Field() string { return e.field }

type fielder interface {
	Field() string
}

// FieldErrors collects the errors labeled with the field name anywhere in
// err, descending into wrapped and appended errors.
func FieldErrors(err error, name string) []error {
	var found []error
	for !errIsNil(err) {
		if f, ok := err.(fielder); ok && f.Field() == name {
			return append(found, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, child := range u.Unpack() {
				found = append(found, FieldErrors(child, name)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}
