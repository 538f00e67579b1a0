/*
Package assert holds the few assertions the extension tests share. Each one
stops the test on failure.
*/
package assert

import (
	"reflect"
	"strings"

	"github.com/iov-one/timelock/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, slice, map, chan, func or
// interface.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		if v.IsNil() {
			return
		}
	}
	// %+v prints the stack of errors that carry one
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails unless both values are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	panicked := func() (p bool) {
		defer func() { p = recover() != nil }()
		fn()
		return false
	}()
	if !panicked {
		t.Fatalf("want a panic")
	}
}

// IsErr fails unless got is the want error, or want reports it as one of
// its kind. A nil want only accepts a nil got.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError checks the errors reported for a single field of a validated
// model. A nil want requires that the field has no error. Otherwise exactly
// one error of the want kind must be reported.
func FieldError(t Tester, err error, field string, want *errors.Error) {
	t.Helper()
	found := errors.FieldErrors(err, field)
	if want == nil {
		if len(found) != 0 {
			t.Fatalf("field %s: want no error, got %s", field, describe(found))
		}
		return
	}
	if len(found) != 1 || !want.Is(found[0]) {
		t.Fatalf("field %s: want %q, got %s", field, want, describe(found))
	}
}

func describe(errs []error) string {
	if len(errs) == 0 {
		return "none"
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "[" + strings.Join(msgs, "; ") + "]"
}
