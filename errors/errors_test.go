package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	cases := map[string]struct {
		kind *Error
		err  error
		want bool
	}{
		"the kind itself":        {kind: ErrNotFound, err: ErrNotFound, want: true},
		"another kind":           {kind: ErrNotFound, err: ErrState, want: false},
		"wrapped twice":          {kind: ErrNotFound, err: Wrap(Wrapf(ErrNotFound, "a %d", 1), "b"), want: true},
		"wrapped by pkg/errors":  {kind: ErrNotFound, err: errors.Wrap(ErrNotFound, "gone"), want: true},
		"other kind wrapped":     {kind: ErrNotFound, err: errors.Wrap(ErrOverflow, "big"), want: false},
		"stdlib error":           {kind: ErrNotFound, err: fmt.Errorf("not found"), want: false},
		"nil kind and nil error": {kind: nil, err: nil, want: true},
		"nil kind and typed nil": {kind: nil, err: (*wrappedError)(nil), want: true},
		"nil kind and an error":  {kind: nil, err: ErrInput, want: false},
		"rebuilt from a code":    {kind: ErrUnauthorized, err: ABCIError(ErrUnauthorized.code, "cannot deliver tx: unauthorized"), want: true},
		"other rebuilt code":     {kind: ErrUnauthorized, err: ABCIError(ErrNotFound.code, "x"), want: false},
		"first of many":          {kind: ErrEmpty, err: Append(ErrEmpty.New("a"), ErrInput.New("b")), want: true},
		"second of many":         {kind: ErrInput, err: Append(ErrEmpty.New("a"), ErrInput.New("b")), want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Is(tc.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))

	std := stderrors.New("disk full")
	err := Wrap(Wrap(std, "inner"), "outer")
	assert.Equal(t, "outer: inner: disk full", err.Error())
	assert.Equal(t, std, errors.Cause(err))
	assert.Equal(t, ErrNotFound, errors.Cause(ErrNotFound.New("x")))

	// the stack trace is printed once, from the innermost wrap
	verbose := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(verbose, "outer: inner: disk full"))
	assert.Contains(t, verbose, "TestWrap")
	assert.Equal(t, "outer: inner: disk full", fmt.Sprintf("%v", err))
}

func TestRegister(t *testing.T) {
	assert.Panics(t, func() { Register(ErrNotFound.code, "again") })
	assert.Panics(t, func() { Register(internalABCICode, "internal") })
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	assert.True(t, ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Amount", ErrAmount, "must be %s", "positive"),
		nil,
		Wrap(Field("Parties.Depositor", ErrEmpty, "required"), "escrow"),
	)
	got := FieldErrors(err, "Amount")
	if assert.Len(t, got, 1) {
		assert.True(t, ErrAmount.Is(got[0]))
		assert.Equal(t, `field "Amount": must be positive: invalid amount`, got[0].Error())
	}
	got = FieldErrors(err, "Parties.Depositor")
	if assert.Len(t, got, 1) {
		assert.True(t, ErrEmpty.Is(got[0]))
	}
	assert.Empty(t, FieldErrors(err, "Arbiter"))
	assert.Empty(t, FieldErrors(nil, "Amount"))

	assert.Nil(t, Field("Amount", nil, "unused"))
	assert.Nil(t, AppendField(nil, "Amount", nil))
	assert.Nil(t, Append(nil, nil))
	single := ErrInput.New("only")
	assert.Equal(t, single, Append(nil, single))
}
