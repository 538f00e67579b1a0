package x

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Authenticator reports who authorized the transaction in the context.
// Handlers receive one at construction so they do not depend on how
// authorization was proven.
type Authenticator interface {
	// GetConditions lists every condition the transaction satisfies.
	GetConditions(timelock.Context) []timelock.Condition
	// HasAddress reports whether one of those conditions owns addr.
	HasAddress(timelock.Context, timelock.Address) bool
}

// RequireSigner fails with ErrUnauthorized unless addr authorized the
// transaction. role names the party in the error, such as "depositor".
func RequireSigner(ctx timelock.Context, auth Authenticator, addr timelock.Address, role string) error {
	if auth.HasAddress(ctx, addr) {
		return nil
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s %s did not sign", role, addr)
}
