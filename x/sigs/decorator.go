/*
Package sigs authenticates transactions by their ed25519 signatures and
keeps a sequence per signer so that no signature can be replayed.
*/
package sigs

import (
	"context"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// RegisterQuery exposes the signer records under /auth.
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of every SignedTx and stores the
// signers in the context for the handlers below. Other transactions pass
// through unauthenticated.
type Decorator struct {
	optional bool
}

var _ timelock.Decorator = Decorator{}

// NewDecorator returns a decorator that rejects a SignedTx without any
// signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy that lets unsigned transactions through
// with no signers.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	ctx, err := d.withSigners(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	ctx, err := d.withSigners(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) withSigners(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Context, error) {
	signed, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := Verify(db, signed, timelock.GetChainID(ctx))
	if err != nil {
		return nil, err
	}
	if len(signers) == 0 && !d.optional {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signature")
	}
	return context.WithValue(ctx, signersKey{}, signers), nil
}

type signersKey struct{}

// Authenticate reads the signers stored by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the verified signers, nil outside a signed tx.
func (Authenticate) GetConditions(ctx timelock.Context) []timelock.Condition {
	signers, _ := ctx.Value(signersKey{}).([]timelock.Condition)
	return signers
}

// HasAddress reports whether one of the signers owns addr.
func (a Authenticate) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
