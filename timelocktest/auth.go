package timelocktest

import (
	"context"

	"github.com/iov-one/timelock"
)

// Auth authenticates a fixed set of parties, whatever the context.
type Auth struct {
	// Signer is a shortcut for a single signing party. It is reported after
	// Signers.
	Signer timelock.Condition
	// Signers are all other signing parties.
	Signers []timelock.Condition
}

func (a *Auth) GetConditions(timelock.Context) []timelock.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	all := make([]timelock.Condition, 0, len(a.Signers)+1)
	all = append(all, a.Signers...)
	return append(all, a.Signer)
}

func (a *Auth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the parties stored in the context under Key. Tests
// use it to sign every step of an escrow with a different party.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context in which exactly the given parties have
// signed.
func (a *CtxAuth) SetConditions(ctx timelock.Context, signers ...timelock.Condition) timelock.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a *CtxAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	signers, _ := ctx.Value(ctxAuthKey(a.Key)).([]timelock.Condition)
	return signers
}

func (a *CtxAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []timelock.Condition, addr timelock.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
