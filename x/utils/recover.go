package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Recovery converts a panic below it into an ErrPanic result, so a bug in
// one handler fails the transaction instead of the node.
type Recovery struct{}

var _ timelock.Decorator = Recovery{}

// NewRecovery returns the decorator. It belongs at the top of the chain.
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (res *timelock.CheckResult, err error) {
	defer func() { reportPanic(ctx, recover(), &err) }()
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (res *timelock.DeliverResult, err error) {
	defer func() { reportPanic(ctx, recover(), &err) }()
	return next.Deliver(ctx, db, tx)
}

func reportPanic(ctx timelock.Context, r interface{}, err *error) {
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	timelock.GetLogger(ctx).Error("handler panic", "err", *err)
}
