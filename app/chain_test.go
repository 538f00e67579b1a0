package app

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
	"github.com/iov-one/timelock/x/utils"
)

func TestChain(t *testing.T) {
	c1 := &timelocktest.Decorator{}
	c2 := &timelocktest.Decorator{}
	c3 := &timelocktest.Decorator{}
	h := &timelocktest.Handler{}

	var missing *timelocktest.Decorator
	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		nil,
		c2,
		missing,
	).Chain(c3).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()

	_, err := stack.Check(ctx, db, &timelocktest.Tx{})
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, db, &timelocktest.Tx{})
	assert.Nil(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// an error stops the chain before it reaches the handler
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, db, &timelocktest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainRecoversPanics(t *testing.T) {
	stack := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
	).WithHandler(panicHandler{})

	_, err := stack.Check(context.Background(), store.MemStore(), &timelocktest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(context.Background(), store.MemStore(), &timelocktest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
}

type panicHandler struct{}

func (panicHandler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	panic("deliver")
}
