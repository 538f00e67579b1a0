package cash

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestSendHandler(t *testing.T) {
	perm := timelocktest.NewCondition()
	perm2 := timelocktest.NewCondition()

	cases := map[string]struct {
		signer  timelock.Condition
		msg     timelock.Msg
		wantErr *errors.Error
		wantSrc uint64
		wantDst uint64
	}{
		"wrong message type": {
			signer:  perm,
			msg:     &timelocktest.Msg{RoutePath: pathSendMsg},
			wantErr: errors.ErrType,
			wantSrc: 500,
		},
		"invalid message": {
			signer:  perm,
			msg:     &SendMsg{Source: perm.Address(), Destination: perm2.Address()},
			wantErr: errors.ErrAmount,
			wantSrc: 500,
		},
		"missing signature": {
			signer:  perm2,
			msg:     &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 100},
			wantErr: errors.ErrUnauthorized,
			wantSrc: 500,
		},
		"not enough funds": {
			signer:  perm,
			msg:     &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 501},
			wantErr: errors.ErrInsufficientAmount,
			wantSrc: 500,
		},
		"empty source": {
			signer:  perm2,
			msg:     &SendMsg{Source: perm2.Address(), Destination: perm.Address(), Amount: 1},
			wantErr: errors.ErrInsufficientAmount,
			wantSrc: 500,
		},
		"send everything": {
			signer:  perm,
			msg:     &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 500},
			wantSrc: 0,
			wantDst: 500,
		},
		"send": {
			signer:  perm,
			msg:     &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 100, Memo: "rent"},
			wantSrc: 400,
			wantDst: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			assert.Nil(t, ctrl.CoinMint(db, perm.Address(), 500))

			auth := &timelocktest.Auth{Signer: tc.signer}
			rt := newTestRouter()
			RegisterRoutes(rt, auth, ctrl)
			h := rt.handlers[pathSendMsg]

			ctx := context.Background()
			tx := &timelocktest.Tx{Msg: tc.msg}

			_, err := h.Check(ctx, db, tx)
			assert.IsErr(t, tc.wantErr, err)
			// check must leave balances untouched
			got, err := ctrl.Balance(db, perm.Address())
			assert.Nil(t, err)
			assert.Equal(t, uint64(500), got)

			_, err = h.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantErr, err)

			got, err = ctrl.Balance(db, perm.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSrc, got)
			got, err = ctrl.Balance(db, perm2.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDst, got)
		})
	}
}

func TestWalletQuery(t *testing.T) {
	db := store.MemStore()
	addr := timelocktest.NewCondition().Address()
	assert.Nil(t, NewController(NewBucket()).CoinMint(db, addr, 42))

	qr := timelock.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/wallets").Query(db, timelock.KeyQueryMod, addr)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	var b Balance
	assert.Nil(t, b.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(42), b.Amount)
}

type testRouter struct {
	handlers map[string]timelock.Handler
}

func newTestRouter() *testRouter {
	return &testRouter{handlers: make(map[string]timelock.Handler)}
}

func (r *testRouter) Handle(path string, h timelock.Handler) {
	r.handlers[path] = h
}
