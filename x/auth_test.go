package x

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestRequireSigner(t *testing.T) {
	depositor := timelocktest.NewCondition()
	beneficiary := timelocktest.NewCondition()
	viaCtx := &timelocktest.CtxAuth{Key: "signers"}

	cases := map[string]struct {
		ctx     timelock.Context
		auth    Authenticator
		addr    timelock.Address
		wantErr *errors.Error
	}{
		"no signers": {
			ctx:     context.Background(),
			auth:    &timelocktest.Auth{},
			addr:    depositor.Address(),
			wantErr: errors.ErrUnauthorized,
		},
		"main signer": {
			ctx:  context.Background(),
			auth: &timelocktest.Auth{Signer: depositor},
			addr: depositor.Address(),
		},
		"other signer": {
			ctx:     context.Background(),
			auth:    &timelocktest.Auth{Signer: beneficiary},
			addr:    depositor.Address(),
			wantErr: errors.ErrUnauthorized,
		},
		"one of several": {
			ctx:  context.Background(),
			auth: &timelocktest.Auth{Signers: []timelock.Condition{beneficiary, depositor}},
			addr: depositor.Address(),
		},
		"read from context": {
			ctx:  viaCtx.SetConditions(context.Background(), beneficiary),
			auth: viaCtx,
			addr: beneficiary.Address(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := RequireSigner(tc.ctx, tc.auth, tc.addr, "depositor")
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}
