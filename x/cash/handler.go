package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// sendCost is the gas a transfer reports in CheckTx.
const sendCost = 100

// RegisterRoutes binds the send handler to "cash/send".
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, ctrl))
}

// RegisterQuery exposes balances under "/wallets".
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler moves tokens between two wallets. The source must sign.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, ctrl Controller) SendHandler {
	return SendHandler{auth: auth, ctrl: ctrl}
}

// Check rejects a transfer the source cannot cover, without moving
// anything.
func (h SendHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	balance, err := h.ctrl.Balance(db, msg.Source)
	if err != nil {
		return nil, err
	}
	if balance < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", balance, msg.Amount)
	}
	return &timelock.CheckResult{GasAllocated: sendCost}, nil
}

func (h SendHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h SendHandler) load(ctx timelock.Context, tx timelock.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Source, "source"); err != nil {
		return nil, err
	}
	return &msg, nil
}
