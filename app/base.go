package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a complete abci.Application. StoreApp answers the state and
// block lifecycle calls, BaseApp decodes transactions and passes them to
// the handler stack.
type BaseApp struct {
	*StoreApp
	decoder timelock.TxDecoder
	handler timelock.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp wires a decoder and a handler on top of the store. With debug
// set, error logs returned to the client keep their stack traces.
func NewBaseApp(store *StoreApp, decoder timelock.TxDecoder, handler timelock.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// CheckTx runs the handler against the check state. The writes are dropped
// at the next commit.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return timelock.CheckResponse(nil, err, b.debug)
	}
	res, err := b.handler.Check(b.txContext(tx, "check_tx"), b.CheckStore(), tx)
	return timelock.CheckResponse(res, err, b.debug)
}

// DeliverTx runs the handler against the deliver state, which is persisted
// on commit.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return timelock.DeliverResponse(nil, err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext(tx, "deliver_tx"), b.DeliverStore(), tx)
	return timelock.DeliverResponse(res, err, b.debug)
}

func (b BaseApp) txContext(tx timelock.Tx, call string) timelock.Context {
	return timelock.WithLogInfo(b.blockContext, "call", call, "path", timelock.GetPath(tx))
}

// decode turns a decoder panic into an error. Raw bytes come from the
// network and must never bring the node down.
func (b BaseApp) decode(raw []byte) (tx timelock.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
