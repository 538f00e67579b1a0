package timelock

import (
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is what a handler returns when a transaction was applied.
// A failure is always reported through the error instead.
type DeliverResult struct {
	// Data is returned to the client, for example a new escrow address.
	Data []byte
	Log  string
	// Tags are indexed by tendermint so clients can search for the tx.
	Tags    []common.KVPair
	GasUsed int64
}

// ToABCI returns the successful response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is what a handler returns when a transaction may enter the
// mempool.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is reported as the gas the tx wants.
	GasAllocated int64
}

// ToABCI returns the successful response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverResponse turns the outcome of a Deliver call into the ABCI
// response. An error takes precedence over res. Unless debug is set,
// errors that are not registered are reported without their message.
func DeliverResponse(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err == nil {
		return res.ToABCI()
	}
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: "deliver: " + log}
}

// CheckResponse is DeliverResponse for the Check phase.
func CheckResponse(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err == nil {
		return res.ToABCI()
	}
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{Code: code, Log: "check: " + log}
}

// ParseDeliverResponse reads a DeliverTx response back, rebuilding the
// registered error for a failure code.
func ParseDeliverResponse(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}
