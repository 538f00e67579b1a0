package client

import (
	"context"
	"fmt"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// indexDelay is how long a node needs after emitting a block event before
// the transactions of that block can be looked up by hash.
const indexDelay = 100 * time.Millisecond

// Header is a tendermint block header.
type Header = tmtypes.Header

// TransactionID is the hash of a raw transaction.
type TransactionID = cmn.HexBytes

// Status is the sync state the node reports about itself.
type Status struct {
	Height     int64
	CatchingUp bool
}

// CommitResult is the outcome of a transaction included in a block. Result
// is set when the transaction was delivered, Err when it was rejected.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *timelock.DeliverResult
	Err    error
}

// Client reads chain state from a tendermint node and commits escrow
// transactions through it. Every rpc failure is reported as ErrNetwork and
// every rejected transaction as the registered error of its ABCI code.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps an open rpc connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewLocalClient talks to a node running in the same process.
func NewLocalClient(node *nm.Node) *Client {
	return NewClient(rpcclient.NewLocal(node))
}

// Dial talks to the node listening on the given rpc address, for example
// tcp://localhost:26657.
func Dial(remote string) *Client {
	return NewClient(rpcclient.NewHTTP(remote, "/websocket"))
}

// Status returns the latest height the node knows of.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	res, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		Height:     res.SyncInfo.LatestBlockHeight,
		CatchingUp: res.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the header of a committed block.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	res, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "header %d: %s", height, err)
	}
	if len(res.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "header %d", height)
	}
	return &res.BlockMetas[0].Header, nil
}

// ChainID returns the chain id from the genesis file of the node.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	res, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	return res.Genesis.ChainID, nil
}

// Query runs an ABCI query against the application. A transport failure is
// returned as a response carrying the ErrNetwork code so that app.ABCIStore
// can decode it like any other failed query.
func (c *Client) Query(q abci.RequestQuery) abci.ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: q.Height, Prove: q.Prove}
	res, err := c.conn.ABCIQueryWithOptions(q.Path, q.Data, opts)
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// SubmitTx puts the transaction into the mempool. A transaction refused by
// CheckTx is returned as an error.
func (c *Client) SubmitTx(ctx context.Context, tx timelock.Tx) (TransactionID, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	return c.submit(raw)
}

func (c *Client) submit(raw []byte) (TransactionID, error) {
	res, err := c.conn.BroadcastTxSync(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	if res.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx submits the transaction and blocks until it is part of a block
// or the context is done.
func (c *Client) CommitTx(ctx context.Context, tx timelock.Tx) (*CommitResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}

	// subscribe first, the block may be produced before broadcast returns
	query := fmt.Sprintf("%s='%s' AND %s='%X'",
		tmtypes.EventTypeKey, tmtypes.EventTx, tmtypes.TxHashKey, tmtypes.Tx(raw).Hash())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := c.subscribe(ctx, query)
	if err != nil {
		return nil, err
	}

	if _, err := c.submit(raw); err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrTimeout, "waiting for tx")
		case ev, ok := <-events:
			if !ok {
				return nil, errors.Wrap(errors.ErrNetwork, "subscription closed")
			}
			data, ok := ev.Data.(tmtypes.EventDataTx)
			if !ok {
				continue
			}
			time.Sleep(indexDelay)
			return commitResult(data.Tx.Hash(), data.Height, data.Result), nil
		}
	}
}

// TxByID returns a committed transaction. An unknown id is ErrNotFound.
func (c *Client) TxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	res, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "tx %X: %s", id, err)
	}
	return commitResult(res.Hash, res.Height, res.TxResult), nil
}

// Headers streams the header of every new block until the context is done,
// then closes the channel.
func (c *Client) Headers(ctx context.Context) (<-chan Header, error) {
	query := fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, tmtypes.EventNewBlockHeader)
	events, err := c.subscribe(ctx, query)
	if err != nil {
		return nil, err
	}
	headers := make(chan Header, 1)
	go func() {
		defer close(headers)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if data, ok := ev.Data.(tmtypes.EventDataNewBlockHeader); ok {
					select {
					case headers <- data.Header:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return headers, nil
}

// WaitForHeight blocks until a block of at least the given height is
// committed and returns its header. A height already reached returns at
// once.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	headers, err := c.Headers(ctx)
	if err != nil {
		return nil, err
	}

	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status.Height >= height {
		return c.Header(ctx, height)
	}
	for h := range headers {
		if h.Height >= height {
			time.Sleep(indexDelay)
			return &h, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrTimeout, "height %d", height)
}

// subscribe registers the query with the node until the context is done.
func (c *Client) subscribe(ctx context.Context, query string) (<-chan ctypes.ResultEvent, error) {
	subscriber := cmn.RandStr(12)
	events, err := c.conn.Subscribe(ctx, subscriber, query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe %q: %s", query, err)
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Unsubscribe(context.Background(), subscriber, query)
	}()
	return events, nil
}

func commitResult(id TransactionID, height int64, res abci.ResponseDeliverTx) *CommitResult {
	result, err := timelock.ParseDeliverResponse(res)
	return &CommitResult{ID: id, Height: height, Result: result, Err: err}
}
