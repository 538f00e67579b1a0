package client

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest/assert"
	abci "github.com/tendermint/tendermint/abci/types"
	rpctest "github.com/tendermint/tendermint/rpc/test"
)

func timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func TestStatusAndHeader(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	assert.Equal(t, false, status.CatchingUp)
	if status.Height < 1 {
		t.Fatalf("unexpected height %d", status.Height)
	}

	header, err := c.Header(ctx, status.Height)
	assert.Nil(t, err)
	assert.Equal(t, status.Height, header.Height)

	_, err = c.Header(ctx, status.Height+50)
	if err == nil {
		t.Fatal("want an error for a block that does not exist")
	}

	chainID, err := c.ChainID(ctx)
	assert.Nil(t, err)
	assert.Equal(t, rpctest.GetConfig().ChainID(), chainID)
}

func TestHeadersInOrder(t *testing.T) {
	c := NewLocalClient(node)
	parent, stop := timeoutCtx()
	defer stop()
	ctx, cancel := context.WithCancel(parent)

	headers, err := c.Headers(ctx)
	assert.Nil(t, err)

	first := <-headers
	for i := int64(1); i <= 2; i++ {
		h, ok := <-headers
		assert.Equal(t, true, ok)
		assert.Equal(t, first.Height+i, h.Height)
	}

	cancel()
	for range headers {
	}
}

func TestWaitForHeight(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	status, err := c.Status(ctx)
	assert.Nil(t, err)

	cases := map[string]int64{
		"reached":  status.Height,
		"next":     status.Height + 1,
		"two more": status.Height + 2,
	}
	for testName, height := range cases {
		t.Run(testName, func(t *testing.T) {
			header, err := c.WaitForHeight(ctx, height)
			assert.Nil(t, err)
			if header.Height < height {
				t.Fatalf("want height %d, got %d", height, header.Height)
			}
		})
	}
}

// kvTx is a raw "key=value" transaction of the kvstore app.
type kvTx []byte

func (kv kvTx) GetMsg() (timelock.Msg, error) { return nil, nil }
func (kv kvTx) Marshal() ([]byte, error)      { return kv, nil }
func (kv *kvTx) Unmarshal(raw []byte) error   { *kv = raw; return nil }

func TestCommitTxAndQuery(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	tx := kvTx("escrow=locked")
	res, err := c.CommitTx(ctx, &tx)
	assert.Nil(t, err)
	assert.Nil(t, res.Err)
	if res.Height < 1 {
		t.Fatalf("unexpected height %d", res.Height)
	}

	found, err := c.TxByID(ctx, res.ID)
	assert.Nil(t, err)
	assert.Equal(t, res.Height, found.Height)

	_, err = c.TxByID(ctx, make([]byte, 32))
	assert.IsErr(t, errors.ErrNotFound, err)

	q := c.Query(abci.RequestQuery{Path: "/store", Data: []byte("escrow")})
	assert.Equal(t, uint32(0), q.Code)
	assert.Equal(t, []byte("locked"), q.Value)
}

func TestSubmitUnreachableNode(t *testing.T) {
	c := Dial("tcp://localhost:1")
	tx := kvTx("a=b")
	_, err := c.SubmitTx(context.Background(), &tx)
	assert.IsErr(t, errors.ErrNetwork, err)

	q := c.Query(abci.RequestQuery{Path: "/store", Data: []byte("a")})
	assert.Equal(t, errors.ErrNetwork.ABCICode(), q.Code)
}
