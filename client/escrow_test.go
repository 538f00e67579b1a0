package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	escrowd "github.com/iov-one/timelock/cmd/escrowd/app"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest/assert"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const escrowChainID = "client-test-chain"

// blockCommitter delivers every transaction in its own block of an in
// process application.
type blockCommitter struct {
	app    app.BaseApp
	height int64
	now    time.Time
}

func (b *blockCommitter) CommitTx(ctx context.Context, tx timelock.Tx) (*CommitResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, err
	}
	b.height++
	b.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{
		ChainID: escrowChainID,
		Height:  b.height,
		Time:    b.now,
	}})
	res := b.app.DeliverTx(raw)
	b.app.EndBlock(abci.RequestEndBlock{Height: b.height})
	b.app.Commit()

	result, err := timelock.ParseDeliverResponse(res)
	return &CommitResult{Height: b.height, Result: result, Err: err}, nil
}

func newEscrowFixture(t *testing.T, funded ...*crypto.PrivateKey) (*EscrowClient, *blockCommitter) {
	t.Helper()
	metrics, err := utils.NewMetrics(nil)
	assert.Nil(t, err)
	abciApp, err := escrowd.NewApp("", log.NewNopLogger(), false, metrics)
	assert.Nil(t, err)
	myApp := abciApp.(app.BaseApp)

	var accounts []cash.GenesisAccount
	for _, key := range funded {
		accounts = append(accounts, cash.GenesisAccount{Address: key.PublicKey().Address(), Amount: 1000000000})
	}
	genesis, err := json.Marshal(map[string]interface{}{"cash": accounts})
	assert.Nil(t, err)
	myApp.InitChain(abci.RequestInitChain{ChainId: escrowChainID, AppStateBytes: genesis})

	committer := &blockCommitter{app: myApp, now: time.Unix(1700000000, 0).UTC()}
	return newEscrowClient(committer, myApp, escrowChainID), committer
}

func TestEscrowClientWithdraw(t *testing.T) {
	depositor, beneficiary := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()
	from, to := depositor.PublicKey().Address(), beneficiary.PublicKey().Address()
	c, chain := newEscrowFixture(t, depositor)
	ctx := context.Background()

	unlock := timelock.AsUnixTime(chain.now.Add(time.Minute))
	addr, err := c.Initialize(ctx, depositor, to, unlock)
	assert.Nil(t, err)
	assert.Nil(t, c.Deposit(ctx, depositor, to, 5000))

	e, err := c.GetEscrow(from, to)
	assert.Nil(t, err)
	if e == nil {
		t.Fatal("escrow not found")
	}
	assert.Equal(t, escrow.StateDeposited, e.State)
	assert.Equal(t, uint64(5000), e.Amount)
	assert.Equal(t, unlock, e.UnlockTimestamp)

	byDepositor, err := c.EscrowsByDepositor(from)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(byDepositor))
	byBeneficiary, err := c.EscrowsByBeneficiary(to)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(byBeneficiary))

	held, err := c.Balance(addr)
	assert.Nil(t, err)
	assert.Equal(t, 5000+escrow.DefaultStorageReserve, held)

	// the beneficiary has no wallet yet but may still sign
	err = c.Withdraw(ctx, beneficiary, from)
	if !escrow.ErrUnlockTimeNotReached.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	chain.now = chain.now.Add(time.Minute)
	assert.Nil(t, c.Withdraw(ctx, beneficiary, from))

	got, err := c.Balance(to)
	assert.Nil(t, err)
	assert.Equal(t, 5000+escrow.DefaultStorageReserve, got)

	e, err = c.GetEscrow(from, to)
	assert.Nil(t, err)
	if e != nil {
		t.Fatalf("escrow not deleted: %+v", e)
	}

	nonce, err := c.NextNonce(to)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), nonce)
}

func TestEscrowClientCancelAndSend(t *testing.T) {
	depositor, beneficiary := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()
	from, to := depositor.PublicKey().Address(), beneficiary.PublicKey().Address()
	c, chain := newEscrowFixture(t, depositor)
	ctx := context.Background()

	unlock := timelock.AsUnixTime(chain.now.Add(time.Hour))
	_, err := c.Initialize(ctx, depositor, to, unlock)
	assert.Nil(t, err)

	_, err = c.Initialize(ctx, depositor, to, unlock)
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	assert.Nil(t, c.Cancel(ctx, depositor, to))
	left, err := c.Balance(from)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000000000), left)

	err = c.Deposit(ctx, depositor, to, 10)
	if !escrow.ErrAccountNotInitialized.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	assert.Nil(t, c.Send(ctx, depositor, to, 300, "thanks"))
	got, err := c.Balance(to)
	assert.Nil(t, err)
	assert.Equal(t, uint64(300), got)

	err = c.Send(ctx, beneficiary, from, 1000, "too much")
	if !errors.ErrInsufficientAmount.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
