package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "escrow-test-1"

// account is a key together with the sequence its next signature must use.
type account struct {
	key *crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{key: crypto.GenPrivKeyEd25519()}
}

func (a *account) address() timelock.Address {
	return a.key.PublicKey().Address()
}

func (a *account) sign(t *testing.T, msg timelock.Msg) []byte {
	t.Helper()
	tx := &Tx{Msg: msg}
	sig, err := sigs.SignTx(a.key, tx, chainID, a.seq)
	require.NoError(t, err)
	a.seq++
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := tx.Marshal()
	require.NoError(t, err)
	return raw
}

func newTestApp(t *testing.T, genesis string) (app.BaseApp, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := utils.NewMetrics(reg)
	require.NoError(t, err)
	abciApp, err := NewApp("", log.NewNopLogger(), false, metrics)
	require.NoError(t, err)
	myApp := abciApp.(app.BaseApp)

	myApp.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(genesis),
	})
	return myApp, reg
}

func block(t *testing.T, myApp app.BaseApp, height int64, at time.Time, txs ...[]byte) []abci.ResponseDeliverTx {
	t.Helper()
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{
		ChainID: chainID,
		Height:  height,
		Time:    at,
	}})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = myApp.DeliverTx(tx)
	}
	myApp.EndBlock(abci.RequestEndBlock{Height: height})
	commit := myApp.Commit()
	require.NotEmpty(t, commit.Data)
	return res
}

func requireCode(t *testing.T, want error, res abci.ResponseDeliverTx) {
	t.Helper()
	code, _ := errors.ABCIInfo(want, false)
	require.Equal(t, code, res.Code, res.Log)
}

func queryBalance(t *testing.T, myApp app.BaseApp, addr timelock.Address) uint64 {
	t.Helper()
	res := myApp.Query(abci.RequestQuery{Path: "/wallets", Data: addr})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var b cash.Balance
	require.NoError(t, app.UnmarshalOneResult(res.Value, &b))
	return b.Amount
}

func queryEscrow(t *testing.T, myApp app.BaseApp, addr timelock.Address) *escrow.Escrow {
	t.Helper()
	res := myApp.Query(abci.RequestQuery{Path: "/escrows", Data: addr})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var set app.ResultSet
	require.NoError(t, set.Unmarshal(res.Value))
	if len(set.Results) == 0 {
		return nil
	}
	var e escrow.Escrow
	require.NoError(t, e.Unmarshal(set.Results[0]))
	return &e
}

func genesisFor(accounts ...*account) string {
	type dict map[string]interface{}
	var wallets []cash.GenesisAccount
	for _, a := range accounts {
		wallets = append(wallets, cash.GenesisAccount{Address: a.address(), Amount: 5000000000})
	}
	raw, err := json.Marshal(dict{"cash": wallets})
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func TestEscrowLifecycle(t *testing.T) {
	depositor, beneficiary := newAccount(), newAccount()
	myApp, reg := newTestApp(t, genesisFor(depositor, beneficiary))

	addr, bump, err := escrow.FindAddress(depositor.address(), beneficiary.address())
	require.NoError(t, err)
	parties := escrow.Parties{Depositor: depositor.address(), Beneficiary: beneficiary.address()}

	now := time.Unix(1700000000, 0).UTC()
	res := block(t, myApp, 1, now,
		depositor.sign(t, &escrow.InitializeMsg{
			Parties:         parties,
			UnlockTimestamp: timelock.AsUnixTime(now.Add(5 * time.Second)),
			Bump:            uint32(bump),
		}),
		depositor.sign(t, &escrow.DepositMsg{Parties: parties, Amount: 1000000000}),
		beneficiary.sign(t, &escrow.WithdrawMsg{Parties: parties}),
	)
	requireCode(t, nil, res[0])
	assert.Equal(t, []byte(addr), res[0].Data)
	assert.Contains(t, res[0].Tags, common.KVPair{Key: []byte(utils.ActionKey), Value: []byte("escrow/initialize")})
	assert.Contains(t, res[0].Tags, common.KVPair{Key: []byte(escrow.TagKey), Value: []byte(addr.String())})
	requireCode(t, nil, res[1])
	requireCode(t, escrow.ErrUnlockTimeNotReached, res[2])

	e := queryEscrow(t, myApp, addr)
	require.NotNil(t, e)
	assert.Equal(t, escrow.StateDeposited, e.State)
	assert.Equal(t, uint64(1000000000), e.Amount)
	assert.Equal(t, uint64(5000000000-1000000000)-escrow.DefaultStorageReserve, queryBalance(t, myApp, depositor.address()))

	// the failed withdraw still used the beneficiary nonce
	res = block(t, myApp, 2, now.Add(5*time.Second),
		beneficiary.sign(t, &escrow.WithdrawMsg{Parties: parties}),
	)
	requireCode(t, nil, res[0])

	assert.Nil(t, queryEscrow(t, myApp, addr))
	got := queryBalance(t, myApp, beneficiary.address())
	assert.Equal(t, uint64(5000000000+1000000000)+escrow.DefaultStorageReserve, got)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestEscrowCancel(t *testing.T) {
	depositor, beneficiary := newAccount(), newAccount()
	myApp, _ := newTestApp(t, genesisFor(depositor, beneficiary))

	_, bump, err := escrow.FindAddress(depositor.address(), beneficiary.address())
	require.NoError(t, err)
	parties := escrow.Parties{Depositor: depositor.address(), Beneficiary: beneficiary.address()}

	now := time.Unix(1700000000, 0).UTC()
	res := block(t, myApp, 1, now,
		depositor.sign(t, &escrow.InitializeMsg{
			Parties:         parties,
			UnlockTimestamp: timelock.AsUnixTime(now.Add(10 * time.Second)),
			Bump:            uint32(bump),
		}),
		depositor.sign(t, &escrow.DepositMsg{Parties: parties, Amount: 1000000000}),
		depositor.sign(t, &escrow.CancelMsg{Parties: parties}),
		depositor.sign(t, &escrow.CancelMsg{Parties: parties}),
		// unsigned by the depositor
		beneficiary.sign(t, &escrow.InitializeMsg{
			Parties:         parties,
			UnlockTimestamp: timelock.AsUnixTime(now.Add(10 * time.Second)),
			Bump:            uint32(bump),
		}),
	)
	requireCode(t, nil, res[0])
	requireCode(t, nil, res[1])
	requireCode(t, nil, res[2])
	requireCode(t, escrow.ErrAccountNotInitialized, res[3])
	requireCode(t, errors.ErrUnauthorized, res[4])

	assert.Equal(t, uint64(5000000000), queryBalance(t, myApp, depositor.address()))
}

func TestRejectsBadSignatures(t *testing.T) {
	depositor, beneficiary := newAccount(), newAccount()
	myApp, _ := newTestApp(t, genesisFor(depositor, beneficiary))

	send := &cash.SendMsg{
		Source:      depositor.address(),
		Destination: beneficiary.address(),
		Amount:      100,
	}

	// wrong sequence
	depositor.seq = 5
	bad := depositor.sign(t, send)
	depositor.seq = 0

	// no signature at all
	unsigned, err := (&Tx{Msg: send}).Marshal()
	require.NoError(t, err)

	check := myApp.CheckTx(unsigned)
	code, _ := errors.ABCIInfo(errors.ErrUnauthorized, false)
	assert.Equal(t, code, check.Code)

	res := block(t, myApp, 1, time.Unix(1700000000, 0),
		bad,
		unsigned,
		depositor.sign(t, send),
	)
	requireCode(t, sigs.ErrInvalidSequence, res[0])
	requireCode(t, errors.ErrUnauthorized, res[1])
	requireCode(t, nil, res[2])
	assert.Equal(t, uint64(5000000100), queryBalance(t, myApp, beneficiary.address()))

	res = block(t, myApp, 2, time.Unix(1700000010, 0), []byte("garbage"))
	assert.NotEqual(t, uint32(0), res[0].Code)
}

func TestGenInitOptions(t *testing.T) {
	addr := newAccount().address()
	raw, err := GenInitOptions([]string{addr.String(), "42"})
	require.NoError(t, err)

	var opts timelock.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	var accounts []cash.GenesisAccount
	require.NoError(t, opts.ReadOptions("cash", &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, addr, accounts[0].Address)
	assert.Equal(t, uint64(42), accounts[0].Amount)

	var conf escrow.Config
	require.NoError(t, opts.ReadOptions("escrow", &conf))
	assert.Equal(t, escrow.DefaultStorageReserve, conf.StorageReserve)

	_, err = GenInitOptions([]string{addr.String(), "lots"})
	assert.True(t, errors.ErrAmount.Is(err))
	_, err = GenInitOptions([]string{"abcd"})
	assert.True(t, errors.ErrInput.Is(err))

	// the genesis must be accepted by the application
	myApp, _ := newTestApp(t, string(raw))
	assert.Equal(t, uint64(42), queryBalance(t, myApp, addr))
	assert.Equal(t, chainID, myApp.GetChainID())
}
