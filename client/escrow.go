package client

import (
	"context"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	escrowd "github.com/iov-one/timelock/cmd/escrowd/app"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
)

// Committer submits a transaction and waits until it is included in a block.
type Committer interface {
	CommitTx(ctx context.Context, tx timelock.Tx) (*CommitResult, error)
}

// EscrowClient builds, signs and commits escrow transactions and reads the
// escrow state back.
type EscrowClient struct {
	committer Committer
	store     timelock.ReadOnlyKVStore
	chainID   string
	escrows   escrow.Store
}

// NewEscrowClient returns an escrow client talking to the node behind c.
func NewEscrowClient(c *Client, chainID string) *EscrowClient {
	return newEscrowClient(c, c, chainID)
}

func newEscrowClient(committer Committer, querier app.Querier, chainID string) *EscrowClient {
	return &EscrowClient{
		committer: committer,
		store:     app.NewABCIStore(querier),
		chainID:   chainID,
		escrows:   escrow.NewStore(),
	}
}

// NextNonce returns the sequence the next signature of the address must use.
func (c *EscrowClient) NextNonce(addr timelock.Address) (int64, error) {
	return sigs.NextNonce(c.store, addr)
}

// SignTx wraps the message in a transaction signed by the signer with its
// current nonce.
func (c *EscrowClient) SignTx(signer *crypto.PrivateKey, msg timelock.Msg) (*escrowd.Tx, error) {
	nonce, err := c.NextNonce(signer.PublicKey().Address())
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	tx := &escrowd.Tx{Msg: msg}
	sig, err := sigs.SignTx(signer, tx, c.chainID, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	tx.Signatures = []*sigs.StdSignature{sig}
	return tx, nil
}

func (c *EscrowClient) commit(ctx context.Context, signer *crypto.PrivateKey, msg timelock.Msg) (*timelock.DeliverResult, error) {
	tx, err := c.SignTx(signer, msg)
	if err != nil {
		return nil, err
	}
	res, err := c.committer.CommitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result, nil
}

// Initialize creates the escrow between the depositor key and the
// beneficiary, returning the escrow address.
func (c *EscrowClient) Initialize(ctx context.Context, depositor *crypto.PrivateKey, beneficiary timelock.Address, unlock timelock.UnixTime) (timelock.Address, error) {
	from := depositor.PublicKey().Address()
	addr, bump, err := escrow.FindAddress(from, beneficiary)
	if err != nil {
		return nil, err
	}
	msg := &escrow.InitializeMsg{
		Parties: escrow.Parties{
			Depositor:   from,
			Beneficiary: beneficiary,
			Escrow:      addr,
		},
		UnlockTimestamp: unlock,
		Bump:            uint32(bump),
	}
	if _, err := c.commit(ctx, depositor, msg); err != nil {
		return nil, err
	}
	return addr, nil
}

// Deposit funds an initialized escrow.
func (c *EscrowClient) Deposit(ctx context.Context, depositor *crypto.PrivateKey, beneficiary timelock.Address, amount uint64) error {
	msg := &escrow.DepositMsg{
		Parties: escrow.Parties{
			Depositor:   depositor.PublicKey().Address(),
			Beneficiary: beneficiary,
		},
		Amount: amount,
	}
	_, err := c.commit(ctx, depositor, msg)
	return err
}

// Withdraw releases a deposited escrow to the beneficiary key.
func (c *EscrowClient) Withdraw(ctx context.Context, beneficiary *crypto.PrivateKey, depositor timelock.Address) error {
	msg := &escrow.WithdrawMsg{
		Parties: escrow.Parties{
			Depositor:   depositor,
			Beneficiary: beneficiary.PublicKey().Address(),
		},
	}
	_, err := c.commit(ctx, beneficiary, msg)
	return err
}

// Cancel returns the escrow funds to the depositor key.
func (c *EscrowClient) Cancel(ctx context.Context, depositor *crypto.PrivateKey, beneficiary timelock.Address) error {
	msg := &escrow.CancelMsg{
		Parties: escrow.Parties{
			Depositor:   depositor.PublicKey().Address(),
			Beneficiary: beneficiary,
		},
	}
	_, err := c.commit(ctx, depositor, msg)
	return err
}

// Send moves tokens between two wallets.
func (c *EscrowClient) Send(ctx context.Context, from *crypto.PrivateKey, to timelock.Address, amount uint64, memo string) error {
	msg := &cash.SendMsg{
		Source:      from.PublicKey().Address(),
		Destination: to,
		Amount:      amount,
		Memo:        memo,
	}
	_, err := c.commit(ctx, from, msg)
	return err
}

// GetEscrow returns the escrow of the pair, or nil if there is none.
func (c *EscrowClient) GetEscrow(depositor, beneficiary timelock.Address) (*escrow.Escrow, error) {
	addr, _, err := escrow.FindAddress(depositor, beneficiary)
	if err != nil {
		return nil, err
	}
	return c.escrows.Read(c.store, addr)
}

// EscrowsByDepositor lists the escrows funded by the address.
func (c *EscrowClient) EscrowsByDepositor(depositor timelock.Address) ([]*escrow.Escrow, error) {
	return c.escrows.ByDepositor(c.store, depositor)
}

// EscrowsByBeneficiary lists the escrows payable to the address.
func (c *EscrowClient) EscrowsByBeneficiary(beneficiary timelock.Address) ([]*escrow.Escrow, error) {
	return c.escrows.ByBeneficiary(c.store, beneficiary)
}

// Balance returns the tokens held by the address, zero for an unknown one.
func (c *EscrowClient) Balance(addr timelock.Address) (uint64, error) {
	obj, err := cash.NewBucket().Get(c.store, addr)
	if err != nil {
		return 0, err
	}
	if b := cash.AsBalance(obj); b != nil {
		return b.Amount, nil
	}
	return 0, nil
}
